package ports

import (
	"context"
	"time"

	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/rating"
)

// RegisterInput is a self sign-up request. The role is always NORMAL_USER.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// UpdateProfileInput changes the caller's own account. NewPassword requires
// CurrentPassword.
type UpdateProfileInput struct {
	Name            *string
	Address         *string
	CurrentPassword string
	NewPassword     *string
}

// LoginResult is a freshly issued session.
type LoginResult struct {
	Token     string
	ExpiresIn time.Duration
	User      *domain.User
}

// AuthService covers registration, login and the caller's own profile.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, id *domain.Identity) (*domain.User, error)
	UpdateProfile(ctx context.Context, id *domain.Identity, in UpdateProfileInput) (*domain.User, error)
}

// CreateUserInput is an admin-created account of any role.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     domain.Role
}

// UpdateUserInput is an admin edit; nil fields are unchanged.
type UpdateUserInput struct {
	Name    *string
	Email   *string
	Address *string
	Role    *domain.Role
}

// UserSummary is a user row in the admin list. Rating is set for store
// owners only and spans all of their stores.
type UserSummary struct {
	User   *domain.User
	Rating *rating.Summary
}

// UserService is the admin user-management surface.
type UserService interface {
	List(ctx context.Context, id *domain.Identity, filter UserFilter) ([]UserSummary, error)
	Create(ctx context.Context, id *domain.Identity, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id *domain.Identity, userID string, in UpdateUserInput) (*domain.User, error)
}

// CreateStoreInput registers a store for an existing STORE_OWNER.
type CreateStoreInput struct {
	Name    string
	Email   string
	Address string
	OwnerID string
}

// StoreSummary is a store with its owner and rating aggregate. MyRating is
// the caller's own score when the caller is a NORMAL_USER who rated it.
type StoreSummary struct {
	Store      *domain.Store
	OwnerName  string
	OwnerEmail string
	Rating     rating.Summary
	MyRating   *int
}

// StoreRatingEntry is one rating shown to the store's owner.
type StoreRatingEntry struct {
	Rating       *domain.Rating
	RaterName    string
	RaterEmail   string
	RaterAddress string
}

// StoreRatings is an owned store's full rating view.
type StoreRatings struct {
	Store   *domain.Store
	Summary rating.Summary
	Ratings []StoreRatingEntry
}

// StoreService lists and manages stores.
type StoreService interface {
	// List is public; id may be nil.
	List(ctx context.Context, id *domain.Identity, filter StoreFilter) ([]StoreSummary, error)
	Create(ctx context.Context, id *domain.Identity, in CreateStoreInput) (*StoreSummary, error)
	ListOwned(ctx context.Context, id *domain.Identity) ([]StoreSummary, error)
	Ratings(ctx context.Context, id *domain.Identity, storeID string) (*StoreRatings, error)
}

// SubmitRatingResult reports the stored rating and whether it was new.
type SubmitRatingResult struct {
	Rating  *domain.Rating
	Created bool
}

// RatingService records and reads a NORMAL_USER's own ratings.
type RatingService interface {
	Submit(ctx context.Context, id *domain.Identity, storeID string, score int) (*SubmitRatingResult, error)
	Mine(ctx context.Context, id *domain.Identity, storeID string) (*domain.Rating, error)
}

// DashboardTotals are the headline counts.
type DashboardTotals struct {
	Users   int64 `json:"total_users"`
	Stores  int64 `json:"total_stores"`
	Ratings int64 `json:"total_ratings"`
}

type RecentUser struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

type RecentStore struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	OwnerName string    `json:"owner_name"`
	CreatedAt time.Time `json:"created_at"`
}

type RecentRating struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	UserName  string    `json:"user_name"`
	StoreName string    `json:"store_name"`
	CreatedAt time.Time `json:"created_at"`
}

type TopStore struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// DashboardSummary is the admin overview. It is JSON-encoded into the cache
// as is.
type DashboardSummary struct {
	Totals         DashboardTotals `json:"stats"`
	RecentUsers    []RecentUser    `json:"recent_users"`
	RecentStores   []RecentStore   `json:"recent_stores"`
	RecentRatings  []RecentRating  `json:"recent_ratings"`
	TopRatedStores []TopStore      `json:"top_rated_stores"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// DashboardService builds the admin overview.
type DashboardService interface {
	Summary(ctx context.Context, id *domain.Identity) (*DashboardSummary, error)
}

// DashboardCache holds a recently built summary.
type DashboardCache interface {
	Get(ctx context.Context) (*DashboardSummary, bool, error)
	Set(ctx context.Context, summary *DashboardSummary) error
}
