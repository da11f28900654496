package ports

import (
	"context"

	"github.com/ecomrating/store-rating/internal/core/domain"
)

// SortOrder is the direction of a list query.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// UserSortField names the columns a user list may be ordered by.
type UserSortField string

const (
	UserSortName      UserSortField = "name"
	UserSortEmail     UserSortField = "email"
	UserSortAddress   UserSortField = "address"
	UserSortRole      UserSortField = "role"
	UserSortCreatedAt UserSortField = "created_at"
)

// UserFilter selects users. Empty string fields and RoleUnknown mean "any";
// text fields match case-insensitive substrings.
type UserFilter struct {
	Name      string
	Email     string
	Address   string
	Role      domain.Role
	SortBy    UserSortField
	SortOrder SortOrder
}

// UserUpdate carries the fields to change; nil fields are left as they are.
type UserUpdate struct {
	Name         *string
	Email        *string
	Address      *string
	PasswordHash *string
	Role         *domain.Role
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Address == nil && u.PasswordHash == nil && u.Role == nil
}

// UserRepository persists accounts. Email is unique.
type UserRepository interface {
	// Create returns domain.ErrEmailTaken when the email is already used.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	// Update returns the stored user after the change.
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]*domain.User, error)
}

// StoreSortField names the columns a store list may be ordered by.
type StoreSortField string

const (
	StoreSortName      StoreSortField = "name"
	StoreSortEmail     StoreSortField = "email"
	StoreSortAddress   StoreSortField = "address"
	StoreSortCreatedAt StoreSortField = "created_at"
)

// StoreFilter selects stores. Empty fields mean "any".
type StoreFilter struct {
	Name      string
	Address   string
	OwnerIDs  []string
	SortBy    StoreSortField
	SortOrder SortOrder
}

// StoreRepository persists stores. Email is unique.
type StoreRepository interface {
	// Create returns domain.ErrStoreEmailTaken when the email is already used.
	Create(ctx context.Context, store *domain.Store) error
	FindByID(ctx context.Context, id string) (*domain.Store, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Store, error)
	List(ctx context.Context, filter StoreFilter) ([]*domain.Store, error)
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]*domain.Store, error)
}

// RatingRepository persists ratings, at most one per (user, store).
type RatingRepository interface {
	// UpsertRating inserts or replaces the score for (r.UserID, r.StoreID)
	// and reports whether a new record was created.
	UpsertRating(ctx context.Context, r *domain.Rating) (bool, error)
	Find(ctx context.Context, userID, storeID string) (*domain.Rating, error)
	// FindByUser returns the user's ratings keyed by store id.
	FindByUser(ctx context.Context, userID string, storeIDs []string) (map[string]*domain.Rating, error)
	// ListByStore returns the store's ratings, newest first.
	ListByStore(ctx context.Context, storeID string) ([]*domain.Rating, error)
	// ScoresByStore returns every score for each of storeIDs; a nil storeIDs
	// means all stores.
	ScoresByStore(ctx context.Context, storeIDs []string) (map[string][]int, error)
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]*domain.Rating, error)
}
