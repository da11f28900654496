package handler

import (
	"time"

	"github.com/ecomrating/store-rating/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,person_name"`
	Email    string `json:"email"    validate:"required,account_email"`
	Password string `json:"password" validate:"required,account_password"`
	Address  string `json:"address"  validate:"required,postal_address"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name            *string `json:"name"             validate:"omitempty,person_name"`
	Address         *string `json:"address"          validate:"omitempty,postal_address"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     *string `json:"new_password"     validate:"omitempty,account_password"`
}

type userResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Address   string      `json:"address"`
	Role      domain.Role `json:"role" swaggertype:"string" enums:"SYSTEM_ADMIN,STORE_OWNER,NORMAL_USER"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type authResponse struct {
	Message   string        `json:"message,omitempty"`
	Token     string        `json:"token,omitempty"`
	ExpiresIn int64         `json:"expires_in,omitempty"`
	User      *userResponse `json:"user,omitempty"`
}

// --- Users ---

type createUserRequest struct {
	Name     string      `json:"name"     validate:"required,person_name"`
	Email    string      `json:"email"    validate:"required,account_email"`
	Password string      `json:"password" validate:"required,account_password"`
	Address  string      `json:"address"  validate:"required,postal_address"`
	Role     domain.Role `json:"role"     validate:"required" swaggertype:"string" enums:"SYSTEM_ADMIN,STORE_OWNER,NORMAL_USER"`
}

type updateUserRequest struct {
	Name    *string      `json:"name"    validate:"omitempty,person_name"`
	Email   *string      `json:"email"   validate:"omitempty,account_email"`
	Address *string      `json:"address" validate:"omitempty,postal_address"`
	Role    *domain.Role `json:"role"    swaggertype:"string" enums:"SYSTEM_ADMIN,STORE_OWNER,NORMAL_USER"`
}

type userListQuery struct {
	Name      string `query:"name"`
	Email     string `query:"email"`
	Address   string `query:"address"`
	Role      string `query:"role"`
	SortBy    string `query:"sort_by"    validate:"omitempty,oneof=name email address role created_at"`
	SortOrder string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// userSummaryResponse is a row of the admin user list. The rating fields are
// present for store owners only.
type userSummaryResponse struct {
	userResponse
	AverageRating *float64 `json:"average_rating,omitempty"`
	TotalRatings  *int     `json:"total_ratings,omitempty"`
}

// --- Stores ---

type createStoreRequest struct {
	Name    string `json:"name"     validate:"required"`
	Email   string `json:"email"    validate:"required,account_email"`
	Address string `json:"address"  validate:"required,postal_address"`
	OwnerID string `json:"owner_id" validate:"required"`
}

type storeListQuery struct {
	Name      string `query:"name"`
	Address   string `query:"address"`
	SortBy    string `query:"sort_by"    validate:"omitempty,oneof=name email address created_at"`
	SortOrder string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type storeResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	OwnerID       string    `json:"owner_id"`
	OwnerName     string    `json:"owner_name,omitempty"`
	OwnerEmail    string    `json:"owner_email,omitempty"`
	AverageRating *float64  `json:"average_rating"`
	TotalRatings  int       `json:"total_ratings"`
	MyRating      *int      `json:"my_rating,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type createStoreResponse struct {
	Message string        `json:"message"`
	Store   storeResponse `json:"store"`
}

type raterResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type storeRatingResponse struct {
	ID        string        `json:"id"`
	Rating    int           `json:"rating"`
	User      raterResponse `json:"user"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type storeRatingsResponse struct {
	Store         storeResponse         `json:"store"`
	AverageRating *float64              `json:"average_rating"`
	TotalRatings  int                   `json:"total_ratings"`
	Ratings       []storeRatingResponse `json:"ratings"`
}

// --- Ratings ---

type submitRatingRequest struct {
	StoreID string `json:"store_id" validate:"required"`
	Rating  int    `json:"rating"`
}

type ratingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StoreID   string    `json:"store_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type submitRatingResponse struct {
	Message string         `json:"message"`
	Rating  ratingResponse `json:"rating"`
}

// myRatingResponse carries a null rating when the caller has not rated the store.
type myRatingResponse struct {
	Rating *ratingResponse `json:"rating"`
}
