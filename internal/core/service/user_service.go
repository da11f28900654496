package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecomrating/store-rating/internal/core/credential"
	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
	"github.com/ecomrating/store-rating/internal/core/rating"
)

// UserService is the admin user-management use case.
type UserService struct {
	users   ports.UserRepository
	stores  ports.StoreRepository
	ratings ports.RatingRepository
	hasher  *credential.PasswordHasher
	log     zerolog.Logger
	now     func() time.Time
}

func NewUserService(
	users ports.UserRepository,
	stores ports.StoreRepository,
	ratings ports.RatingRepository,
	hasher *credential.PasswordHasher,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:   users,
		stores:  stores,
		ratings: ratings,
		hasher:  hasher,
		log:     log,
		now:     time.Now,
	}
}

// List returns users matching filter. Store owners carry the aggregate of
// every rating across all stores they own.
func (s *UserService) List(ctx context.Context, id *domain.Identity, filter ports.UserFilter) ([]ports.UserSummary, error) {
	if err := domain.Authorize(id, domain.OpListUsers); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var ownerIDs []string
	for _, u := range users {
		if u.Role == domain.RoleStoreOwner {
			ownerIDs = append(ownerIDs, u.ID)
		}
	}

	scoresByOwner, err := s.ownerScores(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ports.UserSummary, len(users))
	for i, u := range users {
		out[i] = ports.UserSummary{User: u}
		if u.Role == domain.RoleStoreOwner {
			summary := rating.Aggregate(scoresByOwner[u.ID])
			out[i].Rating = &summary
		}
	}
	return out, nil
}

func (s *UserService) ownerScores(ctx context.Context, ownerIDs []string) (map[string][]int, error) {
	result := make(map[string][]int, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return result, nil
	}

	stores, err := s.stores.List(ctx, ports.StoreFilter{OwnerIDs: ownerIDs})
	if err != nil {
		return nil, err
	}
	if len(stores) == 0 {
		return result, nil
	}

	storeIDs := make([]string, len(stores))
	for i, st := range stores {
		storeIDs[i] = st.ID
	}
	scores, err := s.ratings.ScoresByStore(ctx, storeIDs)
	if err != nil {
		return nil, err
	}

	for _, st := range stores {
		result[st.OwnerID] = append(result[st.OwnerID], scores[st.ID]...)
	}
	return result, nil
}

// Create adds an account with any role.
func (s *UserService) Create(ctx context.Context, id *domain.Identity, in ports.CreateUserInput) (*domain.User, error) {
	if err := domain.Authorize(id, domain.OpCreateUser); err != nil {
		return nil, err
	}

	in.Email = normalizeEmail(in.Email)
	fields := credential.AccountFields{Name: in.Name, Email: in.Email, Password: in.Password, Address: in.Address}
	if err := fields.Check(); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, domain.NewValidationError("role", "invalid role")
	}

	user, err := newUser(ctx, s.users, s.hasher, s.now(), fields, in.Role)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Str("created_by", id.UserID).Msg("user created")
	return user, nil
}

// Update edits another account's name, email, address or role.
func (s *UserService) Update(ctx context.Context, id *domain.Identity, userID string, in ports.UpdateUserInput) (*domain.User, error) {
	if err := domain.Authorize(id, domain.OpUpdateUser); err != nil {
		return nil, err
	}
	if in.Name == nil && in.Email == nil && in.Address == nil && in.Role == nil {
		return nil, domain.NewValidationError("", "no changes provided")
	}

	update := ports.UserUpdate{Name: in.Name, Address: in.Address, Role: in.Role}
	if in.Name != nil && !credential.ValidateName(*in.Name) {
		return nil, domain.NewValidationError("name", credential.MsgName)
	}
	if in.Address != nil && !credential.ValidateAddress(*in.Address) {
		return nil, domain.NewValidationError("address", credential.MsgAddress)
	}
	if in.Role != nil && !in.Role.Valid() {
		return nil, domain.NewValidationError("role", "invalid role")
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if !credential.ValidateEmail(email) {
			return nil, domain.NewValidationError("email", credential.MsgEmail)
		}
		existing, err := s.users.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != userID:
			return nil, domain.ErrEmailTaken
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		update.Email = &email
	}

	updated, err := s.users.Update(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Str("updated_by", id.UserID).Msg("user updated")
	return updated, nil
}
