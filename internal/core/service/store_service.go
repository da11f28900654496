package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecomrating/store-rating/internal/core/credential"
	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
	"github.com/ecomrating/store-rating/internal/core/rating"
)

// StoreService lists stores with their rating aggregates and lets admins
// register new ones.
type StoreService struct {
	stores  ports.StoreRepository
	users   ports.UserRepository
	ratings ports.RatingRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewStoreService(stores ports.StoreRepository, users ports.UserRepository, ratings ports.RatingRepository, log zerolog.Logger) *StoreService {
	return &StoreService{stores: stores, users: users, ratings: ratings, log: log, now: time.Now}
}

// List is open to anonymous callers. A NORMAL_USER additionally sees their
// own score for each store.
func (s *StoreService) List(ctx context.Context, id *domain.Identity, filter ports.StoreFilter) ([]ports.StoreSummary, error) {
	stores, err := s.stores.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out, err := s.summarize(ctx, stores)
	if err != nil {
		return nil, err
	}

	if id != nil && id.Role.Can(domain.OpViewOwnRating) && len(stores) > 0 {
		mine, err := s.ratings.FindByUser(ctx, id.UserID, storeIDs(stores))
		if err != nil {
			return nil, err
		}
		for i := range out {
			if r, ok := mine[out[i].Store.ID]; ok {
				score := r.Score
				out[i].MyRating = &score
			}
		}
	}
	return out, nil
}

// Create registers a store. The owner must be an existing STORE_OWNER.
func (s *StoreService) Create(ctx context.Context, id *domain.Identity, in ports.CreateStoreInput) (*ports.StoreSummary, error) {
	if err := domain.Authorize(id, domain.OpCreateStore); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Address == "" || in.OwnerID == "" {
		return nil, domain.NewValidationError("", "all fields are required")
	}
	if !credential.ValidateEmail(in.Email) {
		return nil, domain.NewValidationError("email", credential.MsgEmail)
	}
	if !credential.ValidateAddress(in.Address) {
		return nil, domain.NewValidationError("address", credential.MsgAddress)
	}

	owner, err := s.users.FindByID(ctx, in.OwnerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if owner == nil || owner.Role != domain.RoleStoreOwner {
		return nil, domain.NewValidationError("owner_id", "owner must be a store owner")
	}

	store := &domain.Store{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Address:   in.Address,
		OwnerID:   owner.ID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}

	s.log.Info().Str("store_id", store.ID).Str("owner_id", owner.ID).Msg("store created")
	return &ports.StoreSummary{
		Store:      store,
		OwnerName:  owner.Name,
		OwnerEmail: owner.Email,
	}, nil
}

// ListOwned returns the caller's stores.
func (s *StoreService) ListOwned(ctx context.Context, id *domain.Identity) ([]ports.StoreSummary, error) {
	if err := domain.Authorize(id, domain.OpListOwnedStores); err != nil {
		return nil, err
	}

	stores, err := s.stores.List(ctx, ports.StoreFilter{OwnerIDs: []string{id.UserID}})
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, stores)
}

// Ratings returns every rating of a store the caller owns, newest first.
func (s *StoreService) Ratings(ctx context.Context, id *domain.Identity, storeID string) (*ports.StoreRatings, error) {
	if err := domain.Authorize(id, domain.OpViewStoreRatings); err != nil {
		return nil, err
	}

	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.OwnerID != id.UserID {
		return nil, domain.ErrForbidden
	}

	ratings, err := s.ratings.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	raterIDs := make([]string, len(ratings))
	scores := make([]int, len(ratings))
	for i, r := range ratings {
		raterIDs[i] = r.UserID
		scores[i] = r.Score
	}
	raters, err := s.users.FindByIDs(ctx, raterIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]ports.StoreRatingEntry, len(ratings))
	for i, r := range ratings {
		entries[i] = ports.StoreRatingEntry{Rating: r}
		if u, ok := raters[r.UserID]; ok {
			entries[i].RaterName = u.Name
			entries[i].RaterEmail = u.Email
			entries[i].RaterAddress = u.Address
		}
	}

	return &ports.StoreRatings{
		Store:   store,
		Summary: rating.Aggregate(scores),
		Ratings: entries,
	}, nil
}

// summarize attaches owner details and rating aggregates to stores.
func (s *StoreService) summarize(ctx context.Context, stores []*domain.Store) ([]ports.StoreSummary, error) {
	out := make([]ports.StoreSummary, len(stores))
	if len(stores) == 0 {
		return out, nil
	}

	ids := storeIDs(stores)
	scores, err := s.ratings.ScoresByStore(ctx, ids)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]string, 0, len(stores))
	for _, st := range stores {
		ownerIDs = append(ownerIDs, st.OwnerID)
	}
	owners, err := s.users.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	for i, st := range stores {
		out[i] = ports.StoreSummary{
			Store:  st,
			Rating: rating.Aggregate(scores[st.ID]),
		}
		if o, ok := owners[st.OwnerID]; ok {
			out[i].OwnerName = o.Name
			out[i].OwnerEmail = o.Email
		}
	}
	return out, nil
}

func storeIDs(stores []*domain.Store) []string {
	ids := make([]string, len(stores))
	for i, st := range stores {
		ids[i] = st.ID
	}
	return ids
}
