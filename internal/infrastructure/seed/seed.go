// Package seed loads the demo accounts, stores and ratings. Every step looks
// up existing records by email first, so running it again is a no-op.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecomrating/store-rating/internal/core/credential"
	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
)

type account struct {
	name, email, password, address string
	role                           domain.Role
}

var (
	admin = account{
		name: "System Administrator User Account", email: "admin@ecomrating.com",
		password: "AdminPass123!", address: "123 Admin Street, Admin City, AC 12345",
		role: domain.RoleSystemAdmin,
	}
	owner = account{
		name: "Store Owner User Account Example", email: "storeowner@ecomrating.com",
		password: "StorePass123!", address: "456 Store Street, Store City, SC 67890",
		role: domain.RoleStoreOwner,
	}
	rater = account{
		name: "Normal User Account Example User", email: "user@ecomrating.com",
		password: "UserPass123!", address: "789 User Street, User City, UC 11111",
		role: domain.RoleNormalUser,
	}
)

type demoStore struct {
	name, email, address string
	score                int
}

var stores = []demoStore{
	{"Sample Electronics Store", "store1@example.com", "100 Electronics Ave, Tech City, TC 22222", 4},
	{"Sample Clothing Store", "store2@example.com", "200 Fashion Blvd, Style City, SC 33333", 5},
}

// Repositories are the stores the seed writes to.
type Repositories struct {
	Users   ports.UserRepository
	Stores  ports.StoreRepository
	Ratings ports.RatingRepository
}

type seeder struct {
	repos  Repositories
	hasher *credential.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time
}

// Run creates whatever part of the demo data is missing.
func Run(ctx context.Context, repos Repositories, hasher *credential.PasswordHasher, log zerolog.Logger) error {
	s := &seeder{repos: repos, hasher: hasher, log: log, now: time.Now}

	if _, err := s.user(ctx, admin); err != nil {
		return err
	}
	ownerUser, err := s.user(ctx, owner)
	if err != nil {
		return err
	}
	raterUser, err := s.user(ctx, rater)
	if err != nil {
		return err
	}

	storeIDs := make([]string, 0, len(stores))
	for _, st := range stores {
		created, err := s.store(ctx, st, ownerUser.ID)
		if err != nil {
			return err
		}
		storeIDs = append(storeIDs, created.ID)
	}

	existing, err := repos.Ratings.FindByUser(ctx, raterUser.ID, storeIDs)
	if err != nil {
		return fmt.Errorf("seed ratings: %w", err)
	}
	for i, id := range storeIDs {
		if _, ok := existing[id]; ok {
			continue
		}
		if _, err := repos.Ratings.UpsertRating(ctx, &domain.Rating{UserID: raterUser.ID, StoreID: id, Score: stores[i].score}); err != nil {
			return fmt.Errorf("seed rating for %s: %w", stores[i].email, err)
		}
	}

	log.Info().
		Str("admin", admin.email).
		Str("store_owner", owner.email).
		Str("user", rater.email).
		Msg("demo data seeded")
	return nil
}

func (s *seeder) user(ctx context.Context, a account) (*domain.User, error) {
	u, err := s.repos.Users.FindByEmail(ctx, a.email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("seed user %s: %w", a.email, err)
	}

	hash, err := s.hasher.Hash(a.password)
	if err != nil {
		return nil, fmt.Errorf("seed user %s: %w", a.email, err)
	}
	now := s.now().UTC()
	u = &domain.User{
		ID:           uuid.NewString(),
		Name:         a.name,
		Email:        a.email,
		PasswordHash: hash,
		Address:      a.address,
		Role:         a.role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("seed user %s: %w", a.email, err)
	}
	s.log.Debug().Str("email", a.email).Stringer("role", a.role).Msg("seed user created")
	return u, nil
}

// store returns the owner's store with st's email, creating it when absent.
func (s *seeder) store(ctx context.Context, st demoStore, ownerID string) (*domain.Store, error) {
	owned, err := s.repos.Stores.List(ctx, ports.StoreFilter{OwnerIDs: []string{ownerID}})
	if err != nil {
		return nil, fmt.Errorf("seed store %s: %w", st.email, err)
	}
	for _, existing := range owned {
		if existing.Email == st.email {
			return existing, nil
		}
	}

	created := &domain.Store{
		ID:        uuid.NewString(),
		Name:      st.name,
		Email:     st.email,
		Address:   st.address,
		OwnerID:   ownerID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repos.Stores.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("seed store %s: %w", st.email, err)
	}
	return created, nil
}
