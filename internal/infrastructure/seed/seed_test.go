package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomrating/store-rating/internal/core/credential"
	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
)

type memUsers struct {
	ports.UserRepository
	byEmail map[string]*domain.User
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ErrEmailTaken
	}
	m.byEmail[u.Email] = u
	return nil
}

type memStores struct {
	ports.StoreRepository
	all []*domain.Store
}

func (m *memStores) List(_ context.Context, f ports.StoreFilter) ([]*domain.Store, error) {
	var out []*domain.Store
	for _, s := range m.all {
		for _, id := range f.OwnerIDs {
			if s.OwnerID == id {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func (m *memStores) Create(_ context.Context, s *domain.Store) error {
	m.all = append(m.all, s)
	return nil
}

type memRatings struct {
	ports.RatingRepository
	byKey map[[2]string]*domain.Rating
}

func (m *memRatings) FindByUser(_ context.Context, userID string, storeIDs []string) (map[string]*domain.Rating, error) {
	out := map[string]*domain.Rating{}
	for _, id := range storeIDs {
		if r, ok := m.byKey[[2]string{userID, id}]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (m *memRatings) UpsertRating(_ context.Context, r *domain.Rating) (bool, error) {
	key := [2]string{r.UserID, r.StoreID}
	_, existed := m.byKey[key]
	m.byKey[key] = r
	return !existed, nil
}

func TestRun_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := &memUsers{byEmail: map[string]*domain.User{}}
	stores := &memStores{}
	ratings := &memRatings{byKey: map[[2]string]*domain.Rating{}}
	repos := Repositories{Users: users, Stores: stores, Ratings: ratings}
	hasher := credential.NewPasswordHasher(4)

	require.NoError(t, Run(ctx, repos, hasher, zerolog.Nop()))
	require.NoError(t, Run(ctx, repos, hasher, zerolog.Nop()))

	assert.Len(t, users.byEmail, 3)
	assert.Len(t, stores.all, 2)
	assert.Len(t, ratings.byKey, 2)

	adminUser := users.byEmail["admin@ecomrating.com"]
	require.NotNil(t, adminUser)
	assert.Equal(t, domain.RoleSystemAdmin, adminUser.Role)
	assert.True(t, hasher.Verify("AdminPass123!", adminUser.PasswordHash))

	ownerUser := users.byEmail["storeowner@ecomrating.com"]
	for _, s := range stores.all {
		assert.Equal(t, ownerUser.ID, s.OwnerID)
	}

	raterID := users.byEmail["user@ecomrating.com"].ID
	assert.Equal(t, 4, ratings.byKey[[2]string{raterID, stores.all[0].ID}].Score)
	assert.Equal(t, 5, ratings.byKey[[2]string{raterID, stores.all[1].ID}].Score)
}

func TestRun_KeepsExistingRatings(t *testing.T) {
	ctx := context.Background()
	users := &memUsers{byEmail: map[string]*domain.User{}}
	stores := &memStores{}
	ratings := &memRatings{byKey: map[[2]string]*domain.Rating{}}
	repos := Repositories{Users: users, Stores: stores, Ratings: ratings}
	hasher := credential.NewPasswordHasher(4)

	require.NoError(t, Run(ctx, repos, hasher, zerolog.Nop()))

	raterID := users.byEmail["user@ecomrating.com"].ID
	key := [2]string{raterID, stores.all[0].ID}
	ratings.byKey[key] = &domain.Rating{UserID: raterID, StoreID: stores.all[0].ID, Score: 1}

	require.NoError(t, Run(ctx, repos, hasher, zerolog.Nop()))
	assert.Equal(t, 1, ratings.byKey[key].Score)
}

func TestDemoAccountsPassPolicy(t *testing.T) {
	for _, a := range []account{admin, owner, rater} {
		err := credential.AccountFields{Name: a.name, Email: a.email, Password: a.password, Address: a.address}.Check()
		assert.NoError(t, err, a.email)
	}
}
