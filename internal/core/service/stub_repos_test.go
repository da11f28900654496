package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecomrating/store-rating/internal/core/credential"
	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
)

const (
	testPassword = "Passw0rd!"
	testAddress  = "1 Test Road, Test Town"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if !contains(u.Name, f.Name) || !contains(u.Email, f.Email) || !contains(u.Address, f.Address) {
			continue
		}
		if f.Role != domain.RoleUnknown && u.Role != f.Role {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Address != nil {
		u.Address = *upd.Address
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) Recent(_ context.Context, limit int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubStoreRepo struct {
	mu     sync.Mutex
	stores map[string]*domain.Store
}

func newStubStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{stores: make(map[string]*domain.Store)}
}

func (r *stubStoreRepo) Create(_ context.Context, store *domain.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stores {
		if s.Email == store.Email {
			return domain.ErrStoreEmailTaken
		}
	}
	clone := *store
	r.stores[store.ID] = &clone
	return nil
}

func (r *stubStoreRepo) FindByID(_ context.Context, id string) (*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, domain.ErrStoreNotFound
}

func (r *stubStoreRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*domain.Store, len(ids))
	for _, id := range ids {
		if s, ok := r.stores[id]; ok {
			clone := *s
			out[id] = &clone
		}
	}
	return out, nil
}

func (r *stubStoreRepo) List(_ context.Context, f ports.StoreFilter) ([]*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Store
	for _, s := range r.stores {
		if !contains(s.Name, f.Name) || !contains(s.Address, f.Address) {
			continue
		}
		if len(f.OwnerIDs) > 0 && !inSlice(f.OwnerIDs, s.OwnerID) {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubStoreRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.stores)), nil
}

func (r *stubStoreRepo) Recent(_ context.Context, limit int) ([]*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Store, 0, len(r.stores))
	for _, s := range r.stores {
		clone := *s
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubRatingRepo struct {
	mu      sync.Mutex
	ratings map[[2]string]*domain.Rating
	now     time.Time
}

func newStubRatingRepo() *stubRatingRepo {
	return &stubRatingRepo{
		ratings: make(map[[2]string]*domain.Rating),
		now:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *stubRatingRepo) UpsertRating(_ context.Context, in *domain.Rating) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = r.now.Add(time.Second)
	key := [2]string{in.UserID, in.StoreID}
	if existing, ok := r.ratings[key]; ok {
		existing.Score = in.Score
		existing.UpdatedAt = r.now
		return false, nil
	}
	r.ratings[key] = &domain.Rating{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		StoreID:   in.StoreID,
		Score:     in.Score,
		CreatedAt: r.now,
		UpdatedAt: r.now,
	}
	return true, nil
}

func (r *stubRatingRepo) Find(_ context.Context, userID, storeID string) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rt, ok := r.ratings[[2]string{userID, storeID}]; ok {
		clone := *rt
		return &clone, nil
	}
	return nil, domain.ErrRatingNotFound
}

func (r *stubRatingRepo) FindByUser(_ context.Context, userID string, storeIDs []string) (map[string]*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*domain.Rating)
	for _, id := range storeIDs {
		if rt, ok := r.ratings[[2]string{userID, id}]; ok {
			clone := *rt
			out[id] = &clone
		}
	}
	return out, nil
}

func (r *stubRatingRepo) ListByStore(_ context.Context, storeID string) ([]*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Rating
	for _, rt := range r.ratings {
		if rt.StoreID == storeID {
			clone := *rt
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubRatingRepo) ScoresByStore(_ context.Context, storeIDs []string) (map[string][]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string][]int)
	for _, rt := range r.ratings {
		if storeIDs != nil && !inSlice(storeIDs, rt.StoreID) {
			continue
		}
		out[rt.StoreID] = append(out[rt.StoreID], rt.Score)
	}
	return out, nil
}

func (r *stubRatingRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.ratings)), nil
}

func (r *stubRatingRepo) Recent(_ context.Context, limit int) ([]*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Rating, 0, len(r.ratings))
	for _, rt := range r.ratings {
		clone := *rt
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func contains(value, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(value), strings.ToLower(sub))
}

func inSlice(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// fixture wires every service over one set of stub repositories.
type fixture struct {
	users     *stubUserRepo
	stores    *stubStoreRepo
	ratings   *stubRatingRepo
	hasher    *credential.PasswordHasher
	tokens    *credential.TokenIssuer
	auth      *AuthService
	userSvc   *UserService
	storeSvc  *StoreService
	ratingSvc *RatingService
	clock     time.Time
}

func newFixture() *fixture {
	f := &fixture{
		users:   newStubUserRepo(),
		stores:  newStubStoreRepo(),
		ratings: newStubRatingRepo(),
		hasher:  credential.NewPasswordHasher(4),
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	tokens, err := credential.NewTokenIssuer("secret", time.Hour)
	if err != nil {
		panic(err)
	}
	f.tokens = tokens

	log := zerolog.Nop()
	f.auth = NewAuthService(f.users, f.hasher, f.tokens, log)
	f.userSvc = NewUserService(f.users, f.stores, f.ratings, f.hasher, log)
	f.storeSvc = NewStoreService(f.stores, f.users, f.ratings, log)
	f.ratingSvc = NewRatingService(f.ratings, f.stores, log)

	tick := func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	f.auth.now = tick
	f.userSvc.now = tick
	f.storeSvc.now = tick
	return f
}

// addUser stores an account directly, bypassing validation.
func (f *fixture) addUser(name, email string, role domain.Role) *domain.Identity {
	hash, err := f.hasher.Hash(testPassword)
	if err != nil {
		panic(err)
	}
	f.clock = f.clock.Add(time.Minute)
	u := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Address:      testAddress,
		Role:         role,
		CreatedAt:    f.clock,
		UpdatedAt:    f.clock,
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	id := u.Identity()
	return &id
}

func (f *fixture) addStore(name, email string, owner *domain.Identity) *domain.Store {
	f.clock = f.clock.Add(time.Minute)
	s := &domain.Store{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Address:   testAddress,
		OwnerID:   owner.UserID,
		CreatedAt: f.clock,
	}
	if err := f.stores.Create(context.Background(), s); err != nil {
		panic(err)
	}
	return s
}
