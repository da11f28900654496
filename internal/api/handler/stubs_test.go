package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ecomrating/store-rating/internal/api/middleware"
	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	meFn       func(ctx context.Context, id *domain.Identity) (*domain.User, error)
	updateFn   func(ctx context.Context, id *domain.Identity, in ports.UpdateProfileInput) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, id *domain.Identity) (*domain.User, error) {
	return s.meFn(ctx, id)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, id *domain.Identity, in ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

type stubUserService struct {
	listFn   func(ctx context.Context, id *domain.Identity, filter ports.UserFilter) ([]ports.UserSummary, error)
	createFn func(ctx context.Context, id *domain.Identity, in ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, id *domain.Identity, userID string, in ports.UpdateUserInput) (*domain.User, error)
}

func (s *stubUserService) List(ctx context.Context, id *domain.Identity, filter ports.UserFilter) ([]ports.UserSummary, error) {
	return s.listFn(ctx, id, filter)
}

func (s *stubUserService) Create(ctx context.Context, id *domain.Identity, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, id, in)
}

func (s *stubUserService) Update(ctx context.Context, id *domain.Identity, userID string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, userID, in)
}

type stubStoreService struct {
	listFn    func(ctx context.Context, id *domain.Identity, filter ports.StoreFilter) ([]ports.StoreSummary, error)
	createFn  func(ctx context.Context, id *domain.Identity, in ports.CreateStoreInput) (*ports.StoreSummary, error)
	ownedFn   func(ctx context.Context, id *domain.Identity) ([]ports.StoreSummary, error)
	ratingsFn func(ctx context.Context, id *domain.Identity, storeID string) (*ports.StoreRatings, error)
}

func (s *stubStoreService) List(ctx context.Context, id *domain.Identity, filter ports.StoreFilter) ([]ports.StoreSummary, error) {
	return s.listFn(ctx, id, filter)
}

func (s *stubStoreService) Create(ctx context.Context, id *domain.Identity, in ports.CreateStoreInput) (*ports.StoreSummary, error) {
	return s.createFn(ctx, id, in)
}

func (s *stubStoreService) ListOwned(ctx context.Context, id *domain.Identity) ([]ports.StoreSummary, error) {
	return s.ownedFn(ctx, id)
}

func (s *stubStoreService) Ratings(ctx context.Context, id *domain.Identity, storeID string) (*ports.StoreRatings, error) {
	return s.ratingsFn(ctx, id, storeID)
}

type stubRatingService struct {
	submitFn func(ctx context.Context, id *domain.Identity, storeID string, score int) (*ports.SubmitRatingResult, error)
	mineFn   func(ctx context.Context, id *domain.Identity, storeID string) (*domain.Rating, error)
}

func (s *stubRatingService) Submit(ctx context.Context, id *domain.Identity, storeID string, score int) (*ports.SubmitRatingResult, error) {
	return s.submitFn(ctx, id, storeID, score)
}

func (s *stubRatingService) Mine(ctx context.Context, id *domain.Identity, storeID string) (*domain.Rating, error) {
	return s.mineFn(ctx, id, storeID)
}

type stubDashboardService struct {
	summaryFn func(ctx context.Context, id *domain.Identity) (*ports.DashboardSummary, error)
}

func (s *stubDashboardService) Summary(ctx context.Context, id *domain.Identity) (*ports.DashboardSummary, error) {
	return s.summaryFn(ctx, id)
}

// fixedVerifier accepts any token and resolves it to one identity.
type fixedVerifier struct {
	id domain.Identity
}

func (v fixedVerifier) Verify(string) (domain.Identity, bool) {
	return v.id, true
}

// newTestContext builds an echo context with the request validator
// installed. A non-empty body is sent as JSON.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asCaller runs h behind the Auth middleware so that id is in context.
func asCaller(c echo.Context, id domain.Identity, h echo.HandlerFunc) error {
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer test")
	return middleware.Auth(fixedVerifier{id: id})(h)(c)
}

var (
	adminCaller  = domain.Identity{UserID: "u-admin", Email: "admin@example.com", Role: domain.RoleSystemAdmin}
	ownerCaller  = domain.Identity{UserID: "u-owner", Email: "owner@example.com", Role: domain.RoleStoreOwner}
	normalCaller = domain.Identity{UserID: "u-normal", Email: "user@example.com", Role: domain.RoleNormalUser}
)
