package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ecomrating/store-rating/docs"
	"github.com/ecomrating/store-rating/internal/api/handler"
	"github.com/ecomrating/store-rating/internal/api/middleware"
	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Log          zerolog.Logger
	Tokens       middleware.TokenVerifier
	SecureCookie bool

	Auth      ports.AuthService
	Users     ports.UserService
	Stores    ports.StoreService
	Ratings   ports.RatingService
	Dashboard ports.DashboardService

	// Readiness lists the dependency pings behind /health/ready.
	Readiness map[string]handler.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics("/metrics"))
	// Handles errors itself so outer middleware sees the final status.
	e.Use(requestLogger(deps.Log))

	authHandler := handler.NewAuthHandler(deps.Auth, deps.SecureCookie)
	userHandler := handler.NewUserHandler(deps.Users)
	storeHandler := handler.NewStoreHandler(deps.Stores)
	ratingHandler := handler.NewRatingHandler(deps.Ratings)
	dashboardHandler := handler.NewDashboardHandler(deps.Dashboard)

	authRequired := middleware.Auth(deps.Tokens)
	require := middleware.Require

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, authRequired, require(domain.OpViewProfile))
	auth.PATCH("/me", authHandler.UpdateMe, authRequired, require(domain.OpUpdateProfile))

	// --- Stores ---
	stores := api.Group("/stores")
	stores.GET("", storeHandler.List, middleware.OptionalAuth(deps.Tokens))
	stores.POST("", storeHandler.Create, authRequired, require(domain.OpCreateStore))
	stores.GET("/mine", storeHandler.Mine, authRequired, require(domain.OpListOwnedStores))
	stores.GET("/:id/ratings", storeHandler.Ratings, authRequired, require(domain.OpViewStoreRatings))

	// --- Ratings ---
	ratings := api.Group("/ratings", authRequired)
	ratings.POST("", ratingHandler.Submit, require(domain.OpSubmitRating))
	ratings.GET("/:storeId", ratingHandler.Mine, require(domain.OpViewOwnRating))

	// --- Users (admin) ---
	users := api.Group("/users", authRequired)
	users.GET("", userHandler.List, require(domain.OpListUsers))
	users.POST("", userHandler.Create, require(domain.OpCreateUser))
	users.PATCH("/:id", userHandler.Update, require(domain.OpUpdateUser))

	api.GET("/dashboard", dashboardHandler.Summary, authRequired, require(domain.OpViewDashboard))

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Readiness).Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
