package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ecomrating/store-rating/internal/core/domain"
)

const (
	// TokenCookie carries the session token for browser clients.
	TokenCookie = "token"

	identityKey = "identity"
)

// TokenVerifier resolves a session token to its identity.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, bool)
}

// Auth requires a valid session token, read from an "Authorization: Bearer"
// header or else the token cookie, and injects the identity into context.
func Auth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := tokenFromRequest(c)
			if err != nil {
				return err
			}
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			id, ok := tokens.Verify(raw)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(identityKey, &id)
			return next(c)
		}
	}
}

// OptionalAuth injects the identity when a valid token is present and lets
// the request through anonymously otherwise.
func OptionalAuth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, err := tokenFromRequest(c); err == nil && raw != "" {
				if id, ok := tokens.Verify(raw); ok {
					c.Set(identityKey, &id)
				}
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity set by Auth or OptionalAuth, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}

// tokenFromRequest prefers an explicit Authorization header over the
// cookie, so a stale browser cookie cannot shadow a Bearer token.
func tokenFromRequest(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie.Value, nil
	}
	return "", nil
}
