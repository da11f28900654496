package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomrating/store-rating/internal/core/domain"
)

// Require rejects callers whose role may not perform op. It must run after
// Auth.
func Require(op domain.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := domain.Authorize(IdentityFrom(c), op)
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, domain.ErrUnauthorized):
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			default:
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
		}
	}
}
