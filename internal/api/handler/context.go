package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomrating/store-rating/internal/api/middleware"
	"github.com/ecomrating/store-rating/internal/core/domain"
)

// callerIdentity returns the identity injected by the Auth middleware. Its
// absence on a protected route means the middleware was not mounted.
func callerIdentity(c echo.Context) (*domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// bindAndValidate decodes the request into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(req); err != nil {
			return err
		}
	}
	return nil
}
