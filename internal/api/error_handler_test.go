package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecomrating/store-rating/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		code  int
		msg   string
		field string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload", ""},
		{"validation", domain.NewValidationError("email", "invalid email format"), http.StatusBadRequest, "invalid email format", "email"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials", ""},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "authentication required", ""},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden", ""},
		{"user not found", fmt.Errorf("load: %w", domain.ErrUserNotFound), http.StatusNotFound, "user not found", ""},
		{"store not found", domain.ErrStoreNotFound, http.StatusNotFound, "store not found", ""},
		{"rating not found", domain.ErrRatingNotFound, http.StatusNotFound, "not found", ""},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict, "user with this email already exists", ""},
		{"store email taken", domain.ErrStoreEmailTaken, http.StatusConflict, "store with this email already exists", ""},
		{"unexpected", errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error", ""},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tt.msg || body.Field != tt.field {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrForbidden, c)

	if rec.Code != http.StatusForbidden || rec.Body.Len() != 0 {
		t.Fatalf("expected bodiless 403, got %d %q", rec.Code, rec.Body.String())
	}
}
