package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ecomrating/store-rating/internal/api/metrics"
)

func TestMetrics_CountsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(Metrics("/metrics"))
	e.GET("/things/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "gone")
	})
	e.GET("/metrics", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	ok := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/things/:id", "204")
	missing := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/missing", "404")
	scraped := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/metrics", "200")
	beforeOK, beforeMissing, beforeScrape := testutil.ToFloat64(ok), testutil.ToFloat64(missing), testutil.ToFloat64(scraped)

	for _, path := range []string{"/things/1", "/things/2", "/missing", "/metrics"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(ok) - beforeOK; got != 2 {
		t.Fatalf("expected 2 requests on the route pattern, got %v", got)
	}
	if got := testutil.ToFloat64(missing) - beforeMissing; got != 1 {
		t.Fatalf("expected 1 not-found request, got %v", got)
	}
	if got := testutil.ToFloat64(scraped) - beforeScrape; got != 0 {
		t.Fatalf("skipped path must not be counted, got %v", got)
	}
}
