package observability

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	prodLogger := newLogger("prod", &buf)
	prodLogger.Info().Str("k", "v").Msg("hello")
	require.Contains(t, buf.String(), `"k":"v"`)
	require.Contains(t, buf.String(), `"message":"hello"`)

	buf.Reset()
	devLogger := newLogger("dev", &buf)
	devLogger.Info().Msg("hello")
	require.NotContains(t, buf.String(), `"message"`)
	require.Contains(t, buf.String(), "hello")
}

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := InitRegistry()
	ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	ObserveDenied("login")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	MetricsHandler(reg).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	require.Contains(t, string(body), "houses_http_requests_total")
	require.Contains(t, string(body), "houses_access_denied_total")
}

func TestServeDisabled(t *testing.T) {
	require.Nil(t, Serve("", InitRegistry()))
}

func TestMetricsMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(Metrics)
	e.GET("/ok/:id", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/missing", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound) })
	e.GET("/boom", func(c echo.Context) error { return errors.New("boom") })

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("/ok/:id", "GET", "200"))
	for _, p := range []string{"/ok/1", "/missing", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
	}
	require.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("/ok/:id", "GET", "200")))
	require.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequests.WithLabelValues("/missing", "GET", "404")), 1.0)
	require.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequests.WithLabelValues("/boom", "GET", "500")), 1.0)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(newLogger("prod", &buf)))
	e.GET("/houses", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/houses?page=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, buf.String(), `"uri":"/houses?page=1"`)
	require.Contains(t, buf.String(), `"status":200`)
	require.Contains(t, buf.String(), "http_request")
}
