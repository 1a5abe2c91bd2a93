package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/anonto42/yatube/internal/logging"
)

func TestSetupMiddleware_TrailingSlashRedirect(t *testing.T) {
	e := echo.New()
	SetupMiddleware(e, &Config{}, logging.Discard())
	e.GET("/new/", func(c echo.Context) error { return c.String(http.StatusOK, "form") })
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/new?x=1", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/new/?x=1", rec.Header().Get(echo.HeaderLocation))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSetupMiddleware_CSRF(t *testing.T) {
	e := echo.New()
	SetupMiddleware(e, &Config{CSRFEnabled: true}, logging.Discard())
	e.POST("/new/", func(c echo.Context) error { return c.String(http.StatusOK, "created") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/new/", nil))
	assert.NotEqual(t, http.StatusOK, rec.Code)
}
