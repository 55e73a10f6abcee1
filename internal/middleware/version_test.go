package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAPIVersionResolver_SupportedVersion(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/courses", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	vm := NewVersionMiddleware()
	handler := vm.APIVersionResolver()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", c.Get("api_version"))
}

func TestAPIVersionResolver_UnsupportedVersion(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v9/courses", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	vm := NewVersionMiddleware()
	called := false
	handler := vm.APIVersionResolver()(func(c echo.Context) error {
		called = true
		return nil
	})

	err := handler(c)
	assert.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unsupported API version")
}

func TestAPIVersionResolver_UnversionedPathUsesDefault(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	vm := NewVersionMiddleware()
	handler := vm.APIVersionResolver()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	assert.NoError(t, err)
	assert.Equal(t, "v1", c.Get("api_version"))
}

func TestVersionHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/courses", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	vm := NewVersionMiddleware()
	handler := vm.VersionHeader("v1")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	assert.NoError(t, err)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
}
