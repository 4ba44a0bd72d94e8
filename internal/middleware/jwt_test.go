package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Priyankm23/odoo-hackathon-project/internal/utils"
)

const testSecret = "unit-test-secret"

func runJWT(t *testing.T, decorate func(*http.Request)) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	decorate(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	require.NoError(t, JWTAuth(testSecret)(next)(c))
	return rec, c
}

func TestJWTAuthBearerHeader(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 42, "user", 5)
	require.NoError(t, err)

	rec, c := runJWT(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+access.Token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(42), c.Get("user_id"))
	assert.Equal(t, "user", c.Get("role"))
}

func TestJWTAuthCookieFallback(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 7, "admin", 5)
	require.NoError(t, err)

	rec, c := runJWT(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: access.Token})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", c.Get("role"))
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	rec, _ := runJWT(t, func(*http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	access, err := utils.NewAccessToken("other-secret", 42, "user", 5)
	require.NoError(t, err)

	rec, _ := runJWT(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+access.Token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	guard := RequireRole("admin")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "admin")
	require.NoError(t, guard(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("role", "user")
	require.NoError(t, guard(next)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	require.NoError(t, guard(next)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
