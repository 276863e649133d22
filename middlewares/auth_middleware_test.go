package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, sub uint, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"name": "Test User",
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func doRequest(t *testing.T, mw []echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	var captured echo.Context
	handler := func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, captured
}

func TestRequireAuthValidToken(t *testing.T) {
	tok := signToken(t, testSecret, 7, "treasurer", time.Hour)
	rec, c := doRequest(t, []echo.MiddlewareFunc{RequireAuth(testSecret)}, "Bearer "+tok)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c)
	assert.Equal(t, uint(7), c.Get("user_id"))
	assert.Equal(t, "treasurer", c.Get("role"))
}

func TestRequireAuthRejections(t *testing.T) {
	for _, tc := range []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", 1, "admin", time.Hour)},
		{"expired", "Bearer " + signToken(t, testSecret, 1, "admin", -time.Hour)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := doRequest(t, []echo.MiddlewareFunc{RequireAuth(testSecret)}, tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	chain := func(roles ...string) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{RequireAuth(testSecret), RequireRole(roles...)}
	}

	tok := signToken(t, testSecret, 1, "staff", time.Hour)

	rec, _ := doRequest(t, chain("staff", "admin"), "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, chain("treasurer", "admin"), "Bearer "+tok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
