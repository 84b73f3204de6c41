package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop/internal/config"
	"shop/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func doRequest(authz string) (*httptest.ResponseRecorder, int64) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/shops", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID int64
	h := middleware.AuthJWT(config.Config{JWTSecret: testSecret})(func(c echo.Context) error {
		gotUserID, _ = c.Get(middleware.CtxUserIDKey).(int64)
		return c.NoContent(http.StatusOK)
	})
	_ = h(c)
	return rec, gotUserID
}

func TestAuthJWT_ValidToken(t *testing.T) {
	now := time.Now()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": int64(42),
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	})

	rec, userID := doRequest("Bearer " + token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), userID)
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	rec, _ := doRequest("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_MalformedHeader(t *testing.T) {
	rec, _ := doRequest("Token abcdef")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	now := time.Now()
	token := signToken(t, "another-secret", jwt.MapClaims{
		"sub": int64(42),
		"exp": now.Add(time.Hour).Unix(),
	})

	rec, _ := doRequest("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	now := time.Now()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": int64(42),
		"exp": now.Add(-time.Hour).Unix(),
	})

	rec, _ := doRequest("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
