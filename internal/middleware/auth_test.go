package middleware

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xyz-asif/bookshelf/internal/pkg/token"
	apperr "github.com/xyz-asif/bookshelf/pkg/errors"
)

const testSecret = "auth-test-secret"

type stubResolver struct {
	identity *Identity
	err      error
}

func (s *stubResolver) Resolve(_ context.Context, _ string) (*Identity, error) {
	return s.identity, s.err
}

func authRouter(resolver IdentityResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(testSecret, resolver), func(c *gin.Context) {
		c.JSON(200, gin.H{"userID": c.GetString("userID")})
	})
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthNoHeader(t *testing.T) {
	r := authRouter(&stubResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
	body := decodeError(t, w)
	require.Equal(t, "NO_TOKEN", body["code"])
}

func TestAuthExpiredToken(t *testing.T) {
	r := authRouter(&stubResolver{})

	signed, err := token.Generate(testSecret, -time.Minute, "u1", "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
	body := decodeError(t, w)
	require.Equal(t, "TOKEN_EXPIRED", body["code"])
}

func TestAuthInvalidToken(t *testing.T) {
	r := authRouter(&stubResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	r.ServeHTTP(w, req)

	require.Equal(t, 403, w.Code)
	body := decodeError(t, w)
	require.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAuthUserGone(t *testing.T) {
	r := authRouter(&stubResolver{err: apperr.ErrUserNotFound})

	signed, err := token.Generate(testSecret, time.Hour, "u1", "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)

	require.Equal(t, 404, w.Code)
	body := decodeError(t, w)
	require.Equal(t, "USER_NOT_FOUND", body["code"])
}

func TestAuthInactiveAccount(t *testing.T) {
	r := authRouter(&stubResolver{err: apperr.ErrAccountInactive})

	signed, err := token.Generate(testSecret, time.Hour, "u1", "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)

	require.Equal(t, 403, w.Code)
	body := decodeError(t, w)
	require.Equal(t, "ACCOUNT_INACTIVE", body["code"])
}

func TestAuthSuccessSetsIdentity(t *testing.T) {
	r := authRouter(&stubResolver{identity: &Identity{UserID: "u1", Username: "alice"}})

	signed, err := token.Generate(testSecret, time.Hour, "u1", "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "u1", body["userID"])
}

func TestExtractBearer(t *testing.T) {
	require.Equal(t, "abc", extractBearer("Bearer abc"))
	require.Equal(t, "abc", extractBearer("bearer abc"))
	require.Equal(t, "abc", extractBearer("abc"))
	require.Equal(t, "", extractBearer(""))
}
