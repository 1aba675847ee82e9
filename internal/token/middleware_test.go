package token

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoPrincipal(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		require.True(t, ok, "principal missing from context")
		_ = json.NewEncoder(w).Encode(map[string]string{"user_id": p.UserID, "email": p.Email})
	})
}

func TestAuthorize_ValidToken(t *testing.T) {
	t.Parallel()

	svc := NewService("secret", time.Hour)
	tok, err := svc.Issue("u-42", "lin@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()

	svc.Authorize(echoPrincipal(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u-42", body["user_id"])
	assert.Equal(t, "lin@example.com", body["email"])
}

func TestAuthorize_MissingHeader(t *testing.T) {
	t.Parallel()

	svc := NewService("secret", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	svc.Authorize(echoPrincipal(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"No token provided"}`, rec.Body.String())
}

func TestAuthorize_NotBearer(t *testing.T) {
	t.Parallel()

	svc := NewService("secret", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	rec := httptest.NewRecorder()

	svc.Authorize(echoPrincipal(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"No token provided"}`, rec.Body.String())
}

func TestAuthorize_InvalidToken(t *testing.T) {
	t.Parallel()

	svc := NewService("secret", time.Hour)

	expired, err := NewService("secret", -time.Minute).Issue("u", "e")
	require.NoError(t, err)

	for _, tok := range []string{"garbage", expired} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()

		svc.Authorize(echoPrincipal(t)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
	}
}
