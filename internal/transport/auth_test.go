package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/todos/internal/identity"
	"github.com/stretchr/testify/require"
)

type testResolver struct {
	tokens map[string]identity.Identity
}

func (r *testResolver) Resolve(_ context.Context, token string) (identity.Identity, error) {
	id, ok := r.tokens[token]
	if !ok {
		return identity.Identity{}, identity.ErrUnauthorized
	}
	return id, nil
}

func TestAuthMiddleware(t *testing.T) {
	resolver := &testResolver{tokens: map[string]identity.Identity{
		"token": {UserID: "u1", OrgID: "org1"},
	}}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "u1", id.UserID)
		require.Equal(t, "org1", id.OrgID)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Invalid(t *testing.T) {
	resolver := &testResolver{}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, header := range []string{"", "Bearer ", "Bearer wrong"} {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		require.Contains(t, rec.Body.String(), `"message"`)
	}
}

func TestAuthMiddleware_HealthIsPublic(t *testing.T) {
	handler := AuthMiddleware(&testResolver{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
