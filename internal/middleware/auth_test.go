package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"agri-assist-api/internal/model"
)

type fakeValidator struct {
	claims *model.Claims
	err    error
}

func (f *fakeValidator) ValidateToken(_ string) (*model.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	t.Run("missing header is rejected", func(t *testing.T) {
		m := NewAuthMiddleware(&fakeValidator{claims: &model.Claims{UserID: "u1"}})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)

		m.RequireAuth(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body model.APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.False(t, body.Success)
		require.Equal(t, "UNAUTHORIZED", body.Error.Code)
	})

	t.Run("non-bearer scheme is rejected", func(t *testing.T) {
		m := NewAuthMiddleware(&fakeValidator{claims: &model.Claims{UserID: "u1"}})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		m.RequireAuth(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		m := NewAuthMiddleware(&fakeValidator{err: model.ErrInvalidToken})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer bad-token")

		m.RequireAuth(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token puts claims in context", func(t *testing.T) {
		want := &model.Claims{UserID: "u1", Email: "a@b.c", Role: model.RoleUser}
		m := NewAuthMiddleware(&fakeValidator{claims: want})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		var got *model.Claims
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = ClaimsFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		m.RequireAuth(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, want, got)
	})
}

func TestRequireSuperuser(t *testing.T) {
	t.Parallel()

	t.Run("user role is forbidden", func(t *testing.T) {
		m := NewAuthMiddleware(&fakeValidator{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/superuser/delete-crop/1", nil)
		req = req.WithContext(ContextWithClaims(req.Context(), &model.Claims{UserID: "u1", Role: model.RoleUser}))

		m.RequireSuperuser(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)

		var body model.APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "FORBIDDEN", body.Error.Code)
	})

	t.Run("superuser passes through", func(t *testing.T) {
		m := NewAuthMiddleware(&fakeValidator{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/superuser/delete-crop/1", nil)
		req = req.WithContext(ContextWithClaims(req.Context(), &model.Claims{UserID: "su", Role: model.RoleSuperuser}))

		m.RequireSuperuser(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no claims in context is unauthorized", func(t *testing.T) {
		m := NewAuthMiddleware(&fakeValidator{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/superuser/delete-crop/1", nil)

		m.RequireSuperuser(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
