package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"agri-assist-api/internal/model"
	"agri-assist-api/pkg/apierror"
)

type fakeAccountStore struct {
	accounts map[string]model.Account // keyed by email
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: map[string]model.Account{}}
}

func (f *fakeAccountStore) Create(_ context.Context, a model.Account) error {
	f.accounts[a.Email] = a
	return nil
}

func (f *fakeAccountStore) FindByEmail(_ context.Context, email string) (model.Account, error) {
	a, ok := f.accounts[email]
	if !ok {
		return model.Account{}, model.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccountStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.accounts[email]
	return ok, nil
}

func (f *fakeAccountStore) UpdateRole(_ context.Context, email string, role string) error {
	a, ok := f.accounts[email]
	if !ok {
		return model.ErrAccountNotFound
	}
	a.Role = role
	f.accounts[email] = a
	return nil
}

func newTestAuthService(t *testing.T, adminSecret string) (*AuthService, *fakeAccountStore) {
	t.Helper()

	store := newFakeAccountStore()
	svc, err := NewAuthService(store, "test-secret-key", 7*24*time.Hour, adminSecret)
	require.NoError(t, err)
	return svc, store
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates account with user role and returns a working token", func(t *testing.T) {
		svc, store := newTestAuthService(t, "")

		result, err := svc.Register(ctx, model.RegisterRequest{
			Name:     "Asha",
			Email:    "  Asha@Example.COM ",
			Password: "secret1",
		})
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)
		require.Equal(t, "asha@example.com", result.User.Email)
		require.Equal(t, model.RoleUser, result.User.Role)

		stored, ok := store.accounts["asha@example.com"]
		require.True(t, ok)
		require.NotEqual(t, "secret1", stored.PasswordHash)

		claims, err := svc.ValidateToken(result.Token)
		require.NoError(t, err)
		require.Equal(t, stored.ID, claims.UserID)
		require.Equal(t, model.RoleUser, claims.Role)
	})

	t.Run("reports every violated rule at once", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "")

		_, err := svc.Register(ctx, model.RegisterRequest{Password: "12345"})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "VALIDATION_FAILED", apiErr.Code)
		require.Contains(t, apiErr.Details, "name is required")
		require.Contains(t, apiErr.Details, "email is required")
		require.Contains(t, apiErr.Details, "password must be at least 6 characters")
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "")

		_, err := svc.Register(ctx, model.RegisterRequest{Name: "A", Email: "dup@example.com", Password: "secret1"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, model.RegisterRequest{Name: "B", Email: "DUP@example.com", Password: "secret2"})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "ALREADY_EXISTS", apiErr.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid credentials return token with current role", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "")
		_, err := svc.Register(ctx, model.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
		require.NoError(t, err)

		result, err := svc.Login(ctx, model.LoginRequest{Email: "ASHA@example.com", Password: "secret1"})
		require.NoError(t, err)

		claims, err := svc.ValidateToken(result.Token)
		require.NoError(t, err)
		require.Equal(t, "asha@example.com", claims.Email)
	})

	t.Run("unknown email and wrong password yield the same error", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "")
		_, err := svc.Register(ctx, model.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
		require.NoError(t, err)

		_, unknownErr := svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
		_, wrongErr := svc.Login(ctx, model.LoginRequest{Email: "asha@example.com", Password: "wrongpass"})

		require.Error(t, unknownErr)
		require.Error(t, wrongErr)
		require.Equal(t, unknownErr.Error(), wrongErr.Error())
	})

	t.Run("missing fields are a bad request", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "")

		_, err := svc.Login(ctx, model.LoginRequest{Email: "", Password: ""})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "BAD_REQUEST", apiErr.Code)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	t.Run("expired token is rejected", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "")
		issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		svc.SetClock(func() time.Time { return issuedAt })

		token, err := svc.IssueToken(model.Account{ID: "u1", Email: "a@b.c", Name: "A", Role: model.RoleUser})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.NoError(t, err)

		svc.SetClock(func() time.Time { return issuedAt.Add(8 * 24 * time.Hour) })
		_, err = svc.ValidateToken(token)
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "")
		other, err := NewAuthService(newFakeAccountStore(), "different-secret", time.Hour, "")
		require.NoError(t, err)

		token, err := other.IssueToken(model.Account{ID: "u1", Role: model.RoleUser})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "")

		_, err := svc.ValidateToken("not-a-token")
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})
}

func TestSetRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("denies everything when no secret is configured", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "")

		err := svc.SetRole(ctx, "", model.SetRoleRequest{Email: "a@b.c", Role: model.RoleSuperuser})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "FORBIDDEN", apiErr.Code)
	})

	t.Run("denies wrong secret", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "hunter2")

		err := svc.SetRole(ctx, "wrong", model.SetRoleRequest{Email: "a@b.c", Role: model.RoleSuperuser})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "FORBIDDEN", apiErr.Code)
	})

	t.Run("rejects roles outside the enum", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "hunter2")

		err := svc.SetRole(ctx, "hunter2", model.SetRoleRequest{Email: "a@b.c", Role: "root"})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "BAD_REQUEST", apiErr.Code)
	})

	t.Run("promotes an existing account", func(t *testing.T) {
		svc, store := newTestAuthService(t, "hunter2")
		_, err := svc.Register(ctx, model.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
		require.NoError(t, err)

		err = svc.SetRole(ctx, "hunter2", model.SetRoleRequest{Email: "Asha@Example.com", Role: "Superuser"})
		require.NoError(t, err)
		require.Equal(t, model.RoleSuperuser, store.accounts["asha@example.com"].Role)
	})

	t.Run("unknown account is not found", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "hunter2")

		err := svc.SetRole(ctx, "hunter2", model.SetRoleRequest{Email: "ghost@example.com", Role: model.RoleUser})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "NOT_FOUND", apiErr.Code)
	})
}

func TestSuLogin(t *testing.T) {
	t.Parallel()

	t.Run("issues an ephemeral superuser token", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "hunter2")

		result, err := svc.SuLogin("hunter2")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(result.Token)
		require.NoError(t, err)
		require.Equal(t, model.RoleSuperuser, claims.Role)
		require.Equal(t, "su-admin", claims.UserID)
	})

	t.Run("fails closed without a configured secret", func(t *testing.T) {
		svc, _ := newTestAuthService(t, "")

		_, err := svc.SuLogin("")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "FORBIDDEN", apiErr.Code)
	})
}
