package services

import (
	"context"
	"testing"

	"geomaqui-os/internal/config"
	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

func newAuthService(t *testing.T) (*AuthService, *state.Store, *fakeTokenRepo) {
	t.Helper()
	store, _ := newTestStore(t)
	tokens := newFakeTokenRepo()
	return NewAuthService(store, tokens, testConfig()), store, tokens
}

func TestLoginWithSeedAdmin(t *testing.T) {
	svc, store, _ := newAuthService(t)

	result, err := svc.Login(context.Background(), &LoginInput{
		Email:    state.SeedAdminEmail,
		Password: state.SeedAdminPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SeedAdminID, result.User.ID)
	assert.Equal(t, domain.RoleAdmin, result.User.Role)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	// Login is recorded inside the snapshot
	assert.Equal(t, domain.SeedAdminID, store.Snapshot().CurrentUserID)
}

func TestLoginIsCaseInsensitiveOnEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), &LoginInput{
		Email:    "ADMIN@Click.Com",
		Password: state.SeedAdminPassword,
	})
	assert.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), &LoginInput{Email: state.SeedAdminEmail, Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginInput{Email: "nobody@click.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterSignsUserIn(t *testing.T) {
	svc, store, tokens := newAuthService(t)

	result, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Paulo",
		Email:    "paulo@click.com",
		Password: "abc123",
		Role:     "technician",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleTechnician, result.User.Role)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, result.User.ID, store.Snapshot().CurrentUserID)
	assert.Equal(t, 1, tokens.activeCount(result.User.ID))

	// The new account can log in
	_, err = svc.Login(context.Background(), &LoginInput{Email: "paulo@click.com", Password: "abc123"})
	assert.NoError(t, err)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, store, _ := newAuthService(t)
	before := len(store.Snapshot().Users)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Impostor",
		Email:    "ADMIN@click.com",
		Password: "abc123",
		Role:     "ADMIN",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyUsed)
	assert.Len(t, store.Snapshot().Users, before)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name: "X", Email: "x@c.com", Password: "abc123", Role: "MANAGER",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.Register(context.Background(), &RegisterInput{
		Name: "", Email: "x@c.com", Password: "abc123", Role: "ADMIN",
	})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = svc.Register(context.Background(), &RegisterInput{
		Name: "X", Email: "x@c.com", Password: "ab", Role: "ADMIN",
	})
	assert.ErrorIs(t, err, domain.ErrMissingFields)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, tokens := newAuthService(t)

	result, err := svc.Login(context.Background(), &LoginInput{
		Email:    state.SeedAdminEmail,
		Password: state.SeedAdminPassword,
	})
	require.NoError(t, err)
	require.Equal(t, 1, tokens.activeCount(domain.SeedAdminID))

	rotated, err := svc.Refresh(context.Background(), result.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, result.RefreshToken, rotated.RefreshToken)

	// Old token is revoked, new one is active
	require.Equal(t, 1, tokens.activeCount(domain.SeedAdminID))

	// Replaying the old token fails
	_, err = svc.Refresh(context.Background(), result.RefreshToken)
	assert.Error(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestLogoutClearsCurrentUser(t *testing.T) {
	svc, store, tokens := newAuthService(t)

	result, err := svc.Login(context.Background(), &LoginInput{
		Email:    state.SeedAdminEmail,
		Password: state.SeedAdminPassword,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), domain.SeedAdminID, result.RefreshToken))

	assert.Empty(t, store.Snapshot().CurrentUserID)
	assert.Equal(t, 0, tokens.activeCount(domain.SeedAdminID))
}

func TestCurrentUser(t *testing.T) {
	svc, _, _ := newAuthService(t)

	user, err := svc.CurrentUser("tech-1")
	require.NoError(t, err)
	assert.Equal(t, "Carlos", user.Name)

	_, err = svc.CurrentUser("ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserResponseHidesPassword(t *testing.T) {
	u := &domain.User{ID: "u1", Name: "X", Email: "x@c.com", Password: "hash", Role: domain.RoleAdmin}
	resp := ToUserResponse(u)
	assert.Equal(t, "u1", resp.ID)
	// The response type simply has no password field; this guards the shape
	assert.Equal(t, "x@c.com", resp.Email)
}
