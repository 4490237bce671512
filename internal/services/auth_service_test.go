package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgutils "github.com/scenestack/scenestack/pkg/utils"
)

func init() {
	pkgutils.SetJWTSecret("test-secret")
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, f.denylist)

	resp, err := svc.Register(&RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)

	login, err := svc.Login(&LoginRequest{Username: "alice", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(&LoginRequest{Username: "alice", Password: "wrong-password"})
	assert.Error(t, err)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, f.denylist)

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad username", RegisterRequest{Username: "a b", Email: "a@example.com", Password: testPassword}},
		{"bad email", RegisterRequest{Username: "alice", Email: "not-an-email", Password: testPassword}},
		{"short password", RegisterRequest{Username: "alice", Email: "a@example.com", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(&tc.req)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Messages)
		})
	}
}

func TestAuthService_LogoutDeniesToken(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, f.denylist)

	resp, err := svc.Register(&RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)

	ctx := context.Background()
	denied, err := f.denylist.IsDenied(ctx, resp.Token)
	require.NoError(t, err)
	assert.False(t, denied)

	require.NoError(t, svc.Logout(ctx, resp.Token))
	denied, err = f.denylist.IsDenied(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, denied)

	// garbage tokens are already unusable, logging them out is a no-op
	require.NoError(t, svc.Logout(ctx, "not-a-token"))
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, f.denylist)
	createUser(t, f.db, "alice", false)

	_, err := svc.Register(&RegisterRequest{Username: "alice", Email: "new@example.com", Password: testPassword})
	assert.Error(t, err)

	_, err = svc.Register(&RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: testPassword})
	assert.Error(t, err)
}

func TestAuthService_DeactivatedAccountCanLogin(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, f.denylist)
	user := createUser(t, f.db, "alice", false)
	require.NoError(t, f.users.SetDeactivated(user.ID, true))

	login, err := svc.Login(&LoginRequest{Username: "alice", Password: testPassword})
	require.NoError(t, err)
	assert.True(t, login.User.IsDeactivated)
}

func TestAuthService_DeletedAccountCannotLogin(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, f.denylist)
	user := createUser(t, f.db, "alice", false)
	require.NoError(t, f.users.MarkDeleted(user.ID))

	_, err := svc.Login(&LoginRequest{Username: "alice", Password: testPassword})
	assert.Error(t, err)
}
