package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_DeactivateReactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewUserService(f.users, f.staged)
	user := createUser(t, f.db, "alice", false)

	require.NoError(t, svc.Deactivate(ctx, user.ID))
	profile, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsDeactivated)

	// Idempotent both ways.
	require.NoError(t, svc.Deactivate(ctx, user.ID))
	require.NoError(t, svc.Reactivate(ctx, user.ID))
	require.NoError(t, svc.Reactivate(ctx, user.ID))

	profile, err = svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsDeactivated)
}

func TestUserService_ReactivateClearsStagedActions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewUserService(f.users, f.staged)
	owner := createUser(t, f.db, "owner", false)
	heir := createUser(t, f.db, "heir", false)
	group := createGroup(t, f.groups, owner.ID, "movie-night", heir.ID)

	require.NoError(t, f.deletionService(OutgoingCreatorAdmin).StageActions(ctx, owner.ID, []GroupAction{
		{GroupID: group.ID, Action: ActionTransfer, TransferToUserID: heir.ID},
	}))

	require.NoError(t, svc.Deactivate(ctx, owner.ID))
	require.NoError(t, svc.Reactivate(ctx, owner.ID))

	staged, err := f.staged.Get(ctx, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, staged, "reactivation discards staged group decisions")
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, f.staged)
	user := createUser(t, f.db, "alice", false)

	profile, err := svc.UpdateProfile(user.ID, &UpdateProfileRequest{Nickname: "Ali", AvatarURL: "https://cdn.example.com/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "Ali", profile.Nickname)
	assert.Equal(t, "https://cdn.example.com/a.png", profile.AvatarURL)

	// Empty fields leave the current values alone.
	profile, err = svc.UpdateProfile(user.ID, &UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Ali", profile.Nickname)
}

func TestUserService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, f.staged)
	user := createUser(t, f.db, "alice", false)

	assert.ErrorIs(t, svc.ChangePassword(user.ID, "wrong-password", "newpassword1"), ErrWrongPassword)
	assert.Error(t, svc.ChangePassword(user.ID, testPassword, "short"))

	require.NoError(t, svc.ChangePassword(user.ID, testPassword, "newpassword1"))

	auth := NewAuthService(f.users, f.denylist)
	_, err := auth.Login(&LoginRequest{Username: "alice", Password: "newpassword1"})
	assert.NoError(t, err)
}
