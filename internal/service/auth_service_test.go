package service

import (
	"context"
	"testing"

	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/testutil"
	"health_metrics_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	res, err := s.auth.Register(ctx, RegisterRequest{
		Username:        "  alice ",
		Email:           "alice@example.com",
		Password:        "s3cure-pass",
		PasswordConfirm: "s3cure-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, model.RoleUser, res.User.Role)
	assert.NotEmpty(t, res.Token)

	claims, err := util.ParseJWT(res.Token, testConfig(t).JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	var profiles int64
	require.NoError(t, s.db.Model(&model.UserProfile{}).Where("user_id = ?", res.User.ID).Count(&profiles).Error)
	assert.EqualValues(t, 1, profiles)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	testutil.CreateUser(t, s.db, "taken")

	cases := []struct {
		name    string
		req     RegisterRequest
		field   string
		message string
	}{
		{
			name:    "mismatch",
			req:     RegisterRequest{Username: "bob", Password: "s3cure-pass", PasswordConfirm: "other-pass"},
			field:   "password_confirm",
			message: "Passwords do not match.",
		},
		{
			name:    "too short",
			req:     RegisterRequest{Username: "bob", Password: "abc", PasswordConfirm: "abc"},
			field:   "password",
			message: "This password is too short. It must contain at least 8 characters.",
		},
		{
			name:    "numeric",
			req:     RegisterRequest{Username: "bob", Password: "12345678", PasswordConfirm: "12345678"},
			field:   "password",
			message: "This password is entirely numeric.",
		},
		{
			name:    "duplicate username",
			req:     RegisterRequest{Username: "taken", Password: "s3cure-pass", PasswordConfirm: "s3cure-pass"},
			field:   "username",
			message: "A user with that username already exists.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.auth.Register(ctx, tc.req)
			ve, ok := util.AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, tc.message, ve.Message)
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")

	token, err := s.auth.Login(ctx, LoginRequest{Username: "alice", Password: "s3cure-pass"})
	require.NoError(t, err)
	claims, err := util.ParseJWT(token, testConfig(t).JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.UserID)

	_, err = s.auth.Login(ctx, LoginRequest{Username: "alice", Password: "wrong-pass"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = s.auth.Login(ctx, LoginRequest{Username: "nobody", Password: "s3cure-pass"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	testutil.CreateUser(t, s.db, "alice")

	token, err := s.auth.Login(ctx, LoginRequest{Username: "alice", Password: "s3cure-pass"})
	require.NoError(t, err)
	claims, err := util.ParseJWT(token, testConfig(t).JWT.Secret)
	require.NoError(t, err)

	revoked, err := s.auth.IsRevoked(ctx, claims)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.auth.Logout(ctx, claims))
	revoked, err = s.auth.IsRevoked(ctx, claims)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMeAndOwnerByUsername(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")

	me, err := s.auth.Me(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = s.auth.Me(ctx, alice.ID+100)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	owner, err := s.auth.OwnerByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, Owner{ID: alice.ID, Username: "alice"}, owner)

	_, err = s.auth.OwnerByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	admin, err := s.auth.EnsureAdmin(ctx, "root", "adm1n-pass")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	_, err = s.auth.Login(ctx, LoginRequest{Username: "root", Password: "adm1n-pass"})
	assert.NoError(t, err)

	// existing accounts are promoted, password untouched
	alice := testutil.CreateUser(t, s.db, "alice")
	promoted, err := s.auth.EnsureAdmin(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, promoted.ID)
	assert.Equal(t, model.RoleAdmin, promoted.Role)
	_, err = s.auth.Login(ctx, LoginRequest{Username: "alice", Password: "s3cure-pass"})
	assert.NoError(t, err)

	_, err = s.auth.EnsureAdmin(ctx, "weak", "123")
	_, ok := util.AsValidationError(err)
	assert.True(t, ok)
}
