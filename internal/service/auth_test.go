package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_pharmacy/internal/events"
	"github.com/Skotchmaster/online_pharmacy/internal/transport"
)

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	u, err := env.Auth.Signup(ctx, transport.CredentialsRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.False(t, u.IsAdmin)
	assert.NotEqual(t, "pw1", u.PasswordHash)

	res, err := env.Auth.Login(ctx, transport.CredentialsRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, u.ID, res.User.ID)

	cur, err := env.Auth.CurrentUser(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", cur.Username)

	require.NoError(t, env.Auth.Logout(ctx, res.Token))
	_, err = env.Auth.CurrentUser(ctx, res.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	assert.Equal(t, []string{events.UserRegistered, events.UserLoggedIn}, env.Pub.types())
}

func TestSignup_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  transport.CredentialsRequest
	}{
		{"missing username", transport.CredentialsRequest{Password: "pw"}},
		{"missing password", transport.CredentialsRequest{Username: "bob"}},
		{"both missing", transport.CredentialsRequest{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Auth.Signup(ctx, tt.req)
			require.ErrorIs(t, err, ErrValidation)
			_, err = env.Auth.CreateAdmin(ctx, tt.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.Auth.Signup(ctx, transport.CredentialsRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	_, err = env.Auth.Signup(ctx, transport.CredentialsRequest{Username: "alice", Password: "pw2"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestSignup_HonorsIsAdminFlag(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	u, err := env.Auth.Signup(ctx, transport.CredentialsRequest{Username: "root", Password: "pw", IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	a, err := env.Auth.CreateAdmin(ctx, transport.CredentialsRequest{Username: "ops", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, a.IsAdmin)
}

func TestLogin_Rejections(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.Auth.Signup(ctx, transport.CredentialsRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	_, err = env.Auth.CreateAdmin(ctx, transport.CredentialsRequest{Username: "admin", Password: "secret"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     transport.CredentialsRequest
		wantErr error
	}{
		{"unknown user", transport.CredentialsRequest{Username: "nobody", Password: "x"}, ErrInvalidCredentials},
		{"wrong password", transport.CredentialsRequest{Username: "alice", Password: "nope"}, ErrInvalidCredentials},
		{"admin wrong password", transport.CredentialsRequest{Username: "admin", Password: "anything"}, ErrInvalidCredentials},
		{"missing password", transport.CredentialsRequest{Username: "alice"}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Auth.Login(ctx, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	res, err := env.Auth.Login(ctx, transport.CredentialsRequest{Username: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin)
}

func TestCurrentUser_UnknownToken(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Auth.CurrentUser(context.Background(), "bogus")
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.NoError(t, env.Auth.Logout(context.Background(), ""))
}

func TestCurrentUser_DanglingSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	u, err := env.Auth.Signup(ctx, transport.CredentialsRequest{Username: "ghost", Password: "pw"})
	require.NoError(t, err)
	res, err := env.Auth.Login(ctx, transport.CredentialsRequest{Username: "ghost", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, env.Repo.DB.Exec("DELETE FROM users WHERE id = ?", u.ID).Error)

	_, err = env.Auth.CurrentUser(ctx, res.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = env.Auth.Sessions.Resolve(ctx, res.Token)
	require.Error(t, err)
}

func TestCreateUser_PasswordLengthLimit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	long := strings.Repeat("p", 73)
	_, err := env.Auth.Signup(ctx, transport.CredentialsRequest{Username: "longpw", Password: long})
	require.ErrorIs(t, err, ErrPasswordTooLong)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Auth.CreateAdmin(ctx, transport.CredentialsRequest{Username: "longadmin", Password: long})
	require.ErrorIs(t, err, ErrPasswordTooLong)

	// multi-byte runes count by bytes: 25 runes of 3 bytes each
	_, err = env.Auth.Signup(ctx, transport.CredentialsRequest{Username: "runes", Password: strings.Repeat("€", 25)})
	require.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = env.Auth.Signup(ctx, transport.CredentialsRequest{Username: "edge", Password: strings.Repeat("p", 72)})
	require.NoError(t, err)
	_, err = env.Auth.Login(ctx, transport.CredentialsRequest{Username: "edge", Password: strings.Repeat("p", 72)})
	require.NoError(t, err)
}

func TestLogin_UnknownUserStillHashes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.Auth.Login(ctx, transport.CredentialsRequest{Username: "nobody", Password: "pw"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.NotEmpty(t, env.Auth.dummyHash)

	first := env.Auth.dummyHash
	_, err = env.Auth.Login(ctx, transport.CredentialsRequest{Username: "nobody", Password: "pw"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, first, env.Auth.dummyHash)
}
