package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rosterhq/workforce-api/internal/models"
	"github.com/rosterhq/workforce-api/pkg/config"
	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
)

type memCredentialStore struct {
	users map[string]models.User
}

func (m *memCredentialStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := m.users[username]; ok {
		cp := user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &memCredentialStore{users: map[string]models.User{
		"ana": {ID: 10, Username: "ana", Role: models.RoleStaff, PasswordHash: string(hash), Active: true},
		"zed": {ID: 12, Username: "zed", Role: models.RoleStaff, PasswordHash: string(hash), Active: false},
	}}
	return NewAuthService(repo, nil, nil, config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "workforce-api",
	})
}

func TestLogin(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "ana", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.UserID)
	assert.Equal(t, models.RoleStaff, resp.Role)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(10), claims.UserID)
	assert.Equal(t, models.RoleStaff, claims.Role)
	assert.Equal(t, "workforce-api", claims.Issuer)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ana", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "hunter2"})
	require.Error(t, err)
	// Unknown users read the same as wrong passwords.
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "zed", Password: "hunter2"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "ana", Password: "hunter2"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken + "x")
	require.Error(t, err)

	other := NewAuthService(&memCredentialStore{}, nil, nil, config.JWTConfig{Secret: "different", Expiration: time.Hour})
	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
