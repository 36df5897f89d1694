package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/bookshelf/backend/internal/config"
	"github.com/bookshelf/backend/internal/db"
	"github.com/bookshelf/backend/internal/logger"
	"github.com/bookshelf/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testAuthConfig = config.AuthConfig{
	JWTSecret:  "test-secret",
	BcryptCost: strconv.Itoa(bcrypt.MinCost),
}

func newTestAuthService(t *testing.T, repo UserRepo) *AuthService {
	t.Helper()
	svc, err := NewAuthService(repo, testAuthConfig, logger.Discard())
	require.NoError(t, err)
	return svc
}

// racingRepo reports no existing user but rejects the insert, as a concurrent
// registration would.
type racingRepo struct{ *db.Memory }

func (r racingRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, db.ErrNotFound
}

func (r racingRepo) CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error) {
	return nil, db.ErrDuplicate
}

type brokenRepo struct{ *db.Memory }

var errStoreDown = errors.New("store down")

func (r brokenRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, errStoreDown
}

func TestNewAuthServiceConfig(t *testing.T) {
	_, err := NewAuthService(db.NewMemory(), config.AuthConfig{}, logger.Discard())
	assert.ErrorIs(t, err, ErrMisconfigured)

	_, err = NewAuthService(db.NewMemory(), config.AuthConfig{JWTSecret: "s", BcryptCost: "ten"}, logger.Discard())
	assert.ErrorIs(t, err, ErrMisconfigured)

	_, err = NewAuthService(db.NewMemory(), config.AuthConfig{JWTSecret: "s", BcryptCost: "99"}, logger.Discard())
	assert.ErrorIs(t, err, ErrMisconfigured)

	svc, err := NewAuthService(db.NewMemory(), config.AuthConfig{JWTSecret: "s"}, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, svc.hasher.cost)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	repo := db.NewMemory()
	svc := newTestAuthService(t, repo)

	token, err := svc.Register(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	userID, err := svc.Tokens().Verify(token)
	require.NoError(t, err)

	stored, err := repo.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", stored.Email)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	_, err = svc.Register(ctx, "a@x.com", "another")
	assert.ErrorIs(t, err, ErrUserExists)

	token, err = svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	loginID, err := svc.Tokens().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, loginID)

	_, err = svc.Login(ctx, "a@x.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	me, err := svc.CurrentUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", me.Email)
}

func TestRegisterConcurrentDuplicate(t *testing.T) {
	svc := newTestAuthService(t, racingRepo{db.NewMemory()})

	_, err := svc.Register(context.Background(), "a@x.com", "secret1")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestStoreFailuresPropagate(t *testing.T) {
	svc := newTestAuthService(t, brokenRepo{db.NewMemory()})

	_, err := svc.Register(context.Background(), "a@x.com", "secret1")
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, ErrUserExists)

	_, err = svc.Login(context.Background(), "a@x.com", "secret1")
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestCurrentUserMissing(t *testing.T) {
	svc := newTestAuthService(t, db.NewMemory())

	_, err := svc.CurrentUser(context.Background(), "deleted-user")
	assert.ErrorIs(t, err, db.ErrNotFound)
}
