package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/tx"
)

type memUserRepo struct {
	users map[id.ID]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[id.ID]*User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *memUserRepo) Update(ctx context.Context, user *User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, userID id.ID) error {
	delete(r.users, userID)
	return nil
}

func (r *memUserRepo) List(ctx context.Context, filter UserFilter) ([]User, int64, error) {
	var out []User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) Exists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func newTestService() (*Service, *memUserRepo) {
	repo := newMemUserRepo()
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	svc := NewService(repo, tx.MockManager{}, jwtSvc, DefaultServiceConfig())
	return svc, repo
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	token, logged, err := svc.Login(ctx, Credentials{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	// Token round-trips through validation.
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	uc, err := jwtSvc.ValidateToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, "alice", uc.Login)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice", Password: "battery-staple"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, RegisterRequest{Username: "", Password: "correct-horse"})
	require.Error(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "bob", Password: "short"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	user, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, Credentials{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)

	// Failed attempt is recorded.
	stored := repo.users[user.ID]
	assert.Equal(t, 1, stored.FailedLoginAttempts)
}

func TestLoginLockoutAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	user, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	for i := 0; i < DefaultServiceConfig().MaxLoginAttempts; i++ {
		_, _, _ = svc.Login(ctx, Credentials{Username: "alice", Password: "wrong"})
	}

	assert.True(t, repo.users[user.ID].IsLocked())

	// Even the correct password is rejected while locked.
	_, _, err = svc.Login(ctx, Credentials{Username: "alice", Password: "correct-horse"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestLoginDisabledAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, user.ID, false))

	_, _, err = svc.Login(ctx, Credentials{Username: "alice", Password: "correct-horse"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	jwtSvc := NewJWTService(DefaultJWTConfig("secret-a"))
	token, _, err := jwtSvc.GenerateAccessToken(id.New().String(), "alice", false)
	require.NoError(t, err)

	other := NewJWTService(DefaultJWTConfig("secret-b"))
	_, err = other.ValidateToken(token)
	require.Error(t, err)
}
