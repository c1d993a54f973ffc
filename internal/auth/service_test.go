package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeUserRepo is an in-memory domain.UserRepository.
type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[uuid.UUID]*domain.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, email, passwordHash string) (*domain.User, error) {
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.byEmail[email] = user
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func newTestService(clock clockwork.Clock) (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewService(repo, testSecret, 24, clock), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(clockwork.NewFakeClock())
	ctx := context.Background()

	pair, err := svc.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(24*3600), pair.ExpiresIn)

	login, err := svc.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, pair.User.ID, login.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(clockwork.NewFakeClock())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "other-password")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService(clockwork.NewFakeClock())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestService(clockwork.NewFakeClock())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyToken_RoundTrip(t *testing.T) {
	svc, _ := newTestService(clockwork.NewFakeClock())
	ctx := context.Background()

	pair, err := svc.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	user, err := svc.VerifyToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, pair.User.ID, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestVerifyToken_Expired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc, _ := newTestService(clock)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)

	_, err = svc.VerifyToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc, _ := newTestService(clockwork.NewFakeClock())

	_, err := svc.VerifyToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc, repo := newTestService(clock)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	other := NewService(repo, "ffffffffffffffffffffffffffffffff", 24, clock)
	_, err = other.VerifyToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyToken_DeletedUser(t *testing.T) {
	svc, repo := newTestService(clockwork.NewFakeClock())
	ctx := context.Background()

	pair, err := svc.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	delete(repo.byID, pair.User.ID)
	delete(repo.byEmail, pair.User.Email)

	_, err = svc.VerifyToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
