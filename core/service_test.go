package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memUserRepo is an in-memory UserRepository for tests, keyed by normalized
// email like the real table's unique index.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*User{}}
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return ErrDuplicateEmail
	}
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func newTestAuthService(users UserRepository) *RepositoryAuthService {
	return NewRepositoryAuthService(users, NewTokenIssuer(testSecret), bcrypt.MinCost)
}

func TestRegister_NormalizesAndHashes(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newMemUserRepo())
	u, err := svc.Register(context.Background(), "  Ann@X.com ", "longenough1", "Ann")
	require.NoError(t, err)

	require.Equal(t, "ann@x.com", u.Email)
	require.NotEqual(t, u.ID.String(), "00000000-0000-0000-0000-000000000000")
	require.NotEqual(t, "longenough1", u.PasswordHash)
	require.True(t, CheckPassword(u.PasswordHash, "longenough1"))
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newMemUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "A@x.com", "longenough1", "Ann")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@x.com", "different-pass", "Mallory")
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newMemUserRepo())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "a@x.com", "longenough1", "Ann")
	require.NoError(t, err)

	token, u, err := svc.Login(ctx, "A@x.com", "longenough1")
	require.NoError(t, err)
	require.Equal(t, registered.ID, u.ID)
	require.Equal(t, "Ann", u.DisplayName)

	identity, err := NewTokenVerifier(testSecret).Verify(token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, identity.ID)
	require.Equal(t, "a@x.com", identity.Email)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newMemUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "longenough1", "Ann")
	require.NoError(t, err)

	_, _, wrongPass := svc.Login(ctx, "a@x.com", "wrong-password")
	_, _, unknown := svc.Login(ctx, "nobody@x.com", "longenough1")

	require.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	require.ErrorIs(t, unknown, ErrInvalidCredentials)
	// same sentinel, no extra detail on either path
	require.Equal(t, wrongPass.Error(), unknown.Error())
}
