package core

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// RepositoryAuthService implements AuthService on top of a UserRepository,
// bcrypt hashing, and a token issuer.
type RepositoryAuthService struct {
	users  UserRepository
	issuer *TokenIssuer
	cost   int
}

func NewRepositoryAuthService(users UserRepository, issuer *TokenIssuer, bcryptCost int) *RepositoryAuthService {
	return &RepositoryAuthService{users: users, issuer: issuer, cost: bcryptCost}
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a credential record for a new user. The duplicate check
// runs before any hashing so a colliding signup exits early; a concurrent
// duplicate that slips past the check is still caught by the storage
// uniqueness constraint.
func (s *RepositoryAuthService) Register(ctx context.Context, email, password, displayName string) (*User, error) {
	email = NormalizeEmail(email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and mints an access token. Unknown email and
// wrong password both return ErrInvalidCredentials with nothing else attached.
func (s *RepositoryAuthService) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !CheckPassword(u.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(u.ID, u.Email, u.DisplayName)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}
