package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User represents a stored credential record. The hash never leaves the core.
type User struct {
	ID           uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the verified result of decoding an access token. It is
// reconstructed per request and never persisted.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// Owns reports whether the identity may access resources owned by ownerID.
func (i Identity) Owns(ownerID uuid.UUID) bool {
	return i.ID == ownerID
}

var (
	// ErrInvalidCredentials is returned when email/password is wrong.
	// Unknown email and bad password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrTokenInvalid covers malformed, tampered, and expired access tokens.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrNotFound is returned for missing records and for records the
	// requester does not own; callers must not tell the two apart.
	ErrNotFound = errors.New("not found")
)

// AuthService defines registration and login behaviour.
type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (*User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
}
