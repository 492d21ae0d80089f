package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository defines persistence operations for credential records.
// Create is atomic with respect to the email uniqueness constraint:
// two concurrent inserts of the same email cannot both succeed.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
}

// PgUserRepository implements UserRepository using pgxpool.
type PgUserRepository struct {
	db *pgxpool.Pool
}

func NewPgUserRepository(db *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// FindByEmail looks up a credential record by normalized email.
func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT id, email, password_hash, display_name, created_at FROM users WHERE email=$1`
	var u User
	if err := r.db.QueryRow(ctx, q, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a credential record. A unique-constraint conflict on the
// email column maps to ErrDuplicateEmail; the caller does not retry.
func (r *PgUserRepository) Create(ctx context.Context, u *User) error {
	const q = `INSERT INTO users (id, email, password_hash, display_name) VALUES ($1,$2,$3,$4) RETURNING created_at`
	if err := r.db.QueryRow(ctx, q, u.ID, u.Email, u.PasswordHash, u.DisplayName).Scan(&u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
