package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Task represents a task record owned by a single user.
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Status filter values accepted by ListByUser.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// TaskRepository defines persistence operations for tasks. Every query is
// scoped by owner, so a task id belonging to another user reads as ErrNotFound.
type TaskRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, statusFilter string) ([]Task, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*Task, error)
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// PgTaskRepository implements TaskRepository using pgxpool.
type PgTaskRepository struct {
	db *pgxpool.Pool
}

func NewPgTaskRepository(db *pgxpool.Pool) *PgTaskRepository {
	return &PgTaskRepository{db: db}
}

func (r *PgTaskRepository) ListByUser(ctx context.Context, userID uuid.UUID, statusFilter string) ([]Task, error) {
	q := `SELECT id, user_id, title, description, is_completed, created_at, updated_at FROM tasks WHERE user_id=$1`
	switch statusFilter {
	case TaskStatusPending:
		q += ` AND is_completed=false`
	case TaskStatusCompleted:
		q += ` AND is_completed=true`
	case "":
	default:
		return nil, errors.New("invalid status filter")
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Task, 0)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *PgTaskRepository) Get(ctx context.Context, id, userID uuid.UUID) (*Task, error) {
	const q = `SELECT id, user_id, title, description, is_completed, created_at, updated_at FROM tasks WHERE id=$1 AND user_id=$2`
	var t Task
	if err := r.db.QueryRow(ctx, q, id, userID).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PgTaskRepository) Create(ctx context.Context, t *Task) error {
	const q = `INSERT INTO tasks (id, user_id, title, description, is_completed) VALUES ($1,$2,$3,$4,$5) RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, q, t.ID, t.UserID, t.Title, t.Description, t.IsCompleted).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// Update persists title, description, and completion state, bumping
// updated_at. The owner scope in the WHERE clause keeps cross-user ids
// indistinguishable from missing rows.
func (r *PgTaskRepository) Update(ctx context.Context, t *Task) error {
	const q = `UPDATE tasks SET title=$1, description=$2, is_completed=$3, updated_at=now() WHERE id=$4 AND user_id=$5 RETURNING updated_at`
	if err := r.db.QueryRow(ctx, q, t.Title, t.Description, t.IsCompleted, t.ID, t.UserID).Scan(&t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PgTaskRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	const q = `DELETE FROM tasks WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
