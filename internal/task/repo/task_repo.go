package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/scholarsync/service-api-go/internal/task/entity"
)

// TaskRepo provides data access for the tasks table using sqlx. Every lookup,
// update and delete filters by both task id and owning user id, so a task
// owned by someone else is indistinguishable from a missing one.
type TaskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo { return &TaskRepo{db: db} }

// EnsureTable creates the tasks table if not exists (idempotent).
func (r *TaskRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  subject TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  due_date TIMESTAMPTZ NOT NULL,
  assignment_type TEXT NOT NULL,
  priority TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  estimated_hours INT,
  grade DOUBLE PRECISION,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const taskColumns = `id, user_id, title, subject, description, due_date,
	assignment_type, priority, status, estimated_hours, grade, created_at, updated_at`

// Insert stores a new task row and hydrates the db-assigned timestamps.
func (r *TaskRepo) Insert(ctx context.Context, t *entity.Task) error {
	const q = `INSERT INTO tasks (id, user_id, title, subject, description, due_date, assignment_type, priority, status, estimated_hours, grade)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`
	return r.db.QueryRowxContext(ctx, q,
		t.ID, t.UserID, t.Title, t.Subject, t.Description, t.DueDate,
		t.AssignmentType, t.Priority, t.Status, t.EstimatedHours, t.Grade,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches a task owned by userID, or sql.ErrNoRows.
func (r *TaskRepo) GetByID(ctx context.Context, id, userID string) (*entity.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1 AND user_id=$2`
	var row entity.Task
	if err := r.db.GetContext(ctx, &row, q, id, userID); err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByUser returns all tasks for a user, most recently created first.
func (r *TaskRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id=$1 ORDER BY created_at DESC`
	rows := []*entity.Task{}
	if err := r.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies the non-nil fields of the changeset to a task owned by
// userID and returns the updated row, or sql.ErrNoRows when no such task
// exists for that owner.
func (r *TaskRepo) Update(ctx context.Context, id, userID string, cs *entity.Changeset) (*entity.Task, error) {
	sets := []string{"updated_at=NOW()"}
	args := []any{id, userID}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if cs.Subject != nil {
		add("subject", *cs.Subject)
	}
	if cs.Description != nil {
		add("description", *cs.Description)
	}
	if cs.DueDate != nil {
		add("due_date", cs.DueDate.Time)
	}
	if cs.AssignmentType != nil {
		add("assignment_type", *cs.AssignmentType)
	}
	if cs.Priority != nil {
		add("priority", *cs.Priority)
	}
	if cs.Status != nil {
		add("status", *cs.Status)
	}
	if cs.EstimatedHours != nil {
		add("estimated_hours", *cs.EstimatedHours)
	}
	if cs.Grade != nil {
		add("grade", *cs.Grade)
	}
	q := `UPDATE tasks SET ` + strings.Join(sets, ", ") +
		` WHERE id=$1 AND user_id=$2 RETURNING ` + taskColumns
	var row entity.Task
	if err := r.db.GetContext(ctx, &row, q, args...); err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes a task owned by userID and reports whether a row was deleted.
func (r *TaskRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
