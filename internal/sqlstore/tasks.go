package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aceweb/agencyops/internal/domain/task"
	"github.com/aceweb/agencyops/internal/repository"
)

// TaskRepository implements task.Repository
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, project_id, title, status, created_at`

// Create inserts a task. An unknown project is a foreign key violation.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	_, err := r.db.exec(ctx, `
		INSERT INTO tasks (id, project_id, title, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID, t.ProjectID, t.Title, string(t.Status), t.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create task: %w", classify(err))
	}
	return nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	err := r.db.queryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id).Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Status, &t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &t, nil
}

// Update overwrites a task's title and status
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	err := r.db.execOne(ctx, `UPDATE tasks SET title = ?, status = ? WHERE id = ?`,
		t.Title, string(t.Status), t.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return err
}

// Delete removes a task
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	err := r.db.execOne(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return err
}

// ListByProject returns the tasks of the given projects in creation order.
// No IDs yields no tasks.
func (r *TaskRepository) ListByProject(ctx context.Context, projectIDs ...string) ([]task.Task, error) {
	if len(projectIDs) == 0 {
		return []task.Task{}, nil
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id IN (` + placeholders(len(projectIDs)) + `)
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.query(ctx, query, stringArgs(projectIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}
