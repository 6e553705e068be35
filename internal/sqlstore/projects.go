package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aceweb/agencyops/internal/domain/project"
	"github.com/aceweb/agencyops/internal/domain/task"
	"github.com/aceweb/agencyops/internal/repository"
)

// ProjectRepository implements project.Repository. Reads attach the client
// name and the task checklist.
type ProjectRepository struct {
	db    *DB
	tasks *TaskRepository
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db, tasks: NewTaskRepository(db)}
}

const projectSelect = `
	SELECT p.id, p.name, p.description, p.value, p.deadline, p.client_id, c.name, p.status, p.created_at
	FROM projects p
	JOIN clients c ON c.id = p.client_id
`

func scanProject(row interface{ Scan(...any) error }, p *project.Project) error {
	var deadline sql.NullTime
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Value, &deadline, &p.ClientID, &p.ClientName, &p.Status, &p.CreatedAt); err != nil {
		return err
	}
	p.Deadline = timePtr(deadline)
	return nil
}

// Create inserts a project. An unknown client is a foreign key violation.
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	_, err := r.db.exec(ctx, `
		INSERT INTO projects (id, name, description, value, deadline, client_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Value, nullTime(p.Deadline), p.ClientID, string(p.Status), p.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create project: %w", classify(err))
	}
	return nil
}

// Get retrieves a project with its client name and tasks
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	var p project.Project
	err := scanProject(r.db.queryRow(ctx, projectSelect+` WHERE p.id = ?`, id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	tasks, err := r.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Tasks = tasks
	return &p, nil
}

// Update overwrites a project's mutable fields
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	err := r.db.execOne(ctx, `
		UPDATE projects
		SET name = ?, description = ?, value = ?, deadline = ?, client_id = ?, status = ?
		WHERE id = ?
	`, p.Name, p.Description, p.Value, nullTime(p.Deadline), p.ClientID, string(p.Status), p.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return err
}

// Delete removes a project. Tasks cascade; linked transactions are unlinked.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	err := r.db.execOne(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return err
}

// List returns projects newest first with client names and tasks attached
func (r *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	query := projectSelect
	var conditions []string
	var args []any

	if opts.ClientID != "" {
		conditions = append(conditions, "p.client_id = ?")
		args = append(args, opts.ClientID)
	}
	if len(opts.Statuses) > 0 {
		conditions = append(conditions, "p.status IN ("+placeholders(len(opts.Statuses))+")")
		for _, s := range opts.Statuses {
			args = append(args, string(s))
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id ASC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	projects, err := r.scanAll(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return projects, nil
	}

	ids := make([]string, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}
	tasks, err := r.tasks.ListByProject(ctx, ids...)
	if err != nil {
		return nil, err
	}
	byProject := make(map[string][]task.Task, len(projects))
	for _, t := range tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}
	for i := range projects {
		projects[i].Tasks = byProject[projects[i].ID]
	}
	return projects, nil
}

// scanAll drains the project rows before any follow-up query runs.
func (r *ProjectRepository) scanAll(ctx context.Context, query string, args ...any) ([]project.Project, error) {
	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		var p project.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}
