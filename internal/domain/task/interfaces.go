package task

import "context"

// Repository provides persistence for tasks.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
	ListByProject(ctx context.Context, projectIDs ...string) ([]Task, error)
}
