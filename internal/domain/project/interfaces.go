package project

import "context"

// Repository provides persistence for projects. Get and List return projects
// with their tasks and client name attached.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, proj *Project) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Project, error)
}

// ListOptions provides filtering options for listing projects.
type ListOptions struct {
	ClientID string
	Statuses []Status
	Limit    int
}
