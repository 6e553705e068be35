package lead

import "context"

// Repository provides persistence for leads. List returns newest first.
type Repository interface {
	Create(ctx context.Context, l *Lead) error
	Get(ctx context.Context, id string) (*Lead, error)
	Update(ctx context.Context, l *Lead) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Lead, error)
}

// ListOptions narrows a store listing. Query and staleness filtering happen
// in memory through FilterLeads.
type ListOptions struct {
	Status Status
	Limit  int
}
