package finance

import "context"

// Repository provides persistence for transactions. Get and List attach the
// parent project name when one is linked. List orders by date descending.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)
	Update(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Transaction, error)
}

// ListOptions narrows a transaction listing. Status paid also matches
// transactions with no recorded status.
type ListOptions struct {
	ProjectIDs []string
	Type       Type
	Status     Status
	Limit      int
}
