package client

import "context"

// Repository provides persistence for clients. Deleting a client cascades to
// its projects at the store layer.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, id string) (*Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Client, error)
}

// ListOptions narrows a client listing.
type ListOptions struct {
	Query string
	Limit int
}
