package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aceweb/agencyops/internal/domain/client"
	"github.com/aceweb/agencyops/internal/repository"
)

// ClientRepository implements client.Repository
type ClientRepository struct {
	db *DB
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, name, email, phone, document, created_at`

// Create inserts a client
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	_, err := r.db.exec(ctx, `
		INSERT INTO clients (id, name, email, phone, document, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Email, c.Phone, c.Document, c.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create client: %w", classify(err))
	}
	return nil
}

// Get retrieves a client by ID
func (r *ClientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	var c client.Client
	err := r.db.queryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Document, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

// Update overwrites the editable fields of a client
func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	err := r.db.execOne(ctx, `
		UPDATE clients SET name = ?, email = ?, phone = ?, document = ?
		WHERE id = ?
	`, c.Name, c.Email, c.Phone, c.Document, c.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return err
}

// Delete removes a client. Projects and their tasks cascade.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	err := r.db.execOne(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return err
}

// List returns clients newest first, optionally matching a name/email query
func (r *ClientRepository) List(ctx context.Context, opts client.ListOptions) ([]client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	var args []any

	if q := strings.TrimSpace(opts.Query); q != "" {
		query += ` WHERE LOWER(name) LIKE ? OR LOWER(email) LIKE ?`
		pattern := "%" + strings.ToLower(q) + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []client.Client{}
	for rows.Next() {
		var c client.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Document, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}
	return clients, nil
}
