package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aceweb/agencyops/internal/domain/lead"
	"github.com/aceweb/agencyops/internal/repository"
)

// LeadRepository implements lead.Repository
type LeadRepository struct {
	db *DB
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db *DB) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `id, name, email, phone, source, notes, status, created_at`

func scanLead(row interface{ Scan(...any) error }, l *lead.Lead) error {
	return row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Source, &l.Notes, &l.Status, &l.CreatedAt)
}

// Create inserts a lead
func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	_, err := r.db.exec(ctx, `
		INSERT INTO leads (id, name, email, phone, source, notes, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.Name, l.Email, l.Phone, l.Source, l.Notes, string(l.Status), l.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", classify(err))
	}
	return nil
}

// Get retrieves a lead by ID
func (r *LeadRepository) Get(ctx context.Context, id string) (*lead.Lead, error) {
	var l lead.Lead
	err := scanLead(r.db.queryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id), &l)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return &l, nil
}

// Update overwrites a lead's mutable fields
func (r *LeadRepository) Update(ctx context.Context, l *lead.Lead) error {
	err := r.db.execOne(ctx, `
		UPDATE leads SET name = ?, email = ?, phone = ?, source = ?, notes = ?, status = ?
		WHERE id = ?
	`, l.Name, l.Email, l.Phone, l.Source, l.Notes, string(l.Status), l.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	return err
}

// Delete removes a lead
func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	err := r.db.execOne(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return err
}

// List returns leads newest first
func (r *LeadRepository) List(ctx context.Context, opts lead.ListOptions) ([]lead.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	var args []any
	if opts.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(opts.Status))
	}
	query += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := []lead.Lead{}
	for rows.Next() {
		var l lead.Lead
		if err := scanLead(rows, &l); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lead rows: %w", err)
	}
	return leads, nil
}
