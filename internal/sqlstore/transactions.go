package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aceweb/agencyops/internal/domain/finance"
	"github.com/aceweb/agencyops/internal/repository"
)

// TransactionRepository implements finance.Repository
type TransactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionSelect = `
	SELECT t.id, t.description, t.amount, t.type, t.date, t.category, t.status, t.project_id, p.name, t.created_at
	FROM transactions t
	LEFT JOIN projects p ON p.id = t.project_id
`

func scanTransaction(row interface{ Scan(...any) error }, tx *finance.Transaction) error {
	var status, projectID, projectName sql.NullString
	if err := row.Scan(&tx.ID, &tx.Description, &tx.Amount, &tx.Type, &tx.Date, &tx.Category,
		&status, &projectID, &projectName, &tx.CreatedAt); err != nil {
		return err
	}
	tx.Status = finance.Status(status.String)
	if projectID.Valid {
		id := projectID.String
		tx.ProjectID = &id
	}
	tx.ProjectName = projectName.String
	return nil
}

func projectIDArg(id *string) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return nullString(*id)
}

// Create inserts a transaction. An empty status is stored as NULL.
func (r *TransactionRepository) Create(ctx context.Context, tx *finance.Transaction) error {
	_, err := r.db.exec(ctx, `
		INSERT INTO transactions (id, description, amount, type, date, category, status, project_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, tx.ID, tx.Description, tx.Amount, string(tx.Type), tx.Date.UTC(), tx.Category,
		nullString(string(tx.Status)), projectIDArg(tx.ProjectID), tx.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", classify(err))
	}
	return nil
}

// Get retrieves a transaction with its project name
func (r *TransactionRepository) Get(ctx context.Context, id string) (*finance.Transaction, error) {
	var tx finance.Transaction
	err := scanTransaction(r.db.queryRow(ctx, transactionSelect+` WHERE t.id = ?`, id), &tx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

// Update overwrites a transaction's mutable fields
func (r *TransactionRepository) Update(ctx context.Context, tx *finance.Transaction) error {
	err := r.db.execOne(ctx, `
		UPDATE transactions
		SET description = ?, amount = ?, type = ?, date = ?, category = ?, status = ?, project_id = ?
		WHERE id = ?
	`, tx.Description, tx.Amount, string(tx.Type), tx.Date.UTC(), tx.Category,
		nullString(string(tx.Status)), projectIDArg(tx.ProjectID), tx.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return err
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	err := r.db.execOne(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return err
}

// List returns transactions by date, most recent first. Filtering by paid
// includes rows whose status was never recorded.
func (r *TransactionRepository) List(ctx context.Context, opts finance.ListOptions) ([]finance.Transaction, error) {
	query := transactionSelect
	var conditions []string
	var args []any

	if opts.ProjectIDs != nil {
		if len(opts.ProjectIDs) == 0 {
			return []finance.Transaction{}, nil
		}
		conditions = append(conditions, "t.project_id IN ("+placeholders(len(opts.ProjectIDs))+")")
		args = append(args, stringArgs(opts.ProjectIDs)...)
	}
	if opts.Type != "" {
		conditions = append(conditions, "t.type = ?")
		args = append(args, string(opts.Type))
	}
	switch opts.Status {
	case finance.StatusPaid:
		conditions = append(conditions, "(t.status = 'paid' OR t.status IS NULL)")
	case finance.StatusPending:
		conditions = append(conditions, "t.status = 'pending'")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.date DESC, t.created_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := []finance.Transaction{}
	for rows.Next() {
		var tx finance.Transaction
		if err := scanTransaction(rows, &tx); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txs, nil
}
