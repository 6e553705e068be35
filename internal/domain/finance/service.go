package finance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aceweb/agencyops/internal/domain/activity"
	"github.com/aceweb/agencyops/internal/domain/actor"
	"github.com/aceweb/agencyops/internal/domain/validation"
	"github.com/aceweb/agencyops/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service handles cash-flow operations.
type Service struct {
	repo       Repository
	activities *activity.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new finance service.
func NewService(repo Repository, activities *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger, now: time.Now}
}

// CreateRequest defines transaction inputs. A zero Date means today.
type CreateRequest struct {
	Description string
	Amount      decimal.Decimal
	Type        Type
	Date        time.Time
	Category    string
	Status      Status
	ProjectID   string
}

// Create records a transaction.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Transaction, error) {
	if _, err := actor.Require(ctx); err != nil {
		return nil, err
	}
	if err := validation.Required("description", req.Description); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, validation.New("amount", "must be greater than zero")
	}
	typ, err := ParseType(string(req.Type))
	if err != nil {
		return nil, err
	}
	status, err := ParseStatus(string(req.Status))
	if err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = s.now()
	}
	tx := &Transaction{
		ID:          uuid.NewString(),
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Type:        typ,
		Date:        date,
		Category:    strings.TrimSpace(req.Category),
		Status:      status,
		CreatedAt:   s.now(),
	}
	if id := strings.TrimSpace(req.ProjectID); id != "" {
		tx.ProjectID = &id
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	s.activities.Record(ctx, activity.TypeTransactionCreated, activity.EntityTransaction, tx.ID,
		fmt.Sprintf("recorded %s %q of %s", tx.Type, tx.Description, tx.Amount.StringFixed(2)))
	return tx, nil
}

// Get fetches a transaction by ID.
func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	tx, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("getting transaction: %w", err)
	}
	return tx, nil
}

// List returns transactions, most recent date first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Transaction, error) {
	return s.repo.List(ctx, opts)
}

// MarkPaid settles a transaction. Already-paid transactions are returned
// without a store write.
func (s *Service) MarkPaid(ctx context.Context, id string) (*Transaction, error) {
	if _, err := actor.Require(ctx); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusPaid {
		return current, nil
	}

	updated := MarkPaid(*current)
	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("marking transaction paid: %w", err)
	}

	s.activities.Record(ctx, activity.TypeTransactionPaid, activity.EntityTransaction, updated.ID,
		fmt.Sprintf("marked %q as paid", updated.Description))
	return &updated, nil
}

// Delete removes a transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := actor.Require(ctx); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("deleting transaction: %w", err)
	}
	s.activities.Record(ctx, activity.TypeTransactionDeleted, activity.EntityTransaction, id, "deleted transaction")
	return nil
}
