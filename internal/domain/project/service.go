package project

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

// Service handles project operations.
type Service struct {
	repo       Repository
	activities *activity.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new project service.
func NewService(repo Repository, activities *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger, now: time.Now}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string
	Description string
	Value       decimal.Decimal
	Deadline    *time.Time
	ClientID    string
	Status      Status
}

// UpdateRequest carries edit-form changes. Nil fields are left untouched.
type UpdateRequest struct {
	ID            string
	Name          *string
	Description   *string
	Value         *decimal.Decimal
	Deadline      *time.Time
	ClearDeadline bool
	ClientID      *string
	Status        *Status
}

// Create creates a new project in the pending state unless told otherwise.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if _, err := actor.Require(ctx); err != nil {
		return nil, err
	}
	if err := validation.Required("name", req.Name); err != nil {
		return nil, err
	}
	if err := validation.Required("client_id", req.ClientID); err != nil {
		return nil, err
	}
	if req.Value.IsNegative() {
		return nil, validation.New("value", "must not be negative")
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}

	proj := &Project{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Value:       req.Value,
		Deadline:    req.Deadline,
		ClientID:    req.ClientID,
		Status:      status,
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.activities.Record(ctx, activity.TypeProjectCreated, activity.EntityProject, proj.ID, fmt.Sprintf("created project %q", proj.Name))
	return proj, nil
}

// Get fetches a project with its tasks.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns projects, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Project, error) {
	return s.repo.List(ctx, opts)
}

// Board returns projects grouped into kanban columns.
func (s *Service) Board(ctx context.Context, opts ListOptions) (Board, error) {
	projects, err := s.repo.List(ctx, opts)
	if err != nil {
		return Board{}, fmt.Errorf("listing projects: %w", err)
	}
	return GroupByStatus(projects), nil
}

// Advance moves a project one step forward. Completed projects are returned
// unchanged without a store write.
func (s *Service) Advance(ctx context.Context, id string) (*Project, error) {
	if _, err := actor.Require(ctx); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAdvance(current.Status) {
		return current, nil
	}
	return s.writeStatus(ctx, current, Advance(*current))
}

// SetStatus assigns any valid status. This is the edit-form entry point and
// is not restricted to forward moves.
func (s *Service) SetStatus(ctx context.Context, id, raw string) (*Project, error) {
	if _, err := actor.Require(ctx); err != nil {
		return nil, err
	}
	status, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.writeStatus(ctx, current, status)
}

func (s *Service) writeStatus(ctx context.Context, current *Project, status Status) (*Project, error) {
	from := current.Status
	updated := *current
	updated.Status = status
	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project status: %w", err)
	}

	s.activities.Record(ctx, activity.TypeProjectStatusChanged, activity.EntityProject, updated.ID,
		fmt.Sprintf("project %q moved from %s to %s", updated.Name, from, status))
	return &updated, nil
}

// Update applies an edit-form change set.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Project, error) {
	if _, err := actor.Require(ctx); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Name != nil {
		if err := validation.Required("name", *req.Name); err != nil {
			return nil, err
		}
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Value != nil {
		if req.Value.IsNegative() {
			return nil, validation.New("value", "must not be negative")
		}
		updated.Value = *req.Value
	}
	if req.ClearDeadline {
		updated.Deadline = nil
	} else if req.Deadline != nil {
		updated.Deadline = req.Deadline
	}
	if req.ClientID != nil {
		if err := validation.Required("client_id", *req.ClientID); err != nil {
			return nil, err
		}
		updated.ClientID = *req.ClientID
	}
	if req.Status != nil {
		if _, err := ParseStatus(string(*req.Status)); err != nil {
			return nil, err
		}
		updated.Status = *req.Status
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProjectNotFound
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	s.activities.Record(ctx, activity.TypeProjectUpdated, activity.EntityProject, updated.ID, fmt.Sprintf("updated project %q", updated.Name))
	return &updated, nil
}

// Delete removes a project. The store cascades its tasks.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := actor.Require(ctx); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	s.activities.Record(ctx, activity.TypeProjectDeleted, activity.EntityProject, id, "deleted project")
	return nil
}
