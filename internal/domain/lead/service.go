package lead

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
)

// Service handles lead pipeline operations.
type Service struct {
	repo       Repository
	activities *activity.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new lead service.
func NewService(repo Repository, activities *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger, now: time.Now}
}

// CreateRequest defines lead creation inputs.
type CreateRequest struct {
	Name   string
	Email  string
	Phone  string
	Source string
	Notes  string
	Status Status
}

// UpdateRequest carries field edits. Nil fields are left untouched.
type UpdateRequest struct {
	ID     string
	Name   *string
	Email  *string
	Phone  *string
	Source *string
	Notes  *string
}

// Create adds a lead to the pipeline, starting at new unless told otherwise.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Lead, error) {
	if _, err := actor.Require(ctx); err != nil {
		return nil, err
	}
	if err := validation.Required("name", req.Name); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = StatusNew
	}
	status, err := ParseStatus(string(status))
	if err != nil {
		return nil, err
	}

	l := &Lead{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Source:    strings.TrimSpace(req.Source),
		Notes:     req.Notes,
		Status:    status,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("creating lead: %w", err)
	}

	s.activities.Record(ctx, activity.TypeLeadCreated, activity.EntityLead, l.ID, fmt.Sprintf("created lead %q", l.Name))
	return l, nil
}

// Get fetches a lead by ID.
func (s *Service) Get(ctx context.Context, id string) (*Lead, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("getting lead: %w", err)
	}
	return l, nil
}

// List fetches leads and applies the in-memory filter.
func (s *Service) List(ctx context.Context, f Filter) ([]Lead, error) {
	leads, err := s.repo.List(ctx, ListOptions{Status: f.Status})
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	return FilterLeads(leads, f, s.now()), nil
}

// ChangeStatus moves a lead to any pipeline status.
func (s *Service) ChangeStatus(ctx context.Context, id, raw string) (*Lead, error) {
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

	updated, err := SetStatus(*current, status)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("updating lead status: %w", err)
	}

	s.activities.Record(ctx, activity.TypeLeadStatusChanged, activity.EntityLead, updated.ID,
		fmt.Sprintf("lead %q moved from %s to %s", updated.Name, current.Status, updated.Status))
	return &updated, nil
}

// Update applies field edits.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Lead, error) {
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
	if req.Email != nil {
		updated.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Source != nil {
		updated.Source = strings.TrimSpace(*req.Source)
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("updating lead: %w", err)
	}
	s.activities.Record(ctx, activity.TypeLeadUpdated, activity.EntityLead, updated.ID, fmt.Sprintf("updated lead %q", updated.Name))
	return &updated, nil
}

// Delete removes a lead.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := actor.Require(ctx); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("deleting lead: %w", err)
	}
	s.activities.Record(ctx, activity.TypeLeadDeleted, activity.EntityLead, id, "deleted lead")
	return nil
}
