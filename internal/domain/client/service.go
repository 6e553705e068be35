package client

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

// Service handles client operations.
type Service struct {
	repo       Repository
	activities *activity.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new client service.
func NewService(repo Repository, activities *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger, now: time.Now}
}

// CreateRequest defines client creation inputs.
type CreateRequest struct {
	Name     string
	Email    string
	Phone    string
	Document string
}

// UpdateRequest carries field edits. Nil fields are left untouched.
type UpdateRequest struct {
	ID       string
	Name     *string
	Email    *string
	Phone    *string
	Document *string
}

// Create registers a new client.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Client, error) {
	if _, err := actor.Require(ctx); err != nil {
		return nil, err
	}
	if err := validation.Required("name", req.Name); err != nil {
		return nil, err
	}

	c := &Client{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Document:  strings.TrimSpace(req.Document),
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	s.activities.Record(ctx, activity.TypeClientCreated, activity.EntityClient, c.ID, fmt.Sprintf("created client %q", c.Name))
	return c, nil
}

// Get fetches a client by ID.
func (s *Service) Get(ctx context.Context, id string) (*Client, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("getting client: %w", err)
	}
	return c, nil
}

// List returns clients, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Client, error) {
	return s.repo.List(ctx, opts)
}

// Update applies field edits.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Client, error) {
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
	if req.Document != nil {
		updated.Document = strings.TrimSpace(*req.Document)
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("updating client: %w", err)
	}
	s.activities.Record(ctx, activity.TypeClientUpdated, activity.EntityClient, updated.ID, fmt.Sprintf("updated client %q", updated.Name))
	return &updated, nil
}

// Delete removes a client together with its projects.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := actor.Require(ctx); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("deleting client: %w", err)
	}
	s.activities.Record(ctx, activity.TypeClientDeleted, activity.EntityClient, id, "deleted client")
	return nil
}
