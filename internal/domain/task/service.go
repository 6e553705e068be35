package task

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
)

// Service handles checklist operations.
type Service struct {
	repo       Repository
	activities *activity.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new task service.
func NewService(repo Repository, activities *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger, now: time.Now}
}

// Add appends a pending task to a project. A blank title is a no-op and
// returns (nil, nil) without touching the store.
func (s *Service) Add(ctx context.Context, projectID, title string) (*Task, error) {
	if _, err := actor.Require(ctx); err != nil {
		return nil, err
	}
	if err := validation.Required("project_id", projectID); err != nil {
		return nil, err
	}

	t, ok := New(projectID, title, s.now())
	if !ok {
		return nil, nil
	}
	if err := s.repo.Create(ctx, &t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.activities.Record(ctx, activity.TypeTaskAdded, activity.EntityTask, t.ID, fmt.Sprintf("added task %q", t.Title))
	return &t, nil
}

// Toggle flips a task's status and persists it.
func (s *Service) Toggle(ctx context.Context, id string) (*Task, error) {
	if _, err := actor.Require(ctx); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := Toggle(*current)
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("toggling task: %w", err)
	}

	s.activities.Record(ctx, activity.TypeTaskToggled, activity.EntityTask, updated.ID,
		fmt.Sprintf("task %q is now %s", updated.Title, updated.Status))
	return &updated, nil
}

// Rename changes a task title.
func (s *Service) Rename(ctx context.Context, id, title string) (*Task, error) {
	if _, err := actor.Require(ctx); err != nil {
		return nil, err
	}
	if err := validation.Required("title", title); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Title = strings.TrimSpace(title)
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("renaming task: %w", err)
	}

	s.activities.Record(ctx, activity.TypeTaskRenamed, activity.EntityTask, updated.ID, fmt.Sprintf("renamed task to %q", updated.Title))
	return &updated, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := actor.Require(ctx); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("deleting task: %w", err)
	}
	s.activities.Record(ctx, activity.TypeTaskDeleted, activity.EntityTask, id, "deleted task")
	return nil
}

// Get fetches a task by ID.
func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// List returns the checklist of one project in creation order.
func (s *Service) List(ctx context.Context, projectID string) ([]Task, error) {
	return s.repo.ListByProject(ctx, projectID)
}
