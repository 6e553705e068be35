package activity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aceweb/agencyops/internal/domain/actor"
	"github.com/google/uuid"
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry, filling ID and timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || entry.ActivityType == "" {
		return ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.Actor == "" {
		entry.Actor, _ = actor.FromContext(ctx)
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// GetRecentActivity lists activity entries with filtering.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	return s.repo.List(ctx, opts)
}

// Recorder is the write side used by the entity services. A failed write is
// logged and never returned: the mutation it describes already happened.
type Recorder struct {
	svc    *Service
	logger *slog.Logger
}

// NewRecorder wraps a repository for fire-and-forget logging.
func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recorder{svc: NewService(repo, logger), logger: logger}
}

// Record appends an entry. A nil Recorder is a no-op.
func (r *Recorder) Record(ctx context.Context, typ ActivityType, entity EntityType, entityID, summary string) {
	if r == nil || r.svc == nil || r.svc.repo == nil {
		return
	}
	err := r.svc.LogActivity(ctx, &ActivityEntry{
		EntityType:   entity,
		EntityID:     entityID,
		ActivityType: typ,
		Summary:      summary,
	})
	if err != nil {
		r.logger.Warn("activity log write failed", "type", typ, "entity_id", entityID, "error", err)
	}
}
