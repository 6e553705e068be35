package task

import (
	"time"

	"github.com/aceweb/agencyops/internal/domain/validation"
)

// Status is the checklist state of a task
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusCompleted:
		return s, nil
	default:
		return "", validation.New("status", "unrecognized task status "+raw)
	}
}

// Task is an atomic checklist item belonging to exactly one project
type Task struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
