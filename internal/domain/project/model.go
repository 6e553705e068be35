package project

import (
	"time"

	"github.com/aceweb/agencyops/internal/domain/task"
	"github.com/aceweb/agencyops/internal/domain/validation"
	"github.com/shopspring/decimal"
)

// Status is the delivery lifecycle state of a project
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists the lifecycle in kanban column order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return s, nil
	default:
		return "", validation.New("status", "unrecognized project status "+raw)
	}
}

// Project is a billable unit of work for a client, decomposed into tasks
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Value       decimal.Decimal `json:"value"`
	Deadline    *time.Time      `json:"deadline,omitempty"`
	ClientID    string          `json:"client_id"`
	ClientName  string          `json:"client_name,omitempty"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	Tasks       []task.Task     `json:"tasks,omitempty"`
}

// Board groups projects into kanban columns
type Board struct {
	Pending    []Project `json:"pending"`
	InProgress []Project `json:"in_progress"`
	Completed  []Project `json:"completed"`
}
