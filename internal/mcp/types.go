package mcp

import (
	"time"

	"github.com/aceweb/agencyops/internal/domain/activity"
	"github.com/aceweb/agencyops/internal/domain/client"
	"github.com/aceweb/agencyops/internal/domain/finance"
	"github.com/aceweb/agencyops/internal/domain/lead"
	"github.com/aceweb/agencyops/internal/domain/project"
	"github.com/aceweb/agencyops/internal/domain/task"
	"github.com/aceweb/agencyops/internal/domain/validation"
	"github.com/aceweb/agencyops/internal/insight"
	"github.com/aceweb/agencyops/internal/metrics"
)

const dateLayout = "2006-01-02"

type IDParams struct {
	ID string `json:"id" jsonschema:"record ID"`
}

// Clients

type CreateClientParams struct {
	Name     string `json:"name" jsonschema:"client display name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty" jsonschema:"phone number, any formatting"`
	Document string `json:"document,omitempty" jsonschema:"tax document number"`
}

type UpdateClientParams struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Document *string `json:"document,omitempty"`
}

type ListClientsParams struct {
	Query string `json:"query,omitempty" jsonschema:"case-insensitive match on name, email or phone"`
	Limit int    `json:"limit,omitempty"`
}

type ClientList struct {
	Clients []client.Client `json:"clients"`
}

// Leads

type CreateLeadParams struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Source string `json:"source,omitempty" jsonschema:"where the lead came from"`
	Notes  string `json:"notes,omitempty"`
	Status string `json:"status,omitempty" jsonschema:"new, contacted, qualified, proposal_sent, converted or lost; defaults to new"`
}

type UpdateLeadParams struct {
	ID     string  `json:"id"`
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Source *string `json:"source,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

type ListLeadsParams struct {
	Status    string `json:"status,omitempty" jsonschema:"a lead status or all"`
	Query     string `json:"query,omitempty" jsonschema:"case-insensitive match on name, email or phone"`
	StaleOnly bool   `json:"stale_only,omitempty" jsonschema:"only leads older than seven days that have not converted"`
}

type SetLeadStatusParams struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// LeadView is a pipeline card.
type LeadView struct {
	lead.Lead
	Stale bool          `json:"stale"`
	Next  []lead.Status `json:"next_statuses"`
}

type LeadList struct {
	Leads []LeadView `json:"leads"`
}

type LeadStatusResult struct {
	Lead  *lead.Lead `json:"lead"`
	Leads []LeadView `json:"leads"`
}

// Projects

type CreateProjectParams struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Value       float64 `json:"value,omitempty" jsonschema:"contract value, non-negative"`
	Deadline    string  `json:"deadline,omitempty" jsonschema:"YYYY-MM-DD"`
	ClientID    string  `json:"client_id"`
	Status      string  `json:"status,omitempty" jsonschema:"pending, in_progress or completed; defaults to pending"`
}

type UpdateProjectParams struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Value       *float64 `json:"value,omitempty"`
	Deadline    *string  `json:"deadline,omitempty" jsonschema:"YYYY-MM-DD, empty string clears it"`
	ClientID    *string  `json:"client_id,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

type ListProjectsParams struct {
	ClientID string   `json:"client_id,omitempty"`
	Statuses []string `json:"statuses,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

type SetProjectStatusParams struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ProjectList struct {
	Projects []insight.ProjectProgress `json:"projects"`
}

type AdvanceProjectResult struct {
	Project *project.Project `json:"project"`
	Board   project.Board    `json:"board"`
}

// Tasks

type AddTaskParams struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title" jsonschema:"blank titles are ignored"`
}

type RenameTaskParams struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ListTasksParams struct {
	ProjectID string `json:"project_id"`
}

type AddTaskResult struct {
	Task  *task.Task `json:"task,omitempty"`
	Added bool       `json:"added"`
}

type TaskList struct {
	Tasks           []task.Task `json:"tasks"`
	CompletionRatio float64     `json:"completion_ratio"`
}

type ToggleTaskResult struct {
	Task *task.Task `json:"task"`
	TaskList
}

// Finance

type CreateTransactionParams struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount" jsonschema:"positive magnitude; the type carries the sign"`
	Type        string  `json:"type" jsonschema:"income or expense"`
	Date        string  `json:"date,omitempty" jsonschema:"YYYY-MM-DD, defaults to today"`
	Category    string  `json:"category,omitempty"`
	Status      string  `json:"status,omitempty" jsonschema:"paid or pending; absent counts as paid"`
	ProjectID   string  `json:"project_id,omitempty"`
}

type ListTransactionsParams struct {
	ProjectID string `json:"project_id,omitempty"`
	Type      string `json:"type,omitempty" jsonschema:"income or expense"`
	Status    string `json:"status,omitempty" jsonschema:"paid or pending"`
	Limit     int    `json:"limit,omitempty"`
}

type TransactionList struct {
	Transactions []finance.Transaction `json:"transactions"`
}

// Overview

type RecentActivityParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"defaults to 5"`
}

type RecentActivityResult struct {
	Items []metrics.FeedItem `json:"items"`
}

type ActivityLogParams struct {
	EntityType string `json:"entity_type,omitempty" jsonschema:"client, lead, project, task or transaction"`
	EntityID   string `json:"entity_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

type ActivityLog struct {
	Entries []activity.ActivityEntry `json:"entries"`
}

type DeletedResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func parseDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, validation.New(field, "must be a YYYY-MM-DD date")
	}
	return &t, nil
}

func (p ListTransactionsParams) options() (finance.ListOptions, error) {
	opts := finance.ListOptions{Limit: p.Limit}
	if p.ProjectID != "" {
		opts.ProjectIDs = []string{p.ProjectID}
	}
	if p.Type != "" {
		typ, err := finance.ParseType(p.Type)
		if err != nil {
			return opts, err
		}
		opts.Type = typ
	}
	if p.Status != "" {
		status, err := finance.ParseStatus(p.Status)
		if err != nil {
			return opts, err
		}
		opts.Status = status
	}
	return opts, nil
}
