package mcp

import (
	"context"
	"time"

	"github.com/aceweb/agencyops/internal/domain/activity"
	"github.com/aceweb/agencyops/internal/domain/client"
	"github.com/aceweb/agencyops/internal/domain/finance"
	"github.com/aceweb/agencyops/internal/domain/lead"
	"github.com/aceweb/agencyops/internal/domain/project"
	"github.com/aceweb/agencyops/internal/domain/task"
	"github.com/aceweb/agencyops/internal/insight"
	"github.com/aceweb/agencyops/internal/view"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
)

const defaultRecentLimit = 5

type tools struct {
	svc Services
	now func() time.Time
}

// addTool registers fn as a tool whose input schema is inferred from In.
// Service errors are mapped through MapError and reported as tool errors.
func addTool[In any](server *sdkmcp.Server, name, description string, fn func(ctx context.Context, in In) (any, error)) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
			out, err := fn(ctx, in)
			if err != nil {
				return nil, nil, toolError(err)
			}
			return nil, out, nil
		})
}

func registerTools(server *sdkmcp.Server, svc Services) {
	t := &tools{svc: svc, now: time.Now}

	// Clients
	addTool(server, "create_client", "Register a new client", t.createClient)
	addTool(server, "update_client", "Edit client fields; omitted fields are kept", t.updateClient)
	addTool(server, "delete_client", "Delete a client with its projects and tasks", t.deleteClient)
	addTool(server, "list_clients", "List clients, newest first, optionally filtered by a search query", t.listClients)
	addTool(server, "get_client_overview", "Client detail: stats, projects with progress, pending tasks and receivables", t.clientOverview)

	// Leads
	addTool(server, "create_lead", "Add a lead to the sales pipeline", t.createLead)
	addTool(server, "update_lead", "Edit lead fields; omitted fields are kept", t.updateLead)
	addTool(server, "list_leads", "List leads filtered by status, search query and staleness", t.listLeads)
	addTool(server, "set_lead_status", "Move a lead to any pipeline status and return the refreshed pipeline", t.setLeadStatus)
	addTool(server, "delete_lead", "Delete a lead", t.deleteLead)

	// Projects
	addTool(server, "create_project", "Create a project for a client", t.createProject)
	addTool(server, "update_project", "Edit project fields; omitted fields are kept", t.updateProject)
	addTool(server, "delete_project", "Delete a project and its tasks", t.deleteProject)
	addTool(server, "get_project", "Get a project with its tasks and progress", t.getProject)
	addTool(server, "list_projects", "List projects with progress, filtered by client and status", t.listProjects)
	addTool(server, "get_project_board", "Projects grouped into pending, in_progress and completed columns", t.projectBoard)
	addTool(server, "advance_project", "Move a project one kanban step forward and return the refreshed board", t.advanceProject)
	addTool(server, "set_project_status", "Set any project status, including backwards moves", t.setProjectStatus)

	// Tasks
	addTool(server, "add_task", "Add a pending task to a project checklist; blank titles are ignored", t.addTask)
	addTool(server, "toggle_task", "Flip a task between pending and completed and return the refreshed checklist", t.toggleTask)
	addTool(server, "rename_task", "Change a task title", t.renameTask)
	addTool(server, "delete_task", "Delete a task", t.deleteTask)
	addTool(server, "list_tasks", "List a project checklist with its completion ratio", t.listTasks)

	// Finance
	addTool(server, "create_transaction", "Record an income or expense", t.createTransaction)
	addTool(server, "list_transactions", "List transactions, newest date first", t.listTransactions)
	addTool(server, "mark_transaction_paid", "Mark a pending transaction as paid", t.markPaid)
	addTool(server, "delete_transaction", "Delete a transaction", t.deleteTransaction)
	addTool(server, "get_financial_summary", "Income, expenses, pending income, balance and margin for a filtered set", t.financialSummary)
	if svc.Exporter != nil {
		addTool(server, "export_transactions", "Write a CSV report of the filtered transactions", t.exportTransactions)
	}

	// Overview
	addTool(server, "get_dashboard", "Revenue, active projects, client and lead counts and the recent feed", t.dashboard)
	addTool(server, "get_recent_activity", "Newest projects and leads merged into one feed", t.recentActivity)
	addTool(server, "get_activity_log", "Audit log of mutations, newest first", t.activityLog)

	// Messaging
	if svc.Messenger != nil {
		addTool(server, "contact_client", "Build a WhatsApp greeting link for a client", t.contactClient)
		addTool(server, "contact_lead", "Build a WhatsApp greeting link for a lead", t.contactLead)
	}
}

// Clients

func (t *tools) createClient(ctx context.Context, in CreateClientParams) (any, error) {
	return t.svc.Clients.Create(ctx, client.CreateRequest{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Document: in.Document,
	})
}

func (t *tools) updateClient(ctx context.Context, in UpdateClientParams) (any, error) {
	return t.svc.Clients.Update(ctx, client.UpdateRequest{
		ID:       in.ID,
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Document: in.Document,
	})
}

func (t *tools) deleteClient(ctx context.Context, in IDParams) (any, error) {
	if err := t.svc.Clients.Delete(ctx, in.ID); err != nil {
		return nil, err
	}
	return DeletedResult{ID: in.ID, Deleted: true}, nil
}

func (t *tools) listClients(ctx context.Context, in ListClientsParams) (any, error) {
	clients, err := t.svc.Clients.List(ctx, client.ListOptions{Query: in.Query, Limit: in.Limit})
	if err != nil {
		return nil, err
	}
	return ClientList{Clients: nonNil(clients)}, nil
}

func (t *tools) clientOverview(ctx context.Context, in IDParams) (any, error) {
	return t.svc.Insight.ClientOverview(ctx, in.ID)
}

func (t *tools) contactClient(ctx context.Context, in IDParams) (any, error) {
	c, err := t.svc.Clients.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return t.svc.Messenger.Contact(ctx, c.Phone, c.Name)
}

// Leads

func (t *tools) createLead(ctx context.Context, in CreateLeadParams) (any, error) {
	return t.svc.Leads.Create(ctx, lead.CreateRequest{
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Source: in.Source,
		Notes:  in.Notes,
		Status: lead.Status(in.Status),
	})
}

func (t *tools) updateLead(ctx context.Context, in UpdateLeadParams) (any, error) {
	return t.svc.Leads.Update(ctx, lead.UpdateRequest{
		ID:     in.ID,
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Source: in.Source,
		Notes:  in.Notes,
	})
}

func (t *tools) listLeads(ctx context.Context, in ListLeadsParams) (any, error) {
	status, err := lead.ParseFilterStatus(in.Status)
	if err != nil {
		return nil, err
	}
	leads, err := t.svc.Leads.List(ctx, lead.Filter{Status: status, Query: in.Query, StaleOnly: in.StaleOnly})
	if err != nil {
		return nil, err
	}
	return LeadList{Leads: t.leadViews(leads)}, nil
}

func (t *tools) setLeadStatus(ctx context.Context, in SetLeadStatusParams) (any, error) {
	status, err := lead.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	pipeline := view.NewReconciler(func(ctx context.Context) ([]lead.Lead, error) {
		return t.svc.Leads.List(ctx, lead.Filter{})
	})
	if _, err := pipeline.Refresh(ctx); err != nil {
		return nil, err
	}

	var changed *lead.Lead
	outcome, err := pipeline.Mutate(ctx, func(items []lead.Lead) []lead.Lead {
		for i := range items {
			if items[i].ID == in.ID {
				items[i], _ = lead.SetStatus(items[i], status)
			}
		}
		return items
	}, func(ctx context.Context) error {
		var err error
		changed, err = t.svc.Leads.ChangeStatus(ctx, in.ID, string(status))
		return err
	})
	if err != nil {
		return nil, err
	}
	return LeadStatusResult{Lead: changed, Leads: t.leadViews(outcome.Authoritative)}, nil
}

func (t *tools) deleteLead(ctx context.Context, in IDParams) (any, error) {
	if err := t.svc.Leads.Delete(ctx, in.ID); err != nil {
		return nil, err
	}
	return DeletedResult{ID: in.ID, Deleted: true}, nil
}

func (t *tools) contactLead(ctx context.Context, in IDParams) (any, error) {
	l, err := t.svc.Leads.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return t.svc.Messenger.Contact(ctx, l.Phone, l.Name)
}

func (t *tools) leadViews(leads []lead.Lead) []LeadView {
	now := t.now()
	out := make([]LeadView, 0, len(leads))
	for _, l := range leads {
		out = append(out, LeadView{Lead: l, Stale: lead.IsStale(l, now), Next: nonNil(lead.NextStatuses(l.Status))})
	}
	return out
}

// Projects

func (t *tools) createProject(ctx context.Context, in CreateProjectParams) (any, error) {
	deadline, err := parseDate("deadline", in.Deadline)
	if err != nil {
		return nil, err
	}
	return t.svc.Projects.Create(ctx, project.CreateRequest{
		Name:        in.Name,
		Description: in.Description,
		Value:       decimal.NewFromFloat(in.Value),
		Deadline:    deadline,
		ClientID:    in.ClientID,
		Status:      project.Status(in.Status),
	})
}

func (t *tools) updateProject(ctx context.Context, in UpdateProjectParams) (any, error) {
	req := project.UpdateRequest{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		ClientID:    in.ClientID,
	}
	if in.Value != nil {
		v := decimal.NewFromFloat(*in.Value)
		req.Value = &v
	}
	if in.Deadline != nil {
		if *in.Deadline == "" {
			req.ClearDeadline = true
		} else {
			deadline, err := parseDate("deadline", *in.Deadline)
			if err != nil {
				return nil, err
			}
			req.Deadline = deadline
		}
	}
	if in.Status != nil {
		status, err := project.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		req.Status = &status
	}
	return t.svc.Projects.Update(ctx, req)
}

func (t *tools) deleteProject(ctx context.Context, in IDParams) (any, error) {
	if err := t.svc.Projects.Delete(ctx, in.ID); err != nil {
		return nil, err
	}
	return DeletedResult{ID: in.ID, Deleted: true}, nil
}

func (t *tools) getProject(ctx context.Context, in IDParams) (any, error) {
	p, err := t.svc.Projects.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return insight.ProjectProgress{Project: *p, Progress: project.Progress(*p)}, nil
}

func (t *tools) listProjects(ctx context.Context, in ListProjectsParams) (any, error) {
	opts, err := projectListOptions(in.ClientID, in.Statuses)
	if err != nil {
		return nil, err
	}
	opts.Limit = in.Limit
	projects, err := t.svc.Projects.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]insight.ProjectProgress, 0, len(projects))
	for _, p := range projects {
		out = append(out, insight.ProjectProgress{Project: p, Progress: project.Progress(p)})
	}
	return ProjectList{Projects: out}, nil
}

func (t *tools) projectBoard(ctx context.Context, in ListProjectsParams) (any, error) {
	opts, err := projectListOptions(in.ClientID, in.Statuses)
	if err != nil {
		return nil, err
	}
	return t.svc.Projects.Board(ctx, opts)
}

func (t *tools) advanceProject(ctx context.Context, in IDParams) (any, error) {
	board := view.NewReconciler(func(ctx context.Context) ([]project.Project, error) {
		return t.svc.Projects.List(ctx, project.ListOptions{})
	})
	if _, err := board.Refresh(ctx); err != nil {
		return nil, err
	}

	var advanced *project.Project
	outcome, err := board.Mutate(ctx, func(items []project.Project) []project.Project {
		for i := range items {
			if items[i].ID == in.ID && project.CanAdvance(items[i].Status) {
				items[i].Status = project.Advance(items[i])
			}
		}
		return items
	}, func(ctx context.Context) error {
		var err error
		advanced, err = t.svc.Projects.Advance(ctx, in.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return AdvanceProjectResult{Project: advanced, Board: project.GroupByStatus(outcome.Authoritative)}, nil
}

func (t *tools) setProjectStatus(ctx context.Context, in SetProjectStatusParams) (any, error) {
	return t.svc.Projects.SetStatus(ctx, in.ID, in.Status)
}

func projectListOptions(clientID string, statuses []string) (project.ListOptions, error) {
	opts := project.ListOptions{ClientID: clientID}
	for _, raw := range statuses {
		s, err := project.ParseStatus(raw)
		if err != nil {
			return opts, err
		}
		opts.Statuses = append(opts.Statuses, s)
	}
	return opts, nil
}

// Tasks

func (t *tools) addTask(ctx context.Context, in AddTaskParams) (any, error) {
	added, err := t.svc.Tasks.Add(ctx, in.ProjectID, in.Title)
	if err != nil {
		return nil, err
	}
	return AddTaskResult{Task: added, Added: added != nil}, nil
}

func (t *tools) toggleTask(ctx context.Context, in IDParams) (any, error) {
	current, err := t.svc.Tasks.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	checklist := view.NewReconciler(func(ctx context.Context) ([]task.Task, error) {
		return t.svc.Tasks.List(ctx, current.ProjectID)
	})
	if _, err := checklist.Refresh(ctx); err != nil {
		return nil, err
	}

	var toggled *task.Task
	outcome, err := checklist.Mutate(ctx, func(items []task.Task) []task.Task {
		for i := range items {
			if items[i].ID == in.ID {
				items[i] = task.Toggle(items[i])
			}
		}
		return items
	}, func(ctx context.Context) error {
		var err error
		toggled, err = t.svc.Tasks.Toggle(ctx, in.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToggleTaskResult{Task: toggled, TaskList: taskList(outcome.Authoritative)}, nil
}

func (t *tools) renameTask(ctx context.Context, in RenameTaskParams) (any, error) {
	return t.svc.Tasks.Rename(ctx, in.ID, in.Title)
}

func (t *tools) deleteTask(ctx context.Context, in IDParams) (any, error) {
	if err := t.svc.Tasks.Delete(ctx, in.ID); err != nil {
		return nil, err
	}
	return DeletedResult{ID: in.ID, Deleted: true}, nil
}

func (t *tools) listTasks(ctx context.Context, in ListTasksParams) (any, error) {
	tasks, err := t.svc.Tasks.List(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	return taskList(tasks), nil
}

func taskList(tasks []task.Task) TaskList {
	return TaskList{Tasks: nonNil(tasks), CompletionRatio: task.CompletionRatio(tasks)}
}

// Finance

func (t *tools) createTransaction(ctx context.Context, in CreateTransactionParams) (any, error) {
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	req := finance.CreateRequest{
		Description: in.Description,
		Amount:      decimal.NewFromFloat(in.Amount),
		Type:        finance.Type(in.Type),
		Category:    in.Category,
		Status:      finance.Status(in.Status),
		ProjectID:   in.ProjectID,
	}
	if date != nil {
		req.Date = *date
	}
	return t.svc.Finance.Create(ctx, req)
}

func (t *tools) listTransactions(ctx context.Context, in ListTransactionsParams) (any, error) {
	opts, err := in.options()
	if err != nil {
		return nil, err
	}
	txs, err := t.svc.Finance.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return TransactionList{Transactions: nonNil(txs)}, nil
}

func (t *tools) markPaid(ctx context.Context, in IDParams) (any, error) {
	return t.svc.Finance.MarkPaid(ctx, in.ID)
}

func (t *tools) deleteTransaction(ctx context.Context, in IDParams) (any, error) {
	if err := t.svc.Finance.Delete(ctx, in.ID); err != nil {
		return nil, err
	}
	return DeletedResult{ID: in.ID, Deleted: true}, nil
}

func (t *tools) financialSummary(ctx context.Context, in ListTransactionsParams) (any, error) {
	opts, err := in.options()
	if err != nil {
		return nil, err
	}
	return t.svc.Insight.Financial(ctx, opts)
}

func (t *tools) exportTransactions(ctx context.Context, in ListTransactionsParams) (any, error) {
	opts, err := in.options()
	if err != nil {
		return nil, err
	}
	return t.svc.Exporter.ExportTransactions(ctx, opts)
}

// Overview

func (t *tools) dashboard(ctx context.Context, _ struct{}) (any, error) {
	return t.svc.Insight.Dashboard(ctx)
}

func (t *tools) recentActivity(ctx context.Context, in RecentActivityParams) (any, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	items, err := t.svc.Insight.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return RecentActivityResult{Items: nonNil(items)}, nil
}

func (t *tools) activityLog(ctx context.Context, in ActivityLogParams) (any, error) {
	opts := activity.ListActivityOptions{Limit: in.Limit, Offset: in.Offset}
	if in.EntityType != "" {
		et := activity.EntityType(in.EntityType)
		opts.EntityType = &et
	}
	if in.EntityID != "" {
		opts.EntityID = &in.EntityID
	}
	entries, err := t.svc.Activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return nil, err
	}
	return ActivityLog{Entries: nonNil(entries)}, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
