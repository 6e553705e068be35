package mcp_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/aceweb/agencyops/internal/domain/activity"
	"github.com/aceweb/agencyops/internal/domain/client"
	"github.com/aceweb/agencyops/internal/domain/finance"
	"github.com/aceweb/agencyops/internal/domain/lead"
	"github.com/aceweb/agencyops/internal/domain/project"
	"github.com/aceweb/agencyops/internal/domain/task"
	"github.com/aceweb/agencyops/internal/export"
	"github.com/aceweb/agencyops/internal/insight"
	"github.com/aceweb/agencyops/internal/mcp"
	"github.com/aceweb/agencyops/internal/messaging"
	"github.com/aceweb/agencyops/internal/testserver"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestServer_ListsTools(t *testing.T) {
	ts := testserver.New(t)

	res, err := ts.Session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"create_client", "update_client", "delete_client", "list_clients", "get_client_overview", "contact_client",
		"create_lead", "list_leads", "set_lead_status", "delete_lead", "contact_lead",
		"create_project", "update_project", "delete_project", "list_projects", "get_project_board",
		"advance_project", "set_project_status",
		"add_task", "toggle_task", "delete_task",
		"create_transaction", "list_transactions", "mark_transaction_paid", "delete_transaction",
		"get_financial_summary", "export_transactions",
		"get_dashboard", "get_recent_activity", "get_activity_log",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}
}

func createClient(t *testing.T, ts *testserver.TestServer, name, phone string) client.Client {
	t.Helper()
	var c client.Client
	res := ts.Call(t, "create_client", map[string]any{"name": name, "phone": phone}, &c)
	require.False(t, res.IsError, testserver.ErrorText(res))
	return c
}

func createProject(t *testing.T, ts *testserver.TestServer, clientID, name string, value float64) project.Project {
	t.Helper()
	var p project.Project
	res := ts.Call(t, "create_project", map[string]any{"name": name, "client_id": clientID, "value": value, "deadline": "2026-12-01"}, &p)
	require.False(t, res.IsError, testserver.ErrorText(res))
	return p
}

func TestServer_ProjectChecklistFlow(t *testing.T) {
	ts := testserver.New(t)
	c := createClient(t, ts, "Padaria Sol", "")
	p := createProject(t, ts, c.ID, "Site institucional", 1500.5)
	require.Equal(t, project.StatusPending, p.Status)
	require.Equal(t, "1500.5", p.Value.String())
	require.NotNil(t, p.Deadline)

	var added mcp.AddTaskResult
	ts.Call(t, "add_task", map[string]any{"project_id": p.ID, "title": "   "}, &added)
	require.False(t, added.Added)
	require.Nil(t, added.Task)

	var first, second mcp.AddTaskResult
	ts.Call(t, "add_task", map[string]any{"project_id": p.ID, "title": "Wireframe"}, &first)
	ts.Call(t, "add_task", map[string]any{"project_id": p.ID, "title": "Deploy"}, &second)
	require.True(t, first.Added)
	require.Equal(t, task.StatusPending, first.Task.Status)

	var toggled mcp.ToggleTaskResult
	res := ts.Call(t, "toggle_task", map[string]any{"id": first.Task.ID}, &toggled)
	require.False(t, res.IsError, testserver.ErrorText(res))
	require.Equal(t, task.StatusCompleted, toggled.Task.Status)
	require.Len(t, toggled.Tasks, 2)
	require.InDelta(t, 0.5, toggled.CompletionRatio, 1e-9)

	var got insight.ProjectProgress
	ts.Call(t, "get_project", map[string]any{"id": p.ID}, &got)
	require.Equal(t, 50, got.Progress)
	require.Equal(t, "Padaria Sol", got.ClientName)
	require.Len(t, got.Tasks, 2)
}

func TestServer_AdvanceProject(t *testing.T) {
	ts := testserver.New(t)
	c := createClient(t, ts, "Padaria Sol", "")
	p := createProject(t, ts, c.ID, "Loja virtual", 0)

	var out mcp.AdvanceProjectResult
	ts.Call(t, "advance_project", map[string]any{"id": p.ID}, &out)
	require.Equal(t, project.StatusInProgress, out.Project.Status)
	require.Len(t, out.Board.InProgress, 1)
	require.Empty(t, out.Board.Pending)

	ts.Call(t, "advance_project", map[string]any{"id": p.ID}, &out)
	require.Equal(t, project.StatusCompleted, out.Project.Status)

	// completed stays completed
	ts.Call(t, "advance_project", map[string]any{"id": p.ID}, &out)
	require.Equal(t, project.StatusCompleted, out.Project.Status)
	require.Len(t, out.Board.Completed, 1)

	var back project.Project
	ts.Call(t, "set_project_status", map[string]any{"id": p.ID, "status": "pending"}, &back)
	require.Equal(t, project.StatusPending, back.Status)
}

func TestServer_LeadPipeline(t *testing.T) {
	ts := testserver.New(t)

	var l lead.Lead
	ts.Call(t, "create_lead", map[string]any{"name": "Maria", "email": "maria@example.com", "source": "instagram"}, &l)
	require.Equal(t, lead.StatusNew, l.Status)

	var listed mcp.LeadList
	ts.Call(t, "list_leads", map[string]any{"status": "all", "query": "MARIA"}, &listed)
	require.Len(t, listed.Leads, 1)
	require.False(t, listed.Leads[0].Stale)
	require.Equal(t, []lead.Status{lead.StatusContacted, lead.StatusLost}, listed.Leads[0].Next)

	ts.Call(t, "list_leads", map[string]any{"stale_only": true}, &listed)
	require.Empty(t, listed.Leads)

	var changed mcp.LeadStatusResult
	ts.Call(t, "set_lead_status", map[string]any{"id": l.ID, "status": "qualified"}, &changed)
	require.Equal(t, lead.StatusQualified, changed.Lead.Status)
	require.Len(t, changed.Leads, 1)
	require.Equal(t, lead.StatusQualified, changed.Leads[0].Status)

	res := ts.Call(t, "set_lead_status", map[string]any{"id": l.ID, "status": "won"}, nil)
	require.True(t, res.IsError)
	require.Contains(t, testserver.ErrorText(res), mcp.CodeValidationFailed)
}

func TestServer_FinanceAndDashboard(t *testing.T) {
	ts := testserver.New(t)
	c := createClient(t, ts, "Padaria Sol", "")
	p := createProject(t, ts, c.ID, "Loja virtual", 3000)

	var pending finance.Transaction
	for _, args := range []map[string]any{
		{"description": "Entrada", "amount": 1000, "type": "income", "project_id": p.ID},
		{"description": "Hospedagem", "amount": 200, "type": "expense", "category": "infra"},
	} {
		res := ts.Call(t, "create_transaction", args, nil)
		require.False(t, res.IsError, testserver.ErrorText(res))
	}
	ts.Call(t, "create_transaction", map[string]any{
		"description": "Parcela final", "amount": 500, "type": "income", "status": "pending", "project_id": p.ID, "date": "2026-11-20",
	}, &pending)
	require.Equal(t, finance.StatusPending, pending.Status)

	var fin insight.Financial
	ts.Call(t, "get_financial_summary", nil, &fin)
	require.Len(t, fin.Transactions, 3)
	require.Equal(t, "1000", fin.Summary.Income.String())
	require.Equal(t, "200", fin.Summary.Expenses.String())
	require.Equal(t, "500", fin.Summary.PendingIncome.String())
	require.Equal(t, "800", fin.Summary.Balance.String())
	require.InDelta(t, 80.0, fin.Summary.Margin, 1e-9)

	var dash insight.Dashboard
	ts.Call(t, "get_dashboard", nil, &dash)
	require.Equal(t, "1300", dash.Revenue.String())
	require.Equal(t, 1, dash.ActiveProjects)
	require.Equal(t, 1, dash.TotalClients)

	var overview insight.ClientOverview
	ts.Call(t, "get_client_overview", map[string]any{"id": c.ID}, &overview)
	require.Equal(t, "3000", overview.Stats.TotalInvested.String())
	require.Equal(t, "500", overview.Receivables.PendingIncome.String())
	require.Len(t, overview.Transactions, 2)

	var paid finance.Transaction
	ts.Call(t, "mark_transaction_paid", map[string]any{"id": pending.ID}, &paid)
	require.Equal(t, finance.StatusPaid, paid.Status)

	ts.Call(t, "get_financial_summary", map[string]any{"type": "income"}, &fin)
	require.Equal(t, "1500", fin.Summary.Income.String())
	require.True(t, fin.Summary.PendingIncome.IsZero())
}

func TestServer_ExportTransactions(t *testing.T) {
	ts := testserver.New(t)
	ts.Call(t, "create_transaction", map[string]any{"description": "Entrada", "amount": 250, "type": "income"}, nil)

	var report export.Report
	res := ts.Call(t, "export_transactions", nil, &report)
	require.False(t, res.IsError, testserver.ErrorText(res))
	require.Equal(t, 1, report.Rows)

	data, err := os.ReadFile(report.Location)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "date,description,type,category,status,amount,project\n"))
}

func TestServer_ContactClient(t *testing.T) {
	ts := testserver.New(t)
	c := createClient(t, ts, "João", "(11) 98888-7777")

	var link messaging.Link
	ts.Call(t, "contact_client", map[string]any{"id": c.ID}, &link)
	require.Equal(t, "5511988887777", link.Phone)
	require.True(t, strings.HasPrefix(link.URL, "https://wa.me/5511988887777?text=Ol%C3%A1%20Jo%C3%A3o"))

	noPhone := createClient(t, ts, "Sem Telefone", "")
	res := ts.Call(t, "contact_client", map[string]any{"id": noPhone.ID}, nil)
	require.True(t, res.IsError)
	require.Contains(t, testserver.ErrorText(res), mcp.CodeValidationFailed)
}

func TestServer_ErrorsAreToolErrors(t *testing.T) {
	ts := testserver.New(t)

	res := ts.Call(t, "get_project", map[string]any{"id": "missing"}, nil)
	require.True(t, res.IsError)
	require.Contains(t, testserver.ErrorText(res), mcp.CodeNotFound)

	res = ts.Call(t, "create_project", map[string]any{"name": "Orfão", "client_id": "missing"}, nil)
	require.True(t, res.IsError)
	require.Contains(t, testserver.ErrorText(res), mcp.CodeNotFound)

	res = ts.Call(t, "create_transaction", map[string]any{"description": "x", "amount": 10, "type": "income", "date": "20/11/2026"}, nil)
	require.True(t, res.IsError)
	require.Contains(t, testserver.ErrorText(res), mcp.CodeValidationFailed)
}

func TestServer_DeleteClientCascades(t *testing.T) {
	ts := testserver.New(t)
	c := createClient(t, ts, "Padaria Sol", "")
	p := createProject(t, ts, c.ID, "Loja virtual", 0)

	var deleted mcp.DeletedResult
	ts.Call(t, "delete_client", map[string]any{"id": c.ID}, &deleted)
	require.True(t, deleted.Deleted)

	res := ts.Call(t, "get_project", map[string]any{"id": p.ID}, nil)
	require.True(t, res.IsError)
}

func TestServer_ActivityAndMetrics(t *testing.T) {
	ts := testserver.New(t)
	createClient(t, ts, "Padaria Sol", "")
	ts.Call(t, "get_project", map[string]any{"id": "missing"}, nil)

	var log mcp.ActivityLog
	ts.Call(t, "get_activity_log", map[string]any{"entity_type": "client"}, &log)
	require.Len(t, log.Entries, 1)
	require.Equal(t, activity.TypeClientCreated, log.Entries[0].ActivityType)
	require.Equal(t, mcp.LocalActor, log.Entries[0].Actor)

	require.InDelta(t, 1, testutil.ToFloat64(ts.Metrics.Calls("create_client", "ok")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(ts.Metrics.Calls("get_project", "tool_error")), 0)
}

func TestServer_HTTPBearerAuth(t *testing.T) {
	ts, err := testserver.NewHTTP(t, "secret-token", "ana", "secret-token")
	require.NoError(t, err)

	createClient(t, ts, "Padaria Sol", "")
	var log mcp.ActivityLog
	ts.Call(t, "get_activity_log", nil, &log)
	require.Len(t, log.Entries, 1)
	require.Equal(t, "ana", log.Entries[0].Actor)
}

func TestServer_HTTPRejectsUnknownToken(t *testing.T) {
	ts, err := testserver.NewHTTP(t, "secret-token", "ana", "wrong-token")
	require.NoError(t, err)

	_, err = ts.Session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "list_clients", Arguments: map[string]any{}})
	require.ErrorContains(t, err, "unauthorized")
}
