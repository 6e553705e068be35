package mcp

import (
	"context"
	"log/slog"

	"github.com/aceweb/agencyops/internal/domain/activity"
	"github.com/aceweb/agencyops/internal/domain/client"
	"github.com/aceweb/agencyops/internal/domain/finance"
	"github.com/aceweb/agencyops/internal/domain/lead"
	"github.com/aceweb/agencyops/internal/domain/project"
	"github.com/aceweb/agencyops/internal/domain/task"
	"github.com/aceweb/agencyops/internal/export"
	"github.com/aceweb/agencyops/internal/insight"
	"github.com/aceweb/agencyops/internal/messaging"
	"github.com/aceweb/agencyops/internal/metrics"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ClientService defines client operations needed by MCP.
type ClientService interface {
	Create(ctx context.Context, req client.CreateRequest) (*client.Client, error)
	Get(ctx context.Context, id string) (*client.Client, error)
	List(ctx context.Context, opts client.ListOptions) ([]client.Client, error)
	Update(ctx context.Context, req client.UpdateRequest) (*client.Client, error)
	Delete(ctx context.Context, id string) error
}

// LeadService defines lead operations needed by MCP.
type LeadService interface {
	Create(ctx context.Context, req lead.CreateRequest) (*lead.Lead, error)
	Get(ctx context.Context, id string) (*lead.Lead, error)
	List(ctx context.Context, f lead.Filter) ([]lead.Lead, error)
	ChangeStatus(ctx context.Context, id, status string) (*lead.Lead, error)
	Update(ctx context.Context, req lead.UpdateRequest) (*lead.Lead, error)
	Delete(ctx context.Context, id string) error
}

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
	Board(ctx context.Context, opts project.ListOptions) (project.Board, error)
	Advance(ctx context.Context, id string) (*project.Project, error)
	SetStatus(ctx context.Context, id, status string) (*project.Project, error)
	Update(ctx context.Context, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, id string) error
}

// TaskService defines checklist operations needed by MCP.
type TaskService interface {
	Add(ctx context.Context, projectID, title string) (*task.Task, error)
	Get(ctx context.Context, id string) (*task.Task, error)
	Toggle(ctx context.Context, id string) (*task.Task, error)
	Rename(ctx context.Context, id, title string) (*task.Task, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, projectID string) ([]task.Task, error)
}

// FinanceService defines transaction operations needed by MCP.
type FinanceService interface {
	Create(ctx context.Context, req finance.CreateRequest) (*finance.Transaction, error)
	Get(ctx context.Context, id string) (*finance.Transaction, error)
	List(ctx context.Context, opts finance.ListOptions) ([]finance.Transaction, error)
	MarkPaid(ctx context.Context, id string) (*finance.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// InsightService builds the composed read models.
type InsightService interface {
	Dashboard(ctx context.Context) (*insight.Dashboard, error)
	ClientOverview(ctx context.Context, clientID string) (*insight.ClientOverview, error)
	Financial(ctx context.Context, opts finance.ListOptions) (*insight.Financial, error)
	Recent(ctx context.Context, limit int) ([]metrics.FeedItem, error)
}

// Messenger opens an outbound greeting.
type Messenger interface {
	Contact(ctx context.Context, phone, name string) (messaging.Link, error)
}

// Exporter writes transaction reports.
type Exporter interface {
	ExportTransactions(ctx context.Context, opts finance.ListOptions) (*export.Report, error)
}

// Services contains all domain services needed by MCP. Exporter may be nil,
// in which case the export tool is not offered.
type Services struct {
	Clients   ClientService
	Leads     LeadService
	Projects  ProjectService
	Tasks     TaskService
	Finance   FinanceService
	Activity  ActivityService
	Insight   InsightService
	Messenger Messenger
	Exporter  Exporter
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      ActorResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
	Metrics       *Metrics
	Version       string
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "agencyops",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local-only and never authenticates.
	auth := noAuthMiddleware(LocalActor)
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		auth = authMiddleware(cfg.Resolver)
	}

	// Outermost first: the traffic log must run after auth sets the actor.
	server.AddReceivingMiddleware(
		cfg.Metrics.middleware(),
		auth,
		sessionMiddleware(),
		trafficLoggingMiddleware(cfg.Logger, "inbound"),
	)
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
