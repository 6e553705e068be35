// Package insight assembles the dashboard, client overview and financial
// read models from store reads and the metrics package.
package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aceweb/agencyops/internal/domain/client"
	"github.com/aceweb/agencyops/internal/domain/finance"
	"github.com/aceweb/agencyops/internal/domain/lead"
	"github.com/aceweb/agencyops/internal/domain/project"
	"github.com/aceweb/agencyops/internal/domain/task"
	"github.com/aceweb/agencyops/internal/metrics"
	"github.com/aceweb/agencyops/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	recentPerSource = 3
	recentFeedSize  = 5
	pendingPreview  = 5
)

// ClientReader is the read side of the client store.
type ClientReader interface {
	Get(ctx context.Context, id string) (*client.Client, error)
	List(ctx context.Context, opts client.ListOptions) ([]client.Client, error)
}

// LeadReader is the read side of the lead store.
type LeadReader interface {
	List(ctx context.Context, opts lead.ListOptions) ([]lead.Lead, error)
}

// ProjectReader is the read side of the project store.
type ProjectReader interface {
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
}

// TransactionReader is the read side of the transaction store.
type TransactionReader interface {
	List(ctx context.Context, opts finance.ListOptions) ([]finance.Transaction, error)
}

// ErrClientNotFound indicates the requested client doesn't exist.
var ErrClientNotFound = errors.New("client not found")

// Service composes read models. Independent reads run concurrently.
type Service struct {
	clients      ClientReader
	leads        LeadReader
	projects     ProjectReader
	transactions TransactionReader
	logger       *slog.Logger
	now          func() time.Time
}

// NewService creates a new insight service.
func NewService(clients ClientReader, leads LeadReader, projects ProjectReader, transactions TransactionReader, logger *slog.Logger) *Service {
	return &Service{
		clients:      clients,
		leads:        leads,
		projects:     projects,
		transactions: transactions,
		logger:       logger,
		now:          time.Now,
	}
}

// Dashboard is the landing page read model.
type Dashboard struct {
	Revenue        decimal.Decimal    `json:"revenue"`
	ActiveProjects int                `json:"active_projects"`
	TotalClients   int                `json:"total_clients"`
	TotalLeads     int                `json:"total_leads"`
	StaleLeads     int                `json:"stale_leads"`
	Recent         []metrics.FeedItem `json:"recent"`
}

// Dashboard loads clients, leads, projects and transactions in parallel.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		clients  []client.Client
		leads    []lead.Lead
		projects []project.Project
		txs      []finance.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clients, err = s.clients.List(gctx, client.ListOptions{})
		return wrap("listing clients", err)
	})
	g.Go(func() error {
		var err error
		leads, err = s.leads.List(gctx, lead.ListOptions{})
		return wrap("listing leads", err)
	})
	g.Go(func() error {
		var err error
		projects, err = s.projects.List(gctx, project.ListOptions{})
		return wrap("listing projects", err)
	})
	g.Go(func() error {
		var err error
		txs, err = s.transactions.List(gctx, finance.ListOptions{})
		return wrap("listing transactions", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	stale := 0
	for _, l := range leads {
		if lead.IsStale(l, now) {
			stale++
		}
	}

	return &Dashboard{
		Revenue:        metrics.DashboardRevenue(txs),
		ActiveProjects: metrics.ActiveProjectCount(projects),
		TotalClients:   len(clients),
		TotalLeads:     len(leads),
		StaleLeads:     stale,
		Recent:         metrics.RecentActivity(head(projects, recentPerSource), head(leads, recentPerSource), recentFeedSize),
	}, nil
}

// ProjectProgress pairs a project with its completion figure.
type ProjectProgress struct {
	project.Project
	Progress int `json:"progress"`
}

// ClientOverview is the client detail read model.
type ClientOverview struct {
	Client         client.Client         `json:"client"`
	Stats          metrics.ClientRollup  `json:"stats"`
	Projects       []ProjectProgress     `json:"projects"`
	ActiveProjects []ProjectProgress     `json:"active_projects"`
	PendingTasks   []task.Task           `json:"pending_tasks"`
	Transactions   []finance.Transaction `json:"transactions"`
	Receivables    metrics.Receivables   `json:"receivables"`
	Finance        metrics.Summary       `json:"finance"`
}

// ClientOverview loads a client with its projects, then the transactions
// linked to those projects.
func (s *Service) ClientOverview(ctx context.Context, clientID string) (*ClientOverview, error) {
	var (
		c        *client.Client
		projects []project.Project
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = s.clients.Get(gctx, clientID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return wrap("getting client", err)
	})
	g.Go(func() error {
		var err error
		projects, err = s.projects.List(gctx, project.ListOptions{ClientID: clientID})
		return wrap("listing client projects", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	txs, err := s.transactions.List(ctx, finance.ListOptions{ProjectIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("listing client transactions: %w", err)
	}

	tasks := metrics.TasksOf(projects)
	return &ClientOverview{
		Client:         *c,
		Stats:          metrics.ClientStats(projects, tasks),
		Projects:       withProgress(projects),
		ActiveProjects: withProgress(metrics.ActiveProjectList(projects)),
		PendingTasks:   metrics.PendingTaskPreview(tasks, pendingPreview),
		Transactions:   txs,
		Receivables:    metrics.ClientReceivables(txs),
		Finance:        metrics.FinancialSummary(txs),
	}, nil
}

// Financial is the cash-flow page read model.
type Financial struct {
	Summary      metrics.Summary       `json:"summary"`
	Transactions []finance.Transaction `json:"transactions"`
}

// Financial lists transactions and summarizes them. The summary covers the
// same filtered set.
func (s *Service) Financial(ctx context.Context, opts finance.ListOptions) (*Financial, error) {
	txs, err := s.transactions.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return &Financial{Summary: metrics.FinancialSummary(txs), Transactions: txs}, nil
}

// Recent returns the merged project and lead feed.
func (s *Service) Recent(ctx context.Context, limit int) ([]metrics.FeedItem, error) {
	var (
		leads    []lead.Lead
		projects []project.Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, err = s.leads.List(gctx, lead.ListOptions{Limit: limit})
		return wrap("listing leads", err)
	})
	g.Go(func() error {
		var err error
		projects, err = s.projects.List(gctx, project.ListOptions{Limit: limit})
		return wrap("listing projects", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return metrics.RecentActivity(projects, leads, limit), nil
}

func withProgress(projects []project.Project) []ProjectProgress {
	out := make([]ProjectProgress, len(projects))
	for i, p := range projects {
		out[i] = ProjectProgress{Project: p, Progress: project.Progress(p)}
	}
	return out
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
