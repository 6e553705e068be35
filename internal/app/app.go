// Package app wires the store, services and adapters into one graph shared
// by the CLI commands and the test server.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aceweb/agencyops/internal/config"
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
	"github.com/aceweb/agencyops/internal/sqlstore"
)

// Options carries the adapter choices that are not part of the store.
type Options struct {
	Greeter  messaging.Greeter
	Composer messaging.Composer
	Sink     export.Sink // nil disables exports
}

// App holds every service built on one database.
type App struct {
	DB       *sqlstore.DB
	APIKeys  *sqlstore.APIKeyRepository
	Clients  *client.Service
	Leads    *lead.Service
	Projects *project.Service
	Tasks    *task.Service
	Finance  *finance.Service
	Activity *activity.Service
	Insight  *insight.Service
	Messages *messaging.Dispatcher
	Exporter *export.Exporter
}

// New builds the service graph on an open, migrated database.
func New(db *sqlstore.DB, opts Options, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	clientRepo := sqlstore.NewClientRepository(db)
	leadRepo := sqlstore.NewLeadRepository(db)
	projectRepo := sqlstore.NewProjectRepository(db)
	taskRepo := sqlstore.NewTaskRepository(db)
	txRepo := sqlstore.NewTransactionRepository(db)
	activityRepo := sqlstore.NewActivityRepository(db)

	recorder := activity.NewRecorder(activityRepo, logger)

	a := &App{
		DB:       db,
		APIKeys:  sqlstore.NewAPIKeyRepository(db),
		Clients:  client.NewService(clientRepo, recorder, logger),
		Leads:    lead.NewService(leadRepo, recorder, logger),
		Projects: project.NewService(projectRepo, recorder, logger),
		Tasks:    task.NewService(taskRepo, recorder, logger),
		Finance:  finance.NewService(txRepo, recorder, logger),
		Activity: activity.NewService(activityRepo, logger),
		Insight:  insight.NewService(clientRepo, leadRepo, projectRepo, txRepo, logger),
		Messages: messaging.NewDispatcher(opts.Greeter, opts.Composer, logger),
	}
	if opts.Sink != nil {
		a.Exporter = export.NewExporter(txRepo, opts.Sink, logger)
	}
	return a
}

// Open connects to the configured database, migrates it and builds the graph.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	dialect, err := sqlstore.ParseDialect(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}
	if dialect == sqlstore.DialectSQLite {
		if err := ensureDBDir(cfg.DB.DSN); err != nil {
			return nil, fmt.Errorf("preparing database path: %w", err)
		}
	}

	db, err := sqlstore.Open(ctx, dialect, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	sink, err := NewSink(ctx, cfg.Export)
	if err != nil {
		db.Close()
		return nil, err
	}

	return New(db, Options{
		Greeter: messaging.Greeter{Agency: cfg.Agency.Name, CountryCode: cfg.Agency.CountryCode},
		Sink:    sink,
	}, logger), nil
}

// NewSink builds the export sink named by cfg.Driver.
func NewSink(ctx context.Context, cfg config.ExportConfig) (export.Sink, error) {
	switch cfg.Driver {
	case "", "fs":
		return export.FileSink{Dir: cfg.Dir}, nil
	case "s3":
		return export.NewS3Sink(ctx, export.S3Config{
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown export driver %q", cfg.Driver)
	}
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// MCPServices exposes the graph to the MCP server.
func (a *App) MCPServices() mcp.Services {
	svc := mcp.Services{
		Clients:   a.Clients,
		Leads:     a.Leads,
		Projects:  a.Projects,
		Tasks:     a.Tasks,
		Finance:   a.Finance,
		Activity:  a.Activity,
		Insight:   a.Insight,
		Messenger: a.Messages,
	}
	// a typed nil would defeat the nil check in the tool registry
	if a.Exporter != nil {
		svc.Exporter = a.Exporter
	}
	return svc
}

func ensureDBDir(dsn string) error {
	if dsn == ":memory:" || dsn == "" || filepath.Dir(dsn) == "." {
		return nil
	}
	return os.MkdirAll(filepath.Dir(dsn), 0o755)
}
