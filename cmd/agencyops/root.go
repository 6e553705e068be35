package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aceweb/agencyops/internal/app"
	"github.com/aceweb/agencyops/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cli carries the loaded configuration between cobra hooks and commands.
type cli struct {
	cfg     config.Config
	logger  *slog.Logger
	closeFn func()
	out     io.Writer
}

func newRootCmd() *cobra.Command {
	c := &cli{closeFn: func() {}}

	root := &cobra.Command{
		Use:           "agencyops",
		Short:         "Agency operations tracker: clients, leads, projects, tasks and cash flow",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c.out = cmd.OutOrStdout()
			return c.load(cmd.Flags())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			c.closeFn()
		},
	}

	pf := root.PersistentFlags()
	pf.String("db-driver", "", "database driver: sqlite or postgres")
	pf.String("db-dsn", "", "database file path or connection string")
	pf.String("log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newServeCmd(c),
		newDashboardCmd(c),
		newExportCmd(c),
		newAPIKeyCmd(c),
	)
	return root
}

// load reads config, then applies any flag the user set explicitly.
func (c *cli) load(flags *pflag.FlagSet) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	overrides := map[string]*string{
		"db-driver": &cfg.DB.Driver,
		"db-dsn":    &cfg.DB.DSN,
		"log-level": &cfg.Log.Level,
		"transport": &cfg.Transport.Mode,
		"host":      &cfg.Server.Host,
	}
	for name, dst := range overrides {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	if f := flags.Lookup("port"); f != nil && f.Changed {
		if cfg.Server.Port, err = flags.GetInt("port"); err != nil {
			return err
		}
	}
	if f := flags.Lookup("no-auth"); f != nil && f.Changed {
		noAuth, err := flags.GetBool("no-auth")
		if err != nil {
			return err
		}
		cfg.Auth.Enabled = !noAuth
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	// stdout belongs to JSON-RPC in stdio mode and to command output otherwise
	c.logger, c.closeFn = newLogger(cfg.Log, os.Stderr)
	return nil
}

func (c *cli) openApp(cmd *cobra.Command) (*app.App, error) {
	a, err := app.Open(cmd.Context(), c.cfg, c.logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return a, nil
}

// printJSON writes v indented on a terminal and compact otherwise.
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	if f, ok := c.out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
