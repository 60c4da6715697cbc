package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hotelops/upkeep/internal/app"
	"github.com/hotelops/upkeep/internal/config"
	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/hotelops/upkeep/internal/sqlite"
	"github.com/spf13/cobra"
)

// cli carries state shared by all subcommands.
type cli struct {
	configPath string
	logFile    string

	cfg     config.Config
	logger  *slog.Logger
	logSink io.Closer
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "upkeep",
		Short: "Hotel maintenance work tracking and recurring task scheduling",
		Long: `upkeep tracks maintenance work items, the time workers spend on them,
and recurring tasks that produce new work items on a schedule.
Tools are served over MCP (stdio or streamable HTTP).`,
		Version:            version,
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (default $UPKEEP_CONFIG_PATH)")
	root.PersistentFlags().StringVar(&c.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newServeCmd(c),
		newTickCmd(c),
		newNextDueCmd(c),
		newMigrateCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFile(c.configPath)
	} else {
		c.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Logs never go to stdout: in stdio mode it carries JSON-RPC.
	var w io.Writer = cmd.ErrOrStderr()
	if c.logFile != "" {
		fw, err := newLogFileWriter(c.logFile)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		w, c.logSink = fw, fw
	}
	c.logger = newLogger(w, c.cfg.Log)
	return nil
}

func (c *cli) teardown(*cobra.Command, []string) error {
	if c.logSink != nil {
		return c.logSink.Close()
	}
	return nil
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *cli) evaluator() recurrence.Evaluator {
	return recurrence.NewEvaluator(c.cfg.Scheduler.RunHour, c.cfg.Scheduler.RunMinute, c.cfg.Location())
}

// openStore opens the database and applies pending migrations.
func (c *cli) openStore(ctx context.Context) (*sqlite.DB, error) {
	if err := ensureDBDir(c.cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(c.cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	applied, err := db.RunMigrationsContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, name := range applied {
		c.logger.Info("migration applied", "name", name)
	}
	return db, nil
}

func (c *cli) newApp(db *sqlite.DB) *app.App {
	return app.New(db, app.Options{
		Evaluator:    c.evaluator(),
		StoreTimeout: c.cfg.Store.Timeout,
		Logger:       c.logger,
	})
}

func ensureDBDir(path string) error {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
