package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hotelops/upkeep/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	sessionTimeout  = 30 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		mode        string
		noScheduler bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP tools and run the recurrence scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if mode != "" {
				c.cfg.Transport.Mode = mode
				if err := c.cfg.Validate(); err != nil {
					return err
				}
			}
			if noScheduler {
				c.cfg.Scheduler.Enabled = false
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&mode, "transport", "", "transport mode: stdio or http (overrides config)")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "do not run the recurrence scheduler")
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	db, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	a := c.newApp(db)
	transportMode := strings.ToLower(c.cfg.Transport.Mode)
	c.logger.Info("starting upkeep",
		"version", version,
		"transport", transportMode,
		"db", c.cfg.DB.Path,
		"scheduler", c.cfg.Scheduler.Enabled,
	)

	g, ctx := errgroup.WithContext(ctx)
	if c.cfg.Scheduler.Enabled {
		g.Go(func() error {
			return a.Scheduler.Run(ctx, c.cfg.Scheduler.Interval)
		})
	}

	server := a.MCPServer(transportMode, version)
	switch transportMode {
	case "http":
		handler := transport.NewServer(
			transport.MCPHandler(server, sessionTimeout),
			db,
			transport.Options{ReadyTimeout: c.cfg.Store.Timeout, Logger: c.logger},
		)
		httpServer := &http.Server{
			Addr:              c.cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			c.logger.Info("listening", "addr", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
	default:
		g.Go(func() error {
			err := server.Run(ctx, &sdkmcp.StdioTransport{})
			if ctx.Err() != nil {
				return nil
			}
			if err == nil || errors.Is(err, io.EOF) {
				// Client closed stdin; stop the scheduler too.
				return errStdioClosed
			}
			return err
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errStdioClosed) {
		return err
	}
	c.logger.Info("upkeep stopped")
	return nil
}

var errStdioClosed = errors.New("stdio session closed")
