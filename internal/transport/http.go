package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReadinessChecker reports whether the store can serve requests.
type ReadinessChecker interface {
	Check(ctx context.Context) error
}

// Options configures the HTTP router.
type Options struct {
	// SessionTimeout closes idle MCP sessions. Zero keeps them open.
	SessionTimeout time.Duration
	// ReadyTimeout bounds the readiness check.
	ReadyTimeout time.Duration
	Logger       *slog.Logger
}

// MCPHandler serves server over the streamable HTTP transport.
func MCPHandler(server *sdkmcp.Server, sessionTimeout time.Duration) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: sessionTimeout},
	)
}

// NewServer creates an HTTP router with the MCP endpoint, liveness and
// readiness probes. ready may be nil, in which case /readyz mirrors /health.
func NewServer(mcpHandler http.Handler, ready ReadinessChecker, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	readyTimeout := opts.ReadyTimeout
	if readyTimeout <= 0 {
		readyTimeout = 2 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Handle("/mcp", mcpHandler)
	r.Handle("/mcp/*", mcpHandler)
	r.Get("/health", handleHealth)
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(req.Context(), readyTimeout)
			defer cancel()
			if err := ready.Check(ctx); err != nil {
				logger.Warn("readiness check failed", "error", err)
				http.Error(w, "store unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		handleHealth(w, req)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
