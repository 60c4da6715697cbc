package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const workerIDKey contextKey = iota

// WorkerHeader carries the caller's worker identity over HTTP.
const WorkerHeader = "X-Upkeep-Worker"

// getWorkerID extracts the worker ID placed in context by workerMiddleware.
func getWorkerID(ctx context.Context) string {
	v, _ := ctx.Value(workerIDKey).(string)
	return v
}

// workerMiddleware extracts the worker identity from the X-Upkeep-Worker
// header (HTTP) or _meta.worker_id (stdio).
func workerMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var workerID string

			if extra := req.GetExtra(); extra != nil && extra.Header != nil {
				workerID = strings.TrimSpace(extra.Header.Get(WorkerHeader))
			}

			// Some notifications carry nil params behind a non-nil interface.
			if workerID == "" {
				func() {
					defer func() { recover() }()
					if params := req.GetParams(); params != nil {
						if meta := params.GetMeta(); meta != nil {
							if wid, ok := meta["worker_id"].(string); ok {
								workerID = strings.TrimSpace(wid)
							}
						}
					}
				}()
			}

			if workerID != "" {
				ctx = context.WithValue(ctx, workerIDKey, workerID)
			}
			return next(ctx, method, req)
		}
	}
}
