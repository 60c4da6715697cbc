// Package testserver runs the full upkeep stack in memory for end-to-end tests.
package testserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hotelops/upkeep/internal/app"
	"github.com/hotelops/upkeep/internal/clock"
	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/hotelops/upkeep/internal/sqlite"
	"github.com/hotelops/upkeep/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// Start is the manual clock's initial time: Wednesday 2024-01-10 10:00 UTC.
var Start = time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

type TestServer struct {
	App     *app.App
	DB      *sqlite.DB
	Clock   *clock.Manual
	Session *sdkmcp.ClientSession
	HTTP    *httptest.Server
}

// New wires an in-memory database, a manual clock and an MCP client session
// connected over in-memory transports. The HTTP router is served as well.
func New(t *testing.T) *TestServer {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	clk := clock.NewManual(Start)
	a := app.New(db, app.Options{
		Clock:        clk,
		Evaluator:    recurrence.NewEvaluator(0, 0, time.UTC),
		StoreTimeout: 5 * time.Second,
	})

	server := a.MCPServer("stdio", "test")
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "testserver", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	httpServer := httptest.NewServer(transport.NewServer(
		transport.MCPHandler(a.MCPServer("http", "test"), time.Minute), db, transport.Options{}))

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
		httpServer.Close()
		_ = db.Close()
	})

	return &TestServer{App: a, DB: db, Clock: clk, Session: cs, HTTP: httpServer}
}

// Call invokes a tool and decodes its JSON result into out. It fails the
// test on a tool error.
func (ts *TestServer) Call(t *testing.T, name string, args map[string]any, out any) {
	t.Helper()
	res := ts.CallRaw(t, name, args)
	require.False(t, res.IsError, "tool %s failed: %s", name, Text(res))
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(Text(res)), out))
	}
}

// CallRaw invokes a tool and returns its result, error or not.
func (ts *TestServer) CallRaw(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := ts.Session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	return res
}

// Text returns the first text content of a tool result.
func Text(res *sdkmcp.CallToolResult) string {
	for _, c := range res.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
