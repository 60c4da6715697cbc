package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

const runMainEnv = "UPKEEP_TEST_RUN_MAIN"

// serveCommand re-executes the test binary as "upkeep serve" over stdio.
func serveCommand(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, os.Args[0], "serve", "--transport", "stdio", "--no-scheduler")
	cmd.Env = append(os.Environ(),
		runMainEnv+"=1",
		"UPKEEP_CONFIG_PATH=",
		"UPKEEP_DB_PATH=:memory:",
		"UPKEEP_LOG_LEVEL=debug",
	)
	return cmd
}

func TestStdio_ProtocolCompliance(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: serveCommand(ctx)}, nil)
	require.NoError(t, err)
	defer session.Close()

	t.Run("ServerInfo", func(t *testing.T) {
		initRes := session.InitializeResult()
		require.NotNil(t, initRes)
		require.NotNil(t, initRes.ServerInfo)
		require.Equal(t, "upkeep", initRes.ServerInfo.Name)
		require.Equal(t, version, initRes.ServerInfo.Version)
	})

	t.Run("ListTools", func(t *testing.T) {
		tools, err := session.ListTools(ctx, nil)
		require.NoError(t, err)
		names := make(map[string]bool)
		for _, tool := range tools.Tools {
			names[tool.Name] = true
		}
		for _, name := range []string{
			"start_tracking",
			"stop_tracking",
			"create_work_item",
			"create_recurrence",
			"compute_next_due",
		} {
			require.True(t, names[name], "missing tool %s", name)
		}
	})

	t.Run("CreateAndTrack", func(t *testing.T) {
		res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
			Name: "create_work_item",
			Arguments: map[string]any{
				"title":       "Broken ice machine",
				"description": "Floor 3 ice machine is not cooling",
				"location":    "Floor 3",
			},
		})
		require.NoError(t, err)
		require.False(t, res.IsError)
		require.Len(t, res.Content, 1)
		text, ok := res.Content[0].(*sdkmcp.TextContent)
		require.True(t, ok)

		var created struct {
			WorkItem struct {
				ID       string `json:"id"`
				Priority string `json:"priority"`
			} `json:"work_item"`
		}
		require.NoError(t, json.Unmarshal([]byte(text.Text), &created))
		require.Equal(t, "medium", created.WorkItem.Priority)

		res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "start_tracking",
			Arguments: map[string]any{"work_item_id": created.WorkItem.ID, "worker_id": "devon"},
		})
		require.NoError(t, err)
		require.False(t, res.IsError)
	})
}

// Logs go to stderr; stdout carries only JSON-RPC.
func TestStdio_StdoutHygiene(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cmd := serveCommand(ctx)
	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	initReq := `{"jsonrpc":"2.0","method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}},"id":1}`
	_, err = stdin.Write([]byte(initReq + "\n"))
	require.NoError(t, err)

	lines := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(stdout).ReadString('\n')
		lines <- line
	}()

	var line string
	select {
	case line = <-lines:
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		t.Fatal("timeout waiting for initialize response")
	}

	var msg map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &msg), "stdout line is not JSON: %q", line)
	require.Equal(t, "2.0", msg["jsonrpc"])
	require.Contains(t, msg, "result")

	// Closing stdin ends the session and the process exits cleanly.
	require.NoError(t, stdin.Close())
	require.NoError(t, cmd.Wait())
}
