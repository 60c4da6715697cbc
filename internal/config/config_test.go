package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/hotelops/upkeep/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("UPKEEP_CONFIG_PATH", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "upkeep.db", cfg.DB.Path)
	require.Equal(t, time.Minute, cfg.Scheduler.Interval)
	require.Equal(t, 5*time.Second, cfg.Store.Timeout)
	require.Equal(t, time.UTC, cfg.Location())
	require.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "upkeep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
transport:
  mode: http
db:
  path: /var/lib/upkeep/upkeep.db
log:
  level: debug
  format: json
scheduler:
  interval: 30s
  run_hour: 6
  run_minute: 15
  timezone: Europe/Lisbon
store:
  timeout: 2s
`), 0o600))

	t.Setenv("UPKEEP_CONFIG_PATH", path)
	t.Setenv("UPKEEP_SERVER_PORT", "9191")
	t.Setenv("UPKEEP_SCHEDULER_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "/var/lib/upkeep/upkeep.db", cfg.DB.Path)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, 30*time.Second, cfg.Scheduler.Interval)
	require.Equal(t, 6, cfg.Scheduler.RunHour)
	require.Equal(t, 15, cfg.Scheduler.RunMinute)
	require.False(t, cfg.Scheduler.Enabled)
	require.Equal(t, 2*time.Second, cfg.Store.Timeout)
	require.Equal(t, "Europe/Lisbon", cfg.Location().String())
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("UPKEEP_SERVER_PORT", "eighty")
	_, err := config.LoadFile("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	cfg.Transport.Mode = "carrier-pigeon"
	cfg.Scheduler.Interval = 0
	cfg.Scheduler.RunHour = 24
	cfg.Scheduler.Timezone = "Mars/Olympus"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "transport.mode")
	require.Contains(t, err.Error(), "scheduler.interval")
	require.Contains(t, err.Error(), "scheduler.run_hour")
	require.Contains(t, err.Error(), "scheduler.timezone")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
