package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: "9090"
storage:
  type: minio
tracker:
  timezone: Asia/Shanghai
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "minio", cfg.Storage.Type)
	assert.Equal(t, 30*time.Minute, cfg.Tracker.PendingImportTTL())
	assert.Equal(t, "backups", cfg.Tracker.BackupPrefix)
	assert.Equal(t, 10*time.Minute, cfg.Tracker.PlanSyncInterval())
	assert.Equal(t, "sidebar", cfg.SettingsDefaults.NavMode)
	assert.Equal(t, 10, cfg.SettingsDefaults.PageSize)
	assert.True(t, cfg.SettingsDefaults.Notification)
	assert.Equal(t, 6000, cfg.RateLimit.MaxRequests)
}

func TestTrackerConfigLocation(t *testing.T) {
	loc := TrackerConfig{Timezone: "Asia/Shanghai"}.Location()
	assert.Equal(t, "Asia/Shanghai", loc.String())

	assert.Equal(t, time.Local, TrackerConfig{}.Location())
	assert.Equal(t, time.Local, TrackerConfig{Timezone: "Mars/Olympus"}.Location())
}

func TestPendingImportTTL(t *testing.T) {
	assert.Equal(t, 5*time.Minute, TrackerConfig{PendingImportTTLMinutes: 5}.PendingImportTTL())
	assert.Equal(t, 30*time.Minute, TrackerConfig{PendingImportTTLMinutes: -1}.PendingImportTTL())
}

func TestPlanSyncInterval(t *testing.T) {
	assert.Equal(t, 5*time.Minute, TrackerConfig{PlanSyncIntervalMinutes: 5}.PlanSyncInterval())
	assert.Zero(t, TrackerConfig{}.PlanSyncInterval())
	assert.Zero(t, TrackerConfig{PlanSyncIntervalMinutes: -3}.PlanSyncInterval())
}
