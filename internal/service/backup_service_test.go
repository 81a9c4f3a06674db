package service

import (
	"context"
	"exam_tracker_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalBackup(t *testing.T, env *testEnv) (*BackupService, *LocalStorageProvider) {
	t.Helper()
	storage := &LocalStorageProvider{Config: &config.StorageConfig{Type: "local", LocalPath: t.TempDir()}}
	return NewBackupService(env.export, env.importer, storage, "/backups/"), storage
}

func TestBackupAndRestore(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	importAndConfirm(t, env, sampleExport)

	backup, _ := newLocalBackup(t, env)
	info, err := backup.Backup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "backups/行测记录_2024-01-15.json", info.Name)
	assert.Equal(t, "/uploads/backups/行测记录_2024-01-15.json", info.URL)
	assert.Positive(t, info.Size)

	names, err := backup.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{info.Name}, names)

	// 恢复只生成待确认的导入
	bundle, err := backup.Restore(ctx, info.Name)
	require.NoError(t, err)
	assert.Equal(t, 0, bundle.ImportStats.Added)
	assert.Equal(t, 3, bundle.ImportStats.Repeated)
	assert.NotEmpty(t, bundle.ID)
}

func TestRestoreRejectsBadNames(t *testing.T) {
	env := newTestEnv()
	backup, _ := newLocalBackup(t, env)
	ctx := context.Background()

	for _, name := range []string{"", "../secret.json", "/etc/passwd", "other/file.json", "backups/../../x.json"} {
		_, err := backup.Restore(ctx, name)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "name=%q", name)
	}

	_, err := backup.Restore(ctx, "backups/missing.json")
	assert.ErrorIs(t, err, ErrBackupNotFound)
}

func TestListWithoutBackups(t *testing.T) {
	env := newTestEnv()
	backup, _ := newLocalBackup(t, env)

	names, err := backup.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCleanObjectName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"backups/a.json", "backups/a.json", true},
		{" backups//a.json ", "backups/a.json", true},
		{"backups/./a.json", "backups/a.json", true},
		{"../a.json", "", false},
		{"/a.json", "", false},
		{`backups\a.json`, "", false},
		{".", "", false},
	}
	for _, tt := range tests {
		got, ok := cleanObjectName(tt.in)
		assert.Equal(t, tt.ok, ok, "in=%q", tt.in)
		assert.Equal(t, tt.want, got, "in=%q", tt.in)
	}
}

func TestNewStorageProviderFallsBackToLocal(t *testing.T) {
	p := NewStorageProvider(&config.StorageConfig{Type: "local", LocalPath: t.TempDir()})
	_, ok := p.(*LocalStorageProvider)
	assert.True(t, ok)
}
