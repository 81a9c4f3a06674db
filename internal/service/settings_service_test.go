package service

import (
	"context"
	"exam_tracker_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaultsUntilSaved(t *testing.T) {
	store := newMemStore()
	svc := NewSettingsService(memSettings{store}, testDefaults)
	ctx := context.Background()

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sidebar", got.NavMode)
	assert.Equal(t, 20, got.PageSize)

	// 配置热更新后，未保存的设置跟随新默认值
	svc.SetDefaults(config.SettingsDefaultsConfig{NavMode: "top", PageSize: 30})
	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "top", got.NavMode)
	assert.Equal(t, 30, svc.PageSize(ctx))
}

func TestSettingsUpdate(t *testing.T) {
	store := newMemStore()
	svc := NewSettingsService(memSettings{store}, testDefaults)
	ctx := context.Background()

	result, err := svc.Update(ctx, map[string]string{
		"eyeCare":  "true",
		"pageSize": "zero",
		"language": "en",
	})
	require.NoError(t, err)
	assert.True(t, result.Settings.EyeCare)
	assert.Equal(t, 20, result.Settings.PageSize)
	assert.Equal(t, []string{"language", "pageSize"}, result.Ignored)
	require.NotNil(t, store.settings)
	assert.True(t, store.settings.EyeCare)
}

func TestSettingsUpdateNothingApplied(t *testing.T) {
	store := newMemStore()
	svc := NewSettingsService(memSettings{store}, testDefaults)

	result, err := svc.Update(context.Background(), map[string]string{"language": "en"})
	require.NoError(t, err)
	assert.Equal(t, []string{"language"}, result.Ignored)
	assert.Nil(t, store.settings)
}
