package service

import (
	"context"
	"exam_tracker_backend/internal/config"
	"exam_tracker_backend/internal/model"
	"sync"
)

// SettingsService 用户设置，以配置中的默认值为基础
type SettingsService struct {
	store SettingsStore

	mu       sync.RWMutex
	defaults model.Settings
}

func NewSettingsService(store SettingsStore, defaults config.SettingsDefaultsConfig) *SettingsService {
	s := &SettingsService{store: store}
	s.SetDefaults(defaults)
	return s
}

// SetDefaults 配置热更新时调用
func (s *SettingsService) SetDefaults(d config.SettingsDefaultsConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = model.Settings{
		NavMode:      d.NavMode,
		EyeCare:      d.EyeCare,
		Notification: d.Notification,
		PageSize:     d.PageSize,
		Theme:        d.Theme,
	}
}

func (s *SettingsService) Defaults() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults
}

// Get 尚未保存过设置时返回默认值
func (s *SettingsService) Get(ctx context.Context) (model.Settings, error) {
	settings, found, err := s.store.Get(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	if !found {
		return s.Defaults(), nil
	}
	return settings, nil
}

// UpdateResult 保存设置的结果
type UpdateResult struct {
	Settings model.Settings `json:"settings"`
	Ignored  []string       `json:"ignored,omitempty"`
}

// Update 只接受白名单内且可解析的键
func (s *SettingsService) Update(ctx context.Context, values map[string]string) (*UpdateResult, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	applied := settings.Apply(values)
	if len(applied) > 0 {
		if err := s.store.Save(ctx, &settings); err != nil {
			return nil, err
		}
	}
	return &UpdateResult{Settings: settings, Ignored: ignoredKeys(values, applied)}, nil
}

// PageSize 列表默认分页大小
func (s *SettingsService) PageSize(ctx context.Context) int {
	settings, err := s.Get(ctx)
	if err != nil || settings.PageSize <= 0 {
		return s.Defaults().PageSize
	}
	return settings.PageSize
}
