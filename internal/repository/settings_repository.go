package repository

import (
	"context"
	"errors"
	"exam_tracker_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingsRowID 单用户，设置只有一行
const settingsRowID = 1

type SettingsRepository struct {
	DB *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

func (r *SettingsRepository) Get(ctx context.Context) (model.Settings, bool, error) {
	var settings model.Settings
	err := r.DB.WithContext(ctx).Where("id = ?", settingsRowID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Settings{}, false, nil
	}
	if err != nil {
		return model.Settings{}, false, err
	}
	return settings, true, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings *model.Settings) error {
	return saveSettings(r.DB.WithContext(ctx), settings)
}

func saveSettings(db *gorm.DB, settings *model.Settings) error {
	settings.ID = settingsRowID
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(settings).Error
}
