package repository

import (
	"context"
	"exam_tracker_backend/internal/model"

	"gorm.io/gorm"
)

type KnowledgeRepository struct {
	DB *gorm.DB
}

func NewKnowledgeRepository(db *gorm.DB) *KnowledgeRepository {
	return &KnowledgeRepository{DB: db}
}

func (r *KnowledgeRepository) All(ctx context.Context) ([]model.KnowledgeItem, error) {
	var items []model.KnowledgeItem
	err := r.DB.WithContext(ctx).Order("module").Order("id").Find(&items).Error
	return items, err
}

func (r *KnowledgeRepository) ListByModule(ctx context.Context, module string) ([]model.KnowledgeItem, error) {
	var items []model.KnowledgeItem
	err := r.DB.WithContext(ctx).Where("module = ?", module).Order("id").Find(&items).Error
	return items, err
}

func (r *KnowledgeRepository) Create(ctx context.Context, item *model.KnowledgeItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *KnowledgeRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.KnowledgeItem{})
	return result.RowsAffected, result.Error
}
