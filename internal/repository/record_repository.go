package repository

import (
	"context"
	"exam_tracker_backend/internal/model"

	"gorm.io/gorm"
)

// RecordRepository 练习记录的数据访问
type RecordRepository struct {
	DB *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{DB: db}
}

// All 按插入顺序返回全部记录
func (r *RecordRepository) All(ctx context.Context) ([]model.Record, error) {
	var records []model.Record
	err := r.DB.WithContext(ctx).Order("row_id").Find(&records).Error
	return records, err
}

// List 按日期倒序分页
func (r *RecordRepository) List(ctx context.Context, filter model.RecordFilter) ([]model.Record, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.Record{})
	if filter.Module != "" {
		query = query.Where("module = ?", filter.Module)
	}
	if filter.From != "" {
		query = query.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("date <= ?", filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.Record
	err := query.Order("date DESC").Order("row_id DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&records).Error
	return records, total, err
}

func (r *RecordRepository) Create(ctx context.Context, record *model.Record) error {
	return r.DB.WithContext(ctx).Create(record).Error
}

// DeleteByID 删除该 id 的全部记录；id 不保证唯一
func (r *RecordRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Record{})
	return result.RowsAffected, result.Error
}
