package repository

import (
	"context"
	"exam_tracker_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// PlanRepository 学习计划的数据访问
type PlanRepository struct {
	DB *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{DB: db}
}

func (r *PlanRepository) All(ctx context.Context) ([]model.StudyPlan, error) {
	var plans []model.StudyPlan
	err := r.DB.WithContext(ctx).Order("created_at").Order("id").Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) FindByID(ctx context.Context, id string) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) Create(ctx context.Context, plan *model.StudyPlan) error {
	return r.DB.WithContext(ctx).Create(plan).Error
}

// Update 更新用户可编辑的字段，进度与状态由 UpdateProgress 负责
func (r *PlanRepository) Update(ctx context.Context, plan *model.StudyPlan) error {
	return r.DB.WithContext(ctx).Model(&model.StudyPlan{}).
		Where("id = ?", plan.ID).
		Updates(map[string]interface{}{
			"name":        plan.Name,
			"module":      plan.Module,
			"type":        plan.Type,
			"start_date":  plan.StartDate,
			"end_date":    plan.EndDate,
			"target":      plan.Target,
			"description": plan.Description,
			"updated_at":  time.Now(),
		}).Error
}

func (r *PlanRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.StudyPlan{})
	return result.RowsAffected, result.Error
}

// UpdateProgress 在一个事务中写回全部计划的进度和状态
func (r *PlanRepository) UpdateProgress(ctx context.Context, plans []model.StudyPlan) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range plans {
			err := tx.Model(&model.StudyPlan{}).
				Where("id = ?", p.ID).
				UpdateColumns(map[string]interface{}{
					"progress": p.Progress,
					"status":   p.Status,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
