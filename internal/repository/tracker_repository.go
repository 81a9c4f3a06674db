package repository

import (
	"context"
	"exam_tracker_backend/internal/model"

	"gorm.io/gorm"
)

const insertBatchSize = 500

// TrackerRepository 跨数据种类的导入提交
type TrackerRepository struct {
	DB *gorm.DB
}

func NewTrackerRepository(db *gorm.DB) *TrackerRepository {
	return &TrackerRepository{DB: db}
}

// CommitImport 记录追加，知识点和计划按需整体替换，设置覆盖写入，全部在同一事务中完成
func (r *TrackerRepository) CommitImport(ctx context.Context, commit model.ImportCommit) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(commit.AddRecords) > 0 {
			records := make([]model.Record, len(commit.AddRecords))
			copy(records, commit.AddRecords)
			for i := range records {
				records[i].RowID = 0
			}
			if err := tx.CreateInBatches(records, insertBatchSize).Error; err != nil {
				return err
			}
		}

		if commit.ReplaceKnowledge {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.KnowledgeItem{}).Error; err != nil {
				return err
			}
			if len(commit.Knowledge) > 0 {
				if err := tx.CreateInBatches(commit.Knowledge, insertBatchSize).Error; err != nil {
					return err
				}
			}
		}

		if commit.ReplacePlans {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.StudyPlan{}).Error; err != nil {
				return err
			}
			if len(commit.Plans) > 0 {
				if err := tx.CreateInBatches(commit.Plans, insertBatchSize).Error; err != nil {
					return err
				}
			}
		}

		if commit.Settings != nil {
			if err := saveSettings(tx, commit.Settings); err != nil {
				return err
			}
		}
		return nil
	})
}
