package service

import (
	"context"
	"exam_tracker_backend/internal/model"
	"io"
	"time"
)

// RecordStore 练习记录持久化
type RecordStore interface {
	All(ctx context.Context) ([]model.Record, error)
	List(ctx context.Context, filter model.RecordFilter) ([]model.Record, int64, error)
	Create(ctx context.Context, record *model.Record) error
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// PlanStore 学习计划持久化，未找到时返回 gorm.ErrRecordNotFound
type PlanStore interface {
	All(ctx context.Context) ([]model.StudyPlan, error)
	FindByID(ctx context.Context, id string) (*model.StudyPlan, error)
	Create(ctx context.Context, plan *model.StudyPlan) error
	Update(ctx context.Context, plan *model.StudyPlan) error
	Delete(ctx context.Context, id string) (int64, error)
	UpdateProgress(ctx context.Context, plans []model.StudyPlan) error
}

// KnowledgeStore 知识点持久化
type KnowledgeStore interface {
	All(ctx context.Context) ([]model.KnowledgeItem, error)
	ListByModule(ctx context.Context, module string) ([]model.KnowledgeItem, error)
	Create(ctx context.Context, item *model.KnowledgeItem) error
	Delete(ctx context.Context, id string) (int64, error)
}

// SettingsStore 设置持久化；尚未保存过时 found 为 false
type SettingsStore interface {
	Get(ctx context.Context) (settings model.Settings, found bool, err error)
	Save(ctx context.Context, settings *model.Settings) error
}

// ImportCommitter 把确认后的导入一次性写入
type ImportCommitter interface {
	CommitImport(ctx context.Context, commit model.ImportCommit) error
}

// PendingImportStore 暂存待确认的导入，不存在或已过期时返回 nil, nil
type PendingImportStore interface {
	Save(ctx context.Context, bundle *model.ImportBundle, ttl time.Duration) error
	Get(ctx context.Context, id string) (*model.ImportBundle, error)
	// Take 原子地取出并删除
	Take(ctx context.Context, id string) (*model.ImportBundle, error)
}

// NotificationFeed 最近的通知
type NotificationFeed interface {
	Push(ctx context.Context, n model.Notification) error
	Recent(ctx context.Context, limit int) ([]model.Notification, error)
}

// StorageProvider 定义通用存储接口
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Download(ctx context.Context, filename string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}
