package service

import (
	"context"
	"exam_tracker_backend/internal/model"
	"exam_tracker_backend/pkg/logger"
	"exam_tracker_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const NotificationPlanCompleted = "plan_completed"

// Notifier 通知汇聚点，调用方不等待也不依赖其结果
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// NotificationService 记录日志、计数并写入最近通知列表
type NotificationService struct {
	feed NotificationFeed
}

func NewNotificationService(feed NotificationFeed) *NotificationService {
	return &NotificationService{feed: feed}
}

func (s *NotificationService) Notify(ctx context.Context, n model.Notification) {
	logger.Log.Info("Notification",
		zap.String("type", n.Type),
		zap.String("message", n.Message),
		zap.String("planId", n.PlanID))

	if n.Type == NotificationPlanCompleted {
		monitoring.PlanCompletions.Inc()
	}

	if err := s.feed.Push(ctx, n); err != nil {
		logger.Log.Warn("Failed to store notification", zap.Error(err))
	}
}

// Recent 最近的通知，最新的在前
func (s *NotificationService) Recent(ctx context.Context, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.feed.Recent(ctx, limit)
}
