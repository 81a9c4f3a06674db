package service

import (
	"context"
	"exam_tracker_backend/internal/model"
	"exam_tracker_backend/pkg/logger"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// ProgressSynchronizer 在记录或计划变化后重算全部计划，只有结果变化时才产生新的计划列表
type ProgressSynchronizer struct {
	calc     *ProgressCalculator
	notifier Notifier
	now      func() time.Time
}

func NewProgressSynchronizer(calc *ProgressCalculator, notifier Notifier) *ProgressSynchronizer {
	return &ProgressSynchronizer{calc: calc, notifier: notifier, now: time.Now}
}

// Sync 返回重算后的计划和是否有变化。无变化时原样返回传入的切片，且不会发出完成通知。
func (s *ProgressSynchronizer) Sync(ctx context.Context, plans []model.StudyPlan, records []model.Record) ([]model.StudyPlan, bool) {
	now := s.now()
	next := make([]model.StudyPlan, len(plans))
	for i, p := range plans {
		result := s.safeCalc(p, records, now)
		p.Progress = result.Progress
		p.Status = result.Status
		next[i] = p
	}

	if progressHash(plans) == progressHash(next) {
		return plans, false
	}

	for i := range next {
		if plans[i].Status != model.PlanCompleted && next[i].Status == model.PlanCompleted {
			s.notifyCompleted(ctx, next[i])
		}
	}
	return next, true
}

func (s *ProgressSynchronizer) safeCalc(plan model.StudyPlan, records []model.Record, now time.Time) (result model.PlanProgress) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Warn("Plan progress calculation failed",
				zap.String("planId", plan.ID),
				zap.Any("panic", r))
			result = notStarted
		}
	}()
	return s.calc.Calc(plan, records, now)
}

func (s *ProgressSynchronizer) notifyCompleted(ctx context.Context, plan model.StudyPlan) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, model.Notification{
		Type:        NotificationPlanCompleted,
		Message:     fmt.Sprintf("计划「%s」已完成", plan.Name),
		Description: fmt.Sprintf("%s · %s · 当前进度 %d", plan.Module, plan.Type, plan.Progress),
		PlanID:      plan.ID,
		CreatedAt:   s.now(),
	})
}

// progressHash 只覆盖 id、progress、status
func progressHash(plans []model.StudyPlan) [blake2b.Size256]byte {
	var buf []byte
	for _, p := range plans {
		buf = append(buf, p.ID...)
		buf = append(buf, 0)
		buf = strconv.AppendInt(buf, int64(p.Progress), 10)
		buf = append(buf, 0)
		buf = append(buf, p.Status...)
		buf = append(buf, 0)
	}
	return blake2b.Sum256(buf)
}
