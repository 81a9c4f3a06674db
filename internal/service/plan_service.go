package service

import (
	"context"
	"errors"
	"exam_tracker_backend/internal/model"
	"exam_tracker_backend/pkg/logger"
	"exam_tracker_backend/pkg/monitoring"
	"exam_tracker_backend/pkg/tracing"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlanService 学习计划的增删改查与进度同步
type PlanService struct {
	plans      PlanStore
	records    RecordStore
	normalizer *Normalizer
	calc       *ProgressCalculator
	sync       *ProgressSynchronizer
	validate   *validator.Validate
	now        func() time.Time

	// 串行化进度写回
	mu sync.Mutex
}

func NewPlanService(plans PlanStore, records RecordStore, normalizer *Normalizer, sync *ProgressSynchronizer) *PlanService {
	return &PlanService{
		plans:      plans,
		records:    records,
		normalizer: normalizer,
		calc:       sync.calc,
		sync:       sync,
		validate:   validator.New(),
		now:        time.Now,
	}
}

// PlanRequest 创建或更新计划的表单
type PlanRequest struct {
	Name        string         `json:"name" validate:"required,max=255"`
	Module      string         `json:"module" validate:"required"`
	Type        model.PlanType `json:"type" validate:"required,oneof=题量 正确率 错题数"`
	StartDate   string         `json:"startDate" validate:"required"`
	EndDate     string         `json:"endDate" validate:"required"`
	Target      float64        `json:"target" validate:"gte=0"`
	Description string         `json:"description" validate:"max=1000"`
}

// SyncProgress 重算全部计划，只在结果变化时写回
func (s *PlanService) SyncProgress(ctx context.Context) ([]model.StudyPlan, bool, error) {
	ctx, span := tracing.Tracer.Start(ctx, "PlanService.SyncProgress")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	plans, err := s.plans.All(ctx)
	if err != nil {
		return nil, false, err
	}
	records, err := s.records.All(ctx)
	if err != nil {
		return nil, false, err
	}

	next, changed := s.sync.Sync(ctx, plans, records)
	if !changed {
		monitoring.PlanSyncs.WithLabelValues("unchanged").Inc()
		return next, false, nil
	}

	if err := s.plans.UpdateProgress(ctx, next); err != nil {
		return nil, false, err
	}
	monitoring.PlanSyncs.WithLabelValues("written").Inc()
	logger.Log.Debug("Plan progress written", zap.Int("plans", len(next)))
	return next, true, nil
}

// List 返回最新进度的全部计划
func (s *PlanService) List(ctx context.Context) ([]model.StudyPlan, error) {
	plans, _, err := s.SyncProgress(ctx)
	return plans, err
}

func (s *PlanService) Get(ctx context.Context, id string) (*model.StudyPlan, error) {
	plan, err := s.plans.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	return plan, err
}

// Progress 按当前记录计算单个计划的进度，不写回
func (s *PlanService) Progress(ctx context.Context, id string) (*model.PlanProgress, error) {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.records.All(ctx)
	if err != nil {
		return nil, err
	}
	result := s.calc.Calc(*plan, records, s.now())
	return &result, nil
}

func (s *PlanService) Create(ctx context.Context, req PlanRequest) (*model.StudyPlan, error) {
	plan := &model.StudyPlan{
		ID:     model.GenerateUUID(),
		Status: model.PlanNotStarted,
	}
	if err := s.apply(plan, req); err != nil {
		return nil, err
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return s.refreshed(ctx, plan)
}

func (s *PlanService) Update(ctx context.Context, id string, req PlanRequest) (*model.StudyPlan, error) {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(plan, req); err != nil {
		return nil, err
	}
	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, err
	}
	return s.refreshed(ctx, plan)
}

func (s *PlanService) Delete(ctx context.Context, id string) error {
	n, err := s.plans.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// refreshed 同步进度后返回该计划的最新状态
func (s *PlanService) refreshed(ctx context.Context, plan *model.StudyPlan) (*model.StudyPlan, error) {
	plans, _, err := s.SyncProgress(ctx)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if plans[i].ID == plan.ID {
			return &plans[i], nil
		}
	}
	return plan, nil
}

// apply 校验表单并写入计划，日期与科目统一格式
func (s *PlanService) apply(plan *model.StudyPlan, req PlanRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return toValidationError(err)
	}

	start := s.normalizer.NormalizeDate(req.StartDate)
	if start == "" {
		return &ValidationError{Field: "startDate", Message: "日期格式无效"}
	}
	end := s.normalizer.NormalizeDate(req.EndDate)
	if end == "" {
		return &ValidationError{Field: "endDate", Message: "日期格式无效"}
	}
	if start > end {
		return &ValidationError{Field: "endDate", Message: "结束日期不能早于开始日期"}
	}
	if req.Type == model.PlanTypeAccuracy && req.Target > 100 {
		return &ValidationError{Field: "target", Message: "正确率目标不能超过 100"}
	}

	plan.Name = req.Name
	plan.Module = NormalizeModule(req.Module)
	plan.Type = req.Type
	plan.StartDate = start
	plan.EndDate = end
	plan.Target = req.Target
	plan.Description = req.Description
	return nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: lowerFirst(fe.Field()), Message: "校验失败: " + fe.Tag()}
	}
	return &ValidationError{Message: err.Error()}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
