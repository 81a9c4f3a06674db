package service

import (
	"context"
	"exam_tracker_backend/internal/model"
	"exam_tracker_backend/pkg/logger"

	"go.uber.org/zap"
)

// RecordService 练习记录，任何写入后都会触发计划进度同步
type RecordService struct {
	records    RecordStore
	normalizer *Normalizer
	settings   *SettingsService
	plans      *PlanService
}

func NewRecordService(records RecordStore, normalizer *Normalizer, settings *SettingsService, plans *PlanService) *RecordService {
	return &RecordService{
		records:    records,
		normalizer: normalizer,
		settings:   settings,
		plans:      plans,
	}
}

// RecordRequest 新增记录的表单；date 接受日期字符串或毫秒时间戳
type RecordRequest struct {
	Date     any    `json:"date"`
	Module   string `json:"module"`
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
	Duration string `json:"duration"`
}

// RecordPage 分页结果
type RecordPage struct {
	List  []model.Record `json:"list"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func (s *RecordService) List(ctx context.Context, filter model.RecordFilter) (*RecordPage, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = s.settings.PageSize(ctx)
	}
	if filter.Module != "" {
		filter.Module = NormalizeModule(filter.Module)
	}
	if filter.From != "" {
		filter.From = s.normalizer.NormalizeDate(filter.From)
	}
	if filter.To != "" {
		filter.To = s.normalizer.NormalizeDate(filter.To)
	}

	list, total, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &RecordPage{List: list, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Create 表单记录不做去重，同一天可能确实练习了两次相同题量
func (s *RecordService) Create(ctx context.Context, req RecordRequest) (*model.Record, error) {
	date := s.normalizer.NormalizeDate(req.Date)
	if date == "" {
		return nil, &ValidationError{Field: "date", Message: "日期格式无效"}
	}
	module := NormalizeModule(req.Module)
	if module == "" {
		return nil, &ValidationError{Field: "module", Message: "科目不能为空"}
	}
	if req.Total < 0 {
		return nil, &ValidationError{Field: "total", Message: "题量不能为负数"}
	}
	if req.Correct < 0 || req.Correct > req.Total {
		return nil, &ValidationError{Field: "correct", Message: "正确数必须在 0 到题量之间"}
	}

	record := &model.Record{
		ID:       s.normalizer.NewRecordID(),
		Date:     date,
		Module:   module,
		Total:    req.Total,
		Correct:  req.Correct,
		Duration: normalizeDuration(req.Duration),
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}
	s.afterWrite(ctx)
	return record, nil
}

func (s *RecordService) Delete(ctx context.Context, id int64) error {
	n, err := s.records.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	s.afterWrite(ctx)
	return nil
}

func (s *RecordService) afterWrite(ctx context.Context) {
	if _, _, err := s.plans.SyncProgress(ctx); err != nil {
		logger.Log.Error("Plan progress sync failed", zap.Error(err))
	}
}
