package service

import (
	"context"
	"encoding/json"
	"exam_tracker_backend/internal/model"
	"time"
)

// ExportService 生成 version 3 导出文件
type ExportService struct {
	records   RecordStore
	knowledge KnowledgeStore
	plans     PlanStore
	settings  *SettingsService
	location  *time.Location
	now       func() time.Time
}

func NewExportService(records RecordStore, knowledge KnowledgeStore, plans PlanStore, settings *SettingsService, loc *time.Location) *ExportService {
	return &ExportService{
		records:   records,
		knowledge: knowledge,
		plans:     plans,
		settings:  settings,
		location:  loc,
		now:       time.Now,
	}
}

// ExportFileName 行测记录_<yyyy-MM-dd>.json
func ExportFileName(t time.Time) string {
	return "行测记录_" + t.Format(dateLayout) + ".json"
}

func (s *ExportService) Build(ctx context.Context) (*model.ExportFile, error) {
	records, err := s.records.All(ctx)
	if err != nil {
		return nil, err
	}
	knowledge, err := s.knowledge.All(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := s.plans.All(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []model.Record{}
	}
	if knowledge == nil {
		knowledge = []model.KnowledgeItem{}
	}
	if plans == nil {
		plans = []model.StudyPlan{}
	}

	return &model.ExportFile{
		Records:    records,
		Knowledge:  knowledge,
		Plans:      plans,
		Settings:   settings.Values(),
		ExportedAt: s.now().UTC().Format(time.RFC3339),
		Version:    model.ExportVersion,
	}, nil
}

// Export 返回文件名和 JSON 内容
func (s *ExportService) Export(ctx context.Context) (string, []byte, error) {
	file, err := s.Build(ctx)
	if err != nil {
		return "", nil, err
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", nil, err
	}
	return ExportFileName(s.now().In(s.location)), data, nil
}
