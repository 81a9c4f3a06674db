package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"exam_tracker_backend/internal/model"
	"exam_tracker_backend/pkg/logger"
	"exam_tracker_backend/pkg/monitoring"
	"exam_tracker_backend/pkg/tracing"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ImportService 导入合并：归一化、去重并生成待确认的导入结果
type ImportService struct {
	normalizer *Normalizer
	dedup      Deduplicator

	records   RecordStore
	knowledge KnowledgeStore
	plans     PlanStore
	settings  *SettingsService
	committer ImportCommitter
	pending   PendingImportStore
	planSvc   *PlanService

	// commitMu 串行化确认时的去重与提交
	commitMu sync.Mutex

	ttl atomic.Int64
	now func() time.Time
}

func NewImportService(
	normalizer *Normalizer,
	records RecordStore,
	knowledge KnowledgeStore,
	plans PlanStore,
	settings *SettingsService,
	committer ImportCommitter,
	pending PendingImportStore,
	planSvc *PlanService,
	ttl time.Duration,
) *ImportService {
	s := &ImportService{
		normalizer: normalizer,
		records:    records,
		knowledge:  knowledge,
		plans:      plans,
		settings:   settings,
		committer:  committer,
		pending:    pending,
		planSvc:    planSvc,
		now:        time.Now,
	}
	s.SetTTL(ttl)
	return s
}

// SetTTL 调整待确认导入的保留时长
func (s *ImportService) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	s.ttl.Store(int64(ttl))
}

// importPayload 归一化之前的导入内容
type importPayload struct {
	records     []any
	knowledge   []any
	plans       []any
	settings    map[string]any
	hasSettings bool
}

// Merge 解析导入文件并与 current 合并，不修改任何持久化状态。
//
// 记录是增量合并的；知识点和计划仅在导入数组非空时整体替换，空数组或缺失时保留现有数据。
func (s *ImportService) Merge(data []byte, current model.TrackerState) (*model.ImportBundle, error) {
	payload, err := decodeImport(data)
	if err != nil {
		return nil, err
	}

	incoming := make([]model.Record, 0, len(payload.records))
	for _, raw := range payload.records {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		incoming = append(incoming, s.normalizer.NormalizeRecord(obj))
	}

	added, _ := s.dedup.Filter(current.Records, incoming)
	stats := &model.ImportStats{
		Total: len(incoming),
		Added: len(added),
	}
	stats.Repeated = stats.Total - stats.Added

	merged := make([]model.Record, 0, len(current.Records)+len(added))
	merged = append(merged, current.Records...)
	merged = append(merged, added...)

	bundle := &model.ImportBundle{
		Records:     merged,
		Added:       added,
		ImportStats: stats,
		CreatedAt:   s.now(),
	}

	knowledge := s.normalizeKnowledge(payload.knowledge)
	if len(knowledge) > 0 {
		bundle.Knowledge = knowledge
		bundle.ReplaceKnowledge = true
	} else {
		bundle.Knowledge = append([]model.KnowledgeItem(nil), current.Knowledge...)
	}

	plans := decodePlans(payload.plans)
	if len(plans) > 0 {
		bundle.Plans = plans
		bundle.ReplacePlans = true
	} else {
		bundle.Plans = append([]model.StudyPlan(nil), current.Plans...)
	}

	if payload.hasSettings {
		bundle.Settings = stageSettings(payload.settings)
	}

	return bundle, nil
}

func decodeImport(data []byte) (*importPayload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, &ParseError{Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: errors.New("unexpected data after top-level value")}
	}

	switch v := root.(type) {
	case []any:
		return &importPayload{records: v}, nil
	case map[string]any:
		if rawRecords, ok := v["records"]; ok {
			records, ok := rawRecords.([]any)
			if !ok {
				return nil, &SchemaError{Reason: "records 字段必须是数组"}
			}
			p := &importPayload{records: records}
			p.knowledge, _ = v["knowledge"].([]any)
			p.plans, _ = v["plans"].([]any)
			p.settings, p.hasSettings = v["settings"].(map[string]any)
			return p, nil
		}
		if inner, ok := v["data"].(map[string]any); ok {
			if records, ok := inner["records"].([]any); ok {
				return &importPayload{records: records}, nil
			}
		}
		return nil, &SchemaError{Reason: "缺少 records 数组"}
	case nil:
		return nil, &SchemaError{Reason: "文件内容为空"}
	}
	return nil, &SchemaError{Reason: fmt.Sprintf("不支持的顶层类型 %T", root)}
}

// normalizeKnowledge 丢弃没有科目的条目，缺失或重复的 id 重新生成
func (s *ImportService) normalizeKnowledge(raw []any) []model.KnowledgeItem {
	items := make([]model.KnowledgeItem, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		obj, ok := r.(map[string]any)
		if !ok {
			continue
		}
		item, err := model.KnowledgeItemFromMap(obj)
		if err != nil {
			logger.Log.Debug("Skip knowledge item", zap.Error(err))
			continue
		}
		item.Module = NormalizeModule(item.Module)
		if item.Module == "" {
			continue
		}
		item.ID = uniqueID(seen, item.ID)
		items = append(items, item)
	}
	return items
}

// decodePlans 计划按原样接收，只做类型上的宽松转换；重复的 id 重新生成
func decodePlans(raw []any) []model.StudyPlan {
	plans := make([]model.StudyPlan, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		obj, ok := r.(map[string]any)
		if !ok {
			continue
		}
		plan := model.StudyPlan{
			ID:          stringField(obj["id"]),
			Name:        stringField(obj["name"]),
			Module:      stringField(obj["module"]),
			Type:        model.PlanType(stringField(obj["type"])),
			StartDate:   stringField(obj["startDate"]),
			EndDate:     stringField(obj["endDate"]),
			Progress:    coerceInt(obj["progress"]),
			Status:      model.PlanStatus(stringField(obj["status"])),
			Description: stringField(obj["description"]),
		}
		plan.Target, _ = coerceFloat(obj["target"])
		plan.ID = uniqueID(seen, plan.ID)
		if plan.Status == "" {
			plan.Status = model.PlanNotStarted
		}
		plans = append(plans, plan)
	}
	return plans
}

// uniqueID 同一批次内 id 作为主键必须唯一
func uniqueID(seen map[string]bool, id string) string {
	if id == "" || seen[id] {
		id = model.GenerateUUID()
	}
	seen[id] = true
	return id
}

func stringField(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	}
	return fmt.Sprint(v)
}

// stageSettings 原样暂存，非字符串值保留其 JSON 文本
func stageSettings(raw map[string]any) map[string]string {
	staged := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			staged[k] = s
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		staged[k] = string(b)
	}
	return staged
}

func (s *ImportService) loadState(ctx context.Context) (model.TrackerState, error) {
	var state model.TrackerState
	var err error
	if state.Records, err = s.records.All(ctx); err != nil {
		return state, err
	}
	if state.Knowledge, err = s.knowledge.All(ctx); err != nil {
		return state, err
	}
	if state.Plans, err = s.plans.All(ctx); err != nil {
		return state, err
	}
	if state.Settings, err = s.settings.Get(ctx); err != nil {
		return state, err
	}
	return state, nil
}

// Preview 与当前数据合并后暂存，等待用户确认
func (s *ImportService) Preview(ctx context.Context, data []byte) (*model.ImportBundle, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ImportService.Preview")
	defer span.End()

	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	bundle, err := s.Merge(data, state)
	if err != nil {
		monitoring.ImportRequests.WithLabelValues("rejected").Inc()
		logger.Log.Info("Import rejected", zap.Error(err))
		return nil, err
	}

	ttl := time.Duration(s.ttl.Load())
	bundle.ID = model.GenerateUUID()
	bundle.ExpiresAt = bundle.CreatedAt.Add(ttl)
	if err := s.pending.Save(ctx, bundle, ttl); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("import.total", bundle.ImportStats.Total),
		attribute.Int("import.added", bundle.ImportStats.Added),
	)
	monitoring.ImportRequests.WithLabelValues("staged").Inc()
	logger.Log.Info("Import staged",
		zap.String("importId", bundle.ID),
		zap.Int("total", bundle.ImportStats.Total),
		zap.Int("added", bundle.ImportStats.Added),
		zap.Int("repeated", bundle.ImportStats.Repeated),
		zap.Int("knowledge", len(bundle.Knowledge)),
		zap.Int("plans", len(bundle.Plans)))

	return bundle, nil
}

// ConfirmResult 确认导入后的结果
type ConfirmResult struct {
	ImportStats     model.ImportStats `json:"importStats"`
	AppliedSettings []string          `json:"appliedSettings"`
	IgnoredSettings []string          `json:"ignoredSettings"`
	PlansUpdated    bool              `json:"plansUpdated"`
}

// Confirm 取出暂存的导入并提交，同一导入只会被提交一次；提交失败时放回暂存
func (s *ImportService) Confirm(ctx context.Context, id string) (*ConfirmResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ImportService.Confirm")
	defer span.End()

	bundle, err := s.pending.Take(ctx, id)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, ErrPendingImportNotFound
	}

	result, toAdd, err := s.commit(ctx, bundle)
	if err != nil {
		s.restore(ctx, bundle)
		return nil, err
	}

	total := 0
	if bundle.ImportStats != nil {
		total = bundle.ImportStats.Total
	}
	result.ImportStats = model.ImportStats{Total: total, Added: len(toAdd), Repeated: total - len(toAdd)}
	monitoring.ImportedRecords.WithLabelValues("added").Add(float64(result.ImportStats.Added))
	monitoring.ImportedRecords.WithLabelValues("repeated").Add(float64(result.ImportStats.Repeated))
	monitoring.ImportRequests.WithLabelValues("committed").Inc()

	if len(result.IgnoredSettings) > 0 {
		logger.Log.Info("Ignored settings outside allow-list",
			zap.Strings("keys", result.IgnoredSettings))
	}

	_, changed, err := s.planSvc.SyncProgress(ctx)
	if err != nil {
		logger.Log.Error("Plan progress sync after import failed", zap.Error(err))
	}
	result.PlansUpdated = changed

	logger.Log.Info("Import committed",
		zap.String("importId", id),
		zap.Int("added", result.ImportStats.Added),
		zap.Bool("replaceKnowledge", bundle.ReplaceKnowledge),
		zap.Bool("replacePlans", bundle.ReplacePlans))

	return result, nil
}

// commit 与当前记录再去重一次后在锁内提交，预览之后新增的记录不会被重复写入
func (s *ImportService) commit(ctx context.Context, bundle *model.ImportBundle) (*ConfirmResult, []model.Record, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	current, err := s.records.All(ctx)
	if err != nil {
		return nil, nil, err
	}
	toAdd, _ := s.dedup.Filter(current, bundle.Added)

	commit := model.ImportCommit{
		AddRecords:       toAdd,
		Knowledge:        bundle.Knowledge,
		ReplaceKnowledge: bundle.ReplaceKnowledge,
		Plans:            bundle.Plans,
		ReplacePlans:     bundle.ReplacePlans,
	}

	result := &ConfirmResult{}
	if len(bundle.Settings) > 0 {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return nil, nil, err
		}
		result.AppliedSettings = settings.Apply(bundle.Settings)
		result.IgnoredSettings = ignoredKeys(bundle.Settings, result.AppliedSettings)
		commit.Settings = &settings
	}

	if err := s.committer.CommitImport(ctx, commit); err != nil {
		return nil, nil, err
	}
	return result, toAdd, nil
}

// restore 提交失败时放回暂存，便于在过期前重试
func (s *ImportService) restore(ctx context.Context, bundle *model.ImportBundle) {
	ttl := bundle.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return
	}
	if err := s.pending.Save(ctx, bundle, ttl); err != nil {
		logger.Log.Warn("Failed to restore pending import", zap.String("importId", bundle.ID), zap.Error(err))
	}
}

// Pending 查看尚未确认的导入
func (s *ImportService) Pending(ctx context.Context, id string) (*model.ImportBundle, error) {
	bundle, err := s.pending.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, ErrPendingImportNotFound
	}
	return bundle, nil
}

// Cancel 丢弃暂存的导入
func (s *ImportService) Cancel(ctx context.Context, id string) error {
	bundle, err := s.pending.Take(ctx, id)
	if err != nil {
		return err
	}
	if bundle == nil {
		return ErrPendingImportNotFound
	}
	monitoring.ImportRequests.WithLabelValues("cancelled").Inc()
	return nil
}

func ignoredKeys(values map[string]string, applied []string) []string {
	known := make(map[string]bool, len(applied))
	for _, k := range applied {
		known[k] = true
	}
	var ignored []string
	for k := range values {
		if !known[k] {
			ignored = append(ignored, k)
		}
	}
	sort.Strings(ignored)
	return ignored
}
