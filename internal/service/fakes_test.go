package service

import (
	"context"
	"exam_tracker_backend/internal/config"
	"exam_tracker_backend/internal/model"
	"exam_tracker_backend/internal/repository"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// memStore 内存版持久化，实现全部 Store 接口和 ImportCommitter
type memStore struct {
	mu        sync.Mutex
	records   []model.Record
	knowledge []model.KnowledgeItem
	plans     []model.StudyPlan
	settings  *model.Settings

	progressWrites int
	commits        int
}

func newMemStore() *memStore {
	return &memStore{}
}

type memRecords struct{ *memStore }
type memPlans struct{ *memStore }
type memKnowledge struct{ *memStore }
type memSettings struct{ *memStore }

func (s memRecords) All(ctx context.Context) ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Record(nil), s.records...), nil
}

func (s memRecords) List(ctx context.Context, filter model.RecordFilter) ([]model.Record, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []model.Record
	for _, r := range s.records {
		if filter.Module != "" && r.Module != filter.Module {
			continue
		}
		if filter.From != "" && r.Date < filter.From {
			continue
		}
		if filter.To != "" && r.Date > filter.To {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date > matched[j].Date })
	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s memRecords) Create(ctx context.Context, record *model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *record)
	return nil
}

func (s memRecords) DeleteByID(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	var n int64
	for _, r := range s.records {
		if r.ID == id {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return n, nil
}

func (s memPlans) All(ctx context.Context) ([]model.StudyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.StudyPlan(nil), s.plans...), nil
}

func (s memPlans) FindByID(ctx context.Context, id string) (*model.StudyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.plans {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s memPlans) Create(ctx context.Context, plan *model.StudyPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = append(s.plans, *plan)
	return nil
}

func (s memPlans) Update(ctx context.Context, plan *model.StudyPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.plans {
		if s.plans[i].ID == plan.ID {
			s.plans[i] = *plan
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s memPlans) Delete(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.plans {
		if s.plans[i].ID == id {
			s.plans = append(s.plans[:i], s.plans[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s memPlans) UpdateProgress(ctx context.Context, plans []model.StudyPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progressWrites++
	for _, p := range plans {
		for i := range s.plans {
			if s.plans[i].ID == p.ID {
				s.plans[i].Progress = p.Progress
				s.plans[i].Status = p.Status
			}
		}
	}
	return nil
}

func (s memKnowledge) All(ctx context.Context) ([]model.KnowledgeItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.KnowledgeItem(nil), s.knowledge...), nil
}

func (s memKnowledge) ListByModule(ctx context.Context, module string) ([]model.KnowledgeItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.KnowledgeItem
	for _, k := range s.knowledge {
		if k.Module == module {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s memKnowledge) Create(ctx context.Context, item *model.KnowledgeItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.knowledge = append(s.knowledge, *item)
	return nil
}

func (s memKnowledge) Delete(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.knowledge {
		if s.knowledge[i].ID == id {
			s.knowledge = append(s.knowledge[:i], s.knowledge[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s memSettings) Get(ctx context.Context) (model.Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return model.Settings{}, false, nil
	}
	return *s.settings, true, nil
}

func (s memSettings) Save(ctx context.Context, settings *model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *settings
	s.settings = &copied
	return nil
}

func (s *memStore) CommitImport(ctx context.Context, commit model.ImportCommit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// 与数据库一致，知识点和计划以 id 为主键
	if commit.ReplaceKnowledge {
		ids := make([]string, 0, len(commit.Knowledge))
		for _, item := range commit.Knowledge {
			ids = append(ids, item.ID)
		}
		if err := uniqueKeys("knowledge", ids); err != nil {
			return err
		}
	}
	if commit.ReplacePlans {
		ids := make([]string, 0, len(commit.Plans))
		for _, plan := range commit.Plans {
			ids = append(ids, plan.ID)
		}
		if err := uniqueKeys("plans", ids); err != nil {
			return err
		}
	}

	s.commits++
	s.records = append(s.records, commit.AddRecords...)
	if commit.ReplaceKnowledge {
		s.knowledge = append([]model.KnowledgeItem(nil), commit.Knowledge...)
	}
	if commit.ReplacePlans {
		s.plans = append([]model.StudyPlan(nil), commit.Plans...)
	}
	if commit.Settings != nil {
		copied := *commit.Settings
		s.settings = &copied
	}
	return nil
}

func uniqueKeys(table string, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%s: duplicate primary key %q", table, id)
		}
		seen[id] = true
	}
	return nil
}

// recordingNotifier 记录收到的通知
type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, msg model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

var testDefaults = config.SettingsDefaultsConfig{
	NavMode:      "sidebar",
	Notification: true,
	PageSize:     20,
	Theme:        "light",
}

// fixedNow 2024-01-15 12:00 上海时间
func fixedNow() time.Time {
	return time.Date(2024, 1, 15, 12, 0, 0, 0, shanghai())
}

func shanghai() *time.Location {
	return time.FixedZone("CST", 8*3600)
}

func testNormalizer() *Normalizer {
	n := NewNormalizer(shanghai())
	n.now = fixedNow
	return n
}

// testEnv 装配好的服务，全部使用内存存储
type testEnv struct {
	store      *memStore
	notifier   *recordingNotifier
	normalizer *Normalizer
	settings   *SettingsService
	plans      *PlanService
	records    *RecordService
	importer   *ImportService
	export     *ExportService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	notifier := &recordingNotifier{}
	normalizer := testNormalizer()

	calc := NewProgressCalculator(normalizer)
	sync := NewProgressSynchronizer(calc, notifier)
	sync.now = fixedNow

	settings := NewSettingsService(memSettings{store}, testDefaults)
	plans := NewPlanService(memPlans{store}, memRecords{store}, normalizer, sync)
	plans.now = fixedNow

	importer := NewImportService(
		normalizer,
		memRecords{store},
		memKnowledge{store},
		memPlans{store},
		settings,
		store,
		repository.NewMemoryPendingImportStore(),
		plans,
		time.Minute,
	)
	importer.now = fixedNow

	export := NewExportService(memRecords{store}, memKnowledge{store}, memPlans{store}, settings, shanghai())
	export.now = fixedNow

	return &testEnv{
		store:      store,
		notifier:   notifier,
		normalizer: normalizer,
		settings:   settings,
		plans:      plans,
		records:    NewRecordService(memRecords{store}, normalizer, settings, plans),
		importer:   importer,
		export:     export,
	}
}
