package service

import (
	"context"
	"exam_tracker_backend/internal/model"
	"math"
	"sort"
)

// StatsService 按科目汇总练习数据
type StatsService struct {
	records    RecordStore
	normalizer *Normalizer
}

func NewStatsService(records RecordStore, normalizer *Normalizer) *StatsService {
	return &StatsService{records: records, normalizer: normalizer}
}

// ModuleStats from/to 为空表示不限；已知科目按考试顺序在前，其余按名称排序
func (s *StatsService) ModuleStats(ctx context.Context, from, to string) ([]model.ModuleStat, error) {
	records, err := s.records.All(ctx)
	if err != nil {
		return nil, err
	}
	if from != "" {
		from = s.normalizer.NormalizeDate(from)
	}
	if to != "" {
		to = s.normalizer.NormalizeDate(to)
	}
	return AggregateModules(records, from, to), nil
}

// AggregateModules 纯函数，便于离线脚本复用
func AggregateModules(records []model.Record, from, to string) []model.ModuleStat {
	byModule := map[string]*model.ModuleStat{}
	for _, r := range records {
		if from != "" && r.Date < from {
			continue
		}
		if to != "" && r.Date > to {
			continue
		}
		module := NormalizeModule(r.Module)
		st, ok := byModule[module]
		if !ok {
			st = &model.ModuleStat{Module: module}
			byModule[module] = st
		}
		st.Sessions++
		st.Total += r.Total
		st.Correct += r.Correct
		st.Minutes += DurationMinutes(r.Duration)
	}

	order := map[string]int{}
	for i, m := range model.Modules() {
		order[m.Label()] = i
	}

	stats := make([]model.ModuleStat, 0, len(byModule))
	for _, st := range byModule {
		st.Wrong = st.Total - st.Correct
		if st.Total > 0 {
			st.Accuracy = math.Round(1000*float64(st.Correct)/float64(st.Total)) / 10
		}
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		oi, iKnown := order[stats[i].Module]
		oj, jKnown := order[stats[j].Module]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown != jKnown:
			return iKnown
		}
		return stats[i].Module < stats[j].Module
	})
	return stats
}
