package service

import (
	"exam_tracker_backend/internal/model"
	"strconv"
	"strings"
)

// keySeparator 单元分隔符，不会出现在日期、科目名或 HH:MM 中
const keySeparator = "\x1f"

// RecordKey 记录的去重身份：date、module、total、correct、duration，不含 id
func RecordKey(r model.Record) string {
	return strings.Join([]string{
		r.Date,
		NormalizeModule(r.Module),
		strconv.Itoa(r.Total),
		strconv.Itoa(r.Correct),
		r.Duration,
	}, keySeparator)
}

// Deduplicator 针对已有数据和批次内部两级去重
type Deduplicator struct{}

// Filter 返回通过去重的新记录和被判定为重复的数量。
// 与 existing 重复或在 incoming 中非首次出现的记录均计为重复。
func (Deduplicator) Filter(existing, incoming []model.Record) ([]model.Record, int) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, r := range existing {
		seen[RecordKey(r)] = struct{}{}
	}

	added := make([]model.Record, 0, len(incoming))
	repeated := 0
	for _, r := range incoming {
		key := RecordKey(r)
		if _, dup := seen[key]; dup {
			repeated++
			continue
		}
		seen[key] = struct{}{}
		added = append(added, r)
	}
	return added, repeated
}
