package service

import (
	"encoding/json"
	"exam_tracker_backend/internal/model"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var dateLayouts = []string{
	dateLayout,
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// NormalizeModule 将机器键或展示名称统一为展示名称，未知值原样返回
func NormalizeModule(raw string) string {
	if m, ok := model.ParseModule(raw); ok {
		return m.Label()
	}
	return strings.TrimSpace(raw)
}

// Normalizer 把不同来源的记录转换为固定结构
type Normalizer struct {
	Location *time.Location

	now    func() time.Time
	suffix func() int64
}

func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{
		Location: loc,
		now:      time.Now,
		suffix:   func() int64 { return rand.Int64N(1000) },
	}
}

// NormalizeDate 接受日期字符串、time.Time 或毫秒时间戳，无法解析时返回空串
func (n *Normalizer) NormalizeDate(raw any) string {
	switch v := raw.(type) {
	case string:
		return n.parseDateString(v)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.In(n.Location).Format(dateLayout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return n.NormalizeDate(*v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return ""
		}
		return n.fromMillis(f)
	case float64:
		return n.fromMillis(v)
	case float32:
		return n.fromMillis(float64(v))
	case int:
		return n.fromMillis(float64(v))
	case int64:
		return n.fromMillis(float64(v))
	}
	return ""
}

func (n *Normalizer) fromMillis(ms float64) string {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return ""
	}
	return time.UnixMilli(int64(ms)).In(n.Location).Format(dateLayout)
}

func (n *Normalizer) parseDateString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, n.Location); err == nil {
			return t.Format(dateLayout)
		}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(n.Location).Format(dateLayout)
		}
	}
	return ""
}

// NewRecordID 时间戳加随机后缀
func (n *Normalizer) NewRecordID() int64 {
	return n.now().UnixMilli()*1000 + n.suffix()
}

// NormalizeRecord 兼容旧字段名 totalCount/correctCount，数字字符串转为数字，非法值取 0
func (n *Normalizer) NormalizeRecord(raw map[string]any) model.Record {
	total := coerceInt(firstPresent(raw, "total", "totalCount"))
	correct := coerceInt(firstPresent(raw, "correct", "correctCount"))
	if correct > total {
		correct = total
	}

	id, ok := integerID(raw["id"])
	if !ok {
		id = n.NewRecordID()
	}

	module, _ := raw["module"].(string)

	return model.Record{
		ID:       id,
		Date:     n.NormalizeDate(raw["date"]),
		Module:   NormalizeModule(module),
		Total:    total,
		Correct:  correct,
		Duration: normalizeDuration(raw["duration"]),
	}
}

func firstPresent(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func integerID(v any) (int64, bool) {
	switch id := v.(type) {
	case json.Number:
		if i, err := id.Int64(); err == nil {
			return i, true
		}
	case float64:
		if id == math.Trunc(id) && !math.IsInf(id, 0) {
			return int64(id), true
		}
	case int:
		return int64(id), true
	case int64:
		return id, true
	}
	return 0, false
}

func coerceFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func coerceInt(v any) int {
	f, ok := coerceFloat(v)
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}

// normalizeDuration 统一为 HH:MM；数字按分钟处理
func normalizeDuration(v any) string {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		parts := strings.Split(s, ":")
		if len(parts) == 2 {
			h, errH := strconv.Atoi(parts[0])
			m, errM := strconv.Atoi(parts[1])
			if errH == nil && errM == nil && h >= 0 && m >= 0 && m < 60 {
				return fmt.Sprintf("%02d:%02d", h, m)
			}
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return s
		}
	}
	f, ok := coerceFloat(v)
	if !ok || f < 0 {
		return ""
	}
	minutes := int(f)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DurationMinutes 解析 HH:MM，失败返回 0
func DurationMinutes(d string) int {
	parts := strings.Split(strings.TrimSpace(d), ":")
	if len(parts) != 2 {
		return 0
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil {
		return 0
	}
	return h*60 + m
}
