package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeModule(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"verbal-understanding", "言语理解"},
		{"言语理解", "言语理解"},
		{" data-analysis ", "资料分析"},
		{"申论", "申论"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeModule(tt.raw), "raw=%q", tt.raw)
	}
}

func TestNormalizeDate(t *testing.T) {
	n := testNormalizer()
	// 2024-01-01 00:30 上海时间
	ms := time.Date(2024, 1, 1, 0, 30, 0, 0, shanghai()).UnixMilli()

	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"iso", "2024-01-05", "2024-01-05"},
		{"unpadded", "2024-1-5", "2024-01-05"},
		{"slashes", "2024/01/05", "2024-01-05"},
		{"datetime", "2024-01-05 23:10:00", "2024-01-05"},
		{"rfc3339 converted to local day", "2024-01-04T20:00:00Z", "2024-01-05"},
		{"time value", time.Date(2024, 3, 9, 8, 0, 0, 0, shanghai()), "2024-03-09"},
		{"millis float", float64(ms), "2024-01-01"},
		{"millis json number", json.Number("1704040200000"), "2024-01-01"},
		{"millis int64", ms, "2024-01-01"},
		{"garbage", "yesterday", ""},
		{"empty", "", ""},
		{"nil", nil, ""},
		{"bool", true, ""},
		{"zero time", time.Time{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.NormalizeDate(tt.raw))
		})
	}
}

func TestNormalizeRecord(t *testing.T) {
	n := testNormalizer()
	n.suffix = func() int64 { return 7 }

	t.Run("legacy field names and numeric strings", func(t *testing.T) {
		r := n.NormalizeRecord(map[string]any{
			"id":           json.Number("42"),
			"date":         "2024-1-3",
			"module":       "quantitative",
			"totalCount":   "20",
			"correctCount": json.Number("15"),
			"duration":     "0:35",
		})
		assert.Equal(t, int64(42), r.ID)
		assert.Equal(t, "2024-01-03", r.Date)
		assert.Equal(t, "数量关系", r.Module)
		assert.Equal(t, 20, r.Total)
		assert.Equal(t, 15, r.Correct)
		assert.Equal(t, "00:35", r.Duration)
	})

	t.Run("current names take precedence", func(t *testing.T) {
		r := n.NormalizeRecord(map[string]any{"total": 10, "totalCount": 99, "correct": 4})
		assert.Equal(t, 10, r.Total)
		assert.Equal(t, 4, r.Correct)
	})

	t.Run("non numeric id is regenerated", func(t *testing.T) {
		r := n.NormalizeRecord(map[string]any{"id": "abc", "date": "2024-01-03"})
		assert.Equal(t, fixedNow().UnixMilli()*1000+7, r.ID)
	})

	t.Run("malformed values coerced", func(t *testing.T) {
		r := n.NormalizeRecord(map[string]any{
			"date":    "not a date",
			"module":  "常识判断",
			"total":   "many",
			"correct": -3,
		})
		assert.Equal(t, "", r.Date)
		assert.Equal(t, 0, r.Total)
		assert.Equal(t, 0, r.Correct)
		assert.Equal(t, "", r.Duration)
	})

	t.Run("correct clamped to total", func(t *testing.T) {
		r := n.NormalizeRecord(map[string]any{"total": 5, "correct": 8})
		assert.Equal(t, 5, r.Correct)
	})
}

func TestNormalizeDuration(t *testing.T) {
	assert.Equal(t, "01:05", normalizeDuration("1:05"))
	assert.Equal(t, "00:45", normalizeDuration(json.Number("45")))
	assert.Equal(t, "02:00", normalizeDuration("120"))
	assert.Equal(t, "约半小时", normalizeDuration("约半小时"))
	assert.Equal(t, "", normalizeDuration(nil))
	assert.Equal(t, "", normalizeDuration(-5))
}

func TestDurationMinutes(t *testing.T) {
	assert.Equal(t, 95, DurationMinutes("01:35"))
	assert.Equal(t, 0, DurationMinutes(""))
	assert.Equal(t, 0, DurationMinutes("x:y"))
}

func TestNewRecordIDUsesSuffix(t *testing.T) {
	n := testNormalizer()
	ids := map[int64]bool{}
	for i := 0; i < 50; i++ {
		id := n.NewRecordID()
		require.GreaterOrEqual(t, id, fixedNow().UnixMilli()*1000)
		require.Less(t, id, fixedNow().UnixMilli()*1000+1000)
		ids[id] = true
	}
	assert.Greater(t, len(ids), 1)
}
