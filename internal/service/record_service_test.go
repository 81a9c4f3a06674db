package service

import (
	"context"
	"exam_tracker_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCreateTriggersPlanSync(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.store.plans = []model.StudyPlan{januaryPlan(model.PlanTypeQuestionCount, 50)}

	record, err := env.records.Create(ctx, RecordRequest{
		Date:     "2024-1-10",
		Module:   "verbal-understanding",
		Total:    60,
		Correct:  45,
		Duration: "1:05",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", record.Date)
	assert.Equal(t, "言语理解", record.Module)
	assert.Equal(t, "01:05", record.Duration)
	assert.NotZero(t, record.ID)

	assert.Equal(t, model.PlanCompleted, env.store.plans[0].Status)
	assert.Equal(t, 1, env.notifier.count())
}

func TestRecordCreateAllowsSameDayRepeat(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	req := RecordRequest{Date: "2024-01-10", Module: "言语理解", Total: 20, Correct: 10}

	_, err := env.records.Create(ctx, req)
	require.NoError(t, err)
	_, err = env.records.Create(ctx, req)
	require.NoError(t, err)
	assert.Len(t, env.store.records, 2)
}

func TestRecordCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   RecordRequest
		field string
	}{
		{"bad date", RecordRequest{Date: "later", Module: "言语理解", Total: 1}, "date"},
		{"missing module", RecordRequest{Date: "2024-01-10", Total: 1}, "module"},
		{"negative total", RecordRequest{Date: "2024-01-10", Module: "言语理解", Total: -1}, "total"},
		{"correct above total", RecordRequest{Date: "2024-01-10", Module: "言语理解", Total: 5, Correct: 6}, "correct"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			_, err := env.records.Create(context.Background(), tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestRecordListUsesPageSizeSetting(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		env.store.records = append(env.store.records, rec(int64(i), "2024-01-0"+string(rune('0'+i)), "言语理解", i, 0, ""))
	}
	_, err := env.settings.Update(ctx, map[string]string{"pageSize": "2"})
	require.NoError(t, err)

	page, err := env.records.List(ctx, model.RecordFilter{Module: "verbal-understanding"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.List, 2)
	assert.Equal(t, "2024-01-05", page.List[0].Date)
}

func TestRecordDelete(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.store.records = []model.Record{rec(7, "2024-01-02", "言语理解", 10, 5, "")}

	require.NoError(t, env.records.Delete(ctx, 7))
	assert.Empty(t, env.store.records)
	assert.ErrorIs(t, env.records.Delete(ctx, 7), ErrRecordNotFound)
}
