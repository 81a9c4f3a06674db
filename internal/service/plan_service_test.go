package service

import (
	"context"
	"exam_tracker_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlanRequest() PlanRequest {
	return PlanRequest{
		Name:      " 一月言语 ",
		Module:    "verbal-understanding",
		Type:      model.PlanTypeQuestionCount,
		StartDate: "2024-1-1",
		EndDate:   "2024/01/31",
		Target:    50,
	}
}

func TestPlanCreateNormalizesAndComputes(t *testing.T) {
	env := newTestEnv()
	env.store.records = []model.Record{rec(1, "2024-01-02", "言语理解", 30, 20, "")}

	plan, err := env.plans.Create(context.Background(), validPlanRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "一月言语", plan.Name)
	assert.Equal(t, "言语理解", plan.Module)
	assert.Equal(t, "2024-01-01", plan.StartDate)
	assert.Equal(t, "2024-01-31", plan.EndDate)
	assert.Equal(t, 30, plan.Progress)
	assert.Equal(t, model.PlanInProgress, plan.Status)

	require.Len(t, env.store.plans, 1)
	assert.Equal(t, model.PlanInProgress, env.store.plans[0].Status)
}

func TestPlanCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *PlanRequest)
		field  string
	}{
		{"empty name", func(r *PlanRequest) { r.Name = "  " }, "name"},
		{"missing module", func(r *PlanRequest) { r.Module = "" }, "module"},
		{"unknown type", func(r *PlanRequest) { r.Type = "速度" }, "type"},
		{"negative target", func(r *PlanRequest) { r.Target = -1 }, "target"},
		{"bad start date", func(r *PlanRequest) { r.StartDate = "someday" }, "startDate"},
		{"end before start", func(r *PlanRequest) { r.EndDate = "2023-12-31" }, "endDate"},
		{"accuracy above 100", func(r *PlanRequest) {
			r.Type = model.PlanTypeAccuracy
			r.Target = 120
		}, "target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			req := validPlanRequest()
			tt.mutate(&req)

			_, err := env.plans.Create(context.Background(), req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, env.store.plans)
		})
	}
}

func TestPlanUpdateAndDelete(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	plan, err := env.plans.Create(ctx, validPlanRequest())
	require.NoError(t, err)

	req := validPlanRequest()
	req.Name = "改名"
	req.Target = 10
	env.store.records = []model.Record{rec(1, "2024-01-02", "言语理解", 30, 20, "")}
	updated, err := env.plans.Update(ctx, plan.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "改名", updated.Name)
	assert.Equal(t, model.PlanCompleted, updated.Status)

	_, err = env.plans.Update(ctx, "missing", req)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	require.NoError(t, env.plans.Delete(ctx, plan.ID))
	assert.ErrorIs(t, env.plans.Delete(ctx, plan.ID), ErrPlanNotFound)
}

func TestPlanSyncProgressSkipsUnchangedWrites(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.store.plans = []model.StudyPlan{januaryPlan(model.PlanTypeQuestionCount, 100)}
	env.store.records = []model.Record{rec(1, "2024-01-02", "言语理解", 30, 20, "")}

	_, changed, err := env.plans.SyncProgress(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, env.store.progressWrites)

	_, changed, err = env.plans.SyncProgress(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, env.store.progressWrites)
}

func TestPlanProgressReadOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.store.plans = []model.StudyPlan{januaryPlan(model.PlanTypeAccuracy, 80)}
	env.store.records = []model.Record{
		rec(1, "2024-01-02", "言语理解", 50, 40, ""),
		rec(2, "2024-01-03", "言语理解", 50, 45, ""),
	}

	progress, err := env.plans.Progress(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, &model.PlanProgress{Progress: 85, Status: model.PlanCompleted}, progress)
	assert.Equal(t, 0, env.store.progressWrites)
	assert.Equal(t, 0, env.notifier.count())

	_, err = env.plans.Progress(ctx, "missing")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPlanListMarksExpiredPlans(t *testing.T) {
	env := newTestEnv()
	plan := januaryPlan(model.PlanTypeQuestionCount, 100)
	plan.StartDate = "2023-12-01"
	plan.EndDate = "2023-12-31"
	env.store.plans = []model.StudyPlan{plan}
	env.store.records = []model.Record{rec(1, "2023-12-20", "言语理解", 30, 20, "")}

	plans, err := env.plans.List(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, model.PlanFailed, plans[0].Status)
}
