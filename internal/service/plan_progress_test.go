package service

import (
	"exam_tracker_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func januaryPlan(planType model.PlanType, target float64) model.StudyPlan {
	return model.StudyPlan{
		ID:        "p1",
		Name:      "一月计划",
		Module:    "言语理解",
		Type:      planType,
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		Target:    target,
	}
}

func TestCalcQuestionCount(t *testing.T) {
	calc := NewProgressCalculator(testNormalizer())
	records := []model.Record{
		rec(1, "2024-01-02", "言语理解", 40, 30, ""),
		rec(2, "2024-01-10", "verbal-understanding", 30, 20, ""),
		rec(3, "2024-01-31", "言语理解", 20, 10, ""),
		rec(4, "2024-02-01", "言语理解", 500, 10, ""),
		rec(5, "2024-01-05", "数量关系", 500, 10, ""),
	}

	got := calc.Calc(januaryPlan(model.PlanTypeQuestionCount, 100), records, fixedNow())
	assert.Equal(t, model.PlanProgress{Progress: 90, Status: model.PlanInProgress}, got)
}

func TestCalcAccuracy(t *testing.T) {
	calc := NewProgressCalculator(testNormalizer())
	records := []model.Record{
		rec(1, "2024-01-02", "言语理解", 50, 40, ""),
		rec(2, "2024-01-03", "言语理解", 50, 45, ""),
	}

	got := calc.Calc(januaryPlan(model.PlanTypeAccuracy, 80), records, fixedNow())
	assert.Equal(t, model.PlanProgress{Progress: 85, Status: model.PlanCompleted}, got)
}

func TestCalcAccuracyZeroTotal(t *testing.T) {
	calc := NewProgressCalculator(testNormalizer())
	records := []model.Record{rec(1, "2024-01-02", "言语理解", 0, 0, "")}

	got := calc.Calc(januaryPlan(model.PlanTypeAccuracy, 80), records, fixedNow())
	assert.Equal(t, model.PlanProgress{Progress: 0, Status: model.PlanInProgress}, got)
}

func TestCalcWrongCount(t *testing.T) {
	calc := NewProgressCalculator(testNormalizer())
	records := []model.Record{
		rec(1, "2024-01-02", "言语理解", 10, 8, ""),
		rec(2, "2024-01-03", "言语理解", 10, 9, ""),
	}

	got := calc.Calc(januaryPlan(model.PlanTypeWrongCount, 5), records, fixedNow())
	assert.Equal(t, model.PlanProgress{Progress: 3, Status: model.PlanCompleted}, got)

	got = calc.Calc(januaryPlan(model.PlanTypeWrongCount, 2), records, fixedNow())
	assert.Equal(t, model.PlanProgress{Progress: 3, Status: model.PlanInProgress}, got)
}

func TestCalcRecordAfterEndDateNeverCounts(t *testing.T) {
	calc := NewProgressCalculator(testNormalizer())
	records := []model.Record{rec(1, "2024-02-01", "言语理解", 100, 100, "")}

	got := calc.Calc(januaryPlan(model.PlanTypeQuestionCount, 10), records, fixedNow())
	assert.Equal(t, 0, got.Progress)
	assert.Equal(t, model.PlanNotStarted, got.Status)
}

func TestCalcDeadline(t *testing.T) {
	calc := NewProgressCalculator(testNormalizer())
	records := []model.Record{rec(1, "2024-01-02", "言语理解", 40, 30, "")}
	plan := januaryPlan(model.PlanTypeQuestionCount, 100)

	lastMinute := time.Date(2024, 1, 31, 23, 59, 0, 0, shanghai())
	assert.Equal(t, model.PlanInProgress, calc.Calc(plan, records, lastMinute).Status)

	nextDay := time.Date(2024, 2, 1, 0, 0, 1, 0, shanghai())
	assert.Equal(t, model.PlanFailed, calc.Calc(plan, records, nextDay).Status)

	// 达标优先于过期
	plan.Target = 40
	assert.Equal(t, model.PlanCompleted, calc.Calc(plan, records, nextDay).Status)
}

func TestCalcMalformedPlans(t *testing.T) {
	calc := NewProgressCalculator(testNormalizer())
	records := []model.Record{rec(1, "2024-01-02", "言语理解", 40, 30, "")}

	tests := []struct {
		name   string
		mutate func(p *model.StudyPlan)
	}{
		{"missing module", func(p *model.StudyPlan) { p.Module = "" }},
		{"unknown type", func(p *model.StudyPlan) { p.Type = "速度" }},
		{"missing type", func(p *model.StudyPlan) { p.Type = "" }},
		{"bad start date", func(p *model.StudyPlan) { p.StartDate = "soon" }},
		{"start after end", func(p *model.StudyPlan) { p.StartDate = "2024-02-10" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := januaryPlan(model.PlanTypeQuestionCount, 10)
			tt.mutate(&plan)
			assert.Equal(t, notStarted, calc.Calc(plan, records, fixedNow()))
		})
	}
}

func TestCalcMachineKeyPlanModule(t *testing.T) {
	calc := NewProgressCalculator(testNormalizer())
	plan := januaryPlan(model.PlanTypeQuestionCount, 100)
	plan.Module = "verbal-understanding"
	records := []model.Record{rec(1, "2024-01-02", "言语理解", 40, 30, "")}

	assert.Equal(t, 40, calc.Calc(plan, records, fixedNow()).Progress)
}
