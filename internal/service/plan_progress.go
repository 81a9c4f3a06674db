package service

import (
	"exam_tracker_backend/internal/model"
	"math"
	"time"
)

// ProgressCalculator 根据练习记录计算计划进度和状态，无副作用，也不记忆上一次的结果：
// 记录被回溯修改时状态可能在 已完成 与 未达成 之间来回变化。
type ProgressCalculator struct {
	normalizer *Normalizer
}

func NewProgressCalculator(normalizer *Normalizer) *ProgressCalculator {
	return &ProgressCalculator{normalizer: normalizer}
}

var notStarted = model.PlanProgress{Progress: 0, Status: model.PlanNotStarted}

// Calc 计划类型未知、科目为空或日期无法解析时返回 {0, 未开始}
func (c *ProgressCalculator) Calc(plan model.StudyPlan, records []model.Record, now time.Time) model.PlanProgress {
	start := c.normalizer.NormalizeDate(plan.StartDate)
	end := c.normalizer.NormalizeDate(plan.EndDate)
	module := NormalizeModule(plan.Module)
	if start == "" || end == "" || start > end || module == "" || !plan.Type.Valid() {
		return notStarted
	}

	var matched, sumTotal, sumCorrect int
	for _, r := range records {
		date := r.Date
		if len(date) != len(dateLayout) {
			date = c.normalizer.NormalizeDate(date)
		}
		if date == "" || date < start || date > end {
			continue
		}
		if NormalizeModule(r.Module) != module {
			continue
		}
		matched++
		sumTotal += r.Total
		sumCorrect += r.Correct
	}

	if matched == 0 {
		return notStarted
	}

	var progress int
	var reached bool
	switch plan.Type {
	case model.PlanTypeQuestionCount:
		progress = sumTotal
		reached = float64(progress) >= plan.Target
	case model.PlanTypeAccuracy:
		if sumTotal > 0 {
			progress = int(math.Round(100 * float64(sumCorrect) / float64(sumTotal)))
		}
		reached = float64(progress) >= plan.Target
	case model.PlanTypeWrongCount:
		progress = sumTotal - sumCorrect
		reached = float64(progress) <= plan.Target
	}

	status := model.PlanInProgress
	switch {
	case reached:
		status = model.PlanCompleted
	case now.After(c.endOfDay(end)):
		status = model.PlanFailed
	}
	return model.PlanProgress{Progress: progress, Status: status}
}

func (c *ProgressCalculator) endOfDay(day string) time.Time {
	t, err := time.ParseInLocation(dateLayout, day, c.normalizer.Location)
	if err != nil {
		return time.Time{}
	}
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
