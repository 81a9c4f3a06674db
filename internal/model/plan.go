package model

import "time"

// PlanType 学习计划的目标类型
type PlanType string

const (
	PlanTypeQuestionCount PlanType = "题量"
	PlanTypeAccuracy      PlanType = "正确率"
	PlanTypeWrongCount    PlanType = "错题数"
)

// Valid 是否为已知类型
func (t PlanType) Valid() bool {
	switch t {
	case PlanTypeQuestionCount, PlanTypeAccuracy, PlanTypeWrongCount:
		return true
	}
	return false
}

// PlanStatus 计划状态，由练习记录推导
type PlanStatus string

const (
	PlanNotStarted PlanStatus = "未开始"
	PlanInProgress PlanStatus = "进行中"
	PlanCompleted  PlanStatus = "已完成"
	PlanFailed     PlanStatus = "未达成"
)

// StudyPlan 学习计划；Progress 与 Status 是派生字段，每次记录或计划变化时重算覆盖
type StudyPlan struct {
	ID          string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name        string     `gorm:"size:255" json:"name"`
	Module      string     `gorm:"size:64;index" json:"module"`
	Type        PlanType   `gorm:"size:16" json:"type"`
	StartDate   string     `gorm:"size:32" json:"startDate"`
	EndDate     string     `gorm:"size:32" json:"endDate"`
	Target      float64    `gorm:"default:0" json:"target"`
	Progress    int        `gorm:"default:0" json:"progress"`
	Status      PlanStatus `gorm:"size:16;default:'未开始'" json:"status"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

func (StudyPlan) TableName() string {
	return "study_plans"
}

// PlanProgress 单个计划的计算结果
type PlanProgress struct {
	Progress int        `json:"progress"`
	Status   PlanStatus `json:"status"`
}
