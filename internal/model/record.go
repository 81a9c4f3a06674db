package model

// Record 一次练习记录
//
// ID 由生成器分配，导出导入之间不可移植，因此不参与去重身份判断。
type Record struct {
	RowID    uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ID       int64  `gorm:"index;not null" json:"id"`
	Date     string `gorm:"size:10;index" json:"date"`
	Module   string `gorm:"size:64;index" json:"module"`
	Total    int    `gorm:"not null;default:0" json:"total"`
	Correct  int    `gorm:"not null;default:0" json:"correct"`
	Duration string `gorm:"size:16" json:"duration"`
}

func (Record) TableName() string {
	return "practice_records"
}

// Wrong 错题数
func (r Record) Wrong() int {
	return r.Total - r.Correct
}
