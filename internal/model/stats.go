package model

// ModuleStat 单个科目的练习汇总
type ModuleStat struct {
	Module   string  `json:"module"`
	Sessions int     `json:"sessions"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Wrong    int     `json:"wrong"`
	Accuracy float64 `json:"accuracy"`
	Minutes  int     `json:"minutes"`
}

// RecordFilter 记录列表筛选条件
type RecordFilter struct {
	Module string
	From   string
	To     string
	Page   int
	Limit  int
}
