package model

import "time"

// ExportVersion 当前导出文件格式版本
const ExportVersion = 3

// ImportStats 导入统计
type ImportStats struct {
	Total    int `json:"total"`
	Added    int `json:"added"`
	Repeated int `json:"repeated"`
}

// TrackerState 当前持久化状态的快照
type TrackerState struct {
	Records   []Record
	Knowledge []KnowledgeItem
	Plans     []StudyPlan
	Settings  Settings
}

// ImportBundle 待用户确认的导入结果，确认后整体提交，取消则整体丢弃
type ImportBundle struct {
	ID          string            `json:"id"`
	Records     []Record          `json:"records"`
	Added       []Record          `json:"added"`
	Knowledge   []KnowledgeItem   `json:"knowledge"`
	Plans       []StudyPlan       `json:"plans,omitempty"`
	Settings    map[string]string `json:"settings,omitempty"`
	ImportStats *ImportStats      `json:"importStats,omitempty"`

	// 导入文件中是否带有非空的知识点或计划，决定确认时是否整体替换
	ReplaceKnowledge bool `json:"replaceKnowledge"`
	ReplacePlans     bool `json:"replacePlans"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportFile 导出文件（version 3）
type ExportFile struct {
	Records    []Record          `json:"records"`
	Knowledge  []KnowledgeItem   `json:"knowledge"`
	Plans      []StudyPlan       `json:"plans"`
	Settings   map[string]string `json:"settings"`
	ExportedAt string            `json:"exportedAt"`
	Version    int               `json:"version"`
}

// Notification 通知汇聚点的事件
type Notification struct {
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	Description string    `json:"description,omitempty"`
	PlanID      string    `json:"planId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ImportCommit 确认导入时一次性写入的内容
type ImportCommit struct {
	AddRecords       []Record
	Knowledge        []KnowledgeItem
	ReplaceKnowledge bool
	Plans            []StudyPlan
	ReplacePlans     bool
	Settings         *Settings
}
