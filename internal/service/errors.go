package service

import (
	"errors"
	"fmt"
)

var (
	ErrPendingImportNotFound = errors.New("pending import not found or expired")
	ErrPlanNotFound          = errors.New("study plan not found")
	ErrRecordNotFound        = errors.New("record not found")
	ErrKnowledgeNotFound     = errors.New("knowledge item not found")
	ErrBackupNotFound        = errors.New("backup not found")
)

// ParseError 导入文件不是合法 JSON
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("导入文件格式错误，无法解析 JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError JSON 合法但不属于任何可接受的容器结构
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "导入文件结构不受支持: " + e.Reason
}

// ValidationError 计划或记录表单校验失败
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
