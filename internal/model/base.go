package model

import "github.com/google/uuid"

// GenerateUUID 计划、知识点与待确认导入使用的字符串 ID
func GenerateUUID() string {
	return uuid.New().String()
}
