package util

import (
	"strconv"
)

// ParseInt64 解析路径参数中的记录 ID
func ParseInt64(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// QueryInt 解析查询参数，缺失或非法时返回 def
func QueryInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
