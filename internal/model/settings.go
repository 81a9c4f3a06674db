package model

import (
	"strconv"
	"strings"
)

// 允许导入导出的设置键
const (
	SettingNavMode      = "navMode"
	SettingEyeCare      = "eyeCare"
	SettingNotification = "notification"
	SettingPageSize     = "pageSize"
	SettingTheme        = "theme"
)

// SettingKeys 设置白名单
var SettingKeys = []string{SettingNavMode, SettingEyeCare, SettingNotification, SettingPageSize, SettingTheme}

// Settings 用户界面设置，单行存储
type Settings struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	NavMode      string `gorm:"size:32" json:"navMode"`
	EyeCare      bool   `json:"eyeCare"`
	Notification bool   `json:"notification"`
	PageSize     int    `json:"pageSize"`
	Theme        string `gorm:"size:32" json:"theme"`
}

func (Settings) TableName() string {
	return "user_settings"
}

// Apply 将白名单内的字符串值写入设置，无法解析的值保持原状，返回实际生效的键
func (s *Settings) Apply(values map[string]string) []string {
	var applied []string
	for _, key := range SettingKeys {
		raw, ok := values[key]
		if !ok {
			continue
		}
		raw = strings.Trim(strings.TrimSpace(raw), `"`)
		switch key {
		case SettingNavMode:
			if raw == "" {
				continue
			}
			s.NavMode = raw
		case SettingEyeCare, SettingNotification:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				continue
			}
			if key == SettingEyeCare {
				s.EyeCare = b
			} else {
				s.Notification = b
			}
		case SettingPageSize:
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				continue
			}
			s.PageSize = n
		case SettingTheme:
			if raw == "" {
				continue
			}
			s.Theme = raw
		}
		applied = append(applied, key)
	}
	return applied
}

// Values 以字符串映射导出，用于导出文件
func (s Settings) Values() map[string]string {
	return map[string]string{
		SettingNavMode:      s.NavMode,
		SettingEyeCare:      strconv.FormatBool(s.EyeCare),
		SettingNotification: strconv.FormatBool(s.Notification),
		SettingPageSize:     strconv.Itoa(s.PageSize),
		SettingTheme:        s.Theme,
	}
}
