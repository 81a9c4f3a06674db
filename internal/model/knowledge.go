package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// KnowledgeItem 知识点笔记，除 id 和 module 外的字段原样保留
type KnowledgeItem struct {
	ID     string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Module string         `gorm:"size:64;index;not null" json:"module"`
	Extra  datatypes.JSON `gorm:"type:json" json:"-"`
}

func (KnowledgeItem) TableName() string {
	return "knowledge_items"
}

// Fields 返回自由字段
func (k KnowledgeItem) Fields() map[string]any {
	fields := map[string]any{}
	if len(k.Extra) > 0 {
		_ = json.Unmarshal(k.Extra, &fields)
	}
	return fields
}

// MarshalJSON 将自由字段展开到顶层
func (k KnowledgeItem) MarshalJSON() ([]byte, error) {
	out := k.Fields()
	out["id"] = k.ID
	out["module"] = k.Module
	return json.Marshal(out)
}

func (k *KnowledgeItem) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	item, err := KnowledgeItemFromMap(raw)
	if err != nil {
		return err
	}
	*k = item
	return nil
}

// KnowledgeItemFromMap 拆分 id、module 与自由字段；非字符串的 id 视为缺失
func KnowledgeItemFromMap(raw map[string]any) (KnowledgeItem, error) {
	var item KnowledgeItem
	extra := make(map[string]any, len(raw))
	for k, v := range raw {
		switch k {
		case "id":
			if s, ok := v.(string); ok {
				item.ID = s
			}
		case "module":
			if s, ok := v.(string); ok {
				item.Module = s
			}
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		b, err := json.Marshal(extra)
		if err != nil {
			return item, err
		}
		item.Extra = datatypes.JSON(b)
	}
	return item, nil
}
