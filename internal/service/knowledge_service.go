package service

import (
	"context"
	"exam_tracker_backend/internal/model"
)

type KnowledgeService struct {
	store KnowledgeStore
}

func NewKnowledgeService(store KnowledgeStore) *KnowledgeService {
	return &KnowledgeService{store: store}
}

func (s *KnowledgeService) List(ctx context.Context, module string) ([]model.KnowledgeItem, error) {
	if module == "" {
		return s.store.All(ctx)
	}
	return s.store.ListByModule(ctx, NormalizeModule(module))
}

// Create 科目必填，其余字段原样保存
func (s *KnowledgeService) Create(ctx context.Context, raw map[string]any) (*model.KnowledgeItem, error) {
	item, err := model.KnowledgeItemFromMap(raw)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	item.Module = NormalizeModule(item.Module)
	if item.Module == "" {
		return nil, &ValidationError{Field: "module", Message: "科目不能为空"}
	}
	if item.ID == "" {
		item.ID = model.GenerateUUID()
	}
	if err := s.store.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *KnowledgeService) Delete(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrKnowledgeNotFound
	}
	return nil
}
