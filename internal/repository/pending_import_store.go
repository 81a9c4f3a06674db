package repository

import (
	"context"
	"encoding/json"
	"errors"
	"exam_tracker_backend/internal/model"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const pendingImportKeyPrefix = "exam_tracker:pending_import:"

// RedisPendingImportStore 待确认导入存放在 Redis，过期后自动丢弃
type RedisPendingImportStore struct {
	Redis *redis.Client
}

func NewRedisPendingImportStore(rdb *redis.Client) *RedisPendingImportStore {
	return &RedisPendingImportStore{Redis: rdb}
}

func (s *RedisPendingImportStore) Save(ctx context.Context, bundle *model.ImportBundle, ttl time.Duration) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, pendingImportKeyPrefix+bundle.ID, data, ttl).Err()
}

func (s *RedisPendingImportStore) Get(ctx context.Context, id string) (*model.ImportBundle, error) {
	data, err := s.Redis.Get(ctx, pendingImportKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var bundle model.ImportBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Take 在同一事务中读取并删除，同一导入只能被取走一次
func (s *RedisPendingImportStore) Take(ctx context.Context, id string) (*model.ImportBundle, error) {
	key := pendingImportKeyPrefix + id
	var get *redis.StringCmd
	_, err := s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.Get(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := get.Bytes()
	if err != nil {
		return nil, err
	}
	var bundle model.ImportBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// MemoryPendingImportStore 未启用 Redis 时使用的进程内实现
type MemoryPendingImportStore struct {
	mu      sync.Mutex
	bundles map[string]pendingEntry
	now     func() time.Time
}

type pendingEntry struct {
	bundle    *model.ImportBundle
	expiresAt time.Time
}

func NewMemoryPendingImportStore() *MemoryPendingImportStore {
	return &MemoryPendingImportStore{
		bundles: make(map[string]pendingEntry),
		now:     time.Now,
	}
}

func (s *MemoryPendingImportStore) Save(ctx context.Context, bundle *model.ImportBundle, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	s.bundles[bundle.ID] = pendingEntry{bundle: bundle, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryPendingImportStore) Get(ctx context.Context, id string) (*model.ImportBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	entry, ok := s.bundles[id]
	if !ok {
		return nil, nil
	}
	return entry.bundle, nil
}

func (s *MemoryPendingImportStore) Take(ctx context.Context, id string) (*model.ImportBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	entry, ok := s.bundles[id]
	if !ok {
		return nil, nil
	}
	delete(s.bundles, id)
	return entry.bundle, nil
}

func (s *MemoryPendingImportStore) evictExpired() {
	now := s.now()
	for id, entry := range s.bundles {
		if now.After(entry.expiresAt) {
			delete(s.bundles, id)
		}
	}
}
