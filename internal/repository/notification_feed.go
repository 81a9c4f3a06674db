package repository

import (
	"context"
	"encoding/json"
	"exam_tracker_backend/internal/model"
	"sync"

	"github.com/go-redis/redis/v8"
)

const (
	notificationListKey = "exam_tracker:notifications"
	notificationKeep    = 100
)

// RedisNotificationFeed 最近通知保存在 Redis 列表中，最新的在表头
type RedisNotificationFeed struct {
	Redis *redis.Client
}

func NewRedisNotificationFeed(rdb *redis.Client) *RedisNotificationFeed {
	return &RedisNotificationFeed{Redis: rdb}
}

func (f *RedisNotificationFeed) Push(ctx context.Context, n model.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	pipe := f.Redis.TxPipeline()
	pipe.LPush(ctx, notificationListKey, data)
	pipe.LTrim(ctx, notificationListKey, 0, notificationKeep-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (f *RedisNotificationFeed) Recent(ctx context.Context, limit int) ([]model.Notification, error) {
	items, err := f.Redis.LRange(ctx, notificationListKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.Notification, 0, len(items))
	for _, item := range items {
		var n model.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// MemoryNotificationFeed 进程内实现
type MemoryNotificationFeed struct {
	mu    sync.Mutex
	items []model.Notification
}

func NewMemoryNotificationFeed() *MemoryNotificationFeed {
	return &MemoryNotificationFeed{}
}

func (f *MemoryNotificationFeed) Push(ctx context.Context, n model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]model.Notification{n}, f.items...)
	if len(f.items) > notificationKeep {
		f.items = f.items[:notificationKeep]
	}
	return nil
}

func (f *MemoryNotificationFeed) Recent(ctx context.Context, limit int) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.items) {
		limit = len(f.items)
	}
	return append([]model.Notification(nil), f.items[:limit]...), nil
}
