package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const listCacheKey = "todos:list"

type backend interface {
	HealthCheck(ctx context.Context) error
	List(ctx context.Context) ([]*task.Task, error)
	GetByID(ctx context.Context, id int64) (*task.Task, error)
	MaxSortOrder(ctx context.Context) (int, error)
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, t *task.Task) error
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, ids []int64) error
}

// TaskCache кэширует полный упорядоченный список в Redis и сбрасывает его при любой записи.
// Ошибки Redis никогда не ломают запрос: читаем из базового хранилища
type TaskCache struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration
}

func New(base backend, client *redis.Client, ttl time.Duration) *TaskCache {
	if base == nil {
		panic("cache.New: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &TaskCache{
		base:  base,
		redis: client,
		ttl:   ttl,
	}
}

func (c *TaskCache) HealthCheck(ctx context.Context) error {
	if err := c.base.HealthCheck(ctx); err != nil {
		return err
	}
	if c.redis != nil {
		if err := c.redis.Ping(ctx).Err(); err != nil {
			logger.Warn("Cache: Redis недоступен, работаем без кэша", zap.Error(err))
		}
	}
	return nil
}

func (c *TaskCache) List(ctx context.Context) ([]*task.Task, error) {
	if tasks, ok := c.load(ctx); ok {
		return tasks, nil
	}

	tasks, err := c.base.List(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, tasks)
	return tasks, nil
}

func (c *TaskCache) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	return c.base.GetByID(ctx, id)
}

// максимум читаем всегда из базы, кэш не должен влиять на выдачу sortOrder
func (c *TaskCache) MaxSortOrder(ctx context.Context) (int, error) {
	return c.base.MaxSortOrder(ctx)
}

func (c *TaskCache) Create(ctx context.Context, t *task.Task) error {
	if err := c.base.Create(ctx, t); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *TaskCache) Update(ctx context.Context, t *task.Task) error {
	if err := c.base.Update(ctx, t); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *TaskCache) Delete(ctx context.Context, id int64) error {
	if err := c.base.Delete(ctx, id); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *TaskCache) Reorder(ctx context.Context, ids []int64) error {
	if err := c.base.Reorder(ctx, ids); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *TaskCache) load(ctx context.Context) ([]*task.Task, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Cache: Ошибка чтения из Redis", zap.Error(err))
			_ = c.redis.Del(ctx, listCacheKey).Err()
		}
		return nil, false
	}

	var tasks []*task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		_ = c.redis.Del(ctx, listCacheKey).Err()
		return nil, false
	}
	return tasks, true
}

func (c *TaskCache) store(ctx context.Context, tasks []*task.Task) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, listCacheKey, data, c.ttl).Err(); err != nil {
		logger.Warn("Cache: Ошибка записи в Redis", zap.Error(err))
	}
}

func (c *TaskCache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, listCacheKey).Err(); err != nil {
		logger.Warn("Cache: Ошибка сброса кэша", zap.Error(err))
	}
}
