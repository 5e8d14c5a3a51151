package cache

import (
	"context"
	"errors"
	"testing"
	"time"
	"todoTracker/internal/models/task"
	"todoTracker/internal/repository/task/inmemory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBackend считает обращения к List поверх настоящего хранилища
type countingBackend struct {
	*inmemory.TaskStorage
	listCalls int
	listErr   error
}

func (b *countingBackend) List(ctx context.Context) ([]*task.Task, error) {
	b.listCalls++
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.TaskStorage.List(ctx)
}

func setup(t *testing.T, ttl time.Duration) (*TaskCache, *countingBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	base := &countingBackend{TaskStorage: inmemory.NewTaskStorage()}
	return New(base, client, ttl), base, mr
}

func createTask(t *testing.T, c *TaskCache, title string, sortOrder int) *task.Task {
	t.Helper()
	tk := &task.Task{Title: title, Status: task.StatusTodo, Priority: task.PriorityMedium, SortOrder: sortOrder}
	require.NoError(t, c.Create(context.Background(), tk))
	return tk
}

// TestTaskCache_ListMissThenHit тестирует чтение через кэш
func TestTaskCache_ListMissThenHit(t *testing.T) {
	ctx := context.Background()
	c, base, mr := setup(t, time.Minute)
	createTask(t, c, "a", 1)

	first, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, base.listCalls)

	ttl := mr.TTL(listCacheKey)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "неожиданный TTL %v", ttl)

	second, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, base.listCalls, "второе чтение из кэша")
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].Title, second[0].Title)
}

// TestTaskCache_WritesEvict тестирует сброс кэша любой записью
func TestTaskCache_WritesEvict(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		write func(t *testing.T, c *TaskCache, a, b *task.Task)
	}{
		{
			name: "create",
			write: func(t *testing.T, c *TaskCache, a, b *task.Task) {
				createTask(t, c, "c", 3)
			},
		},
		{
			name: "update",
			write: func(t *testing.T, c *TaskCache, a, b *task.Task) {
				a.Title = "изменено"
				require.NoError(t, c.Update(ctx, a))
			},
		},
		{
			name: "delete",
			write: func(t *testing.T, c *TaskCache, a, b *task.Task) {
				require.NoError(t, c.Delete(ctx, a.ID))
			},
		},
		{
			name: "reorder",
			write: func(t *testing.T, c *TaskCache, a, b *task.Task) {
				require.NoError(t, c.Reorder(ctx, []int64{b.ID, a.ID}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, base, mr := setup(t, time.Minute)
			a := createTask(t, c, "a", 1)
			b := createTask(t, c, "b", 2)

			_, err := c.List(ctx)
			require.NoError(t, err)
			require.True(t, mr.Exists(listCacheKey))

			tt.write(t, c, a, b)
			assert.False(t, mr.Exists(listCacheKey))

			_, err = c.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, base.listCalls)
		})
	}
}

// TestTaskCache_FailedWriteKeepsCache тестирует, что ошибка записи не сбрасывает кэш
func TestTaskCache_FailedWriteKeepsCache(t *testing.T) {
	ctx := context.Background()
	c, _, mr := setup(t, time.Minute)
	createTask(t, c, "a", 1)

	_, err := c.List(ctx)
	require.NoError(t, err)

	assert.Error(t, c.Delete(ctx, 999))
	assert.Error(t, c.Reorder(ctx, []int64{999}))
	assert.True(t, mr.Exists(listCacheKey))
}

// TestTaskCache_RedisDown тестирует деградацию до базового хранилища
func TestTaskCache_RedisDown(t *testing.T) {
	ctx := context.Background()
	c, base, mr := setup(t, time.Minute)
	createTask(t, c, "a", 1)

	mr.Close()

	tasks, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, 1, base.listCalls)

	createTask(t, c, "b", 2)
	assert.NoError(t, c.HealthCheck(ctx))
}

func TestTaskCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, base, mr := setup(t, time.Minute)
	createTask(t, c, "a", 1)

	require.NoError(t, mr.Set(listCacheKey, "{not json"))

	tasks, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, 1, base.listCalls)
}

func TestTaskCache_BaseErrorNotCached(t *testing.T) {
	ctx := context.Background()
	c, base, mr := setup(t, time.Minute)
	base.listErr = errors.New("db down")

	_, err := c.List(ctx)
	assert.Error(t, err)
	assert.False(t, mr.Exists(listCacheKey))
}

func TestTaskCache_ZeroTTLDisablesStore(t *testing.T) {
	ctx := context.Background()
	c, base, mr := setup(t, 0)
	createTask(t, c, "a", 1)

	_, err := c.List(ctx)
	require.NoError(t, err)
	_, err = c.List(ctx)
	require.NoError(t, err)

	assert.False(t, mr.Exists(listCacheKey))
	assert.Equal(t, 2, base.listCalls)
}

func TestTaskCache_NilRedis(t *testing.T) {
	ctx := context.Background()
	c := New(inmemory.NewTaskStorage(), nil, time.Minute)
	createTask(t, c, "a", 1)

	tasks, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.NoError(t, c.HealthCheck(ctx))
}
