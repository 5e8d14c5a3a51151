package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
	"todoTracker/internal/models/task"
	"todoTracker/internal/repository"
	"todoTracker/internal/repository/task/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// управляемые часы: каждый вызов на секунду позже предыдущего
type stepClock struct {
	mtx  sync.Mutex
	now  time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), step: time.Second}
}

func (c *stepClock) Now() time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func newTask(title string, sortOrder int) *task.Task {
	return &task.Task{
		Title:     title,
		Status:    task.StatusTodo,
		Priority:  task.PriorityMedium,
		SortOrder: sortOrder,
	}
}

func titles(tasks []*task.Task) []string {
	res := make([]string, len(tasks))
	for i, t := range tasks {
		res[i] = t.Title
	}
	return res
}

// TestTaskStorage_HealthCheck тестирует проверку здоровья
func TestTaskStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

// TestTaskStorage_Create тестирует создание задачи
func TestTaskStorage_Create(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorageWithClock(newStepClock().Now)

	taskToCreate := newTask("Test Task", 1)
	require.NoError(t, storage.Create(ctx, taskToCreate))

	assert.Equal(t, int64(1), taskToCreate.ID)
	assert.False(t, taskToCreate.CreatedAt.IsZero())
	assert.Equal(t, taskToCreate.CreatedAt, taskToCreate.UpdatedAt)

	retrieved, err := storage.GetByID(ctx, taskToCreate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Task", retrieved.Title)
	assert.Equal(t, 1, retrieved.SortOrder)
}

// TestTaskStorage_IDsNotReused тестирует монотонность id после удаления
func TestTaskStorage_IDsNotReused(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	first := newTask("a", 1)
	second := newTask("b", 2)
	require.NoError(t, storage.Create(ctx, first))
	require.NoError(t, storage.Create(ctx, second))
	require.NoError(t, storage.Delete(ctx, second.ID))

	third := newTask("c", 2)
	require.NoError(t, storage.Create(ctx, third))
	assert.Equal(t, int64(3), third.ID)
}

// TestTaskStorage_GetByID тестирует получение задачи по ID
func TestTaskStorage_GetByID(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("a", 1)
	require.NoError(t, storage.Create(ctx, created))

	t.Run("found", func(t *testing.T) {
		got, err := storage.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := storage.GetByID(ctx, 999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("returns copy", func(t *testing.T) {
		got, err := storage.GetByID(ctx, created.ID)
		require.NoError(t, err)
		got.Title = "изменено снаружи"

		again, err := storage.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "a", again.Title)
	})
}

// TestTaskStorage_List тестирует порядок выдачи
func TestTaskStorage_List(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		tasks, err := inmemory.NewTaskStorage().List(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("sort order then newest first", func(t *testing.T) {
		storage := inmemory.NewTaskStorageWithClock(newStepClock().Now)
		require.NoError(t, storage.Create(ctx, newTask("старая-2", 2)))
		require.NoError(t, storage.Create(ctx, newTask("первая", 1)))
		require.NoError(t, storage.Create(ctx, newTask("новая-2", 2)))

		tasks, err := storage.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"первая", "новая-2", "старая-2"}, titles(tasks))
	})
}

// TestTaskStorage_MaxSortOrder тестирует вычисление максимума
func TestTaskStorage_MaxSortOrder(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	max, err := storage.MaxSortOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, max)

	require.NoError(t, storage.Create(ctx, newTask("a", 4)))
	require.NoError(t, storage.Create(ctx, newTask("b", 9)))

	max, err = storage.MaxSortOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, max)
}

// TestTaskStorage_Update тестирует обновление задачи
func TestTaskStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorageWithClock(newStepClock().Now)

	created := newTask("a", 1)
	require.NoError(t, storage.Create(ctx, created))

	t.Run("success", func(t *testing.T) {
		toUpdate, err := storage.GetByID(ctx, created.ID)
		require.NoError(t, err)
		toUpdate.Apply(task.WithTitle("b"), task.WithStatus("done"))

		require.NoError(t, storage.Update(ctx, toUpdate))

		got, err := storage.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "b", got.Title)
		assert.Equal(t, task.StatusDone, got.Status)
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
		assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	})

	t.Run("keeps sort order changed by reorder", func(t *testing.T) {
		stale, err := storage.GetByID(ctx, created.ID)
		require.NoError(t, err)

		other := newTask("другая", 2)
		require.NoError(t, storage.Create(ctx, other))
		require.NoError(t, storage.Reorder(ctx, []int64{other.ID, created.ID}))

		stale.Apply(task.WithTitle("c"))
		require.NoError(t, storage.Update(ctx, stale))
		assert.Equal(t, 2, stale.SortOrder)

		got, err := storage.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "c", got.Title)
		assert.Equal(t, 2, got.SortOrder)
	})

	t.Run("not found", func(t *testing.T) {
		err := storage.Update(ctx, &task.Task{ID: 404, Title: "x"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

// TestTaskStorage_Delete тестирует жёсткое удаление
func TestTaskStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("a", 1)
	require.NoError(t, storage.Create(ctx, created))

	require.NoError(t, storage.Delete(ctx, created.ID))
	_, err := storage.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// второй раз - NotFound
	assert.ErrorIs(t, storage.Delete(ctx, created.ID), repository.ErrNotFound)
}

// TestTaskStorage_Reorder тестирует перестановку
func TestTaskStorage_Reorder(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *inmemory.TaskStorage {
		storage := inmemory.NewTaskStorageWithClock(newStepClock().Now)
		for i, title := range []string{"a", "b", "c"} {
			require.NoError(t, storage.Create(ctx, newTask(title, i+1)))
		}
		return storage
	}

	t.Run("full permutation", func(t *testing.T) {
		storage := setup(t)
		require.NoError(t, storage.Reorder(ctx, []int64{3, 1, 2}))

		tasks, err := storage.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a", "b"}, titles(tasks))
		for i, tk := range tasks {
			assert.Equal(t, i+1, tk.SortOrder)
		}
	})

	t.Run("subset keeps others", func(t *testing.T) {
		storage := setup(t)
		require.NoError(t, storage.Reorder(ctx, []int64{3, 2}))

		a, err := storage.GetByID(ctx, 1)
		require.NoError(t, err)
		c, err := storage.GetByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, 1, a.SortOrder, "не попавшая в список задача сохраняет порядок")
		assert.Equal(t, 1, c.SortOrder)
	})

	t.Run("unknown id changes nothing", func(t *testing.T) {
		storage := setup(t)
		before, err := storage.List(ctx)
		require.NoError(t, err)

		err = storage.Reorder(ctx, []int64{3, 99, 1})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		after, err := storage.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

// TestTaskStorage_Concurrency тестирует параллельный доступ
func TestTaskStorage_Concurrency(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, storage.Create(ctx, newTask(fmt.Sprintf("task-%d", i), i)))
			_, err := storage.List(ctx)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	tasks, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 50)

	seen := make(map[int64]bool, len(tasks))
	for _, tk := range tasks {
		assert.False(t, seen[tk.ID], "id %d выдан дважды", tk.ID)
		seen[tk.ID] = true
	}
}
