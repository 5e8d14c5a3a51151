package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	repo "todoTracker/internal/repository"
)

type TaskStorage struct {
	storage map[int64]*task.Task
	mtx     *sync.RWMutex
	lastID  int64
	now     func() time.Time
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		mtx:     &sync.RWMutex{},
		now:     time.Now,
	}
}

// NewTaskStorageWithClock нужен тестам, которым важны метки времени
func NewTaskStorageWithClock(now func() time.Time) *TaskStorage {
	s := NewTaskStorage()
	s.now = now
	return s
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

// наружу отдаём только копии, чтобы вызывающий код не менял хранилище в обход Update
func (s *TaskStorage) List(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.storage))
	for _, t := range s.storage {
		res = append(res, t.Clone())
	}
	task.SortTasks(res)
	return res, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

func (s *TaskStorage) MaxSortOrder(ctx context.Context) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	max := 0
	for _, t := range s.storage {
		if t.SortOrder > max {
			max = t.SortOrder
		}
	}
	return max, nil
}

// id растут монотонно и не переиспользуются после удаления
func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.lastID++
	now := s.now()
	taskToCreate.ID = s.lastID
	taskToCreate.CreatedAt = now
	taskToCreate.UpdatedAt = now

	s.storage[taskToCreate.ID] = taskToCreate.Clone()
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[taskToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}

	// порядок меняет только Reorder
	taskToUpdate.SortOrder = existing.SortOrder
	taskToUpdate.CreatedAt = existing.CreatedAt
	taskToUpdate.UpdatedAt = s.now()
	s.storage[taskToUpdate.ID] = taskToUpdate.Clone()
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	return nil
}

// сначала проверяем все id, потом пишем: либо меняются все, либо ни одна
func (s *TaskStorage) Reorder(ctx context.Context, ids []int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, id := range ids {
		if _, ok := s.storage[id]; !ok {
			return fmt.Errorf("изменение порядка, задача %d: %w", id, repo.ErrNotFound)
		}
	}

	now := s.now()
	for ind, id := range ids {
		t := s.storage[id]
		t.SortOrder = ind + 1
		t.UpdatedAt = now
	}
	return nil
}
