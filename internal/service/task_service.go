package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	rep "todoTracker/internal/repository"

	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

// ListTasks отдаёт все задачи в порядке отображения, фильтрация - забота клиента
func (s *TaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

// CreateTask нормализует ввод и ставит задачу в конец списка.
// sortOrder = max+1 читается и пишется двумя запросами без блокировки:
// параллельные создания могут получить одинаковый sortOrder, порядок тогда решает createdAt
func (s *TaskService) CreateTask(ctx context.Context, in CreateInput) (*task.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		logger.Info("Service: Пустое название задачи")
		return nil, NewValidationError("title", "Title is required")
	}

	newTask := &task.Task{
		Title:    title,
		Status:   createStatus(in.Status),
		Priority: createPriority(in.Priority),
	}
	newTask.Apply(task.WithDescription(strings.TrimSpace(in.Description)))

	if strings.TrimSpace(in.DueDate) != "" {
		due, err := task.ParseDueDate(in.DueDate)
		if err != nil {
			logger.Info("Service: Неверная дата", zap.String("due_date", in.DueDate))
			return nil, NewValidationError("dueDate", "Invalid due date")
		}
		newTask.Apply(task.WithDueDate(due))
	}

	maxOrder, err := s.repo.MaxSortOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	newTask.SortOrder = maxOrder + 1

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана",
		zap.Int64("task_id", newTask.ID),
		zap.Int("sort_order", newTask.SortOrder))
	return newTask, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id int64) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(id)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// UpdateTask меняет только переданные поля
func (s *TaskService) UpdateTask(ctx context.Context, id int64, in UpdateInput) (*task.Task, error) {
	options, err := in.Options()
	if err != nil {
		return nil, err
	}

	t, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Apply(options...)

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача удалена во время обновления", zap.Int64("target_id", id))
			return nil, NewNotFound(id)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return NewNotFound(id)
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	logger.Info("Service: Задача удалена", zap.Int64("task_id", id))
	return nil
}

// ReorderTasks присваивает sortOrder = позиция в списке (с 1) одной транзакцией.
// Задачи, не попавшие в список, сохраняют свой sortOrder
func (s *TaskService) ReorderTasks(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return NewValidationError("ids", "No ids provided")
	}

	if err := s.repo.Reorder(ctx, ids); err != nil {
		logger.Warn("Service: Изменение порядка отменено", zap.Error(err), zap.Int("count", len(ids)))
		return NewReorderFailed(err)
	}

	logger.Info("Service: Порядок задач изменён", zap.Int("count", len(ids)))
	return nil
}
