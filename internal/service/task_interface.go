package service

import (
	"context"
	"todoTracker/internal/models/task"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	List(context.Context) ([]*task.Task, error)
	GetByID(context.Context, int64) (*task.Task, error)
	MaxSortOrder(context.Context) (int, error)
	Create(context.Context, *task.Task) error
	Update(context.Context, *task.Task) error
	Delete(context.Context, int64) error
	Reorder(context.Context, []int64) error
}
