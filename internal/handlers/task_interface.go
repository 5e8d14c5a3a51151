package handlers

import (
	"context"
	"todoTracker/internal/models/task"
	"todoTracker/internal/service"
)

type Service interface {
	HealthCheck(context.Context) error
	ListTasks(context.Context) ([]*task.Task, error)
	CreateTask(context.Context, service.CreateInput) (*task.Task, error)
	UpdateTask(context.Context, int64, service.UpdateInput) (*task.Task, error)
	DeleteTask(context.Context, int64) error
	ReorderTasks(context.Context, []int64) error
}
