package service

import (
	"strings"
	"todoTracker/internal/models/task"
)

// CreateInput - поля формы создания в том виде, в котором пришли
type CreateInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     string
}

// UpdateInput - частичное обновление: nil означает, что поле не передавали
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
	// явный null в dueDate
	ClearDueDate bool
}

// Options переводит частичное обновление в опции задачи.
// Значения вне допустимых списков молча пропускаются, неразборчивая дата - ошибка валидации
func (in UpdateInput) Options() ([]task.TaskOption, error) {
	var options []task.TaskOption

	if in.Title != nil {
		options = append(options, task.WithTitle(strings.TrimSpace(*in.Title)))
	}
	if in.Description != nil {
		options = append(options, task.WithDescription(strings.TrimSpace(*in.Description)))
	}
	if in.Status != nil {
		options = append(options, task.WithStatus(*in.Status))
	}
	if in.Priority != nil {
		options = append(options, task.WithPriority(*in.Priority))
	}

	switch {
	case in.ClearDueDate:
		options = append(options, task.WithoutDueDate())
	case in.DueDate != nil && strings.TrimSpace(*in.DueDate) != "":
		due, err := task.ParseDueDate(*in.DueDate)
		if err != nil {
			return nil, NewValidationError("dueDate", "Invalid due date")
		}
		options = append(options, task.WithDueDate(due))
	}

	return options, nil
}

// при создании "medium" и мусор неотличимы: оба дают значение по умолчанию
func createPriority(p string) task.Priority {
	switch task.Priority(p) {
	case task.PriorityLow, task.PriorityHigh:
		return task.Priority(p)
	}
	return task.PriorityMedium
}

func createStatus(s string) task.Status {
	if status, ok := task.ParseStatus(s); ok {
		return status
	}
	return task.StatusTodo
}
