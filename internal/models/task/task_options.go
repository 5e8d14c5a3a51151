package task

import (
	"time"
)

// TaskOption - частичное изменение задачи.
// Конструкторы возвращают nil, если значение не проходит проверку: такое поле остаётся как было
type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

// пустое описание хранится как отсутствующее
func WithDescription(description string) TaskOption {
	return func(task *Task) {
		if description == "" {
			task.Description = nil
			return
		}
		d := description
		task.Description = &d
	}
}

func WithStatus(status string) TaskOption {
	parsed, ok := ParseStatus(status)
	if !ok {
		return nil
	}
	return func(task *Task) {
		task.Status = parsed
	}
}

func WithPriority(priority string) TaskOption {
	parsed, ok := ParsePriority(priority)
	if !ok {
		return nil
	}
	return func(task *Task) {
		task.Priority = parsed
	}
}

func WithDueDate(dueDate time.Time) TaskOption {
	if dueDate.IsZero() {
		return nil
	}
	return func(task *Task) {
		d := dueDate
		task.DueDate = &d
	}
}

func WithoutDueDate() TaskOption {
	return func(task *Task) {
		task.DueDate = nil
	}
}

// Apply применяет опции по порядку, пропуская nil
func (t *Task) Apply(options ...TaskOption) {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
}
