package task

import (
	"sort"
	"time"
)

type Task struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	Priority    Priority   `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"dueDate" db:"due_date"`
	SortOrder   int        `json:"sortOrder" db:"sort_order"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

type Status string
type Priority string

const StatusTodo Status = "todo"
const StatusDone Status = "done"

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

// ParseStatus принимает только значения из закрытого списка
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusTodo, StatusDone:
		return Status(s), true
	}
	return "", false
}

func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), true
	}
	return "", false
}

// Toggled возвращает противоположный статус
func (s Status) Toggled() Status {
	if s == StatusTodo {
		return StatusDone
	}
	return StatusTodo
}

func (t *Task) Clone() *Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

// Less задаёт порядок списка: sortOrder по возрастанию, при равенстве более новые выше
func Less(a, b *Task) bool {
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func SortTasks(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Less(tasks[i], tasks[j])
	})
}
