package board

import (
	"testing"
	"time"
	"todoTracker/internal/models/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func mk(id int64, title string, sortOrder int) task.Task {
	return task.Task{
		ID:        id,
		Title:     title,
		Status:    task.StatusTodo,
		Priority:  task.PriorityMedium,
		SortOrder: sortOrder,
		CreatedAt: base.Add(time.Duration(id) * time.Minute),
	}
}

func due(t task.Task, d time.Time) task.Task {
	t.DueDate = &d
	return t
}

func ids(tasks []task.Task) []int64 {
	res := make([]int64, len(tasks))
	for i, t := range tasks {
		res[i] = t.ID
	}
	return res
}

// TestState_Created тестирует пересортировку после создания
func TestState_Created(t *testing.T) {
	s := NewState().Loaded([]task.Task{mk(1, "a", 1), mk(2, "b", 3)})
	s.Form = Form{Title: "x", Description: "y", DueDate: "2024-06-01", Priority: task.PriorityHigh}
	s.Err = "старая ошибка"

	// дубль sortOrder после гонки создания: новая задача выше по createdAt
	next := s.Created(mk(3, "c", 1))

	assert.Equal(t, []int64{3, 1, 2}, ids(next.Tasks))
	assert.Equal(t, NewForm(), next.Form, "форма сброшена, приоритет medium")
	assert.Empty(t, next.Err)
	assert.Equal(t, []int64{1, 2}, ids(s.Tasks), "исходное состояние не меняется")
}

func TestState_ReplacedAndRemoved(t *testing.T) {
	s := NewState().Loaded([]task.Task{mk(1, "a", 1), mk(2, "b", 2), mk(3, "c", 3)})

	changed := mk(2, "b2", 99)
	changed.Status = task.StatusDone
	next := s.Replaced(changed)
	assert.Equal(t, []int64{1, 2, 3}, ids(next.Tasks), "позиция не меняется")
	assert.Equal(t, "b2", next.Tasks[1].Title)
	assert.Equal(t, "b", s.Tasks[1].Title)

	next = next.Removed(2)
	assert.Equal(t, []int64{1, 3}, ids(next.Tasks))

	assert.Equal(t, []int64{1, 3}, ids(next.Removed(42).Tasks))
}

// TestState_EditFlow тестирует буфер редактирования
func TestState_EditFlow(t *testing.T) {
	desc := "описание"
	withAll := due(mk(1, "a", 1), time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	withAll.Description = &desc
	withAll.Priority = task.PriorityHigh

	s := NewState().Loaded([]task.Task{withAll, mk(2, "b", 2)}).WithError("ошибка")

	editing := s.StartEdit(1)
	assert.Equal(t, int64(1), editing.EditingID)
	assert.Equal(t, Form{Title: "a", Description: "описание", DueDate: "2024-06-15", Priority: task.PriorityHigh}, editing.Edit)
	assert.Empty(t, editing.Err)

	// второй старт переключает редактирование
	other := editing.StartEdit(2)
	assert.Equal(t, int64(2), other.EditingID)
	assert.Equal(t, Form{Title: "b", Priority: task.PriorityMedium}, other.Edit)

	assert.Equal(t, editing, editing.StartEdit(404), "неизвестный id ничего не меняет")

	cancelled := editing.WithError("x").CancelEdit()
	assert.Zero(t, cancelled.EditingID)
	assert.Empty(t, cancelled.Err)

	saved := editing.Saved(mk(1, "новое", 1))
	assert.Zero(t, saved.EditingID)
	assert.Equal(t, "новое", saved.Tasks[0].Title)

	assert.Zero(t, editing.Removed(1).EditingID, "удаление редактируемой задачи выходит из режима")
}

// TestState_Moved тестирует перенос одного элемента
func TestState_Moved(t *testing.T) {
	s := NewState().Loaded([]task.Task{mk(1, "a", 1), mk(2, "b", 2), mk(3, "c", 3), mk(4, "d", 4)})

	tests := []struct {
		name   string
		active int64
		over   int64
		want   []int64
		moved  bool
	}{
		{name: "down", active: 1, over: 3, want: []int64{2, 3, 1, 4}, moved: true},
		{name: "up", active: 4, over: 2, want: []int64{1, 4, 2, 3}, moved: true},
		{name: "to end", active: 1, over: 4, want: []int64{2, 3, 4, 1}, moved: true},
		{name: "to start", active: 3, over: 1, want: []int64{3, 1, 2, 4}, moved: true},
		{name: "same place", active: 2, over: 2, want: []int64{1, 2, 3, 4}},
		{name: "unknown active", active: 9, over: 2, want: []int64{1, 2, 3, 4}},
		{name: "unknown over", active: 2, over: 9, want: []int64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, moved := s.Moved(tt.active, tt.over)
			assert.Equal(t, tt.moved, moved)
			assert.Equal(t, tt.want, ids(next.Tasks))
			assert.Equal(t, []int64{1, 2, 3, 4}, ids(s.Tasks))
			for i, tk := range next.Tasks {
				assert.Equal(t, i+1, tk.SortOrder)
			}
		})
	}
}

// TestState_MovedSurvivesCreate тестирует, что пересортировка после создания не откатывает перенос
func TestState_MovedSurvivesCreate(t *testing.T) {
	s := NewState().Loaded([]task.Task{mk(1, "a", 1), mk(2, "b", 2), mk(3, "c", 3)})

	s, moved := s.Moved(3, 1)
	require.True(t, moved)
	s = s.Created(mk(4, "d", 4))

	assert.Equal(t, []int64{3, 1, 2, 4}, ids(s.Tasks))
}

func TestState_LoadFailed(t *testing.T) {
	s := NewState().Loaded([]task.Task{mk(1, "a", 1)}).LoadStarted()
	require.True(t, s.Loading)

	failed := s.LoadFailed(MsgLoadFailed)
	assert.False(t, failed.Loading)
	assert.Empty(t, failed.Tasks)
	assert.Equal(t, MsgLoadFailed, failed.Err)
}
