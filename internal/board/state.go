package board

import (
	"sort"
	"strings"
	"todoTracker/internal/models/task"
)

// тексты ошибок, которые видит пользователь
const (
	MsgLoadFailed      = "Failed to load tasks"
	MsgCreateFailed    = "Failed to create task"
	MsgCreateNetwork   = "Could not create task"
	MsgUpdateFailed    = "Could not update task"
	MsgDeleteFailed    = "Could not delete task"
	MsgReorderFailed   = "Could not reorder tasks"
	MsgTitleIsRequired = "Title is required"
)

// Form - поля формы создания и буфер редактирования
type Form struct {
	Title       string
	Description string
	DueDate     string // 2006-01-02 или пусто
	Priority    task.Priority
}

func NewForm() Form {
	return Form{Priority: task.PriorityMedium}
}

// State - всё, что показывает доска. Переходы ниже не меняют получателя и возвращают новое состояние
type State struct {
	Tasks     []task.Task
	Filter    Filter
	EditingID int64 // 0 - ничего не редактируется
	Edit      Form
	Form      Form
	Loading   bool
	Err       string
}

func NewState() State {
	return State{
		Filter: FilterAll,
		Form:   NewForm(),
		Edit:   NewForm(),
	}
}

func (s State) cloneTasks() []task.Task {
	return append([]task.Task(nil), s.Tasks...)
}

func (s State) LoadStarted() State {
	s.Loading = true
	return s
}

func (s State) Loaded(tasks []task.Task) State {
	s.Tasks = append([]task.Task(nil), tasks...)
	s.Loading = false
	return s
}

// при ошибке загрузки список пуст
func (s State) LoadFailed(message string) State {
	s.Tasks = nil
	s.Loading = false
	s.Err = message
	return s
}

func (s State) WithError(message string) State {
	s.Err = message
	return s
}

func (s State) WithFilter(f Filter) State {
	s.Filter = f
	return s
}

func (s State) WithForm(f Form) State {
	s.Form = f
	return s
}

func (s State) WithEdit(f Form) State {
	s.Edit = f
	return s
}

// Created добавляет задачу от сервера и пересортировывает весь список, как это делает сервер
func (s State) Created(t task.Task) State {
	tasks := append(s.cloneTasks(), t)
	sortTasks(tasks)
	s.Tasks = tasks
	s.Form = NewForm()
	s.Err = ""
	return s
}

// Replaced подменяет задачу на месте; позиция в списке не меняется
func (s State) Replaced(t task.Task) State {
	tasks := s.cloneTasks()
	for i := range tasks {
		if tasks[i].ID == t.ID {
			tasks[i] = t
		}
	}
	s.Tasks = tasks
	return s
}

func (s State) Removed(id int64) State {
	tasks := make([]task.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ID != id {
			tasks = append(tasks, t)
		}
	}
	s.Tasks = tasks
	if s.EditingID == id {
		s.EditingID = 0
	}
	return s
}

// StartEdit заполняет буфер текущими значениями; дата обрезается до дня
func (s State) StartEdit(id int64) State {
	t, ok := s.Find(id)
	if !ok {
		return s
	}
	s.Err = ""
	s.EditingID = id
	s.Edit = Form{
		Title:    t.Title,
		Priority: t.Priority,
	}
	if t.Description != nil {
		s.Edit.Description = *t.Description
	}
	if t.DueDate != nil {
		s.Edit.DueDate = task.DayKey(*t.DueDate)
	}
	return s
}

func (s State) CancelEdit() State {
	s.EditingID = 0
	s.Err = ""
	return s
}

// Saved применяет ответ сервера и выходит из режима редактирования
func (s State) Saved(t task.Task) State {
	s = s.Replaced(t)
	s.EditingID = 0
	return s
}

// Moved переносит activeID на место overID, остальные сохраняют относительный порядок.
// false - перенос невозможен или ничего не меняет
func (s State) Moved(activeID, overID int64) (State, bool) {
	if activeID == overID {
		return s, false
	}
	from, to := s.indexOf(activeID), s.indexOf(overID)
	if from == -1 || to == -1 {
		return s, false
	}
	s.Tasks = arrayMove(s.Tasks, from, to)
	// сервер при reorder выставляет sortOrder = позиция+1; повторяем локально,
	// иначе пересортировка после создания вернёт старый порядок
	for i := range s.Tasks {
		s.Tasks[i].SortOrder = i + 1
	}
	return s, true
}

func (s State) Find(id int64) (task.Task, bool) {
	if i := s.indexOf(id); i != -1 {
		return s.Tasks[i], true
	}
	return task.Task{}, false
}

func (s State) IDs() []int64 {
	ids := make([]int64, len(s.Tasks))
	for i, t := range s.Tasks {
		ids[i] = t.ID
	}
	return ids
}

func (s State) indexOf(id int64) int {
	for i, t := range s.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func arrayMove(tasks []task.Task, from, to int) []task.Task {
	res := append([]task.Task(nil), tasks...)
	moved := res[from]
	res = append(res[:from], res[from+1:]...)
	res = append(res[:to], append([]task.Task{moved}, res[to:]...)...)
	return res
}

func sortTasks(tasks []task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return task.Less(&tasks[i], &tasks[j])
	})
}

func trimmed(f Form) Form {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.DueDate = strings.TrimSpace(f.DueDate)
	return f
}
