package tui

import (
	"todoTracker/internal/board"
	"todoTracker/internal/models/task"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDueDate
	fieldPriority
	fieldCount
)

var priorities = []task.Priority{task.PriorityLow, task.PriorityMedium, task.PriorityHigh}

// form - поля создания и редактирования; приоритет выбирается стрелками
type form struct {
	inputs   []textinput.Model
	priority task.Priority
	field    int
}

func newForm() form {
	inputs := make([]textinput.Model, fieldPriority)

	inputs[fieldTitle] = textinput.New()
	inputs[fieldTitle].Placeholder = "Title"
	inputs[fieldTitle].CharLimit = 200

	inputs[fieldDescription] = textinput.New()
	inputs[fieldDescription].Placeholder = "Description"
	inputs[fieldDescription].CharLimit = 1000

	inputs[fieldDueDate] = textinput.New()
	inputs[fieldDueDate].Placeholder = "YYYY-MM-DD"
	inputs[fieldDueDate].CharLimit = 10

	for i := range inputs {
		inputs[i].Prompt = ""
		inputs[i].Width = 40
	}

	return form{inputs: inputs, priority: task.PriorityMedium}
}

// fill переносит значения в поля и ставит фокус на название
func (f *form) fill(v board.Form) tea.Cmd {
	f.inputs[fieldTitle].SetValue(v.Title)
	f.inputs[fieldDescription].SetValue(v.Description)
	f.inputs[fieldDueDate].SetValue(v.DueDate)
	f.priority = v.Priority
	if f.priority == "" {
		f.priority = task.PriorityMedium
	}
	return f.focus(fieldTitle)
}

func (f *form) value() board.Form {
	return board.Form{
		Title:       f.inputs[fieldTitle].Value(),
		Description: f.inputs[fieldDescription].Value(),
		DueDate:     f.inputs[fieldDueDate].Value(),
		Priority:    f.priority,
	}
}

func (f *form) focus(field int) tea.Cmd {
	f.field = (field + fieldCount) % fieldCount
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.field {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f *form) cyclePriority(delta int) {
	idx := 0
	for i, p := range priorities {
		if p == f.priority {
			idx = i
		}
	}
	f.priority = priorities[(idx+delta+len(priorities))%len(priorities)]
}

// update передаёт клавишу полю в фокусе
func (f *form) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		return f.focus(f.field + 1)
	case "shift+tab", "up":
		return f.focus(f.field - 1)
	}

	if f.field == fieldPriority {
		switch msg.String() {
		case "left", "h":
			f.cyclePriority(-1)
		case "right", "l", " ":
			f.cyclePriority(1)
		}
		return nil
	}

	var cmd tea.Cmd
	f.inputs[f.field], cmd = f.inputs[f.field].Update(msg)
	return cmd
}
