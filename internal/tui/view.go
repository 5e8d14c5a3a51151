package tui

import (
	"fmt"
	"strings"
	"time"
	"todoTracker/internal/board"
	"todoTracker/internal/models/task"
	"todoTracker/internal/timer"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	st := m.board.State()
	now := m.now()

	sections := []string{
		titleStyle.Render("Todo Tracker"),
		m.viewFilters(st.Filter),
	}
	if st.Err != "" {
		sections = append(sections, errorStyle.Render(st.Err))
	}

	switch m.mode {
	case modeCreate:
		sections = append(sections, m.viewForm("New task"))
	case modeEdit:
		sections = append(sections, m.viewForm("Edit task"))
	default:
		sections = append(sections, m.viewList(st, now))
	}

	if m.calendar != "" {
		sections = append(sections, m.viewCalendar(st.Tasks, now))
	}
	sections = append(sections, m.viewTimer(m.timer.Timer()), m.viewHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m *Model) viewFilters(active board.Filter) string {
	tabs := make([]string, 0, len(board.Filters))
	for i, f := range board.Filters {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if f == active {
			tabs = append(tabs, activeTabStyle.Render(label))
			continue
		}
		tabs = append(tabs, tabStyle.Render(label))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.busy > 0 {
		line += mutedStyle.Render("  saving...")
	}
	return line
}

func (m *Model) viewList(st board.State, now time.Time) string {
	if st.Loading {
		return mutedStyle.Render("Loading...")
	}

	visible := st.Visible(now)
	if len(visible) == 0 {
		return mutedStyle.Render("No tasks")
	}

	var b strings.Builder
	for i, t := range visible {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(cursor + renderTask(t))
		if i < len(visible)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderTask(t task.Task) string {
	check := "[ ]"
	title := t.Title
	if t.Status == task.StatusDone {
		check = "[x]"
		title = doneStyle.Render(title)
	}

	parts := []string{check, title, priorityBadge(t.Priority)}
	if t.DueDate != nil {
		parts = append(parts, dueStyle.Render("due "+task.DayKey(*t.DueDate)))
	}
	if t.Description != nil && *t.Description != "" {
		parts = append(parts, mutedStyle.Render(*t.Description))
	}
	return strings.Join(parts, " ")
}

func (m *Model) viewForm(heading string) string {
	labels := []string{"Title", "Description", "Due date"}

	var b strings.Builder
	b.WriteString(heading + "\n")
	for i, input := range m.form.inputs {
		marker := "  "
		if m.form.field == i {
			marker = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%-12s %s\n", marker, labels[i], input.View()))
	}

	marker := "  "
	if m.form.field == fieldPriority {
		marker = cursorStyle.Render("> ")
	}
	b.WriteString(fmt.Sprintf("%s%-12s < %s >", marker, "Priority", priorityBadge(m.form.priority)))

	return panelStyle.Render(b.String())
}

func (m *Model) viewCalendar(tasks []task.Task, now time.Time) string {
	days := board.Calendar(tasks, m.calendar, now)
	todayKey := now.Format(task.DateLayout)

	heading := "Week"
	if m.calendar == board.ViewMonth {
		heading = now.Format("January 2006")
	}

	lines := []string{heading}
	for _, d := range days {
		// в месяце показываем только дни со сроками
		if m.calendar == board.ViewMonth && len(d.Tasks) == 0 {
			continue
		}
		label := d.Date.Format("Mon 02")
		if d.Key() == todayKey {
			label = todayStyle.Render(label)
		}

		titles := make([]string, len(d.Tasks))
		for i, t := range d.Tasks {
			titles[i] = t.Title
		}
		lines = append(lines, fmt.Sprintf("%s  %s", label, strings.Join(titles, ", ")))
	}
	if len(lines) == 1 {
		lines = append(lines, mutedStyle.Render("No due dates this month"))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewTimer(t timer.Timer) string {
	cfg := t.Config()
	breakInfo := "off"
	if cfg.IncludeBreak {
		breakInfo = fmt.Sprintf("%dm", cfg.BreakMinutes)
	}

	head := fmt.Sprintf("%s  %s  %s", t.Phase().Label(), t.Display(), mutedStyle.Render(string(t.State())))
	bar := fmt.Sprintf("%s %3.0f%%", m.bar.ViewAs(t.Progress()), t.Progress()*100)
	settings := mutedStyle.Render(fmt.Sprintf("focus %dm, break %s", cfg.FocusMinutes, breakInfo))

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, head, bar, settings))
}

func (m *Model) viewHelp() string {
	if m.mode != modeList {
		return helpStyle.Render("tab next field • ←/→ priority • enter save • esc cancel")
	}
	return helpStyle.Render("j/k move • space toggle • a add • e edit • d delete • J/K reorder • f filter • c calendar • " +
		"t timer • T reset • +/- focus • [/] break • b break on/off • q quit")
}
