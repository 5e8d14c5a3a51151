package tui

import (
	"todoTracker/internal/models/task"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = tabStyle.Bold(true).Foreground(lipgloss.Color("212")).Underline(true)

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	dueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	todayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("71")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}
)

func priorityBadge(p task.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		style = mutedStyle
	}
	return style.Render(string(p))
}
