package tui

import (
	"context"
	"time"
	"todoTracker/internal/board"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	"todoTracker/internal/timer"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type mode int

const (
	modeList mode = iota
	modeCreate
	modeEdit
)

const (
	opLoad   = "load"
	opCreate = "create"
	opEdit   = "edit"
	opToggle = "toggle"
	opDelete = "delete"
	opMove   = "move"
)

// opDoneMsg - завершение сетевой операции контроллера
type opDoneMsg struct {
	op  string
	err error
}

type timerTickMsg struct{}

// Model - bubbletea-модель доски. Сетевые вызовы идут в командах,
// состояние задач хранит board.Controller
type Model struct {
	ctx   context.Context
	board *board.Controller
	timer *timer.Session
	ticks chan struct{}
	now   func() time.Time

	mode     mode
	cursor   int
	calendar board.CalendarView
	form     form
	bar      progress.Model
	busy     int
	width    int
}

func New(ctx context.Context, ctrl *board.Controller, timerCfg timer.Config, runner *timer.Runner) *Model {
	ticks := make(chan struct{}, 1)

	m := &Model{
		ctx:   ctx,
		board: ctrl,
		ticks: ticks,
		now:   time.Now,
		form:  newForm(),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
	}
	// тик таймера будит цикл интерфейса; пропущенный тик не теряет времени,
	// отображение берётся из Session
	m.timer = timer.NewSession(ctx, timerCfg, runner, func(timer.Timer) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.run(opLoad, m.board.Load), m.waitForTick())
}

func (m *Model) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	m.busy++
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(m.ctx)}
	}
}

func (m *Model) waitForTick() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ticks:
			return timerTickMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case timerTickMsg:
		return m, m.waitForTick()
	case opDoneMsg:
		return m.handleOpDone(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.mode == modeList {
			return m.handleListKey(msg)
		}
		return m.handleFormKey(msg)
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.timer.Close()
	return m, tea.Quit
}

func (m *Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	if m.busy > 0 {
		m.busy--
	}
	if msg.err != nil {
		logger.Debug("TUI: Операция завершилась ошибкой", zap.String("op", msg.op), zap.Error(msg.err))
	}

	switch msg.op {
	case opCreate:
		if msg.err == nil {
			m.mode = modeList
			m.form.fill(board.NewForm())
		}
	case opEdit:
		if msg.err == nil {
			m.mode = modeList
		}
	}
	m.clampCursor()
	return m, nil
}

func (m *Model) visible() []task.Task {
	return m.board.Visible()
}

func (m *Model) selected() (task.Task, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return task.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "j", "down":
		m.cursor++
		m.clampCursor()
	case "k", "up":
		m.cursor--
		m.clampCursor()
	case " ", "x":
		if t, ok := m.selected(); ok {
			return m, m.run(opToggle, func(ctx context.Context) error { return m.board.Toggle(ctx, t.ID) })
		}
	case "d":
		if t, ok := m.selected(); ok {
			return m, m.run(opDelete, func(ctx context.Context) error { return m.board.Delete(ctx, t.ID) })
		}
	case "a", "n":
		m.mode = modeCreate
		return m, m.form.fill(m.board.State().Form)
	case "e", "enter":
		if t, ok := m.selected(); ok {
			m.board.StartEdit(t.ID)
			m.mode = modeEdit
			return m, m.form.fill(m.board.State().Edit)
		}
	case "K", "shift+up":
		return m, m.move(-1)
	case "J", "shift+down":
		return m, m.move(1)
	case "f", "tab":
		m.board.SetFilter(nextFilter(m.board.State().Filter))
		m.clampCursor()
	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		m.board.SetFilter(board.Filters[idx])
		m.clampCursor()
	case "c":
		m.calendar = nextCalendar(m.calendar)
	case "r":
		return m, m.run(opLoad, m.board.Load)
	case "t":
		m.timer.Toggle()
	case "T":
		m.timer.Reset()
	case "+", "=":
		m.timer.SetFocusMinutes(m.timer.Timer().Config().FocusMinutes + 1)
	case "-":
		m.timer.SetFocusMinutes(m.timer.Timer().Config().FocusMinutes - 1)
	case "]":
		m.timer.SetBreakMinutes(m.timer.Timer().Config().BreakMinutes + 1)
	case "[":
		m.timer.SetBreakMinutes(m.timer.Timer().Config().BreakMinutes - 1)
	case "b":
		m.timer.SetIncludeBreak(!m.timer.Timer().Config().IncludeBreak)
	}
	return m, nil
}

// move применяет перенос сразу, а сохранение порядка уходит в команду
func (m *Model) move(delta int) tea.Cmd {
	t, ok := m.selected()
	if !ok {
		return nil
	}
	over, ok := m.board.Neighbor(t.ID, delta)
	if !ok {
		return nil
	}
	ids, moved := m.board.ApplyMove(t.ID, over)
	if !moved {
		return nil
	}
	m.cursor += delta
	m.clampCursor()
	return m.run(opMove, func(ctx context.Context) error { return m.board.SaveOrder(ctx, ids) })
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.mode == modeEdit {
			m.board.CancelEdit()
		} else {
			// черновик создания сохраняется между открытиями формы
			m.board.SetForm(m.form.value())
		}
		m.mode = modeList
		return m, nil
	case "enter":
		return m, m.submit()
	}
	return m, m.form.update(msg)
}

func (m *Model) submit() tea.Cmd {
	value := m.form.value()
	if m.mode == modeEdit {
		m.board.SetEdit(value)
		return m.run(opEdit, m.board.SaveEdit)
	}

	// пустое название завершится ErrTitleRequired без запроса, форма останется открытой
	m.board.SetForm(value)
	return m.run(opCreate, m.board.Create)
}

func nextFilter(f board.Filter) board.Filter {
	for i, v := range board.Filters {
		if v == f {
			return board.Filters[(i+1)%len(board.Filters)]
		}
	}
	return board.FilterAll
}

// календарь переключается по кругу: скрыт, неделя, месяц
func nextCalendar(v board.CalendarView) board.CalendarView {
	switch v {
	case "":
		return board.ViewWeek
	case board.ViewWeek:
		return board.ViewMonth
	default:
		return ""
	}
}
