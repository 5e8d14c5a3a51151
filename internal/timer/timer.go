package timer

import "fmt"

type Phase string

const (
	PhaseFocus Phase = "focus"
	PhaseBreak Phase = "break"
)

func (p Phase) Label() string {
	if p == PhaseBreak {
		return "Break"
	}
	return "Focus"
}

type State string

const (
	StateIdleFocus    State = "idle-focus"
	StateRunningFocus State = "running-focus"
	StateRunningBreak State = "running-break"
	StatePaused       State = "paused"
)

const (
	MinMinutes      = 1
	MaxFocusMinutes = 180
	MaxBreakMinutes = 60

	DefaultFocusMinutes = 25
	DefaultBreakMinutes = 5
)

type Config struct {
	FocusMinutes int
	BreakMinutes int
	IncludeBreak bool
}

func DefaultConfig() Config {
	return Config{
		FocusMinutes: DefaultFocusMinutes,
		BreakMinutes: DefaultBreakMinutes,
		IncludeBreak: true,
	}
}

// Clamped приводит длительности к допустимым границам
func (c Config) Clamped() Config {
	c.FocusMinutes = clamp(c.FocusMinutes, MinMinutes, MaxFocusMinutes)
	c.BreakMinutes = clamp(c.BreakMinutes, MinMinutes, MaxBreakMinutes)
	return c
}

func (c Config) seconds(p Phase) int {
	if p == PhaseBreak {
		return c.BreakMinutes * 60
	}
	return c.FocusMinutes * 60
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Timer - значение: каждый переход возвращает новый Timer
type Timer struct {
	cfg       Config
	state     State
	phase     Phase
	remaining int
}

func New(cfg Config) Timer {
	cfg = cfg.Clamped()
	return Timer{
		cfg:       cfg,
		state:     StateIdleFocus,
		phase:     PhaseFocus,
		remaining: cfg.seconds(PhaseFocus),
	}
}

func (t Timer) Config() Config  { return t.cfg }
func (t Timer) State() State    { return t.state }
func (t Timer) Phase() Phase    { return t.phase }
func (t Timer) Remaining() int  { return t.remaining }
func (t Timer) PhaseTotal() int { return t.cfg.seconds(t.phase) }

func (t Timer) Running() bool {
	return t.state == StateRunningFocus || t.state == StateRunningBreak
}

// Start запускает фокус только из исходного состояния
func (t Timer) Start() Timer {
	if t.state != StateIdleFocus {
		return t
	}
	t.state = StateRunningFocus
	t.phase = PhaseFocus
	t.remaining = t.cfg.seconds(PhaseFocus)
	return t
}

// Tick - одна прошедшая секунда. По достижении нуля фокус переходит в перерыв
// (если он включён), а перерыв или фокус без перерыва завершают цикл сбросом
func (t Timer) Tick() Timer {
	if !t.Running() {
		return t
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		return t
	}

	if t.phase == PhaseFocus && t.cfg.IncludeBreak {
		t.state = StateRunningBreak
		t.phase = PhaseBreak
		t.remaining = t.cfg.seconds(PhaseBreak)
		return t
	}
	return t.Reset()
}

func (t Timer) Pause() Timer {
	if !t.Running() {
		return t
	}
	t.state = StatePaused
	return t
}

func (t Timer) Resume() Timer {
	if t.state != StatePaused || t.remaining <= 0 {
		return t
	}
	if t.phase == PhaseBreak {
		t.state = StateRunningBreak
	} else {
		t.state = StateRunningFocus
	}
	return t
}

func (t Timer) Reset() Timer {
	t.state = StateIdleFocus
	t.phase = PhaseFocus
	t.remaining = t.cfg.seconds(PhaseFocus)
	return t
}

func (t Timer) WithFocusMinutes(m int) Timer {
	t.cfg.FocusMinutes = clamp(m, MinMinutes, MaxFocusMinutes)
	return t.reseed()
}

func (t Timer) WithBreakMinutes(m int) Timer {
	t.cfg.BreakMinutes = clamp(m, MinMinutes, MaxBreakMinutes)
	return t.reseed()
}

// WithIncludeBreak действует со следующего окончания фокуса
func (t Timer) WithIncludeBreak(include bool) Timer {
	t.cfg.IncludeBreak = include
	return t
}

// вне работы смена длительности сразу перезаполняет остаток текущей фазы
func (t Timer) reseed() Timer {
	if !t.Running() {
		t.remaining = t.cfg.seconds(t.phase)
	}
	return t
}

// Progress - доля прошедшего времени фазы в [0, 1]
func (t Timer) Progress() float64 {
	total := t.PhaseTotal()
	if total <= 0 {
		return 0
	}
	p := 1 - float64(t.remaining)/float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Display - остаток в виде MM:SS
func (t Timer) Display() string {
	return fmt.Sprintf("%02d:%02d", t.remaining/60, t.remaining%60)
}
