package timer

import (
	"context"
	"sync"
	"todoTracker/internal/logger"

	"go.uber.org/zap"
)

// Session связывает Timer с Runner: тикер живёт ровно столько, сколько таймер
// в рабочем состоянии. Управляющие методы вызываются из одной горутины
// (цикла интерфейса), тики приходят из горутины Runner
type Session struct {
	ctx    context.Context
	mtx    sync.Mutex
	timer  Timer
	runner *Runner
	onTick func(Timer)
}

// onTick вызывается из горутины тикера и не должен блокироваться
func NewSession(ctx context.Context, cfg Config, runner *Runner, onTick func(Timer)) *Session {
	return &Session{
		ctx:    ctx,
		timer:  New(cfg),
		runner: runner,
		onTick: onTick,
	}
}

func (s *Session) Timer() Timer {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.timer
}

func (s *Session) Start() Timer  { return s.apply(Timer.Start) }
func (s *Session) Pause() Timer  { return s.apply(Timer.Pause) }
func (s *Session) Resume() Timer { return s.apply(Timer.Resume) }
func (s *Session) Reset() Timer  { return s.apply(Timer.Reset) }

// Toggle - одна клавиша для старта, паузы и продолжения
func (s *Session) Toggle() Timer {
	return s.apply(func(t Timer) Timer {
		switch t.State() {
		case StateIdleFocus:
			return t.Start()
		case StatePaused:
			return t.Resume()
		default:
			return t.Pause()
		}
	})
}

func (s *Session) SetFocusMinutes(m int) Timer {
	return s.apply(func(t Timer) Timer { return t.WithFocusMinutes(m) })
}

func (s *Session) SetBreakMinutes(m int) Timer {
	return s.apply(func(t Timer) Timer { return t.WithBreakMinutes(m) })
}

func (s *Session) SetIncludeBreak(include bool) Timer {
	return s.apply(func(t Timer) Timer { return t.WithIncludeBreak(include) })
}

// Close останавливает тикер при выходе из интерфейса
func (s *Session) Close() {
	s.runner.Stop()
}

func (s *Session) apply(fn func(Timer) Timer) Timer {
	s.mtx.Lock()
	wasRunning := s.timer.Running()
	s.timer = fn(s.timer)
	t := s.timer
	s.mtx.Unlock()

	// тикер трогаем без блокировки: горутина тикера сама берёт s.mtx
	switch {
	case t.Running() && !wasRunning:
		s.runner.Start(s.ctx, s.tick)
		logger.Debug("Timer: Запущен", zap.String("phase", string(t.Phase())), zap.Int("remaining", t.Remaining()))
	case !t.Running() && wasRunning:
		s.runner.Stop()
		logger.Debug("Timer: Остановлен", zap.String("state", string(t.State())), zap.Int("remaining", t.Remaining()))
	}
	return t
}

func (s *Session) tick() bool {
	s.mtx.Lock()
	s.timer = s.timer.Tick()
	t := s.timer
	s.mtx.Unlock()

	if s.onTick != nil {
		s.onTick(t)
	}
	if !t.Running() {
		logger.Info("Timer: Цикл завершён")
	}
	return t.Running()
}
