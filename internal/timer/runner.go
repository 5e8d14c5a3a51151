package timer

import (
	"context"
	"sync"
	"time"
)

// Ticker - источник пробуждений; в тестах подменяется управляемым
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type stdTicker struct {
	*time.Ticker
}

func (t stdTicker) C() <-chan time.Time {
	return t.Ticker.C
}

func NewStdTicker(d time.Duration) Ticker {
	return stdTicker{Ticker: time.NewTicker(d)}
}

// Runner держит не больше одного активного тикера
type Runner struct {
	mtx       sync.Mutex
	newTicker TickerFactory
	interval  time.Duration
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewRunner() *Runner {
	return NewRunnerWithTicker(NewStdTicker)
}

func NewRunnerWithTicker(factory TickerFactory) *Runner {
	return &Runner{
		newTicker: factory,
		interval:  time.Second,
	}
}

// Start останавливает предыдущий цикл и запускает новый.
// fn вызывается на каждый тик; false завершает цикл.
// fn не должна вызывать методы Runner
func (r *Runner) Start(ctx context.Context, fn func() bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticker := r.newTicker(r.interval)
	r.cancel = cancel
	r.done = done

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				// оба канала могли быть готовы одновременно
				if ctx.Err() != nil {
					return
				}
				if !fn() {
					return
				}
			}
		}
	}()
}

// Stop отменяет цикл и ждёт его завершения
func (r *Runner) Stop() {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.stopLocked()
}

func (r *Runner) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
}

func (r *Runner) Active() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.done == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}
