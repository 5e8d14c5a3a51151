package timer

import (
	"sync"
	"testing"
	"time"
)

type fakeTicker struct {
	ch      chan time.Time
	mtx     sync.Mutex
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.stopped = true
}

func (t *fakeTicker) isStopped() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.stopped
}

// fakeClock выдаёт управляемые тикеры и помнит все созданные
type fakeClock struct {
	mtx     sync.Mutex
	tickers []*fakeTicker
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) created() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return len(c.tickers)
}

func (c *fakeClock) active() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}

// fire доставляет тик последнему тикеру; false, если его никто не читает
func (c *fakeClock) fire(t *testing.T) bool {
	t.Helper()
	c.mtx.Lock()
	if len(c.tickers) == 0 {
		c.mtx.Unlock()
		return false
	}
	latest := c.tickers[len(c.tickers)-1]
	c.mtx.Unlock()

	select {
	case latest.ch <- time.Now():
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}
