package timer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunner_StartStop тестирует жизненный цикл тикера
func TestRunner_StartStop(t *testing.T) {
	clock := &fakeClock{}
	r := NewRunnerWithTicker(clock.NewTicker)
	assert.False(t, r.Active())

	calls := make(chan struct{}, 10)
	r.Start(context.Background(), func() bool {
		calls <- struct{}{}
		return true
	})
	assert.True(t, r.Active())
	assert.Equal(t, 1, clock.active())

	require.True(t, clock.fire(t))
	require.True(t, clock.fire(t))
	assert.Eventually(t, func() bool { return len(calls) == 2 }, time.Second, 5*time.Millisecond)

	r.Stop()
	assert.False(t, r.Active())
	assert.Equal(t, 0, clock.active())
	assert.False(t, clock.fire(t), "после остановки тики не читаются")

	// повторная остановка безопасна
	r.Stop()
}

// TestRunner_SingleActiveTicker тестирует замену цикла при повторном старте
func TestRunner_SingleActiveTicker(t *testing.T) {
	clock := &fakeClock{}
	r := NewRunnerWithTicker(clock.NewTicker)
	defer r.Stop()

	var first, second atomic.Int32
	r.Start(context.Background(), func() bool { first.Add(1); return true })
	r.Start(context.Background(), func() bool { second.Add(1); return true })

	assert.Equal(t, 2, clock.created())
	assert.Equal(t, 1, clock.active())

	require.True(t, clock.fire(t))
	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
}

func TestRunner_CallbackEndsLoop(t *testing.T) {
	clock := &fakeClock{}
	r := NewRunnerWithTicker(clock.NewTicker)

	r.Start(context.Background(), func() bool { return false })
	require.True(t, clock.fire(t))

	assert.Eventually(t, func() bool { return !r.Active() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, clock.active())
	r.Stop()
}

func TestRunner_ContextCancel(t *testing.T) {
	clock := &fakeClock{}
	r := NewRunnerWithTicker(clock.NewTicker)

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx, func() bool { return true })
	cancel()

	assert.Eventually(t, func() bool { return !r.Active() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, clock.active())
}

func TestStdTicker(t *testing.T) {
	tk := NewStdTicker(time.Millisecond)
	defer tk.Stop()

	select {
	case <-tk.C():
	case <-time.After(time.Second):
		t.Fatal("тик не пришёл")
	}
}
