package refresh

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simblissima-pedidos/pkg/logging"
)

type fakeTicker struct {
	c       chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func (f *fakeTicker) Chan() <-chan time.Time { return f.c }

func (f *fakeTicker) Stop() {
	f.once.Do(func() { close(f.stopped) })
}

type fakeClock struct {
	mux     sync.Mutex
	tickers []*fakeTicker
	periods []time.Duration
}

func (c *fakeClock) newTicker(d time.Duration) ticker {
	c.mux.Lock()
	defer c.mux.Unlock()
	t := &fakeTicker{c: make(chan time.Time), stopped: make(chan struct{})}
	c.tickers = append(c.tickers, t)
	c.periods = append(c.periods, d)
	return t
}

func (c *fakeClock) ticker(i int) *fakeTicker {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.tickers[i]
}

func newTestScheduler(refresh func(ctx context.Context)) (*Scheduler, *fakeClock) {
	clock := &fakeClock{}
	s := NewScheduler(Config{}, refresh, logging.NewNop())
	s.newTicker = clock.newTicker
	return s, clock
}

func isStopped(t *fakeTicker) bool {
	select {
	case <-t.stopped:
		return true
	default:
		return false
	}
}

func TestScheduler_DefaultPeriod(t *testing.T) {
	s, clock := newTestScheduler(func(context.Context) {})
	s.Start()
	defer s.Stop()

	assert.Equal(t, []time.Duration{60 * time.Second}, clock.periods)
}

func TestScheduler_TickRunsRefresh(t *testing.T) {
	calls := make(chan struct{}, 10)
	s, clock := newTestScheduler(func(context.Context) { calls <- struct{}{} })
	s.Start()
	defer s.Stop()

	clock.ticker(0).c <- time.Now()

	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("refresh was not called")
	}
}

func TestScheduler_StartTwiceKeepsOneTimer(t *testing.T) {
	calls := make(chan struct{}, 10)
	s, clock := newTestScheduler(func(context.Context) { calls <- struct{}{} })

	s.Start()
	s.Start()
	defer s.Stop()

	require.Len(t, clock.tickers, 2)
	assert.True(t, isStopped(clock.ticker(0)), "first timer must be disarmed")
	assert.False(t, isStopped(clock.ticker(1)))

	clock.ticker(1).c <- time.Now()
	<-calls

	select {
	case <-calls:
		t.Fatal("one tick must produce exactly one refresh")
	case <-time.After(50 * time.Millisecond):
	}
	assert.True(t, s.Running())
}

func TestScheduler_Stop(t *testing.T) {
	s, clock := newTestScheduler(func(context.Context) {})

	s.Stop()
	assert.False(t, s.Running())

	s.Start()
	assert.True(t, s.Running())
	s.Stop()
	assert.False(t, s.Running())
	assert.True(t, isStopped(clock.ticker(0)))

	s.Stop()
	assert.False(t, s.Running())
}

func TestScheduler_StopCancelsInFlightRefresh(t *testing.T) {
	started := make(chan struct{})
	canceled := make(chan struct{})
	s, clock := newTestScheduler(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(canceled)
	})
	s.Start()

	clock.ticker(0).c <- time.Now()
	<-started
	s.Stop()

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("in-flight refresh was not canceled")
	}
}

func TestScheduler_OverlappingRefreshes(t *testing.T) {
	release := make(chan struct{})
	running := make(chan struct{}, 2)
	s, clock := newTestScheduler(func(context.Context) {
		running <- struct{}{}
		<-release
	})
	s.Start()
	defer s.Stop()

	clock.ticker(0).c <- time.Now()
	clock.ticker(0).c <- time.Now()

	for range 2 {
		select {
		case <-running:
		case <-time.After(time.Second):
			t.Fatal("second tick waited for the first refresh")
		}
	}
	close(release)
}
