package refresh

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"simblissima-pedidos/pkg/logging"
)

const DefaultTickPeriod = 60 * time.Second

type Config struct {
	TickPeriod time.Duration
}

type ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) Chan() <-chan time.Time {
	return t.C
}

func newTimeTicker(d time.Duration) ticker {
	return timeTicker{time.NewTicker(d)}
}

// Scheduler owns at most one repeating timer. Every tick runs the refresh function on its own
// goroutine, so a slow refresh does not delay the next one.
type Scheduler struct {
	config    Config
	refresh   func(ctx context.Context)
	logger    *logging.ZapLogger
	newTicker func(time.Duration) ticker

	mux    *sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(config Config, refresh func(ctx context.Context), logger *logging.ZapLogger) *Scheduler {
	if config.TickPeriod <= 0 {
		config.TickPeriod = DefaultTickPeriod
	}
	return &Scheduler{
		config:    config,
		refresh:   refresh,
		logger:    logger,
		newTicker: newTimeTicker,
		mux:       &sync.Mutex{},
	}
}

// Start disarms the current timer, if any, and arms a new one.
func (s *Scheduler) Start() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t := s.newTicker(s.config.TickPeriod)
	s.cancel = cancel
	s.done = done

	go s.loop(ctx, t, done)
	s.logger.DebugCtx(ctx, "refresh timer armed", zap.Duration("period", s.config.TickPeriod))
}

// Stop disarms the timer and cancels refreshes it has issued.
func (s *Scheduler) Stop() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.stopLocked()
}

func (s *Scheduler) Running() bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

func (s *Scheduler) loop(ctx context.Context, t ticker, done chan<- struct{}) {
	defer close(done)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			go s.refresh(ctx)
		}
	}
}
