package view

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"simblissima-pedidos/internal/pedidos/expansion"
	"simblissima-pedidos/internal/pedidos/refresh"
	"simblissima-pedidos/internal/pedidos/render"
	"simblissima-pedidos/pkg/logging"
)

const DefaultIdleTimeout = 2 * time.Minute

type RegistryConfig struct {
	Refresh refresh.Config
	// IdleTimeout is how long a view without live-update subscribers survives its last request.
	IdleTimeout time.Duration
}

type Registry struct {
	config             RegistryConfig
	backend            Backend
	storage            expansion.KeyValueStorage
	transactionManager expansion.TransactionManager
	renderer           *render.Renderer
	logger             *logging.ZapLogger

	mux   *sync.Mutex
	views map[string]*View
}

func NewRegistry(
	config RegistryConfig,
	backend Backend,
	storage expansion.KeyValueStorage,
	transactionManager expansion.TransactionManager,
	renderer *render.Renderer,
	logger *logging.ZapLogger,
) *Registry {
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}
	return &Registry{
		config:             config,
		backend:            backend,
		storage:            storage,
		transactionManager: transactionManager,
		renderer:           renderer,
		logger:             logger,
		mux:                &sync.Mutex{},
		views:              make(map[string]*View),
	}
}

// Acquire returns the view of profileID, creating it on first use, and hands it the latest token.
func (r *Registry) Acquire(profileID, token string) *View {
	r.mux.Lock()
	defer r.mux.Unlock()

	v, ok := r.views[profileID]
	if !ok {
		store := expansion.NewStore(r.storage, r.transactionManager, profileID, r.logger)
		v = New(profileID, r.config.Refresh, r.backend, store, r.renderer, r.logger)
		r.views[profileID] = v
	}
	v.SetToken(token)
	v.touch(time.Now())
	return v
}

// Lookup returns the view of profileID without creating one.
func (r *Registry) Lookup(profileID string) (*View, bool) {
	r.mux.Lock()
	defer r.mux.Unlock()
	v, ok := r.views[profileID]
	return v, ok
}

// Release closes the view of profileID and forgets it.
func (r *Registry) Release(profileID string) {
	r.mux.Lock()
	v, ok := r.views[profileID]
	delete(r.views, profileID)
	r.mux.Unlock()

	if ok {
		v.Close()
	}
}

// EvictIdle releases every view that has no subscriber and was not used for the idle timeout.
func (r *Registry) EvictIdle(ctx context.Context, now time.Time) int {
	deadline := now.Add(-r.config.IdleTimeout)

	r.mux.Lock()
	var idle []*View
	for profileID, v := range r.views {
		if v.idleSince(deadline) {
			idle = append(idle, v)
			delete(r.views, profileID)
		}
	}
	r.mux.Unlock()

	for _, v := range idle {
		v.Close()
	}
	if len(idle) > 0 {
		r.logger.DebugCtx(ctx, "idle order views released", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// RunJanitor evicts idle views until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(r.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.EvictIdle(ctx, now)
		}
	}
}

func (r *Registry) CloseAll(ctx context.Context) {
	r.mux.Lock()
	views := r.views
	r.views = make(map[string]*View)
	r.mux.Unlock()

	for _, v := range views {
		v.Close()
	}
	r.logger.InfoCtx(ctx, "order views closed", zap.Int("count", len(views)))
}
