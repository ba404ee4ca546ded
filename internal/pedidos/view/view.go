// Package view holds the order list of one browser profile: the last snapshot fetched from the
// backend, the refresh timer that keeps it current and the live-update subscribers watching it.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"simblissima-pedidos/internal/common/pedidosprotocol"
	"simblissima-pedidos/internal/pedidos/expansion"
	"simblissima-pedidos/internal/pedidos/refresh"
	"simblissima-pedidos/internal/pedidos/render"
	"simblissima-pedidos/pkg/logging"
	"simblissima-pedidos/pkg/threadsafe"
)

const (
	ConfirmComment = "Valor final confirmado pelo cliente"
	RejectComment  = "Valor final recusado pelo cliente"
)

var (
	ErrNoUser                  = errors.New("no authenticated user")
	ErrStaffUser               = errors.New("user is staff")
	ErrNotAwaitingConfirmation = errors.New("order does not await final value confirmation")
	ErrAnswerInFlight          = errors.New("final value answer already in flight")
)

type Backend interface {
	CurrentUser(ctx context.Context, token string) (*pedidosprotocol.User, error)
	ListOrders(ctx context.Context, token string, clientID int64) ([]pedidosprotocol.Order, error)
	UpdateStatus(ctx context.Context, token string, orderID int64, update pedidosprotocol.StatusUpdateRequest) error
}

type ExpansionStore interface {
	Load(ctx context.Context) expansion.Set
	Toggle(ctx context.Context, orderID int64) (bool, error)
}

type View struct {
	profileID   string
	backend     Backend
	expansion   ExpansionStore
	renderer    *render.Renderer
	scheduler   *refresh.Scheduler
	confirming  *threadsafe.HashSet[int64]
	lastRefresh *threadsafe.Time
	lastUsed    *threadsafe.Time
	logger      *logging.ZapLogger

	mux    *sync.RWMutex
	token  string
	orders []pedidosprotocol.Order
	loaded bool

	subsMux     *sync.Mutex
	subscribers map[int]chan string
	nextSubID   int
}

func New(
	profileID string,
	refreshConfig refresh.Config,
	backend Backend,
	expansionStore ExpansionStore,
	renderer *render.Renderer,
	logger *logging.ZapLogger,
) *View {
	v := &View{
		profileID:   profileID,
		backend:     backend,
		expansion:   expansionStore,
		renderer:    renderer,
		confirming:  threadsafe.NewHashSet[int64](),
		lastRefresh: threadsafe.NewTime(time.Time{}),
		lastUsed:    threadsafe.NewTime(time.Now()),
		logger:      logger,
		mux:         &sync.RWMutex{},
		subsMux:     &sync.Mutex{},
		subscribers: make(map[int]chan string),
	}
	v.scheduler = refresh.NewScheduler(refreshConfig, v.Refresh, logger)
	return v
}

func (v *View) SetToken(token string) {
	v.mux.Lock()
	defer v.mux.Unlock()
	v.token = token
}

func (v *View) Token() string {
	v.mux.RLock()
	defer v.mux.RUnlock()
	return v.token
}

func (v *View) LastRefresh() time.Time {
	return v.lastRefresh.Get()
}

func (v *View) touch(now time.Time) {
	v.lastUsed.Set(now)
}

// idleSince reports whether nobody watches the view and no request used it after deadline.
func (v *View) idleSince(deadline time.Time) bool {
	v.subsMux.Lock()
	watched := len(v.subscribers) > 0
	v.subsMux.Unlock()
	return !watched && v.lastUsed.Get().Before(deadline)
}

// Open loads the list right away and arms the refresh timer. Backend failures leave the view
// loading; only a missing or staff user keeps it closed.
func (v *View) Open(ctx context.Context) error {
	ctx = v.logContext(ctx)
	if err := v.load(ctx); err != nil {
		if errors.Is(err, ErrNoUser) || errors.Is(err, ErrStaffUser) {
			return err
		}
		v.logger.ErrorCtx(ctx, "failed to load orders", zap.Error(err))
	}
	v.scheduler.Start()
	v.publish(ctx)
	return nil
}

// Close disarms the refresh timer and disconnects every subscriber.
func (v *View) Close() {
	v.scheduler.Stop()

	v.subsMux.Lock()
	defer v.subsMux.Unlock()
	for id, ch := range v.subscribers {
		close(ch)
		delete(v.subscribers, id)
	}
}

func (v *View) Running() bool {
	return v.scheduler.Running()
}

// Refresh reloads the list from the backend. Failures are logged and the previous snapshot stays.
func (v *View) Refresh(ctx context.Context) {
	ctx = v.logContext(ctx)
	if err := v.load(ctx); err != nil {
		if errors.Is(err, ErrNoUser) || errors.Is(err, ErrStaffUser) {
			v.logger.DebugCtx(ctx, "skipping refresh", zap.Error(err))
			return
		}
		if ctx.Err() != nil {
			v.logger.DebugCtx(ctx, "refresh canceled", zap.Error(err))
			return
		}
		v.logger.ErrorCtx(ctx, "failed to refresh orders", zap.Error(err))
		return
	}
	v.publish(ctx)
}

func (v *View) load(ctx context.Context) error {
	token := v.Token()
	user, err := v.backend.CurrentUser(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if user == nil {
		return ErrNoUser
	}
	if user.IsStaff {
		return ErrStaffUser
	}

	orders, err := v.backend.ListOrders(ctx, token, user.ID)
	if err != nil {
		return fmt.Errorf("failed to list orders of user %d: %w", user.ID, err)
	}

	v.mux.Lock()
	v.orders = orders
	v.loaded = true
	v.mux.Unlock()
	v.lastRefresh.Set(time.Now())

	v.logger.DebugCtx(ctx, "orders refreshed", zap.Int("count", len(orders)))
	return nil
}

func (v *View) List(ctx context.Context) *html.Node {
	v.mux.RLock()
	state := render.ListState{
		Loaded: v.loaded,
		Orders: v.orders,
	}
	v.mux.RUnlock()
	state.Expanded = v.expansion.Load(ctx)
	state.Confirming = v.confirming.Snapshot()
	return v.renderer.List(state)
}

func (v *View) ListHTML(ctx context.Context) (string, error) {
	return render.HTML(v.List(ctx)) //nolint:wrapcheck // already wrapped
}

// Toggle flips the expansion of orderID and pushes the new list.
func (v *View) Toggle(ctx context.Context, orderID int64) error {
	ctx = v.logContext(ctx)
	if _, err := v.expansion.Toggle(ctx, orderID); err != nil {
		return fmt.Errorf("failed to toggle order %d: %w", orderID, err)
	}
	v.publish(ctx)
	return nil
}

func (v *View) ConfirmFinalValue(ctx context.Context, orderID int64) error {
	return v.answerFinalValue(ctx, orderID, pedidosprotocol.StatusUpdateRequest{
		Status:  pedidosprotocol.Confirmado,
		Comment: ConfirmComment,
	})
}

func (v *View) RejectFinalValue(ctx context.Context, orderID int64) error {
	return v.answerFinalValue(ctx, orderID, pedidosprotocol.StatusUpdateRequest{
		Status:  pedidosprotocol.Cancelado,
		Comment: RejectComment,
	})
}

func (v *View) answerFinalValue(ctx context.Context, orderID int64, update pedidosprotocol.StatusUpdateRequest) error {
	ctx = logging.WithContextFields(v.logContext(ctx), zap.Int64("order", orderID))

	if v.knownNotAwaiting(orderID) {
		return ErrNotAwaitingConfirmation
	}
	if !v.confirming.Add(orderID) {
		return ErrAnswerInFlight
	}
	v.publish(ctx)

	err := v.backend.UpdateStatus(ctx, v.Token(), orderID, update)
	v.confirming.Remove(orderID)
	if err != nil {
		v.publish(ctx)
		return fmt.Errorf("failed to update status of order %d: %w", orderID, err)
	}

	v.logger.InfoCtx(ctx, "final value answered", zap.String("status", string(update.Status)))
	if err := v.load(ctx); err != nil {
		v.logger.ErrorCtx(ctx, "failed to reload orders", zap.Error(err))
	}
	v.publish(ctx)
	return nil
}

// knownNotAwaiting reports whether the loaded snapshot holds orderID in a state that takes no
// final value answer. An order missing from the snapshot is left for the backend to judge.
func (v *View) knownNotAwaiting(orderID int64) bool {
	v.mux.RLock()
	defer v.mux.RUnlock()
	if !v.loaded {
		return false
	}
	for _, order := range v.orders {
		if order.ID == orderID {
			return !order.AwaitsConfirmation()
		}
	}
	return false
}

// Subscribe registers a receiver of re-rendered lists and re-arms the timer if it was stopped.
// The returned function unsubscribes; the last one to leave stops the timer.
func (v *View) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 1)

	v.subsMux.Lock()
	id := v.nextSubID
	v.nextSubID++
	v.subscribers[id] = ch
	v.subsMux.Unlock()

	if !v.scheduler.Running() {
		v.scheduler.Start()
	}

	return ch, func() {
		v.subsMux.Lock()
		defer v.subsMux.Unlock()
		if _, ok := v.subscribers[id]; !ok {
			return
		}
		close(ch)
		delete(v.subscribers, id)
		if len(v.subscribers) == 0 {
			v.scheduler.Stop()
		}
	}
}

func (v *View) publish(ctx context.Context) {
	v.subsMux.Lock()
	defer v.subsMux.Unlock()
	if len(v.subscribers) == 0 {
		return
	}

	list, err := v.ListHTML(ctx)
	if err != nil {
		v.logger.ErrorCtx(ctx, "failed to render order list", zap.Error(err))
		return
	}
	for _, ch := range v.subscribers {
		// a slow subscriber only needs the newest list
		select {
		case <-ch:
		default:
		}
		ch <- list
	}
}

func (v *View) logContext(ctx context.Context) context.Context {
	return logging.WithContextFields(ctx, zap.String("profile", v.profileID))
}
