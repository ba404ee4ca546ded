package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"simblissima-pedidos/pkg/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	readLimit  = 512
)

// LiveUpdatesHandler pushes the re-rendered order list to the browser after every refresh or toggle.
// The browser never sends anything but control frames.
type LiveUpdatesHandler struct {
	views    ViewRegistry
	upgrader websocket.Upgrader
	logger   *logging.ZapLogger
}

func NewLiveUpdatesHandler(views ViewRegistry, logger *logging.ZapLogger) *LiveUpdatesHandler {
	return &LiveUpdatesHandler{
		views:  views,
		logger: logger,
	}
}

func (h *LiveUpdatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.InfoCtx(ctx, "failed to upgrade to websocket", zap.Error(err))
		return
	}

	v := acquireView(r, h.views)
	updates, unsubscribe := v.Subscribe()

	go h.readPump(r, conn, unsubscribe)

	list, err := v.ListHTML(ctx)
	if err != nil {
		h.logger.ErrorCtx(ctx, "failed to render order list", zap.Error(err))
		unsubscribe()
	}
	h.writePump(r, conn, list, updates)
}

// readPump drains control frames and drops the subscription once the browser goes away.
func (h *LiveUpdatesHandler) readPump(r *http.Request, conn *websocket.Conn, unsubscribe func()) {
	defer unsubscribe()

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:wrapcheck // handed back to gorilla
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.InfoCtx(r.Context(), "websocket closed", zap.Error(err))
			}
			return
		}
	}
}

func (h *LiveUpdatesHandler) writePump(r *http.Request, conn *websocket.Conn, initial string, updates <-chan string) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := conn.Close(); err != nil {
			h.logger.DebugCtx(r.Context(), "failed to close websocket", zap.Error(err))
		}
	}()

	if initial != "" && !h.write(r, conn, websocket.TextMessage, initial) {
		return
	}
	for {
		select {
		case list, ok := <-updates:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if !h.write(r, conn, websocket.TextMessage, list) {
				return
			}
		case <-ticker.C:
			if !h.write(r, conn, websocket.PingMessage, "") {
				return
			}
		}
	}
}

func (h *LiveUpdatesHandler) write(r *http.Request, conn *websocket.Conn, messageType int, payload string) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(messageType, []byte(payload)); err != nil {
		h.logger.DebugCtx(r.Context(), "failed to write to websocket", zap.Error(err))
		return false
	}
	return true
}
