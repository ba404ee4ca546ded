package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"simblissima-pedidos/internal/pedidos/notify"
	"simblissima-pedidos/pkg/logging"
)

type OrderToggleHandler struct {
	views  ViewRegistry
	logger *logging.ZapLogger
}

func NewOrderToggleHandler(views ViewRegistry, logger *logging.ZapLogger) *OrderToggleHandler {
	return &OrderToggleHandler{
		views:  views,
		logger: logger,
	}
}

func (h *OrderToggleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromURL(r)
	if err != nil {
		h.logger.InfoCtx(r.Context(), "bad toggle request", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := acquireView(r, h.views).Toggle(r.Context(), orderID); err != nil {
		h.logger.ErrorCtx(r.Context(), "failed to toggle order", zap.Error(err))
		notify.Set(w, notify.Message{Text: "Erro ao salvar a exibição do pedido", Severity: notify.Danger})
	}
	redirectToOrders(w, r)
}
