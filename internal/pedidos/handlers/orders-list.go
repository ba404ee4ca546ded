package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"simblissima-pedidos/pkg/logging"
)

// OrdersListHandler serves the bare list fragment from the current snapshot.
type OrdersListHandler struct {
	views  ViewRegistry
	logger *logging.ZapLogger
}

func NewOrdersListHandler(views ViewRegistry, logger *logging.ZapLogger) *OrdersListHandler {
	return &OrdersListHandler{
		views:  views,
		logger: logger,
	}
}

func (h *OrdersListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := acquireView(r, h.views).ListHTML(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "failed to render order list", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeHTML(r.Context(), w, http.StatusOK, res, h.logger)
}
