package handlers

import (
	"net/http"

	"simblissima-pedidos/internal/pedidos/middleware"
	"simblissima-pedidos/pkg/logging"
)

// LeaveHandler tears down the profile's view and sends the browser home.
type LeaveHandler struct {
	views   ViewRegistry
	homeURL string
	logger  *logging.ZapLogger
}

func NewLeaveHandler(views ViewRegistry, homeURL string, logger *logging.ZapLogger) *LeaveHandler {
	return &LeaveHandler{
		views:   views,
		homeURL: homeURL,
		logger:  logger,
	}
}

func (h *LeaveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.views.Release(middleware.ProfileFromContext(r.Context()))
	h.logger.DebugCtx(r.Context(), "orders view released")
	http.Redirect(w, r, h.homeURL, http.StatusSeeOther)
}
