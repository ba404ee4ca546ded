package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"simblissima-pedidos/internal/pedidos/middleware"
	"simblissima-pedidos/internal/pedidos/notify"
	"simblissima-pedidos/internal/pedidos/render"
	"simblissima-pedidos/internal/pedidos/view"
	"simblissima-pedidos/pkg/logging"
)

type RedirectConfig struct {
	LoginURL            string
	HomeURL             string
	ManagerDashboardURL string
}

type OrdersPageHandler struct {
	views     ViewRegistry
	renderer  *render.Renderer
	redirects RedirectConfig
	logger    *logging.ZapLogger
}

func NewOrdersPageHandler(
	views ViewRegistry,
	renderer *render.Renderer,
	redirects RedirectConfig,
	logger *logging.ZapLogger,
) *OrdersPageHandler {
	return &OrdersPageHandler{
		views:     views,
		renderer:  renderer,
		redirects: redirects,
		logger:    logger,
	}
}

func (h *OrdersPageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := acquireView(r, h.views)

	err := v.Open(ctx)
	switch {
	case errors.Is(err, view.ErrNoUser):
		h.views.Release(middleware.ProfileFromContext(ctx))
		http.Redirect(w, r, h.redirects.LoginURL, http.StatusSeeOther)
		return
	case errors.Is(err, view.ErrStaffUser):
		h.views.Release(middleware.ProfileFromContext(ctx))
		http.Redirect(w, r, h.redirects.ManagerDashboardURL, http.StatusSeeOther)
		return
	case err != nil:
		h.logger.ErrorCtx(ctx, "failed to open orders view", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	toast, _ := notify.Pop(w, r)
	page := h.renderer.Page(render.Page{
		Title:   "Meus Pedidos",
		Toast:   toast,
		Content: h.renderer.OrdersView(v.List(ctx)),
		Scripts: []string{render.LiveUpdatesScript},
	})
	writeDocument(ctx, w, http.StatusOK, page, h.logger)
}
