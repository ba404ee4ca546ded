package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"simblissima-pedidos/internal/pedidos/middleware"
	"simblissima-pedidos/internal/pedidos/render"
	"simblissima-pedidos/internal/pedidos/view"
	"simblissima-pedidos/pkg/logging"
)

const OrderIDParam = "orderID"

type ViewRegistry interface {
	Acquire(profileID, token string) *view.View
	Release(profileID string)
}

func acquireView(r *http.Request, views ViewRegistry) *view.View {
	return views.Acquire(middleware.ProfileFromContext(r.Context()), middleware.TokenFromContext(r.Context()))
}

func orderIDFromURL(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, OrderIDParam)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad order id %q: %w", raw, err)
	}
	return id, nil
}

func writeDocument(ctx context.Context, w http.ResponseWriter, status int, page *html.Node, logger *logging.ZapLogger) {
	res, err := render.Document(page)
	if err != nil {
		logger.ErrorCtx(ctx, "failed to render page", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeHTML(ctx, w, status, res, logger)
}

func writeHTML(ctx context.Context, w http.ResponseWriter, status int, body string, logger *logging.ZapLogger) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		logger.ErrorCtx(ctx, "failed to write response", zap.Error(err))
	}
}

func redirectToOrders(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, render.OrdersPath, http.StatusSeeOther)
}
