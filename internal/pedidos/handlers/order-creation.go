package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"simblissima-pedidos/internal/pedidos/middleware"
	"simblissima-pedidos/internal/pedidos/notify"
	"simblissima-pedidos/internal/pedidos/orderform"
	"simblissima-pedidos/internal/pedidos/render"
	"simblissima-pedidos/pkg/logging"
)

const (
	OrderCreatedMessage        = "Pedido criado com sucesso!"
	OrderCreationFailedMessage = "Erro ao criar pedido. Tente novamente."
)

// OrderCreationHandler serves the creation form. Reaching it leaves the order list, so the
// profile's view is released.
type OrderCreationHandler struct {
	views    ViewRegistry
	creator  orderform.Creator
	renderer *render.Renderer
	logger   *logging.ZapLogger
}

func NewOrderCreationHandler(
	views ViewRegistry,
	creator orderform.Creator,
	renderer *render.Renderer,
	logger *logging.ZapLogger,
) *OrderCreationHandler {
	return &OrderCreationHandler{
		views:    views,
		creator:  creator,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *OrderCreationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.views.Release(middleware.ProfileFromContext(r.Context()))

	if r.Method == http.MethodGet {
		toast, _ := notify.Pop(w, r)
		h.writeForm(w, r, http.StatusOK, orderform.New(), toast)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.logger.InfoCtx(r.Context(), "bad order form", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	form, action := orderform.Parse(r.PostForm)

	switch action.Kind {
	case orderform.AddRow:
		form.AddRow()
		h.writeForm(w, r, http.StatusOK, form, nil)
		return
	case orderform.RemoveRow:
		form.RemoveRow(action.Row)
		h.writeForm(w, r, http.StatusOK, form, nil)
		return
	}

	err := form.Submit(r.Context(), h.creator, middleware.TokenFromContext(r.Context()))
	switch {
	case err == nil:
		h.logger.InfoCtx(r.Context(), "order created", zap.Int("items", len(form.Request().Items)))
		notify.Set(w, notify.Message{Text: OrderCreatedMessage, Severity: notify.Success})
		redirectToOrders(w, r)
	case errors.Is(err, orderform.ErrPaymentMethodRequired):
		h.writeForm(w, r, http.StatusUnprocessableEntity, form, nil)
	default:
		h.logger.ErrorCtx(r.Context(), "failed to create order", zap.Error(err))
		h.writeForm(w, r, http.StatusBadGateway, form, &notify.Message{
			Text:     OrderCreationFailedMessage,
			Severity: notify.Danger,
		})
	}
}

func (h *OrderCreationHandler) writeForm(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	form orderform.Form,
	toast *notify.Message,
) {
	page := h.renderer.Page(render.Page{
		Title:     "Novo Pedido",
		BodyClass: render.NewOrderBodyClass,
		Toast:     toast,
		Content:   h.renderer.CreationForm(form),
	})
	writeDocument(r.Context(), w, status, page, h.logger)
}
