package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"simblissima-pedidos/internal/pedidos/notify"
	"simblissima-pedidos/internal/pedidos/view"
	"simblissima-pedidos/pkg/logging"
)

type Answer int

const (
	Confirm Answer = iota
	Reject
)

type answerTexts struct {
	success string
	failure string
}

var answerMessages = map[Answer]answerTexts{
	Confirm: {
		success: "Valor final confirmado! O pedido foi confirmado.",
		failure: "Erro ao confirmar valor final",
	},
	Reject: {
		success: "Valor final recusado. O pedido foi cancelado.",
		failure: "Erro ao recusar valor final",
	},
}

// FinalValueHandler answers the final value proposed for an order, either accepting or refusing it.
type FinalValueHandler struct {
	views  ViewRegistry
	answer Answer
	logger *logging.ZapLogger
}

func NewFinalValueHandler(views ViewRegistry, answer Answer, logger *logging.ZapLogger) *FinalValueHandler {
	return &FinalValueHandler{
		views:  views,
		answer: answer,
		logger: logger,
	}
}

func (h *FinalValueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromURL(r)
	if err != nil {
		h.logger.InfoCtx(r.Context(), "bad final value request", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	v := acquireView(r, h.views)
	send := v.ConfirmFinalValue
	if h.answer == Reject {
		send = v.RejectFinalValue
	}

	h.respond(r.Context(), w, send(r.Context(), orderID))
	redirectToOrders(w, r)
}

func (h *FinalValueHandler) respond(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		notify.Set(w, notify.Message{Text: answerMessages[h.answer].success, Severity: notify.Success})
	case errors.Is(err, view.ErrAnswerInFlight):
		notify.Set(w, notify.Message{Text: "Sua resposta já está sendo processada", Severity: notify.Info})
	case errors.Is(err, view.ErrNotAwaitingConfirmation):
		h.logger.InfoCtx(ctx, "final value answered for an order not awaiting it", zap.Error(err))
		notify.Set(w, notify.Message{Text: answerMessages[h.answer].failure, Severity: notify.Warning})
	default:
		h.logger.ErrorCtx(ctx, "failed to answer final value", zap.Error(err))
		notify.Set(w, notify.Message{Text: answerMessages[h.answer].failure, Severity: notify.Danger})
	}
}
