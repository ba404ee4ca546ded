package render

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/net/html"

	"simblissima-pedidos/internal/common/pedidosprotocol"
	"simblissima-pedidos/internal/pedidos/expansion"
)

const (
	ListID = "listaPedidos"

	LoadingMessage   = "Carregando..."
	NoOrdersMessage  = "Nenhum pedido encontrado."
	NoItemsMessage   = "Nenhum item"
	NoNotesMessage   = "Nenhuma"
	NoPaymentMessage = "Não definido"
	NoHistoryMessage = "Sem histórico"

	ConfirmLabel    = "Confirmar Valor"
	RejectLabel     = "Recusar Valor"
	ProcessingLabel = "Processando..."

	visibleContentClass = "pedido-content-visible"
	hiddenContentClass  = "pedido-content-hidden"
)

func ContentID(orderID int64) string {
	return fmt.Sprintf("pedido-content-usuario-%d", orderID)
}

func ToggleIconID(orderID int64) string {
	return fmt.Sprintf("pedido-toggle-icon-usuario-%d", orderID)
}

func ConfirmButtonID(orderID int64) string {
	return fmt.Sprintf("confirmar-valor-%d", orderID)
}

func RejectButtonID(orderID int64) string {
	return fmt.Sprintf("recusar-valor-%d", orderID)
}

type Renderer struct {
	location *time.Location
}

// New returns a renderer that prints dates in location (UTC when nil).
func New(location *time.Location) *Renderer {
	if location == nil {
		location = time.UTC
	}
	return &Renderer{location: location}
}

type ListState struct {
	// Loaded is false until the first list response arrived.
	Loaded   bool
	Orders   []pedidosprotocol.Order
	Expanded expansion.Set
	// Confirming holds the orders whose final-value answer is in flight.
	Confirming map[int64]struct{}
}

// List renders the order list. It reads nothing but state.
func (r *Renderer) List(state ListState) *html.Node {
	list := el("div", attrs("id", ListID, "class", "pedidos-lista"))
	switch {
	case !state.Loaded:
		list.AppendChild(spinner())
	case len(state.Orders) == 0:
		list.AppendChild(el("p", attrs("class", "text-center"), text(NoOrdersMessage)))
	default:
		for _, order := range state.Orders {
			_, confirming := state.Confirming[order.ID]
			list.AppendChild(r.orderCard(order, state.Expanded.Has(order.ID), confirming))
		}
	}
	return list
}

func spinner() *html.Node {
	return el("div", attrs("class", "text-center"),
		el("div", attrs("class", "spinner-border", "role", "status"),
			el("span", attrs("class", "visually-hidden"), text(LoadingMessage)),
		),
	)
}

func (r *Renderer) orderCard(order pedidosprotocol.Order, expanded, confirming bool) *html.Node {
	chevron, contentClass := "down", hiddenContentClass
	if expanded {
		chevron, contentClass = "up", visibleContentClass
	}

	header := el("form", attrs("method", "post", "action", ToggleAction(order.ID), "class", "pedido-header"),
		el("button", attrs(
			"type", "submit",
			"class", "card-body p-3 d-flex flex-column flex-md-row justify-content-between align-items-md-center "+
				"gap-3 w-100 border-0 bg-transparent text-start pedido-header-clickable",
			"aria-expanded", strconv.FormatBool(expanded),
			"aria-controls", ContentID(order.ID),
		),
			el("div", attrs("class", "d-flex flex-column flex-md-row align-items-md-center gap-3 w-100"),
				el("div", attrs("class", "d-flex align-items-center gap-2"),
					el("span", attrs("class", "badge "+BadgeClass(order.Status)+" px-3 py-2 rounded-pill"),
						text(StatusIcon(order.Status)),
					),
					el("span", attrs("class", "fw-bold fs-5"), textf("Pedido #%d", order.ID)),
				),
				el("span", attrs("class", "text-muted small pedido-data"), text(r.date(order.CreatedAt))),
			),
			el("div", attrs("class", "d-flex flex-column flex-md-row align-items-md-center gap-3 w-100 justify-content-md-end"),
				el("span", attrs("class", "fw-bold text-primary fs-5 pedido-valor"), text(Money(order.DisplayValue()))),
				el("span", attrs("class", "text-muted small pedido-status"), text(StatusLabel(order.Status))),
				el("span", attrs("class", "pedido-toggle-arrow"),
					el("i", attrs("id", ToggleIconID(order.ID), "class", "bi bi-chevron-"+chevron+" text-muted")),
				),
			),
		),
	)

	content := el("div", attrs("id", ContentID(order.ID), "class", contentClass),
		when(expanded, func() *html.Node { return r.orderDetail(order, confirming) }),
	)

	return el("div", attrs(
		"class", "card mb-4 border-0 rounded-3 pedido-card",
		"data-pedido-id", strconv.FormatInt(order.ID, 10),
	), header, content)
}

func (r *Renderer) orderDetail(order pedidosprotocol.Order, confirming bool) *html.Node {
	notes := text(order.Notes)
	if order.Notes == "" {
		notes = muted(NoNotesMessage)
	}
	payment := text(PaymentMethodLabel(order.PaymentMethod))
	if order.PaymentMethod == "" {
		payment = muted(NoPaymentMessage)
	}

	return el("div", attrs("class", "p-4"),
		el("div", attrs("class", "mb-4"),
			el("strong", attrs("class", "d-block mb-3 fs-6"), text("Itens do Pedido:")),
			itemList(order.Items),
		),
		el("div", attrs("class", "row g-3"),
			el("div", attrs("class", "col-md-6"),
				field("Status:", text(StatusLabel(order.Status))),
				field("Última atualização:", text(r.dateTime(order.LastUpdate()))),
			),
			el("div", attrs("class", "col-md-6"),
				field("Observação:", notes),
				field("Pagamento:", payment),
			),
		),
		when(order.AwaitsConfirmation(), func() *html.Node { return confirmationPanel(order, confirming) }),
		el("div", attrs("class", "mt-4"),
			el("strong", attrs("class", "text-secondary d-block mb-3"), text("Histórico:")),
			r.historyList(order.History),
		),
	)
}

func itemList(items []pedidosprotocol.Item) *html.Node {
	list := el("ul", attrs("class", "list-unstyled mb-2 pedido-itens"))
	if len(items) == 0 {
		list.AppendChild(el("li", attrs("class", "text-muted text-center py-2"), text(NoItemsMessage)))
		return list
	}
	for _, item := range items {
		list.AppendChild(el("li", attrs("class", "d-flex justify-content-between border-bottom py-2"),
			el("span", nil, text(item.Description)),
			el("span", attrs("class", "text-end w-25 fw-bold"), text(Money(item.Price))),
		))
	}
	return list
}

func confirmationPanel(order pedidosprotocol.Order, confirming bool) *html.Node {
	confirmAttrs := attrs("id", ConfirmButtonID(order.ID), "type", "submit", "class", "btn btn-success btn-sm px-4")
	rejectAttrs := attrs("id", RejectButtonID(order.ID), "type", "submit", "class", "btn btn-outline-danger btn-sm px-4")
	confirmLabel := ConfirmLabel
	if confirming {
		confirmAttrs = append(confirmAttrs, attrs("disabled", "")...)
		rejectAttrs = append(rejectAttrs, attrs("disabled", "")...)
		confirmLabel = ProcessingLabel
	}

	return el("div", attrs("class", "alert alert-info mt-3 p-3 pedido-confirmacao"),
		el("strong", nil, text("Valor Final:")),
		text(" "+Money(*order.FinalValue)),
		el("div", attrs("class", "mt-3 d-flex gap-2"),
			el("form", attrs("method", "post", "action", ConfirmAction(order.ID)),
				el("button", confirmAttrs, el("i", attrs("class", "bi bi-check-lg me-2")), text(confirmLabel)),
			),
			el("form", attrs("method", "post", "action", RejectAction(order.ID)),
				el("button", rejectAttrs, el("i", attrs("class", "bi bi-x-lg me-2")), text(RejectLabel)),
			),
		),
	)
}

func (r *Renderer) historyList(history []pedidosprotocol.StatusEntry) *html.Node {
	list := el("ul", attrs("class", "list-unstyled mb-0 pedido-historico"))
	if len(history) == 0 {
		list.AppendChild(el("li", attrs("class", "text-muted"), text(NoHistoryMessage)))
		return list
	}
	for _, entry := range history {
		comment := entry.Comment
		list.AppendChild(el("li", attrs("class", "small historico-status-item mb-3 border-start ps-3"),
			el("div", attrs("class", "d-flex align-items-baseline gap-2"),
				el("span", nil, text(StatusIcon(entry.Status))),
				el("div", attrs("class", "flex-grow-1"),
					el("div", attrs("class", "d-flex align-items-baseline gap-2"),
						el("span", attrs("class", "fw-bold"), text(StatusLabel(entry.Status))),
						el("span", attrs("class", "text-muted small"), text("- "+r.dateTime(entry.Date))),
					),
					when(comment != "", func() *html.Node {
						return el("div", attrs("class", "mt-1 text-muted historico-comentario"),
							el("i", attrs("class", "bi bi-chat-left-text me-2")),
							text(comment),
						)
					}),
				),
			),
		))
	}
	return list
}

func field(label string, value *html.Node) *html.Node {
	return el("div", attrs("class", "mb-3"),
		el("strong", attrs("class", "text-secondary"), text(label)),
		el("span", attrs("class", "ms-2"), value),
	)
}

func muted(s string) *html.Node {
	return el("span", attrs("class", "text-muted"), text(s))
}
