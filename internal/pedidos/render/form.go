package render

import (
	"strconv"

	"golang.org/x/net/html"

	"simblissima-pedidos/internal/common/pedidosprotocol"
	"simblissima-pedidos/internal/pedidos/orderform"
)

const formID = "novoPedidoForm"

func (r *Renderer) CreationForm(form orderform.Form) *html.Node {
	formClass := "needs-validation"
	if form.Validated {
		formClass += " was-validated"
	}

	rows := el("div", attrs("class", "itens-list"))
	for i, row := range form.Rows {
		rows.AppendChild(ItemRow(i, row))
	}

	return el("div", attrs("class", "order-detail-container novo-pedido-container"),
		el("div", attrs("class", "card"),
			el("div", attrs("class", "card-header d-flex justify-content-between align-items-center"),
				el("h3", attrs("class", "mb-0"), text("Novo Pedido")),
				el("div", attrs("class", "d-flex gap-2"),
					el("button", attrs("type", "submit", "form", formID, "class", "btn btn-primary"), text("Salvar Pedido")),
					el("a", attrs("class", "btn btn-secondary", "href", OrdersPath), text("Cancelar")),
				),
			),
			el("div", attrs("class", "card-body"),
				el("form", attrs("id", formID, "method", "post", "action", NewOrderPath, "class", formClass),
					el("div", attrs("id", "itensPedido"),
						el("h5", nil, text("Itens do Pedido")),
						rows,
						el("button", attrs(
							"type", "submit",
							"name", orderform.ActionField,
							"value", orderform.AddRowAction,
							"formnovalidate", "",
							"class", "btn btn-secondary btn-sm mt-2",
						), text("Adicionar Item")),
					),
					el("div", attrs("class", "mb-3 mt-3"),
						el("label", attrs("class", "form-label", "for", "observacoes"), text("Observações")),
						el("textarea", attrs("class", "form-control", "id", "observacoes", "name", orderform.NotesField, "rows", "2"),
							text(form.Notes),
						),
					),
					el("div", attrs("class", "mb-3"),
						el("label", attrs("class", "form-label", "for", "formaPagamento"), text("Forma de Pagamento")),
						paymentSelect(form.PaymentMethod),
						el("div", attrs("class", "invalid-feedback"), text("Escolha a forma de pagamento")),
					),
				),
			),
		),
	)
}

// ItemRow renders one editable line item. The index only names the row's remove button.
func ItemRow(index int, row orderform.Row) *html.Node {
	return el("div", attrs("class", "item-pedido mb-3 p-3 border rounded"),
		el("div", attrs("class", "mb-2"),
			el("label", attrs("class", "form-label"), text("Descrição")),
			el("textarea", attrs("class", "form-control item-descricao", "name", orderform.DescriptionField, "rows", "2"),
				text(row.Description),
			),
		),
		el("div", attrs("class", "mb-2"),
			el("label", attrs("class", "form-label"), text("Preço")),
			el("input", attrs(
				"type", "number",
				"class", "form-control item-preco",
				"name", orderform.PriceField,
				"step", "0.01",
				"min", "0",
				"value", row.Price,
			)),
		),
		el("button", attrs(
			"type", "submit",
			"name", orderform.RemoveRowField,
			"value", strconv.Itoa(index),
			"formnovalidate", "",
			"class", "btn btn-danger btn-sm",
		), text("Remover Item")),
	)
}

func paymentSelect(selected string) *html.Node {
	sel := el("select", attrs(
		"class", "form-select",
		"id", "formaPagamento",
		"name", orderform.PaymentMethodField,
		"required", "",
	), el("option", attrs("value", ""), text("Selecione...")))
	for _, method := range pedidosprotocol.PaymentMethods {
		optionAttrs := attrs("value", string(method))
		if string(method) == selected {
			optionAttrs = append(optionAttrs, attrs("selected", "")...)
		}
		sel.AppendChild(el("option", optionAttrs, text(PaymentMethodLabel(method))))
	}
	return sel
}
