package render

import (
	"github.com/shopspring/decimal"

	"simblissima-pedidos/internal/common/pedidosprotocol"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04:05"

	defaultBadgeClass = "bg-secondary"
	defaultStatusIcon = "⚪"
)

var statusLabels = map[pedidosprotocol.OrderStatus]string{
	pedidosprotocol.Pendente:            "Pendente",
	pedidosprotocol.AguardandoPagamento: "Aguardando Pagamento",
	pedidosprotocol.Confirmado:          "Confirmado",
	pedidosprotocol.EmTransito:          "Em Trânsito",
	pedidosprotocol.Entregue:            "Entregue",
	pedidosprotocol.Cancelado:           "Cancelado",
}

var paymentMethodLabels = map[pedidosprotocol.PaymentMethod]string{
	pedidosprotocol.Pix:           "Pix",
	pedidosprotocol.CartaoDebito:  "Cartão de Débito",
	pedidosprotocol.CartaoCredito: "Cartão de Crédito",
	pedidosprotocol.Boleto:        "Boleto",
}

var badgeClasses = map[pedidosprotocol.OrderStatus]string{
	pedidosprotocol.Pendente:            "bg-warning",
	pedidosprotocol.AguardandoPagamento: "bg-info",
	pedidosprotocol.Confirmado:          "bg-primary",
	pedidosprotocol.EmTransito:          "bg-info",
	pedidosprotocol.Entregue:            "bg-success",
	pedidosprotocol.Cancelado:           "bg-danger",
}

var statusIcons = map[pedidosprotocol.OrderStatus]string{
	pedidosprotocol.Pendente:            "🕒",
	pedidosprotocol.AguardandoPagamento: "💰",
	pedidosprotocol.Confirmado:          "✅",
	pedidosprotocol.EmTransito:          "⛵",
	pedidosprotocol.Entregue:            "📦",
	pedidosprotocol.Cancelado:           "❌",
}

// StatusLabel falls back to the raw status for codes it does not know.
func StatusLabel(status pedidosprotocol.OrderStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// PaymentMethodLabel returns "" for an absent method and the raw code for an unknown one.
func PaymentMethodLabel(method pedidosprotocol.PaymentMethod) string {
	if label, ok := paymentMethodLabels[method]; ok {
		return label
	}
	return string(method)
}

func BadgeClass(status pedidosprotocol.OrderStatus) string {
	if class, ok := badgeClasses[status]; ok {
		return class
	}
	return defaultBadgeClass
}

func StatusIcon(status pedidosprotocol.OrderStatus) string {
	if icon, ok := statusIcons[status]; ok {
		return icon
	}
	return defaultStatusIcon
}

func Money(value decimal.Decimal) string {
	return "R$ " + value.StringFixed(2)
}

func (r *Renderer) date(ts pedidosprotocol.Timestamp) string {
	return ts.In(r.location).Format(dateLayout)
}

func (r *Renderer) dateTime(ts pedidosprotocol.Timestamp) string {
	return ts.In(r.location).Format(dateTimeLayout)
}
