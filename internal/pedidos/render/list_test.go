package render

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simblissima-pedidos/internal/common/pedidosprotocol"
	"simblissima-pedidos/internal/pedidos/expansion"
)

func renderList(t *testing.T, state ListState) string {
	t.Helper()
	res, err := HTML(New(time.UTC).List(state))
	require.NoError(t, err)
	return res
}

func finalValue(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func deliveredOrder() pedidosprotocol.Order {
	return pedidosprotocol.Order{
		ID:        7,
		Status:    pedidosprotocol.Entregue,
		CreatedAt: pedidosprotocol.Timestamp{Time: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		Total:     decimal.NewFromFloat(42.5),
	}
}

func TestList_DeliveredOrderCollapsed(t *testing.T) {
	res := renderList(t, ListState{
		Loaded:   true,
		Orders:   []pedidosprotocol.Order{deliveredOrder()},
		Expanded: expansion.Set{},
	})

	assert.Contains(t, res, `id="listaPedidos"`)
	assert.Contains(t, res, "Pedido #7")
	assert.Contains(t, res, "05/03/2024")
	assert.Contains(t, res, "R$ 42.50")
	assert.Contains(t, res, "Entregue")
	assert.Contains(t, res, "📦")
	assert.Contains(t, res, "bg-success")
	assert.Contains(t, res, "bi bi-chevron-down text-muted")
	assert.Contains(t, res, `class="pedido-content-hidden"`)
	assert.NotContains(t, res, NoItemsMessage)
}

func TestList_DeliveredOrderExpanded(t *testing.T) {
	res := renderList(t, ListState{
		Loaded:   true,
		Orders:   []pedidosprotocol.Order{deliveredOrder()},
		Expanded: expansion.Set{"7": {}},
	})

	assert.Contains(t, res, "bi bi-chevron-up text-muted")
	assert.Contains(t, res, `class="pedido-content-visible"`)
	assert.Contains(t, res, NoItemsMessage)
	assert.Contains(t, res, NoHistoryMessage)
	assert.Contains(t, res, NoNotesMessage)
	assert.Contains(t, res, NoPaymentMessage)
	// no history: last update is the creation date
	assert.Contains(t, res, "05/03/2024 10:00:00")
	assert.NotContains(t, res, ConfirmLabel)
}

func TestList_Empty(t *testing.T) {
	res := renderList(t, ListState{Loaded: true})

	assert.Contains(t, res, NoOrdersMessage)
	assert.NotContains(t, res, "pedido-card")
	assert.NotContains(t, res, LoadingMessage)
}

func TestList_NotLoaded(t *testing.T) {
	res := renderList(t, ListState{})

	assert.Contains(t, res, LoadingMessage)
	assert.NotContains(t, res, NoOrdersMessage)
}

func TestList_ConfirmationPanel(t *testing.T) {
	tests := []struct {
		name      string
		status    pedidosprotocol.OrderStatus
		final     *decimal.Decimal
		wantPanel bool
	}{
		{name: "awaiting payment with final value", status: pedidosprotocol.AguardandoPagamento, final: finalValue(150), wantPanel: true},
		{name: "awaiting payment without final value", status: pedidosprotocol.AguardandoPagamento},
		{name: "pending with final value", status: pedidosprotocol.Pendente, final: finalValue(150)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := pedidosprotocol.Order{
				ID:         3,
				Status:     tt.status,
				Total:      decimal.NewFromFloat(100),
				FinalValue: tt.final,
			}
			res := renderList(t, ListState{
				Loaded:   true,
				Orders:   []pedidosprotocol.Order{order},
				Expanded: expansion.Set{"3": {}},
			})

			if tt.wantPanel {
				assert.Contains(t, res, `id="confirmar-valor-3"`)
				assert.Contains(t, res, `id="recusar-valor-3"`)
				assert.Contains(t, res, ConfirmAction(3))
				assert.Contains(t, res, RejectAction(3))
				assert.Contains(t, res, "R$ 150.00")
			} else {
				assert.NotContains(t, res, ConfirmLabel)
			}
		})
	}
}

func TestList_ConfirmingDisablesButtons(t *testing.T) {
	order := pedidosprotocol.Order{
		ID:         3,
		Status:     pedidosprotocol.AguardandoPagamento,
		Total:      decimal.NewFromFloat(100),
		FinalValue: finalValue(150),
	}
	res := renderList(t, ListState{
		Loaded:     true,
		Orders:     []pedidosprotocol.Order{order},
		Expanded:   expansion.Set{"3": {}},
		Confirming: map[int64]struct{}{3: {}},
	})

	assert.Contains(t, res, ProcessingLabel)
	assert.NotContains(t, res, ConfirmLabel)
	assert.Equal(t, 2, strings.Count(res, `disabled=""`))
}

func TestList_HistoryAndItems(t *testing.T) {
	order := deliveredOrder()
	order.Notes = "sem cebola"
	order.PaymentMethod = pedidosprotocol.Pix
	order.Items = []pedidosprotocol.Item{{Description: "Caixa", Price: decimal.NewFromFloat(10)}}
	order.History = []pedidosprotocol.StatusEntry{
		{Status: pedidosprotocol.Pendente, Date: pedidosprotocol.Timestamp{Time: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}},
		{Status: pedidosprotocol.Entregue, Date: pedidosprotocol.Timestamp{Time: time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)}, Comment: "entregue na portaria"},
	}
	res := renderList(t, ListState{
		Loaded:   true,
		Orders:   []pedidosprotocol.Order{order},
		Expanded: expansion.Set{"7": {}},
	})

	assert.Contains(t, res, "Caixa")
	assert.Contains(t, res, "R$ 10.00")
	assert.Contains(t, res, "sem cebola")
	assert.Contains(t, res, "Pix")
	assert.Contains(t, res, "09/03/2024 18:30:00")
	assert.Contains(t, res, "entregue na portaria")
	assert.Equal(t, 1, strings.Count(res, "historico-comentario"))
}

func TestList_UsesLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	order := deliveredOrder()
	order.CreatedAt = pedidosprotocol.Timestamp{Time: time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC)}

	res, err := HTML(New(loc).List(ListState{Loaded: true, Orders: []pedidosprotocol.Order{order}}))
	require.NoError(t, err)

	assert.Contains(t, res, "04/03/2024")
}

func TestList_NaiveTimestampsKeepWallClock(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	order := deliveredOrder()
	order.CreatedAt = pedidosprotocol.Timestamp{Time: time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC), Naive: true}
	order.History = []pedidosprotocol.StatusEntry{
		{Status: pedidosprotocol.Entregue, Date: pedidosprotocol.Timestamp{Time: time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC), Naive: true}},
	}

	res, err := HTML(New(loc).List(ListState{Loaded: true, Orders: []pedidosprotocol.Order{order}}))
	require.NoError(t, err)

	assert.Contains(t, res, "05/03/2024")
	assert.NotContains(t, res, "04/03/2024")
	assert.Contains(t, res, "09/03/2024 18:30:00")
}

func TestLabels_Fallbacks(t *testing.T) {
	unknown := pedidosprotocol.OrderStatus("DEVOLVIDO")

	assert.Equal(t, "DEVOLVIDO", StatusLabel(unknown))
	assert.Equal(t, "bg-secondary", BadgeClass(unknown))
	assert.Equal(t, "⚪", StatusIcon(unknown))
	assert.Equal(t, "TED", PaymentMethodLabel("TED"))
	assert.Equal(t, "Cartão de Crédito", PaymentMethodLabel(pedidosprotocol.CartaoCredito))
	assert.Equal(t, "Em Trânsito", StatusLabel(pedidosprotocol.EmTransito))
}
