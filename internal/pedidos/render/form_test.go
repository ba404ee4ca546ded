package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simblissima-pedidos/internal/pedidos/notify"
	"simblissima-pedidos/internal/pedidos/orderform"
)

func TestCreationForm(t *testing.T) {
	form := orderform.New()
	form.AddRow()
	form.Rows[0] = orderform.Row{Description: "Caixa", Price: "10.50"}
	form.AddRow()
	form.PaymentMethod = "BOLETO"

	res, err := HTML(New(time.UTC).CreationForm(form))
	require.NoError(t, err)

	assert.Contains(t, res, `id="novoPedidoForm"`)
	assert.Contains(t, res, `class="needs-validation"`)
	assert.Equal(t, 2, strings.Count(res, `class="item-pedido`))
	assert.Contains(t, res, "Caixa")
	assert.Contains(t, res, `value="10.50"`)
	assert.Contains(t, res, `name="remover" value="1"`)
	assert.Contains(t, res, `<option value="BOLETO" selected="">Boleto</option>`)
	assert.Contains(t, res, "Escolha a forma de pagamento")
}

func TestCreationForm_Validated(t *testing.T) {
	form := orderform.New()
	form.Validated = true

	res, err := HTML(New(time.UTC).CreationForm(form))
	require.NoError(t, err)

	assert.Contains(t, res, `class="needs-validation was-validated"`)
	assert.NotContains(t, res, `class="item-pedido`)
	assert.NotContains(t, res, `selected=""`)
}

func TestPage(t *testing.T) {
	r := New(time.UTC)
	page := r.Page(Page{
		Title:   "Meus Pedidos",
		Toast:   &notify.Message{Text: "Pedido criado com sucesso!", Severity: notify.Success},
		Content: r.OrdersView(r.List(ListState{Loaded: true})),
		Scripts: []string{LiveUpdatesScript},
	})

	res, err := Document(page)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res, "<!DOCTYPE html><html"))
	assert.Contains(t, res, "alert-success")
	assert.Contains(t, res, "Pedido criado com sucesso!")
	assert.Contains(t, res, `id="content"`)
	assert.Contains(t, res, NoOrdersMessage)
	assert.Contains(t, res, LeavePath)
	assert.Contains(t, res, LiveUpdatesPath)
}

func TestToast_Nil(t *testing.T) {
	assert.Nil(t, Toast(nil))
}
