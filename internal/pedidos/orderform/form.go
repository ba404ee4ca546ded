// Package orderform models the new-order form: its rows, its validation and its submission.
package orderform

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"simblissima-pedidos/internal/common/pedidosprotocol"
)

const (
	DescriptionField   = "descricao"
	PriceField         = "preco"
	NotesField         = "observacoes"
	PaymentMethodField = "formaPagamento"
	ActionField        = "acao"
	RemoveRowField     = "remover"

	AddRowAction = "adicionar"
)

var (
	ErrPaymentMethodRequired = errors.New("payment method is required")
	ErrSubmitFailed          = errors.New("order creation failed")
)

type State int

const (
	Idle State = iota
	Editing
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type ActionKind int

const (
	Submit ActionKind = iota
	AddRow
	RemoveRow
)

type Action struct {
	Kind ActionKind
	Row  int
}

type Row struct {
	Description string
	Price       string
}

type Form struct {
	Rows          []Row
	Notes         string
	PaymentMethod string
	State         State
	// Validated turns on the validation feedback of the rendered form.
	Validated bool
}

func New() Form {
	return Form{State: Idle}
}

// Parse rebuilds the form from a POST body and tells which button was pressed.
func Parse(values url.Values) (Form, Action) {
	descriptions := values[DescriptionField]
	prices := values[PriceField]
	n := max(len(descriptions), len(prices))
	rows := make([]Row, n)
	for i := range n {
		if i < len(descriptions) {
			rows[i].Description = descriptions[i]
		}
		if i < len(prices) {
			rows[i].Price = prices[i]
		}
	}
	form := Form{
		Rows:          rows,
		Notes:         values.Get(NotesField),
		PaymentMethod: values.Get(PaymentMethodField),
		State:         Editing,
	}

	if values.Get(ActionField) == AddRowAction {
		return form, Action{Kind: AddRow}
	}
	if raw := values.Get(RemoveRowField); raw != "" {
		if row, err := strconv.Atoi(raw); err == nil {
			return form, Action{Kind: RemoveRow, Row: row}
		}
	}
	return form, Action{Kind: Submit}
}

func (f *Form) AddRow() {
	f.Rows = append(f.Rows, Row{})
	f.State = Editing
}

// RemoveRow drops the row at index i. Out-of-range indexes are ignored.
func (f *Form) RemoveRow(i int) {
	if i < 0 || i >= len(f.Rows) {
		return
	}
	f.Rows = append(f.Rows[:i:i], f.Rows[i+1:]...)
	f.State = Editing
}

func (f Form) Validate() error {
	if !pedidosprotocol.PaymentMethod(f.PaymentMethod).Known() {
		return ErrPaymentMethodRequired
	}
	return nil
}

// Request keeps only rows with a description and a non-negative price; the others are
// dropped without complaint.
func (f Form) Request() pedidosprotocol.CreateOrderRequest {
	items := make([]pedidosprotocol.Item, 0, len(f.Rows))
	for _, row := range f.Rows {
		description := strings.TrimSpace(row.Description)
		if description == "" {
			continue
		}
		price, ok := parsePrice(row.Price)
		if !ok {
			continue
		}
		items = append(items, pedidosprotocol.Item{
			Description: description,
			Price:       price,
		})
	}
	return pedidosprotocol.CreateOrderRequest{
		Items:         items,
		Notes:         strings.TrimSpace(f.Notes),
		PaymentMethod: pedidosprotocol.PaymentMethod(f.PaymentMethod),
	}
}

type Creator interface {
	CreateOrder(ctx context.Context, token string, order pedidosprotocol.CreateOrderRequest) error
}

// Submit validates the form and sends one creation request. A form that fails validation
// never reaches the creator.
func (f *Form) Submit(ctx context.Context, creator Creator, token string) error {
	if err := f.Validate(); err != nil {
		f.State = Editing
		f.Validated = true
		return err
	}
	f.State = Submitting
	if err := creator.CreateOrder(ctx, token, f.Request()); err != nil {
		f.State = Failed
		return fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	f.State = Succeeded
	return nil
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return decimal.Decimal{}, false
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Decimal{}, false
	}
	return price, true
}
