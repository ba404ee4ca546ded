package pedidosprotocol

import (
	"github.com/shopspring/decimal"
)

const (
	Pendente            OrderStatus = "PENDENTE"
	AguardandoPagamento OrderStatus = "AGUARDANDO_PAGAMENTO"
	Confirmado          OrderStatus = "CONFIRMADO"
	EmTransito          OrderStatus = "EM_TRANSITO"
	Entregue            OrderStatus = "ENTREGUE"
	Cancelado           OrderStatus = "CANCELADO"
)

type OrderStatus string

const (
	Pix           PaymentMethod = "PIX"
	CartaoDebito  PaymentMethod = "CARTAO_DEBITO"
	CartaoCredito PaymentMethod = "CARTAO_CREDITO"
	Boleto        PaymentMethod = "BOLETO"
)

type PaymentMethod string

// PaymentMethods lists the codes in the order they are offered to the customer.
var PaymentMethods = []PaymentMethod{Pix, CartaoDebito, CartaoCredito, Boleto}

func (m PaymentMethod) Known() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

type Item struct {
	Description string          `json:"descricao"`
	Price       decimal.Decimal `json:"preco"`
}

type StatusEntry struct {
	Status  OrderStatus `json:"status"`
	Date    Timestamp   `json:"data"`
	Comment string      `json:"comentario"`
}

type Order struct {
	ID            int64            `json:"id"`
	Status        OrderStatus      `json:"status"`
	CreatedAt     Timestamp        `json:"data_criacao"`
	Total         decimal.Decimal  `json:"valor_total"`
	FinalValue    *decimal.Decimal `json:"valor_final"`
	Notes         string           `json:"observacoes"`
	PaymentMethod PaymentMethod    `json:"metodo_pagamento"`
	Items         []Item           `json:"itens"`
	History       []StatusEntry    `json:"historico_status"`
}

// DisplayValue is the finalized value when the staff set one, the running total otherwise.
func (o Order) DisplayValue() decimal.Decimal {
	if o.FinalValue != nil {
		return *o.FinalValue
	}
	return o.Total
}

// LastUpdate is the date of the most recent history entry, or the creation date.
func (o Order) LastUpdate() Timestamp {
	if len(o.History) > 0 {
		return o.History[len(o.History)-1].Date
	}
	return o.CreatedAt
}

// AwaitsConfirmation reports whether the customer has to accept or refuse a finalized value.
func (o Order) AwaitsConfirmation() bool {
	return o.Status == AguardandoPagamento && o.FinalValue != nil
}

type OrderList struct {
	Results []Order `json:"results"`
}

type CreateOrderRequest struct {
	Items         []Item        `json:"itens"`
	Notes         string        `json:"observacoes"`
	PaymentMethod PaymentMethod `json:"metodo_pagamento"`
}

type StatusUpdateRequest struct {
	Status  OrderStatus `json:"status"`
	Comment string      `json:"comentario"`
}
