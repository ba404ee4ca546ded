package render

import "fmt"

const (
	OrdersPath      = "/pedidos/"
	ListPath        = "/pedidos/lista"
	NewOrderPath    = "/pedidos/novo"
	LeavePath       = "/pedidos/sair"
	LiveUpdatesPath = "/pedidos/ws"
)

func ToggleAction(orderID int64) string {
	return fmt.Sprintf("/pedidos/%d/alternar", orderID)
}

func ConfirmAction(orderID int64) string {
	return fmt.Sprintf("/pedidos/%d/confirmar", orderID)
}

func RejectAction(orderID int64) string {
	return fmt.Sprintf("/pedidos/%d/recusar", orderID)
}
