package status

import "pedidos-backend/internal/models"

// shippedOrLater: ordens de produção que já saíram do produtor.
func shippedOrLater(s models.ProductionOrderStatus) bool {
	switch s {
	case models.ProductionStatusShipped, models.ProductionStatusDelivered, models.ProductionStatusCompleted:
		return true
	}
	return false
}

func deliveredOrLater(s models.ProductionOrderStatus) bool {
	return s == models.ProductionStatusDelivered || s == models.ProductionStatusCompleted
}

// AllChildrenDelivered: o pedido só pode ser confirmado como entregue quando
// toda ordem de produção filha chegou em delivered/completed. Ordens
// rejeitadas não contam; os itens voltam para a fila de envio.
func AllChildrenDelivered(children []models.ProductionOrderStatus) bool {
	active := 0
	for _, s := range children {
		if s == models.ProductionStatusRejected {
			continue
		}
		active++
		if !deliveredOrLater(s) {
			return false
		}
	}
	return active > 0
}

// CanConfirmDelivery: a entrega pode ser confirmada quando toda ordem de
// produção ativa chegou em delivered/completed. Pedido sem ordem ativa
// (itens todos de setor interno, ou só ordens rejeitadas) é produzido na
// própria fábrica e pode ser entregue direto.
func CanConfirmDelivery(children []models.ProductionOrderStatus) bool {
	for _, s := range children {
		if s == models.ProductionStatusRejected {
			continue
		}
		if !deliveredOrLater(s) {
			return false
		}
	}
	return true
}

// DeriveOrderDisplay calcula o status exibido do pedido a partir do status
// persistido e das ordens de produção filhas. partial_shipped existe apenas
// aqui: alguns produtores despacharam, outros ainda não.
func DeriveOrderDisplay(stored models.OrderStatus, children []models.ProductionOrderStatus) models.OrderStatus {
	if OrderTerminal(stored) || len(children) == 0 {
		return stored
	}

	if AllChildrenDelivered(children) {
		if stored == models.OrderStatusDelivered || stored == models.OrderStatusCompleted {
			return stored
		}
		return models.OrderStatusDelivered
	}

	shipped := 0
	active := 0
	for _, s := range children {
		if s == models.ProductionStatusRejected {
			continue
		}
		active++
		if shippedOrLater(s) {
			shipped++
		}
	}
	if active > 0 && shipped > 0 && shipped < active {
		return models.OrderStatusPartialShipped
	}
	if active > 0 && shipped == active {
		return models.OrderStatusShipped
	}
	return stored
}
