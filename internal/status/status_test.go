package status

import (
	"testing"

	"pedidos-backend/internal/models"
)

func TestOrderTransitions(t *testing.T) {
	tests := []struct {
		name string
		from models.OrderStatus
		to   models.OrderStatus
		ok   bool
	}{
		{"pending to confirmed", models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{"confirmed to production", models.OrderStatusConfirmed, models.OrderStatusProduction, true},
		{"production to ready", models.OrderStatusProduction, models.OrderStatusReady, true},
		{"ready to shipped", models.OrderStatusReady, models.OrderStatusShipped, true},
		{"shipped to delivered", models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{"delivered to completed", models.OrderStatusDelivered, models.OrderStatusCompleted, true},
		{"pending skips to shipped", models.OrderStatusPending, models.OrderStatusShipped, false},
		{"delivered back to production", models.OrderStatusDelivered, models.OrderStatusProduction, false},
		{"completed to cancelled", models.OrderStatusCompleted, models.OrderStatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrderTransition(tt.from, tt.to)
			if (err == nil) != tt.ok {
				t.Errorf("ValidateOrderTransition(%s, %s) error = %v, want ok=%v", tt.from, tt.to, err, tt.ok)
			}
		})
	}
}

func TestOrderCancellableFromAnyNonTerminal(t *testing.T) {
	nonTerminal := []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusProduction,
		models.OrderStatusReady, models.OrderStatusShipped, models.OrderStatusDelivered,
	}
	for _, from := range nonTerminal {
		if err := ValidateOrderTransition(from, models.OrderStatusCancelled); err != nil {
			t.Errorf("cancelamento a partir de %s deveria ser permitido: %v", from, err)
		}
	}
	if err := ValidateOrderTransition(models.OrderStatusCancelled, models.OrderStatusCancelled); err == nil {
		t.Error("cancelled é terminal, não deveria aceitar nova transição")
	}
}

func TestPartialShippedNotStorable(t *testing.T) {
	if err := ValidateOrderTransition(models.OrderStatusReady, models.OrderStatusPartialShipped); err == nil {
		t.Error("partial_shipped é derivado, não deveria ser aceito como destino")
	}
}

func TestProductionTransitions(t *testing.T) {
	tests := []struct {
		from models.ProductionOrderStatus
		to   models.ProductionOrderStatus
		ok   bool
	}{
		{models.ProductionStatusPending, models.ProductionStatusAccepted, true},
		{models.ProductionStatusPending, models.ProductionStatusRejected, true},
		{models.ProductionStatusAccepted, models.ProductionStatusProduction, true},
		{models.ProductionStatusProduction, models.ProductionStatusReady, true},
		{models.ProductionStatusReady, models.ProductionStatusShipped, true},
		{models.ProductionStatusShipped, models.ProductionStatusDelivered, true},
		{models.ProductionStatusDelivered, models.ProductionStatusCompleted, true},
		{models.ProductionStatusAccepted, models.ProductionStatusRejected, false},
		{models.ProductionStatusPending, models.ProductionStatusShipped, false},
		{models.ProductionStatusRejected, models.ProductionStatusAccepted, false},
		{models.ProductionStatusCompleted, models.ProductionStatusPending, false},
	}
	for _, tt := range tests {
		got := CanTransitionProduction(tt.from, tt.to)
		if got != tt.ok {
			t.Errorf("CanTransitionProduction(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestBudgetTransitions(t *testing.T) {
	tests := []struct {
		from models.BudgetStatus
		to   models.BudgetStatus
		ok   bool
	}{
		{models.BudgetStatusDraft, models.BudgetStatusSent, true},
		{models.BudgetStatusSent, models.BudgetStatusApproved, true},
		{models.BudgetStatusSent, models.BudgetStatusConverted, true},
		{models.BudgetStatusApproved, models.BudgetStatusConverted, true},
		{models.BudgetStatusDraft, models.BudgetStatusConverted, false},
		{models.BudgetStatusConverted, models.BudgetStatusDraft, false},
		{models.BudgetStatusRejected, models.BudgetStatusSent, false},
	}
	for _, tt := range tests {
		got := CanTransitionBudget(tt.from, tt.to)
		if got != tt.ok {
			t.Errorf("CanTransitionBudget(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestCommissionTransitions(t *testing.T) {
	if !CanTransitionCommission(models.CommissionStatusPending, models.CommissionStatusConfirmed) {
		t.Error("pending -> confirmed deveria ser permitido")
	}
	if !CanTransitionCommission(models.CommissionStatusConfirmed, models.CommissionStatusPaid) {
		t.Error("confirmed -> paid deveria ser permitido")
	}
	if CanTransitionCommission(models.CommissionStatusPending, models.CommissionStatusPaid) {
		t.Error("pending -> paid não deveria ser permitido sem confirmação")
	}
	if CanTransitionCommission(models.CommissionStatusPaid, models.CommissionStatusConfirmed) {
		t.Error("paid é terminal")
	}
}

func TestDeriveOrderDisplay(t *testing.T) {
	p := models.ProductionStatusProduction
	sh := models.ProductionStatusShipped
	d := models.ProductionStatusDelivered
	co := models.ProductionStatusCompleted
	rj := models.ProductionStatusRejected

	tests := []struct {
		name     string
		stored   models.OrderStatus
		children []models.ProductionOrderStatus
		want     models.OrderStatus
	}{
		{"sem filhas mantém status", models.OrderStatusProduction, nil, models.OrderStatusProduction},
		{"todas entregues vira delivered", models.OrderStatusShipped, []models.ProductionOrderStatus{d, co}, models.OrderStatusDelivered},
		{"uma despachada de duas vira partial_shipped", models.OrderStatusProduction, []models.ProductionOrderStatus{sh, p}, models.OrderStatusPartialShipped},
		{"todas despachadas vira shipped", models.OrderStatusProduction, []models.ProductionOrderStatus{sh, sh}, models.OrderStatusShipped},
		{"nenhuma despachada mantém status", models.OrderStatusProduction, []models.ProductionOrderStatus{p, p}, models.OrderStatusProduction},
		{"rejeitada não conta como ativa", models.OrderStatusShipped, []models.ProductionOrderStatus{d, rj}, models.OrderStatusDelivered},
		{"só rejeitadas mantém status", models.OrderStatusConfirmed, []models.ProductionOrderStatus{rj}, models.OrderStatusConfirmed},
		{"cancelado ignora filhas", models.OrderStatusCancelled, []models.ProductionOrderStatus{d, d}, models.OrderStatusCancelled},
		{"completed não regride para delivered", models.OrderStatusCompleted, []models.ProductionOrderStatus{co, co}, models.OrderStatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveOrderDisplay(tt.stored, tt.children)
			if got != tt.want {
				t.Errorf("DeriveOrderDisplay(%s, %v) = %s, want %s", tt.stored, tt.children, got, tt.want)
			}
		})
	}
}

func TestCanConfirmDelivery(t *testing.T) {
	p := models.ProductionStatusProduction
	sh := models.ProductionStatusShipped
	d := models.ProductionStatusDelivered
	co := models.ProductionStatusCompleted
	rj := models.ProductionStatusRejected

	tests := []struct {
		name     string
		children []models.ProductionOrderStatus
		want     bool
	}{
		{"pedido só de setor interno entrega direto", nil, true},
		{"só ordens rejeitadas entrega direto", []models.ProductionOrderStatus{rj}, true},
		{"todas entregues", []models.ProductionOrderStatus{d, co}, true},
		{"entregue mais rejeitada", []models.ProductionOrderStatus{d, rj}, true},
		{"uma só despachada bloqueia", []models.ProductionOrderStatus{d, sh}, false},
		{"em produção bloqueia", []models.ProductionOrderStatus{p}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanConfirmDelivery(tt.children)
			if got != tt.want {
				t.Errorf("CanConfirmDelivery(%v) = %v, want %v", tt.children, got, tt.want)
			}
		})
	}
}

func TestAllChildrenDelivered(t *testing.T) {
	d := models.ProductionStatusDelivered
	co := models.ProductionStatusCompleted
	sh := models.ProductionStatusShipped

	if AllChildrenDelivered(nil) {
		t.Error("sem filhas não pode contar como entregue")
	}
	if !AllChildrenDelivered([]models.ProductionOrderStatus{d, co}) {
		t.Error("delivered+completed deveria contar como entregue")
	}
	if AllChildrenDelivered([]models.ProductionOrderStatus{d, sh}) {
		t.Error("uma filha apenas despachada não pode contar como entregue")
	}
}
