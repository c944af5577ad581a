package status

import (
	"fmt"

	"pedidos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Tabelas de transição explícitas. Qualquer mudança de status passa por
// Validate*; comparações soltas de string ficam proibidas nos handlers.

var budgetTransitions = map[models.BudgetStatus][]models.BudgetStatus{
	models.BudgetStatusDraft:    {models.BudgetStatusSent, models.BudgetStatusRejected},
	models.BudgetStatusSent:     {models.BudgetStatusApproved, models.BudgetStatusRejected, models.BudgetStatusConverted},
	models.BudgetStatusApproved: {models.BudgetStatusConverted, models.BudgetStatusRejected},
	// rejected e converted são terminais
}

var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:  {models.OrderStatusProduction, models.OrderStatusCancelled},
	models.OrderStatusProduction: {models.OrderStatusReady, models.OrderStatusCancelled},
	models.OrderStatusReady:      {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusCancelled},
	models.OrderStatusDelivered:  {models.OrderStatusCompleted, models.OrderStatusCancelled},
	// completed e cancelled são terminais
}

var productionTransitions = map[models.ProductionOrderStatus][]models.ProductionOrderStatus{
	models.ProductionStatusPending:    {models.ProductionStatusAccepted, models.ProductionStatusRejected},
	models.ProductionStatusAccepted:   {models.ProductionStatusProduction},
	models.ProductionStatusProduction: {models.ProductionStatusReady},
	models.ProductionStatusReady:      {models.ProductionStatusShipped},
	models.ProductionStatusShipped:    {models.ProductionStatusDelivered},
	models.ProductionStatusDelivered:  {models.ProductionStatusCompleted},
	// completed e rejected são terminais
}

var commissionTransitions = map[models.CommissionStatus][]models.CommissionStatus{
	models.CommissionStatusPending:   {models.CommissionStatusConfirmed, models.CommissionStatusCancelled, models.CommissionStatusDeducted},
	models.CommissionStatusConfirmed: {models.CommissionStatusPaid, models.CommissionStatusCancelled, models.CommissionStatusDeducted},
	// paid, cancelled e deducted são terminais
}

func contains[S ~string](list []S, s S) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func CanTransitionBudget(from, to models.BudgetStatus) bool {
	return contains(budgetTransitions[from], to)
}

func CanTransitionOrder(from, to models.OrderStatus) bool {
	return contains(orderTransitions[from], to)
}

func CanTransitionProduction(from, to models.ProductionOrderStatus) bool {
	return contains(productionTransitions[from], to)
}

func CanTransitionCommission(from, to models.CommissionStatus) bool {
	return contains(commissionTransitions[from], to)
}

func BudgetTerminal(s models.BudgetStatus) bool {
	return len(budgetTransitions[s]) == 0
}

func OrderTerminal(s models.OrderStatus) bool {
	return s == models.OrderStatusCompleted || s == models.OrderStatusCancelled
}

func ProductionTerminal(s models.ProductionOrderStatus) bool {
	return s == models.ProductionStatusCompleted || s == models.ProductionStatusRejected
}

func CommissionTerminal(s models.CommissionStatus) bool {
	return len(commissionTransitions[s]) == 0
}

// ValidBudgetStatus reporta se s é um status de orçamento conhecido.
func ValidBudgetStatus(s models.BudgetStatus) bool {
	switch s {
	case models.BudgetStatusDraft, models.BudgetStatusSent, models.BudgetStatusApproved,
		models.BudgetStatusRejected, models.BudgetStatusConverted:
		return true
	}
	return false
}

func ValidOrderStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusProduction,
		models.OrderStatusReady, models.OrderStatusShipped, models.OrderStatusDelivered,
		models.OrderStatusCompleted, models.OrderStatusCancelled:
		return true
	}
	// partial_shipped é derivado, nunca aceito como destino de transição
	return false
}

func ValidProductionStatus(s models.ProductionOrderStatus) bool {
	switch s {
	case models.ProductionStatusPending, models.ProductionStatusAccepted, models.ProductionStatusProduction,
		models.ProductionStatusReady, models.ProductionStatusShipped, models.ProductionStatusDelivered,
		models.ProductionStatusCompleted, models.ProductionStatusRejected:
		return true
	}
	return false
}

func ValidCommissionStatus(s models.CommissionStatus) bool {
	switch s {
	case models.CommissionStatusPending, models.CommissionStatusConfirmed, models.CommissionStatusPaid,
		models.CommissionStatusCancelled, models.CommissionStatusDeducted:
		return true
	}
	return false
}

// ValidateOrderTransition devolve um erro HTTP pronto quando a transição é
// inválida. "cancelled" é alcançável de qualquer estado não terminal.
func ValidateOrderTransition(from, to models.OrderStatus) error {
	if !ValidOrderStatus(to) {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Status de pedido inválido: %s", to))
	}
	if to == models.OrderStatusCancelled && !OrderTerminal(from) {
		return nil
	}
	if !CanTransitionOrder(from, to) {
		return fiber.NewError(fiber.StatusUnprocessableEntity,
			fmt.Sprintf("Transição de status não permitida: %s -> %s", from, to))
	}
	return nil
}

func ValidateProductionTransition(from, to models.ProductionOrderStatus) error {
	if !ValidProductionStatus(to) {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Status de produção inválido: %s", to))
	}
	if !CanTransitionProduction(from, to) {
		return fiber.NewError(fiber.StatusUnprocessableEntity,
			fmt.Sprintf("Transição de status não permitida: %s -> %s", from, to))
	}
	return nil
}

func ValidateBudgetTransition(from, to models.BudgetStatus) error {
	if !ValidBudgetStatus(to) {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Status de orçamento inválido: %s", to))
	}
	if !CanTransitionBudget(from, to) {
		return fiber.NewError(fiber.StatusUnprocessableEntity,
			fmt.Sprintf("Transição de status não permitida: %s -> %s", from, to))
	}
	return nil
}

func ValidateCommissionTransition(from, to models.CommissionStatus) error {
	if !ValidCommissionStatus(to) {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Status de comissão inválido: %s", to))
	}
	if !CanTransitionCommission(from, to) {
		return fiber.NewError(fiber.StatusUnprocessableEntity,
			fmt.Sprintf("Transição de status não permitida: %s -> %s", from, to))
	}
	return nil
}
