package commission

import (
	"fmt"

	"pedidos-backend/internal/models"
	"pedidos-backend/internal/pricing"

	"gorm.io/gorm"
)

// Accrue cria a comissão de um beneficiário na conversão do orçamento,
// congelando a taxa vigente. Beneficiário com taxa zero não gera registro.
func Accrue(tx *gorm.DB, order *models.Order, payee *models.User, payeeType models.PayeeType) error {
	if payee.CommissionRate <= 0 {
		return nil
	}

	commission := models.Commission{
		OrderID:    order.ID,
		PayeeID:    payee.ID,
		PayeeType:  payeeType,
		Percentage: payee.CommissionRate,
		BaseValue:  order.TotalValue,
		Amount:     pricing.CommissionAmount(order.TotalValue, payee.CommissionRate),
		Status:     models.CommissionStatusPending,
	}

	if err := tx.Create(&commission).Error; err != nil {
		return fmt.Errorf("não foi possível gerar a comissão de %s: %w", payee.Name, err)
	}
	return nil
}

// ConfirmForOrder promove as comissões pendentes do pedido para confirmed.
// Vendedor confirma na quitação do pedido; parceiro na entrega.
func ConfirmForOrder(tx *gorm.DB, orderID uint, payeeType models.PayeeType) error {
	return tx.Model(&models.Commission{}).
		Where("order_id = ? AND payee_type = ? AND status = ?",
			orderID, payeeType, models.CommissionStatusPending).
		Update("status", models.CommissionStatusConfirmed).Error
}

// CancelForOrder derruba comissões não pagas quando o pedido é cancelado.
func CancelForOrder(tx *gorm.DB, orderID uint) error {
	return tx.Model(&models.Commission{}).
		Where("order_id = ? AND status IN ?", orderID,
			[]models.CommissionStatus{models.CommissionStatusPending, models.CommissionStatusConfirmed}).
		Update("status", models.CommissionStatusCancelled).Error
}
