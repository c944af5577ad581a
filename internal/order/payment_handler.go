package order

import (
	"fmt"
	"time"

	"pedidos-backend/internal/audit"
	"pedidos-backend/internal/commission"
	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"
	"pedidos-backend/internal/pricing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreatePaymentRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"` // pix, boleto, cartao, dinheiro
	PaidAt string  `json:"paid_at"`
	Notes  string  `json:"notes"`
}

var validMethods = map[string]bool{
	"pix":      true,
	"boleto":   true,
	"cartao":   true,
	"dinheiro": true,
}

// applyPayment soma o pagamento ao valor já pago, em centavos exatos, e
// reporta se o resultado estoura o total do pedido.
func applyPayment(paidValue, amount, totalValue float64) (newPaid float64, exceeds bool) {
	newPaid = pricing.Round2(paidValue + pricing.Round2(amount))
	return newPaid, newPaid > totalValue
}

// POST /api/orders/:id/payments
// Registra pagamento no pedido. paid_value nunca passa de total_value; na
// quitação as comissões de vendedor saem de pending para confirmed.
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := LoadOrderScoped(c)
		if err != nil {
			return err
		}

		if order.Status == models.OrderStatusCancelled {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Pedido cancelado não recebe pagamento")
		}

		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount deve ser maior que zero")
		}
		if !validMethods[body.Method] {
			return fiber.NewError(fiber.StatusBadRequest, "method deve ser pix, boleto, cartao ou dinheiro")
		}

		paidAt := time.Now()
		if body.PaidAt != "" {
			d, err := time.Parse("2006-01-02", body.PaidAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "paid_at deve estar no formato 'YYYY-MM-DD'")
			}
			paidAt = d
		}

		amount := pricing.Round2(body.Amount)
		newPaid, exceeds := applyPayment(order.PaidValue, amount, order.TotalValue)
		if exceeds {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Pagamento excede o saldo do pedido (restam R$ %.2f)", order.TotalValue-order.PaidValue))
		}

		payment := models.Payment{
			OrderID: order.ID,
			Amount:  amount,
			Method:  body.Method,
			PaidAt:  paidAt,
			Notes:   body.Notes,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}

			order.PaidValue = newPaid
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("paid_value", newPaid).Error; err != nil {
				return err
			}

			// Quitou: comissões de vendedor viram confirmed. As de parceiro
			// esperam a entrega.
			if order.PaidValue >= order.TotalValue {
				return commission.ConfirmForOrder(tx, order.ID, models.PayeeTypeVendor)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível registrar o pagamento")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payment",
				EntityID:    payment.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Pagamento de R$ %.2f (%s) no pedido %s", amount, body.Method, order.OrderNumber),
				Before:      nil,
				After:       payment,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":         payment.ID,
			"order_id":   order.ID,
			"amount":     payment.Amount,
			"paid_value": order.PaidValue,
			"fully_paid": order.PaidValue >= order.TotalValue,
		})
	}
}

// GET /api/orders/:id/payments
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := LoadOrderScoped(c)
		if err != nil {
			return err
		}

		var payments []models.Payment
		if err := database.DB.Where("order_id = ?", order.ID).
			Order("paid_at ASC, id ASC").Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os pagamentos")
		}

		resp := make([]PaymentResponse, 0, len(payments))
		for _, p := range payments {
			resp = append(resp, PaymentResponse{
				ID:     p.ID,
				Amount: p.Amount,
				Method: p.Method,
				PaidAt: p.PaidAt.Format("2006-01-02"),
				Notes:  p.Notes,
			})
		}
		return c.JSON(resp)
	}
}
