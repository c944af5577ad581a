package budget

import (
	"fmt"

	"pedidos-backend/internal/audit"
	"pedidos-backend/internal/commission"
	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"
	"pedidos-backend/internal/order"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ConvertBudgetRequest struct {
	// Produtor atribuído aos itens que ainda estão sem produtor definido.
	DefaultProducerID *uint `json:"default_producer_id"`
}

// POST /api/budgets/:id/convert
// Converte o orçamento em pedido. A transação inteira (pedido, itens,
// orçamento convertido, comissões) confirma ou desfaz junta; repetir a
// chamada devolve 409 porque o orçamento já está em converted.
func ConvertBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		budget, err := loadBudgetScoped(c)
		if err != nil {
			return err
		}

		var body ConvertBudgetRequest
		// corpo vazio é válido
		_ = c.BodyParser(&body)

		if budget.Status == models.BudgetStatusConverted {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Orçamento %s já foi convertido no pedido #%d", budget.BudgetNumber, derefOrZero(budget.ConvertedOrderID)))
		}
		if budget.Status != models.BudgetStatusSent && budget.Status != models.BudgetStatusApproved {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"Apenas orçamentos enviados ou aprovados podem virar pedido")
		}

		if body.DefaultProducerID != nil {
			var producer models.Producer
			if err := database.DB.First(&producer, "id = ?", *body.DefaultProducerID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Produtor padrão não encontrado")
			}
		}

		var newOrder models.Order
		convertTx := func(tx *gorm.DB) error {
			// Trava o orçamento contra conversão concorrente em duas abas.
			var locked models.Budget
			if err := tx.Raw("SELECT * FROM budgets WHERE id = ? FOR UPDATE", budget.ID).Scan(&locked).Error; err != nil {
				return err
			}
			if locked.Status == models.BudgetStatusConverted {
				return fiber.NewError(fiber.StatusConflict, "Orçamento já foi convertido")
			}

			number, err := order.NextOrderNumber(tx)
			if err != nil {
				return err
			}

			orderItems := make([]models.OrderItem, 0, len(budget.Items))
			for _, bi := range budget.Items {
				producerID := bi.ProducerID
				if producerID == nil {
					producerID = body.DefaultProducerID
				}
				orderItems = append(orderItems, models.OrderItem{
					ProductID:          bi.ProductID,
					ProducerID:         producerID,
					Quantity:           bi.Quantity,
					UnitPrice:          bi.UnitPrice,
					CustomizationValue: bi.CustomizationValue,
					TotalPrice:         bi.TotalPrice,
				})
			}

			newOrder = models.Order{
				OrderNumber:               number,
				BudgetID:                  &budget.ID,
				ClientID:                  budget.ClientID,
				VendorID:                  budget.VendorID,
				PartnerID:                 budget.PartnerID,
				Status:                    models.OrderStatusPending,
				DiscountType:              budget.DiscountType,
				DiscountValue:             budget.DiscountValue,
				ShippingCost:              budget.ShippingCost,
				DeliveryType:              budget.DeliveryType,
				GeneralCustomizationValue: budget.GeneralCustomizationValue,
				TotalValue:                budget.TotalValue,
				Notes:                     budget.Notes,
				DeliveryDeadline:          budget.DeliveryDeadline,
				Items:                     orderItems,
			}
			if err := tx.Create(&newOrder).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.Budget{}).Where("id = ?", budget.ID).Updates(map[string]interface{}{
				"status":             models.BudgetStatusConverted,
				"converted_order_id": newOrder.ID,
			}).Error; err != nil {
				return err
			}

			// Comissões com a taxa vigente de cada beneficiário
			var vendor models.User
			if err := tx.First(&vendor, "id = ?", budget.VendorID).Error; err != nil {
				return err
			}
			if err := commission.Accrue(tx, &newOrder, &vendor, models.PayeeTypeVendor); err != nil {
				return err
			}

			if budget.PartnerID != nil {
				var partner models.User
				if err := tx.First(&partner, "id = ?", *budget.PartnerID).Error; err != nil {
					return err
				}
				if err := commission.Accrue(tx, &newOrder, &partner, models.PayeeTypePartner); err != nil {
					return err
				}
			}

			return nil
		}

		// Em corrida pelo mesmo número de pedido o índice único derruba uma
		// transação; a tentativa seguinte conta o próximo número de novo.
		err = database.RetryOnDuplicate(3, func() error {
			return database.DB.Transaction(convertTx)
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível converter o orçamento")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "budget",
				EntityID:    budget.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Orçamento %s convertido no pedido %s", budget.BudgetNumber, newOrder.OrderNumber),
				Before:      budget,
				After:       newOrder,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"budget_id":    budget.ID,
			"order_id":     newOrder.ID,
			"order_number": newOrder.OrderNumber,
			"total_value":  newOrder.TotalValue,
		})
	}
}

func derefOrZero(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}
