package logistics

import (
	"fmt"
	"time"

	"pedidos-backend/internal/audit"
	"pedidos-backend/internal/auth"
	"pedidos-backend/internal/commission"
	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"
	"pedidos-backend/internal/production"
	"pedidos-backend/internal/status"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PendingProducerGroup struct {
	ProducerID   uint   `json:"producer_id"`
	ProducerName string `json:"producer_name"`
	ItemCount    int    `json:"item_count"`
}

type PendingShipmentRow struct {
	OrderID          uint                   `json:"order_id"`
	OrderNumber      string                 `json:"order_number"`
	ClientName       string                 `json:"client_name"`
	Status           models.OrderStatus     `json:"status"`
	DeliveryDeadline *string                `json:"delivery_deadline"`
	Priority         Priority               `json:"priority"`
	PendingProducers []PendingProducerGroup `json:"pending_producers"`
}

type PaidOrderRow struct {
	OrderID          uint               `json:"order_id"`
	OrderNumber      string             `json:"order_number"`
	ClientName       string             `json:"client_name"`
	Status           models.OrderStatus `json:"status"`
	DisplayStatus    models.OrderStatus `json:"display_status"`
	TotalValue       float64            `json:"total_value"`
	DeliveryDeadline *string            `json:"delivery_deadline"`
	Priority         Priority           `json:"priority"`
}

func formatDeadline(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format("2006-01-02")
	return &s
}

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return 0, "", err
	}
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Usuário não encontrado")
	}
	return userID, user.Name, nil
}

// GET /api/logistics/paid-orders
// Pedidos quitados ainda em andamento, ordenados por prazo.
func PaidOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var orders []models.Order
		if err := database.DB.Preload("Client").Preload("ProductionOrders").
			Where("paid_value >= total_value AND status NOT IN ?",
				[]models.OrderStatus{models.OrderStatusCompleted, models.OrderStatusCancelled}).
			Order("delivery_deadline ASC NULLS LAST, created_at ASC").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os pedidos quitados")
		}

		now := time.Now()
		resp := make([]PaidOrderRow, 0, len(orders))
		for i := range orders {
			o := &orders[i]
			children := make([]models.ProductionOrderStatus, 0, len(o.ProductionOrders))
			for _, po := range o.ProductionOrders {
				children = append(children, po.Status)
			}
			resp = append(resp, PaidOrderRow{
				OrderID:          o.ID,
				OrderNumber:      o.OrderNumber,
				ClientName:       o.Client.Name,
				Status:           o.Status,
				DisplayStatus:    status.DeriveOrderDisplay(o.Status, children),
				TotalValue:       o.TotalValue,
				DeliveryDeadline: formatDeadline(o.DeliveryDeadline),
				Priority:         ComputePriority(o.DeliveryDeadline, now),
			})
		}
		return c.JSON(resp)
	}
}

// GET /api/logistics/pending-shipments
// Pedidos confirmados/em produção com grupos de produtor ainda não enviados.
// Pedido sem item de produtor externo não aparece.
func PendingShipmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var orders []models.Order
		if err := database.DB.
			Preload("Client").Preload("Items.Product").Preload("Items.Producer").
			Preload("ProductionOrders").
			Where("status IN ?", []models.OrderStatus{models.OrderStatusConfirmed, models.OrderStatusProduction}).
			Order("delivery_deadline ASC NULLS LAST, created_at ASC").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os envios pendentes")
		}

		now := time.Now()
		resp := make([]PendingShipmentRow, 0, len(orders))
		for i := range orders {
			o := &orders[i]

			groups := production.SplitByProducer(o.Items)
			pending := production.PendingGroups(groups, o.ProductionOrders)
			if len(pending) == 0 {
				continue
			}

			pendingResp := make([]PendingProducerGroup, 0, len(pending))
			for _, g := range pending {
				name := ""
				if len(g.Items) > 0 && g.Items[0].Producer != nil {
					name = g.Items[0].Producer.Name
				}
				pendingResp = append(pendingResp, PendingProducerGroup{
					ProducerID:   g.ProducerID,
					ProducerName: name,
					ItemCount:    len(g.Items),
				})
			}

			resp = append(resp, PendingShipmentRow{
				OrderID:          o.ID,
				OrderNumber:      o.OrderNumber,
				ClientName:       o.Client.Name,
				Status:           o.Status,
				DeliveryDeadline: formatDeadline(o.DeliveryDeadline),
				Priority:         ComputePriority(o.DeliveryDeadline, now),
				PendingProducers: pendingResp,
			})
		}
		return c.JSON(resp)
	}
}

// POST /api/orders/:id/confirm-delivery
// A entrega do pedido só fecha quando toda ordem de produção filha reportou
// delivered/completed. Na entrega, comissões de parceiro são confirmadas.
func ConfirmDeliveryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID := c.Params("id")

		var ord models.Order
		if err := database.DB.Preload("ProductionOrders").First(&ord, "id = ?", orderID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pedido não encontrado")
		}

		if status.OrderTerminal(ord.Status) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Pedido já encerrado")
		}
		if ord.Status == models.OrderStatusDelivered {
			return fiber.NewError(fiber.StatusConflict, "Entrega já confirmada")
		}

		children := make([]models.ProductionOrderStatus, 0, len(ord.ProductionOrders))
		for _, po := range ord.ProductionOrders {
			children = append(children, po.Status)
		}
		if !status.CanConfirmDelivery(children) {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"Ainda há ordens de produção não entregues neste pedido")
		}

		now := time.Now()
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Order{}).Where("id = ?", ord.ID).Updates(map[string]interface{}{
				"status":       models.OrderStatusDelivered,
				"delivered_at": now,
			}).Error; err != nil {
				return err
			}
			return commission.ConfirmForOrder(tx, ord.ID, models.PayeeTypePartner)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível confirmar a entrega")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "order",
				EntityID:    ord.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Entrega do pedido %s confirmada", ord.OrderNumber),
			})
		}

		return c.JSON(fiber.Map{
			"order_id":     ord.ID,
			"status":       models.OrderStatusDelivered,
			"delivered_at": now.Format("2006-01-02 15:04:05"),
		})
	}
}
