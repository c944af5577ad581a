package order

import (
	"fmt"
	"time"

	"pedidos-backend/internal/audit"
	"pedidos-backend/internal/auth"
	"pedidos-backend/internal/commission"
	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"
	"pedidos-backend/internal/status"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderItemResponse struct {
	ID                 uint    `json:"id"`
	ProductID          uint    `json:"product_id"`
	ProductName        string  `json:"product_name"`
	ProducerID         *uint   `json:"producer_id"`
	ProducerName       string  `json:"producer_name,omitempty"`
	Internal           bool    `json:"internal"`
	Quantity           int     `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"`
	CustomizationValue float64 `json:"customization_value"`
	TotalPrice         float64 `json:"total_price"`
	ProductionOrderID  *uint   `json:"production_order_id"`
}

type PaymentResponse struct {
	ID     uint    `json:"id"`
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	PaidAt string  `json:"paid_at"`
	Notes  string  `json:"notes"`
}

type OrderResponse struct {
	ID               uint                `json:"id"`
	OrderNumber      string              `json:"order_number"`
	BudgetID         *uint               `json:"budget_id"`
	ClientID         uint                `json:"client_id"`
	ClientName       string              `json:"client_name"`
	VendorID         uint                `json:"vendor_id"`
	VendorName       string              `json:"vendor_name"`
	Status           models.OrderStatus  `json:"status"`         // persistido
	DisplayStatus    models.OrderStatus  `json:"display_status"` // derivado das ordens de produção
	DeliveryType     models.DeliveryType `json:"delivery_type"`
	TotalValue       float64             `json:"total_value"`
	PaidValue        float64             `json:"paid_value"`
	FullyPaid        bool                `json:"fully_paid"`
	DeliveryDeadline *string             `json:"delivery_deadline"`
	DeliveredAt      *string             `json:"delivered_at"`
	Notes            string              `json:"notes"`
	Items            []OrderItemResponse `json:"items"`
	Payments         []PaymentResponse   `json:"payments"`
	CreatedAt        string              `json:"created_at"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	itemsResp := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		ir := OrderItemResponse{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			ProductName:        item.Product.Name,
			ProducerID:         item.ProducerID,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			CustomizationValue: item.CustomizationValue,
			TotalPrice:         item.TotalPrice,
			ProductionOrderID:  item.ProductionOrderID,
		}
		if item.Producer != nil {
			ir.ProducerName = item.Producer.Name
			ir.Internal = item.Producer.Internal
		}
		itemsResp = append(itemsResp, ir)
	}

	paymentsResp := make([]PaymentResponse, 0, len(o.Payments))
	for _, p := range o.Payments {
		paymentsResp = append(paymentsResp, PaymentResponse{
			ID:     p.ID,
			Amount: p.Amount,
			Method: p.Method,
			PaidAt: p.PaidAt.Format("2006-01-02"),
			Notes:  p.Notes,
		})
	}

	children := make([]models.ProductionOrderStatus, 0, len(o.ProductionOrders))
	for _, po := range o.ProductionOrders {
		children = append(children, po.Status)
	}

	resp := OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		BudgetID:      o.BudgetID,
		ClientID:      o.ClientID,
		ClientName:    o.Client.Name,
		VendorID:      o.VendorID,
		VendorName:    o.Vendor.Name,
		Status:        o.Status,
		DisplayStatus: status.DeriveOrderDisplay(o.Status, children),
		DeliveryType:  o.DeliveryType,
		TotalValue:    o.TotalValue,
		PaidValue:     o.PaidValue,
		FullyPaid:     o.PaidValue >= o.TotalValue,
		Notes:         o.Notes,
		Items:         itemsResp,
		Payments:      paymentsResp,
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if o.DeliveryDeadline != nil {
		s := o.DeliveryDeadline.Format("2006-01-02")
		resp.DeliveryDeadline = &s
	}
	if o.DeliveredAt != nil {
		s := o.DeliveredAt.Format("2006-01-02 15:04:05")
		resp.DeliveredAt = &s
	}
	return resp
}

// NextOrderNumber gera PED-<ano>-<seq>, mesma convenção dos orçamentos.
// A contagem não é serializada: quem usar o número precisa repetir a
// transação se o índice único acusar colisão.
func NextOrderNumber(tx *gorm.DB) (string, error) {
	year := time.Now().Format("2006")
	var count int64
	if err := tx.Model(&models.Order{}).
		Where("order_number LIKE ?", "PED-"+year+"-%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("PED-%s-%04d", year, count+1), nil
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

func preloadOrder(dbq *gorm.DB) *gorm.DB {
	return dbq.Preload("Items.Product").Preload("Items.Producer").
		Preload("Client").Preload("Vendor").
		Preload("Payments").Preload("ProductionOrders")
}

// GET /api/orders?status=production
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := auth.CurrentRole(c)
		if err != nil {
			return err
		}

		dbq := preloadOrder(database.DB.Model(&models.Order{}))

		switch role {
		case models.RoleVendor:
			userID, err := auth.CurrentUserID(c)
			if err != nil {
				return err
			}
			dbq = dbq.Where("vendor_id = ?", userID)
		case models.RoleClient:
			clientID, ok := c.Locals(auth.CtxClientIDKey).(*uint)
			if !ok || clientID == nil {
				return fiber.NewError(fiber.StatusForbidden, "Perfil de cliente sem cadastro vinculado")
			}
			dbq = dbq.Where("client_id = ?", *clientID)
		case models.RoleAdmin, models.RoleLogistics:
			// sem filtro
		default:
			return fiber.NewError(fiber.StatusForbidden, "Você não tem permissão para esta operação")
		}

		if s := c.Query("status"); s != "" {
			if !status.ValidOrderStatus(models.OrderStatus(s)) {
				return fiber.NewError(fiber.StatusBadRequest, "Status de pedido inválido")
			}
			dbq = dbq.Where("status = ?", s)
		}

		var orders []models.Order
		if err := dbq.Order("created_at DESC").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os pedidos")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := LoadOrderScoped(c)
		if err != nil {
			return err
		}
		return c.JSON(toOrderResponse(order))
	}
}

// LoadOrderScoped carrega o pedido aplicando o escopo do perfil autenticado.
func LoadOrderScoped(c *fiber.Ctx) (*models.Order, error) {
	id := c.Params("id")

	var order models.Order
	if err := preloadOrder(database.DB).First(&order, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Pedido não encontrado")
	}

	role, err := auth.CurrentRole(c)
	if err != nil {
		return nil, err
	}
	switch role {
	case models.RoleVendor:
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return nil, err
		}
		if order.VendorID != userID {
			return nil, fiber.NewError(fiber.StatusForbidden, "Este pedido não é seu")
		}
	case models.RoleClient:
		clientID, ok := c.Locals(auth.CtxClientIDKey).(*uint)
		if !ok || clientID == nil || order.ClientID != *clientID {
			return nil, fiber.NewError(fiber.StatusForbidden, "Este pedido não é seu")
		}
	}
	return &order, nil
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/orders/:id/status
// Transições manuais de logística/admin. A entrega tem endpoint próprio
// (confirm-delivery) porque depende das ordens de produção filhas.
func UpdateOrderStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := LoadOrderScoped(c)
		if err != nil {
			return err
		}

		var body UpdateOrderStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		to := models.OrderStatus(body.Status)
		if to == models.OrderStatusDelivered {
			return fiber.NewError(fiber.StatusBadRequest, "Use /api/orders/:id/confirm-delivery para confirmar a entrega")
		}
		if err := status.ValidateOrderTransition(order.Status, to); err != nil {
			return err
		}

		before := order.Status

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			order.Status = to
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("status", to).Error; err != nil {
				return err
			}
			if to == models.OrderStatusCancelled {
				return commission.CancelForOrder(tx, order.ID)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o status")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Pedido %s: %s -> %s", order.OrderNumber, before, to),
			})
		}

		return c.JSON(fiber.Map{
			"id":     order.ID,
			"status": order.Status,
		})
	}
}
