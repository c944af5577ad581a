package production

import (
	"errors"
	"fmt"
	"time"

	"pedidos-backend/internal/audit"
	"pedidos-backend/internal/auth"
	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"
	"pedidos-backend/internal/status"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SendToProductionRequest struct {
	// Produtor específico; omitido ou zero = enviar para todos os pendentes
	ProducerID uint `json:"producer_id"`
}

type SendResult struct {
	ProducerID        uint   `json:"producer_id"`
	ProducerName      string `json:"producer_name"`
	ProductionOrderID uint   `json:"production_order_id,omitempty"`
	Outcome           string `json:"outcome"` // sent | resent | already_sent
	ItemCount         int    `json:"item_count,omitempty"`
}

const (
	outcomeSent        = "sent"
	outcomeResent      = "resent"
	outcomeAlreadySent = "already_sent"
)

// classifySend decide o destino do envio de um grupo a partir da ordem de
// produção já existente para aquele (pedido, produtor). Ordem rejeitada é
// reaproveitada; qualquer outra segura o reenvio.
func classifySend(existing *models.ProductionOrder) string {
	switch {
	case existing == nil:
		return outcomeSent
	case existing.Status == models.ProductionStatusRejected:
		return outcomeResent
	default:
		return outcomeAlreadySent
	}
}

// sendTransactionError traduz o erro da transação de envio. Só a violação do
// índice único (duas abas enviando ao mesmo tempo) vira 409.
func sendTransactionError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fiber.NewError(fiber.StatusConflict,
			"Envio concorrente detectado, recarregue o pedido e tente novamente")
	}
	if fe, ok := err.(*fiber.Error); ok {
		return fe
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível enviar o pedido à produção")
}

type ProductionOrderItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
}

type ProductionOrderResponse struct {
	ID           uint                          `json:"id"`
	OrderID      uint                          `json:"order_id"`
	OrderNumber  string                        `json:"order_number"`
	ProducerID   uint                          `json:"producer_id"`
	ProducerName string                        `json:"producer_name"`
	Status       models.ProductionOrderStatus  `json:"status"`
	Deadline     *string                       `json:"deadline"`
	TrackingCode string                        `json:"tracking_code"`
	Notes        string                        `json:"notes"`
	Items        []ProductionOrderItemResponse `json:"items"`
	CreatedAt    string                        `json:"created_at"`
}

func toProductionOrderResponse(po *models.ProductionOrder) ProductionOrderResponse {
	itemsResp := make([]ProductionOrderItemResponse, 0, len(po.Items))
	for _, item := range po.Items {
		itemsResp = append(itemsResp, ProductionOrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			TotalPrice:  item.TotalPrice,
		})
	}

	resp := ProductionOrderResponse{
		ID:           po.ID,
		OrderID:      po.OrderID,
		OrderNumber:  po.Order.OrderNumber,
		ProducerID:   po.ProducerID,
		ProducerName: po.Producer.Name,
		Status:       po.Status,
		TrackingCode: po.TrackingCode,
		Notes:        po.Notes,
		Items:        itemsResp,
		CreatedAt:    po.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if po.Deadline != nil {
		s := po.Deadline.Format("2006-01-02")
		resp.Deadline = &s
	}
	return resp
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

// POST /api/orders/:id/send-to-production
// Cria no máximo uma ordem de produção por produtor externo. A deduplicação
// é do servidor: o índice único (order_id, producer_id) segura o envio
// concorrente de duas abas; a segunda chamada recebe already_sent.
func SendToProductionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID := c.Params("id")

		var ord models.Order
		if err := database.DB.Preload("Items.Product").Preload("Items.Producer").
			Preload("ProductionOrders").First(&ord, "id = ?", orderID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pedido não encontrado")
		}

		if ord.Status != models.OrderStatusConfirmed && ord.Status != models.OrderStatusProduction {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"O pedido precisa estar confirmado para ir à produção")
		}

		var body SendToProductionRequest
		_ = c.BodyParser(&body)

		groups := SplitByProducer(ord.Items)
		if len(groups) == 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"Nenhum item com produtor externo neste pedido")
		}

		targets := groups
		if body.ProducerID != 0 {
			targets = nil
			for _, g := range groups {
				if g.ProducerID == body.ProducerID {
					targets = []ProducerGroup{g}
					break
				}
			}
			if targets == nil {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Produtor %d não tem itens neste pedido", body.ProducerID))
			}
		}

		results := make([]SendResult, 0, len(targets))

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			for _, g := range targets {
				var producer models.Producer
				if err := tx.First(&producer, "id = ?", g.ProducerID).Error; err != nil {
					return err
				}

				result := SendResult{ProducerID: g.ProducerID, ProducerName: producer.Name}

				itemIDs := make([]uint, 0, len(g.Items))
				for _, item := range g.Items {
					itemIDs = append(itemIDs, item.ID)
				}

				var existing models.ProductionOrder
				var existingPtr *models.ProductionOrder
				err := tx.Where("order_id = ? AND producer_id = ?", ord.ID, g.ProducerID).
					First(&existing).Error
				switch {
				case err == nil:
					existingPtr = &existing
				case errors.Is(err, gorm.ErrRecordNotFound):
					existingPtr = nil
				default:
					return err
				}

				switch classifySend(existingPtr) {
				case outcomeAlreadySent:
					result.Outcome = outcomeAlreadySent
					result.ProductionOrderID = existing.ID
					results = append(results, result)
					continue

				case outcomeResent:
					// Reaproveita a linha rejeitada para não violar o índice único
					existing.Status = models.ProductionStatusPending
					existing.TrackingCode = ""
					existing.AcceptedAt = nil
					existing.ShippedAt = nil
					existing.DeliveredAt = nil
					existing.Deadline = ord.DeliveryDeadline
					if err := tx.Save(&existing).Error; err != nil {
						return err
					}
					if err := tx.Model(&models.OrderItem{}).Where("id IN ?", itemIDs).
						Update("production_order_id", existing.ID).Error; err != nil {
						return err
					}
					result.Outcome = outcomeResent
					result.ProductionOrderID = existing.ID
					result.ItemCount = len(itemIDs)

				case outcomeSent:
					po := models.ProductionOrder{
						OrderID:    ord.ID,
						ProducerID: g.ProducerID,
						Status:     models.ProductionStatusPending,
						Deadline:   ord.DeliveryDeadline,
					}
					// corrida entre duas abas desfaz a transação no índice único
					if err := tx.Create(&po).Error; err != nil {
						return err
					}
					if err := tx.Model(&models.OrderItem{}).Where("id IN ?", itemIDs).
						Update("production_order_id", po.ID).Error; err != nil {
						return err
					}
					result.Outcome = outcomeSent
					result.ProductionOrderID = po.ID
					result.ItemCount = len(itemIDs)
				}

				results = append(results, result)
			}

			// Primeira ordem enviada move o pedido para produção
			if ord.Status == models.OrderStatusConfirmed {
				return tx.Model(&models.Order{}).Where("id = ?", ord.ID).
					Update("status", models.OrderStatusProduction).Error
			}
			return nil
		})
		if err != nil {
			return sendTransactionError(err)
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			sent := 0
			for _, r := range results {
				if r.Outcome == outcomeSent || r.Outcome == outcomeResent {
					sent++
				}
			}
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "production_order",
				EntityID:    ord.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Pedido %s enviado à produção: %d produtor(es)", ord.OrderNumber, sent),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"order_id": ord.ID,
			"results":  results,
		})
	}
}

// GET /api/production-orders?status=pending
// Produtor enxerga só as próprias ordens.
func ListProductionOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := auth.CurrentRole(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.ProductionOrder{}).
			Preload("Items.Product").Preload("Order").Preload("Producer")

		switch role {
		case models.RoleProducer:
			producerID, ok := c.Locals(auth.CtxProducerIDKey).(*uint)
			if !ok || producerID == nil {
				return fiber.NewError(fiber.StatusForbidden, "Perfil de produtor sem cadastro vinculado")
			}
			dbq = dbq.Where("producer_id = ?", *producerID)
		case models.RoleAdmin, models.RoleLogistics:
			if p := c.Query("producer_id"); p != "" {
				var pid uint
				if _, err := fmt.Sscan(p, &pid); err == nil && pid > 0 {
					dbq = dbq.Where("producer_id = ?", pid)
				}
			}
		default:
			return fiber.NewError(fiber.StatusForbidden, "Você não tem permissão para esta operação")
		}

		if s := c.Query("status"); s != "" {
			if !status.ValidProductionStatus(models.ProductionOrderStatus(s)) {
				return fiber.NewError(fiber.StatusBadRequest, "Status de produção inválido")
			}
			dbq = dbq.Where("status = ?", s)
		}

		var pos []models.ProductionOrder
		if err := dbq.Order("created_at DESC").Find(&pos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as ordens de produção")
		}

		resp := make([]ProductionOrderResponse, 0, len(pos))
		for i := range pos {
			resp = append(resp, toProductionOrderResponse(&pos[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/production-orders/:id
func GetProductionOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		po, err := loadProductionOrderScoped(c)
		if err != nil {
			return err
		}
		return c.JSON(toProductionOrderResponse(po))
	}
}

func loadProductionOrderScoped(c *fiber.Ctx) (*models.ProductionOrder, error) {
	id := c.Params("id")

	var po models.ProductionOrder
	if err := database.DB.Preload("Items.Product").Preload("Order").Preload("Producer").
		First(&po, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Ordem de produção não encontrada")
	}

	role, err := auth.CurrentRole(c)
	if err != nil {
		return nil, err
	}
	if role == models.RoleProducer {
		producerID, ok := c.Locals(auth.CtxProducerIDKey).(*uint)
		if !ok || producerID == nil || po.ProducerID != *producerID {
			return nil, fiber.NewError(fiber.StatusForbidden, "Esta ordem de produção não é sua")
		}
	}
	return &po, nil
}

type UpdateProductionStatusRequest struct {
	Status       string `json:"status"`
	TrackingCode string `json:"tracking_code"`
	Notes        string `json:"notes"`
}

// PUT /api/production-orders/:id/status
// Linha do tempo do produtor: accept, production, ready, shipped, delivered,
// completed; rejected só a partir de pending.
func UpdateProductionStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		po, err := loadProductionOrderScoped(c)
		if err != nil {
			return err
		}

		var body UpdateProductionStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		to := models.ProductionOrderStatus(body.Status)
		if err := status.ValidateProductionTransition(po.Status, to); err != nil {
			return err
		}

		if to == models.ProductionStatusShipped && body.TrackingCode == "" && po.TrackingCode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "tracking_code é obrigatório no despacho")
		}

		before := po.Status
		now := time.Now()

		po.Status = to
		if body.TrackingCode != "" {
			po.TrackingCode = body.TrackingCode
		}
		if body.Notes != "" {
			po.Notes = body.Notes
		}
		switch to {
		case models.ProductionStatusAccepted:
			po.AcceptedAt = &now
		case models.ProductionStatusShipped:
			po.ShippedAt = &now
		case models.ProductionStatusDelivered:
			po.DeliveredAt = &now
		case models.ProductionStatusRejected:
			// libera os itens para reenvio a outro produtor
			if err := database.DB.Model(&models.OrderItem{}).
				Where("production_order_id = ?", po.ID).
				Update("production_order_id", nil).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível liberar os itens")
			}
			po.Items = nil
		}

		if err := database.DB.Save(po).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a ordem de produção")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "production_order",
				EntityID:    po.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Ordem de produção #%d (%s): %s -> %s", po.ID, po.Producer.Name, before, to),
			})
		}

		return c.JSON(fiber.Map{
			"id":     po.ID,
			"status": po.Status,
		})
	}
}
