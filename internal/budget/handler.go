package budget

import (
	"fmt"
	"time"

	"pedidos-backend/internal/audit"
	"pedidos-backend/internal/auth"
	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"
	"pedidos-backend/internal/pricing"
	"pedidos-backend/internal/status"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BudgetItemRequest struct {
	ProductID          uint    `json:"product_id"`
	ProducerID         *uint   `json:"producer_id"`
	Quantity           int     `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"` // 0 = usa o preço base do produto
	CustomizationValue float64 `json:"customization_value"`
}

type CreateBudgetRequest struct {
	ClientID                  uint                `json:"client_id"`
	VendorID                  *uint               `json:"vendor_id"`  // admin indica; vendedor vem do token
	PartnerID                 *uint               `json:"partner_id"` // opcional, venda por indicação
	Items                     []BudgetItemRequest `json:"items"`
	DiscountType              string              `json:"discount_type"` // percent | fixed
	DiscountValue             float64             `json:"discount_value"`
	ShippingCost              float64             `json:"shipping_cost"`
	DeliveryType              string              `json:"delivery_type"` // delivery | pickup
	GeneralCustomizationValue float64             `json:"general_customization_value"`
	Notes                     string              `json:"notes"`
	ValidUntil                string              `json:"valid_until"`       // "2006-01-02"
	DeliveryDeadline          string              `json:"delivery_deadline"` // "2006-01-02"
}

type BudgetItemResponse struct {
	ID                 uint    `json:"id"`
	ProductID          uint    `json:"product_id"`
	ProductName        string  `json:"product_name"`
	ProducerID         *uint   `json:"producer_id"`
	ProducerName       string  `json:"producer_name,omitempty"`
	Quantity           int     `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"`
	CustomizationValue float64 `json:"customization_value"`
	TotalPrice         float64 `json:"total_price"`
}

type BudgetResponse struct {
	ID                        uint                 `json:"id"`
	BudgetNumber              string               `json:"budget_number"`
	ClientID                  uint                 `json:"client_id"`
	ClientName                string               `json:"client_name"`
	VendorID                  uint                 `json:"vendor_id"`
	VendorName                string               `json:"vendor_name"`
	Status                    models.BudgetStatus  `json:"status"`
	DiscountType              models.DiscountType  `json:"discount_type"`
	DiscountValue             float64              `json:"discount_value"`
	ShippingCost              float64              `json:"shipping_cost"`
	DeliveryType              models.DeliveryType  `json:"delivery_type"`
	GeneralCustomizationValue float64              `json:"general_customization_value"`
	TotalValue                float64              `json:"total_value"`
	Notes                     string               `json:"notes"`
	ValidUntil                *string              `json:"valid_until"`
	DeliveryDeadline          *string              `json:"delivery_deadline"`
	ConvertedOrderID          *uint                `json:"converted_order_id"`
	Items                     []BudgetItemResponse `json:"items"`
	CreatedAt                 string               `json:"created_at"`
}

func toBudgetResponse(b *models.Budget) BudgetResponse {
	itemsResp := make([]BudgetItemResponse, 0, len(b.Items))
	for _, item := range b.Items {
		ir := BudgetItemResponse{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			ProductName:        item.Product.Name,
			ProducerID:         item.ProducerID,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			CustomizationValue: item.CustomizationValue,
			TotalPrice:         item.TotalPrice,
		}
		if item.Producer != nil {
			ir.ProducerName = item.Producer.Name
		}
		itemsResp = append(itemsResp, ir)
	}

	resp := BudgetResponse{
		ID:                        b.ID,
		BudgetNumber:              b.BudgetNumber,
		ClientID:                  b.ClientID,
		ClientName:                b.Client.Name,
		VendorID:                  b.VendorID,
		VendorName:                b.Vendor.Name,
		Status:                    b.Status,
		DiscountType:              b.DiscountType,
		DiscountValue:             b.DiscountValue,
		ShippingCost:              b.ShippingCost,
		DeliveryType:              b.DeliveryType,
		GeneralCustomizationValue: b.GeneralCustomizationValue,
		TotalValue:                b.TotalValue,
		Notes:                     b.Notes,
		ConvertedOrderID:          b.ConvertedOrderID,
		Items:                     itemsResp,
		CreatedAt:                 b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if b.ValidUntil != nil {
		s := b.ValidUntil.Format("2006-01-02")
		resp.ValidUntil = &s
	}
	if b.DeliveryDeadline != nil {
		s := b.DeliveryDeadline.Format("2006-01-02")
		resp.DeliveryDeadline = &s
	}
	return resp
}

// resolveVendorID: vendedor cria no próprio nome; admin indica no corpo.
func resolveVendorID(c *fiber.Ctx, bodyVendorID *uint) (uint, error) {
	role, err := auth.CurrentRole(c)
	if err != nil {
		return 0, err
	}

	if role == models.RoleVendor {
		return auth.CurrentUserID(c)
	}

	// admin
	if bodyVendorID == nil || *bodyVendorID == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "vendor_id é obrigatório")
	}
	return *bodyVendorID, nil
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

// nextBudgetNumber gera ORC-<ano>-<seq>. A sequência reinicia a cada ano.
// A contagem não é serializada: quem usar o número precisa repetir a
// transação se o índice único acusar colisão.
func nextBudgetNumber(tx *gorm.DB) (string, error) {
	year := time.Now().Format("2006")
	var count int64
	if err := tx.Model(&models.Budget{}).
		Where("budget_number LIKE ?", "ORC-"+year+"-%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("ORC-%s-%04d", year, count+1), nil
}

// buildItems valida os itens do corpo e devolve os itens persistíveis mais o
// subtotal calculado.
func buildItems(tx *gorm.DB, reqs []BudgetItemRequest, generalCustomization float64) ([]models.BudgetItem, float64, error) {
	if len(reqs) == 0 {
		return nil, 0, fiber.NewError(fiber.StatusBadRequest, "O orçamento precisa de pelo menos um item")
	}

	items := make([]models.BudgetItem, 0, len(reqs))
	lines := make([]pricing.Line, 0, len(reqs))

	for _, ir := range reqs {
		if ir.Quantity <= 0 {
			return nil, 0, fiber.NewError(fiber.StatusBadRequest, "Quantidade deve ser maior que zero em todos os itens")
		}

		var product models.Product
		if err := tx.First(&product, "id = ?", ir.ProductID).Error; err != nil {
			return nil, 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Produto não encontrado: %d", ir.ProductID))
		}

		unitPrice := ir.UnitPrice
		if unitPrice <= 0 {
			unitPrice = product.BasePrice
		}

		if ir.ProducerID != nil {
			var producer models.Producer
			if err := tx.First(&producer, "id = ?", *ir.ProducerID).Error; err != nil {
				return nil, 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Produtor não encontrado: %d", *ir.ProducerID))
			}
		}

		line := pricing.Line{Quantity: ir.Quantity, UnitPrice: unitPrice, CustomizationValue: ir.CustomizationValue}
		lines = append(lines, line)

		items = append(items, models.BudgetItem{
			ProductID:          ir.ProductID,
			ProducerID:         ir.ProducerID,
			Quantity:           ir.Quantity,
			UnitPrice:          unitPrice,
			CustomizationValue: ir.CustomizationValue,
			TotalPrice:         pricing.LineTotal(line, generalCustomization),
		})
	}

	return items, pricing.Subtotal(lines, generalCustomization), nil
}

func parseOptionalDate(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s deve estar no formato 'YYYY-MM-DD'", field))
	}
	return &d, nil
}

// POST /api/budgets
func CreateBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBudgetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		vendorID, err := resolveVendorID(c, body.VendorID)
		if err != nil {
			return err
		}

		var client models.Client
		if err := database.DB.First(&client, "id = ?", body.ClientID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cliente não encontrado")
		}

		if body.PartnerID != nil {
			var partner models.User
			if err := database.DB.First(&partner, "id = ? AND role = ?", *body.PartnerID, models.RolePartner).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Parceiro não encontrado")
			}
		}

		deliveryType := models.DeliveryType(body.DeliveryType)
		if deliveryType == "" {
			deliveryType = models.DeliveryTypeDelivery
		}
		if deliveryType != models.DeliveryTypeDelivery && deliveryType != models.DeliveryTypePickup {
			return fiber.NewError(fiber.StatusBadRequest, "delivery_type deve ser 'delivery' ou 'pickup'")
		}

		discountType := models.DiscountType(body.DiscountType)
		if discountType == "" {
			discountType = models.DiscountTypeFixed
		}
		if discountType != models.DiscountTypePercent && discountType != models.DiscountTypeFixed {
			return fiber.NewError(fiber.StatusBadRequest, "discount_type deve ser 'percent' ou 'fixed'")
		}

		validUntil, err := parseOptionalDate(body.ValidUntil, "valid_until")
		if err != nil {
			return err
		}
		deliveryDeadline, err := parseOptionalDate(body.DeliveryDeadline, "delivery_deadline")
		if err != nil {
			return err
		}

		// Duas criações simultâneas podem contar o mesmo próximo número; o
		// índice único derruba uma delas e a tentativa seguinte conta de novo.
		var budget models.Budget
		err = database.RetryOnDuplicate(3, func() error {
			return database.DB.Transaction(func(tx *gorm.DB) error {
				items, subtotal, err := buildItems(tx, body.Items, body.GeneralCustomizationValue)
				if err != nil {
					return err
				}

				number, err := nextBudgetNumber(tx)
				if err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o número do orçamento")
				}

				budget = models.Budget{
					BudgetNumber:              number,
					ClientID:                  body.ClientID,
					VendorID:                  vendorID,
					PartnerID:                 body.PartnerID,
					Status:                    models.BudgetStatusDraft,
					DiscountType:              discountType,
					DiscountValue:             body.DiscountValue,
					ShippingCost:              body.ShippingCost,
					DeliveryType:              deliveryType,
					GeneralCustomizationValue: body.GeneralCustomizationValue,
					TotalValue:                pricing.Total(subtotal, discountType, body.DiscountValue, body.ShippingCost, deliveryType),
					Notes:                     body.Notes,
					ValidUntil:                validUntil,
					DeliveryDeadline:          deliveryDeadline,
					Items:                     items,
				}

				return tx.Create(&budget).Error
			})
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o orçamento")
		}

		if err := database.DB.Preload("Items.Product").Preload("Items.Producer").
			Preload("Client").Preload("Vendor").First(&budget, budget.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar o orçamento")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "budget",
				EntityID:    budget.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Orçamento %s criado: %d itens, total R$ %.2f", budget.BudgetNumber, len(budget.Items), budget.TotalValue),
				Before:      nil,
				After:       budget,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toBudgetResponse(&budget))
	}
}

// GET /api/budgets?status=sent
func ListBudgetsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := auth.CurrentRole(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Budget{}).
			Preload("Items.Product").Preload("Items.Producer").
			Preload("Client").Preload("Vendor")

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
			if !status.ValidBudgetStatus(models.BudgetStatus(s)) {
				return fiber.NewError(fiber.StatusBadRequest, "Status de orçamento inválido")
			}
			dbq = dbq.Where("status = ?", s)
		}

		var budgets []models.Budget
		if err := dbq.Order("created_at DESC").Find(&budgets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os orçamentos")
		}

		resp := make([]BudgetResponse, 0, len(budgets))
		for i := range budgets {
			resp = append(resp, toBudgetResponse(&budgets[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/budgets/:id
func GetBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		budget, err := loadBudgetScoped(c)
		if err != nil {
			return err
		}
		return c.JSON(toBudgetResponse(budget))
	}
}

func loadBudgetScoped(c *fiber.Ctx) (*models.Budget, error) {
	id := c.Params("id")

	var budget models.Budget
	if err := database.DB.Preload("Items.Product").Preload("Items.Producer").
		Preload("Client").Preload("Vendor").First(&budget, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Orçamento não encontrado")
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
		if budget.VendorID != userID {
			return nil, fiber.NewError(fiber.StatusForbidden, "Este orçamento não é seu")
		}
	case models.RoleClient:
		clientID, ok := c.Locals(auth.CtxClientIDKey).(*uint)
		if !ok || clientID == nil || budget.ClientID != *clientID {
			return nil, fiber.NewError(fiber.StatusForbidden, "Este orçamento não é seu")
		}
	}
	return &budget, nil
}

type UpdateBudgetRequest struct {
	Items                     []BudgetItemRequest `json:"items"`
	DiscountType              string              `json:"discount_type"`
	DiscountValue             float64             `json:"discount_value"`
	ShippingCost              float64             `json:"shipping_cost"`
	DeliveryType              string              `json:"delivery_type"`
	GeneralCustomizationValue float64             `json:"general_customization_value"`
	Notes                     string              `json:"notes"`
	ValidUntil                string              `json:"valid_until"`
	DeliveryDeadline          string              `json:"delivery_deadline"`
}

// PUT /api/budgets/:id
// Só orçamentos em draft ou sent podem ser editados; itens são substituídos
// por inteiro e os totais recalculados no servidor.
func UpdateBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		budget, err := loadBudgetScoped(c)
		if err != nil {
			return err
		}

		if budget.Status != models.BudgetStatusDraft && budget.Status != models.BudgetStatusSent {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Apenas orçamentos em rascunho ou enviados podem ser editados")
		}

		var body UpdateBudgetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		deliveryType := models.DeliveryType(body.DeliveryType)
		if deliveryType != models.DeliveryTypeDelivery && deliveryType != models.DeliveryTypePickup {
			return fiber.NewError(fiber.StatusBadRequest, "delivery_type deve ser 'delivery' ou 'pickup'")
		}
		discountType := models.DiscountType(body.DiscountType)
		if discountType != models.DiscountTypePercent && discountType != models.DiscountTypeFixed {
			return fiber.NewError(fiber.StatusBadRequest, "discount_type deve ser 'percent' ou 'fixed'")
		}

		validUntil, err := parseOptionalDate(body.ValidUntil, "valid_until")
		if err != nil {
			return err
		}
		deliveryDeadline, err := parseOptionalDate(body.DeliveryDeadline, "delivery_deadline")
		if err != nil {
			return err
		}

		before := *budget

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			items, subtotal, err := buildItems(tx, body.Items, body.GeneralCustomizationValue)
			if err != nil {
				return err
			}

			if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetItem{}).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].BudgetID = budget.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}

			budget.DiscountType = discountType
			budget.DiscountValue = body.DiscountValue
			budget.ShippingCost = body.ShippingCost
			budget.DeliveryType = deliveryType
			budget.GeneralCustomizationValue = body.GeneralCustomizationValue
			budget.TotalValue = pricing.Total(subtotal, discountType, body.DiscountValue, body.ShippingCost, deliveryType)
			budget.Notes = body.Notes
			budget.ValidUntil = validUntil
			budget.DeliveryDeadline = deliveryDeadline
			budget.Items = nil

			return tx.Save(budget).Error
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o orçamento")
		}

		if err := database.DB.Preload("Items.Product").Preload("Items.Producer").
			Preload("Client").Preload("Vendor").First(budget, budget.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar o orçamento")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "budget",
				EntityID:    budget.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Orçamento %s editado, total R$ %.2f", budget.BudgetNumber, budget.TotalValue),
				Before:      before,
				After:       budget,
			})
		}

		return c.JSON(toBudgetResponse(budget))
	}
}

type UpdateBudgetStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/budgets/:id/status
// Transições comerciais: draft->sent, sent->approved/rejected. Conversão tem
// endpoint próprio.
func UpdateBudgetStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		budget, err := loadBudgetScoped(c)
		if err != nil {
			return err
		}

		var body UpdateBudgetStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		to := models.BudgetStatus(body.Status)
		if to == models.BudgetStatusConverted {
			return fiber.NewError(fiber.StatusBadRequest, "Use /api/budgets/:id/convert para converter em pedido")
		}
		if err := status.ValidateBudgetTransition(budget.Status, to); err != nil {
			return err
		}

		before := *budget
		budget.Status = to
		if err := database.DB.Save(budget).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o status")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "budget",
				EntityID:    budget.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Orçamento %s: %s -> %s", budget.BudgetNumber, before.Status, to),
				Before:      before,
				After:       budget,
			})
		}

		return c.JSON(fiber.Map{
			"id":     budget.ID,
			"status": budget.Status,
		})
	}
}
