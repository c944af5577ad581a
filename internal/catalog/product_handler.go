package catalog

import (
	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductRequest struct {
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Unit      string  `json:"unit"`
	BasePrice float64 `json:"base_price"`
	Active    *bool   `json:"active"`
}

type ProductResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Unit      string  `json:"unit"`
	BasePrice float64 `json:"base_price"`
	Active    bool    `json:"active"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Unit:      p.Unit,
		BasePrice: p.BasePrice,
		Active:    p.Active,
	}
}

// POST /api/admin/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}
		if body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Unidade é obrigatória")
		}
		if body.BasePrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Preço base não pode ser negativo")
		}

		product := models.Product{
			Name:      body.Name,
			SKU:       body.SKU,
			Unit:      body.Unit,
			BasePrice: body.BasePrice,
			Active:    true,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Já existe um produto com esse SKU")
		}
		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&product))
	}
}

// GET /api/products
// Disponível para todos os perfis autenticados; montagem de orçamento
// precisa do catálogo completo com preço base.
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Order("name ASC")
		if c.Query("active") == "true" {
			query = query.Where("active = ?", true)
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os produtos")
		}

		resp := make([]ProductResponse, 0, len(products))
		for i := range products {
			resp = append(resp, toProductResponse(&products[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}
		if body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Unidade é obrigatória")
		}
		if body.BasePrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Preço base não pode ser negativo")
		}

		product.Name = body.Name
		product.SKU = body.SKU
		product.Unit = body.Unit
		product.BasePrice = body.BasePrice
		if body.Active != nil {
			product.Active = *body.Active
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o produto")
		}
		return c.JSON(toProductResponse(&product))
	}
}
