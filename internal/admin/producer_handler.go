package admin

import (
	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProducerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Internal     *bool  `json:"internal"`
	LeadTimeDays int    `json:"lead_time_days"`
	Active       *bool  `json:"active"`
}

type ProducerResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Internal     bool   `json:"internal"`
	LeadTimeDays int    `json:"lead_time_days"`
	Active       bool   `json:"active"`
}

func toProducerResponse(p *models.Producer) ProducerResponse {
	return ProducerResponse{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		Internal:     p.Internal,
		LeadTimeDays: p.LeadTimeDays,
		Active:       p.Active,
	}
}

// POST /api/admin/producers
func CreateProducerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProducerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}
		if body.LeadTimeDays < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Prazo de produção não pode ser negativo")
		}

		producer := models.Producer{
			Name:         body.Name,
			Email:        body.Email,
			Phone:        body.Phone,
			LeadTimeDays: body.LeadTimeDays,
			Active:       true,
		}
		if body.Internal != nil {
			producer.Internal = *body.Internal
		}
		if err := database.DB.Create(&producer).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Já existe um produtor com esse nome")
		}
		return c.Status(fiber.StatusCreated).JSON(toProducerResponse(&producer))
	}
}

// GET /api/admin/producers
func ListProducersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Order("name ASC")
		if c.Query("active") == "true" {
			query = query.Where("active = ?", true)
		}

		var producers []models.Producer
		if err := query.Find(&producers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os produtores")
		}

		resp := make([]ProducerResponse, 0, len(producers))
		for i := range producers {
			resp = append(resp, toProducerResponse(&producers[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/producers/:id
func UpdateProducerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var producer models.Producer
		if err := database.DB.First(&producer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produtor não encontrado")
		}

		var body ProducerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}
		if body.LeadTimeDays < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Prazo de produção não pode ser negativo")
		}

		producer.Name = body.Name
		producer.Email = body.Email
		producer.Phone = body.Phone
		producer.LeadTimeDays = body.LeadTimeDays
		if body.Internal != nil {
			producer.Internal = *body.Internal
		}
		if body.Active != nil {
			producer.Active = *body.Active
		}

		if err := database.DB.Save(&producer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o produtor")
		}
		return c.JSON(toProducerResponse(&producer))
	}
}
