package admin

import (
	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ClientRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
}

type ClientResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
}

func toClientResponse(cl *models.Client) ClientResponse {
	return ClientResponse{
		ID:       cl.ID,
		Name:     cl.Name,
		Document: cl.Document,
		Email:    cl.Email,
		Phone:    cl.Phone,
		Address:  cl.Address,
		City:     cl.City,
		State:    cl.State,
	}
}

// POST /api/admin/clients
func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}

		client := models.Client{
			Name:     body.Name,
			Document: body.Document,
			Email:    body.Email,
			Phone:    body.Phone,
			Address:  body.Address,
			City:     body.City,
			State:    body.State,
		}
		if err := database.DB.Create(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o cliente")
		}
		return c.Status(fiber.StatusCreated).JSON(toClientResponse(&client))
	}
}

// GET /api/admin/clients
func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var clients []models.Client
		if err := database.DB.Order("name ASC").Find(&clients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os clientes")
		}

		resp := make([]ClientResponse, 0, len(clients))
		for i := range clients {
			resp = append(resp, toClientResponse(&clients[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/clients/:id
func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var client models.Client
		if err := database.DB.First(&client, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente não encontrado")
		}

		var body ClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}

		client.Name = body.Name
		client.Document = body.Document
		client.Email = body.Email
		client.Phone = body.Phone
		client.Address = body.Address
		client.City = body.City
		client.State = body.State

		if err := database.DB.Save(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o cliente")
		}
		return c.JSON(toClientResponse(&client))
	}
}
