package admin

import (
	"strings"

	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Role           string  `json:"role"`
	CommissionRate float64 `json:"commission_rate"`
	ClientID       *uint   `json:"client_id"`
	ProducerID     *uint   `json:"producer_id"`
}

type UserResponse struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Role           models.UserRole `json:"role"`
	CommissionRate float64         `json:"commission_rate"`
	ClientID       *uint           `json:"client_id"`
	ProducerID     *uint           `json:"producer_id"`
	Active         bool            `json:"active"`
	CreatedAt      string          `json:"created_at"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		CommissionRate: u.CommissionRate,
		ClientID:       u.ClientID,
		ProducerID:     u.ProducerID,
		Active:         u.Active,
		CreatedAt:      u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func validRole(r models.UserRole) bool {
	switch r {
	case models.RoleAdmin, models.RoleVendor, models.RoleClient,
		models.RoleProducer, models.RolePartner, models.RoleLogistics:
		return true
	}
	return false
}

// POST /api/admin/users
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome, email e senha são obrigatórios")
		}

		role := models.UserRole(body.Role)
		if !validRole(role) {
			return fiber.NewError(fiber.StatusBadRequest, "Perfil inválido")
		}

		if role == models.RoleClient {
			if body.ClientID == nil {
				return fiber.NewError(fiber.StatusBadRequest, "client_id é obrigatório para perfil de cliente")
			}
			var client models.Client
			if err := database.DB.First(&client, "id = ?", *body.ClientID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Cliente não encontrado")
			}
		}
		if role == models.RoleProducer {
			if body.ProducerID == nil {
				return fiber.NewError(fiber.StatusBadRequest, "producer_id é obrigatório para perfil de produtor")
			}
			var producer models.Producer
			if err := database.DB.First(&producer, "id = ?", *body.ProducerID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Produtor não encontrado")
			}
		}

		if role != models.RoleVendor && role != models.RolePartner && body.CommissionRate != 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Apenas vendedor e parceiro têm taxa de comissão")
		}
		if body.CommissionRate < 0 || body.CommissionRate > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "commission_rate deve ficar entre 0 e 100")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o hash da senha")
		}

		user := models.User{
			Name:           body.Name,
			Email:          body.Email,
			PasswordHash:   string(hash),
			Role:           role,
			CommissionRate: body.CommissionRate,
			ClientID:       body.ClientID,
			ProducerID:     body.ProducerID,
			Active:         true,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o usuário (email já cadastrado?)")
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(&user))
	}
}

// GET /api/admin/users?role=vendor
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.User{})
		if r := c.Query("role"); r != "" {
			if !validRole(models.UserRole(r)) {
				return fiber.NewError(fiber.StatusBadRequest, "Perfil inválido")
			}
			dbq = dbq.Where("role = ?", r)
		}

		var users []models.User
		if err := dbq.Order("name ASC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os usuários")
		}

		resp := make([]UserResponse, 0, len(users))
		for i := range users {
			resp = append(resp, toUserResponse(&users[i]))
		}
		return c.JSON(resp)
	}
}

type UpdateUserRequest struct {
	Name           *string  `json:"name"`
	Password       *string  `json:"password"`
	CommissionRate *float64 `json:"commission_rate"`
	Active         *bool    `json:"active"`
}

// PUT /api/admin/users/:id
// Mudança de taxa só vale para comissões futuras; as acumuladas guardam o
// snapshot da taxa na época.
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != nil && *body.Name != "" {
			user.Name = *body.Name
		}
		if body.Password != nil && *body.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o hash da senha")
			}
			user.PasswordHash = string(hash)
		}
		if body.CommissionRate != nil {
			if user.Role != models.RoleVendor && user.Role != models.RolePartner {
				return fiber.NewError(fiber.StatusBadRequest, "Apenas vendedor e parceiro têm taxa de comissão")
			}
			if *body.CommissionRate < 0 || *body.CommissionRate > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "commission_rate deve ficar entre 0 e 100")
			}
			user.CommissionRate = *body.CommissionRate
		}
		if body.Active != nil {
			user.Active = *body.Active
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o usuário")
		}

		return c.JSON(toUserResponse(&user))
	}
}
