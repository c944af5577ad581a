package commission

import (
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

type CommissionResponse struct {
	ID          uint                    `json:"id"`
	OrderID     uint                    `json:"order_id"`
	OrderNumber string                  `json:"order_number"`
	PayeeID     uint                    `json:"payee_id"`
	PayeeName   string                  `json:"payee_name"`
	PayeeType   models.PayeeType        `json:"payee_type"`
	Percentage  float64                 `json:"percentage"`
	BaseValue   float64                 `json:"base_value"`
	Amount      float64                 `json:"amount"`
	Status      models.CommissionStatus `json:"status"`
	PaidAt      *string                 `json:"paid_at"`
	CreatedAt   string                  `json:"created_at"`
}

func toCommissionResponse(cm *models.Commission) CommissionResponse {
	resp := CommissionResponse{
		ID:          cm.ID,
		OrderID:     cm.OrderID,
		OrderNumber: cm.Order.OrderNumber,
		PayeeID:     cm.PayeeID,
		PayeeName:   cm.Payee.Name,
		PayeeType:   cm.PayeeType,
		Percentage:  cm.Percentage,
		BaseValue:   cm.BaseValue,
		Amount:      cm.Amount,
		Status:      cm.Status,
		CreatedAt:   cm.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if cm.PaidAt != nil {
		s := cm.PaidAt.Format("2006-01-02 15:04:05")
		resp.PaidAt = &s
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

// GET /api/commissions?status=confirmed&payee_id=3
// Vendedor e parceiro enxergam só as próprias comissões.
func ListCommissionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := auth.CurrentRole(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Commission{}).
			Preload("Order").Preload("Payee")

		switch role {
		case models.RoleVendor, models.RolePartner:
			userID, err := auth.CurrentUserID(c)
			if err != nil {
				return err
			}
			dbq = dbq.Where("payee_id = ?", userID)
		case models.RoleAdmin:
			if p := c.Query("payee_id"); p != "" {
				var pid uint
				if _, err := fmt.Sscan(p, &pid); err == nil && pid > 0 {
					dbq = dbq.Where("payee_id = ?", pid)
				}
			}
		default:
			return fiber.NewError(fiber.StatusForbidden, "Você não tem permissão para esta operação")
		}

		if s := c.Query("status"); s != "" {
			if !status.ValidCommissionStatus(models.CommissionStatus(s)) {
				return fiber.NewError(fiber.StatusBadRequest, "Status de comissão inválido")
			}
			dbq = dbq.Where("status = ?", s)
		}

		var commissions []models.Commission
		if err := dbq.Order("created_at DESC").Find(&commissions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as comissões")
		}

		resp := make([]CommissionResponse, 0, len(commissions))
		for i := range commissions {
			resp = append(resp, toCommissionResponse(&commissions[i]))
		}
		return c.JSON(resp)
	}
}

type UpdateCommissionStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/commissions/:id/status
func UpdateCommissionStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var commission models.Commission
		if err := database.DB.Preload("Order").Preload("Payee").First(&commission, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Comissão não encontrada")
		}

		var body UpdateCommissionStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		to := models.CommissionStatus(body.Status)
		if err := status.ValidateCommissionTransition(commission.Status, to); err != nil {
			return err
		}

		before := commission
		commission.Status = to
		if to == models.CommissionStatusPaid {
			now := time.Now()
			commission.PaidAt = &now
		}

		if err := database.DB.Save(&commission).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a comissão")
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "commission",
				EntityID:    commission.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Comissão #%d (%s): %s -> %s", commission.ID, commission.Payee.Name, before.Status, to),
				Before:      before,
				After:       commission,
			})
		}

		return c.JSON(toCommissionResponse(&commission))
	}
}

type BulkRequest struct {
	Action BulkAction `json:"action"` // mark_paid | delete
	IDs    []uint     `json:"ids"`
}

type BulkResponse struct {
	Action     BulkAction       `json:"action"`
	OK         int              `json:"ok"`
	Ineligible int              `json:"ineligible"`
	NotFound   int              `json:"not_found"`
	Results    []BulkItemResult `json:"results"`
}

// POST /api/commissions/bulk
// Um único endpoint em lote com resultado por item. O lote inteiro roda numa
// transação: ou tudo que é elegível é aplicado, ou nada (itens inelegíveis
// são reportados, não abortam o lote).
func BulkCommissionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BulkRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Action != BulkActionMarkPaid && body.Action != BulkActionDelete {
			return fiber.NewError(fiber.StatusBadRequest, "action deve ser 'mark_paid' ou 'delete'")
		}
		if len(body.IDs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Informe pelo menos um ID")
		}
		if len(body.IDs) > 200 {
			return fiber.NewError(fiber.StatusBadRequest, "Máximo de 200 IDs por lote")
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		results := make([]BulkItemResult, 0, len(body.IDs))

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			now := time.Now()
			for _, id := range body.IDs {
				var commission models.Commission
				if err := tx.Preload("Payee").First(&commission, "id = ?", id).Error; err != nil {
					results = append(results, BulkItemResult{ID: id, Outcome: OutcomeNotFound})
					continue
				}

				if !Eligible(commission.Status, body.Action) {
					results = append(results, BulkItemResult{
						ID:      id,
						Outcome: OutcomeIneligible,
						Reason:  fmt.Sprintf("status atual: %s", commission.Status),
					})
					continue
				}

				switch body.Action {
				case BulkActionMarkPaid:
					before := commission
					commission.Status = models.CommissionStatusPaid
					commission.PaidAt = &now
					if err := tx.Save(&commission).Error; err != nil {
						return err
					}
					_ = audit.WriteLog(audit.LogOptions{
						UserID:      userID,
						UserName:    userName,
						EntityType:  "commission",
						EntityID:    commission.ID,
						Action:      models.AuditActionUpdate,
						Description: fmt.Sprintf("Comissão #%d marcada como paga (lote)", commission.ID),
						Before:      before,
						After:       commission,
					})

				case BulkActionDelete:
					if err := tx.Delete(&commission).Error; err != nil {
						return err
					}
					_ = audit.WriteLog(audit.LogOptions{
						UserID:      userID,
						UserName:    userName,
						EntityType:  "commission",
						EntityID:    commission.ID,
						Action:      models.AuditActionDelete,
						Description: fmt.Sprintf("Comissão #%d removida (lote)", commission.ID),
						Before:      commission,
						After:       nil,
					})
				}

				results = append(results, BulkItemResult{ID: id, Outcome: OutcomeOK})
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível aplicar o lote")
		}

		ok, ineligible, notFound := Summarize(results)
		return c.JSON(BulkResponse{
			Action:     body.Action,
			OK:         ok,
			Ineligible: ineligible,
			NotFound:   notFound,
			Results:    results,
		})
	}
}
