package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// jsonb não aceita string vazia; o padrão é o literal JSON null
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("não foi possível gravar o log de auditoria: %w", err)
	}

	return nil
}

// UndoLog desfaz uma mutação registrada. Só entidades sem efeitos em cascata
// são elegíveis: edições de orçamento, pagamentos e comissões. Conversões e
// ordens de produção nunca são desfeitas por aqui.
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log não encontrado: %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("esta operação já foi desfeita")
	}

	switch log.Action {
	case models.AuditActionCreate:
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("não foi possível remover a entidade: %w", err)
		}

	case models.AuditActionUpdate:
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("não foi possível restaurar a entidade: %w", err)
		}

	case models.AuditActionDelete:
		// Em deleções o estado final da entidade fica em BeforeData
		if err := recreateEntity(log.EntityType, log.BeforeData); err != nil {
			return fmt.Errorf("não foi possível recriar a entidade: %w", err)
		}

	default:
		return fmt.Errorf("este tipo de operação não pode ser desfeito")
	}

	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("não foi possível atualizar o log: %w", err)
	}

	undoLog := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Desfeito: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("não foi possível gravar o log de undo: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "payment":
		return database.DB.Delete(&models.Payment{}, "id = ?", entityID).Error
	case "commission":
		return database.DB.Delete(&models.Commission{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("tipo de entidade não elegível para undo: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "payment":
		var payment models.Payment
		if err := json.Unmarshal([]byte(dataJSON), &payment); err != nil {
			return err
		}
		payment.ID = 0
		return database.DB.Create(&payment).Error

	case "commission":
		var commission models.Commission
		if err := json.Unmarshal([]byte(dataJSON), &commission); err != nil {
			return err
		}
		commission.ID = 0
		return database.DB.Create(&commission).Error

	default:
		return fmt.Errorf("tipo de entidade não elegível para undo: %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "budget":
		var budget models.Budget
		if err := json.Unmarshal([]byte(dataJSON), &budget); err != nil {
			return err
		}
		return database.DB.Model(&models.Budget{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"status":                      budget.Status,
			"discount_type":               budget.DiscountType,
			"discount_value":              budget.DiscountValue,
			"shipping_cost":               budget.ShippingCost,
			"delivery_type":               budget.DeliveryType,
			"general_customization_value": budget.GeneralCustomizationValue,
			"total_value":                 budget.TotalValue,
			"notes":                       budget.Notes,
			"valid_until":                 budget.ValidUntil,
			"delivery_deadline":           budget.DeliveryDeadline,
		}).Error

	case "commission":
		var commission models.Commission
		if err := json.Unmarshal([]byte(dataJSON), &commission); err != nil {
			return err
		}
		return database.DB.Model(&models.Commission{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"status":  commission.Status,
			"paid_at": commission.PaidAt,
		}).Error

	default:
		return fmt.Errorf("tipo de entidade não elegível para undo: %s", entityType)
	}
}
