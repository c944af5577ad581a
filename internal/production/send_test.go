package production

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pedidos-backend/internal/models"
)

func TestClassifySend(t *testing.T) {
	tests := []struct {
		name     string
		existing *models.ProductionOrder
		want     string
	}{
		{"sem ordem anterior cria nova", nil, outcomeSent},
		{"ordem rejeitada é reaproveitada",
			&models.ProductionOrder{Status: models.ProductionStatusRejected}, outcomeResent},
		{"ordem pendente segura o reenvio",
			&models.ProductionOrder{Status: models.ProductionStatusPending}, outcomeAlreadySent},
		{"ordem aceita segura o reenvio",
			&models.ProductionOrder{Status: models.ProductionStatusAccepted}, outcomeAlreadySent},
		{"ordem já enviada segura o reenvio",
			&models.ProductionOrder{Status: models.ProductionStatusShipped}, outcomeAlreadySent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifySend(tt.existing); got != tt.want {
				t.Errorf("classifySend() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSendTransactionError(t *testing.T) {
	if fe, ok := sendTransactionError(gorm.ErrDuplicatedKey).(*fiber.Error); !ok || fe.Code != fiber.StatusConflict {
		t.Errorf("violação de índice único deveria virar 409, veio %v", fe)
	}

	valid := fiber.NewError(fiber.StatusUnprocessableEntity, "Pedido sem itens externos")
	if got := sendTransactionError(valid); got != valid {
		t.Errorf("erro de validação deveria passar intacto, veio %v", got)
	}

	if fe, ok := sendTransactionError(errors.New("connection reset")).(*fiber.Error); !ok || fe.Code != fiber.StatusInternalServerError {
		t.Errorf("erro de banco genérico deveria virar 500, veio %v", fe)
	}
}
