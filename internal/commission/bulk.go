package commission

import "pedidos-backend/internal/models"

type BulkAction string

const (
	BulkActionMarkPaid BulkAction = "mark_paid"
	BulkActionDelete   BulkAction = "delete"
)

type BulkItemOutcome string

const (
	OutcomeOK         BulkItemOutcome = "ok"
	OutcomeIneligible BulkItemOutcome = "ineligible"
	OutcomeNotFound   BulkItemOutcome = "not_found"
)

type BulkItemResult struct {
	ID      uint            `json:"id"`
	Outcome BulkItemOutcome `json:"outcome"`
	Reason  string          `json:"reason,omitempty"`
}

// Eligible decide se a ação em lote pode tocar a comissão. Marcar como paga
// exige status confirmed; remover só alcança pending e cancelled (comissões
// confirmadas ou pagas são histórico financeiro).
func Eligible(status models.CommissionStatus, action BulkAction) bool {
	switch action {
	case BulkActionMarkPaid:
		return status == models.CommissionStatusConfirmed
	case BulkActionDelete:
		return status == models.CommissionStatusPending || status == models.CommissionStatusCancelled
	}
	return false
}

// Summarize conta os resultados para a resposta do lote.
func Summarize(results []BulkItemResult) (ok, ineligible, notFound int) {
	for _, r := range results {
		switch r.Outcome {
		case OutcomeOK:
			ok++
		case OutcomeIneligible:
			ineligible++
		case OutcomeNotFound:
			notFound++
		}
	}
	return
}
