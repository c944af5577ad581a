package commission

import (
	"testing"

	"pedidos-backend/internal/models"
)

func TestEligible(t *testing.T) {
	tests := []struct {
		name   string
		status models.CommissionStatus
		action BulkAction
		want   bool
	}{
		{"confirmed pode ser paga", models.CommissionStatusConfirmed, BulkActionMarkPaid, true},
		{"pending não pode ser paga", models.CommissionStatusPending, BulkActionMarkPaid, false},
		{"paid não pode ser paga de novo", models.CommissionStatusPaid, BulkActionMarkPaid, false},
		{"cancelled não pode ser paga", models.CommissionStatusCancelled, BulkActionMarkPaid, false},
		{"pending pode ser removida", models.CommissionStatusPending, BulkActionDelete, true},
		{"cancelled pode ser removida", models.CommissionStatusCancelled, BulkActionDelete, true},
		{"confirmed não pode ser removida", models.CommissionStatusConfirmed, BulkActionDelete, false},
		{"paid não pode ser removida", models.CommissionStatusPaid, BulkActionDelete, false},
		{"ação desconhecida nega tudo", models.CommissionStatusPending, BulkAction("zap"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(tt.status, tt.action); got != tt.want {
				t.Errorf("Eligible(%s, %s) = %v, want %v", tt.status, tt.action, got, tt.want)
			}
		})
	}
}

// Cenário de referência: lote de 5 com 2 pendentes (inelegíveis) e 3
// confirmadas → 3 pagas, 2 inelegíveis.
func TestSummarizeReferenceScenario(t *testing.T) {
	statuses := []models.CommissionStatus{
		models.CommissionStatusPending,
		models.CommissionStatusConfirmed,
		models.CommissionStatusPending,
		models.CommissionStatusConfirmed,
		models.CommissionStatusConfirmed,
	}

	results := make([]BulkItemResult, 0, len(statuses))
	for i, s := range statuses {
		outcome := OutcomeIneligible
		if Eligible(s, BulkActionMarkPaid) {
			outcome = OutcomeOK
		}
		results = append(results, BulkItemResult{ID: uint(i + 1), Outcome: outcome})
	}

	ok, ineligible, notFound := Summarize(results)
	if ok != 3 || ineligible != 2 || notFound != 0 {
		t.Errorf("Summarize = (%d, %d, %d), want (3, 2, 0)", ok, ineligible, notFound)
	}
}
