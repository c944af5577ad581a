package logistics

import "time"

type Priority string

const (
	PriorityOverdue Priority = "overdue"
	PriorityUrgent  Priority = "urgent"
	PriorityWarning Priority = "warning"
	PriorityNormal  Priority = "normal"
)

// ComputePriority classifica o prazo para o selo do painel. É cálculo de
// exibição: nada disso é persistido e não existe SLA automático.
// overdue: prazo vencido; urgent: até 2 dias; warning: até 5 dias.
func ComputePriority(deadline *time.Time, now time.Time) Priority {
	if deadline == nil {
		return PriorityNormal
	}
	remaining := deadline.Sub(now)
	switch {
	case remaining < 0:
		return PriorityOverdue
	case remaining <= 48*time.Hour:
		return PriorityUrgent
	case remaining <= 120*time.Hour:
		return PriorityWarning
	default:
		return PriorityNormal
	}
}
