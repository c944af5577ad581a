package logistics

import (
	"testing"
	"time"
)

func TestComputePriority(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	deadline := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	tests := []struct {
		name     string
		deadline *time.Time
		want     Priority
	}{
		{"sem prazo", nil, PriorityNormal},
		{"vencido ontem", deadline(-24 * time.Hour), PriorityOverdue},
		{"vencido há um minuto", deadline(-time.Minute), PriorityOverdue},
		{"falta um dia", deadline(24 * time.Hour), PriorityUrgent},
		{"faltam exatos dois dias", deadline(48 * time.Hour), PriorityUrgent},
		{"faltam três dias", deadline(72 * time.Hour), PriorityWarning},
		{"faltam exatos cinco dias", deadline(120 * time.Hour), PriorityWarning},
		{"falta uma semana", deadline(7 * 24 * time.Hour), PriorityNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputePriority(tt.deadline, now); got != tt.want {
				t.Errorf("ComputePriority = %s, want %s", got, tt.want)
			}
		})
	}
}
