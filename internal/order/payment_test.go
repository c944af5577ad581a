package order

import "testing"

func TestApplyPayment(t *testing.T) {
	tests := []struct {
		name     string
		paid     float64
		amount   float64
		total    float64
		wantPaid float64
		exceeds  bool
	}{
		{"primeiro pagamento parcial", 0, 50, 100, 50, false},
		{"quitação exata", 50, 50, 100, 100, false},
		{"um centavo acima do saldo", 50, 50.01, 100, 100.01, true},
		{"pagamento maior que o total", 0, 150, 100, 150, true},
		{"centavos quebrados arredondam antes de comparar", 33.33, 66.666, 99.99, 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotPaid, gotExceeds := applyPayment(tt.paid, tt.amount, tt.total)
			if gotPaid != tt.wantPaid || gotExceeds != tt.exceeds {
				t.Errorf("applyPayment(%v, %v, %v) = (%v, %v), want (%v, %v)",
					tt.paid, tt.amount, tt.total, gotPaid, gotExceeds, tt.wantPaid, tt.exceeds)
			}
		})
	}
}

func TestApplyPaymentAccumulation(t *testing.T) {
	// Dez parcelas de R$ 0,10 fecham R$ 1,00 sem resíduo binário sobrando.
	paid := 0.0
	for i := 0; i < 10; i++ {
		var exceeds bool
		paid, exceeds = applyPayment(paid, 0.10, 1.00)
		if exceeds {
			t.Fatalf("parcela %d estourou o total: paid=%v", i+1, paid)
		}
	}
	if paid != 1.00 {
		t.Errorf("soma das parcelas = %v, want 1.00", paid)
	}

	if _, exceeds := applyPayment(paid, 0.01, 1.00); !exceeds {
		t.Error("pagamento além do total quitado deveria estourar")
	}
}
