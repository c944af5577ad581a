package pricing

import (
	"testing"

	"pedidos-backend/internal/models"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.006, 1.01},
		{1.004, 1.0},
		{7.49925, 7.5},
		{-1.006, -1.01},
		{78.0000000001, 78.0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Cenário de referência: 2 itens (2x R$10, 1x R$50), desconto de 10%,
// frete R$15, entrega → subtotal 70, desconto 7, total 78.
func TestTotalReferenceScenario(t *testing.T) {
	lines := []Line{
		{Quantity: 2, UnitPrice: 10},
		{Quantity: 1, UnitPrice: 50},
	}
	subtotal := Subtotal(lines, 0)
	if subtotal != 70 {
		t.Fatalf("Subtotal = %v, want 70", subtotal)
	}
	if d := Discount(subtotal, models.DiscountTypePercent, 10); d != 7 {
		t.Fatalf("Discount = %v, want 7", d)
	}
	total := Total(subtotal, models.DiscountTypePercent, 10, 15, models.DeliveryTypeDelivery)
	if total != 78 {
		t.Fatalf("Total = %v, want 78", total)
	}
}

func TestTotalPickupSkipsShipping(t *testing.T) {
	total := Total(100, models.DiscountTypeFixed, 0, 25, models.DeliveryTypePickup)
	if total != 100 {
		t.Errorf("retirada não deveria somar frete: Total = %v, want 100", total)
	}
}

func TestDiscountFlooredAtSubtotal(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		dtype    models.DiscountType
		value    float64
		shipping float64
		want     float64
	}{
		{"desconto fixo maior que subtotal", 50, models.DiscountTypeFixed, 80, 10, 10},
		{"desconto percentual acima de 100", 50, models.DiscountTypePercent, 150, 0, 0},
		{"desconto negativo ignorado", 50, models.DiscountTypeFixed, -10, 0, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Total(tt.subtotal, tt.dtype, tt.value, tt.shipping, models.DeliveryTypeDelivery)
			if got != tt.want {
				t.Errorf("Total = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineTotalWithCustomization(t *testing.T) {
	// 3 unidades a R$20, bordado fixo R$12 na linha, personalização geral
	// R$2 por unidade: 60 + 12 + 6 = 78
	got := LineTotal(Line{Quantity: 3, UnitPrice: 20, CustomizationValue: 12}, 2)
	if got != 78 {
		t.Errorf("LineTotal = %v, want 78", got)
	}
}

func TestSubtotalAccumulatesCustomization(t *testing.T) {
	lines := []Line{
		{Quantity: 2, UnitPrice: 10.55, CustomizationValue: 1.10},
		{Quantity: 1, UnitPrice: 33.33},
	}
	// linha 1: 21.10 + 1.10 + 2*0.50 = 23.20; linha 2: 33.33 + 0.50 = 33.83
	got := Subtotal(lines, 0.50)
	if got != 57.03 {
		t.Errorf("Subtotal = %v, want 57.03", got)
	}
}

func TestCommissionAmount(t *testing.T) {
	tests := []struct {
		orderValue float64
		percentage float64
		want       float64
	}{
		{1000, 5, 50},
		{78, 10, 7.8},
		{99.99, 7.5, 7.5},    // 7.49925 arredonda para 7.50
		{333.33, 3, 10.0},    // 9.9999
		{0, 10, 0},
		{150, 0, 0},
	}
	for _, tt := range tests {
		if got := CommissionAmount(tt.orderValue, tt.percentage); got != tt.want {
			t.Errorf("CommissionAmount(%v, %v) = %v, want %v", tt.orderValue, tt.percentage, got, tt.want)
		}
	}
}
