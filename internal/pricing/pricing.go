package pricing

import (
	"math"

	"pedidos-backend/internal/models"
)

// Round2 arredonda para 2 casas decimais (meio longe do zero). Todo valor
// monetário persistido passa por aqui; o acúmulo de resíduo binário do
// float64 não pode vazar para o banco.
func Round2(v float64) float64 {
	if v < 0 {
		return -math.Floor(-v*100+0.5) / 100
	}
	return math.Floor(v*100+0.5) / 100
}

// Line é a fatia de um item relevante para o cálculo de totais.
type Line struct {
	Quantity           int
	UnitPrice          float64
	CustomizationValue float64 // ajuste fixo da linha
}

// LineTotal: quantidade × preço unitário + personalização fixa da linha +
// quantidade × personalização geral por unidade.
func LineTotal(l Line, generalCustomization float64) float64 {
	return Round2(float64(l.Quantity)*l.UnitPrice + l.CustomizationValue + float64(l.Quantity)*generalCustomization)
}

func Subtotal(lines []Line, generalCustomization float64) float64 {
	var sum float64
	for _, l := range lines {
		sum += LineTotal(l, generalCustomization)
	}
	return Round2(sum)
}

// Discount aplica desconto percentual ou fixo sobre o subtotal. Nunca
// devolve mais que o próprio subtotal.
func Discount(subtotal float64, dtype models.DiscountType, value float64) float64 {
	if value <= 0 {
		return 0
	}
	var d float64
	switch dtype {
	case models.DiscountTypePercent:
		d = subtotal * value / 100
	default:
		d = value
	}
	if d > subtotal {
		d = subtotal
	}
	return Round2(d)
}

// Total fecha o valor do orçamento/pedido: subtotal − desconto (nunca
// negativo) + frete, exceto retirada no balcão.
func Total(subtotal float64, dtype models.DiscountType, discountValue, shipping float64, delivery models.DeliveryType) float64 {
	total := subtotal - Discount(subtotal, dtype, discountValue)
	if total < 0 {
		total = 0
	}
	if delivery != models.DeliveryTypePickup {
		total += shipping
	}
	return Round2(total)
}

// CommissionAmount: valor do pedido × taxa / 100, em centavos exatos.
func CommissionAmount(orderValue, percentage float64) float64 {
	return Round2(orderValue * percentage / 100)
}
