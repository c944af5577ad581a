package models

import "time"

type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "pending"
	CommissionStatusConfirmed CommissionStatus = "confirmed"
	CommissionStatusPaid      CommissionStatus = "paid"
	CommissionStatusCancelled CommissionStatus = "cancelled"
	CommissionStatusDeducted  CommissionStatus = "deducted"
)

type PayeeType string

const (
	PayeeTypeVendor  PayeeType = "vendor"
	PayeeTypePartner PayeeType = "partner"
)

// Commission: comissão acumulada na conversão do orçamento. Percentage é o
// snapshot da taxa do beneficiário naquele momento; mudanças posteriores de
// taxa não recalculam comissões já geradas.
type Commission struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	Order     Order
	PayeeID   uint `gorm:"index;not null"`
	Payee     User `gorm:"foreignKey:PayeeID"`
	PayeeType PayeeType `gorm:"size:10;not null"`

	Percentage float64 `gorm:"not null"`
	BaseValue  float64 `gorm:"not null"` // valor do pedido na acumulação
	Amount     float64 `gorm:"not null"`

	Status CommissionStatus `gorm:"size:20;not null;default:'pending';index"`
	PaidAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
