package models

import "time"

type BudgetStatus string

const (
	BudgetStatusDraft     BudgetStatus = "draft"
	BudgetStatusSent      BudgetStatus = "sent"
	BudgetStatusApproved  BudgetStatus = "approved"
	BudgetStatusRejected  BudgetStatus = "rejected"
	BudgetStatusConverted BudgetStatus = "converted"
)

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeFixed   DiscountType = "fixed"
)

// Budget: orçamento comercial. Nunca é apagado; estados terminais
// (rejected/converted) fazem o papel de soft-delete.
type Budget struct {
	ID           uint   `gorm:"primaryKey"`
	BudgetNumber string `gorm:"size:20;uniqueIndex;not null"`
	ClientID     uint   `gorm:"index;not null"`
	Client       Client
	VendorID     uint `gorm:"index;not null"`
	Vendor       User
	// Parceiro indicador, quando a venda veio por indicação
	PartnerID *uint `gorm:"index"`
	Partner   *User `gorm:"foreignKey:PartnerID"`
	Status    BudgetStatus `gorm:"size:20;not null;default:'draft';index"`

	DiscountType  DiscountType `gorm:"size:10;not null;default:'fixed'"`
	DiscountValue float64      `gorm:"not null;default:0"`
	ShippingCost  float64      `gorm:"not null;default:0"`
	DeliveryType  DeliveryType `gorm:"size:10;not null;default:'delivery'"`

	// Personalização geral cobrada por unidade, somada sobre todos os itens
	GeneralCustomizationValue float64 `gorm:"not null;default:0"`

	TotalValue       float64 `gorm:"not null"`
	Notes            string  `gorm:"size:500"`
	ValidUntil       *time.Time
	DeliveryDeadline *time.Time

	// Preenchido quando o orçamento vira pedido
	ConvertedOrderID *uint

	Items []BudgetItem `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type BudgetItem struct {
	ID        uint `gorm:"primaryKey"`
	BudgetID  uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product

	// Produtor sugerido para o item; nil = ainda sem definição
	ProducerID *uint
	Producer   *Producer

	Quantity  int     `gorm:"not null"`
	UnitPrice float64 `gorm:"not null"`

	// Ajuste de personalização fixo do item (bordado, estampa etc.)
	CustomizationValue float64 `gorm:"not null;default:0"`

	TotalPrice float64 `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
