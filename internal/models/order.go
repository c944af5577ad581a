package models

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProduction OrderStatus = "production"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"

	// Estado apenas de exibição, derivado das ordens de produção
	// (alguns produtores despacharam, outros não). Nunca é persistido.
	OrderStatusPartialShipped OrderStatus = "partial_shipped"
)

// Order: pedido confirmado, sempre originado de um orçamento convertido.
// Nunca é apagado.
type Order struct {
	ID          uint   `gorm:"primaryKey"`
	OrderNumber string `gorm:"size:20;uniqueIndex;not null"`
	BudgetID    *uint  `gorm:"index"`
	ClientID    uint   `gorm:"index;not null"`
	Client      Client
	VendorID    uint `gorm:"index;not null"`
	Vendor      User
	PartnerID   *uint       `gorm:"index"`
	Partner     *User       `gorm:"foreignKey:PartnerID"`
	Status      OrderStatus `gorm:"size:20;not null;default:'pending';index"`

	DiscountType              DiscountType `gorm:"size:10;not null;default:'fixed'"`
	DiscountValue             float64      `gorm:"not null;default:0"`
	ShippingCost              float64      `gorm:"not null;default:0"`
	DeliveryType              DeliveryType `gorm:"size:10;not null;default:'delivery'"`
	GeneralCustomizationValue float64      `gorm:"not null;default:0"`

	TotalValue float64 `gorm:"not null"`
	PaidValue  float64 `gorm:"not null;default:0"`

	Notes            string `gorm:"size:500"`
	DeliveryDeadline *time.Time
	DeliveredAt      *time.Time

	Items            []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments         []Payment         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ProductionOrders []ProductionOrder `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product

	ProducerID *uint `gorm:"index"`
	Producer   *Producer

	Quantity           int     `gorm:"not null"`
	UnitPrice          float64 `gorm:"not null"`
	CustomizationValue float64 `gorm:"not null;default:0"`
	TotalPrice         float64 `gorm:"not null"`

	// Preenchido quando o item entra numa ordem de produção
	ProductionOrderID *uint `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Payment struct {
	ID      uint `gorm:"primaryKey"`
	OrderID uint `gorm:"index;not null"`
	Amount  float64   `gorm:"not null"`
	Method  string    `gorm:"size:30;not null"` // pix, boleto, cartao, dinheiro
	PaidAt  time.Time `gorm:"index;not null"`
	Notes   string    `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
