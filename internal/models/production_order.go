package models

import "time"

type ProductionOrderStatus string

const (
	ProductionStatusPending    ProductionOrderStatus = "pending"
	ProductionStatusAccepted   ProductionOrderStatus = "accepted"
	ProductionStatusProduction ProductionOrderStatus = "production"
	ProductionStatusReady      ProductionOrderStatus = "ready"
	ProductionStatusShipped    ProductionOrderStatus = "shipped"
	ProductionStatusDelivered  ProductionOrderStatus = "delivered"
	ProductionStatusCompleted  ProductionOrderStatus = "completed"
	ProductionStatusRejected   ProductionOrderStatus = "rejected"
)

// ProductionOrder: ticket de produção de um produtor dentro de um pedido.
// O índice único (order_id, producer_id) garante no máximo uma ordem por
// produtor em cada pedido; o reenvio concorrente vira conflito no banco.
type ProductionOrder struct {
	ID         uint `gorm:"primaryKey"`
	OrderID    uint `gorm:"not null;uniqueIndex:idx_production_order_producer"`
	Order      Order
	ProducerID uint `gorm:"not null;uniqueIndex:idx_production_order_producer"`
	Producer   Producer

	Status       ProductionOrderStatus `gorm:"size:20;not null;default:'pending';index"`
	Deadline     *time.Time
	TrackingCode string `gorm:"size:100"`
	Notes        string `gorm:"size:500"`

	AcceptedAt  *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time

	Items []OrderItem `gorm:"foreignKey:ProductionOrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
