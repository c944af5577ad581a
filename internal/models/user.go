package models

import "time"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleVendor    UserRole = "vendor"
	RoleClient    UserRole = "client"
	RoleProducer  UserRole = "producer"
	RolePartner   UserRole = "partner"
	RoleLogistics UserRole = "logistics"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`

	// Taxa de comissão (%) para vendedores e parceiros
	CommissionRate float64 `gorm:"default:0"`

	// Vínculos de perfil: cliente logado aponta para Client, produtor para Producer
	ClientID   *uint
	Client     *Client
	ProducerID *uint
	Producer   *Producer

	Active    bool `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
