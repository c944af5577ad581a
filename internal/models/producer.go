package models

import "time"

// Producer: oficina de produção (externa) ou setor interno da fábrica.
// Itens de produtores internos não geram ordem de produção.
type Producer struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:150;not null;unique"`
	Email        string `gorm:"size:100"`
	Phone        string `gorm:"size:30"`
	Internal     bool   `gorm:"not null;default:false"`
	LeadTimeDays int    `gorm:"default:0"` // prazo médio de produção
	Active       bool   `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
