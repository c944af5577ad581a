package models

import "time"

type Client struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:150;not null"`
	Document  string `gorm:"size:20;index"` // CPF ou CNPJ
	Email     string `gorm:"size:100"`
	Phone     string `gorm:"size:30"`
	Address   string `gorm:"size:255"`
	City      string `gorm:"size:100"`
	State     string `gorm:"size:2"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
