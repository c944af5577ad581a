package models

import "time"

type Product struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:150;not null"`
	SKU       string  `gorm:"size:50;uniqueIndex"`
	Unit      string  `gorm:"size:20;not null"` // un, par, kit etc.
	BasePrice float64 `gorm:"not null"`
	Active    bool    `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
