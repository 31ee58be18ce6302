package models

import "time"

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
