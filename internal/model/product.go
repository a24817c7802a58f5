package model

import (
	"time"
)

// Product represents the product master data
type Product struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(100);not null"`
	Category   string    `json:"category" gorm:"type:varchar(100)"`
	Price      float64   `json:"price" gorm:"not null"`
	Stock      int       `json:"stock" gorm:"not null;default:0"`
	SupplierID uint      `json:"supplier_id" gorm:"index;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Label returns the human-readable representation of the product
func (p *Product) Label() string {
	return p.Name
}
