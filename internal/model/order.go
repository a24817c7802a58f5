package model

import (
	"fmt"
	"time"
)

// Order statuses. New orders always start out Pending; the update endpoint
// accepts any of the four values.
const (
	OrderStatusPending   = "Pending"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// OrderStatuses lists every accepted order status
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is one of the accepted order statuses
func ValidOrderStatus(s string) bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order represents a purchase order against a single product. TotalPrice is
// computed from the product price at creation time and Date is set once when
// the order is created; neither is settable by clients.
type Order struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProductID  uint      `json:"product_id" gorm:"index;not null"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	TotalPrice float64   `json:"total_price" gorm:"not null"`
	Status     string    `json:"status" gorm:"type:varchar(20);not null;default:'Pending'"`
	Date       time.Time `json:"date" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Label returns the human-readable representation of the order
func (o *Order) Label(productName string) string {
	return fmt.Sprintf("Order %d - %s", o.ID, productName)
}
