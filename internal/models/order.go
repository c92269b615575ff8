package models

import "time"

// OrderStatus is the fulfillment state of an order. Transitions are driven by
// an administrator; the engine only ever creates orders as StatusPending.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
)

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusPreparing, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// Order represents a completed purchase. Items and Total are snapshots taken
// at submission time; only Status may change afterwards.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Items         []CartItem  `json:"items" gorm:"serializer:json"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"status"`
	CustomerEmail string      `json:"customer_email"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
