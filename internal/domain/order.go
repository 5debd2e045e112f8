package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusPreparing  OrderStatus = "PREPARING"
	OrderStatusReady      OrderStatus = "READY"
	OrderStatusDelivering OrderStatus = "DELIVERING"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// ValidStatus reports whether s is one of the fixed order statuses.
// Shop owners may set any of these at any time; no server-side transition
// machine is enforced.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivering, OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a denormalized snapshot of a flower selection at order time.
// FlowerID is optional so historical orders stay accurate after the inventory
// line changes or disappears.
type OrderItem struct {
	Name      string     `json:"name"`
	FlowerID  *uuid.UUID `json:"flower_id,omitempty"`
	Quantity  int        `json:"quantity"`
	UnitPrice float64    `json:"unit_price"`
}

type Order struct {
	ID              uuid.UUID   `json:"id"`
	ShopID          uuid.UUID   `json:"shop_id"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	RecipientName   string      `json:"recipient_name"`
	DeliveryAddress string      `json:"delivery_address,omitempty"`
	Pickup          bool        `json:"pickup"`
	DeliveryDate    time.Time   `json:"delivery_date"`
	Greeting        string      `json:"greeting,omitempty"`
	Status          OrderStatus `json:"status"`
	InternalNotes   string      `json:"internal_notes,omitempty"`
	TotalPrice      float64     `json:"total_price"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
