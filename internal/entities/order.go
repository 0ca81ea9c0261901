package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the fulfilment stage of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order is a customer order, linked to a lead by customer phone.
type Order struct {
	ID              string      `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID        string      `json:"client_id" gorm:"type:uuid;index"`
	CustomerName    *string     `json:"customer_name"`
	CustomerPhone   *string     `json:"customer_phone"`
	ProductDetails  *string     `json:"product_details"`
	TotalAmount     *float64    `json:"total_amount"`
	Currency        string      `json:"currency"`
	ShippingAddress *string     `json:"shipping_address"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	LastUpdated     time.Time   `json:"last_updated" gorm:"column:last_updated"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderInput is the create payload.
type OrderInput struct {
	CustomerName    string   `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   string   `json:"customer_phone" validate:"required,max=32"`
	ProductDetails  string   `json:"product_details" validate:"required,max=5000"`
	TotalAmount     *float64 `json:"total_amount" validate:"required,gte=0"`
	Currency        string   `json:"currency" validate:"omitempty,min=1,max=8"`
	ShippingAddress *string  `json:"shipping_address" validate:"omitempty,max=1000"`
}
