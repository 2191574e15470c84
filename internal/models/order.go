package models

import (
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Color is the badge color used when displaying the status.
func (s OrderStatus) Color() string {
	switch OrderStatus(strings.ToLower(string(s))) {
	case OrderStatusPending:
		return "yellow-500"
	case OrderStatusProcessing:
		return "blue-500"
	case OrderStatusShipped:
		return "purple-500"
	case OrderStatusDelivered:
		return "green-500"
	case OrderStatusCancelled:
		return "red-500"
	default:
		return "gray-500"
	}
}

// Delivery options.
const (
	DeliveryStandard = "standard"
	DeliveryExpress  = "express"
)

// OrderItem is a cart line captured at placement time.
type OrderItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
	Color    string  `json:"color,omitempty"`
	Size     string  `json:"size,omitempty"`
	Subtotal float64 `json:"subtotal"`
}

// Shipping holds the contact and address details of an order.
type Shipping struct {
	FullName       string `json:"fullName"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	PostalCode     string `json:"postalCode"`
	DeliveryOption string `json:"deliveryOption"`
}

// Payment is the price breakdown of an order.
type Payment struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Order is an immutable snapshot of a checkout. Only Status changes after
// placement.
type Order struct {
	OrderID   string      `json:"orderId"`
	UserID    string      `json:"userId"`
	UserName  string      `json:"userName"`
	OrderDate time.Time   `json:"orderDate"`
	Status    OrderStatus `json:"status"`
	Items     []OrderItem `json:"items"`
	Shipping  Shipping    `json:"shipping"`
	Payment   Payment     `json:"payment"`
}
