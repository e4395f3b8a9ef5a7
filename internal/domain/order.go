package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusFulfilled OrderStatus = "FULFILLED"
)

type OrderItem struct {
	Slug       string `json:"slug"`
	Size       string `json:"size,omitempty"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// Order is the authoritative record of a purchase. Prices are always
// re-resolved server-side before an order is created; client-sent totals
// are never trusted.
type Order struct {
	ID         uuid.UUID   `json:"id"`
	Email      string      `json:"email"`
	TotalCents int64       `json:"total_cents"`
	Status     OrderStatus `json:"status"`
	PaymentRef string      `json:"payment_ref,omitempty"`
	Items      []OrderItem `json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
}
