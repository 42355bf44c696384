package order

import (
	"github.com/rareparfume/perfume-shop-backend/internal/customer"
)

// Status of an order. Placement always creates orders as pending; the
// remaining states are driven by the back-office.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is one persisted placement. Customer fields are a snapshot of the
// submission, not a reference to the customers row, so the order stays stable
// if the customer record changes later.
type Order struct {
	ID              int     `json:"id"`
	OrderNumber     string  `json:"order_number"`
	CustomerName    string  `json:"customer_name"`
	CustomerEmail   string  `json:"customer_email"`
	CustomerPhone   string  `json:"customer_phone"`
	ShippingAddress string  `json:"shipping_address"`
	TotalAmount     float64 `json:"total_amount"`
	PaymentMethod   string  `json:"payment_method"`
	ShippingMethod  string  `json:"shipping_method"`
	Notes           string  `json:"notes,omitempty"`
	Status          Status  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	Items           []Item  `json:"items"`
}

// Item is one order line. PriceAtPurchase is the per-unit catalog price at
// placement time and never changes afterwards. ProductName and ProductImage
// are display enrichment filled on reads.
type Item struct {
	ID              int     `json:"id"`
	ProductID       int     `json:"product_id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
	ProductName     string  `json:"product_name,omitempty"`
	ProductImage    string  `json:"product_image,omitempty"`
}

// CartLine is one requested cart entry.
type CartLine struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// PlaceInput is the validated payload the orchestrator works from.
type PlaceInput struct {
	Contact        customer.Contact
	Lines          []CartLine
	PaymentMethod  string
	ShippingMethod string
	Notes          string
}

// Draft is one placement attempt handed to the repository: the input plus the
// generated order number for this attempt.
type Draft struct {
	OrderNumber string
	Input       PlaceInput
}
