package order

import (
	"context"

	"github.com/rareparfume/perfume-shop-backend/internal/product"
)

// Catalog is the read-only product lookup the orchestrator pre-validates
// against. Satisfied by product.Service.
type Catalog interface {
	ListByIDs(ids []int) ([]product.Product, error)
}

// Repository defines persistence for orders. Place executes the whole
// placement as one transaction: either every write (customer upsert, order,
// items, stock decrements) commits, or none is observable.
type Repository interface {
	Place(ctx context.Context, draft Draft) (Order, error)
	GetByNumber(orderNumber string) (Order, error)
	ListByEmail(email string) ([]Order, error)
	// ItemsForOrder returns the order's lines enriched with product display
	// name and primary image.
	ItemsForOrder(orderID int) ([]Item, error)

	// ListAll returns every order, newest first, optionally narrowed to one
	// status. Items are not loaded for the listing.
	ListAll(status Status) ([]Order, error)
	UpdateStatus(orderNumber string, status Status) (Order, error)
}
