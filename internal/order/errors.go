package order

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptyCart means no resolvable cart lines were submitted.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrDuplicateOrderNumber is a uniqueness collision on the generated
	// order number; the orchestrator retries with a fresh number.
	ErrDuplicateOrderNumber = errors.New("duplicate order number")

	// ErrCartOutOfDate is a referential-integrity failure detected inside
	// the transaction, e.g. a product deleted between pre-check and commit.
	ErrCartOutOfDate = errors.New("cart references products that no longer exist")

	ErrNotFound = errors.New("order not found")

	ErrInvalidStatus = errors.New("invalid order status")
)

// ProductsNotFoundError carries every missing product id so the client can
// fix its cart in one round-trip.
type ProductsNotFoundError struct {
	IDs []int
}

func (e *ProductsNotFoundError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = strconv.Itoa(id)
	}
	return "products not found: " + strings.Join(parts, ", ")
}

// ProductUnavailableError names an inactive product still present in the cart.
type ProductUnavailableError struct {
	Name string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %q is no longer for sale", e.Name)
}

// InsufficientStockError carries the product name and the quantity still
// available.
type InsufficientStockError struct {
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %q has only %d in stock", e.Name, e.Available)
}
