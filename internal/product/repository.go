package product

import "errors"

var ErrNotFound = errors.New("product not found")

type Repository interface {
	List(filter ListFilter) ([]Product, int, error)
	GetByID(id int) (Product, error)
	// ListByIDs returns the products matching the given ids in one query.
	// Ids that do not exist are simply absent from the result; the caller
	// decides whether that is an error.
	ListByIDs(ids []int) ([]Product, error)
	Brands() ([]string, error)
	Categories() ([]string, error)
	Genders() ([]string, error)
	ProductTypes() ([]string, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	// Deactivate soft-deletes a product so past order items keep a valid
	// product reference.
	Deactivate(id int) error
}
