package customer

import "errors"

var ErrNotFound = errors.New("customer not found")

// Repository defines the read-side persistence operations used by the admin
// back-office. Writes happen inside the order placement transaction and are
// owned by the order package.
type Repository interface {
	List() ([]Customer, error)
	GetByEmail(email string) (Customer, error)
}
