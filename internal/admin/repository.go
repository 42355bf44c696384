package admin

import "errors"

var (
	ErrNotFound           = errors.New("admin user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Repository interface {
	GetByUsername(username string) (User, error)
	GetByID(id int) (User, error)
	Create(u User) (User, error)
}
