package product

import "errors"

var (
	ErrInvalidPrice = errors.New("price must be non-negative")
	ErrInvalidStock = errors.New("stock quantity must be non-negative")
	ErrMissingName  = errors.New("name is required")
)

// ServiceInterface is what other packages (order enrichment, handlers)
// depend on.
type ServiceInterface interface {
	List(filter ListFilter) ([]Product, int, error)
	GetByID(id int) (Product, error)
	ListByIDs(ids []int) ([]Product, error)
	Brands() ([]string, error)
	Categories() ([]string, error)
	Genders() ([]string, error)
	ProductTypes() ([]string, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Deactivate(id int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) List(filter ListFilter) ([]Product, int, error) {
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(filter)
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) Brands() ([]string, error)       { return s.repo.Brands() }
func (s *Service) Categories() ([]string, error)   { return s.repo.Categories() }
func (s *Service) Genders() ([]string, error)      { return s.repo.Genders() }
func (s *Service) ProductTypes() ([]string, error) { return s.repo.ProductTypes() }

func (s *Service) Create(p Product) (Product, error) {
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	return s.repo.Update(id, p)
}

func (s *Service) Deactivate(id int) error {
	return s.repo.Deactivate(id)
}

func validateProduct(p Product) error {
	if p.Name == "" {
		return ErrMissingName
	}
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.StockQuantity < 0 {
		return ErrInvalidStock
	}
	return nil
}
