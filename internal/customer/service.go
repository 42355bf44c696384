package customer

// Service exposes customer reads to the admin handlers.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]Customer, error) {
	return s.repo.List()
}

func (s *Service) GetByEmail(email string) (Customer, error) {
	return s.repo.GetByEmail(email)
}
