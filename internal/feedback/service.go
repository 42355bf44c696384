package feedback

import "errors"

var ErrInvalidStatus = errors.New("invalid feedback status")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Submit(f Feedback) (Feedback, error) {
	return s.repo.Create(f)
}

var ErrInvalidRating = errors.New("invalid rating filter")

func (s *Service) Testimonials(minRating int) ([]Feedback, error) {
	if minRating < 0 || minRating > 5 {
		return nil, ErrInvalidRating
	}
	return s.repo.ListResolved(testimonialLimit, minRating)
}

func (s *Service) ListAll(status Status) ([]Feedback, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListAll(status)
}

func (s *Service) UpdateStatus(id int, status Status) (Feedback, error) {
	if !status.Valid() {
		return Feedback{}, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(id, status)
}
