package blog

import "errors"

var (
	ErrMissingTitle   = errors.New("title is required")
	ErrMissingSlug    = errors.New("slug is required")
	ErrMissingContent = errors.New("content is required")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListPublished(filter ListFilter) ([]Post, int, error) {
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.ListPublished(filter)
}

// GetBySlug returns a published post and counts the view. The counter bump is
// best-effort so a write hiccup never breaks the read path.
func (s *Service) GetBySlug(slug string) (Post, error) {
	post, err := s.repo.GetPublishedBySlug(slug)
	if err != nil {
		return Post{}, err
	}
	if err := s.repo.IncrementViews(post.ID); err == nil {
		post.ViewCount++
	}
	return post, nil
}

func (s *Service) ListAll() ([]Post, error) {
	return s.repo.ListAll()
}

func (s *Service) GetByID(id int) (Post, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Post) (Post, error) {
	if err := validatePost(p); err != nil {
		return Post{}, err
	}
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Post) (Post, error) {
	if err := validatePost(p); err != nil {
		return Post{}, err
	}
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *Service) SetPublished(id int, published bool) (Post, error) {
	return s.repo.SetPublished(id, published)
}

func validatePost(p Post) error {
	if p.Title == "" {
		return ErrMissingTitle
	}
	if p.Slug == "" {
		return ErrMissingSlug
	}
	if p.Content == "" {
		return ErrMissingContent
	}
	return nil
}
