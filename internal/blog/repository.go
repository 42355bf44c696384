package blog

import "errors"

var (
	ErrNotFound   = errors.New("blog post not found")
	ErrSlugExists = errors.New("slug already exists")
)

type Repository interface {
	ListPublished(filter ListFilter) ([]Post, int, error)
	GetPublishedBySlug(slug string) (Post, error)
	// IncrementViews bumps view_count for a published post; failures are
	// non-fatal to the read path.
	IncrementViews(id int) error

	ListAll() ([]Post, error)
	GetByID(id int) (Post, error)
	Create(p Post) (Post, error)
	Update(id int, p Post) (Post, error)
	Delete(id int) error
	SetPublished(id int, published bool) (Post, error)
}
