package feedback

import "errors"

var ErrNotFound = errors.New("feedback not found")

type Repository interface {
	Create(f Feedback) (Feedback, error)
	// ListResolved returns resolved entries for the public testimonial wall,
	// newest first, capped at limit. minRating of zero means no rating filter.
	ListResolved(limit, minRating int) ([]Feedback, error)

	ListAll(status Status) ([]Feedback, error)
	UpdateStatus(id int, status Status) (Feedback, error)
}
