package blog

// Post is a blog article. Tags are stored as a JSON array column.
type Post struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt,omitempty"`
	FeaturedImage string   `json:"featured_image,omitempty"`
	Author        string   `json:"author"`
	Category      string   `json:"category,omitempty"`
	Tags          []string `json:"tags"`
	ViewCount     int      `json:"view_count"`
	IsPublished   bool     `json:"is_published"`
	IsFeatured    bool     `json:"is_featured"`
	PublishedAt   string   `json:"published_at,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

// DefaultAuthor is used when a post is created without an author.
const DefaultAuthor = "Rare Parfume Team"

// ListFilter selects published posts for the storefront.
type ListFilter struct {
	Search string
	Page   int
	Limit  int
}
