package blog

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/rareparfume/perfume-shop-backend/internal/storage"
)

type PostgresRepository struct {
	db *sql.DB
}

const postColumns = `id, title, slug, content, COALESCE(excerpt, ''), COALESCE(featured_image, ''),
	author, COALESCE(category, ''), COALESCE(tags, '[]'), view_count, is_published, is_featured,
	COALESCE(published_at::text, ''), created_at, updated_at`

const (
	listPublishedQuery = `
		SELECT ` + postColumns + `
		FROM blog_posts
		WHERE is_published = TRUE
		  AND ($1 = '' OR LOWER(title) LIKE $1 OR LOWER(slug) LIKE $1 OR LOWER(author) LIKE $1 OR LOWER(excerpt) LIKE $1)
		ORDER BY published_at DESC NULLS LAST, created_at DESC
		LIMIT $2 OFFSET $3`

	countPublishedQuery = `
		SELECT COUNT(*)
		FROM blog_posts
		WHERE is_published = TRUE
		  AND ($1 = '' OR LOWER(title) LIKE $1 OR LOWER(slug) LIKE $1 OR LOWER(author) LIKE $1 OR LOWER(excerpt) LIKE $1)`

	getPublishedBySlugQuery = `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1 AND is_published = TRUE`

	incrementViewsQuery = `UPDATE blog_posts SET view_count = view_count + 1 WHERE id = $1`

	listAllPostsQuery = `SELECT ` + postColumns + ` FROM blog_posts ORDER BY created_at DESC`

	getPostByIDQuery = `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`

	insertPostQuery = `
		INSERT INTO blog_posts (title, slug, content, excerpt, featured_image, author, category, tags, is_published, is_featured, published_at)
		VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),$6,NULLIF($7,''),$8,$9,$10, CASE WHEN $9 THEN NOW() ELSE NULL END)
		RETURNING id, view_count, COALESCE(published_at::text, ''), created_at, updated_at`

	updatePostQuery = `
		UPDATE blog_posts
		SET title = $1, slug = $2, content = $3, excerpt = NULLIF($4,''), featured_image = NULLIF($5,''),
			author = $6, category = NULLIF($7,''), tags = $8, is_featured = $9, updated_at = NOW()
		WHERE id = $10`

	deletePostQuery = `DELETE FROM blog_posts WHERE id = $1`

	setPublishedQuery = `
		UPDATE blog_posts
		SET is_published = $1,
			published_at = CASE WHEN $1 AND published_at IS NULL THEN NOW() ELSE published_at END,
			updated_at = NOW()
		WHERE id = $2`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListPublished(filter ListFilter) ([]Post, int, error) {
	term := ""
	if filter.Search != "" {
		term = "%" + strings.ToLower(filter.Search) + "%"
	}

	var total int
	if err := r.db.QueryRow(countPublishedQuery, term).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	rows, err := r.db.Query(listPublishedQuery, term, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) GetPublishedBySlug(slug string) (Post, error) {
	p, err := scanPost(r.db.QueryRow(getPublishedBySlugQuery, slug))
	if err == sql.ErrNoRows {
		return Post{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) IncrementViews(id int) error {
	_, err := r.db.Exec(incrementViewsQuery, id)
	return err
}

func (r *PostgresRepository) ListAll() ([]Post, error) {
	rows, err := r.db.Query(listAllPostsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Post, error) {
	p, err := scanPost(r.db.QueryRow(getPostByIDQuery, id))
	if err == sql.ErrNoRows {
		return Post{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) Create(p Post) (Post, error) {
	tags, err := marshalTags(p.Tags)
	if err != nil {
		return Post{}, err
	}
	if p.Author == "" {
		p.Author = DefaultAuthor
	}

	err = r.db.QueryRow(insertPostQuery,
		p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.Author, p.Category,
		tags, p.IsPublished, p.IsFeatured,
	).Scan(&p.ID, &p.ViewCount, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if storage.IsUniqueViolation(err) {
		return Post{}, ErrSlugExists
	}
	if err != nil {
		return Post{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Post) (Post, error) {
	tags, err := marshalTags(p.Tags)
	if err != nil {
		return Post{}, err
	}

	res, err := r.db.Exec(updatePostQuery,
		p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.Author, p.Category,
		tags, p.IsFeatured, id)
	if storage.IsUniqueViolation(err) {
		return Post{}, ErrSlugExists
	}
	if err != nil {
		return Post{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Post{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(deletePostQuery, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetPublished(id int, published bool) (Post, error) {
	res, err := r.db.Exec(setPublishedQuery, published, id)
	if err != nil {
		return Post{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Post{}, ErrNotFound
	}
	return r.GetByID(id)
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var p Post
	var tags []byte
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&p.Author, &p.Category, &tags, &p.ViewCount, &p.IsPublished, &p.IsFeatured,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Post{}, err
	}
	p.Tags = []string{}
	if len(tags) > 0 {
		json.Unmarshal(tags, &p.Tags)
	}
	return p, nil
}
