package blog

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type stubRepo struct {
	posts      []Post
	viewBumps  []int
	listFilter ListFilter
}

func (s *stubRepo) ListPublished(filter ListFilter) ([]Post, int, error) {
	s.listFilter = filter
	out := make([]Post, 0)
	for _, p := range s.posts {
		if p.IsPublished {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (s *stubRepo) GetPublishedBySlug(slug string) (Post, error) {
	for _, p := range s.posts {
		if p.Slug == slug && p.IsPublished {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

func (s *stubRepo) IncrementViews(id int) error {
	s.viewBumps = append(s.viewBumps, id)
	return nil
}

func (s *stubRepo) ListAll() ([]Post, error) { return s.posts, nil }

func (s *stubRepo) GetByID(id int) (Post, error) {
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

func (s *stubRepo) Create(p Post) (Post, error) {
	for _, existing := range s.posts {
		if existing.Slug == p.Slug {
			return Post{}, ErrSlugExists
		}
	}
	p.ID = len(s.posts) + 1
	s.posts = append(s.posts, p)
	return p, nil
}

func (s *stubRepo) Update(id int, p Post) (Post, error) {
	for i, existing := range s.posts {
		if existing.ID == id {
			p.ID = id
			s.posts[i] = p
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

func (s *stubRepo) Delete(id int) error {
	for i, existing := range s.posts {
		if existing.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubRepo) SetPublished(id int, published bool) (Post, error) {
	for i, existing := range s.posts {
		if existing.ID == id {
			s.posts[i].IsPublished = published
			return s.posts[i], nil
		}
	}
	return Post{}, ErrNotFound
}

func setupApp(repo *stubRepo) *fiber.App {
	app := fiber.New()
	h := NewHandler(NewService(repo))
	h.RegisterPublicRoutes(app)
	h.RegisterAdminRoutes(app)
	return app
}

func TestListBlogsReturnsOnlyPublished(t *testing.T) {
	repo := &stubRepo{posts: []Post{
		{ID: 1, Title: "Top notes explained", Slug: "top-notes", Content: "...", IsPublished: true},
		{ID: 2, Title: "Draft", Slug: "draft", Content: "...", IsPublished: false},
	}}
	app := setupApp(repo)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/blogs", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Blogs      []Post `json:"blogs"`
		Pagination struct {
			TotalCount int `json:"total_count"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Blogs) != 1 || body.Blogs[0].Slug != "top-notes" {
		t.Fatalf("unexpected blogs: %+v", body.Blogs)
	}
	if body.Pagination.TotalCount != 1 || body.Pagination.TotalPages != 1 {
		t.Fatalf("unexpected pagination: %+v", body.Pagination)
	}
}

func TestListBlogsRejectsBadPage(t *testing.T) {
	app := setupApp(&stubRepo{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/blogs?page=zero", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetBlogBumpsViewCount(t *testing.T) {
	repo := &stubRepo{posts: []Post{
		{ID: 5, Title: "Layering guide", Slug: "layering-guide", Content: "...", ViewCount: 9, IsPublished: true},
	}}
	app := setupApp(repo)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/blogs/layering-guide", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var post Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if post.ViewCount != 10 {
		t.Fatalf("expected view_count 10, got %d", post.ViewCount)
	}
	if len(repo.viewBumps) != 1 || repo.viewBumps[0] != 5 {
		t.Fatalf("expected one view bump for id 5, got %v", repo.viewBumps)
	}
}

func TestGetBlogNotFound(t *testing.T) {
	app := setupApp(&stubRepo{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/blogs/nope", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateBlogValidation(t *testing.T) {
	app := setupApp(&stubRepo{})

	req := httptest.NewRequest("POST", "/api/admin/blogs", strings.NewReader(`{"slug":"s","content":"c"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "title is required") {
		t.Fatalf("unexpected body: %s", raw)
	}
}

func TestCreateBlogDuplicateSlug(t *testing.T) {
	repo := &stubRepo{posts: []Post{{ID: 1, Title: "First", Slug: "first", Content: "..."}}}
	app := setupApp(repo)

	req := httptest.NewRequest("POST", "/api/admin/blogs",
		strings.NewReader(`{"title":"Again","slug":"first","content":"..."}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestPublishBlog(t *testing.T) {
	repo := &stubRepo{posts: []Post{{ID: 3, Title: "Queued", Slug: "queued", Content: "..."}}}
	app := setupApp(repo)

	req := httptest.NewRequest("PATCH", "/api/admin/blogs/3/publish", strings.NewReader(`{"published":true}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !repo.posts[0].IsPublished {
		t.Fatal("expected post to be published")
	}
}
