package blog

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/blogs", h.listBlogs)
	app.Get("/api/blogs/:slug", h.getBlog)
}

func (h *Handler) RegisterAdminRoutes(app *fiber.App) {
	app.Get("/api/admin/blogs", h.listAllBlogs)
	app.Post("/api/admin/blogs", h.createBlog)
	app.Put("/api/admin/blogs/:id<[0-9]+>", h.updateBlog)
	app.Delete("/api/admin/blogs/:id<[0-9]+>", h.deleteBlog)
	app.Patch("/api/admin/blogs/:id<[0-9]+>/publish", h.setPublished)
}

func (h *Handler) listBlogs(c *fiber.Ctx) error {
	filter := ListFilter{Search: c.Query("search")}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid page"})
		}
		filter.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid limit"})
		}
		filter.Limit = n
	}

	posts, total, err := h.service.ListPublished(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch blog posts"})
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	return c.JSON(fiber.Map{
		"blogs": posts,
		"pagination": fiber.Map{
			"current_page": page,
			"total_pages":  int(math.Ceil(float64(total) / float64(limit))),
			"total_count":  total,
			"limit":        limit,
		},
	})
}

func (h *Handler) getBlog(c *fiber.Ctx) error {
	post, err := h.service.GetBySlug(c.Params("slug"))
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Blog post not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch blog post"})
	}
	return c.JSON(post)
}

func (h *Handler) listAllBlogs(c *fiber.Ctx) error {
	posts, err := h.service.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch blog posts"})
	}
	return c.JSON(fiber.Map{"blogs": posts, "count": len(posts)})
}

func (h *Handler) createBlog(c *fiber.Ctx) error {
	payload := new(Post)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Create(*payload)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateBlog(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	payload := new(Post)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.Update(id, *payload)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteBlog(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	if err := h.service.Delete(id); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Blog post deleted"})
}

type publishRequest struct {
	Published bool `json:"published"`
}

func (h *Handler) setPublished(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	payload := new(publishRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	post, err := h.service.SetPublished(id, payload.Published)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(post)
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Blog post not found"})
	case ErrSlugExists:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Slug already exists"})
	case ErrMissingTitle, ErrMissingSlug, ErrMissingContent:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process blog post"})
	}
}
