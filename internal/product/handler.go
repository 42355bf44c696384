package product

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	// list endpoints before the :id route to avoid param collisions
	app.Get("/api/products/brands/list", h.listBrands)
	app.Get("/api/products/categories/list", h.listCategories)
	app.Get("/api/products/genders/list", h.listGenders)
	app.Get("/api/products/product-types/list", h.listProductTypes)
	app.Get("/api/products", h.listProducts)
	app.Get("/api/products/:id<[0-9]+>", h.getProduct)
}

func (h *Handler) RegisterAdminRoutes(app *fiber.App) {
	app.Post("/api/admin/products", h.createProduct)
	app.Put("/api/admin/products/:id<[0-9]+>", h.updateProduct)
	app.Delete("/api/admin/products/:id<[0-9]+>", h.deleteProduct)
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	filter, err := parseListFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	products, total, err := h.service.List(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to fetch products"})
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 12
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	return c.JSON(fiber.Map{
		"products": products,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total_count": total,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func parseListFilter(c *fiber.Ctx) (ListFilter, error) {
	filter := ListFilter{
		Search:        c.Query("search"),
		Brand:         c.Query("brand"),
		Category:      c.Query("category"),
		Gender:        c.Query("gender"),
		ProductType:   c.Query("product_type"),
		Concentration: c.Query("concentration"),
		Sort:          c.Query("sort"),
		Featured:      c.Query("featured") == "true",
		NewArrival:    c.Query("new_arrival") == "true",
		OnSale:        c.Query("on_sale") == "true",
	}

	if v := c.Query("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return ListFilter{}, fiber.NewError(fiber.StatusBadRequest, "invalid min_price")
		}
		filter.MinPrice = f
	}
	if v := c.Query("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return ListFilter{}, fiber.NewError(fiber.StatusBadRequest, "invalid max_price")
		}
		filter.MaxPrice = f
	}
	if v := c.Query("volume"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return ListFilter{}, fiber.NewError(fiber.StatusBadRequest, "invalid volume")
		}
		filter.VolumeML = n
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return ListFilter{}, fiber.NewError(fiber.StatusBadRequest, "invalid page")
		}
		filter.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return ListFilter{}, fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		filter.Limit = n
	}
	if filter.Sort != "" && !isAllowedSort(filter.Sort) {
		return ListFilter{}, fiber.NewError(fiber.StatusBadRequest, "invalid sort")
	}

	return filter, nil
}

func isAllowedSort(sort string) bool {
	for _, s := range AllowedSorts {
		if s == sort {
			return true
		}
	}
	return false
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	p, err := h.service.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to fetch product"})
	}
	return c.JSON(p)
}

func (h *Handler) listBrands(c *fiber.Ctx) error {
	return h.listValues(c, h.service.Brands)
}

func (h *Handler) listCategories(c *fiber.Ctx) error {
	return h.listValues(c, h.service.Categories)
}

func (h *Handler) listGenders(c *fiber.Ctx) error {
	return h.listValues(c, h.service.Genders)
}

func (h *Handler) listProductTypes(c *fiber.Ctx) error {
	return h.listValues(c, h.service.ProductTypes)
}

func (h *Handler) listValues(c *fiber.Ctx, fetch func() ([]string, error)) error {
	values, err := fetch()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to fetch values"})
	}
	return c.JSON(values)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	payload := new(Product)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Create(*payload)
	if err != nil {
		switch err {
		case ErrMissingName, ErrInvalidPrice, ErrInvalidStock:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to create product"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	payload := new(Product)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.Update(id, *payload)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		case ErrMissingName, ErrInvalidPrice, ErrInvalidStock:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to update product"})
		}
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	if err := h.service.Deactivate(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to delete product"})
	}
	return c.JSON(fiber.Map{"message": "Product deactivated"})
}
