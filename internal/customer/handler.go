package customer

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes exposes customer views to the back-office. The JWT
// middleware is installed upstream by main.
func (h *Handler) RegisterAdminRoutes(app *fiber.App) {
	app.Get("/api/admin/customers", h.listCustomers)
	app.Get("/api/admin/customers/:email", h.getCustomer)
}

func (h *Handler) listCustomers(c *fiber.Ctx) error {
	customers, err := h.service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to fetch customers"})
	}
	return c.JSON(fiber.Map{"customers": customers, "count": len(customers)})
}

func (h *Handler) getCustomer(c *fiber.Ctx) error {
	cust, err := h.service.GetByEmail(c.Params("email"))
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to fetch customer"})
	}
	return c.JSON(cust)
}
