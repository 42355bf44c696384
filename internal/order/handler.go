package order

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rareparfume/perfume-shop-backend/internal/customer"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Handler struct {
	service *Service
	// devMode includes diagnostic detail in 500 responses
	devMode bool
}

func NewHandler(service *Service, devMode bool) *Handler {
	return &Handler{service: service, devMode: devMode}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/orders", h.createOrder)
	app.Get("/api/orders", h.listOrdersByEmail)
	app.Get("/api/orders/:orderNumber", h.getOrder)
}

func (h *Handler) RegisterAdminRoutes(app *fiber.App) {
	app.Get("/api/admin/orders", h.listAllOrders)
	app.Patch("/api/admin/orders/:orderNumber/status", h.updateStatus)
}

type createOrderRequest struct {
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email"`
	CustomerPhone   string     `json:"customer_phone"`
	ShippingAddress string     `json:"shipping_address"`
	Items           []CartLine `json:"items"`
	PaymentMethod   string     `json:"payment_method"`
	ShippingMethod  string     `json:"shipping_method"`
	Notes           string     `json:"notes"`
	City            string     `json:"city"`
	Country         string     `json:"country"`
	DateOfBirth     string     `json:"date_of_birth"`
	Gender          string     `json:"gender"`
}

func (r *createOrderRequest) validate() []string {
	problems := []string{}

	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerEmail = strings.ToLower(strings.TrimSpace(r.CustomerEmail))
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.ShippingAddress = strings.TrimSpace(r.ShippingAddress)

	if n := len(r.CustomerName); n < 2 || n > 255 {
		problems = append(problems, "customer_name must be 2-255 characters")
	}
	if !emailPattern.MatchString(r.CustomerEmail) {
		problems = append(problems, "customer_email must be a valid email")
	}
	if n := len(r.CustomerPhone); n < 10 || n > 20 {
		problems = append(problems, "customer_phone must be 10-20 characters")
	}
	if len(r.ShippingAddress) < 10 {
		problems = append(problems, "shipping_address must be at least 10 characters")
	}
	if len(r.Items) == 0 {
		problems = append(problems, "items must contain at least one entry")
	}
	for _, line := range r.Items {
		if line.ProductID < 1 {
			problems = append(problems, "items.product_id must be a positive integer")
			break
		}
	}
	for _, line := range r.Items {
		if line.Quantity < 1 {
			problems = append(problems, "items.quantity must be a positive integer")
			break
		}
	}
	if r.Gender != "" && r.Gender != "male" && r.Gender != "female" && r.Gender != "other" {
		problems = append(problems, "gender must be one of male, female, other")
	}
	if r.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", r.DateOfBirth); err != nil {
			problems = append(problems, "date_of_birth must be an ISO date (YYYY-MM-DD)")
		}
	}
	return problems
}

func (r *createOrderRequest) toInput() PlaceInput {
	payment := r.PaymentMethod
	if payment == "" {
		payment = "qr_code"
	}
	shipping := r.ShippingMethod
	if shipping == "" {
		shipping = "standard"
	}
	country := r.Country
	if country == "" {
		country = "Vietnam"
	}

	return PlaceInput{
		Contact: customer.Contact{
			Email:       r.CustomerEmail,
			Name:        r.CustomerName,
			Phone:       r.CustomerPhone,
			Address:     r.ShippingAddress,
			City:        strings.TrimSpace(r.City),
			Country:     country,
			DateOfBirth: r.DateOfBirth,
			Gender:      r.Gender,
		},
		Lines:          r.Items,
		PaymentMethod:  payment,
		ShippingMethod: shipping,
		Notes:          strings.TrimSpace(r.Notes),
	}
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if problems := payload.validate(); len(problems) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": problems})
	}

	placed, err := h.service.Place(c.UserContext(), payload.toInput())
	if err != nil {
		return h.placementError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order created successfully",
		"order":   placed,
	})
}

// placementError maps the failure taxonomy onto user-facing responses. The
// storefront audience is Vietnamese, so 400s keep the original bilingual
// wording.
func (h *Handler) placementError(c *fiber.Ctx, err error) error {
	var notFound *ProductsNotFoundError
	var unavailable *ProductUnavailableError
	var stock *InsufficientStockError

	switch {
	case errors.Is(err, ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Giỏ hàng trống",
			"message": "Vui lòng thêm sản phẩm vào giỏ hàng trước khi đặt hàng.",
		})
	case errors.As(err, &notFound):
		ids := make([]string, len(notFound.IDs))
		for i, id := range notFound.IDs {
			ids[i] = strconv.Itoa(id)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Sản phẩm không tồn tại",
			"message": fmt.Sprintf("Sản phẩm với ID %s không còn tồn tại trong hệ thống. Vui lòng làm mới giỏ hàng và thử lại.", strings.Join(ids, ", ")),
		})
	case errors.As(err, &unavailable):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Sản phẩm không khả dụng",
			"message": fmt.Sprintf("Sản phẩm \"%s\" hiện không còn được bán. Vui lòng xóa khỏi giỏ hàng.", unavailable.Name),
		})
	case errors.As(err, &stock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Không đủ hàng trong kho",
			"message": fmt.Sprintf("Sản phẩm \"%s\" chỉ còn %d sản phẩm trong kho.", stock.Name, stock.Available),
		})
	case errors.Is(err, ErrCartOutOfDate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Lỗi dữ liệu sản phẩm",
			"message": "Một số sản phẩm trong giỏ hàng không còn tồn tại. Vui lòng làm mới trang và thử lại.",
		})
	case errors.Is(err, ErrDuplicateOrderNumber):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Lỗi tạo đơn hàng",
			"message": "Đã xảy ra lỗi khi tạo mã đơn hàng. Vui lòng thử lại.",
		})
	}

	resp := fiber.Map{
		"error":   "Lỗi tạo đơn hàng",
		"message": "Đã xảy ra lỗi không mong muốn. Vui lòng thử lại sau.",
	}
	if h.devMode {
		resp["detail"] = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	ord, err := h.service.GetByNumber(c.Params("orderNumber"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch order"})
	}
	return c.JSON(ord)
}

func (h *Handler) listAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(Status(c.Query("status")))
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid status"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch orders"})
	}
	return c.JSON(fiber.Map{"orders": orders, "count": len(orders)})
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.UpdateStatus(c.Params("orderNumber"), payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid status"})
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update order"})
		}
	}
	return c.JSON(updated)
}

func (h *Handler) listOrdersByEmail(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if !emailPattern.MatchString(email) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Valid email is required"})
	}

	orders, err := h.service.ListByEmail(email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch orders"})
	}
	return c.JSON(orders)
}
