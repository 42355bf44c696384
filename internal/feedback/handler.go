package feedback

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/feedback", h.submitFeedback)
	app.Get("/api/feedback", h.listTestimonials)
}

func (h *Handler) RegisterAdminRoutes(app *fiber.App) {
	app.Get("/api/admin/feedback", h.listAllFeedback)
	app.Patch("/api/admin/feedback/:id<[0-9]+>/status", h.updateStatus)
}

type submitFeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
}

func (r *submitFeedbackRequest) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)

	if len(r.Message) < 10 || len(r.Message) > 5000 {
		return "Nội dung phản hồi phải từ 10 đến 5000 ký tự"
	}
	if r.Name == "" && r.Email == "" && r.Phone == "" {
		return "Vui lòng để lại tên, email hoặc số điện thoại"
	}
	if r.Rating != 0 && (r.Rating < 1 || r.Rating > 5) {
		return "Đánh giá phải từ 1 đến 5 sao"
	}
	return ""
}

func (h *Handler) submitFeedback(c *fiber.Ctx) error {
	payload := new(submitFeedbackRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Dữ liệu không hợp lệ"})
	}
	if msg := payload.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	created, err := h.service.Submit(Feedback{
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		Message: payload.Message,
		Rating:  payload.Rating,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Lỗi gửi phản hồi"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Cảm ơn bạn đã gửi phản hồi",
		"feedback": created,
	})
}

func (h *Handler) listTestimonials(c *fiber.Ctx) error {
	minRating := 0
	if v := c.Query("min_rating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 5 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "min_rating must be between 1 and 5"})
		}
		minRating = n
	}

	items, err := h.service.Testimonials(minRating)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch feedback"})
	}
	return c.JSON(fiber.Map{"feedback": items, "count": len(items)})
}

func (h *Handler) listAllFeedback(c *fiber.Ctx) error {
	items, err := h.service.ListAll(Status(c.Query("status")))
	if err != nil {
		if err == ErrInvalidStatus {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid status"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch feedback"})
	}
	return c.JSON(fiber.Map{"feedback": items, "count": len(items)})
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.UpdateStatus(id, payload.Status)
	if err != nil {
		switch err {
		case ErrInvalidStatus:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid status"})
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Feedback not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update feedback"})
		}
	}
	return c.JSON(updated)
}
