package order

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rareparfume/perfume-shop-backend/internal/product"
)

func setupApp(repo *fakeRepo, catalog *fakeCatalog) *fiber.App {
	app := fiber.New()
	h := NewHandler(NewService(repo, catalog), false)
	h.RegisterPublicRoutes(app)
	h.RegisterAdminRoutes(app)
	return app
}

func postOrder(t *testing.T, app *fiber.App, body map[string]any) (int, map[string]any) {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(res.Body)
	var decoded map[string]any
	json.Unmarshal(raw, &decoded)
	return res.StatusCode, decoded
}

func validBody() map[string]any {
	return map[string]any{
		"customer_name":    "Nguyen Van A",
		"customer_email":   "A@Example.com",
		"customer_phone":   "0123456789",
		"shipping_address": "1 Nguyen Hue, District 1, HCMC",
		"items":            []map[string]any{{"product_id": 1, "quantity": 2}},
	}
}

func TestCreateOrder_Success(t *testing.T) {
	repo := &fakeRepo{}
	catalog := &fakeCatalog{products: []product.Product{activeProduct(1, "Oud Wood", 1_000_000, 5)}}
	app := setupApp(repo, catalog)

	status, body := postOrder(t, app, validBody())
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", status, body)
	}

	ord, ok := body["order"].(map[string]any)
	if !ok {
		t.Fatalf("response should contain the order, got %v", body)
	}
	if ord["total_amount"].(float64) != 2_000_000 {
		t.Errorf("total_amount = %v, want 2000000", ord["total_amount"])
	}
	if ord["status"] != "pending" {
		t.Errorf("status = %v, want pending", ord["status"])
	}

	// handler normalizes the email before it reaches the transaction
	if len(repo.placeCalls) != 1 {
		t.Fatalf("expected one placement, got %d", len(repo.placeCalls))
	}
	if got := repo.placeCalls[0].Input.Contact.Email; got != "a@example.com" {
		t.Errorf("email should be lowercased, got %q", got)
	}
	// defaults applied when the payload omits them
	if got := repo.placeCalls[0].Input.PaymentMethod; got != "qr_code" {
		t.Errorf("payment_method default = %q, want qr_code", got)
	}
	if got := repo.placeCalls[0].Input.ShippingMethod; got != "standard" {
		t.Errorf("shipping_method default = %q, want standard", got)
	}
}

func TestCreateOrder_ValidationFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"short name", func(m map[string]any) { m["customer_name"] = "A" }},
		{"bad email", func(m map[string]any) { m["customer_email"] = "not-an-email" }},
		{"short phone", func(m map[string]any) { m["customer_phone"] = "012" }},
		{"short address", func(m map[string]any) { m["shipping_address"] = "short" }},
		{"no items", func(m map[string]any) { m["items"] = []map[string]any{} }},
		{"zero quantity", func(m map[string]any) {
			m["items"] = []map[string]any{{"product_id": 1, "quantity": 0}}
		}},
		{"bad gender", func(m map[string]any) { m["gender"] = "attack-helicopter" }},
		{"bad birth date", func(m map[string]any) { m["date_of_birth"] = "31-08-2026" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepo{}
			app := setupApp(repo, &fakeCatalog{})

			body := validBody()
			tc.mutate(body)
			status, _ := postOrder(t, app, body)
			if status != fiber.StatusBadRequest {
				t.Errorf("expected 400, got %d", status)
			}
			if len(repo.placeCalls) != 0 {
				t.Errorf("invalid payloads must not reach the repository")
			}
		})
	}
}

func TestCreateOrder_InsufficientStockMessage(t *testing.T) {
	catalog := &fakeCatalog{products: []product.Product{activeProduct(1, "Oud Wood", 1_000_000, 1)}}
	app := setupApp(&fakeRepo{}, catalog)

	status, body := postOrder(t, app, validBody())
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["error"] != "Không đủ hàng trong kho" {
		t.Errorf("unexpected error surface: %v", body["error"])
	}
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "Oud Wood") || !strings.Contains(msg, "1") {
		t.Errorf("message should name the product and available quantity, got %q", msg)
	}
}

func TestCreateOrder_MissingProductsMessage(t *testing.T) {
	app := setupApp(&fakeRepo{}, &fakeCatalog{})

	body := validBody()
	body["items"] = []map[string]any{{"product_id": 41, "quantity": 1}, {"product_id": 42, "quantity": 1}}
	status, resp := postOrder(t, app, body)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	msg, _ := resp["message"].(string)
	if !strings.Contains(msg, "41") || !strings.Contains(msg, "42") {
		t.Errorf("message should list every missing id, got %q", msg)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	repo := &fakeRepo{orders: []Order{{OrderNumber: "RP123456001", Status: StatusPending}}}
	app := setupApp(repo, &fakeCatalog{})

	req := httptest.NewRequest("PATCH", "/api/admin/orders/RP123456001/status",
		strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if repo.statusUpdates["RP123456001"] != StatusConfirmed {
		t.Fatalf("expected confirmed, got %v", repo.statusUpdates)
	}
}

func TestUpdateOrderStatus_Unknown(t *testing.T) {
	repo := &fakeRepo{orders: []Order{{OrderNumber: "RP123456001", Status: StatusPending}}}
	app := setupApp(repo, &fakeCatalog{})

	req := httptest.NewRequest("PATCH", "/api/admin/orders/RP123456001/status",
		strings.NewReader(`{"status":"teleported"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if len(repo.statusUpdates) != 0 {
		t.Fatal("invalid status must not be persisted")
	}
}

func TestGetOrders_RequiresValidEmail(t *testing.T) {
	app := setupApp(&fakeRepo{}, &fakeCatalog{})

	req := httptest.NewRequest("GET", "/api/orders?email=nope", nil)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", res.StatusCode)
	}
}
