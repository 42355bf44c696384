package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rareparfume/perfume-shop-backend/internal/customer"
)

func testDraft(lines ...CartLine) Draft {
	return Draft{
		OrderNumber: "RP123456789",
		Input: PlaceInput{
			Contact: customer.Contact{
				Email:   "a@example.com",
				Name:    "A",
				Phone:   "0123456789",
				Address: "1 Nguyen Hue, District 1",
			},
			Lines:          lines,
			PaymentMethod:  "bank_transfer",
			ShippingMethod: "standard",
		},
	}
}

func expectProductFetch(mock sqlmock.Sqlmock, id int, name string, price float64, stock int, active bool) {
	rows := sqlmock.NewRows([]string{"id", "name", "price", "stock_quantity", "is_active"}).
		AddRow(id, name, price, stock, active)
	mock.ExpectQuery("SELECT id, name, price, stock_quantity, is_active").WillReturnRows(rows)
}

func TestPlace_NewCustomerHappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	expectProductFetch(mock, 1, "Oud Wood", 1_000_000, 5, true)
	mock.ExpectQuery("FROM customers").WithArgs("a@example.com").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO customers").
		WithArgs("a@example.com", "A", "0123456789", "1 Nguyen Hue, District 1",
			"", "", "", "", 1, 2_000_000.0, "standard").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(10, "2026-08-31T00:00:00Z"))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectExec("UPDATE products SET stock_quantity").
		WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	placed, err := repo.Place(context.Background(), testDraft(CartLine{ProductID: 1, Quantity: 2}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if placed.TotalAmount != 2_000_000 {
		t.Errorf("total_amount = %.0f, want 2000000", placed.TotalAmount)
	}
	if placed.Status != StatusPending {
		t.Errorf("status = %s, want pending", placed.Status)
	}
	if len(placed.Items) != 1 || placed.Items[0].PriceAtPurchase != 1_000_000 {
		t.Errorf("unexpected items %+v", placed.Items)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlace_ExistingCustomerCrossesTier(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	expectProductFetch(mock, 1, "Oud Wood", 2_000_000, 5, true)
	custRows := sqlmock.NewRows([]string{"id", "email", "name", "phone", "address", "city", "country",
		"date_of_birth", "gender", "total_orders", "total_spent", "vip_status"}).
		AddRow(7, "a@example.com", "Old Name", "0111", "old addr", "Hanoi", "Vietnam", nil, nil, 3, 9_000_000.0, "standard")
	mock.ExpectQuery("FROM customers").WithArgs("a@example.com").WillReturnRows(custRows)
	// aggregation: +1 order, +2M spend, silver at 11M, city kept via coalesce
	mock.ExpectExec("UPDATE customers").
		WithArgs("A", "0123456789", "1 Nguyen Hue, District 1", "Hanoi", "Vietnam", "", "",
			4, 11_000_000.0, "silver", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, "2026-08-31T00:00:00Z"))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectExec("UPDATE products SET stock_quantity").
		WithArgs(1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err = repo.Place(context.Background(), testDraft(CartLine{ProductID: 1, Quantity: 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlace_StockMovedSincePreCheck_RollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	expectProductFetch(mock, 1, "Oud Wood", 1_000_000, 5, true)
	mock.ExpectQuery("FROM customers").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO customers").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(12, "2026-08-31T00:00:00Z"))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(102))
	// a concurrent placement drained the stock: the conditional update
	// matches no row and the whole transaction must roll back
	mock.ExpectExec("UPDATE products SET stock_quantity").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = repo.Place(context.Background(), testDraft(CartLine{ProductID: 1, Quantity: 5}))

	var stock *InsufficientStockError
	if !errors.As(err, &stock) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stock.Name != "Oud Wood" {
		t.Errorf("error should carry the product name, got %q", stock.Name)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlace_DuplicateOrderNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	expectProductFetch(mock, 1, "Oud Wood", 1_000_000, 5, true)
	mock.ExpectQuery("FROM customers").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO customers").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key"})
	mock.ExpectRollback()

	_, err = repo.Place(context.Background(), testDraft(CartLine{ProductID: 1, Quantity: 1}))
	if !errors.Is(err, ErrDuplicateOrderNumber) {
		t.Fatalf("expected ErrDuplicateOrderNumber, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlace_ForeignKeyViolationMeansCartOutOfDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	expectProductFetch(mock, 1, "Oud Wood", 1_000_000, 5, true)
	mock.ExpectQuery("FROM customers").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO customers").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(13, "2026-08-31T00:00:00Z"))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "order_items_product_id_fkey"})
	mock.ExpectRollback()

	_, err = repo.Place(context.Background(), testDraft(CartLine{ProductID: 1, Quantity: 1}))
	if !errors.Is(err, ErrCartOutOfDate) {
		t.Fatalf("expected ErrCartOutOfDate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByNumber_JoinsItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	orderRows := sqlmock.NewRows([]string{"id", "order_number", "customer_name", "customer_email",
		"customer_phone", "shipping_address", "total_amount", "payment_method", "shipping_method",
		"notes", "status", "created_at"}).
		AddRow(10, "RP123456789", "A", "a@example.com", "0123456789", "1 Nguyen Hue",
			2_000_000.0, "cod", "standard", "", "pending", "2026-08-31T00:00:00Z")
	mock.ExpectQuery("FROM orders").WithArgs("RP123456789").WillReturnRows(orderRows)

	itemRows := sqlmock.NewRows([]string{"id", "product_id", "quantity", "price_at_purchase", "name", "image_urls"}).
		AddRow(100, 1, 2, 1_000_000.0, "Oud Wood", `["https://cdn.example.com/oud.jpg","x.jpg"]`)
	mock.ExpectQuery("FROM order_items").WithArgs(10).WillReturnRows(itemRows)

	ord, err := repo.GetByNumber("RP123456789")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ord.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(ord.Items))
	}
	if ord.Items[0].ProductImage != "https://cdn.example.com/oud.jpg" {
		t.Errorf("expected first image url, got %q", ord.Items[0].ProductImage)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
