package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/lib/pq"
	"github.com/rareparfume/perfume-shop-backend/internal/customer"
	"github.com/rareparfume/perfume-shop-backend/internal/storage"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	selectProductsForUpdateQuery = `
		SELECT id, name, price, stock_quantity, is_active
		FROM products
		WHERE id = ANY($1::int[])`

	selectCustomerForOrderQuery = `
		SELECT id, email, name, phone, address, city, country, date_of_birth, gender,
		       total_orders, total_spent, vip_status
		FROM customers
		WHERE email = $1`

	insertCustomerQuery = `
		INSERT INTO customers (email, name, phone, address, city, country, date_of_birth, gender,
			total_orders, total_spent, vip_status)
		VALUES ($1,$2,$3,$4,NULLIF($5,''),NULLIF($6,''),NULLIF($7,'')::date,NULLIF($8,''),$9,$10,$11)`

	updateCustomerQuery = `
		UPDATE customers
		SET name = $1, phone = $2, address = $3,
			city = NULLIF($4,''), country = NULLIF($5,''),
			date_of_birth = NULLIF($6,'')::date, gender = NULLIF($7,''),
			total_orders = $8, total_spent = $9, vip_status = $10,
			updated_at = NOW()
		WHERE id = $11`

	insertOrderQuery = `
		INSERT INTO orders (order_number, customer_name, customer_email, customer_phone,
			shipping_address, total_amount, payment_method, shipping_method, notes, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NULLIF($9,''),$10)
		RETURNING id, created_at`

	insertOrderItemQuery = `
		INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
		VALUES ($1,$2,$3,$4)
		RETURNING id`

	// conditional decrement: the WHERE floor makes concurrent placements
	// serialize on the row and is the authoritative stock check
	decrementStockQuery = `
		UPDATE products
		SET stock_quantity = stock_quantity - $1, updated_at = NOW()
		WHERE id = $2 AND stock_quantity >= $1`

	selectOrderQuery = `
		SELECT id, order_number, customer_name, customer_email, customer_phone,
		       shipping_address, total_amount, payment_method, shipping_method,
		       COALESCE(notes, ''), status, created_at
		FROM orders`

	updateOrderStatusQuery = `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE order_number = $2`

	itemsForOrderQuery = `
		SELECT oi.id, oi.product_id, oi.quantity, oi.price_at_purchase,
		       COALESCE(p.name, ''), COALESCE(p.image_urls, '[]')
		FROM order_items oi
		LEFT JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.id`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// txProduct is a product row as read inside the placement transaction.
type txProduct struct {
	id     int
	name   string
	price  float64
	stock  int
	active bool
}

// Place runs the whole placement inside one transaction. Prices and stock are
// re-read here rather than trusted from the pre-check, so the numbers that
// get persisted are the ones that were current at commit time.
func (r *PostgresRepository) Place(ctx context.Context, draft Draft) (Order, error) {
	var placed Order

	err := storage.WithinTransaction(ctx, r.db, func(tx *sql.Tx) error {
		input := draft.Input

		products, err := fetchProducts(ctx, tx, lineProductIDs(input.Lines))
		if err != nil {
			return err
		}

		var total float64
		items := make([]Item, 0, len(input.Lines))
		for _, line := range input.Lines {
			prod, ok := products[line.ProductID]
			if !ok {
				return ErrCartOutOfDate
			}
			if !prod.active {
				return &ProductUnavailableError{Name: prod.name}
			}
			total += prod.price * float64(line.Quantity)
			items = append(items, Item{
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				PriceAtPurchase: prod.price,
			})
		}

		if err := upsertCustomer(ctx, tx, input.Contact, total); err != nil {
			return err
		}

		placed = Order{
			OrderNumber:     draft.OrderNumber,
			CustomerName:    input.Contact.Name,
			CustomerEmail:   input.Contact.Email,
			CustomerPhone:   input.Contact.Phone,
			ShippingAddress: input.Contact.Address,
			TotalAmount:     total,
			PaymentMethod:   input.PaymentMethod,
			ShippingMethod:  input.ShippingMethod,
			Notes:           input.Notes,
			Status:          StatusPending,
		}

		err = tx.QueryRowContext(ctx, insertOrderQuery,
			placed.OrderNumber, placed.CustomerName, placed.CustomerEmail, placed.CustomerPhone,
			placed.ShippingAddress, placed.TotalAmount, placed.PaymentMethod, placed.ShippingMethod,
			placed.Notes, string(placed.Status),
		).Scan(&placed.ID, &placed.CreatedAt)
		if err != nil {
			return classifyPlacementError(err)
		}

		for i := range items {
			item := &items[i]
			err := tx.QueryRowContext(ctx, insertOrderItemQuery,
				placed.ID, item.ProductID, item.Quantity, item.PriceAtPurchase,
			).Scan(&item.ID)
			if err != nil {
				return classifyPlacementError(err)
			}

			res, err := tx.ExecContext(ctx, decrementStockQuery, item.Quantity, item.ProductID)
			if err != nil {
				return classifyPlacementError(err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				// stock moved between pre-check and now; fail the whole
				// transaction instead of overselling
				prod := products[item.ProductID]
				return &InsufficientStockError{Name: prod.name, Available: prod.stock}
			}
		}

		placed.Items = items
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return placed, nil
}

func lineProductIDs(lines []CartLine) []int {
	seen := make(map[int]struct{}, len(lines))
	ids := make([]int, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

func fetchProducts(ctx context.Context, tx *sql.Tx, ids []int) (map[int]txProduct, error) {
	rows, err := tx.QueryContext(ctx, selectProductsForUpdateQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]txProduct, len(ids))
	for rows.Next() {
		var p txProduct
		if err := rows.Scan(&p.id, &p.name, &p.price, &p.stock, &p.active); err != nil {
			return nil, err
		}
		out[p.id] = p
	}
	return out, rows.Err()
}

func upsertCustomer(ctx context.Context, tx *sql.Tx, contact customer.Contact, total float64) error {
	var existing customer.Customer
	var city, country, dob, gender sql.NullString
	var status string

	err := tx.QueryRowContext(ctx, selectCustomerForOrderQuery, contact.Email).Scan(
		&existing.ID, &existing.Email, &existing.Name, &existing.Phone, &existing.Address,
		&city, &country, &dob, &gender,
		&existing.TotalOrders, &existing.TotalSpent, &status)

	switch err {
	case sql.ErrNoRows:
		created := customer.New(contact, total)
		_, err := tx.ExecContext(ctx, insertCustomerQuery,
			created.Email, created.Name, created.Phone, created.Address,
			created.City, created.Country, created.DateOfBirth, created.Gender,
			created.TotalOrders, created.TotalSpent, string(created.VIPStatus))
		return err
	case nil:
		existing.City = city.String
		existing.Country = country.String
		existing.DateOfBirth = dob.String
		existing.Gender = gender.String
		existing.VIPStatus = customer.VIPStatus(status)

		updated := customer.Aggregate(existing, contact, total)
		_, err := tx.ExecContext(ctx, updateCustomerQuery,
			updated.Name, updated.Phone, updated.Address,
			updated.City, updated.Country, updated.DateOfBirth, updated.Gender,
			updated.TotalOrders, updated.TotalSpent, string(updated.VIPStatus), existing.ID)
		return err
	default:
		return err
	}
}

func classifyPlacementError(err error) error {
	if storage.IsUniqueViolation(err) {
		if strings.Contains(storage.ConstraintName(err), "order_number") {
			return ErrDuplicateOrderNumber
		}
		return err
	}
	if storage.IsForeignKeyViolation(err) {
		return ErrCartOutOfDate
	}
	return err
}

func (r *PostgresRepository) GetByNumber(orderNumber string) (Order, error) {
	row := r.db.QueryRow(selectOrderQuery+" WHERE order_number = $1", orderNumber)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	items, err := r.ItemsForOrder(ord.ID)
	if err != nil {
		return Order{}, err
	}
	ord.Items = items
	return ord, nil
}

func (r *PostgresRepository) ListByEmail(email string) ([]Order, error) {
	rows, err := r.db.Query(selectOrderQuery+" WHERE customer_email = $1 ORDER BY created_at DESC", email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.ItemsForOrder(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *PostgresRepository) ListAll(status Status) ([]Order, error) {
	rows, err := r.db.Query(selectOrderQuery+" WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC", string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(orderNumber string, status Status) (Order, error) {
	res, err := r.db.Exec(updateOrderStatusQuery, string(status), orderNumber)
	if err != nil {
		return Order{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByNumber(orderNumber)
}

func (r *PostgresRepository) ItemsForOrder(orderID int) ([]Item, error) {
	rows, err := r.db.Query(itemsForOrderQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		var images []byte
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase,
			&item.ProductName, &images); err != nil {
			return nil, err
		}
		item.ProductImage = firstImage(images)
		items = append(items, item)
	}
	return items, rows.Err()
}

func firstImage(imagesJSON []byte) string {
	var urls []string
	if err := json.Unmarshal(imagesJSON, &urls); err != nil || len(urls) == 0 {
		return ""
	}
	return urls[0]
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var status string
	err := row.Scan(&ord.ID, &ord.OrderNumber, &ord.CustomerName, &ord.CustomerEmail,
		&ord.CustomerPhone, &ord.ShippingAddress, &ord.TotalAmount, &ord.PaymentMethod,
		&ord.ShippingMethod, &ord.Notes, &status, &ord.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	ord.Status = Status(status)
	return ord, nil
}
