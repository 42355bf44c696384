package customer

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listCustomersQuery = `
		SELECT id, email, name, phone, address, city, country, date_of_birth, gender,
		       total_orders, total_spent, vip_status, created_at, updated_at
		FROM customers
		ORDER BY total_spent DESC, created_at DESC
	`
	getCustomerByEmailQuery = `
		SELECT id, email, name, phone, address, city, country, date_of_birth, gender,
		       total_orders, total_spent, vip_status, created_at, updated_at
		FROM customers
		WHERE email = $1
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Customer, error) {
	rows, err := r.db.Query(listCustomersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cust)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByEmail(email string) (Customer, error) {
	row := r.db.QueryRow(getCustomerByEmailQuery, email)
	cust, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return Customer{}, ErrNotFound
	}
	return cust, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (Customer, error) {
	var cust Customer
	var city, country, dob, gender, createdAt, updatedAt sql.NullString
	var status string
	err := row.Scan(&cust.ID, &cust.Email, &cust.Name, &cust.Phone, &cust.Address,
		&city, &country, &dob, &gender,
		&cust.TotalOrders, &cust.TotalSpent, &status, &createdAt, &updatedAt)
	if err != nil {
		return Customer{}, err
	}
	cust.City = city.String
	cust.Country = country.String
	cust.DateOfBirth = dob.String
	cust.Gender = gender.String
	cust.VIPStatus = VIPStatus(status)
	cust.CreatedAt = createdAt.String
	cust.UpdatedAt = updatedAt.String
	return cust, nil
}
