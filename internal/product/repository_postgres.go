package product

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const productColumns = `id, name, brand, category, description, price, sale_price, stock_quantity,
	volume_ml, concentration, gender, product_type, origin_country, release_year,
	image_urls, scent_notes, is_featured, is_new_arrival, is_on_sale, is_active,
	created_at, updated_at`

const (
	getProductByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND is_active = TRUE`

	listProductsByIDsQuery = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::int[])`

	insertProductQuery = `
		INSERT INTO products (name, brand, category, description, price, sale_price, stock_quantity,
			volume_ml, concentration, gender, product_type, origin_country, release_year,
			image_urls, scent_notes, is_featured, is_new_arrival, is_on_sale, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,TRUE)
		RETURNING id, created_at, updated_at`

	updateProductQuery = `
		UPDATE products
		SET name = $1, brand = $2, category = $3, description = $4, price = $5, sale_price = $6,
			stock_quantity = $7, volume_ml = $8, concentration = $9, gender = $10,
			product_type = $11, origin_country = $12, release_year = $13, image_urls = $14,
			scent_notes = $15, is_featured = $16, is_new_arrival = $17, is_on_sale = $18,
			updated_at = NOW()
		WHERE id = $19`

	deactivateProductQuery = `UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns one page of active products plus the total count for the same
// filter, mirroring the storefront catalog query.
func (r *PostgresRepository) List(filter ListFilter) ([]Product, int, error) {
	where, args := buildFilter(filter)

	countQuery := "SELECT COUNT(*) FROM products " + where
	var total int
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + productColumns + " FROM products " + where + orderClause(filter.Sort)

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}
	args = append(args, limit, (page-1)*limit)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func buildFilter(filter ListFilter) (string, []any) {
	conds := []string{"is_active = TRUE"}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR brand ILIKE %s OR description ILIKE %s)", p, p, p))
	}
	if filter.Brand != "" {
		conds = append(conds, "brand = "+arg(filter.Brand))
	}
	if filter.Category != "" {
		conds = append(conds, "category = "+arg(filter.Category))
	}
	if filter.Gender != "" {
		conds = append(conds, "gender = "+arg(filter.Gender))
	}
	if filter.ProductType != "" {
		conds = append(conds, "product_type = "+arg(filter.ProductType))
	}
	if filter.Concentration != "" {
		conds = append(conds, "concentration = "+arg(filter.Concentration))
	}
	if filter.MinPrice > 0 {
		conds = append(conds, "price >= "+arg(filter.MinPrice))
	}
	if filter.MaxPrice > 0 {
		conds = append(conds, "price <= "+arg(filter.MaxPrice))
	}
	if filter.VolumeML > 0 {
		conds = append(conds, "volume_ml = "+arg(filter.VolumeML))
	}
	if filter.Featured {
		conds = append(conds, "is_featured = TRUE")
	}
	if filter.NewArrival {
		conds = append(conds, "is_new_arrival = TRUE")
	}
	if filter.OnSale {
		conds = append(conds, "is_on_sale = TRUE")
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(sort string) string {
	switch sort {
	case "oldest":
		return " ORDER BY created_at ASC"
	case "price_asc":
		return " ORDER BY price ASC"
	case "price_desc":
		return " ORDER BY price DESC"
	case "name_asc":
		return " ORDER BY name ASC"
	case "name_desc":
		return " ORDER BY name DESC"
	case "bestseller":
		return " ORDER BY is_featured DESC, created_at DESC"
	default: // newest
		return " ORDER BY created_at DESC"
	}
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(listProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Brands() ([]string, error) {
	return r.distinct("brand")
}

func (r *PostgresRepository) Categories() ([]string, error) {
	return r.distinct("category")
}

func (r *PostgresRepository) Genders() ([]string, error) {
	return r.distinct("gender")
}

func (r *PostgresRepository) ProductTypes() ([]string, error) {
	return r.distinct("product_type")
}

func (r *PostgresRepository) distinct(column string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM products WHERE is_active = TRUE AND %s IS NOT NULL AND %s <> '' ORDER BY %s`, column, column, column, column)
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	images, notes, err := marshalJSONColumns(p)
	if err != nil {
		return Product{}, err
	}

	err = r.db.QueryRow(insertProductQuery,
		p.Name, p.Brand, p.Category, p.Description, p.Price, p.SalePrice, p.StockQuantity,
		p.VolumeML, p.Concentration, string(p.Gender), string(p.ProductType), p.OriginCountry,
		p.ReleaseYear, images, notes, p.IsFeatured, p.IsNewArrival, p.IsOnSale,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	p.IsActive = true
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	images, notes, err := marshalJSONColumns(p)
	if err != nil {
		return Product{}, err
	}

	res, err := r.db.Exec(updateProductQuery,
		p.Name, p.Brand, p.Category, p.Description, p.Price, p.SalePrice, p.StockQuantity,
		p.VolumeML, p.Concentration, string(p.Gender), string(p.ProductType), p.OriginCountry,
		p.ReleaseYear, images, notes, p.IsFeatured, p.IsNewArrival, p.IsOnSale, id)
	if err != nil {
		return Product{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Product{}, ErrNotFound
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Deactivate(id int) error {
	res, err := r.db.Exec(deactivateProductQuery, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalJSONColumns(p Product) ([]byte, []byte, error) {
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	if p.ScentNotes == nil {
		p.ScentNotes = map[string]string{}
	}
	images, err := json.Marshal(p.ImageURLs)
	if err != nil {
		return nil, nil, err
	}
	notes, err := json.Marshal(p.ScentNotes)
	if err != nil {
		return nil, nil, err
	}
	return images, notes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var description, concentration, gender, productType, originCountry sql.NullString
	var createdAt, updatedAt sql.NullString
	var salePrice sql.NullFloat64
	var volumeML, releaseYear sql.NullInt64
	var images, notes []byte

	err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &description, &p.Price, &salePrice,
		&p.StockQuantity, &volumeML, &concentration, &gender, &productType, &originCountry,
		&releaseYear, &images, &notes, &p.IsFeatured, &p.IsNewArrival, &p.IsOnSale, &p.IsActive,
		&createdAt, &updatedAt)
	if err != nil {
		return Product{}, err
	}

	p.Description = description.String
	p.Concentration = concentration.String
	p.Gender = Gender(gender.String)
	p.ProductType = ProductType(productType.String)
	p.OriginCountry = originCountry.String
	p.CreatedAt = createdAt.String
	p.UpdatedAt = updatedAt.String
	if salePrice.Valid {
		v := salePrice.Float64
		p.SalePrice = &v
	}
	if volumeML.Valid {
		p.VolumeML = int(volumeML.Int64)
	}
	if releaseYear.Valid {
		v := int(releaseYear.Int64)
		p.ReleaseYear = &v
	}

	p.ImageURLs = []string{}
	if len(images) > 0 {
		// malformed JSON leaves the slice empty rather than failing the row
		json.Unmarshal(images, &p.ImageURLs)
	}
	p.ScentNotes = map[string]string{}
	if len(notes) > 0 {
		json.Unmarshal(notes, &p.ScentNotes)
	}
	return p, nil
}
