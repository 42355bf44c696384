package main

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rareparfume/perfume-shop-backend/internal/admin"
	"github.com/rareparfume/perfume-shop-backend/internal/blog"
	"github.com/rareparfume/perfume-shop-backend/internal/config"
	"github.com/rareparfume/perfume-shop-backend/internal/customer"
	"github.com/rareparfume/perfume-shop-backend/internal/feedback"
	"github.com/rareparfume/perfume-shop-backend/internal/order"
	"github.com/rareparfume/perfume-shop-backend/internal/product"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)
	app.Use(checkMiddleware)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	ensureSchema(db)

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	orderService := order.NewService(order.NewPostgresRepository(db), productRepo)
	orderHandler := order.NewHandler(orderService, !cfg.IsProduction())

	customerHandler := customer.NewHandler(customer.NewService(customer.NewPostgresRepository(db)))
	blogHandler := blog.NewHandler(blog.NewService(blog.NewPostgresRepository(db)))
	feedbackHandler := feedback.NewHandler(feedback.NewService(feedback.NewPostgresRepository(db)))
	adminHandler := admin.NewHandler(admin.NewService(admin.NewPostgresRepository(db)), cfg.JWTSecret)

	productHandler.RegisterPublicRoutes(app)
	orderHandler.RegisterPublicRoutes(app)
	blogHandler.RegisterPublicRoutes(app)
	feedbackHandler.RegisterPublicRoutes(app)
	adminHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		// only the back office requires a token; login itself stays open
		Filter: func(c *fiber.Ctx) bool {
			p := c.Path()
			if p == "/api/admin/login" {
				return true
			}
			return !strings.HasPrefix(p, "/api/admin")
		},
	}))

	productHandler.RegisterAdminRoutes(app)
	orderHandler.RegisterAdminRoutes(app)
	customerHandler.RegisterAdminRoutes(app)
	blogHandler.RegisterAdminRoutes(app)
	feedbackHandler.RegisterAdminRoutes(app)
	adminHandler.RegisterAdminRoutes(app)

	app.Listen(cfg.Addr)
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

func ensureSchema(db *sql.DB) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			brand TEXT NOT NULL,
			description TEXT,
			category TEXT,
			gender TEXT NOT NULL DEFAULT 'unisex',
			product_type TEXT NOT NULL DEFAULT 'full_bottle',
			price NUMERIC NOT NULL,
			sale_price NUMERIC,
			stock_quantity INT NOT NULL DEFAULT 0,
			volume_ml INT,
			concentration TEXT,
			origin_country TEXT,
			release_year INT,
			image_urls JSONB NOT NULL DEFAULT '[]',
			scent_notes JSONB NOT NULL DEFAULT '{}',
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			is_new_arrival BOOLEAN NOT NULL DEFAULT FALSE,
			is_on_sale BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			phone TEXT,
			address TEXT,
			city TEXT,
			country TEXT,
			date_of_birth DATE,
			gender TEXT,
			total_orders INT NOT NULL DEFAULT 0,
			total_spent NUMERIC NOT NULL DEFAULT 0,
			vip_status TEXT NOT NULL DEFAULT 'standard',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			customer_name TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			customer_phone TEXT NOT NULL,
			shipping_address TEXT NOT NULL,
			total_amount NUMERIC NOT NULL,
			payment_method TEXT NOT NULL DEFAULT 'qr_code',
			shipping_method TEXT NOT NULL DEFAULT 'standard',
			status TEXT NOT NULL DEFAULT 'pending',
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id INT NOT NULL REFERENCES products(id),
			quantity INT NOT NULL,
			price_at_purchase NUMERIC NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS blog_posts (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL,
			excerpt TEXT,
			featured_image TEXT,
			author TEXT NOT NULL DEFAULT 'Rare Parfume Team',
			category TEXT,
			tags JSONB NOT NULL DEFAULT '[]',
			view_count INT NOT NULL DEFAULT 0,
			is_published BOOLEAN NOT NULL DEFAULT FALSE,
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS customer_feedback (
			id SERIAL PRIMARY KEY,
			name TEXT,
			email TEXT,
			phone TEXT,
			message TEXT NOT NULL,
			rating INT,
			status TEXT NOT NULL DEFAULT 'new',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS admin_users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}

func checkMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	fmt.Printf("URL = %s, Method = %s, Start Time = %v\n", c.OriginalURL(), c.Method(), start)
	return c.Next()
}
