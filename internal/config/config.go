package config

import "os"

type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	Env         string
}

func Load() Config {
	addr := os.Getenv("SHOP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	return Config{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Env:         env,
	}
}

// IsProduction reports whether diagnostic detail should be suppressed in
// error responses.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
