package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr         string
	DBDriver     string
	DBDSN        string
	JWTSecret    string
	SessionTTL   time.Duration
	RootUsername string
	RootPassword string
	LogLevel     string
	LogDev       bool
	LogFile      string
}

func Load() Config {
	addr := os.Getenv("HIMO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "himo.db"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "himo-dev-secret-change-me"
	}

	ttl := 7 * 24 * time.Hour
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			ttl = time.Duration(h) * time.Hour
		}
	}

	rootUser := os.Getenv("ROOT_ADMIN_USERNAME")
	if rootUser == "" {
		rootUser = "Himo"
	}
	rootPass := os.Getenv("ROOT_ADMIN_PASSWORD")
	if rootPass == "" {
		rootPass = "admin"
	}

	return Config{
		Addr:         addr,
		DBDriver:     driver,
		DBDSN:        dsn,
		JWTSecret:    secret,
		SessionTTL:   ttl,
		RootUsername: rootUser,
		RootPassword: rootPass,
		LogLevel:     os.Getenv("LOG_LEVEL"),
		LogDev:       os.Getenv("LOG_DEV") == "1",
		LogFile:      os.Getenv("LOG_FILE"),
	}
}
