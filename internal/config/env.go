package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr      string
	GinMode      string
	DBUser       string
	DBPassword   string
	DBHost       string
	DBName       string
	JWTSecret    string
	StoreTimeout time.Duration
}

func LoadEnv() Env {
	// .env is optional; deployments usually set variables directly.
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	dbUser := strings.TrimSpace(os.Getenv("DB_USER"))
	if dbUser == "" {
		dbUser = "root"
	}
	dbHost := strings.TrimSpace(os.Getenv("DB_HOST"))
	if dbHost == "" {
		dbHost = "127.0.0.1:3306"
	}
	dbName := strings.TrimSpace(os.Getenv("DB_NAME"))
	if dbName == "" {
		dbName = "shuttle_booking"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "super-secret-key-change-me"
	}

	storeTimeout := 5 * time.Second
	if raw := strings.TrimSpace(os.Getenv("STORE_TIMEOUT_SECONDS")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			storeTimeout = time.Duration(n) * time.Second
		}
	}

	env := Env{
		AppAddr:      appAddr,
		GinMode:      strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:       dbUser,
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBHost:       dbHost,
		DBName:       dbName,
		JWTSecret:    secret,
		StoreTimeout: storeTimeout,
	}
	Apply(env)
	return env
}

var (
	jwtSecret    = []byte("super-secret-key-change-me")
	storeTimeout = 5 * time.Second
)

// Apply stores process-wide settings read by services and repositories.
func Apply(env Env) {
	if env.JWTSecret != "" {
		jwtSecret = []byte(env.JWTSecret)
	}
	if env.StoreTimeout > 0 {
		storeTimeout = env.StoreTimeout
	}
}

func JWTSecret() []byte { return jwtSecret }

// StoreTimeout bounds every store call so requests fail closed instead of hanging.
func StoreTimeout() time.Duration { return storeTimeout }
