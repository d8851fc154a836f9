package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	HTTPAddr  string
	JWTSecret string

	// Conversations untouched for this many days are dropped at startup.
	CleanupDays int

	// Simulated thinking delay bounds for a bot reply.
	ThinkMin time.Duration
	ThinkMax time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file, relying on environment variables")
	}

	dbPath := os.Getenv("EDU_DB_PATH")
	if dbPath == "" {
		dbPath = "eduassist.db"
	}

	addr := os.Getenv("EDU_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	cleanupDays := 90
	if v := os.Getenv("EDU_CLEANUP_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cleanupDays = n
		}
	}

	thinkMin := 1000
	if v := os.Getenv("EDU_THINK_MIN_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			thinkMin = n
		}
	}
	thinkMax := 3000
	if v := os.Getenv("EDU_THINK_MAX_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= thinkMin {
			thinkMax = n
		}
	}

	return Config{
		DBPath:      dbPath,
		HTTPAddr:    addr,
		JWTSecret:   secret,
		CleanupDays: cleanupDays,
		ThinkMin:    time.Duration(thinkMin) * time.Millisecond,
		ThinkMax:    time.Duration(thinkMax) * time.Millisecond,
	}
}
