package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port             string
	CORSAllowOrigin  []string
	StoreDriver      string
	SQLitePath       string
	DatabaseURL      string
	RecommendPrimary string
	RecommendBackup  string
	LegacyExportURL  string
	Env              string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	driver := normalizeDriver(getEnv("STORE_DRIVER", ""), dbURL)

	if env == "production" && driver == "memory" {
		log.Printf("memory store driver in production loses data on restart")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		StoreDriver:      driver,
		SQLitePath:       getEnv("SQLITE_PATH", "./data/submissions.db"),
		DatabaseURL:      dbURL,
		RecommendPrimary: getEnv("RECOMMEND_PRIMARY_URL", "http://127.0.0.1:5000"),
		RecommendBackup:  getEnv("RECOMMEND_BACKUP_URL", "http://127.0.0.1:5001"),
		LegacyExportURL:  getEnv("LEGACY_EXPORT_URL", ""),
		Env:              env,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "development", "dev", "local":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeDriver(raw, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "memory":
		return "memory"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		if dbURL != "" {
			return "postgres"
		}
		return "sqlite"
	}
}
