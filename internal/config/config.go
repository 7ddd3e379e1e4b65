package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Port         string
	DatabaseFile string // SQLite path for the leads store

	// Outbound email (notifier) configuration
	EmailUser        string
	EmailAppPassword string
	SMTPHost         string
	SMTPPort         string

	// Lead routing: category -> destination address.
	// Unknown categories fall back to EmailUser.
	EmailRouting map[string]string

	// Minimum interval between two notifications for the same lead identity
	// and same resolved email.
	DedupeWindow time.Duration

	// Catalog data sources
	ProductsFile string
	OrdersFile   string

	// Responder (external LLM) configuration
	ResponderBaseURL string
	ResponderAPIKey  string
	ResponderModel   string

	// Optional Redis for a shared notification send guard
	RedisURL string

	// How long an idle conversation session is kept in memory
	SessionTTL time.Duration
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "3001"),
		DatabaseFile: getEnv("DB_FILE", "./leads.db"),

		EmailUser:        getEnv("EMAIL_USER", ""),
		EmailAppPassword: getEnv("EMAIL_APP_PASSWORD", ""),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),

		DedupeWindow: time.Duration(getIntEnv("EMAIL_DEDUPE_WINDOW_SECONDS", 300)) * time.Second,

		ProductsFile: getEnv("PRODUCTS_FILE", "./data/products.jsonl"),
		OrdersFile:   getEnv("ORDERS_FILE", "./data/orders.json"),

		ResponderBaseURL: getEnv("RESPONDER_BASE_URL", "https://api.openai.com/v1"),
		ResponderAPIKey:  getEnv("RESPONDER_API_KEY", ""),
		ResponderModel:   getEnv("RESPONDER_MODEL", "gpt-4o-mini"),

		RedisURL: getEnv("REDIS_URL", ""),

		SessionTTL: time.Duration(getIntEnv("SESSION_TTL_MINUTES", 120)) * time.Minute,
	}

	cfg.EmailRouting = loadRouting(cfg.EmailUser)

	return cfg
}

// EmailEnabled reports whether outbound email is configured.
// When false the notifier runs in disabled (no-op) mode.
func (c *Config) EmailEnabled() bool {
	return c.EmailUser != "" && c.EmailAppPassword != ""
}

// RouteFor resolves the destination address for a lead category,
// falling back to the sender address for unknown categories.
func (c *Config) RouteFor(leadType string) string {
	if addr, ok := c.EmailRouting[strings.ToLower(leadType)]; ok && addr != "" {
		return addr
	}
	return c.EmailUser
}

// loadRouting builds the category -> address table. A routing YAML file
// (EMAIL_ROUTING_FILE) wins over per-category env vars; every category
// defaults to the sender address.
func loadRouting(defaultAddr string) map[string]string {
	routing := map[string]string{
		"wholesale":   getEnv("EMAIL_ROUTE_WHOLESALE", defaultAddr),
		"retail":      getEnv("EMAIL_ROUTE_RETAIL", defaultAddr),
		"orderlookup": getEnv("EMAIL_ROUTE_ORDERLOOKUP", defaultAddr),
	}

	path := getEnv("EMAIL_ROUTING_FILE", "")
	if path == "" {
		return routing
	}

	fileRouting, err := loadRoutingFile(path)
	if err != nil {
		log.Printf("⚠️  Failed to load routing file %s: %v (using env/default routing)", path, err)
		return routing
	}

	for category, addr := range fileRouting {
		if addr != "" {
			routing[strings.ToLower(category)] = addr
		}
	}
	log.Printf("📋 Loaded %d routing entries from %s", len(fileRouting), path)
	return routing
}

// loadRoutingFile parses a YAML map of category -> email address.
func loadRoutingFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routing file: %w", err)
	}

	var routing map[string]string
	if err := yaml.Unmarshal(data, &routing); err != nil {
		return nil, fmt.Errorf("failed to parse routing YAML: %w", err)
	}
	return routing, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
