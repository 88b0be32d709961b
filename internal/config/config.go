package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable or a group of them.  Only the MySQL settings are
// mandatory, and only when the MySQL ticket store is selected; everything
// else has a default so the service can boot against fallback content.
type Config struct {
	Env          string // application environment (dev, prod)
	Port         string // HTTP port to listen on
	Debug        bool   // verbose logging
	Contentstack ContentstackConfig
	Content      ContentCacheConfig
	Tickets      TicketStoreConfig
	BrokerURL    string // RabbitMQ URL; empty disables the broker transport
	JWTSecret    string // signs admin tokens; empty disables admin routes
	AccessTTLMin int    // admin access token lifetime in minutes
}

// ContentstackConfig carries the delivery API credentials.  The source is
// considered unconfigured when any of APIKey, DeliveryToken or Environment
// is empty.
type ContentstackConfig struct {
	APIKey        string
	DeliveryToken string
	Environment   string
	Host          string
	Timeout       time.Duration
}

// TicketStoreConfig selects where issued tickets are kept.
type TicketStoreConfig struct {
	Backend string // memory or mysql
	DBUser  string
	DBPass  string
	DBHost  string
	DBPort  string
	DBName  string
}

// Load reads a .env file when one exists, then builds the Config from the
// environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring unreadable .env: %v", err)
	}
	cfg := Config{
		Env:   envStr("APP_ENV", "dev"),
		Port:  envStr("APP_PORT", envStr("API_PORT", "4000")),
		Debug: envBool("APP_DEBUG", false),
		Contentstack: ContentstackConfig{
			APIKey:        os.Getenv("CONTENTSTACK_API_KEY"),
			DeliveryToken: os.Getenv("CONTENTSTACK_DELIVERY_TOKEN"),
			Environment:   os.Getenv("CONTENTSTACK_ENVIRONMENT"),
			Host:          envStr("CONTENTSTACK_HOST", "cdn.contentstack.io"),
			Timeout:       envDur("CONTENTSTACK_TIMEOUT", 5*time.Second),
		},
		Content:      LoadContentCacheConfig(),
		Tickets:      TicketStoreConfig{Backend: envStr("TICKET_STORE", "memory")},
		BrokerURL:    envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 15),
	}
	if cfg.Tickets.Backend == "mysql" {
		cfg.Tickets.DBUser = must("DB_USER")
		cfg.Tickets.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.Tickets.DBHost = must("DB_HOST")
		cfg.Tickets.DBPort = must("DB_PORT")
		cfg.Tickets.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
