package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Store   StoreConfig
	Auth    AuthConfig
	Ledger  LedgerConfig
	Events  EventsConfig
	Cache   CacheConfig
	Graph   GraphConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// StoreConfig describes where collection files live and how writes are retried.
type StoreConfig struct {
	DataDir       string
	WriteAttempts int
	RetryDelay    time.Duration
}

// AuthConfig controls password hashing and session tokens.
type AuthConfig struct {
	Secret         string
	SecretFallback bool
	TokenTTL       time.Duration
	PasswordHasher string // sha256|bcrypt
}

// LedgerConfig configures the payment ledger collaborator.
type LedgerConfig struct {
	StartingBalance float64
}

// EventsConfig describes the optional RabbitMQ event sink.
type EventsConfig struct {
	RabbitMQURL string
	Queue       string
}

// CacheConfig controls the in-process listing cache.
type CacheConfig struct {
	ListingTTL     time.Duration
	ListingMaxSize int64
}

// GraphConfig describes connectivity to the graph database used by the mirror.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// DefaultSecret signs tokens when JWT_SECRET_KEY is unset. Development only.
const DefaultSecret = "your-secret-key"

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultDataDir          = "data"
	defaultWriteAttempts    = 5
	defaultRetryDelay       = 500 * time.Millisecond
	defaultTokenTTL         = 24 * time.Hour
	defaultPasswordHasher   = "sha256"
	defaultStartingBalance  = 100000
	defaultEventsQueue      = "marketplace_events"
	defaultListingTTL       = 30 * time.Second
	defaultListingMaxSize   = 1000
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
)

// Load reads configuration from environment variables, applying defaults.
// A .env file in the working directory is loaded first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTP: HTTPConfig{
			Host:              valueOrDefault("SERVER_HOST", defaultHost),
			AllowedOriginsCSV: os.Getenv("SERVER_ALLOWED_ORIGINS"),
		},
		Store: StoreConfig{
			DataDir:       valueOrDefault("STORE_DATA_DIR", defaultDataDir),
			WriteAttempts: parseIntWithDefault("STORE_WRITE_ATTEMPTS", defaultWriteAttempts),
		},
		Auth: AuthConfig{
			Secret:         os.Getenv("JWT_SECRET_KEY"),
			PasswordHasher: valueOrDefault("AUTH_PASSWORD_HASHER", defaultPasswordHasher),
		},
		Ledger: LedgerConfig{
			StartingBalance: parseFloatWithDefault("LEDGER_STARTING_BALANCE", defaultStartingBalance),
		},
		Events: EventsConfig{
			RabbitMQURL: os.Getenv("RABBITMQ_URL"),
			Queue:       valueOrDefault("RABBITMQ_QUEUE", defaultEventsQueue),
		},
		Cache: CacheConfig{
			ListingMaxSize: int64(parseIntWithDefault("CACHE_LISTING_MAX_SIZE", defaultListingMaxSize)),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
	}

	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = DefaultSecret
		cfg.Auth.SecretFallback = true
	}
	switch cfg.Auth.PasswordHasher {
	case "sha256", "bcrypt":
	default:
		return Config{}, fmt.Errorf("invalid AUTH_PASSWORD_HASHER %q: want sha256 or bcrypt", cfg.Auth.PasswordHasher)
	}
	if cfg.Store.WriteAttempts <= 0 {
		cfg.Store.WriteAttempts = defaultWriteAttempts
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", defaultReadTimeout, &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", defaultWriteTimeout, &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", defaultIdleTimeout, &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout, &cfg.HTTP.ShutdownTimeout},
		{"STORE_RETRY_DELAY", defaultRetryDelay, &cfg.Store.RetryDelay},
		{"AUTH_TOKEN_TTL", defaultTokenTTL, &cfg.Auth.TokenTTL},
		{"CACHE_LISTING_TTL", defaultListingTTL, &cfg.Cache.ListingTTL},
	}
	for _, d := range durations {
		val, err := parseDurationWithDefault(d.key, d.fallback)
		if err != nil {
			return Config{}, err
		}
		*d.dst = val
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseFloatWithDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			return val
		}
	}
	return fallback
}

func parseDurationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
