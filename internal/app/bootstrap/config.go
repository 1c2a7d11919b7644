package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	AuthModeGRPC = "grpc"
	AuthModeJWT  = "jwt"
	AuthModeNone = "none"
)

type Config struct {
	ServiceID string
	LogLevel  slog.Level

	HTTPPort int
	GRPCPort int

	StorageDriver string
	DatabaseURL   string
	MaxDBConns    int32
	RunMigrations bool

	RedisURL                string
	KafkaBrokers            []string
	KafkaTopicEntityChanged string

	AuthMode     string
	AuthGRPCURL  string
	JWTSecret    string
	JWTPublicKey string
	JWTIssuer    string
	DevUserID    string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxRetries   int

	RequireContactOnSave bool
	DraftTTL             time.Duration
	MaxDraftsPerHour     int
	IdempotencyTTL       time.Duration
	DefaultPageSize      int
	MaxPageSize          int
	DashboardCacheTTL    time.Duration
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"service"`
	Storage struct {
		Driver        string `yaml:"driver"`
		PostgresURL   string `yaml:"postgres_url"`
		MaxConns      int    `yaml:"max_conns"`
		RunMigrations *bool  `yaml:"run_migrations"`
	} `yaml:"storage"`
	Dependencies struct {
		RedisURL                string   `yaml:"redis_url"`
		AuthMode                string   `yaml:"auth_mode"`
		AuthGRPCURL             string   `yaml:"auth_grpc_url"`
		JWTIssuer               string   `yaml:"jwt_issuer"`
		KafkaBrokers            []string `yaml:"kafka_brokers"`
		KafkaTopicEntityChanged string   `yaml:"kafka_topic_entity_changed"`
	} `yaml:"dependencies"`
	Contacts struct {
		RequireOnSave    *bool `yaml:"require_on_save"`
		DraftTTLMinutes  int   `yaml:"draft_ttl_minutes"`
		MaxDraftsPerHour int   `yaml:"max_drafts_per_hour"`
	} `yaml:"contacts"`
	Pagination struct {
		DefaultPageSize int `yaml:"default_page_size"`
		MaxPageSize     int `yaml:"max_page_size"`
	} `yaml:"pagination"`
}

func defaultConfig() Config {
	return Config{
		ServiceID:               "M98-ERP-Master-Service",
		LogLevel:                slog.LevelInfo,
		HTTPPort:                8098,
		GRPCPort:                9098,
		StorageDriver:           StoragePostgres,
		MaxDBConns:              20,
		RunMigrations:           true,
		KafkaTopicEntityChanged: "erp.entity_changed",
		AuthMode:                AuthModeGRPC,
		JWTIssuer:               "viralforge-auth",
		DevUserID:               "dev-user",
		OutboxPollInterval:      2 * time.Second,
		OutboxBatchSize:         100,
		OutboxMaxRetries:        10,
		RequireContactOnSave:    true,
		DraftTTL:                30 * time.Minute,
		MaxDraftsPerHour:        120,
		IdempotencyTTL:          7 * 24 * time.Hour,
		DefaultPageSize:         10,
		MaxPageSize:             100,
		DashboardCacheTTL:       30 * time.Second,
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config file: %w", err)
	default:
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		applyFile(&cfg, f)
	}

	cfg.ServiceID = envOrDefault("SERVICE_ID", cfg.ServiceID)
	cfg.LogLevel = parseLevel(os.Getenv("LOG_LEVEL"), cfg.LogLevel)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.StorageDriver = strings.ToLower(envOrDefault("STORAGE_DRIVER", cfg.StorageDriver))
	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.RunMigrations = envBool("DB_RUN_MIGRATIONS", cfg.RunMigrations)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopicEntityChanged = envOrDefault("KAFKA_TOPIC_ENTITY_CHANGED", cfg.KafkaTopicEntityChanged)
	cfg.AuthMode = strings.ToLower(envOrDefault("AUTH_MODE", cfg.AuthMode))
	cfg.AuthGRPCURL = envOrDefault("AUTH_GRPC_URL", envOrDefault("AUTH_SERVICE_GRPC_ADDR", cfg.AuthGRPCURL))
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTPublicKey = envOrDefault("JWT_PUBLIC_KEY", cfg.JWTPublicKey)
	cfg.JWTIssuer = envOrDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.DevUserID = envOrDefault("DEV_USER_ID", cfg.DevUserID)
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxMaxRetries = envInt("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)
	cfg.RequireContactOnSave = envBool("REQUIRE_CONTACT_ON_SAVE", cfg.RequireContactOnSave)
	cfg.DraftTTL = time.Duration(envInt("DRAFT_TTL_MINUTES", int(cfg.DraftTTL.Minutes()))) * time.Minute
	cfg.MaxDraftsPerHour = envInt("MAX_DRAFTS_PER_HOUR", cfg.MaxDraftsPerHour)
	cfg.IdempotencyTTL = time.Duration(envInt("IDEMPOTENCY_TTL_HOURS", int(cfg.IdempotencyTTL.Hours()))) * time.Hour
	cfg.DefaultPageSize = envInt("DEFAULT_PAGE_SIZE", cfg.DefaultPageSize)
	cfg.MaxPageSize = envInt("MAX_PAGE_SIZE", cfg.MaxPageSize)
	cfg.DashboardCacheTTL = time.Duration(envInt("DASHBOARD_CACHE_SECONDS", int(cfg.DashboardCacheTTL.Seconds()))) * time.Second

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, f configFile) {
	if f.Service.ID != "" {
		cfg.ServiceID = f.Service.ID
	}
	if f.Service.HTTPPort > 0 {
		cfg.HTTPPort = f.Service.HTTPPort
	}
	if f.Service.GRPCPort > 0 {
		cfg.GRPCPort = f.Service.GRPCPort
	}
	cfg.LogLevel = parseLevel(f.Service.LogLevel, cfg.LogLevel)
	if f.Storage.Driver != "" {
		cfg.StorageDriver = strings.ToLower(f.Storage.Driver)
	}
	if f.Storage.PostgresURL != "" {
		cfg.DatabaseURL = f.Storage.PostgresURL
	}
	if f.Storage.MaxConns > 0 {
		cfg.MaxDBConns = int32(f.Storage.MaxConns)
	}
	if f.Storage.RunMigrations != nil {
		cfg.RunMigrations = *f.Storage.RunMigrations
	}
	if f.Dependencies.RedisURL != "" {
		cfg.RedisURL = f.Dependencies.RedisURL
	}
	if f.Dependencies.AuthMode != "" {
		cfg.AuthMode = strings.ToLower(f.Dependencies.AuthMode)
	}
	if f.Dependencies.AuthGRPCURL != "" {
		cfg.AuthGRPCURL = f.Dependencies.AuthGRPCURL
	}
	if f.Dependencies.JWTIssuer != "" {
		cfg.JWTIssuer = f.Dependencies.JWTIssuer
	}
	if len(f.Dependencies.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
	}
	if f.Dependencies.KafkaTopicEntityChanged != "" {
		cfg.KafkaTopicEntityChanged = f.Dependencies.KafkaTopicEntityChanged
	}
	if f.Contacts.RequireOnSave != nil {
		cfg.RequireContactOnSave = *f.Contacts.RequireOnSave
	}
	if f.Contacts.DraftTTLMinutes > 0 {
		cfg.DraftTTL = time.Duration(f.Contacts.DraftTTLMinutes) * time.Minute
	}
	if f.Contacts.MaxDraftsPerHour > 0 {
		cfg.MaxDraftsPerHour = f.Contacts.MaxDraftsPerHour
	}
	if f.Pagination.DefaultPageSize > 0 {
		cfg.DefaultPageSize = f.Pagination.DefaultPageSize
	}
	if f.Pagination.MaxPageSize > 0 {
		cfg.MaxPageSize = f.Pagination.MaxPageSize
	}
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("missing DB_URL/POSTGRES_URL for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.AuthMode {
	case AuthModeGRPC:
		if c.AuthGRPCURL == "" {
			return fmt.Errorf("missing AUTH_GRPC_URL")
		}
	case AuthModeJWT:
		if c.JWTSecret == "" && c.JWTPublicKey == "" {
			return fmt.Errorf("missing JWT_SECRET or JWT_PUBLIC_KEY")
		}
	case AuthModeNone:
	default:
		return fmt.Errorf("unsupported AUTH_MODE %q", c.AuthMode)
	}
	if c.DefaultPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("invalid page sizes: default %d, max %d", c.DefaultPageSize, c.MaxPageSize)
	}
	return nil
}

func parseLevel(raw string, fallback slog.Level) slog.Level {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}
	return level
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	items := strings.Split(raw, ",")
	return trimNonEmpty(items)
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
