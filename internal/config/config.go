package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

const (
	defaultAppEnv           = "development"
	defaultDBPath           = "./dev.db"
	defaultPort             = "8080"
	defaultLogFormat        = "json"
	defaultLogLevel         = "info"
	defaultMetricsNamespace = "decom"
)

// ErrMissingSessionSecret is returned outside development when
// SESSION_SECRET is empty.
var ErrMissingSessionSecret = errors.New("SESSION_SECRET is required outside development")

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv           string
	AdminEmail       string
	AdminPassword    string
	SessionSecret    string
	DBPath           string
	Port             string
	LogFormat        string
	LogLevel         string
	MetricsNamespace string
}

// Load reads environment variables, after a best-effort .env load, and
// returns a populated Config. Missing admin credentials are only warned
// about; a missing session secret is fatal unless running in development.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Config{
		AppEnv:           valueOrDefault(k.String("APP_ENV"), defaultAppEnv),
		AdminEmail:       strings.TrimSpace(k.String("ADMIN_EMAIL")),
		AdminPassword:    k.String("ADMIN_PASSWORD"),
		SessionSecret:    k.String("SESSION_SECRET"),
		DBPath:           valueOrDefault(k.String("DB_PATH"), defaultDBPath),
		Port:             valueOrDefault(k.String("PORT"), defaultPort),
		LogFormat:        valueOrDefault(k.String("LOG_FORMAT"), defaultLogFormat),
		LogLevel:         valueOrDefault(k.String("LOG_LEVEL"), defaultLogLevel),
		MetricsNamespace: valueOrDefault(k.String("METRICS_NAMESPACE"), defaultMetricsNamespace),
	}

	if cfg.AdminEmail == "" {
		log.Warn().Msg("ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		log.Warn().Msg("ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		if !cfg.IsDev() {
			return Config{}, ErrMissingSessionSecret
		}
		log.Warn().Msg("SESSION_SECRET is not set")
	}

	return cfg, nil
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(strings.TrimSpace(c.AppEnv)) {
	case "", "dev", "development", "local":
		return true
	default:
		return false
	}
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = defaultPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
