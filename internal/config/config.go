package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton for packages that cannot take injected config.
var globalConfig *Config

// Config holds all environment backed configuration for coursegpt-server.
type Config struct {
	// HTTP Server
	HTTPPort    int `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int `env:"METRICS_PORT" envDefault:"9091"`

	// OpenAI
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY,notEmpty"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	OpenAIModel   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	// Canvas LMS
	CanvasBaseURL string        `env:"CANVAS_BASE_URL"`
	CanvasAPIKey  string        `env:"CANVAS_API_KEY"`
	CanvasTimeout time.Duration `env:"CANVAS_TIMEOUT" envDefault:"30s"`

	// Web fetching
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`
	FetchRetryAttempts int           `env:"FETCH_RETRY_ATTEMPTS" envDefault:"3"`
	FetchCBEnabled     bool          `env:"FETCH_CB_ENABLED" envDefault:"true"`

	// Persistence (optional; in-memory archive when unset)
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	// Conversation limits
	ContextTurns  int `env:"CONTEXT_TURNS" envDefault:"5"`
	MaxUploadSize int `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`

	// Observability / Logging
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"coursegpt-server"`
	ServiceNamespace string `env:"SERVICE_NAMESPACE" envDefault:"coursegpt"`
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"console"`

	// Internal
	EnvReloadedAt time.Time `env:"-"`
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.CanvasBaseURL != "" {
		if _, err := url.ParseRequestURI(cfg.CanvasBaseURL); err != nil {
			return nil, fmt.Errorf("invalid CANVAS_BASE_URL: %w", err)
		}
		cfg.CanvasBaseURL = strings.TrimRight(cfg.CanvasBaseURL, "/")
	}
	if cfg.CanvasBaseURL != "" && cfg.CanvasAPIKey == "" {
		return nil, errors.New("CANVAS_API_KEY must be set when CANVAS_BASE_URL is configured")
	}

	if cfg.ContextTurns <= 0 {
		return nil, fmt.Errorf("CONTEXT_TURNS must be positive, got %d", cfg.ContextTurns)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()

	globalConfig = cfg
	return cfg, nil
}

// GetGlobal returns the last loaded configuration, or nil when Load has not run.
func GetGlobal() *Config {
	return globalConfig
}

// CanvasConfigured reports whether a Canvas backend is available. Requests
// that need the LMS get a fixed "not configured" response when it is not.
func (c *Config) CanvasConfigured() bool {
	return c.CanvasBaseURL != "" && c.CanvasAPIKey != ""
}
