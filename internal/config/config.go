package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all sync settings, populated from environment variables
// (with optional .env support for local runs).
type Config struct {
	ServiceRootURL string
	AlertsURL      string
	ZonesURL       string
	UserAgent      string
	HTTPTimeout    time.Duration

	// AllowEvents restricts aggregation to exactly these event labels.
	// Empty means every event is accepted.
	AllowEvents []string

	QueryPageSize int
	BatchSize     int
	BatchPause    time.Duration

	// County layer attribute names.
	FieldState string
	FieldName  string
	FieldUGC   string

	LogLevel  string
	LogFormat string

	// MetricsAddr binds the /metrics listener when non-empty.
	MetricsAddr string

	// No-match diagnostics sink; both must be set to enable it.
	KafkaBrokers          []string
	KafkaDiagnosticsTopic string
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is merged in first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	httpTimeout, err := parseDuration("HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	batchPause, err := parseDuration("BATCH_PAUSE", "200ms")
	if err != nil {
		return nil, err
	}
	batchSize, err := parsePositiveInt("BATCH_SIZE", 500)
	if err != nil {
		return nil, err
	}
	pageSize, err := parsePositiveInt("QUERY_PAGE_SIZE", 5000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServiceRootURL: os.Getenv("SERVICE_ROOT_URL"),
		AlertsURL:      envOrDefault("ALERTS_URL", "https://api.weather.gov/alerts/active"),
		ZonesURL:       envOrDefault("ZONES_URL", "https://api.weather.gov/zones?type=county"),
		UserAgent:      envOrDefault("USER_AGENT", "ewd-sync/1.0 (github.com/trevorneel/EWD)"),
		HTTPTimeout:    httpTimeout,
		AllowEvents:    splitList(os.Getenv("ALLOW_EVENTS")),
		QueryPageSize:  pageSize,
		BatchSize:      batchSize,
		BatchPause:     batchPause,
		FieldState:     envOrDefault("FIELD_STATE", "STATE_ABBR"),
		FieldName:      envOrDefault("FIELD_NAME", "NAME"),
		FieldUGC:       envOrDefault("FIELD_UGC", "ugc"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "json"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),

		KafkaBrokers:          splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaDiagnosticsTopic: os.Getenv("KAFKA_DIAGNOSTICS_TOPIC"),
	}

	if cfg.ServiceRootURL == "" {
		return nil, errors.New("SERVICE_ROOT_URL is required")
	}
	if cfg.BatchSize > 2000 {
		return nil, errors.New("BATCH_SIZE must be at most 2000")
	}
	if cfg.BatchPause < 0 {
		return nil, errors.New("BATCH_PAUSE must not be negative")
	}
	if cfg.KafkaDiagnosticsTopic != "" && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_DIAGNOSTICS_TOPIC is set but KAFKA_BROKERS is not")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaDiagnosticsTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_DIAGNOSTICS_TOPIC is not")
	}

	return cfg, nil
}

// DiagnosticsEnabled reports whether the Kafka no-match sink is configured.
func (c *Config) DiagnosticsEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaDiagnosticsTopic != ""
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}
