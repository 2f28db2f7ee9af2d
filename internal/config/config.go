// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Telemetry exporter selection values for OTEL_EXPORTER.
const (
	ExporterOff      = "off"
	ExporterStdout   = "stdout"
	ExporterOTLPGRPC = "otlp-grpc"
	ExporterOTLPHTTP = "otlp-http"
)

// Config holds all configuration for the application.
type Config struct {
	DatabaseURL          string
	ListenAddr           string
	LogLevel             string
	LogFormat            string
	OTelExporter         string
	OTelEndpoint         string
	DailyReminderEnabled bool
	ReminderHour         int
	ReminderTimezone     string
}

// getenv is swapped in tests.
var getenv = os.Getenv

// Load reads configuration from environment variables, consulting a .env
// file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  getenv("DATABASE_URL"),
		ListenAddr:   getenv("LISTEN_ADDR"),
		LogLevel:     getenv("LOG_LEVEL"),
		LogFormat:    getenv("LOG_FORMAT"),
		OTelExporter: getenv("OTEL_EXPORTER"),
		OTelEndpoint: getenv("OTEL_ENDPOINT"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.OTelExporter == "" {
		cfg.OTelExporter = ExporterOff
	}

	cfg.DailyReminderEnabled = getenv("DAILY_REMINDER_ENABLED") == "true"
	cfg.ReminderHour = 20
	if hourStr := getenv("REMINDER_HOUR"); hourStr != "" {
		if h, err := strconv.Atoi(hourStr); err == nil && h >= 0 && h <= 23 {
			cfg.ReminderHour = h
		}
	}
	cfg.ReminderTimezone = "Local"
	if tz := getenv("REMINDER_TIMEZONE"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			cfg.ReminderTimezone = tz
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	switch c.OTelExporter {
	case ExporterOff, ExporterStdout:
	case ExporterOTLPGRPC, ExporterOTLPHTTP:
		if c.OTelEndpoint == "" {
			errs = append(errs, "OTEL_ENDPOINT is required when OTEL_EXPORTER is "+c.OTelExporter)
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown OTEL_EXPORTER %q", c.OTelExporter))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
