package config

import (
	"os"
	"strings"

	"git.home.luguber.info/inful/citemark/internal/foundation/errors"
	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvSyntax          = "CITEMARK_SYNTAX"
	EnvToMarkdown      = "CITEMARK_TO_MARKDOWN"
	EnvLogLevel        = "CITEMARK_LOG_LEVEL"
	EnvLogFormat       = "CITEMARK_LOG_FORMAT"
	EnvMetricsTextfile = "CITEMARK_METRICS_TEXTFILE"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads every present .env file. godotenv.Load never overrides
// variables already set, so earlier files and the process environment win.
// A file that does not parse stops loading and is reported as a config error.
func loadEnvFiles() error {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return errors.ConfigError("failed to load env file").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := lookupEnv(EnvSyntax); ok {
		cfg.Syntax.Variant = v
	}
	if v, ok := lookupEnv(EnvToMarkdown); ok {
		cfg.ToMarkdown.Variant = v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok {
		cfg.Logging.Level = LogLevel(v)
	}
	if v, ok := lookupEnv(EnvLogFormat); ok {
		cfg.Logging.Format = LogFormat(v)
	}
	if v, ok := lookupEnv(EnvMetricsTextfile); ok {
		cfg.Metrics.Textfile = v
	}
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
