// Package config loads the citemark configuration file.
//
// Values come from, in increasing precedence: built-in defaults, the YAML
// file (with ${VAR} expansion), and CITEMARK_* environment variables. Both
// .env and .env.local are read first and never override the process
// environment.
package config

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/citemark/internal/cite"
	"git.home.luguber.info/inful/citemark/internal/foundation/errors"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "citemark.yaml"

// Config is the root configuration.
type Config struct {
	// Syntax is the citation syntax documents are parsed with.
	Syntax cite.Options `yaml:"syntax"`
	// ToMarkdown is the syntax citations are written in by convert.
	ToMarkdown cite.Options  `yaml:"to_markdown"`
	Logging    LoggingConfig `yaml:"logging"`
	Metrics    MetricsConfig `yaml:"metrics"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	// Textfile is where a run's metrics are written in the node exporter
	// textfile format. Empty disables metrics.
	Textfile string `yaml:"textfile,omitempty"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Syntax:     cite.Options{Variant: string(cite.VariantPandoc)},
		ToMarkdown: cite.Options{Variant: string(cite.VariantPandoc)},
		Logging:    LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}

// Load reads the configuration at configPath. An empty path yields the
// defaults with environment overrides applied. A missing file is a
// not_found error so callers can fall back to Load("").
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := Default()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if os.IsNotExist(err) {
			return nil, errors.NewError(errors.CategoryNotFound, "configuration file not found").
				WithCause(err).
				WithContext("path", configPath).
				Build()
		}
		if err != nil {
			return nil, errors.FileSystemError("failed to read config file").
				WithCause(err).
				WithContext("path", configPath).
				Build()
		}

		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.ConfigError("failed to unmarshal config").
				WithCause(err).
				WithContext("path", configPath).
				Build()
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize case-folds enumerations, keeping an empty value at its default.
func (c *Config) normalize() error {
	var result *multierror.Error
	level, err := logLevelNormalizer.NormalizeWithError(string(c.Logging.Level))
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("logging.level: %w", err))
	}
	format, err := logFormatNormalizer.NormalizeWithError(string(c.Logging.Format))
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("logging.format: %w", err))
	}
	if result != nil {
		return errors.ConfigError("invalid logging configuration").WithCause(result.ErrorOrNil()).Build()
	}
	c.Logging.Level = level
	c.Logging.Format = format
	return nil
}

// Validate checks that both syntax sections resolve.
func (c *Config) Validate() error {
	var result *multierror.Error
	if _, err := cite.NewSyntax(c.Syntax); err != nil {
		result = multierror.Append(result, fmt.Errorf("syntax: %w", err))
	}
	if _, err := cite.NewSyntax(c.ToMarkdown); err != nil {
		result = multierror.Append(result, fmt.Errorf("to_markdown: %w", err))
	}
	if err := result.ErrorOrNil(); err != nil {
		return errors.ConfigError("configuration validation failed").WithCause(err).Build()
	}
	return nil
}

// ParseSyntax resolves the syntax section.
func (c *Config) ParseSyntax() (*cite.Syntax, error) {
	return cite.NewSyntax(c.Syntax)
}

// TargetSyntax resolves the to_markdown section. A non-empty variant replaces
// the section's preset while its overrides still apply.
func (c *Config) TargetSyntax(variant string) (*cite.Syntax, error) {
	opts := c.ToMarkdown
	if variant != "" {
		opts.Variant = variant
	}
	return cite.NewSyntax(opts)
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		Syntax: cite.Options{
			Variant:          string(cite.VariantPandoc),
			LocatorDelimiter: cite.String(","),
			Strict:           cite.Bool(false),
		},
		ToMarkdown: cite.Options{
			Variant:          string(cite.VariantAlt),
			BracketMultiItem: cite.Bool(false),
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.InternalError("failed to marshal example config").WithCause(err).Build()
	}
	data = append([]byte("# citemark configuration\n"), data...)

	// #nosec G306 -- configuration is not secret.
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.FileSystemError("failed to write config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}
