package commands

import (
	"io"
	"log/slog"

	"git.home.luguber.info/inful/citemark/internal/cite"
	"git.home.luguber.info/inful/citemark/internal/config"
	derrors "git.home.luguber.info/inful/citemark/internal/foundation/errors"
	"git.home.luguber.info/inful/citemark/internal/logfields"
	"git.home.luguber.info/inful/citemark/internal/metrics"
	"github.com/alecthomas/kong"
)

// Global carries the state shared by every subcommand.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Config   *config.Config
	Syntax   *cite.Syntax
	Recorder metrics.Recorder

	prom *metrics.PrometheusRecorder
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: citemark.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Syntax  string           `short:"s" help:"Citation syntax to parse with (${variants})"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Extract ExtractCmd `cmd:"" help:"List the citations of markdown files"`
	Convert ConvertCmd `cmd:"" help:"Rewrite the citations of a markdown file in another syntax"`
	Check   CheckCmd   `cmd:"" help:"Report malformed citations (exit status 2 when any are found)"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
}

// configPath returns the file to load and whether the user named it.
func (c *CLI) configPath() (string, bool) {
	if c.Config != "" {
		return c.Config, true
	}
	return config.DefaultPath, false
}

// load reads the configuration and prepares logging, the parse syntax and
// metrics on g. The default configuration file is optional.
func (c *CLI) load(g *Global) error {
	path, explicit := c.configPath()
	cfg, err := config.Load(path)
	if err != nil && !explicit && derrors.HasCategory(err, derrors.CategoryNotFound) {
		cfg, err = config.Load("")
	}
	if err != nil {
		return err
	}
	if c.Syntax != "" {
		cfg.Syntax.Variant = c.Syntax
	}

	g.Logger = newLogger(g.Stderr, cfg.Logging, c.Verbose)
	slog.SetDefault(g.Logger)

	syn, err := cfg.ParseSyntax()
	if err != nil {
		return err
	}
	g.Config = cfg
	g.Syntax = syn

	g.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Textfile != "" {
		g.prom = metrics.NewPrometheusRecorder(nil)
		g.Recorder = g.prom
	}

	g.Logger.Debug("Configuration loaded",
		logfields.Path(path),
		logfields.Variant(syn.String()))
	return nil
}

// flushMetrics writes the metrics textfile when one is configured. A failure
// is a warning: the command's own output is already complete.
func (g *Global) flushMetrics() error {
	if g.prom == nil {
		return nil
	}
	path := g.Config.Metrics.Textfile
	if err := g.prom.WriteTextfile(path); err != nil {
		return derrors.FileSystemError("failed to write metrics textfile").
			WithSeverity(derrors.SeverityWarning).
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	g.Logger.Debug("Metrics written", logfields.Path(path))
	return nil
}

func newLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) *slog.Logger {
	level := cfg.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
