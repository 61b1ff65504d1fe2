package config

import (
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/citemark/internal/cite"
	derrors "git.home.luguber.info/inful/citemark/internal/foundation/errors"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "citemark.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	syn, err := cfg.ParseSyntax()
	require.NoError(t, err)
	require.Equal(t, cite.VariantPandoc, syn.Variant())
}

func TestLoad_File(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CITE_SEP", "|")

	path := writeConfig(t, `
syntax:
  variant: custom
  item_separator: "${CITE_SEP}"
  bare: true
  strict: true
to_markdown:
  variant: ALT
logging:
  level: Debug
  format: json
metrics:
  textfile: /tmp/citemark.prom
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, LogLevelDebug, cfg.Logging.Level)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)
	require.Equal(t, "/tmp/citemark.prom", cfg.Metrics.Textfile)

	syn, err := cfg.ParseSyntax()
	require.NoError(t, err)
	require.Equal(t, cite.VariantCustom, syn.Variant())
	require.Equal(t, "|", syn.ItemSeparator())
	require.True(t, syn.Bare())
	require.True(t, syn.Strict())

	target, err := cfg.TargetSyntax("")
	require.NoError(t, err)
	require.Equal(t, cite.VariantAlt, target.Variant())
}

func TestConfig_TargetSyntaxOverride(t *testing.T) {
	cfg := Default()
	cfg.ToMarkdown.BracketMultiItem = cite.Bool(true)

	target, err := cfg.TargetSyntax("alt")
	require.NoError(t, err)
	require.Equal(t, cite.VariantAlt, target.Variant())
	require.True(t, target.BracketMultiItem())
	require.Equal(t, string(cite.VariantPandoc), cfg.ToMarkdown.Variant)

	_, err = cfg.TargetSyntax("latex")
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(EnvSyntax, "alt")
	t.Setenv(EnvToMarkdown, "pandoc")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvMetricsTextfile, "out.prom")

	path := writeConfig(t, "syntax:\n  variant: pandoc\nto_markdown:\n  variant: alt\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "alt", cfg.Syntax.Variant)
	require.Equal(t, "pandoc", cfg.ToMarkdown.Variant)
	require.Equal(t, LogLevelWarn, cfg.Logging.Level)
	require.Equal(t, "out.prom", cfg.Metrics.Textfile)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CITEMARK_SYNTAX=alt\nCITEMARK_LOG_LEVEL=error\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("CITEMARK_LOG_FORMAT=json\n"), 0o600))
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvSyntax, "")
	t.Setenv(EnvLogFormat, "")
	// t.Setenv restores these afterwards; unset them so the files apply.
	require.NoError(t, os.Unsetenv(EnvSyntax))
	require.NoError(t, os.Unsetenv(EnvLogFormat))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "alt", cfg.Syntax.Variant)
	require.Equal(t, LogLevelDebug, cfg.Logging.Level)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CITEMARK_SYNTAX=\"unterminated\n"), 0o600))

	_, err := Load("")
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
	require.Contains(t, err.Error(), "failed to load env file")

	classified, ok := derrors.AsClassified(err)
	require.True(t, ok)
	require.Contains(t, classified.Fields(), derrors.Field{Key: "path", Value: ".env"})
}

func TestLoad_Errors(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryNotFound))

	_, err = Load(writeConfig(t, "syntax: [not, a, map]\n"))
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))

	_, err = Load(writeConfig(t, "logging:\n  level: loud\n  format: xml\n"))
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
	require.Contains(t, err.Error(), "logging.level")
	require.Contains(t, err.Error(), "logging.format")

	_, err = Load(writeConfig(t, "syntax:\n  sigil: \"\"\nto_markdown:\n  variant: latex\n"))
	require.Error(t, err)
	require.ErrorIs(t, err, cite.ErrConfig)
	require.Contains(t, err.Error(), "syntax:")
	require.Contains(t, err.Error(), "to_markdown:")
}

func TestInit(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "citemark.yaml")

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "pandoc", cfg.Syntax.Variant)
	require.Equal(t, "alt", cfg.ToMarkdown.Variant)

	err = Init(path, false)
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryValidation))

	require.NoError(t, Init(path, true))
}

func TestLogLevel_SlogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevel("DEBUG").SlogLevel().String())
	require.Equal(t, "INFO", LogLevel("").SlogLevel().String())
	require.Equal(t, "WARN", LogLevelWarn.SlogLevel().String())
	require.Equal(t, "ERROR", LogLevelError.SlogLevel().String())
}
