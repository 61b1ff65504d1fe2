package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/citemark/internal/report"
	"github.com/stretchr/testify/require"
)

type runResult struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// workspace changes into a fresh directory so no stray citemark.yaml or
// .env file is picked up.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExtract_Text(t *testing.T) {
	dir := workspace(t)
	path := writeFile(t, dir, "doc.md", "# T\n\nSee [see @a, p. 5; -@b].\n")

	res := run(t, "extract", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, path+":3:5\t[see @a, p. 5; -@b]\ta,b\n", res.stdout)
}

func TestExtract_JSONWithSyntaxFlag(t *testing.T) {
	dir := workspace(t)
	path := writeFile(t, dir, "doc.md", "As @doe2020 argues.\n")

	res := run(t, "--syntax", "alt", "extract", "--format", "json", path)
	require.Equal(t, 0, res.code, res.stderr)

	var cites []report.Citation
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &cites))
	require.Len(t, cites, 1)
	require.Equal(t, "doe2020", cites[0].Items[0].Key)
	require.Equal(t, 4, cites[0].Column)
}

func TestExtract_MissingFileIsUsageError(t *testing.T) {
	dir := workspace(t)
	res := run(t, "extract", filepath.Join(dir, "missing.md"))
	require.Equal(t, 2, res.code)
}

func TestConvert_Stdout(t *testing.T) {
	dir := workspace(t)
	path := writeFile(t, dir, "doc.md", "See [@a] and [@b; @c].\n")

	res := run(t, "convert", "--to", "alt", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "See @a and @b; @c.\n", res.stdout)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "See [@a] and [@b; @c].\n", string(content))
}

func TestConvert_WriteUsesConfig(t *testing.T) {
	dir := workspace(t)
	writeFile(t, dir, "citemark.yaml", "to_markdown:\n  variant: alt\n")
	path := writeFile(t, dir, "doc.md", "---\ncitation-syntax: pandoc\n---\n[-@a]\n")

	res := run(t, "convert", "--write", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Empty(t, res.stdout)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "---\ncitation-syntax: alt\n---\n-@a\n", string(content))
}

func TestConvert_UnknownTarget(t *testing.T) {
	dir := workspace(t)
	path := writeFile(t, dir, "doc.md", "[@a]\n")

	res := run(t, "convert", "--to", "latex", path)
	require.Equal(t, 7, res.code)
	require.Contains(t, res.stderr, "Error:")
}

func TestConvert_EscapesProseSigils(t *testing.T) {
	dir := workspace(t)
	path := writeFile(t, dir, "doc.md", "Ping me @home or see [@a].\n")

	res := run(t, "convert", "--to", "alt", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "Ping me \\@home or see @a.\n", res.stdout)

	out := writeFile(t, dir, "alt.md", res.stdout)
	res = run(t, "--syntax", "alt", "extract", "-f", "json", out)
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, `"key": "a"`)
	require.NotContains(t, res.stdout, `"key": "home"`)
}

func TestConvert_ToKeepsConfigOverrides(t *testing.T) {
	dir := workspace(t)
	writeFile(t, dir, "citemark.yaml", "to_markdown:\n  variant: pandoc\n  bracket_multi_item: true\n")
	path := writeFile(t, dir, "doc.md", "[@a] and [@b; @c]\n")

	res := run(t, "convert", "--to", "alt", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "@a and [@b; @c]\n", res.stdout)
}

func TestMetricsWriteFailureIsWarning(t *testing.T) {
	dir := workspace(t)
	t.Setenv("CITEMARK_METRICS_TEXTFILE", filepath.Join(dir, "missing", "citemark.prom"))
	path := writeFile(t, dir, "doc.md", "[@a]\n")

	res := run(t, "convert", "--to", "alt", path)
	require.Equal(t, 11, res.code)
	require.Equal(t, "@a\n", res.stdout)
	require.Contains(t, res.stderr, "Warning: failed to write metrics textfile")
}

func TestMalformedDotEnvIsConfigError(t *testing.T) {
	dir := workspace(t)
	writeFile(t, dir, ".env", "CITEMARK_SYNTAX=\"unterminated\n")
	path := writeFile(t, dir, "doc.md", "[@a]\n")

	res := run(t, "extract", path)
	require.Equal(t, 7, res.code)
	require.Contains(t, res.stderr, "failed to load env file (path=.env)")
}

func TestCheck(t *testing.T) {
	dir := workspace(t)
	good := writeFile(t, dir, "good.md", "Fine [@a].\n")
	bad := writeFile(t, dir, "bad.md", "Broken [@] here.\n")

	res := run(t, "check", good)
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "1 file scanned, 1 citation")

	res = run(t, "check", good, bad, filepath.Join(dir, "missing.md"))
	require.Equal(t, 2, res.code)
	require.Contains(t, res.stdout, bad+":1:8: ERROR")
	require.Contains(t, res.stdout, "[malformed-citation]")
	require.Contains(t, res.stdout, "[invalid-document]")
	require.Contains(t, res.stderr, "citation check failed")
}

func TestCheck_JSONAndMetrics(t *testing.T) {
	dir := workspace(t)
	prom := filepath.Join(dir, "citemark.prom")
	t.Setenv("CITEMARK_METRICS_TEXTFILE", prom)
	bad := writeFile(t, dir, "bad.md", "[@a] and [@b; -@]\n")

	res := run(t, "check", "-f", "json", bad)
	require.Equal(t, 2, res.code)

	var out report.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	require.Equal(t, 1, out.ErrorCount)
	require.Equal(t, "[@b; -@]", out.Issues[0].Raw)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	require.Contains(t, string(data), "citemark_malformed_spans_total 1")
	require.Contains(t, string(data), `citemark_document_outcomes_total{outcome="malformed"} 1`)
}

func TestInit(t *testing.T) {
	dir := workspace(t)

	res := run(t, "init")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "Writing configuration to citemark.yaml")
	require.FileExists(t, filepath.Join(dir, "citemark.yaml"))

	res = run(t, "init")
	require.Equal(t, 2, res.code)

	res = run(t, "init", "--force")
	require.Equal(t, 0, res.code, res.stderr)

	// The generated file is picked up by later commands.
	path := writeFile(t, dir, "doc.md", "[@a]\n")
	res = run(t, "convert", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "@a\n", res.stdout)
}

func TestExplicitConfigMustExist(t *testing.T) {
	dir := workspace(t)
	path := writeFile(t, dir, "doc.md", "[@a]\n")

	res := run(t, "--config", filepath.Join(dir, "nope.yaml"), "extract", path)
	require.Equal(t, 4, res.code)
}

func TestHelpListsVariants(t *testing.T) {
	workspace(t)
	res := run(t, "convert", "--help")
	require.Equal(t, 0, res.code)
	require.Contains(t, res.stdout, "Target syntax (alt, custom, pandoc)")
}

func TestVersionFlag(t *testing.T) {
	workspace(t)
	res := run(t, "--version")
	require.Equal(t, 0, res.code)
	require.Contains(t, res.stdout, "citemark ")
}
