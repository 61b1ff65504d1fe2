package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"git.home.luguber.info/inful/citemark/internal/cite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		FilesTotal:     2,
		CitationsTotal: 3,
		Issues: []Issue{
			{FilePath: "b.md", Severity: SeverityError, Rule: RuleMalformedSpan, Message: "empty key", Raw: "[@]", Line: 4, Column: 7},
			{FilePath: "a.md", Severity: SeverityError, Rule: RuleInvalidDocument, Message: "permission denied"},
		},
	}
}

func TestResultCounts(t *testing.T) {
	r := sampleResult()
	assert.True(t, r.HasErrors())
	assert.Equal(t, 2, r.ErrorCount())
	assert.Equal(t, 0, r.WarningCount())
	assert.False(t, (&Result{}).HasErrors())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "INFO", SeverityInfo.String())
	assert.Equal(t, "WARNING", SeverityWarning.String())
	assert.Equal(t, "ERROR", SeverityError.String())
	assert.Equal(t, "UNKNOWN", Severity(9).String())
}

func TestTextFormatter_FormatResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter("text").FormatResult(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "b.md:4:7: ERROR empty key [malformed-citation]\n  [@]\n")
	assert.Contains(t, out, "a.md: ERROR permission denied [invalid-document]\n")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("a.md")), bytes.Index(buf.Bytes(), []byte("b.md")))
	assert.Contains(t, out, "2 files scanned, 3 citations\n2 errors\n")
	assert.NotContains(t, out, "All citations parse.")
}

func TestTextFormatter_Clean(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter().FormatResult(&buf, &Result{FilesTotal: 1, CitationsTotal: 1}))
	assert.Equal(t, "1 file scanned, 1 citation\nAll citations parse.\n", buf.String())
}

func TestTextFormatter_FormatCitations(t *testing.T) {
	var buf bytes.Buffer
	err := NewTextFormatter().FormatCitations(&buf, []Citation{
		{FilePath: "a.md", Line: 3, Column: 5, Raw: "[@a; @b]", Items: []cite.Item{{Key: "a"}, {Key: "b"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a.md:3:5\t[@a; @b]\ta,b\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter("json").FormatResult(&buf, sampleResult()))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 2, out.ErrorCount)
	assert.Equal(t, 3, out.CitationsTotal)
	require.Len(t, out.Issues, 2)
	assert.Equal(t, "ERROR", out.Issues[0].Severity)
	assert.Equal(t, "[@]", out.Issues[0].Raw)

	buf.Reset()
	require.NoError(t, NewJSONFormatter().FormatCitations(&buf, nil))
	assert.JSONEq(t, "[]", buf.String())

	buf.Reset()
	require.NoError(t, NewJSONFormatter().FormatCitations(&buf, []Citation{
		{FilePath: "a.md", Line: 1, Column: 1, Raw: "[-@a, p. 5]", Items: []cite.Item{{Key: "a", Locator: "p. 5", SuppressAuthor: true}}},
	}))
	assert.JSONEq(t, `[{"file_path":"a.md","line":1,"column":1,"raw":"[-@a, p. 5]","items":[{"key":"a","locator":"p. 5","suppressAuthor":true}]}]`, buf.String())
}
