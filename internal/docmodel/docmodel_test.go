package docmodel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/citemark/internal/cite"
	derrors "git.home.luguber.info/inful/citemark/internal/foundation/errors"
	"git.home.luguber.info/inful/citemark/internal/frontmatter"
	"github.com/stretchr/testify/require"
)

func TestParse_NoFrontmatter_RoundTrip(t *testing.T) {
	content := []byte("# Hello\n\nBody [@doe2020]\n")

	doc, err := Parse(content, Options{})
	require.NoError(t, err)
	require.Equal(t, content, doc.Original())
	require.Equal(t, cite.VariantPandoc, doc.Syntax().Variant())

	out, n, err := doc.Convert(cite.Pandoc(), ConvertOptions{})
	require.NoError(t, err)
	require.Zero(t, n)
	require.Equal(t, content, out)
}

func TestParse_EmptyFrontmatter_RoundTrip(t *testing.T) {
	content := []byte("---\n---\n# Hi [@a]\n")

	doc, err := Parse(content, Options{})
	require.NoError(t, err)
	require.Equal(t, 3, doc.Citations()[0].Line)

	out, _, err := doc.Convert(cite.Pandoc(), ConvertOptions{})
	require.NoError(t, err)
	require.Equal(t, content, out)
}

func TestParse_MissingClosingDelimiter_ReturnsFrontmatterError(t *testing.T) {
	content := []byte("---\nkey: value\n# body\n")

	_, err := Parse(content, Options{})
	require.Error(t, err)
	require.ErrorIs(t, err, frontmatter.ErrMissingClosingDelimiter)
	require.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
}

func TestParse_KeepsNewlineStyle(t *testing.T) {
	content := []byte("---\r\nkey: value\r\n---\r\n# body [@a]\r\n")

	doc, err := Parse(content, Options{})
	require.NoError(t, err)

	out, n, err := doc.Convert(cite.Alt(), ConvertOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "---\r\nkey: value\r\n---\r\n# body @a\r\n", string(out))
}

func TestParseFile_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "doc.md")
	content := []byte("---\nkey: value\n---\n# Title [@a]\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	doc, err := ParseFile(path, Options{})
	require.NoError(t, err)
	require.Equal(t, content, doc.Original())
	require.Len(t, doc.Citations(), 1)
	require.Equal(t, len("---\nkey: value\n---\n# Title "), doc.Citations()[0].Offset)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.md"), Options{})
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryFileSystem))
}

func TestParsedDoc_DoesNotExposeMutableBytes(t *testing.T) {
	content := []byte("# Hello\n\nBody [@a]\n")

	doc, err := Parse(content, Options{})
	require.NoError(t, err)

	content[0] = 'Y'
	buf := doc.Original()
	require.Equal(t, byte('#'), buf[0])
	buf[0] = 'X'

	require.Equal(t, byte('#'), doc.Original()[0])
	out, _, err := doc.Convert(cite.Pandoc(), ConvertOptions{})
	require.NoError(t, err)
	require.Equal(t, "# Hello\n\nBody [@a]\n", string(out))
}

func TestParse_FrontmatterSelectsSyntax(t *testing.T) {
	content := []byte("---\ncitation-syntax: alt\n---\nAs @doe2020 says.\n")

	doc, err := Parse(content, Options{})
	require.NoError(t, err)
	require.Equal(t, cite.VariantAlt, doc.Syntax().Variant())

	cites := doc.Citations()
	require.Len(t, cites, 1)
	require.Equal(t, []string{"doe2020"}, cites[0].Node.Keys())
	require.Equal(t, 4, cites[0].Line)
	require.Equal(t, 4, cites[0].Column)
	require.Equal(t, "@doe2020", cites[0].Raw)
	require.Equal(t, "@doe2020", string(content[cites[0].Offset:cites[0].Offset+len(cites[0].Raw)]))
}

func TestParse_FrontmatterSameVariantKeepsOverrides(t *testing.T) {
	custom, err := cite.NewSyntax(cite.Options{ItemSeparator: cite.String("|")})
	require.NoError(t, err)

	doc, err := Parse([]byte("---\ncitation-syntax: pandoc\n---\n[@a | @b]\n"), Options{Syntax: custom})
	require.NoError(t, err)
	require.Same(t, custom, doc.Syntax())
	require.Equal(t, []string{"a", "b"}, doc.Citations()[0].Node.Keys())
}

func TestParse_FrontmatterErrors(t *testing.T) {
	_, err := Parse([]byte("---\ncitation-syntax: latex\n---\nx\n"), Options{})
	require.Error(t, err)
	require.ErrorIs(t, err, cite.ErrConfig)
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))

	_, err = Parse([]byte("---\ncitation-syntax: [a]\n---\nx\n"), Options{})
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
}

func TestParse_CitationsInDocumentOrder(t *testing.T) {
	content := "# Title\n" +
		"\n" +
		"First [see @a p.1; @b] and *[-@c]*.\n" +
		"\n" +
		"```\n" +
		"[@notacite]\n" +
		"```\n" +
		"Last [@d](https://example.org) [@e].\n"

	doc, err := Parse([]byte(content), Options{})
	require.NoError(t, err)

	cites := doc.Citations()
	require.Len(t, cites, 3)
	require.Equal(t, []string{"a", "b"}, cites[0].Node.Keys())
	require.Equal(t, 3, cites[0].Line)
	require.Equal(t, 7, cites[0].Column)
	require.Equal(t, []string{"c"}, cites[1].Node.Keys())
	require.True(t, cites[1].Node.Item(0).SuppressAuthor)
	require.Equal(t, []string{"e"}, cites[2].Node.Keys())
	require.Equal(t, 8, cites[2].Line)
	require.Equal(t, "[@e]", cites[2].Raw)
}

func TestParse_StrictReportsMalformedSpans(t *testing.T) {
	content := "---\ntitle: x\n---\nok [@a]\nbad [@] and [@b; -@]\n"

	_, err := Parse([]byte(content), Options{Syntax: cite.Pandoc().WithStrict(true)})
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategorySyntax))
	require.ErrorIs(t, err, cite.ErrMalformedSpan)

	var merr *MalformedError
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Spans, 2)
	require.Equal(t, 5, merr.Spans[0].Line)
	require.Equal(t, 5, merr.Spans[0].Column)
	require.Equal(t, "[@]", merr.Spans[0].Raw)
	require.NotEmpty(t, merr.Spans[0].Reason)
	require.Equal(t, "[@b; -@]", merr.Spans[1].Raw)
	require.Contains(t, merr.Error(), "line 5")
}

func TestParse_NonStrictIgnoresMalformedSpans(t *testing.T) {
	doc, err := Parse([]byte("bad [@] here\n"), Options{})
	require.NoError(t, err)
	require.Empty(t, doc.Citations())
}
