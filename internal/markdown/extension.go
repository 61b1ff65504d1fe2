package markdown

import (
	"strings"

	"git.home.luguber.info/inful/citemark/internal/cite"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindCitation is the node kind of Citation.
var KindCitation = gmast.NewNodeKind("Citation")

const (
	// Ahead of goldmark's link parser (200), so [@key] is tried before a link label.
	citationParserPriority   = 100
	citationRendererPriority = 500
)

// Citation is an inline node for one citation span. Its single child is a
// text segment covering the raw span, so plain renderers print the source.
type Citation struct {
	gmast.BaseInline
	Citation *cite.Node
}

// Kind returns KindCitation.
func (n *Citation) Kind() gmast.NodeKind {
	return KindCitation
}

// Dump dumps the node for debugging.
func (n *Citation) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{
		"Keys": strings.Join(n.Citation.Keys(), ","),
	}, nil)
}

// Raw returns the source bytes of the span.
func (n *Citation) Raw(source []byte) []byte {
	pos := n.Citation.Position()
	return source[pos.Start:pos.End]
}

var malformedKey = parser.NewContextKey()

func recordMalformed(pc parser.Context, err error) {
	errs, _ := pc.Get(malformedKey).([]error)
	pc.Set(malformedKey, append(errs, err))
}

func malformedSpans(pc parser.Context) []error {
	errs, _ := pc.Get(malformedKey).([]error)
	return errs
}

type citationParser struct {
	syntax *cite.Syntax
}

func (p *citationParser) Trigger() []byte {
	return p.syntax.Triggers()
}

func (p *citationParser) Parse(_ gmast.Node, block text.Reader, pc parser.Context) gmast.Node {
	line, segment := block.PeekLine()
	if len(line) == 0 {
		return nil
	}

	source := block.Source()
	m, err := cite.TryMatch(source[:segment.Stop], segment.Start, p.syntax)
	if err != nil {
		recordMalformed(pc, err)
		return nil
	}
	if m == nil {
		return nil
	}
	node, err := cite.NewNode(m, segment.Start)
	if err != nil {
		recordMalformed(pc, err)
		return nil
	}

	block.Advance(m.Length)
	c := &Citation{Citation: node}
	c.AppendChild(c, gmast.NewTextSegment(text.NewSegment(segment.Start, segment.Start+m.Length)))
	return c
}

// citationHTMLRenderer wraps the raw span the way pandoc marks citations in HTML.
type citationHTMLRenderer struct{}

func (r *citationHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindCitation, r.renderCitation)
}

func (r *citationHTMLRenderer) renderCitation(w util.BufWriter, _ []byte, n gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</span>")
		return gmast.WalkContinue, nil
	}
	c := n.(*Citation)
	_, _ = w.WriteString(`<span class="citation" data-cites="`)
	_, _ = w.Write(util.EscapeHTML([]byte(strings.Join(c.Citation.Keys(), " "))))
	_, _ = w.WriteString(`">`)
	return gmast.WalkContinue, nil
}

type citationExtension struct {
	syntax   *cite.Syntax
	priority int
}

// ExtensionOption configures NewExtension.
type ExtensionOption func(*citationExtension)

// WithSyntax selects the syntax citations are read with. Nil keeps pandoc.
func WithSyntax(s *cite.Syntax) ExtensionOption {
	return func(e *citationExtension) {
		if s != nil {
			e.syntax = s
		}
	}
}

// WithParserPriority overrides the inline parser priority.
func WithParserPriority(priority int) ExtensionOption {
	return func(e *citationExtension) {
		e.priority = priority
	}
}

// NewExtension returns a goldmark extension that turns citation spans into
// Citation nodes.
func NewExtension(opts ...ExtensionOption) goldmark.Extender {
	e := &citationExtension{syntax: cite.Pandoc(), priority: citationParserPriority}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extend registers the citation parser and its HTML renderer.
func (e *citationExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(&citationParser{syntax: e.syntax}, e.priority),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&citationHTMLRenderer{}, citationRendererPriority),
		),
	)
}
