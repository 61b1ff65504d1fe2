package markdown

import (
	"errors"

	"git.home.luguber.info/inful/citemark/internal/cite"
	"git.home.luguber.info/inful/citemark/internal/visit"
	"github.com/hashicorp/go-multierror"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Options controls how Markdown is parsed.
type Options struct {
	// Syntax selects the citation syntax. Nil means the pandoc preset.
	Syntax *cite.Syntax
}

// New returns a goldmark instance with the citation extension installed.
func New(opts Options) goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(NewExtension(WithSyntax(opts.Syntax))))
}

// ParseBody parses a Markdown body (frontmatter already removed) into a Goldmark AST.
//
// With a strict syntax, every malformed citation span is reported in the
// returned error. The tree is complete either way; malformed spans stay text.
func ParseBody(body []byte, opts Options) (gmast.Node, error) {
	ctx := parser.NewContext()
	root := New(opts).Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var result *multierror.Error
	for _, err := range malformedSpans(ctx) {
		result = multierror.Append(result, err)
	}
	return root, result.ErrorOrNil()
}

// Citations lists the citation nodes of a tree in document order.
func Citations(root gmast.Node) []*Citation {
	out := make([]*Citation, 0)
	visit.WalkKind(root, KindCitation, func(n gmast.Node) visit.Action {
		out = append(out, n.(*Citation))
		return visit.Skip
	})
	return out
}

// SpanErrors extracts the malformed span details from a ParseBody error.
func SpanErrors(err error) []*cite.SpanError {
	if err == nil {
		return nil
	}
	errs := []error{err}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		errs = merr.Errors
	}

	out := make([]*cite.SpanError, 0, len(errs))
	for _, e := range errs {
		var spanErr *cite.SpanError
		if errors.As(e, &spanErr) {
			out = append(out, spanErr)
		}
	}
	return out
}
