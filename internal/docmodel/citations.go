package docmodel

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/citemark/internal/cite"
)

// Located is a citation with its place in the original file.
type Located struct {
	Node *cite.Node
	// Line and Column are 1-based; Column counts bytes.
	Line   int
	Column int
	// Offset is the byte offset of the span in the original file.
	Offset int
	Raw    string
}

// Citations returns the citations of the body in document order.
func (d *ParsedDoc) Citations() []Located {
	return append([]Located(nil), d.citations...)
}

func (d *ParsedDoc) locate(n *cite.Node) Located {
	pos := n.Position()
	line, col := d.bodyLineColumn(pos.Start)
	return Located{
		Node:   n,
		Line:   d.LineOffset() + line,
		Column: col,
		Offset: d.parts.BodyOffset + pos.Start,
		Raw:    string(d.parts.Body[pos.Start:pos.End]),
	}
}

// Malformed is one span rejected by strict parsing.
type Malformed struct {
	Line   int
	Column int
	// Start and End are byte offsets into the body.
	Start  int
	End    int
	Raw    string
	Reason string
}

// MalformedError lists the malformed spans of a document.
type MalformedError struct {
	Spans []Malformed
}

func (e *MalformedError) Error() string {
	parts := make([]string, 0, len(e.Spans))
	for _, s := range e.Spans {
		parts = append(parts, fmt.Sprintf("line %d: %s (%q)", s.Line, s.Reason, s.Raw))
	}
	return fmt.Sprintf("%d malformed citation span(s): %s", len(e.Spans), strings.Join(parts, "; "))
}

func (e *MalformedError) Unwrap() error {
	return cite.ErrMalformedSpan
}

func (d *ParsedDoc) malformedError(spans []*cite.SpanError) *MalformedError {
	out := &MalformedError{Spans: make([]Malformed, 0, len(spans))}
	for _, s := range spans {
		line, col := d.bodyLineColumn(s.Start)
		end := min(s.End, len(d.parts.Body))
		out.Spans = append(out.Spans, Malformed{
			Line:   d.LineOffset() + line,
			Column: col,
			Start:  s.Start,
			End:    end,
			Raw:    string(d.parts.Body[s.Start:end]),
			Reason: s.Reason,
		})
	}
	return out
}
