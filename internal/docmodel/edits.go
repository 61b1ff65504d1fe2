package docmodel

import (
	"bytes"
	"strings"

	"git.home.luguber.info/inful/citemark/internal/cite"
	"git.home.luguber.info/inful/citemark/internal/foundation/errors"
	"git.home.luguber.info/inful/citemark/internal/frontmatter"
	"git.home.luguber.info/inful/citemark/internal/markdown"
	"git.home.luguber.info/inful/citemark/internal/metrics"
)

// ConvertOptions controls Convert.
type ConvertOptions struct {
	// Preserve keeps spans whose source text already reads as the same
	// citation under the target syntax.
	Preserve bool
}

// Convert rewrites every citation of the body in the target syntax and
// returns the full document together with the number of rewritten spans.
//
// A citation-syntax field already present in the frontmatter is updated to
// name the target. Text outside citation spans is left byte for byte, except
// that sigils the target would read as new citations (prose @name under a
// bare syntax) are backslash escaped. Escapes are not counted as rewrites.
func (d *ParsedDoc) Convert(to *cite.Syntax, opts ConvertOptions) ([]byte, int, error) {
	if to == nil {
		to = cite.Pandoc()
	}

	body := d.parts.Body
	escapes := d.proseEscapes(to)
	edits := make([]markdown.Edit, 0, len(d.citations)+len(escapes))
	for _, c := range d.citations {
		pos := c.Node.Position()
		if opts.Preserve && readsAs(body, pos, c.Node, to) {
			continue
		}
		out := d.serializeAt(c.Node, to)
		if out == c.Raw {
			continue
		}
		edits = append(edits, markdown.Edit{Start: pos.Start, End: pos.End, Replacement: []byte(out)})
	}
	rewrites := len(edits)
	edits = append(edits, escapes...)

	updatedBody, err := markdown.ApplyEdits(body, edits)
	if err != nil {
		return nil, 0, errors.WrapError(err, errors.CategoryInternal, "failed to apply citation edits").Build()
	}

	parts := d.parts
	if parts.Had {
		fm, err := frontmatter.SetSyntaxName(parts.Frontmatter, to.String(), false, parts.Style)
		if err != nil {
			return nil, 0, errors.WrapError(err, errors.CategoryValidation, "failed to update frontmatter").
				WithContext("key", frontmatter.SyntaxKey).
				Build()
		}
		parts.Frontmatter = fm
	}

	d.recorder.IncDocumentOutcome(metrics.OutcomeConverted)
	return append([]byte(nil), parts.Join(updatedBody)...), rewrites, nil
}

// proseEscapes returns insertions of a backslash before every sigil of the
// spans that only the target syntax recognizes. Code spans, code blocks and
// existing citations are left alone because the target is read through the
// same markdown parser.
func (d *ParsedDoc) proseEscapes(to *cite.Syntax) []markdown.Edit {
	body := d.parts.Body
	root, _ := markdown.ParseBody(body, markdown.Options{Syntax: to.WithStrict(false)})
	sigil := []byte(to.Sigil())

	var edits []markdown.Edit
	for _, c := range markdown.Citations(root) {
		pos := c.Citation.Position()
		if d.overlapsCitation(pos) {
			continue
		}
		for i := pos.Start; i < pos.End; i++ {
			if bytes.HasPrefix(body[i:pos.End], sigil) {
				edits = append(edits, markdown.Edit{Start: i, End: i, Replacement: []byte(`\`)})
				i += len(sigil) - 1
			}
		}
	}
	return edits
}

func (d *ParsedDoc) overlapsCitation(pos cite.Position) bool {
	for _, c := range d.citations {
		p := c.Node.Position()
		if p.Start < pos.End && pos.Start < p.End {
			return true
		}
	}
	return false
}

// serializeAt serializes n for its position in the body. A bare rendering is
// only used when it reads back as the same citation in place; otherwise the
// bracketed form is written.
func (d *ParsedDoc) serializeAt(n *cite.Node, to *cite.Syntax) string {
	out := cite.Serialize(n, to)
	pos := n.Position()
	if to.Bracketed() && strings.HasPrefix(out, to.Open()) {
		return out
	}

	body := d.parts.Body
	spliced := make([]byte, 0, len(body)-pos.Len()+len(out))
	spliced = append(spliced, body[:pos.Start]...)
	spliced = append(spliced, out...)
	spliced = append(spliced, body[pos.End:]...)

	m, err := cite.TryMatch(spliced, pos.Start, to.WithStrict(false))
	if err == nil && m != nil && m.Length == len(out) && cite.EqualItems(m.Items, n.Items()) {
		return out
	}
	return cite.SerializeBracketed(n.Items(), to)
}

func readsAs(body []byte, pos cite.Position, n *cite.Node, to *cite.Syntax) bool {
	m, err := cite.TryMatch(body, pos.Start, to.WithStrict(false))
	return err == nil && m != nil && m.Length == pos.Len() && cite.EqualItems(m.Items, n.Items())
}
