// Package docmodel holds a Markdown document split into frontmatter and body
// together with the citations found in the body.
package docmodel

import (
	"os"
	"time"

	"git.home.luguber.info/inful/citemark/internal/cite"
	"git.home.luguber.info/inful/citemark/internal/foundation/errors"
	"git.home.luguber.info/inful/citemark/internal/frontmatter"
	"git.home.luguber.info/inful/citemark/internal/markdown"
	"git.home.luguber.info/inful/citemark/internal/metrics"
)

// Options controls parsing behavior for ParsedDoc.
type Options struct {
	// Syntax is the citation syntax used when the frontmatter does not name
	// one. Nil means the pandoc preset.
	Syntax *cite.Syntax
	// Recorder receives per-document metrics. Nil disables recording.
	Recorder metrics.Recorder
}

// ParsedDoc represents a Markdown document split into YAML frontmatter and
// body, with its citations already located.
//
// This model centralizes the split/join workflow so that callers don’t re-implement
// boundary handling and style capture.
type ParsedDoc struct {
	original   []byte
	parts      frontmatter.Parts
	syntax     *cite.Syntax
	citations  []Located
	lineStarts []int
	recorder   metrics.Recorder
}

// Parse parses raw file content into a ParsedDoc.
//
// A strict syntax turns malformed citation spans into a syntax error whose
// cause is a *MalformedError listing every span.
func Parse(content []byte, opts Options) (*ParsedDoc, error) {
	start := time.Now()
	rec := metrics.OrNoop(opts.Recorder)
	defer func() { rec.ObserveDocumentDuration(time.Since(start)) }()

	doc, err := parse(content, opts, rec)
	switch {
	case err == nil:
		rec.IncDocumentOutcome(metrics.OutcomeParsed)
	case errors.HasCategory(err, errors.CategorySyntax):
		rec.IncDocumentOutcome(metrics.OutcomeMalformed)
	default:
		rec.IncDocumentOutcome(metrics.OutcomeFailed)
	}
	return doc, err
}

func parse(content []byte, opts Options, rec metrics.Recorder) (*ParsedDoc, error) {
	parts, err := frontmatter.Split(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to split frontmatter").Build()
	}

	base := opts.Syntax
	if base == nil {
		base = cite.Pandoc()
	}
	syn, err := documentSyntax(base, parts.Frontmatter)
	if err != nil {
		return nil, err
	}

	orig := append([]byte(nil), content...)
	// Re-slice the private copy so the document never aliases caller memory.
	parts.Body = orig[parts.BodyOffset:]
	if parts.Had {
		parts.Frontmatter = append([]byte{}, parts.Frontmatter...)
	}

	d := &ParsedDoc{
		original:   orig,
		parts:      parts,
		syntax:     syn,
		lineStarts: lineStarts(parts.Body),
		recorder:   rec,
	}

	root, parseErr := markdown.ParseBody(parts.Body, markdown.Options{Syntax: syn})
	if spans := markdown.SpanErrors(parseErr); len(spans) > 0 {
		rec.IncMalformedSpans(len(spans))
		return nil, errors.SyntaxError("document contains malformed citations").
			WithCause(d.malformedError(spans)).
			WithContext("variant", syn.String()).
			Build()
	}

	for _, c := range markdown.Citations(root) {
		d.citations = append(d.citations, d.locate(c.Citation))
	}
	rec.IncCitations(syn.String(), len(d.citations))
	return d, nil
}

// documentSyntax applies the frontmatter citation-syntax override to base.
// Naming the variant base already has keeps base with its overrides.
func documentSyntax(base *cite.Syntax, fm []byte) (*cite.Syntax, error) {
	fields, err := frontmatter.ParseYAML(fm)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse frontmatter").Build()
	}
	name, ok, err := frontmatter.SyntaxName(fields)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter").
			WithContext("key", frontmatter.SyntaxKey).
			Build()
	}
	if !ok {
		return base, nil
	}

	syn, err := cite.Preset(name)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "unknown citation syntax in frontmatter").
			WithContext("key", frontmatter.SyntaxKey).
			WithContext("value", name).
			Build()
	}
	if syn.Variant() == base.Variant() {
		return base, nil
	}
	return syn.WithStrict(base.Strict()), nil
}

// ParseFile reads a file from disk and parses it into a ParsedDoc.
func ParseFile(path string, opts Options) (*ParsedDoc, error) {
	// #nosec G304 -- path is chosen by the CLI user.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", path).
			Build()
	}

	doc, err := Parse(content, opts)
	if err != nil {
		classified, ok := errors.AsClassified(err)
		if ok {
			return nil, errors.WrapError(classified, classified.Category(), "failed to parse document").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse document").
			WithContext("path", path).
			Build()
	}
	return doc, nil
}

// Syntax returns the citation syntax the body was parsed with.
func (d *ParsedDoc) Syntax() *cite.Syntax {
	return d.syntax
}

// Original returns a copy of the original bytes.
func (d *ParsedDoc) Original() []byte {
	return append([]byte(nil), d.original...)
}
