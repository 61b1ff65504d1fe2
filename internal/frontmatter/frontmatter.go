// Package frontmatter splits YAML frontmatter from a Markdown body and reads
// the per-document citation settings stored there.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Style records the newline convention of a document so that Join writes the
// delimiters back the way they were read.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Parts is a document cut into frontmatter and body.
type Parts struct {
	// Frontmatter is the raw YAML between the delimiters.
	Frontmatter []byte
	Body        []byte
	// Had reports whether the document carried a frontmatter block at all.
	Had   bool
	Style Style
	// BodyOffset is the byte offset of Body within the original content.
	BodyOffset int
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// Without an opening delimiter on the first line, Had is false and Body is
// the full input.
func Split(content []byte) (Parts, error) {
	style := detectStyle(content)
	nl := style.Newline
	delim := []byte("---" + nl)

	if !bytes.HasPrefix(content, delim) {
		return Parts{Body: content, Style: style}, nil
	}

	fmStart := len(delim)
	if bytes.HasPrefix(content[fmStart:], delim) {
		bodyStart := fmStart + len(delim)
		return Parts{Frontmatter: []byte{}, Body: content[bodyStart:], Had: true, Style: style, BodyOffset: bodyStart}, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[fmStart:], closeSeq)
	if idx < 0 {
		return Parts{Style: style}, ErrMissingClosingDelimiter
	}

	fmEnd := fmStart + idx + len(nl)
	bodyStart := fmStart + idx + len(closeSeq)
	return Parts{
		Frontmatter: content[fmStart:fmEnd],
		Body:        content[bodyStart:],
		Had:         true,
		Style:       style,
		BodyOffset:  bodyStart,
	}, nil
}

// Join reassembles a document from p's frontmatter and the given body.
func (p Parts) Join(body []byte) []byte {
	if !p.Had {
		return body
	}

	nl := p.Style.Newline
	if nl == "" {
		nl = "\n"
	}
	delim := []byte("---" + nl)

	out := make([]byte, 0, 2*len(delim)+len(p.Frontmatter)+len(body))
	out = append(out, delim...)
	out = append(out, p.Frontmatter...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}
	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
