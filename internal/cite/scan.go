package cite

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	derrors "git.home.luguber.info/inful/citemark/internal/foundation/errors"
)

// Match is a recognized citation span.
type Match struct {
	Items []Item
	// Length is the number of bytes consumed from the scan offset.
	Length int
}

// TryMatch attempts to recognize a citation span starting exactly at
// text[offset]. A nil Match with a nil error means no span starts there and
// nothing was consumed. Errors are returned for an offset outside the text and,
// when syn is strict, for spans that look like citations but do not parse.
//
// A nil syn selects the pandoc preset. Bytes before offset are only consulted
// to decide whether a bare token starts a word.
func TryMatch(text []byte, offset int, syn *Syntax) (*Match, error) {
	if syn == nil {
		syn = Pandoc()
	}
	if offset < 0 || offset > len(text) {
		return nil, fmt.Errorf("%w: %d not in [0,%d]", ErrOffset, offset, len(text))
	}
	if offset == len(text) || isEscaped(text, offset) {
		return nil, nil
	}
	if syn.bracketed && hasDelim(text, offset, syn.open) {
		m, err := matchBracketed(text, offset, syn)
		if m != nil || err != nil {
			return m, err
		}
	}
	if syn.bare {
		return matchBare(text, offset, syn), nil
	}
	return nil, nil
}

func matchBracketed(text []byte, offset int, syn *Syntax) (*Match, error) {
	innerStart := offset + len(syn.open)
	closeAt := findClose(text, innerStart, syn)
	if closeAt < 0 {
		return nil, nil
	}
	end := closeAt + len(syn.close)
	// [text](url) and [text][ref] belong to the link parser.
	if end < len(text) && (text[end] == '(' || text[end] == '[') {
		return nil, nil
	}

	inner := text[innerStart:closeAt]
	segments := splitTopLevel(inner, syn)
	items := make([]Item, 0, len(segments))
	for i, seg := range segments {
		it, ok := parseItem(seg, syn)
		if !ok {
			if syn.strict && hasCandidateSigil(inner, syn) {
				return nil, malformed(offset, end, fmt.Sprintf("item %d has no valid key", i+1))
			}
			return nil, nil
		}
		items = append(items, it)
	}
	return &Match{Items: items, Length: end - offset}, nil
}

func malformed(start, end int, reason string) error {
	return derrors.SyntaxError("malformed citation span").
		WithCause(&SpanError{Start: start, End: end, Reason: reason}).
		WithContext("offset", start).
		Build()
}

// findClose returns the index of the close delimiter balancing the span
// opened just before start, or -1 when a line break or the end of text comes
// first.
func findClose(text []byte, start int, syn *Syntax) int {
	depth := 0
	for i := start; i < len(text); {
		c := text[i]
		switch {
		case c == '\n' || c == '\r':
			return -1
		case c == '\\' && i+1 < len(text) && isEscapable(text[i+1]):
			i += 2
			continue
		case hasDelim(text, i, syn.close):
			if depth == 0 {
				return i
			}
			depth--
			i += len(syn.close)
			continue
		case hasDelim(text, i, syn.open):
			depth++
			i += len(syn.open)
			continue
		}
		i++
	}
	return -1
}

// splitTopLevel cuts inner on separators outside nested brackets.
func splitTopLevel(inner []byte, syn *Syntax) [][]byte {
	var out [][]byte
	depth, last := 0, 0
	for i := 0; i < len(inner); {
		switch {
		case inner[i] == '\\' && i+1 < len(inner) && isEscapable(inner[i+1]):
			i += 2
			continue
		case hasDelim(inner, i, syn.open):
			depth++
			i += len(syn.open)
			continue
		case hasDelim(inner, i, syn.close):
			depth--
			i += len(syn.close)
			continue
		case depth == 0 && hasDelim(inner, i, syn.itemSeparator):
			out = append(out, inner[last:i])
			i += len(syn.itemSeparator)
			last = i
			continue
		}
		i++
	}
	return append(out, inner[last:])
}

// parseItem finds the first sigil at a word boundary that is followed by a
// valid key. Text before it is the prefix, text after it the locator and
// suffix.
func parseItem(seg []byte, syn *Syntax) (Item, bool) {
	for i := 0; i < len(seg); {
		if seg[i] == '\\' && i+1 < len(seg) && isEscapable(seg[i+1]) {
			i += 2
			continue
		}
		if !hasDelim(seg, i, syn.sigil) {
			i++
			continue
		}
		markerAt, boundary := sigilBoundary(seg, i, syn)
		if !boundary {
			i += len(syn.sigil)
			continue
		}
		keyStart := i + len(syn.sigil)
		key, n := scanKey(seg[keyStart:], syn)
		if n == 0 {
			i = keyStart
			continue
		}
		start := i
		if markerAt >= 0 {
			start = markerAt
		}
		it := Item{
			Key:            key,
			Prefix:         strings.TrimSpace(unescape(seg[:start])),
			SuppressAuthor: markerAt >= 0,
		}
		it.Locator, it.Suffix = splitTail(seg[keyStart+n:], syn)
		return it, true
	}
	return Item{}, false
}

// sigilBoundary reports whether the sigil at i starts a word, either directly
// or behind a suppression marker that does. markerAt is the marker index or -1.
// With author suppression off the marker is kept as prefix text.
func sigilBoundary(seg []byte, i int, syn *Syntax) (markerAt int, ok bool) {
	if wordStart(seg, i) {
		return -1, true
	}
	m := syn.suppressionMarker
	if j := i - len(m); m != "" && hasDelim(seg, j, m) && wordStart(seg, j) {
		if !syn.authorSuppression {
			return -1, true
		}
		return j, true
	}
	return -1, false
}

func wordStart(b []byte, i int) bool {
	return i == 0 || isSpace(b[i-1])
}

// hasCandidateSigil reports whether inner holds a sigil that a writer most
// likely meant as a citation: at a word boundary and not followed by space.
func hasCandidateSigil(inner []byte, syn *Syntax) bool {
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) && isEscapable(inner[i+1]) {
			i++
			continue
		}
		if !hasDelim(inner, i, syn.sigil) {
			continue
		}
		if _, ok := sigilBoundary(inner, i, syn); !ok {
			continue
		}
		next := i + len(syn.sigil)
		if next >= len(inner) || !isSpace(inner[next]) {
			return true
		}
	}
	return false
}

// matchBare recognizes @key, -@key and separator joined runs like @a; @b.
func matchBare(text []byte, offset int, syn *Syntax) *Match {
	if !bareStart(text, offset, syn) {
		return nil
	}
	var items []Item
	pos, end := offset, offset
	for {
		it, n := bareToken(text[pos:], syn)
		if n == 0 {
			break
		}
		items = append(items, it)
		end = pos + n
		j := skipBlanks(text, end)
		if !hasDelim(text, j, syn.itemSeparator) {
			break
		}
		pos = skipBlanks(text, j+len(syn.itemSeparator))
	}
	if len(items) == 0 {
		return nil
	}
	return &Match{Items: items, Length: end - offset}
}

// bareStart rejects tokens glued to a preceding word, so that addresses
// such as jane@example.org are left alone.
func bareStart(text []byte, offset int, syn *Syntax) bool {
	if offset == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRune(text[:offset])
	if isKeyRune(r) || r == '\\' {
		return false
	}
	if r < utf8.RuneSelf {
		c := byte(r)
		if strings.IndexByte(keyPunct, c) >= 0 ||
			strings.IndexByte(syn.sigil, c) >= 0 ||
			strings.IndexByte(syn.suppressionMarker, c) >= 0 {
			return false
		}
	}
	return true
}

func bareToken(b []byte, syn *Syntax) (Item, int) {
	i := 0
	suppressed := false
	if m := syn.suppressionMarker; syn.authorSuppression && m != "" && bytes.HasPrefix(b, []byte(m)) {
		suppressed = true
		i = len(m)
	}
	if !bytes.HasPrefix(b[i:], []byte(syn.sigil)) {
		return Item{}, 0
	}
	i += len(syn.sigil)
	key, n := scanKey(b[i:], syn)
	if n == 0 {
		return Item{}, 0
	}
	return Item{Key: key, SuppressAuthor: suppressed}, i + n
}

func skipBlanks(b []byte, i int) int {
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	return i
}
