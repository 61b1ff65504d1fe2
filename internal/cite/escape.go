package cite

import (
	"strings"

	"github.com/yuin/goldmark/util"
)

// isEscapable matches markdown: only ASCII punctuation can be backslash escaped.
func isEscapable(c byte) bool {
	return util.IsPunct(c)
}

// isEscaped reports whether b[i] is preceded by an odd run of backslashes.
func isEscaped(b []byte, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && b[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// unescape drops the backslash in front of escapable bytes.
func unescape(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' && i+1 < len(b) && isEscapable(b[i+1]) {
			sb.WriteByte(b[i+1])
			i++
			continue
		}
		sb.WriteByte(b[i])
	}
	return sb.String()
}

// escapeText backslash escapes every backslash and every byte in special.
func escapeText(s, special string) string {
	if !strings.ContainsAny(s, special+`\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || strings.IndexByte(special, c) >= 0 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// hasDelim reports whether an unescaped delim starts at b[i].
func hasDelim(b []byte, i int, delim string) bool {
	if delim == "" || i < 0 || i+len(delim) > len(b) {
		return false
	}
	return string(b[i:i+len(delim)]) == delim && !isEscaped(b, i)
}

func isSpace(c byte) bool {
	return util.IsSpace(c)
}
