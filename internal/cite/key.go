package cite

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// keyPunct may appear inside a plain key when directly followed by a key rune,
// as in @doe:2020 or @smith.j.
const keyPunct = ":.#$%&-+?<>~/"

func isKeyRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// scanKey reads a key at the start of b. It returns the key and the number of
// bytes consumed; zero means there is no key. Punctuation used by the syntax
// as a structural delimiter never continues a plain key.
func scanKey(b []byte, syn *Syntax) (string, int) {
	if len(b) == 0 {
		return "", 0
	}
	if b[0] == '{' {
		return scanBraceKey(b)
	}
	r, size := utf8.DecodeRune(b)
	if !isKeyRune(r) {
		return "", 0
	}
	i := size
	for i < len(b) {
		r, size = utf8.DecodeRune(b[i:])
		if isKeyRune(r) {
			i += size
			continue
		}
		if r < utf8.RuneSelf && strings.ContainsRune(keyPunct, r) && !syn.isStructural(byte(r)) && i+size < len(b) {
			next, _ := utf8.DecodeRune(b[i+size:])
			if isKeyRune(next) {
				i += size
				continue
			}
		}
		break
	}
	return string(b[:i]), i
}

// scanBraceKey reads {any key}. Backslash escapes are honored and a line
// break ends the attempt.
func scanBraceKey(b []byte) (string, int) {
	var sb strings.Builder
	for i := 1; i < len(b); i++ {
		switch c := b[i]; c {
		case '\n', '\r':
			return "", 0
		case '\\':
			if i+1 < len(b) && isEscapable(b[i+1]) {
				sb.WriteByte(b[i+1])
				i++
				continue
			}
			sb.WriteByte(c)
		case '}':
			if sb.Len() == 0 {
				return "", 0
			}
			return sb.String(), i + 1
		default:
			sb.WriteByte(c)
		}
	}
	return "", 0
}

// isPlainKey reports whether key round-trips without brace quoting.
func isPlainKey(key string, syn *Syntax) bool {
	if key == "" || key[0] == '{' {
		return false
	}
	_, n := scanKey([]byte(key), syn)
	return n == len(key)
}

func quoteKey(key string, syn *Syntax) string {
	if isPlainKey(key, syn) {
		return key
	}
	return "{" + escapeText(key, "{}"+syn.open+syn.close+syn.itemSeparator) + "}"
}
