package cite

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"
)

// locatorPunct joins parts of a locator value: 33-35, 2:4, 12.3, 5–7.
const locatorPunct = "-–:/."

const romanDigits = "ivxlcdmIVXLCDM"

// matchLocator reports the length of a locator (term plus value) at the start
// of b, or zero. Terms are tried in order, so callers pass them longest first.
// A term ending in a letter must be followed by whitespace.
func matchLocator(b []byte, terms []string) int {
	for _, t := range terms {
		if len(b) < len(t) || !strings.EqualFold(string(b[:len(t)]), t) {
			continue
		}
		j := len(t)
		for j < len(b) && (b[j] == ' ' || b[j] == '\t') {
			j++
		}
		last, _ := utf8.DecodeLastRuneInString(t)
		if unicode.IsLetter(last) && j == len(t) {
			continue
		}
		if n := locatorValue(b[j:]); n > 0 {
			return j + n
		}
	}
	return 0
}

// locatorValue reads a page-like token: it must hold a digit or be a roman
// numeral.
func locatorValue(b []byte) int {
	i := 0
	digits, roman := false, true
scan:
	for i < len(b) {
		r, size := utf8.DecodeRune(b[i:])
		switch {
		case unicode.IsDigit(r):
			digits = true
		case unicode.IsLetter(r):
			if !strings.ContainsRune(romanDigits, r) {
				roman = false
			}
		case i > 0 && strings.ContainsRune(locatorPunct, r):
			next, _ := utf8.DecodeRune(b[i+size:])
			if !unicode.IsLetter(next) && !unicode.IsDigit(next) {
				break scan
			}
		default:
			break scan
		}
		i += size
	}
	if i == 0 || (!digits && !roman) {
		return 0
	}
	return i
}

// splitTail divides the text after a key into locator and suffix.
//
//	", p. 5"          -> locator "p. 5"
//	", p. 5, passim"  -> locator "p. 5", suffix "passim"
//	", see also"      -> suffix "see also"
//	" p.1"            -> suffix "p.1"
func splitTail(rest []byte, syn *Syntax) (locator, suffix string) {
	r := bytes.TrimLeftFunc(rest, unicode.IsSpace)
	d := syn.locatorDelimiter
	if d == "" || !bytes.HasPrefix(r, []byte(d)) {
		return "", strings.TrimSpace(unescape(r))
	}
	body := bytes.TrimLeftFunc(r[len(d):], unicode.IsSpace)
	n := matchLocator(body, syn.locatorTerms)
	if n == 0 {
		return "", strings.TrimSpace(unescape(body))
	}
	locator = string(body[:n])
	tail := bytes.TrimLeftFunc(body[n:], unicode.IsSpace)
	tail = bytes.TrimPrefix(tail, []byte(d))
	return locator, strings.TrimSpace(unescape(tail))
}
