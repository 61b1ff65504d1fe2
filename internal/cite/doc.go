// Package cite recognizes inline citation markup and turns it back into text.
//
// A citation span is either a bracketed cluster of one or more items
//
//	[see @doe2020, p. 5; -@smith1999]
//
// or, when the active Syntax allows it, a bare token such as @doe2020.
// Each item carries a key, an optional prefix and suffix, an optional
// locator and a suppress-author flag.
//
// The engine has three entry points:
//
//   - TryMatch scans a byte buffer at an offset and reports the span found there.
//   - NewNode freezes a successful Match into an immutable Node.
//   - Serialize renders a Node under a (possibly different) Syntax.
//
// For every Node produced under a Syntax C, TryMatch(Serialize(n, C), 0, C)
// yields items equal to n.Items(). The text itself may differ in whitespace
// and escaping.
//
// Syntax values are immutable and safe to share between goroutines. The
// functions in this package keep no state between calls.
package cite
