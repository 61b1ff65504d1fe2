package docmodel

import (
	"bytes"
	"sort"
)

// LineOffset returns the 1-based line offset to translate body line numbers
// into original file line numbers.
//
// If the document has YAML frontmatter, this accounts for:
// - opening delimiter line
// - all raw frontmatter lines
// - closing delimiter line
//
// The relationship is: fileLine = LineOffset() + bodyLine.
func (d *ParsedDoc) LineOffset() int {
	if !d.parts.Had {
		return 0
	}
	return 2 + bytes.Count(d.parts.Frontmatter, []byte("\n"))
}

// lineStarts returns the byte offset at which each line of body begins.
func lineStarts(body []byte) []int {
	starts := []int{0}
	for i, c := range body {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// bodyLineColumn maps a body byte offset to a 1-based body line and column.
func (d *ParsedDoc) bodyLineColumn(offset int) (int, int) {
	// Index of the first line starting after offset.
	i := sort.SearchInts(d.lineStarts, offset+1)
	return i, offset - d.lineStarts[i-1] + 1
}
