package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidEdit is the cause of every ApplyEdits failure.
var ErrInvalidEdit = errors.New("invalid edit")

// Edit replaces source[Start:End] with Replacement. Offsets refer to the
// original source, End exclusive.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits applies non-overlapping edits to source in one pass and returns
// the updated content. Text outside the edited ranges is copied unchanged;
// without edits source itself is returned.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b Edit) int {
		return a.Start - b.Start
	})

	size := len(source)
	prevEnd := 0
	for i, e := range sorted {
		switch {
		case e.Start < 0 || e.End < 0:
			return nil, fmt.Errorf("%w %d: negative range [%d,%d)", ErrInvalidEdit, i, e.Start, e.End)
		case e.End < e.Start:
			return nil, fmt.Errorf("%w %d: end %d before start %d", ErrInvalidEdit, i, e.End, e.Start)
		case e.End > len(source):
			return nil, fmt.Errorf("%w %d: end %d beyond source length %d", ErrInvalidEdit, i, e.End, len(source))
		case i > 0 && e.Start < prevEnd:
			return nil, fmt.Errorf("%w %d: overlaps previous range ending at %d", ErrInvalidEdit, i, prevEnd)
		}
		prevEnd = e.End
		size += len(e.Replacement) - (e.End - e.Start)
	}

	var buf bytes.Buffer
	buf.Grow(size)
	pos := 0
	for _, e := range sorted {
		buf.Write(source[pos:e.Start])
		buf.Write(e.Replacement)
		pos = e.End
	}
	buf.Write(source[pos:])
	return buf.Bytes(), nil
}
