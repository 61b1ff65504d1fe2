package cite

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is the cause of every Syntax construction failure.
	ErrConfig = errors.New("invalid citation syntax configuration")

	// ErrMalformedSpan is reported in strict mode for spans that look like a
	// citation but cannot be parsed.
	ErrMalformedSpan = errors.New("malformed citation span")

	// ErrEmptyCitation means an empty item list reached the node builder.
	ErrEmptyCitation = errors.New("citation has no items")

	// ErrInvalidItem is returned by Item.Validate.
	ErrInvalidItem = errors.New("invalid citation item")

	// ErrOffset is returned for scan offsets outside the input.
	ErrOffset = errors.New("scan offset out of range")
)

// SpanError describes a malformed span found in strict mode.
type SpanError struct {
	Start  int
	End    int
	Reason string
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("%s at [%d,%d): %s", ErrMalformedSpan, e.Start, e.End, e.Reason)
}

func (e *SpanError) Unwrap() error {
	return ErrMalformedSpan
}
