package metrics

import "time"

// Outcome labels the result of processing one document.
type Outcome string

const (
	OutcomeParsed    Outcome = "parsed"
	OutcomeConverted Outcome = "converted"
	OutcomeMalformed Outcome = "malformed"
	OutcomeFailed    Outcome = "failed"
)

// Recorder defines observability hooks for citation processing.
type Recorder interface {
	// IncCitations counts citation spans found under a syntax variant.
	IncCitations(variant string, n int)
	// IncMalformedSpans counts spans rejected in strict mode.
	IncMalformedSpans(n int)
	ObserveDocumentDuration(d time.Duration)
	IncDocumentOutcome(outcome Outcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncCitations(string, int)              {}
func (NoopRecorder) IncMalformedSpans(int)                 {}
func (NoopRecorder) ObserveDocumentDuration(time.Duration) {}
func (NoopRecorder) IncDocumentOutcome(Outcome)            {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
