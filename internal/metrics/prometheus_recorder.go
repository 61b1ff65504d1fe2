package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg              *prom.Registry
	citations        *prom.CounterVec
	malformedSpans   prom.Counter
	documentDuration prom.Histogram
	documentOutcomes *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		citations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "citemark",
			Name:      "citations_total",
			Help:      "Citation spans recognized, by syntax variant",
		}, []string{"variant"}),
		malformedSpans: prom.NewCounter(prom.CounterOpts{
			Namespace: "citemark",
			Name:      "malformed_spans_total",
			Help:      "Citation spans rejected by strict parsing",
		}),
		documentDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "citemark",
			Name:      "document_duration_seconds",
			Help:      "Time spent parsing one document",
			Buckets:   prom.ExponentialBuckets(0.0005, 4, 8),
		}),
		documentOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "citemark",
			Name:      "document_outcomes_total",
			Help:      "Processed documents by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.citations, pr.malformedSpans, pr.documentDuration, pr.documentOutcomes)
	return pr
}

// Registry returns the registry the metrics live in.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

func (p *PrometheusRecorder) IncCitations(variant string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.citations.WithLabelValues(variant).Add(float64(n))
}

func (p *PrometheusRecorder) IncMalformedSpans(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.malformedSpans.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveDocumentDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.documentDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncDocumentOutcome(outcome Outcome) {
	if p == nil {
		return
	}
	p.documentOutcomes.WithLabelValues(string(outcome)).Inc()
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format, replacing the file atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
