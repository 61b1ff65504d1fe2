// Package metrics records citation processing metrics.
//
// Components receive a Recorder and never check for nil: NoopRecorder is the
// default and PrometheusRecorder is swapped in when a metrics textfile is
// configured.
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	doc, err := docmodel.Parse(content, docmodel.Options{Recorder: rec})
//	...
//	_ = rec.WriteTextfile("/var/lib/node_exporter/citemark.prom")
//
// The textfile format is the one read by the node exporter's textfile
// collector, which suits a CLI that exits before any scrape could happen.
package metrics
