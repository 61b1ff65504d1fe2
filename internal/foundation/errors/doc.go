// Package errors provides the classified errors used across citemark.
//
// A ClassifiedError carries a category, which selects the CLI exit code, a
// severity, which selects the log level, and ordered context fields that end
// up as structured log attributes.
//
//	err := errors.ConfigError("delimiters collide").
//		WithContext("field", "item_separator").
//		WithCause(cite.ErrConfig).
//		Build()
package errors
