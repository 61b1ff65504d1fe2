package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Field is one piece of context attached to a ClassifiedError.
type Field struct {
	Key   string
	Value any
}

// ClassifiedError is an error with a category, a severity and context fields
// kept in the order they were added.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	fields   []Field
}

func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
}

func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

func (e *ClassifiedError) Category() ErrorCategory {
	return e.category
}

func (e *ClassifiedError) Severity() ErrorSeverity {
	return e.severity
}

// Message returns the error text without category, severity or cause.
func (e *ClassifiedError) Message() string {
	return e.message
}

func (e *ClassifiedError) Cause() error {
	return e.cause
}

// Fields returns a copy of the context fields.
func (e *ClassifiedError) Fields() []Field {
	return slices.Clone(e.fields)
}

// attrs renders the category, the context fields and the cause for slog.
func (e *ClassifiedError) attrs() []slog.Attr {
	out := make([]slog.Attr, 0, len(e.fields)+2)
	out = append(out, slog.String("category", string(e.category)))
	for _, f := range e.fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	if e.cause != nil {
		out = append(out, slog.String("error", e.cause.Error()))
	}
	return out
}

// AsClassified returns the outermost ClassifiedError in the chain of err.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory reports whether the outermost ClassifiedError in the chain of
// err has the given category.
func HasCategory(err error, category ErrorCategory) bool {
	classified, ok := AsClassified(err)
	return ok && classified.category == category
}
