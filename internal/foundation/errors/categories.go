package errors

import "log/slog"

// ErrorCategory classifies an error. It decides the exit status of the CLI.
type ErrorCategory string

const (
	// CategoryConfig covers configuration files, .env files and syntax definitions.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategorySyntax covers malformed citation markup found in a document.
	CategorySyntax ErrorCategory = "syntax"

	// CategoryFileSystem covers document and metrics I/O.
	CategoryFileSystem ErrorCategory = "filesystem"

	// CategoryInternal covers broken engine invariants.
	CategoryInternal ErrorCategory = "internal"
)

// ExitCode returns the process status for an error of category c.
func (c ErrorCategory) ExitCode() int {
	switch c {
	case CategoryValidation:
		return 2
	case CategorySyntax:
		return 3
	case CategoryNotFound:
		return 4
	case CategoryConfig:
		return 7
	case CategoryInternal:
		return 10
	case CategoryFileSystem:
		return 11
	default:
		return 1
	}
}

// defaultSeverity marks the categories that stop a run before any document is
// touched as fatal.
func (c ErrorCategory) defaultSeverity() ErrorSeverity {
	switch c {
	case CategoryConfig, CategoryValidation, CategoryInternal:
		return SeverityFatal
	default:
		return SeverityError
	}
}

// ErrorSeverity is the impact of an error. It decides the log level.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning" // the run's output is complete
)

// Level returns the slog level errors of severity s are logged at.
func (s ErrorSeverity) Level() slog.Level {
	if s == SeverityWarning {
		return slog.LevelWarn
	}
	return slog.LevelError
}
