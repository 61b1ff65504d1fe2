package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// CLIErrorAdapter turns the error of a command run into a message, a log
// record and an exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter returns an adapter printing to out. A nil logger means
// slog.Default().
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger, out io.Writer) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: out}
}

// Report prints err, logs it when verbose or unclassified, and returns the
// exit code. A nil err returns 0 and prints nothing.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

// ExitCodeFor returns the category's exit code, 1 for unclassified errors and
// 0 for nil.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if classified, ok := AsClassified(err); ok {
		return classified.Category().ExitCode()
	}
	return 1
}

// FormatError renders err for the user. Without verbose output internal
// errors are hidden and context fields are shown as key=value pairs.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return classified.Error()
	}
	if classified.Category() == CategoryInternal {
		return "Internal error occurred (use -v for details)"
	}

	var sb strings.Builder
	if classified.Severity() == SeverityWarning {
		sb.WriteString("Warning: ")
	} else {
		sb.WriteString("Error: ")
	}
	sb.WriteString(classified.Message())
	if len(classified.fields) > 0 {
		pairs := make([]string, 0, len(classified.fields))
		for _, f := range classified.fields {
			pairs = append(pairs, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		fmt.Fprintf(&sb, " (%s)", strings.Join(pairs, ", "))
	}
	if cause := classified.Cause(); cause != nil {
		fmt.Fprintf(&sb, ": %v", cause)
	}
	return sb.String()
}

// shouldLog is true in verbose mode and for unclassified errors.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	_, ok := AsClassified(err)
	return !ok
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	a.logger.LogAttrs(context.Background(), classified.Severity().Level(), classified.Message(), classified.attrs()...)
}
