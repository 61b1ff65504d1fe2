// Package report formats the results of the extract and check commands.
package report

import "git.home.luguber.info/inful/citemark/internal/cite"

// Severity indicates the importance level of a check issue.
type Severity int

const (
	// SeverityInfo marks notes that need no action.
	SeverityInfo Severity = iota
	// SeverityWarning marks spans that parse but are probably not what the author meant.
	SeverityWarning
	// SeverityError marks spans that could not be parsed.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Rule identifiers.
const (
	RuleMalformedSpan   = "malformed-citation"
	RuleInvalidDocument = "invalid-document"
)

// Issue represents a single problem found in a file.
type Issue struct {
	FilePath string   // Path as given on the command line
	Severity Severity // Issue severity level
	Rule     string   // Rule identifier (e.g., "malformed-citation")
	Message  string   // Brief description of the issue
	Raw      string   // Offending source text, if any
	Line     int      // Line number (0 if file-level issue)
	Column   int
}

// Result contains all issues found during a check.
type Result struct {
	Issues         []Issue
	FilesTotal     int // Total files scanned
	CitationsTotal int
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r *Result) count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// Citation is one extracted citation span.
type Citation struct {
	FilePath string      `json:"file_path"`
	Line     int         `json:"line"`
	Column   int         `json:"column"`
	Raw      string      `json:"raw"`
	Items    []cite.Item `json:"items"`
}
