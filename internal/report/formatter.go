package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Formatter formats check results and extracted citations for output.
type Formatter interface {
	FormatResult(w io.Writer, result *Result) error
	FormatCitations(w io.Writer, citations []Citation) error
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// FormatResult outputs check results grouped by file.
func (f *TextFormatter) FormatResult(w io.Writer, result *Result) error {
	// Group issues by file, keeping files in name order.
	issuesByFile := make(map[string][]Issue)
	for _, issue := range result.Issues {
		issuesByFile[issue.FilePath] = append(issuesByFile[issue.FilePath], issue)
	}
	files := make([]string, 0, len(issuesByFile))
	for path := range issuesByFile {
		files = append(files, path)
	}
	sort.Strings(files)

	for _, path := range files {
		for _, issue := range issuesByFile[path] {
			if err := f.formatIssue(w, issue); err != nil {
				return err
			}
		}
	}

	if len(result.Issues) > 0 {
		if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%d file%s scanned, %d citation%s\n",
		result.FilesTotal, pluralize(result.FilesTotal),
		result.CitationsTotal, pluralize(result.CitationsTotal)); err != nil {
		return err
	}

	if n := result.ErrorCount(); n > 0 {
		if _, err := fmt.Fprintf(w, "%d error%s\n", n, pluralize(n)); err != nil {
			return err
		}
	}
	if n := result.WarningCount(); n > 0 {
		if _, err := fmt.Fprintf(w, "%d warning%s\n", n, pluralize(n)); err != nil {
			return err
		}
	}
	if !result.HasErrors() {
		if _, err := fmt.Fprintln(w, "All citations parse."); err != nil {
			return err
		}
	}
	return nil
}

// formatIssue formats a single issue as path:line:col: SEVERITY message.
func (f *TextFormatter) formatIssue(w io.Writer, issue Issue) error {
	loc := issue.FilePath
	if issue.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", issue.FilePath, issue.Line, issue.Column)
	}
	if _, err := fmt.Fprintf(w, "%s: %s %s [%s]\n", loc, issue.Severity, issue.Message, issue.Rule); err != nil {
		return err
	}
	if issue.Raw != "" {
		if _, err := fmt.Fprintf(w, "  %s\n", issue.Raw); err != nil {
			return err
		}
	}
	return nil
}

// FormatCitations writes one line per citation: location, raw text, keys.
func (f *TextFormatter) FormatCitations(w io.Writer, citations []Citation) error {
	for _, c := range citations {
		keys := make([]string, 0, len(c.Items))
		for _, it := range c.Items {
			keys = append(keys, it.Key)
		}
		if _, err := fmt.Fprintf(w, "%s:%d:%d\t%s\t%s\n", c.FilePath, c.Line, c.Column, c.Raw, strings.Join(keys, ",")); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput represents the JSON output structure of a check.
type JSONOutput struct {
	FilesTotal     int         `json:"files_total"`
	CitationsTotal int         `json:"citations_total"`
	ErrorCount     int         `json:"error_count"`
	WarningCount   int         `json:"warning_count"`
	Issues         []JSONIssue `json:"issues"`
}

// JSONIssue represents a single issue in JSON format.
type JSONIssue struct {
	FilePath string `json:"file_path"`
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Raw      string `json:"raw,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// FormatResult outputs check results in JSON format.
func (f *JSONFormatter) FormatResult(w io.Writer, result *Result) error {
	output := JSONOutput{
		FilesTotal:     result.FilesTotal,
		CitationsTotal: result.CitationsTotal,
		ErrorCount:     result.ErrorCount(),
		WarningCount:   result.WarningCount(),
		Issues:         make([]JSONIssue, 0, len(result.Issues)),
	}

	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, JSONIssue{
			FilePath: issue.FilePath,
			Severity: issue.Severity.String(),
			Rule:     issue.Rule,
			Message:  issue.Message,
			Raw:      issue.Raw,
			Line:     issue.Line,
			Column:   issue.Column,
		})
	}
	return encode(w, output)
}

// FormatCitations outputs the citations as a JSON array.
func (f *JSONFormatter) FormatCitations(w io.Writer, citations []Citation) error {
	if citations == nil {
		citations = []Citation{}
	}
	return encode(w, citations)
}

func encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter()
	}
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
