package commands

import (
	"errors"

	"git.home.luguber.info/inful/citemark/internal/docmodel"
	derrors "git.home.luguber.info/inful/citemark/internal/foundation/errors"
	"git.home.luguber.info/inful/citemark/internal/logfields"
	"git.home.luguber.info/inful/citemark/internal/report"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Format string   `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Files  []string `arg:"" help:"Markdown files to check"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	if err := root.load(g); err != nil {
		return err
	}

	opts := docmodel.Options{Syntax: g.Syntax.WithStrict(true), Recorder: g.Recorder}
	result := &report.Result{}
	for _, path := range c.Files {
		result.FilesTotal++
		doc, err := docmodel.ParseFile(path, opts)
		if err == nil {
			result.CitationsTotal += len(doc.Citations())
			continue
		}

		var merr *docmodel.MalformedError
		if errors.As(err, &merr) {
			for _, span := range merr.Spans {
				result.Issues = append(result.Issues, report.Issue{
					FilePath: path,
					Severity: report.SeverityError,
					Rule:     report.RuleMalformedSpan,
					Message:  span.Reason,
					Raw:      span.Raw,
					Line:     span.Line,
					Column:   span.Column,
				})
			}
			g.Logger.Debug("Malformed citations", logfields.File(path), logfields.Malformed(len(merr.Spans)))
			continue
		}
		if derrors.HasCategory(err, derrors.CategoryInternal) {
			return err
		}
		result.Issues = append(result.Issues, report.Issue{
			FilePath: path,
			Severity: report.SeverityError,
			Rule:     report.RuleInvalidDocument,
			Message:  err.Error(),
		})
		g.Logger.Debug("Document rejected", logfields.File(path), logfields.Error(err))
	}

	if err := report.NewFormatter(c.Format).FormatResult(g.Stdout, result); err != nil {
		return err
	}
	if result.HasErrors() {
		return derrors.ValidationError("citation check failed").
			WithContext("errors", result.ErrorCount()).
			Build()
	}
	return nil
}
