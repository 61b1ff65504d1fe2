package commands

import (
	"time"

	"git.home.luguber.info/inful/citemark/internal/docmodel"
	"git.home.luguber.info/inful/citemark/internal/logfields"
	"git.home.luguber.info/inful/citemark/internal/report"
)

// ExtractCmd implements the 'extract' command.
type ExtractCmd struct {
	Format string   `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Files  []string `arg:"" type:"existingfile" help:"Markdown files to read"`
}

func (e *ExtractCmd) Run(g *Global, root *CLI) error {
	if err := root.load(g); err != nil {
		return err
	}

	out := make([]report.Citation, 0)
	for _, path := range e.Files {
		start := time.Now()
		doc, err := docmodel.ParseFile(path, docmodel.Options{Syntax: g.Syntax, Recorder: g.Recorder})
		if err != nil {
			return err
		}

		cites := doc.Citations()
		for _, c := range cites {
			out = append(out, report.Citation{
				FilePath: path,
				Line:     c.Line,
				Column:   c.Column,
				Raw:      c.Raw,
				Items:    c.Node.Items(),
			})
		}
		g.Logger.Debug("Extracted citations",
			logfields.File(path),
			logfields.Variant(doc.Syntax().String()),
			logfields.Citations(len(cites)),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	}

	return report.NewFormatter(e.Format).FormatCitations(g.Stdout, out)
}
