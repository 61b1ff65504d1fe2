package commands

import (
	"os"

	"git.home.luguber.info/inful/citemark/internal/docmodel"
	derrors "git.home.luguber.info/inful/citemark/internal/foundation/errors"
	"git.home.luguber.info/inful/citemark/internal/logfields"
)

// ConvertCmd implements the 'convert' command.
type ConvertCmd struct {
	To       string `short:"t" help:"Target syntax (${variants}); defaults to the to_markdown section"`
	Preserve bool   `help:"Keep citations whose text already reads the same in the target syntax"`
	Write    bool   `short:"w" help:"Rewrite the file in place instead of printing it"`
	File     string `arg:"" type:"existingfile" help:"Markdown file to convert"`
}

func (c *ConvertCmd) Run(g *Global, root *CLI) error {
	if err := root.load(g); err != nil {
		return err
	}

	target, err := g.Config.TargetSyntax(c.To)
	if err != nil {
		return err
	}

	doc, err := docmodel.ParseFile(c.File, docmodel.Options{Syntax: g.Syntax, Recorder: g.Recorder})
	if err != nil {
		return err
	}
	out, n, err := doc.Convert(target, docmodel.ConvertOptions{Preserve: c.Preserve})
	if err != nil {
		return err
	}

	g.Logger.Info("Converted citations",
		logfields.File(c.File),
		logfields.Variant(doc.Syntax().String()),
		logfields.Target(target.String()),
		logfields.Citations(len(doc.Citations())),
		logfields.Converted(n))

	if !c.Write {
		_, err = g.Stdout.Write(out)
		return err
	}
	if n == 0 && string(out) == string(doc.Original()) {
		return nil
	}

	info, err := os.Stat(c.File)
	if err != nil {
		return derrors.FileSystemError("failed to stat document").WithCause(err).WithContext("path", c.File).Build()
	}
	if err := os.WriteFile(c.File, out, info.Mode().Perm()); err != nil {
		return derrors.FileSystemError("failed to write document").WithCause(err).WithContext("path", c.File).Build()
	}
	return nil
}
