package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/citemark/internal/cite"
	derrors "git.home.luguber.info/inful/citemark/internal/foundation/errors"
	"git.home.luguber.info/inful/citemark/internal/version"
	"github.com/alecthomas/kong"
)

// kongExit is raised by the kong exit hook so --help and --version return
// through Execute instead of terminating the process.
type kongExit int

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) (code int) {
	cli := &CLI{}
	g := &Global{
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, nil)),
	}

	defer func() {
		if r := recover(); r != nil {
			exit, ok := r.(kongExit)
			if !ok {
				panic(r)
			}
			code = int(exit)
		}
	}()

	parser, err := kong.New(cli,
		kong.Name("citemark"),
		kong.Description("Find, check and convert citations in markdown documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { panic(kongExit(code)) }),
		kong.Vars{
			"version":  version.String(),
			"variants": strings.Join(cite.Variants(), ", "),
		},
		kong.Bind(g),
	)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "citemark: %v\n", err)
		return 1
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "citemark: %v\n", err)
		return 2
	}

	err = ctx.Run()
	if g.Config != nil {
		// Metrics are written for failed checks too.
		if ferr := g.flushMetrics(); ferr != nil && err == nil {
			err = ferr
		}
	}
	return derrors.NewCLIErrorAdapter(cli.Verbose, g.Logger, stderr).Report(err)
}
