package commands

import (
	"fmt"

	"git.home.luguber.info/inful/citemark/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path, _ := root.configPath()
	if _, err := fmt.Fprintf(g.Stdout, "Writing configuration to %s\n", path); err != nil {
		return err
	}
	return config.Init(path, i.Force)
}
