package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/uibundler/internal/config"
	ferrors "git.home.luguber.info/inful/uibundler/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if i.Output != "" {
		path = filepath.Join(i.Output, DefaultConfigPath)
	}
	out := g.stdout()
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "initialization failed").Build()
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
