package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/uibundler/cmd/uibundler/commands"
	ferrors "git.home.luguber.info/inful/uibundler/internal/foundation/errors"
	"git.home.luguber.info/inful/uibundler/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("uibundler"),
		kong.Description("On-demand bundler for embeddable UI components"),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	global := &commands.Global{Stdout: os.Stdout}
	if err := parser.Run(global, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
