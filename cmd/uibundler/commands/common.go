package commands

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/uibundler/internal/config"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "uibundler.yaml"

// Global carries state shared by subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"uibundler.yaml" env:"UIBUNDLER_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve  ServeCmd  `cmd:"" help:"Serve bundles of registered components over HTTP"`
	Bundle BundleCmd `cmd:"" help:"Bundle one component to stdout or a file"`
	Probe  ProbeCmd  `cmd:"" help:"Resolve the compiler backend and report which variant works here"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; set up bootstrap logging once. The
// configured handler replaces it when a command loads its configuration.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig reads the configuration file. When optional is set and the
// default file is absent, built-in defaults are used instead.
func loadConfig(root *CLI, optional bool) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		if optional && root.Config == DefaultConfigPath && errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No configuration file, using defaults", "path", root.Config)
			cfg = config.Default()
		} else {
			return nil, err
		}
	}
	slog.SetDefault(cfg.Logging.NewLogger(os.Stderr, root.Verbose))
	return cfg, nil
}
