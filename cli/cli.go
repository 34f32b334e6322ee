package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "ctest"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:      AppName,
			Usage:     "Integration-test harness for the cosec compiler",
			ArgsUsage: "<compiler> <testdir>",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Run every test under a directory through the toolchain",
		ArgsUsage: "<compiler> <testdir>",
		Action:    app.run,
		Flags:     runFlags(),
	})
	// Default action so `ctest <compiler> <testdir>` works without the
	// run subcommand
	app.cli.Action = app.run
	app.cli.Flags = append(app.cli.Flags, runFlags()...)
	return app
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "Reporting mode: verbose, grouped or fail-fast",
			Value:   "verbose",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a harness config file (default: .ctest.yaml if present)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-stage timeout, e.g. 30s (overrides config; 0 disables)",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored result markers",
		},
	}
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
