package cli

// This file contains the harness driver: discover test files, feed each one
// through the pipeline, and fold the verdicts through the reporting policy.

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cosec-lang/ctest/config"
	"github.com/cosec-lang/ctest/discover"
	"github.com/cosec-lang/ctest/pipeline"
	"github.com/cosec-lang/ctest/report"
)

func (a *App) run(ctx *cli.Context) error {
	start := time.Now()

	args := ctx.Args()
	if args.Len() != 2 {
		return fmt.Errorf("expected <compiler> <testdir>, got %d argument(s)", args.Len())
	}
	compiler, root := args.Get(0), args.Get(1)

	mode, err := report.ParseMode(ctx.String("mode"))
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	if ctx.IsSet("timeout") {
		cfg.Timeout = config.Duration(ctx.Duration("timeout"))
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot read test directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	a.logger.Debug().
		Str("compiler", compiler).
		Str("root", root).
		Str("assembler", pipeline.Command(cfg.Assembler.Bin, cfg.Assembler.Args)).
		Str("linker", pipeline.Command(cfg.Linker.Bin, cfg.Linker.Args)).
		Msg("Starting test run")

	policy := report.New(mode, os.Stdout, !ctx.Bool("no-color"))
	runner := pipeline.NewRunner(a.logger, compiler, cfg, true)

	walkErr := discover.Walk(root, cfg.Extension, func(path string) error {
		return policy.Report(runner.Run(ctx.Context, path))
	})

	sum := policy.Summary()
	if errors.Is(walkErr, report.ErrAbort) {
		a.logger.Error().
			Int("passed", sum.Passed).
			Int("failed", sum.Failed).
			Dur("duration", time.Since(start)).
			Msg("Aborted on first failure")
		return cli.Exit("", 1)
	}
	if walkErr != nil {
		return walkErr
	}

	a.logger.Info().
		Int("passed", sum.Passed).
		Int("failed", sum.Failed).
		Int("total", sum.Total()).
		Dur("duration", time.Since(start)).
		Msg("Test run complete")
	return nil
}
