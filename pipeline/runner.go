package pipeline

// This file contains the pipeline runner: compile, assemble, link and
// execute one test case, short-circuiting on the first failing build stage.

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/cosec-lang/ctest/config"
	"github.com/cosec-lang/ctest/expect"
	"github.com/cosec-lang/ctest/model"
)

// Stage names, in pipeline order.
const (
	StageCompile  = "compile"
	StageAssemble = "assemble"
	StageLink     = "link"
	StageRun      = "run"
)

// Runner drives one test case through the full toolchain pipeline.
type Runner struct {
	logger   zerolog.Logger
	compiler string
	cfg      *config.Config
	exec     *Executor
	namer    Namer
}

// NewRunner creates a pipeline runner for the compiler under test. The
// capture flag controls whether tool output is buffered into verdicts.
func NewRunner(logger zerolog.Logger, compiler string, cfg *config.Config, capture bool) *Runner {
	namer := FixedNames(".")
	if cfg.Isolate {
		namer = TempDirNames()
	}
	return &Runner{
		logger:   logger,
		compiler: compiler,
		cfg:      cfg,
		exec:     NewExecutor(logger, time.Duration(cfg.Timeout), capture),
		namer:    namer,
	}
}

// Run executes the pipeline for the test file at path and returns its
// verdict. A test without a usable expectation annotation never reaches the
// toolchain.
func (r *Runner) Run(ctx context.Context, path string) model.Verdict {
	start := time.Now()
	defer func() {
		r.logger.Debug().
			Str("test", path).
			Dur("duration", time.Since(start)).
			Msg("Test finished")
	}()

	src, err := os.ReadFile(path)
	if err != nil {
		return model.MissingExpectation(path, err.Error())
	}
	expected, err := expect.Parse(src)
	if err != nil {
		return model.MissingExpectation(path, err.Error())
	}

	tc := model.TestCase{Path: path, Source: src, Expected: expected}
	arts, cleanup, err := r.namer(path)
	if err != nil {
		return model.Verdict{
			Path:   path,
			Kind:   model.VerdictStageFailed,
			Stage:  "setup",
			Detail: err.Error(),
		}
	}
	defer cleanup()

	for _, stage := range []struct {
		name string
		bin  string
		args []string
	}{
		{StageCompile, r.compiler, []string{tc.Path, "-o", arts.Asm}},
		{StageAssemble, r.cfg.Assembler.Bin, toolArgs(r.cfg.Assembler, arts.Obj, arts.Asm)},
		{StageLink, r.cfg.Linker.Bin, toolArgs(r.cfg.Linker, arts.Exe, arts.Obj)},
	} {
		if res := r.exec.Run(ctx, stage.name, stage.bin, stage.args...); !res.OK() {
			return model.StageFailed(path, res)
		}
	}

	res := r.exec.Run(ctx, StageRun, arts.Exe)
	if res.Err != nil || res.TimedOut {
		return model.StageFailed(path, res)
	}
	if res.ExitCode != tc.Expected {
		return model.StatusMismatch(path, tc.Expected, res.ExitCode, res.Output)
	}
	v := model.Pass(path)
	// Verbose reporting surfaces the program's output even on a pass
	v.Output = res.Output
	return v
}

// toolArgs appends the "-o <output> <input>" contract to a tool's fixed
// arguments without mutating the configured slice.
func toolArgs(tool config.Tool, output, input string) []string {
	args := make([]string, 0, len(tool.Args)+3)
	args = append(args, tool.Args...)
	return append(args, "-o", output, input)
}
