package pipeline

// This file contains the single-stage executor: spawn an external tool,
// wait for it, and classify the outcome. Subprocess problems of any kind
// become StageResult values, never harness crashes.

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/rs/zerolog"

	"github.com/cosec-lang/ctest/model"
)

// Executor runs individual pipeline stages.
type Executor struct {
	logger zerolog.Logger
	// Per-stage wall-clock bound; zero means unbounded
	timeout time.Duration
	// Whether to buffer combined stdout/stderr into the result
	capture bool
}

// NewExecutor creates a stage executor.
func NewExecutor(logger zerolog.Logger, timeout time.Duration, capture bool) *Executor {
	return &Executor{logger: logger, timeout: timeout, capture: capture}
}

// Run spawns bin with args and waits for it to exit. Exit code 0 is the only
// success. A process that cannot be started yields a failure with the
// sentinel exit code -1 and the OS error in Err; a process killed by the
// stage timeout yields a failure flagged TimedOut.
func (e *Executor) Run(ctx context.Context, stage, bin string, args ...string) model.StageResult {
	res := model.StageResult{Stage: stage, ExitCode: -1}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	// Don't let a killed stage's orphans hold the output pipes open forever
	cmd.WaitDelay = time.Second

	var out bytes.Buffer
	if e.capture {
		cmd.Stdout = &out
		cmd.Stderr = &out
	}

	e.logger.Debug().
		Str("stage", stage).
		Str("cmd", Command(bin, args)).
		Msg("Running stage")

	err := cmd.Run()
	if e.capture {
		res.Output = out.String()
	}

	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.Err = err
			if res.Output == "" {
				res.Output = err.Error()
			}
		}
	}
	return res
}

// Command renders a stage invocation as a shell-quotable string for
// diagnostics.
func Command(bin string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, bin)
	for _, arg := range args {
		parts = append(parts, shellescape.Quote(arg))
	}
	return strings.Join(parts, " ")
}
