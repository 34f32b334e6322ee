package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExecutor_Success(t *testing.T) {
	script := writeScript(t, t.TempDir(), "ok.sh", "echo hello\nexit 0\n")
	e := NewExecutor(zerolog.Nop(), 0, true)

	res := e.Run(context.Background(), "compile", script)
	require.True(t, res.OK())
	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, "hello\n", res.Output)
	require.NoError(t, res.Err)
}

func TestExecutor_NonZeroExit(t *testing.T) {
	script := writeScript(t, t.TempDir(), "fail.sh", "echo broken >&2\nexit 3\n")
	e := NewExecutor(zerolog.Nop(), 0, true)

	res := e.Run(context.Background(), "assemble", script)
	require.False(t, res.OK())
	require.Equal(t, 3, res.ExitCode)
	require.Equal(t, "broken\n", res.Output)
	require.Equal(t, "exited with code 3", res.Reason())
}

func TestExecutor_CaptureDisabled(t *testing.T) {
	script := writeScript(t, t.TempDir(), "noisy.sh", "echo noise\nexit 0\n")
	e := NewExecutor(zerolog.Nop(), 0, false)

	res := e.Run(context.Background(), "compile", script)
	require.True(t, res.OK())
	require.Empty(t, res.Output)
}

func TestExecutor_MissingBinary(t *testing.T) {
	e := NewExecutor(zerolog.Nop(), 0, true)

	res := e.Run(context.Background(), "compile", filepath.Join(t.TempDir(), "no-such-compiler"))
	require.False(t, res.OK())
	require.Equal(t, -1, res.ExitCode)
	require.Error(t, res.Err)
	require.NotEmpty(t, res.Output)
	require.Contains(t, res.Reason(), "failed to start")
}

func TestExecutor_Timeout(t *testing.T) {
	script := writeScript(t, t.TempDir(), "hang.sh", "sleep 5\n")
	e := NewExecutor(zerolog.Nop(), 100*time.Millisecond, true)

	start := time.Now()
	res := e.Run(context.Background(), "run", script)
	require.False(t, res.OK())
	require.True(t, res.TimedOut)
	require.Equal(t, "timed out", res.Reason())
	require.Less(t, time.Since(start), 3*time.Second)
}

func TestCommand_QuotesArguments(t *testing.T) {
	got := Command("nasm", []string{"-f", "elf64", "-o", "out dir/out.o", "out.s"})
	require.Equal(t, `nasm -f elf64 -o 'out dir/out.o' out.s`, got)
}
