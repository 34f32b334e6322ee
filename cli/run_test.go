package cli

import (
	"os"
	"path/filepath"
	"testing"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/stretchr/testify/require"
)

// writeStubToolchain builds a shell-script toolchain whose linked program
// exits with the test's annotated status, unless the source also carries an
// "// actual: N" marker, in which case the program exits with N instead.
func writeStubToolchain(t *testing.T) (compiler string, configPath string) {
	t.Helper()
	dir := t.TempDir()

	script := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
		return path
	}

	// Compiler: <file> -o <asm>. Emits the exit status the program should
	// use as the "assembly".
	compiler = script("cosec", `code=$(sed -n 's@.*// actual: \([0-9][0-9]*\).*@\1@p' "$1" | head -1)
if [ -z "$code" ]; then
  code=$(sed -n 's@.*// expect: \([0-9][0-9]*\).*@\1@p' "$1" | head -1)
fi
echo "$code" > "$3"
`)
	// Assembler: -o <obj> <asm>
	assembler := script("as-stub", `cp "$3" "$2"
`)
	// Linker: -o <exe> <obj>
	linker := script("ld-stub", `printf '#!/bin/sh\nexit %s\n' "$(cat "$3")" > "$2"
chmod +x "$2"
`)

	configPath = filepath.Join(dir, "ctest.yaml")
	content := "assembler:\n  bin: " + assembler + "\nlinker:\n  bin: " + linker + "\nisolate: true\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return compiler, configPath
}

func writeTests(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, src := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	return root
}

func TestRun_AllPassing(t *testing.T) {
	compiler, configPath := writeStubToolchain(t)
	root := writeTests(t, map[string]string{
		"zero.c":      "// expect: 0\nint main() { return 0; }\n",
		"answer.c":    "// expect: 42\nint main() { return 42; }\n",
		"sub/deep.c":  "// expect: 1\nint main() { return 1; }\n",
		"sub/skip.md": "not a test\n",
	})

	app := New()
	err := app.Run([]string{AppName, "run", "--config", configPath, "--no-color", compiler, root})
	require.NoError(t, err)
}

func TestRun_MismatchKeepsExitZeroInVerboseMode(t *testing.T) {
	compiler, configPath := writeStubToolchain(t)
	root := writeTests(t, map[string]string{
		"wrong.c": "// expect: 7\n// actual: 3\nint main() { return 3; }\n",
	})

	app := New()
	err := app.Run([]string{AppName, "run", "--config", configPath, "--no-color", compiler, root})
	// Verbose mode reports failures but never fails the invoking process
	require.NoError(t, err)
}

func TestRun_FailFastExitsNonZero(t *testing.T) {
	exitCode := -1
	prev := urfavecli.OsExiter
	urfavecli.OsExiter = func(code int) { exitCode = code }
	t.Cleanup(func() { urfavecli.OsExiter = prev })

	compiler, configPath := writeStubToolchain(t)
	root := writeTests(t, map[string]string{
		"a_pass.c": "// expect: 0\nint main() { return 0; }\n",
		"b_fail.c": "// expect: 7\n// actual: 3\nint main() { return 3; }\n",
		"c_pass.c": "// expect: 0\nint main() { return 0; }\n",
	})

	app := New()
	err := app.Run([]string{AppName, "run", "--mode", "fail-fast", "--config", configPath, "--no-color", compiler, root})
	require.Error(t, err)
	require.Equal(t, 1, exitCode)
}

func TestRun_WithoutSubcommand(t *testing.T) {
	compiler, configPath := writeStubToolchain(t)
	root := writeTests(t, map[string]string{
		"ok.c": "// expect: 5\nint main() { return 5; }\n",
	})

	app := New()
	err := app.Run([]string{AppName, "--config", configPath, "--no-color", compiler, root})
	require.NoError(t, err)
}

func TestRun_ArgumentValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no args", args: []string{AppName, "run"}},
		{name: "one arg", args: []string{AppName, "run", "cosec"}},
		{name: "bad mode", args: []string{AppName, "run", "--mode", "bogus", "cosec", "tests"}},
		{name: "missing root", args: []string{AppName, "run", "cosec", "/does/not/exist"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, New().Run(tt.args))
		})
	}
}
