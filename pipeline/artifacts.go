package pipeline

// This file contains artifact naming strategies for the intermediate files
// a pipeline run produces (assembly, object, executable).

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArtifactSet names the intermediate files of one pipeline run. Each stage
// consumes the previous stage's artifact.
type ArtifactSet struct {
	// Assembly file written by the compiler
	Asm string
	// Object file written by the assembler
	Obj string
	// Executable written by the linker
	Exe string
}

// Namer yields the artifact set for one test, plus a cleanup function run
// after the test's verdict is recorded.
type Namer func(testPath string) (ArtifactSet, func(), error)

// FixedNames reuses the same three filenames in dir for every test, the
// historical harness behavior. Every run clobbers the previous run's
// artifacts, which is why tests execute strictly one at a time. Artifacts
// are left behind after the run.
func FixedNames(dir string) Namer {
	return func(string) (ArtifactSet, func(), error) {
		exe := filepath.Join(dir, "a.out")
		if !strings.ContainsRune(exe, filepath.Separator) {
			// Bare name would hit PATH lookup when executed
			exe = "." + string(filepath.Separator) + exe
		}
		arts := ArtifactSet{
			Asm: filepath.Join(dir, "out.s"),
			Obj: filepath.Join(dir, "out.o"),
			Exe: exe,
		}
		return arts, func() {}, nil
	}
}

// TempDirNames gives every test an isolated temp directory, removed after
// the verdict. Isolated paths are what makes concurrent pipelines possible.
func TempDirNames() Namer {
	return func(testPath string) (ArtifactSet, func(), error) {
		dir, err := os.MkdirTemp("", "ctest-*")
		if err != nil {
			return ArtifactSet{}, nil, fmt.Errorf("failed to create artifact directory: %w", err)
		}
		base := strings.TrimSuffix(filepath.Base(testPath), filepath.Ext(testPath))
		arts := ArtifactSet{
			Asm: filepath.Join(dir, base+".s"),
			Obj: filepath.Join(dir, base+".o"),
			Exe: filepath.Join(dir, base),
		}
		return arts, func() { os.RemoveAll(dir) }, nil
	}
}
