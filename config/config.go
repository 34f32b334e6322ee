package config

// This file contains the harness configuration: which assembler and linker
// the pipeline invokes, how intermediate artifacts are named, and per-stage
// limits. Defaults reproduce the historical harness; a .ctest.yaml file in
// the working directory overrides individual fields.

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory when no
// explicit path is given.
const DefaultFile = ".ctest.yaml"

// Tool identifies one external toolchain command and its fixed arguments.
type Tool struct {
	Bin  string   `yaml:"bin"`
	Args []string `yaml:"args,omitempty"`
}

// Duration accepts time.ParseDuration strings ("30s", "2m") in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds the harness configuration.
type Config struct {
	// Assembler turns the compiler's assembly output into an object file
	Assembler Tool `yaml:"assembler"`
	// Linker turns the object file into an executable
	Linker Tool `yaml:"linker"`
	// Extension selects which files in the test tree are test sources
	Extension string `yaml:"extension"`
	// Isolate gives every test its own temp directory for intermediate
	// artifacts instead of the shared fixed names in the working directory
	Isolate bool `yaml:"isolate"`
	// Timeout bounds each pipeline stage; zero disables the bound
	Timeout Duration `yaml:"timeout"`
}

// Default returns the built-in configuration for the current OS.
func Default() *Config {
	cfg := &Config{
		Assembler: Tool{Bin: "nasm", Args: []string{"-f", "elf64"}},
		Linker:    Tool{Bin: "ld"},
		Extension: ".c",
	}
	if runtime.GOOS == "darwin" {
		cfg.Assembler.Args = []string{"-f", "macho64"}
		cfg.Linker.Args = []string{
			"-L/Library/Developer/CommandLineTools/SDKs/MacOSX.sdk/usr/lib",
			"-lSystem",
		}
	}
	return cfg
}

// Load returns the default configuration overlaid with the YAML file at
// path. An empty path means DefaultFile, and then a missing file is not an
// error; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Assembler.Bin == "" || cfg.Linker.Bin == "" {
		return nil, fmt.Errorf("config %s: assembler and linker bin must not be empty", path)
	}
	return cfg, nil
}
