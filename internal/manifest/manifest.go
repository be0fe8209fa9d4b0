// Package manifest loads the expectest.toml suite description.
//
// The manifest is optional: a run can be fully described by CLI flags.
// Discovery walks up from the start directory until a manifest or the
// filesystem root is found, so expectest can be invoked from anywhere
// inside a suite.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const FileName = "expectest.toml"

// Manifest is a located, parsed expectest.toml.
type Manifest struct {
	// Path is the absolute path of the manifest file.
	Path string
	// Root is the directory containing the manifest; test files are
	// resolved relative to it.
	Root string

	Config Config
}

type Config struct {
	Suite    SuiteConfig    `toml:"suite"`
	Compiler CompilerConfig `toml:"compiler"`
	Run      RunConfig      `toml:"run"`
}

type SuiteConfig struct {
	Name string `toml:"name"`
	// Ext is the test file extension, e.g. ".sg".
	Ext string `toml:"ext"`
}

type CompilerConfig struct {
	Cmd  string   `toml:"cmd"`
	Args []string `toml:"args"`
}

type RunConfig struct {
	// Jobs limits parallelism; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
	// Revisions lists configuration tags; each test file runs once per
	// revision. Empty means one untagged run per file.
	Revisions []string `toml:"revisions"`
}

// find walks up from startDir looking for the manifest file.
func find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load locates and parses the manifest. The second return value is false
// when no manifest exists, which is not an error.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := find(startDir)
	if err != nil || !ok {
		return nil, false, err
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}
