// Package project locates and parses the sable.toml manifest.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"sable/internal/irgen"
)

// ManifestName is the file looked up from the working directory upward.
const ManifestName = "sable.toml"

// Manifest is a located and parsed sable.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest structure.
type Config struct {
	Package PackageConfig `toml:"package"`
	Codegen CodegenConfig `toml:"codegen"`
}

// PackageConfig is the [package] table.
type PackageConfig struct {
	Name string `toml:"name"`
}

// CodegenConfig is the [codegen] table. Unset fields keep the built-in
// defaults.
type CodegenConfig struct {
	Verify *bool `toml:"verify"`
}

// Options resolves the codegen table against the built-in defaults.
func (c CodegenConfig) Options() irgen.Options {
	opts := irgen.DefaultOptions()
	if c.Verify != nil {
		opts.VerifyAfterGen = *c.Verify
	}
	return opts
}

// Find walks from startDir toward the filesystem root looking for the
// manifest. Returns ok=false when none exists.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
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

// Load locates and parses the manifest. Returns ok=false when no
// manifest exists between startDir and the filesystem root.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses a manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}
