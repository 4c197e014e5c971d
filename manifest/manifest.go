// Package manifest handles synacor.toml project configuration.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Manifest represents a synacor.toml configuration.
type Manifest struct {
	Program   Program   `toml:"program"`
	Snapshots Snapshots `toml:"snapshots"`
	Atlas     Atlas     `toml:"atlas"`
	Solve     Solve     `toml:"solve"`

	// Dir is the directory containing the synacor.toml file (set at load time).
	Dir string `toml:"-"`
}

// Program locates the machine image.
type Program struct {
	Image string `toml:"image"`
}

// Snapshots configures where machine snapshots are written.
type Snapshots struct {
	Dir string `toml:"dir"`
}

// Atlas configures the discovered-rooms database.
type Atlas struct {
	Database string `toml:"database"`
}

// Solve tunes the puzzle solvers.
type Solve struct {
	TeleporterWorkers int `toml:"teleporter-workers"`
}

// Load parses a synacor.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "synacor.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	applyDefaults(&m)
	return &m, nil
}

// FindAndLoad walks up from startDir to find a synacor.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "synacor.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Default returns a manifest with default settings rooted at dir.
func Default(dir string) *Manifest {
	m := &Manifest{Dir: dir}
	applyDefaults(m)
	return m
}

// Save writes the manifest to synacor.toml in its directory.
func Save(m *Manifest) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	path := filepath.Join(m.Dir, "synacor.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

func applyDefaults(m *Manifest) {
	if m.Program.Image == "" {
		m.Program.Image = "challenge.bin"
	}
	if m.Snapshots.Dir == "" {
		m.Snapshots.Dir = "snapshots"
	}
	if m.Atlas.Database == "" {
		m.Atlas.Database = "atlas.db"
	}
	if m.Solve.TeleporterWorkers <= 0 {
		m.Solve.TeleporterWorkers = runtime.NumCPU()
	}
}

// ImagePath returns the absolute path of the machine image.
func (m *Manifest) ImagePath() string {
	return m.abs(m.Program.Image)
}

// SnapshotsDir returns the absolute path of the snapshots directory.
func (m *Manifest) SnapshotsDir() string {
	return m.abs(m.Snapshots.Dir)
}

// AtlasPath returns the absolute path of the atlas database.
func (m *Manifest) AtlasPath() string {
	return m.abs(m.Atlas.Database)
}

func (m *Manifest) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
