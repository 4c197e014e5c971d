package vm

import (
	"fmt"
	"os"
)

// NewFromFile creates a machine from a program image on disk.
func NewFromFile(path string, in Source, out Sink) (*VM, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program image: %w", err)
	}
	return New(image, in, out), nil
}

// LoadSnapshotFile reconstructs a machine from a snapshot on disk.
func LoadSnapshotFile(path string, in Source, out Sink) (*VM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	m, err := LoadSnapshot(f, in, out)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return m, nil
}

// SaveSnapshotFile writes the machine's snapshot to disk.
func (m *VM) SaveSnapshotFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := m.SaveSnapshot(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return nil
}
