package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	// Create a temporary directory with a synacor.toml
	dir := t.TempDir()
	tomlContent := `
[program]
image = "images/challenge.bin"

[snapshots]
dir = "saves"

[atlas]
database = "rooms.db"

[solve]
teleporter-workers = 4
`
	if err := os.WriteFile(filepath.Join(dir, "synacor.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Program.Image != "images/challenge.bin" {
		t.Errorf("program image = %q, want images/challenge.bin", m.Program.Image)
	}
	if m.Snapshots.Dir != "saves" {
		t.Errorf("snapshots dir = %q, want saves", m.Snapshots.Dir)
	}
	if m.Atlas.Database != "rooms.db" {
		t.Errorf("atlas database = %q, want rooms.db", m.Atlas.Database)
	}
	if m.Solve.TeleporterWorkers != 4 {
		t.Errorf("teleporter workers = %d, want 4", m.Solve.TeleporterWorkers)
	}

	wantImage := filepath.Join(m.Dir, "images", "challenge.bin")
	if m.ImagePath() != wantImage {
		t.Errorf("ImagePath() = %q, want %q", m.ImagePath(), wantImage)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "synacor.toml"), []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Program.Image != "challenge.bin" {
		t.Errorf("default image = %q, want challenge.bin", m.Program.Image)
	}
	if m.Snapshots.Dir != "snapshots" {
		t.Errorf("default snapshots dir = %q, want snapshots", m.Snapshots.Dir)
	}
	if m.Atlas.Database != "atlas.db" {
		t.Errorf("default atlas database = %q, want atlas.db", m.Atlas.Database)
	}
	if m.Solve.TeleporterWorkers < 1 {
		t.Errorf("default teleporter workers = %d, want >= 1", m.Solve.TeleporterWorkers)
	}
}

func TestFindAndLoad(t *testing.T) {
	// Create nested directory structure
	dir := t.TempDir()
	subDir := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	tomlContent := `[program]
image = "found.bin"
`
	if err := os.WriteFile(filepath.Join(dir, "synacor.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	// Should find manifest when starting from a deep subdirectory
	m, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if m.Program.Image != "found.bin" {
		t.Errorf("program image = %q, want found.bin", m.Program.Image)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	m, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest when no synacor.toml exists")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{
		Dir: dir,
		Program: Program{
			Image: "challenge.bin",
		},
		Snapshots: Snapshots{
			Dir: "snapshots",
		},
		Atlas: Atlas{
			Database: "atlas.db",
		},
		Solve: Solve{
			TeleporterWorkers: 8,
		},
	}

	if err := Save(m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Program.Image != m.Program.Image {
		t.Errorf("program image = %q, want %q", loaded.Program.Image, m.Program.Image)
	}
	if loaded.Solve.TeleporterWorkers != 8 {
		t.Errorf("teleporter workers = %d, want 8", loaded.Solve.TeleporterWorkers)
	}
}

func TestAbsolutePathsPassThrough(t *testing.T) {
	m := &Manifest{Dir: "/project"}
	applyDefaults(m)
	m.Atlas.Database = "/var/lib/synacor/atlas.db"

	if got := m.AtlasPath(); got != "/var/lib/synacor/atlas.db" {
		t.Errorf("AtlasPath() = %q, want absolute path unchanged", got)
	}
	if got := m.SnapshotsDir(); got != filepath.Join("/project", "snapshots") {
		t.Errorf("SnapshotsDir() = %q, want under manifest dir", got)
	}
}
