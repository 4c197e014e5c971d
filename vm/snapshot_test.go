package vm

import (
	"bytes"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	m := newTestVM(
		opOut, 'A',
		opOut, 'B',
		opOut, 'C',
		opOut, 'D',
		opHalt,
	)
	m.Registers[2] = 1234
	m.Stack = []Word{7, 8, 9}

	// Run half the program, snapshot, then let both machines finish.
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}

	var snap bytes.Buffer
	if err := m.SaveSnapshot(&snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	restored, err := LoadSnapshot(bytes.NewReader(snap.Bytes()), NewBuffer(nil), NewBuffer(nil))
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if restored.PC != m.PC {
		t.Errorf("restored PC = %d, want %d", restored.PC, m.PC)
	}
	if restored.Registers != m.Registers {
		t.Errorf("restored registers = %v, want %v", restored.Registers, m.Registers)
	}
	if restored.Memory != m.Memory {
		t.Error("restored memory differs from original")
	}
	if len(restored.Stack) != 3 || restored.Stack[0] != 7 || restored.Stack[2] != 9 {
		t.Errorf("restored stack = %v, want [7 8 9]", restored.Stack)
	}

	if err := m.Run(); err != nil {
		t.Fatalf("original Run() failed: %v", err)
	}
	if err := restored.Run(); err != nil {
		t.Fatalf("restored Run() failed: %v", err)
	}

	// The original emitted "AB" before the snapshot; the restored machine
	// must produce exactly the remainder.
	if got := string(restored.Output()); got != "CD" {
		t.Errorf("restored output = %q, want %q", got, "CD")
	}
	if got := string(m.Output()); got != "ABCD" {
		t.Errorf("original output = %q, want %q", got, "ABCD")
	}
}

func TestSnapshotEmptyStack(t *testing.T) {
	m := newTestVM(opHalt)
	var snap bytes.Buffer
	if err := m.SaveSnapshot(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.Len() != snapshotHeaderSize {
		t.Errorf("snapshot size = %d, want %d", snap.Len(), snapshotHeaderSize)
	}

	restored, err := LoadSnapshot(&snap, NewBuffer(nil), NewBuffer(nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(restored.Stack) != 0 {
		t.Errorf("restored stack = %v, want empty", restored.Stack)
	}
}

func TestSnapshotStackLengthIsImplicit(t *testing.T) {
	m := newTestVM(opHalt)
	m.Stack = []Word{10, 20, 30, 40}

	var snap bytes.Buffer
	if err := m.SaveSnapshot(&snap); err != nil {
		t.Fatal(err)
	}
	if want := snapshotHeaderSize + 8; snap.Len() != want {
		t.Errorf("snapshot size = %d, want %d", snap.Len(), want)
	}

	restored, err := LoadSnapshot(&snap, NewBuffer(nil), NewBuffer(nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(restored.Stack) != 4 || restored.Stack[3] != 40 {
		t.Errorf("restored stack = %v, want [10 20 30 40]", restored.Stack)
	}
}

func TestLoadSnapshotTruncated(t *testing.T) {
	m := newTestVM(opHalt)
	var snap bytes.Buffer
	if err := m.SaveSnapshot(&snap); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		n    int
	}{
		{"empty", 0},
		{"mid memory", 100},
		{"mid header", snapshotHeaderSize - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSnapshot(bytes.NewReader(snap.Bytes()[:tt.n]), NewBuffer(nil), NewBuffer(nil))
			if err != ErrSnapshotTruncated {
				t.Errorf("LoadSnapshot error = %v, want ErrSnapshotTruncated", err)
			}
		})
	}
}

func TestLoadSnapshotOddStackRun(t *testing.T) {
	m := newTestVM(opHalt)
	var snap bytes.Buffer
	if err := m.SaveSnapshot(&snap); err != nil {
		t.Fatal(err)
	}
	snap.WriteByte(0xFF) // half a stack word

	_, err := LoadSnapshot(bytes.NewReader(snap.Bytes()), NewBuffer(nil), NewBuffer(nil))
	if err != ErrSnapshotTruncated {
		t.Errorf("LoadSnapshot error = %v, want ErrSnapshotTruncated", err)
	}
}
