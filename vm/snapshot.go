package vm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ---------------------------------------------------------------------------
// Snapshot codec
// ---------------------------------------------------------------------------
//
// A snapshot is the machine's complete state in a fixed order:
//
//	memory[32768] ++ registers[8] ++ pc ++ stack[*]
//
// Words are 16-bit little-endian, pc is 64-bit little-endian, and the stack
// is a trailing run whose length is implicit: decoding consumes words until
// end-of-stream. A machine restored from a snapshot single-steps exactly
// like the machine that saved it. Transports are not part of the snapshot;
// the caller supplies fresh ones on restore.

const snapshotHeaderSize = 2*MemorySize + 2*NumRegisters + 8

// SaveSnapshot writes the machine's state to w.
func (m *VM) SaveSnapshot(w io.Writer) error {
	buf := make([]byte, snapshotHeaderSize+2*len(m.Stack))
	off := 0
	for _, v := range m.Memory {
		binary.LittleEndian.PutUint16(buf[off:], uint16(v))
		off += 2
	}
	for _, v := range m.Registers {
		binary.LittleEndian.PutUint16(buf[off:], uint16(v))
		off += 2
	}
	binary.LittleEndian.PutUint64(buf[off:], uint64(m.PC))
	off += 8
	for _, v := range m.Stack {
		binary.LittleEndian.PutUint16(buf[off:], uint16(v))
		off += 2
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reconstructs a machine from a snapshot stream, wiring it to
// the given transports. It fails with ErrSnapshotTruncated if the stream
// ends inside the fixed-size portion or mid-word in the stack run.
func LoadSnapshot(r io.Reader, in Source, out Sink) (*VM, error) {
	m := &VM{input: in, output: out}

	buf := make([]byte, snapshotHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrSnapshotTruncated
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	off := 0
	for i := range m.Memory {
		m.Memory[i] = Word(binary.LittleEndian.Uint16(buf[off:]))
		off += 2
	}
	for i := range m.Registers {
		m.Registers[i] = Word(binary.LittleEndian.Uint16(buf[off:]))
		off += 2
	}
	m.PC = int(binary.LittleEndian.Uint64(buf[off:]))

	var word [2]byte
	for {
		_, err := io.ReadFull(r, word[:])
		if err == io.EOF {
			return m, nil
		}
		if err == io.ErrUnexpectedEOF {
			return nil, ErrSnapshotTruncated
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot stack: %w", err)
		}
		m.Stack = append(m.Stack, Word(binary.LittleEndian.Uint16(word[:])))
	}
}
