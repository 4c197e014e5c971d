package vm

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Machine Error Types
// ---------------------------------------------------------------------------

var (
	// ErrHalt signals normal guest termination: the halt opcode, a ret on an
	// empty stack, or input exhaustion during an in opcode. It is a terminal
	// state, not a fault; run loops must treat it as success.
	ErrHalt = errors.New("program halted")

	// ErrStackUnderflow is returned by the pop opcode when the operand stack
	// is empty.
	ErrStackUnderflow = errors.New("pop from an empty stack")

	// ErrDivideByZero is returned by the mod opcode when the divisor
	// operand resolves to zero.
	ErrDivideByZero = errors.New("mod by zero")

	// ErrNotBuffered is returned when a caller asks for buffered input or
	// output on a machine wired to non-buffer transports.
	ErrNotBuffered = errors.New("transport is not an in-memory buffer")

	// ErrSnapshotTruncated indicates a snapshot stream that ended inside the
	// fixed-size portion of the layout.
	ErrSnapshotTruncated = errors.New("snapshot truncated")
)

// InvalidLoadError reports an operand outside the literal and register
// ranges, or an instruction fetch past the end of the address space.
type InvalidLoadError struct {
	Operand Word
}

func (e *InvalidLoadError) Error() string {
	return fmt.Sprintf("invalid load from %#x", uint16(e.Operand))
}

// InvalidStoreError reports a destination operand that does not name a
// register.
type InvalidStoreError struct {
	Operand Word
}

func (e *InvalidStoreError) Error() string {
	return fmt.Sprintf("invalid store to %#x", uint16(e.Operand))
}

// UnknownOpcodeError reports an opcode word outside the instruction set.
type UnknownOpcodeError struct {
	Opcode Word
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %d", uint16(e.Opcode))
}
