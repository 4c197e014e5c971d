package vm

import (
	"fmt"
	"io"
)

// Word is the machine's native integer. Stored values (memory cells,
// registers, stack entries) are always literals in [0, 32767]. Instruction
// operands additionally use [32768, 32775] to name registers 0-7; anything
// above that range is invalid.
type Word uint16

const (
	// MemorySize is the number of addressable memory cells.
	MemorySize = 1 << 15

	// NumRegisters is the size of the register file.
	NumRegisters = 8

	// Modulus is the wrap point for all arithmetic.
	Modulus = 1 << 15

	// MaxLiteral is the largest literal operand value.
	MaxLiteral = Modulus - 1

	// registerBase is the operand value naming register 0.
	registerBase = Modulus
)

// Opcodes, in instruction-set order.
const (
	opHalt Word = iota
	opSet
	opPush
	opPop
	opEq
	opGt
	opJmp
	opJt
	opJf
	opAdd
	opMult
	opMod
	opAnd
	opOr
	opNot
	opRmem
	opWmem
	opCall
	opRet
	opOut
	opIn
	opNoop
)

// ---------------------------------------------------------------------------
// VM: the challenge machine
// ---------------------------------------------------------------------------

// VM is a single guest machine. The state fields are exported so that
// debugging and solver tooling can inspect and patch them between steps;
// during a step the machine owns them exclusively.
type VM struct {
	Memory    [MemorySize]Word
	Registers [NumRegisters]Word
	Stack     []Word
	PC        int

	input  Source
	output Sink
}

// New creates a machine running the given program image, with all other
// state zeroed. The image is a flat sequence of 16-bit little-endian words
// loaded verbatim from address 0; a trailing odd byte is ignored, and
// anything beyond the address space is dropped.
func New(image []byte, in Source, out Sink) *VM {
	m := &VM{input: in, output: out}
	for i := 0; i+1 < len(image) && i/2 < MemorySize; i += 2 {
		m.Memory[i/2] = Word(image[i]) | Word(image[i+1])<<8
	}
	return m
}

// Clone returns an independent copy of the machine. Buffer transports are
// deep-copied, cursors included, so the copy's input queue and output
// history evolve separately; any other transport is shared with the
// original. Solver walkers fork one clone per branch explored.
func (m *VM) Clone() *VM {
	c := &VM{
		Memory:    m.Memory,
		Registers: m.Registers,
		Stack:     append([]Word(nil), m.Stack...),
		PC:        m.PC,
		input:     m.input,
		output:    m.output,
	}
	if b, ok := m.input.(*Buffer); ok {
		c.input = b.Clone()
	}
	if b, ok := m.output.(*Buffer); ok {
		c.output = b.Clone()
	}
	return c
}

// InputBuffer returns the input transport as a *Buffer, or nil if the
// machine reads from something else.
func (m *VM) InputBuffer() *Buffer {
	b, _ := m.input.(*Buffer)
	return b
}

// OutputBuffer returns the output transport as a *Buffer, or nil if the
// machine writes to something else.
func (m *VM) OutputBuffer() *Buffer {
	b, _ := m.output.(*Buffer)
	return b
}

// AppendInput queues s behind any input the guest has not consumed yet.
// It fails with ErrNotBuffered unless the machine reads from a Buffer.
func (m *VM) AppendInput(s string) error {
	b := m.InputBuffer()
	if b == nil {
		return ErrNotBuffered
	}
	_, err := b.WriteString(s)
	return err
}

// Output returns every byte the guest has ever written, provided the
// machine writes to a Buffer; otherwise nil.
func (m *VM) Output() []byte {
	b := m.OutputBuffer()
	if b == nil {
		return nil
	}
	return b.Bytes()
}

// ---------------------------------------------------------------------------
// Operand addressing
// ---------------------------------------------------------------------------

// load resolves an operand: literals resolve to themselves, register
// operands to the register's contents.
func (m *VM) load(operand Word) (Word, error) {
	switch {
	case operand <= MaxLiteral:
		return operand, nil
	case operand < registerBase+NumRegisters:
		return m.Registers[operand-registerBase], nil
	default:
		return 0, &InvalidLoadError{Operand: operand}
	}
}

// set resolves src through load and writes the result into the register
// named by dest. Destinations are always registers.
func (m *VM) set(dest, src Word) error {
	v, err := m.load(src)
	if err != nil {
		return err
	}
	if dest < registerBase || dest >= registerBase+NumRegisters {
		return &InvalidStoreError{Operand: dest}
	}
	m.Registers[dest-registerBase] = v
	return nil
}

// ---------------------------------------------------------------------------
// Fetch
// ---------------------------------------------------------------------------

// fetch reads the word at PC and advances past it. A PC outside the address
// space faults here rather than panicking, which is how a wild jump is
// eventually caught.
func (m *VM) fetch() (Word, error) {
	if m.PC < 0 || m.PC >= MemorySize {
		return 0, &InvalidLoadError{Operand: Word(m.PC)}
	}
	v := m.Memory[m.PC]
	m.PC++
	return v, nil
}

func (m *VM) fetch2() (a, b Word, err error) {
	if a, err = m.fetch(); err != nil {
		return
	}
	b, err = m.fetch()
	return
}

func (m *VM) fetch3() (a, b, c Word, err error) {
	if a, b, err = m.fetch2(); err != nil {
		return
	}
	c, err = m.fetch()
	return
}

// ---------------------------------------------------------------------------
// Execution
// ---------------------------------------------------------------------------

// Step executes exactly one instruction. On any error, ErrHalt included,
// PC is rolled back to the start of the instruction: the failing (or
// halting) instruction has not been consumed, so a caller may patch state
// and step again, and a machine halted by input exhaustion resumes at the
// same in instruction once more input is appended.
func (m *VM) Step() error {
	prev := m.PC
	if err := m.step(); err != nil {
		m.PC = prev
		return err
	}
	return nil
}

// Run steps until the guest halts or faults. A halt returns nil; any other
// error is returned as-is with PC pointing at the faulting instruction.
func (m *VM) Run() error {
	for {
		if err := m.Step(); err != nil {
			if err == ErrHalt {
				return nil
			}
			return err
		}
	}
}

func (m *VM) step() error {
	opcode, err := m.fetch()
	if err != nil {
		return err
	}

	switch opcode {
	case opHalt:
		return ErrHalt

	case opSet:
		a, b, err := m.fetch2()
		if err != nil {
			return err
		}
		return m.set(a, b)

	case opPush:
		a, err := m.fetch()
		if err != nil {
			return err
		}
		v, err := m.load(a)
		if err != nil {
			return err
		}
		m.Stack = append(m.Stack, v)

	case opPop:
		a, err := m.fetch()
		if err != nil {
			return err
		}
		if len(m.Stack) == 0 {
			return ErrStackUnderflow
		}
		top := m.Stack[len(m.Stack)-1]
		m.Stack = m.Stack[:len(m.Stack)-1]
		return m.set(a, top)

	case opEq, opGt:
		a, b, c, err := m.fetch3()
		if err != nil {
			return err
		}
		vb, err := m.load(b)
		if err != nil {
			return err
		}
		vc, err := m.load(c)
		if err != nil {
			return err
		}
		var r Word
		if (opcode == opEq && vb == vc) || (opcode == opGt && vb > vc) {
			r = 1
		}
		return m.set(a, r)

	case opJmp:
		a, err := m.fetch()
		if err != nil {
			return err
		}
		return m.jump(a)

	case opJt, opJf:
		a, b, err := m.fetch2()
		if err != nil {
			return err
		}
		v, err := m.load(a)
		if err != nil {
			return err
		}
		if (opcode == opJt) == (v != 0) {
			return m.jump(b)
		}

	case opAdd, opMult, opMod, opAnd, opOr:
		a, b, c, err := m.fetch3()
		if err != nil {
			return err
		}
		vb, err := m.load(b)
		if err != nil {
			return err
		}
		vc, err := m.load(c)
		if err != nil {
			return err
		}
		// Widen before reducing: mult overflows 16 bits.
		x, y := uint32(vb), uint32(vc)
		var r uint32
		switch opcode {
		case opAdd:
			r = (x + y) % Modulus
		case opMult:
			r = (x * y) % Modulus
		case opMod:
			if y == 0 {
				return ErrDivideByZero
			}
			r = x % y
		case opAnd:
			r = x & y
		case opOr:
			r = x | y
		}
		return m.set(a, Word(r))

	case opNot:
		a, b, err := m.fetch2()
		if err != nil {
			return err
		}
		v, err := m.load(b)
		if err != nil {
			return err
		}
		return m.set(a, ^v&MaxLiteral)

	case opRmem:
		a, b, err := m.fetch2()
		if err != nil {
			return err
		}
		addr, err := m.load(b)
		if err != nil {
			return err
		}
		return m.set(a, m.Memory[addr])

	case opWmem:
		a, b, err := m.fetch2()
		if err != nil {
			return err
		}
		addr, err := m.load(a)
		if err != nil {
			return err
		}
		v, err := m.load(b)
		if err != nil {
			return err
		}
		m.Memory[addr] = v

	case opCall:
		a, err := m.fetch()
		if err != nil {
			return err
		}
		m.Stack = append(m.Stack, Word(m.PC))
		return m.jump(a)

	case opRet:
		if len(m.Stack) == 0 {
			return ErrHalt
		}
		top := m.Stack[len(m.Stack)-1]
		m.Stack = m.Stack[:len(m.Stack)-1]
		m.PC = int(top)

	case opOut:
		a, err := m.fetch()
		if err != nil {
			return err
		}
		v, err := m.load(a)
		if err != nil {
			return err
		}
		if err := m.output.WriteByte(byte(v)); err != nil {
			return fmt.Errorf("output transport: %w", err)
		}

	case opIn:
		a, err := m.fetch()
		if err != nil {
			return err
		}
		var c byte
		for {
			c, err = m.input.ReadByte()
			if err == io.EOF {
				// A finite input script ran out: clean termination.
				return ErrHalt
			}
			if err != nil {
				return fmt.Errorf("input transport: %w", err)
			}
			if c != '\r' {
				break
			}
		}
		return m.set(a, Word(c))

	case opNoop:

	default:
		return &UnknownOpcodeError{Opcode: opcode}
	}
	return nil
}

// jump resolves the operand and moves PC there.
func (m *VM) jump(operand Word) error {
	target, err := m.load(operand)
	if err != nil {
		return err
	}
	m.PC = int(target)
	return nil
}
