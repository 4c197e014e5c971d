// Package vm implements the 15-bit challenge virtual machine.
//
// This package contains:
//   - The register machine itself: 32768 words of memory, 8 registers,
//     an unbounded operand stack and a 22-opcode instruction set
//   - Pluggable byte transports for guest input and output
//   - The program image loader (16-bit little-endian words)
//   - A binary snapshot codec for suspending and resuming execution
//
// Execution is strictly synchronous: callers drive the machine one Step at
// a time, or through Run until the guest halts or faults. On any fault the
// program counter is rolled back to the start of the failing instruction,
// so tooling can inspect or patch state and step again.
package vm
