package solve

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/chazu/synacor/vm"
)

// ---------------------------------------------------------------------------
// Teleporter: inverting the guest's confirmation function
// ---------------------------------------------------------------------------
//
// Using the teleporter runs an Ackermann-like recursive function over
// registers 0 and 1, parameterized by register 7, and compares the result
// against a target baked into the guest. Evaluating it in the guest takes
// geological time for most register-7 values, so the solver evaluates an
// algebraically collapsed form of the same function and scans all 32768
// candidates for the one that satisfies the check.

const (
	// teleporterCheckPC is the address of the call into the confirmation
	// routine, reached after "use teleporter".
	teleporterCheckPC = 5483

	// teleporterResumePC is the address just past that call, where
	// execution continues once the check is skipped.
	teleporterResumePC = 5491
)

// powmod computes x^y mod m by binary exponentiation.
func powmod(x, y, m uint32) uint32 {
	t := uint32(1)
	base := x % m
	for ; y > 0; y >>= 1 {
		if y&1 == 1 {
			t = t * base % m
		}
		base = base * base % m
	}
	return t
}

// ackermann memoizes the guest's confirmation function for one fixed
// register-7 value. All arithmetic is mod 32768, matching the machine.
type ackermann struct {
	r7   uint32
	memo map[[2]uint32]uint32
}

func newAckermann(r7 vm.Word) *ackermann {
	return &ackermann{r7: uint32(r7), memo: make(map[[2]uint32]uint32)}
}

// eval computes the function. The r0 = 1, 2, 3 branches use closed forms
// derived from unrolling the recursion; without them the r0 = 3 case
// recurses tens of thousands of levels deep per candidate.
func (a *ackermann) eval(r0, r1 uint32) uint32 {
	key := [2]uint32{r0, r1}
	if v, ok := a.memo[key]; ok {
		return v
	}

	var v uint32
	switch {
	case r0 == 0:
		v = r1 + 1

	case r1 == 0:
		v = a.eval(r0-1, a.r7)

	// A(1, n) = A(1, 0) + n
	case r0 == 1:
		v = a.eval(1, 0) + r1

	// A(2, n) = n * A(1, 0) + A(2, 0)
	case r0 == 2:
		v = r1*a.eval(1, 0) + a.eval(2, 0)

	// A(3, n) = A(3, 0) * A(1,0)^n + A(2, 0) * sum(A(1,0)^k, k < n)
	case r0 == 3:
		base := a.eval(1, 0)
		var sum uint32
		for k := uint32(0); k < r1; k++ {
			sum = (sum + powmod(base, k, vm.Modulus)) % vm.Modulus
		}
		v = a.eval(3, 0)*powmod(base, r1, vm.Modulus) + a.eval(2, 0)*sum

	default:
		v = a.eval(r0-1, a.eval(r0, r1-1))
	}
	v %= vm.Modulus

	a.memo[key] = v
	return v
}

// SearchCalibration scans all 32768 register-7 candidates for the lowest
// one making the confirmation function produce target for the given
// starting registers. The range is split into disjoint chunks, one
// independent worker (with its own memo table) per chunk. workers <= 0
// means one per CPU.
func SearchCalibration(r0, r1, target vm.Word, workers int) (vm.Word, bool) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunk := (vm.Modulus + workers - 1) / workers

	results := make(chan vm.Word, workers)
	var wg sync.WaitGroup
	for lo := 0; lo < vm.Modulus; lo += chunk {
		hi := lo + chunk
		if hi > vm.Modulus {
			hi = vm.Modulus
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for r7 := lo; r7 < hi; r7++ {
				a := newAckermann(vm.Word(r7))
				if a.eval(uint32(r0), uint32(r1)) == uint32(target) {
					results <- vm.Word(r7)
					return
				}
			}
		}(lo, hi)
	}
	wg.Wait()
	close(results)

	found := false
	var best vm.Word
	for r7 := range results {
		if !found || r7 < best {
			best, found = r7, true
		}
	}
	return best, found
}

// PatchTeleporter drives a machine holding the teleporter up to the
// confirmation call, reads the check's parameters and target out of guest
// memory, searches for the register-7 value that satisfies it, and patches
// the registers so the teleporter goes where it should. The machine is
// left positioned past the skipped check; the caller typically snapshots
// it. Returns the calibration value.
func PatchTeleporter(m *vm.VM, workers int) (vm.Word, error) {
	// Any nonzero value arms the teleporter's alternate destination.
	m.Registers[7] = 0xCA
	if err := m.AppendInput("use teleporter\n"); err != nil {
		return 0, err
	}

	for m.PC != teleporterCheckPC {
		if err := m.Step(); err != nil {
			return 0, fmt.Errorf("reaching the confirmation call: %w", err)
		}
	}

	// The call site sets r0 and r1 from two set instructions ahead of PC.
	r0 := m.Memory[m.PC+2]
	r1 := m.Memory[m.PC+5]

	// Skip the call entirely and read the value the guest compares against.
	m.PC = teleporterResumePC
	target := m.Memory[m.PC+3]

	log.Infof("confirmation check: f(%d, %d) must equal %d", r0, r1, target)

	r7, ok := SearchCalibration(r0, r1, target, workers)
	if !ok {
		return 0, errors.New("no register-7 value satisfies the confirmation check")
	}

	m.Registers[0] = target
	m.Registers[7] = r7
	return r7, nil
}
