// Package vm implements the VC2 interpreter: a byte-addressed memory, four
// architectural registers, and a fetch-decode-execute loop over the
// opcodes defined in package encoding.
package vm

import (
	"fmt"
	"sync"

	"github.com/vc2lab/vc2/encoding"
)

// VM is one VC2 machine instance. All of its state — memory, registers,
// run state — lives for the duration of one execution; nothing is shared
// across VM instances.
type VM struct {
	// Mu is a coarse lock: Step and every exported mutator take it, so a
	// second thread driving a peripheral (writing memory, poking PC) can
	// safely interleave with execution between steps.
	Mu sync.Mutex

	Registers Registers
	Memory    *Memory

	state         RunState
	haltLocation  uint32

	Trace *ExecutionTrace
}

// NewVM creates a VM with the given memory size, loads image at address 0,
// and starts execution at PC=0. memSize must be at least len(image).
func NewVM(image []byte, memSize int) (*VM, error) {
	if memSize < len(image) {
		return nil, fmt.Errorf("memory size %d is smaller than image length %d", memSize, len(image))
	}
	m := NewMemory(memSize)
	m.LoadImage(image)
	return &VM{Memory: m, state: Running}, nil
}

// State reports whether the VM is Running or Halted.
func (v *VM) State() RunState {
	return v.state
}

// ReadRegister reads a register's value, for peripheral integration.
func (v *VM) ReadRegister(reg encoding.Reg) uint32 {
	v.Mu.Lock()
	defer v.Mu.Unlock()
	return v.Registers.Get(reg)
}

// WriteRegister writes a register's value. Writing PC to a value other
// than the recorded halt location implicitly clears a halt.
func (v *VM) WriteRegister(reg encoding.Reg, value uint32) {
	v.Mu.Lock()
	defer v.Mu.Unlock()
	v.setRegisterLocked(reg, value)
}

func (v *VM) setRegisterLocked(reg encoding.Reg, value uint32) {
	v.Registers.Set(reg, value)
	if reg == encoding.PC && v.state == Halted && value != v.haltLocation {
		v.state = Running
	}
}

// ReadWord reads a 32-bit word from memory, for peripheral integration.
func (v *VM) ReadWord(addr uint32) (uint32, error) {
	v.Mu.Lock()
	defer v.Mu.Unlock()
	return v.Memory.ReadWord(addr)
}

// WriteWord writes a 32-bit word to memory, for peripheral integration —
// e.g. a keyboard peripheral delivering a key event.
func (v *VM) WriteWord(addr uint32, value uint32) error {
	v.Mu.Lock()
	defer v.Mu.Unlock()
	return v.Memory.WriteWord(addr, value)
}
