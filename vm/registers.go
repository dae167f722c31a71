package vm

import "github.com/vc2lab/vc2/encoding"

// Registers holds the four architectural registers: GP0, GP1, FLAG, PC.
type Registers struct {
	GP0  uint32
	GP1  uint32
	Flag uint32
	PC   uint32
}

// Get returns the current value of a register.
func (r *Registers) Get(reg encoding.Reg) uint32 {
	switch reg {
	case encoding.GP0:
		return r.GP0
	case encoding.GP1:
		return r.GP1
	case encoding.FLAG:
		return r.Flag
	case encoding.PC:
		return r.PC
	default:
		return 0
	}
}

// Set writes a new value to a register.
func (r *Registers) Set(reg encoding.Reg, value uint32) {
	switch reg {
	case encoding.GP0:
		r.GP0 = value
	case encoding.GP1:
		r.GP1 = value
	case encoding.FLAG:
		r.Flag = value
	case encoding.PC:
		r.PC = value
	}
}

// Reset zeroes all four registers.
func (r *Registers) Reset() {
	*r = Registers{}
}
