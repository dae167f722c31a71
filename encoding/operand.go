package encoding

import "fmt"

// Selector encodes how an operand is fetched.
type Selector byte

const (
	Register         Selector = 0b00
	Immediate        Selector = 0b01
	RegisterIndirect Selector = 0b10
	ImmediateIndirect Selector = 0b11
)

func (s Selector) String() string {
	switch s {
	case Register:
		return "register"
	case Immediate:
		return "immediate"
	case RegisterIndirect:
		return "register-indirect"
	case ImmediateIndirect:
		return "immediate-indirect"
	default:
		return "invalid-selector"
	}
}

// HasTrailingImmediate reports whether an operand using this selector is
// followed by a 4-byte big-endian immediate in the instruction stream.
func (s Selector) HasTrailingImmediate() bool {
	return s == Immediate || s == ImmediateIndirect
}

// Reg identifies one of the four architectural registers.
type Reg byte

const (
	GP0 Reg = 0b00
	GP1 Reg = 0b01
	FLAG Reg = 0b10
	PC   Reg = 0b11
)

func (r Reg) String() string {
	switch r {
	case GP0:
		return "r0"
	case GP1:
		return "r1"
	case FLAG:
		return "fl"
	case PC:
		return "pc"
	default:
		return fmt.Sprintf("r?%d", byte(r))
	}
}

// RegisterByName resolves a register mnemonic to its Reg value.
func RegisterByName(name string) (Reg, bool) {
	switch name {
	case "r0":
		return GP0, true
	case "r1":
		return GP1, true
	case "fl":
		return FLAG, true
	case "pc":
		return PC, true
	default:
		return 0, false
	}
}

// Operand is the decoded (selector, register, immediate) triple for one
// side of an instruction: Register(idx) | Immediate(word) |
// RegisterIndirect(idx) | ImmediateIndirect(word). Go has no native sum
// type, so the tag (Sel) and payload fields are paired explicitly.
type Operand struct {
	Sel Selector
	// Reg is meaningful when Sel is Register or RegisterIndirect.
	Reg Reg
	// Imm is meaningful when Sel is Immediate or ImmediateIndirect.
	Imm uint32
}

// TwoOpPacket encodes the DDSSRRrr byte for a two-operand instruction:
// destination and source selectors in the high nibble, destination and
// source register indices in the low nibble.
func TwoOpPacket(dstSel Selector, dstReg Reg, srcSel Selector, srcReg Reg) byte {
	return byte(dstSel)<<6 | byte(srcSel)<<4 | byte(dstReg)<<2 | byte(srcReg)
}

// DecodeTwoOpPacket splits a DDSSRRrr byte into destination and source
// selector/register pairs.
func DecodeTwoOpPacket(b byte) (dstSel Selector, dstReg Reg, srcSel Selector, srcReg Reg) {
	dstSel = Selector(b >> 6 & 0b11)
	srcSel = Selector(b >> 4 & 0b11)
	dstReg = Reg(b >> 2 & 0b11)
	srcReg = Reg(b & 0b11)
	return
}

// OneOpPacket encodes the packet byte for a one-operand instruction (NOT,
// JMP): selector in the top two bits, register index in bits [3:2], low
// two bits unused (JMP borrows bit 0 of them for its variant flag). This
// is a DIFFERENT shape from the two-operand packet, not a two-operand
// packet with an unused side.
func OneOpPacket(sel Selector, reg Reg) byte {
	return byte(sel)<<6 | byte(reg)<<2
}

// DecodeOneOpPacket splits a one-operand packet byte into selector and
// register.
func DecodeOneOpPacket(b byte) (sel Selector, reg Reg) {
	sel = Selector(b >> 6 & 0b11)
	reg = Reg(b >> 2 & 0b11)
	return
}

// JumpVariant is the low bit of JMP's one-operand packet.
type JumpVariant byte

const (
	JumpRelative JumpVariant = 0
	JumpAbsolute JumpVariant = 1
)

// JMPPacket encodes JMP's packet: the destination selector/register occupy
// the same bit positions as OneOpPacket; the low bit carries the variant.
func JMPPacket(sel Selector, reg Reg, variant JumpVariant) byte {
	return OneOpPacket(sel, reg) | byte(variant)&0b1
}

// DecodeJMPPacket splits a JMP packet byte into selector, register, and
// variant.
func DecodeJMPPacket(b byte) (sel Selector, reg Reg, variant JumpVariant) {
	sel, reg = DecodeOneOpPacket(b)
	variant = JumpVariant(b & 0b1)
	return
}
