package vm

import (
	"fmt"

	"github.com/vc2lab/vc2/encoding"
)

// decoded is one decoded instruction, ready for execute.go to act on.
type decoded struct {
	instructionPC uint32
	op            encoding.Opcode
	// dst/src are populated according to op's shape: zero-op uses
	// neither, one-op (NOT, JMP) uses dst only, two-op uses both.
	dst     encoding.Operand
	src     encoding.Operand
	variant encoding.JumpVariant // meaningful only for JMP
}

// fetchByte reads one byte at the current PC and advances PC by one.
func (v *VM) fetchByte() (byte, error) {
	b, err := v.Memory.ReadByte(v.Registers.PC)
	if err != nil {
		return 0, err
	}
	v.Registers.PC++
	return b, nil
}

// fetchImmediate reads a 4-byte big-endian immediate at the current PC,
// advancing PC by 4: each of the four bytes read advances PC by one.
func (v *VM) fetchImmediate() (uint32, error) {
	val, err := v.Memory.ReadWord(v.Registers.PC)
	if err != nil {
		return 0, fmt.Errorf("insufficient bytes for immediate at 0x%08X: %w", v.Registers.PC, err)
	}
	v.Registers.PC += 4
	return val, nil
}

// operandFromSelector builds an Operand from a decoded selector/register
// pair, reading a trailing immediate from the instruction stream if the
// selector requires one.
func (v *VM) operandFromSelector(sel encoding.Selector, reg encoding.Reg) (encoding.Operand, error) {
	if sel.HasTrailingImmediate() {
		imm, err := v.fetchImmediate()
		if err != nil {
			return encoding.Operand{}, err
		}
		return encoding.Operand{Sel: sel, Imm: imm}, nil
	}
	return encoding.Operand{Sel: sel, Reg: reg}, nil
}

// decode fetches the opcode at PC and its operand packet/immediates,
// advancing PC past everything consumed. instructionPC is the PC value
// before the opcode byte was read — the anchor used by relative JMP.
func (v *VM) decode() (decoded, error) {
	instructionPC := v.Registers.PC
	opByte, err := v.fetchByte()
	if err != nil {
		return decoded{}, err
	}
	op := encoding.Opcode(opByte)
	if !encoding.IsValid(op) {
		return decoded{}, fmt.Errorf("unknown opcode 0x%02X at 0x%08X", opByte, instructionPC)
	}

	d := decoded{instructionPC: instructionPC, op: op}

	switch encoding.ShapeOf(op) {
	case encoding.ShapeZeroOp:
		return d, nil

	case encoding.ShapeOneOp:
		packet, err := v.fetchByte()
		if err != nil {
			return decoded{}, err
		}
		var sel encoding.Selector
		var reg encoding.Reg
		if op == encoding.JMP {
			sel, reg, d.variant = encoding.DecodeJMPPacket(packet)
		} else {
			sel, reg = encoding.DecodeOneOpPacket(packet)
		}
		if op == encoding.NOT && sel == encoding.Immediate {
			return decoded{}, fmt.Errorf("not: immediate selector is invalid at 0x%08X", instructionPC)
		}
		d.dst, err = v.operandFromSelector(sel, reg)
		if err != nil {
			return decoded{}, err
		}
		return d, nil

	default: // ShapeTwoOp
		packet, err := v.fetchByte()
		if err != nil {
			return decoded{}, err
		}
		dstSel, dstReg, srcSel, srcReg := encoding.DecodeTwoOpPacket(packet)
		d.dst, err = v.operandFromSelector(dstSel, dstReg)
		if err != nil {
			return decoded{}, err
		}
		d.src, err = v.operandFromSelector(srcSel, srcReg)
		if err != nil {
			return decoded{}, err
		}
		return d, nil
	}
}
