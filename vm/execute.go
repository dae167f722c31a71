package vm

import (
	"fmt"

	"github.com/vc2lab/vc2/encoding"
)

// evaluate reads an operand's value according to its selector: a register,
// an immediate, or a memory word addressed by either.
func (v *VM) evaluate(o encoding.Operand) (uint32, error) {
	switch o.Sel {
	case encoding.Register:
		return v.Registers.Get(o.Reg), nil
	case encoding.Immediate:
		return o.Imm, nil
	case encoding.RegisterIndirect:
		return v.Memory.ReadWord(v.Registers.Get(o.Reg))
	case encoding.ImmediateIndirect:
		return v.Memory.ReadWord(o.Imm)
	default:
		return 0, fmt.Errorf("invalid selector %v", o.Sel)
	}
}

// writeLvalue writes a value to an operand's lvalue. Immediate operands
// have no lvalue and are rejected.
func (v *VM) writeLvalue(o encoding.Operand, value uint32) error {
	switch o.Sel {
	case encoding.Register:
		v.setRegisterLocked(o.Reg, value)
		return nil
	case encoding.Immediate:
		return fmt.Errorf("immediate operand has no lvalue")
	case encoding.RegisterIndirect:
		return v.Memory.WriteWord(v.Registers.Get(o.Reg), value)
	case encoding.ImmediateIndirect:
		return v.Memory.WriteWord(o.Imm, value)
	default:
		return fmt.Errorf("invalid selector %v", o.Sel)
	}
}

// Step executes exactly one instruction, or returns an error describing
// why it could not: out-of-range memory access, a decode failure, or
// running out of instructions. On error the VM is left at the state
// immediately before the failing byte, so callers can inspect it.
func (v *VM) Step() error {
	v.Mu.Lock()
	defer v.Mu.Unlock()

	if int(v.Registers.PC) >= v.Memory.Size() {
		return fmt.Errorf("out of instructions: pc 0x%08X >= memory size 0x%08X", v.Registers.PC, v.Memory.Size())
	}

	if v.state == Halted && v.Registers.PC == v.haltLocation {
		return nil
	}
	if v.state == Halted {
		// PC was externally moved away from the halt location; resume.
		v.state = Running
	}

	startPC := v.Registers.PC
	d, err := v.decode()
	if err != nil {
		v.Registers.PC = startPC
		return err
	}

	if v.Trace != nil {
		v.Trace.Record(d.instructionPC, d.op)
	}

	if err := v.execute(d); err != nil {
		v.Registers.PC = d.instructionPC
		return err
	}
	return nil
}

func (v *VM) execute(d decoded) error {
	switch d.op {
	case encoding.NOP:
		return nil

	case encoding.HLT:
		v.state = Halted
		v.haltLocation = v.Registers.PC
		return nil

	case encoding.MOV:
		val, err := v.evaluate(d.src)
		if err != nil {
			return err
		}
		return v.writeLvalue(d.dst, val)

	case encoding.NOT:
		cur, err := v.evaluate(d.dst)
		if err != nil {
			return err
		}
		return v.writeLvalue(d.dst, ^cur)

	case encoding.OR, encoding.AND, encoding.XOR, encoding.SHL, encoding.SHR,
		encoding.MUL, encoding.IMUL, encoding.DIV, encoding.IDIV, encoding.REM:
		return v.executeBinaryOp(d)

	case encoding.ADD:
		return v.executeAddSub(d, false)

	case encoding.SUB:
		return v.executeAddSub(d, true)

	case encoding.CMP:
		return v.executeCmp(d)

	case encoding.JMP:
		return v.executeJmp(d)

	case encoding.JZ:
		return v.executeConditionalJump(d, true)

	case encoding.JNZ:
		return v.executeConditionalJump(d, false)

	default:
		return fmt.Errorf("unimplemented opcode %v", d.op)
	}
}

func (v *VM) executeBinaryOp(d decoded) error {
	dst, err := v.evaluate(d.dst)
	if err != nil {
		return err
	}
	src, err := v.evaluate(d.src)
	if err != nil {
		return err
	}

	var result uint32
	switch d.op {
	case encoding.OR:
		result = dst | src
	case encoding.AND:
		result = dst & src
	case encoding.XOR:
		result = dst ^ src
	case encoding.SHL:
		result = dst << src
	case encoding.SHR:
		result = dst >> src
	case encoding.MUL:
		result = dst * src
	case encoding.IMUL:
		result = AsUint32(AsInt32(dst) * AsInt32(src))
	case encoding.DIV:
		if src == 0 {
			return fmt.Errorf("division by zero")
		}
		result = dst / src
	case encoding.IDIV:
		if src == 0 {
			return fmt.Errorf("division by zero")
		}
		result = AsUint32(AsInt32(dst) / AsInt32(src))
	case encoding.REM:
		if src == 0 {
			return fmt.Errorf("division by zero")
		}
		result = dst % src
	}
	return v.writeLvalue(d.dst, result)
}

// executeAddSub implements ADD and SUB, which share a carry/borrow-in-out
// shape: both read FLAG's carry bit as input, and write only that bit as
// output, leaving every other FLAG bit untouched.
func (v *VM) executeAddSub(d decoded, subtract bool) error {
	dst, err := v.evaluate(d.dst)
	if err != nil {
		return err
	}
	src, err := v.evaluate(d.src)
	if err != nil {
		return err
	}

	carryIn := uint64(0)
	if Carry(v.Registers.Flag) {
		carryIn = 1
	}

	var wide uint64
	var carryOut bool
	if subtract {
		sub := uint64(src) + carryIn
		carryOut = uint64(dst) < sub
		wide = uint64(dst) - sub // wraps mod 2^64, low 32 bits are correct mod 2^32
	} else {
		wide = uint64(dst) + uint64(src) + carryIn
		carryOut = wide > 0xFFFFFFFF
	}
	result := uint32(wide)

	v.Registers.Flag = WithCarry(v.Registers.Flag, carryOut)
	return v.writeLvalue(d.dst, result)
}

func (v *VM) executeCmp(d decoded) error {
	dst, err := v.evaluate(d.dst)
	if err != nil {
		return err
	}
	src, err := v.evaluate(d.src)
	if err != nil {
		return err
	}
	equal := dst == src
	less := AsInt32(dst) < AsInt32(src)
	below := dst < src
	v.Registers.Flag = CompareFlags(equal, less, below)
	return nil
}

func (v *VM) executeJmp(d decoded) error {
	target, err := v.evaluate(d.dst)
	if err != nil {
		return err
	}
	if d.variant == encoding.JumpAbsolute {
		v.Registers.PC = target
	} else {
		v.Registers.PC = d.instructionPC + target
	}
	return nil
}

// executeConditionalJump implements JZ (wantZero=true) and JNZ
// (wantZero=false). The destination operand is always an absolute target,
// even though the assembler computes it as a PC-relative delta at emit
// time — the two ends are coupled by convention, not by the VM enforcing
// absoluteness itself.
func (v *VM) executeConditionalJump(d decoded, wantZero bool) error {
	dstVal, err := v.evaluate(d.dst)
	if err != nil {
		return err
	}
	srcVal, err := v.evaluate(d.src)
	if err != nil {
		return err
	}
	take := (srcVal == 0) == wantZero
	if take {
		v.Registers.PC = dstVal
	}
	return nil
}
