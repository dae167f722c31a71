package asm

import (
	"fmt"

	"github.com/vc2lab/vc2/encoding"
)

// emitter runs pass 1: it walks the stmt stream, maintains the running
// byte count and the most recently seen top-level label, and produces the
// intermediate entry stream plus the symbol table pass 2 will consult.
type emitter struct {
	entries      []entry
	syms         *symbolTable
	currentLabel string
	haveLabel    bool
	errs         *errorList
}

func newEmitter() *emitter {
	return &emitter{syms: newSymbolTable(), errs: &errorList{}}
}

func (e *emitter) length() uint32 {
	return uint32(len(e.entries))
}

func (e *emitter) emitByte(b byte) {
	e.entries = append(e.entries, entry{kind: entryByte, b: b})
}

func (e *emitter) emitBytes(bs []byte) {
	for _, b := range bs {
		e.emitByte(b)
	}
}

func (e *emitter) emitWordLiteral(v uint32) {
	e.emitBytes([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

func (e *emitter) emitRef(sym string, anchor uint32, pos Position) {
	e.entries = append(e.entries, entry{kind: entryRef, sym: sym, anchor: anchor, pos: pos})
	e.entries = append(e.entries, entry{kind: entryRefPad}, entry{kind: entryRefPad}, entry{kind: entryRefPad})
}

func (e *emitter) errorf(pos Position, kind ErrorKind, format string, args ...interface{}) {
	e.errs.add(NewError(pos, kind, fmt.Sprintf(format, args...)))
}

// run executes pass 1 over the full stmt stream.
func (e *emitter) run(stmts []stmt) {
	for _, s := range stmts {
		e.emitStmt(s)
	}
}

func (e *emitter) emitStmt(s stmt) {
	switch s.kind {
	case stmtLabel:
		if err := e.syms.defineLabel(s.name, e.length(), s.pos); err != nil {
			e.errs.add(err)
		}
		e.currentLabel = s.name
		e.haveLabel = true

	case stmtSubLabel:
		if !e.haveLabel {
			e.errorf(s.pos, ErrSemantic, "sub-label %q with no active parent label", s.name)
			return
		}
		key := e.currentLabel + "@" + s.name
		if err := e.syms.defineLabel(key, e.length(), s.pos); err != nil {
			e.errs.add(err)
		}

	case stmtDefine:
		if err := e.syms.defineConstant(s.name, s.val, s.pos); err != nil {
			e.errs.add(err)
		}

	case stmtSubDefine:
		if !e.haveLabel {
			e.errorf(s.pos, ErrSemantic, "sub-constant %%define .%s with no active parent label", s.name)
			return
		}
		key := e.currentLabel + "@" + s.name
		if err := e.syms.defineConstant(key, s.val, s.pos); err != nil {
			e.errs.add(err)
		}

	case stmtOffset:
		for i := uint32(0); i < s.val; i++ {
			e.emitByte(0)
		}

	case stmtOffsetWord:
		for i := uint32(0); i < s.val*4; i++ {
			e.emitByte(0)
		}

	case stmtDB:
		e.emitBytes(s.bytes)

	case stmtDW:
		e.emitOperandValue(s.dw)

	case stmtInstr:
		e.emitInstr(s)
	}
}

// emitOperandValue emits the literal-or-reference 4 bytes for a bare
// (non-indirect, non-register) operand, used by `dw`.
func (e *emitter) emitOperandValue(op operandExpr) {
	if op.isNumber {
		e.emitWordLiteral(op.number)
		return
	}
	e.emitRef(e.symbolKey(op), e.length(), op.pos)
}

func (e *emitter) symbolKey(op operandExpr) string {
	if op.subRef {
		return e.currentLabel + "@" + op.symbolName
	}
	return op.symbolName
}

func (e *emitter) resolveSelector(op operandExpr) (encoding.Selector, encoding.Reg) {
	switch {
	case op.indirect && op.isReg:
		return encoding.RegisterIndirect, op.reg
	case op.indirect:
		return encoding.ImmediateIndirect, 0
	case op.isReg:
		return encoding.Register, op.reg
	default:
		return encoding.Immediate, 0
	}
}

// emitOperandTrailer emits the 4-byte trailer for an operand whose
// selector requires one (Immediate or ImmediateIndirect), using the
// instruction's anchor offset for any symbol reference.
func (e *emitter) emitOperandTrailer(op operandExpr, sel encoding.Selector, anchor uint32) {
	if !sel.HasTrailingImmediate() {
		return
	}
	if op.isNumber {
		e.emitWordLiteral(op.number)
		return
	}
	e.emitRef(e.symbolKey(op), anchor, op.pos)
}

func (e *emitter) emitInstr(s stmt) {
	op, _ := encoding.Lookup(s.mnemonic)
	anchor := e.length()
	e.emitByte(byte(op))

	switch encoding.ShapeOf(op) {
	case encoding.ShapeZeroOp:
		// nothing further

	case encoding.ShapeOneOp:
		operand := s.operands[0]
		sel, reg := e.resolveSelector(operand)
		if op == encoding.NOT && sel == encoding.Immediate {
			e.errorf(s.pos, ErrSemantic, "not does not accept a plain immediate operand")
			return
		}
		if op == encoding.JMP {
			variant := encoding.JumpRelative
			if s.jumpAbs {
				variant = encoding.JumpAbsolute
			}
			e.emitByte(encoding.JMPPacket(sel, reg, variant))
		} else {
			e.emitByte(encoding.OneOpPacket(sel, reg))
		}
		e.emitOperandTrailer(operand, sel, anchor)

	case encoding.ShapeTwoOp:
		dst, src := s.operands[0], s.operands[1]
		dstSel, dstReg := e.resolveSelector(dst)
		srcSel, srcReg := e.resolveSelector(src)
		e.emitByte(encoding.TwoOpPacket(dstSel, dstReg, srcSel, srcReg))
		e.emitOperandTrailer(dst, dstSel, anchor)
		e.emitOperandTrailer(src, srcSel, anchor)
	}
}
