package asm

import "github.com/vc2lab/vc2/encoding"

// stmtKind tags the pseudo-token stream node produced by the parser and
// consumed by pass 1 (emit.go).
type stmtKind int

const (
	stmtLabel stmtKind = iota
	stmtSubLabel
	stmtDefine
	stmtSubDefine
	stmtOffset
	stmtOffsetWord
	stmtDB
	stmtDW
	stmtInstr
)

// operandExpr is a parsed, not-yet-resolved operand: either a register, a
// literal number, or a symbol reference (possibly a sub-symbol, possibly
// wrapped in brackets for an indirect access).
type operandExpr struct {
	indirect bool

	isReg bool
	reg   encoding.Reg

	isNumber bool
	number   uint32

	isSymbol bool
	// symbolName is the raw identifier text as written, including any
	// abs_ prefix and excluding any leading '.' — subRef records whether
	// the source wrote a leading '.'.
	symbolName string
	subRef     bool

	pos Position
}

// stmt is one pseudo-token in the stream the parser produces. Exactly one
// of the kind-specific field groups is populated, selected by kind.
type stmt struct {
	kind stmtKind
	pos  Position

	name string // stmtLabel, stmtSubLabel, stmtDefine, stmtSubDefine
	val  uint32 // stmtDefine, stmtSubDefine, stmtOffset, stmtOffsetWord

	bytes []byte // stmtDB

	dw operandExpr // stmtDW — a literal number or a symbol, never a register or indirect

	mnemonic string        // stmtInstr
	operands []operandExpr // stmtInstr
	jumpAbs  bool          // stmtInstr, only meaningful for jmp/jmpabs
}
