package asm

import (
	"fmt"

	"github.com/vc2lab/vc2/encoding"
)

// parser turns a token stream into the pseudo-token stmt stream that pass 1
// consumes. It is a recursive-descent parser over a grammar with exactly
// one statement per line.
type parser struct {
	lex    *Lexer
	tok    Token
	peeked *Token
	errs   *errorList
}

func newParser(source string) *parser {
	p := &parser{lex: NewLexer(source), errs: &errorList{}}
	p.advance()
	return p
}

func (p *parser) advance() {
	if p.peeked != nil {
		p.tok = *p.peeked
		p.peeked = nil
		return
	}
	p.tok = p.lex.NextToken()
}

func (p *parser) peek() Token {
	if p.peeked == nil {
		t := p.lex.NextToken()
		p.peeked = &t
	}
	return *p.peeked
}

func (p *parser) errorf(pos Position, kind ErrorKind, format string, args ...interface{}) {
	p.errs.add(NewError(pos, kind, fmt.Sprintf(format, args...)))
}

// parseProgram parses the whole source into a stmt stream. It does not
// stop at the first error: it recovers at the next newline so it can
// collect as many errors as possible in one pass.
func (p *parser) parseProgram() ([]stmt, *errorList) {
	var stmts []stmt
	for p.tok.Type != TokenEOF {
		if p.tok.Type == TokenNewline {
			p.advance()
			continue
		}
		s, ok := p.parseLine()
		if ok {
			stmts = append(stmts, s...)
		}
		p.skipToNewline()
	}
	return stmts, p.errs
}

func (p *parser) skipToNewline() {
	for p.tok.Type != TokenNewline && p.tok.Type != TokenEOF {
		p.advance()
	}
	if p.tok.Type == TokenNewline {
		p.advance()
	}
}

// parseLine parses one line's worth of content. It yields one stmt, or two
// when a label or sub-label is followed by another statement on the same
// line (a db string literal still yields a single stmtDB node carrying all
// its bytes).
func (p *parser) parseLine() ([]stmt, bool) {
	switch {
	case p.tok.Type == TokenPercent:
		return p.parseDirective()
	case p.tok.Type == TokenDot:
		return p.parseSubLabelOrDefine()
	case p.tok.Type == TokenIdent && p.peek().Type == TokenColon:
		return p.parseLabel()
	case p.tok.Type == TokenIdent:
		return p.parseIdentLine()
	case p.tok.Type == TokenIllegal:
		p.errorf(p.tok.Pos, ErrLexical, "invalid token: %s", p.tok.Literal)
		return nil, false
	default:
		p.errorf(p.tok.Pos, ErrSyntactic, "unexpected token")
		return nil, false
	}
}

func (p *parser) parseLabel() ([]stmt, bool) {
	name := p.tok.Literal
	pos := p.tok.Pos
	p.advance() // ident
	p.advance() // colon
	return p.labelTail(stmt{kind: stmtLabel, name: name, pos: pos})
}

// labelTail finishes a label line: the label either stands alone or is
// followed by one more statement on the same line, parsed as usual.
func (p *parser) labelTail(label stmt) ([]stmt, bool) {
	if p.tok.Type == TokenNewline || p.tok.Type == TokenEOF {
		return []stmt{label}, true
	}
	rest, _ := p.parseLine()
	return append([]stmt{label}, rest...), true
}

func (p *parser) parseSubLabelOrDefine() ([]stmt, bool) {
	pos := p.tok.Pos
	p.advance() // consume '.'
	if p.tok.Type != TokenIdent {
		p.errorf(pos, ErrSyntactic, "expected identifier after '.'")
		return nil, false
	}
	name := p.tok.Literal
	namePos := p.tok.Pos
	p.advance()
	if p.tok.Type != TokenColon {
		p.errorf(namePos, ErrSyntactic, "expected ':' after sub-label name")
		return nil, false
	}
	p.advance()
	return p.labelTail(stmt{kind: stmtSubLabel, name: name, pos: pos})
}

func (p *parser) parseDirective() ([]stmt, bool) {
	pos := p.tok.Pos
	p.advance() // consume '%'
	if p.tok.Type != TokenIdent {
		p.errorf(pos, ErrSyntactic, "expected directive name after '%%'")
		return nil, false
	}
	name := p.tok.Literal
	p.advance()

	switch name {
	case "define":
		return p.parseDefine(pos)
	case "offset":
		return p.parseOffset(pos, stmtOffset)
	case "offset_word":
		return p.parseOffset(pos, stmtOffsetWord)
	default:
		p.errorf(pos, ErrSemantic, "unknown preprocessor directive %%%s", name)
		return nil, false
	}
}

func (p *parser) parseDefine(pos Position) ([]stmt, bool) {
	sub := false
	if p.tok.Type == TokenDot {
		sub = true
		p.advance()
	}
	if p.tok.Type != TokenIdent {
		p.errorf(pos, ErrSyntactic, "expected name in %%define")
		return nil, false
	}
	name := p.tok.Literal
	p.advance()
	if p.tok.Type != TokenNumber {
		p.errorf(pos, ErrSyntactic, "expected numeric value in %%define")
		return nil, false
	}
	val := p.tok.Value
	p.advance()
	p.ensureNoDanglingArguments()
	kind := stmtDefine
	if sub {
		kind = stmtSubDefine
	}
	return []stmt{{kind: kind, name: name, val: val, pos: pos}}, true
}

func (p *parser) parseOffset(pos Position, kind stmtKind) ([]stmt, bool) {
	if p.tok.Type != TokenNumber {
		p.errorf(pos, ErrSyntactic, "expected numeric count in offset directive")
		return nil, false
	}
	n := p.tok.Value
	p.advance()
	p.ensureNoDanglingArguments()
	return []stmt{{kind: kind, val: n, pos: pos}}, true
}

// parseIdentLine handles everything that starts with a bare identifier:
// `db`, `dw`, or an instruction mnemonic.
func (p *parser) parseIdentLine() ([]stmt, bool) {
	name := p.tok.Literal
	pos := p.tok.Pos

	switch name {
	case "db":
		p.advance()
		return p.parseDB(pos)
	case "dw":
		p.advance()
		return p.parseDW(pos)
	default:
		return p.parseInstruction(pos)
	}
}

func (p *parser) parseDB(pos Position) ([]stmt, bool) {
	var out []byte
	for {
		switch p.tok.Type {
		case TokenNumber:
			if p.tok.Value > 255 {
				p.errorf(p.tok.Pos, ErrNumeric, "db value %d exceeds a byte (0-255)", p.tok.Value)
				return nil, false
			}
			out = append(out, byte(p.tok.Value))
			p.advance()
		case TokenString:
			bs, err := unquoteString(p.tok.Literal)
			if err != nil {
				p.errorf(p.tok.Pos, ErrLexical, "invalid escape in string literal: %v", err)
				return nil, false
			}
			out = append(out, bs...)
			p.advance()
		default:
			p.errorf(p.tok.Pos, ErrSyntactic, "expected byte value or string in db")
			return nil, false
		}
		if p.tok.Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	p.ensureNoDanglingArguments()
	return []stmt{{kind: stmtDB, bytes: out, pos: pos}}, true
}

func (p *parser) parseDW(pos Position) ([]stmt, bool) {
	operand, ok := p.parseOperand()
	if !ok {
		return nil, false
	}
	if operand.isReg || operand.indirect {
		p.errorf(pos, ErrSyntactic, "dw requires a numeric or symbol value, not a register or indirect operand")
		return nil, false
	}
	p.ensureNoDanglingArguments()
	return []stmt{{kind: stmtDW, dw: operand, pos: pos}}, true
}

func (p *parser) parseInstruction(pos Position) ([]stmt, bool) {
	mnemonic := p.tok.Literal
	p.advance()

	jumpAbs := false
	lookupName := mnemonic
	if mnemonic == "jmpabs" {
		jumpAbs = true
		lookupName = "jmp"
	}
	op, known := encoding.Lookup(lookupName)
	if !known {
		p.errorf(pos, ErrSemantic, "unknown mnemonic %q", mnemonic)
		return nil, false
	}

	wantOperands := operandCountFor(op)
	var operands []operandExpr
	for i := 0; i < wantOperands; i++ {
		if i > 0 {
			if p.tok.Type != TokenComma {
				p.errorf(p.tok.Pos, ErrSyntactic, "missing ',' between operands")
				return nil, false
			}
			p.advance()
		}
		operand, ok := p.parseOperand()
		if !ok {
			return nil, false
		}
		operands = append(operands, operand)
	}
	p.ensureNoDanglingArguments()

	return []stmt{{kind: stmtInstr, mnemonic: lookupName, operands: operands, jumpAbs: jumpAbs, pos: pos}}, true
}

func operandCountFor(op encoding.Opcode) int {
	switch encoding.ShapeOf(op) {
	case encoding.ShapeZeroOp:
		return 0
	case encoding.ShapeOneOp:
		return 1
	default:
		return 2
	}
}

func (p *parser) parseOperand() (operandExpr, bool) {
	pos := p.tok.Pos
	if p.tok.Type == TokenLBracket {
		p.advance()
		inner, ok := p.parseOperandAtom(pos)
		if !ok {
			return operandExpr{}, false
		}
		if p.tok.Type != TokenRBracket {
			p.errorf(pos, ErrSyntactic, "unclosed '['")
			return operandExpr{}, false
		}
		p.advance()
		inner.indirect = true
		return inner, true
	}
	return p.parseOperandAtom(pos)
}

func (p *parser) parseOperandAtom(pos Position) (operandExpr, bool) {
	switch p.tok.Type {
	case TokenNumber:
		v := p.tok.Value
		p.advance()
		return operandExpr{isNumber: true, number: v, pos: pos}, true
	case TokenIdent:
		lit := p.tok.Literal
		if reg, ok := encoding.RegisterByName(lit); ok {
			p.advance()
			return operandExpr{isReg: true, reg: reg, pos: pos}, true
		}
		p.advance()
		return operandExpr{isSymbol: true, symbolName: lit, pos: pos}, true
	case TokenDot:
		p.advance()
		if p.tok.Type != TokenIdent {
			p.errorf(pos, ErrSyntactic, "expected identifier after '.' in operand")
			return operandExpr{}, false
		}
		name := p.tok.Literal
		p.advance()
		return operandExpr{isSymbol: true, symbolName: name, subRef: true, pos: pos}, true
	default:
		p.errorf(pos, ErrSyntactic, "expected an operand")
		return operandExpr{}, false
	}
}

// ensureNoDanglingArguments is called uniformly after every top-level
// token so stray trailing text is always diagnosed rather than silently
// ignored.
func (p *parser) ensureNoDanglingArguments() {
	if p.tok.Type != TokenNewline && p.tok.Type != TokenEOF {
		p.errorf(p.tok.Pos, ErrSyntactic, "unexpected trailing token %q", p.tok.Literal)
	}
}
