package asm

// SymbolKind mirrors the internal symbolKind for callers outside this
// package (the tools.Xref cross-referencer) that need to tell a label
// from a %define without reaching into assembler internals.
type SymbolKind int

const (
	SymbolLabel SymbolKind = iota
	SymbolDefine
)

// SymbolInfo describes one entry of the assembler's symbol table, as
// resolved after pass 1.
type SymbolInfo struct {
	Name  string
	Kind  SymbolKind
	Value uint32
	Pos   Position
}

// Reference describes one use of a symbol name inside an operand or data
// directive, independent of whether it was ever successfully resolved.
type Reference struct {
	Name string
	Pos  Position
}

// Analyze runs the lexer, parser, and pass-1 emitter over source and
// returns every declared symbol plus every place a symbol name was
// referenced, without requiring fixup to succeed. This is the hook
// tools.Xref uses to build a cross-reference report; Assemble remains
// the entry point for producing a byte image.
func Analyze(source string) ([]SymbolInfo, []Reference, []*Error) {
	p := newParser(source)
	stmts, perrs := p.parseProgram()
	if perrs.hasErrors() {
		return nil, nil, perrs.errs
	}

	em := newEmitter()
	em.run(stmts)
	if em.errs.hasErrors() {
		return nil, nil, em.errs.errs
	}

	var symbols []SymbolInfo
	for _, s := range em.syms.syms {
		kind := SymbolLabel
		if s.Kind == symbolDefine {
			kind = SymbolDefine
		}
		symbols = append(symbols, SymbolInfo{Name: s.Name, Kind: kind, Value: s.Value, Pos: s.Pos})
	}

	var refs []Reference
	for _, e := range em.entries {
		if e.kind == entryRef {
			name := e.sym
			if len(name) > len(absPrefix) && name[:len(absPrefix)] == absPrefix {
				name = name[len(absPrefix):]
			}
			refs = append(refs, Reference{Name: name, Pos: e.pos})
		}
	}

	return symbols, refs, nil
}
