package asm

// Assemble converts VC2 assembly source into a flat byte image. On
// success it returns the image and a nil error slice. On failure it
// returns a nil image and every error collected during parsing, emission,
// or fixup: no byte image is ever returned alongside errors.
func Assemble(source string) ([]byte, []*Error) {
	p := newParser(source)
	stmts, perrs := p.parseProgram()
	if perrs.hasErrors() {
		return nil, perrs.errs
	}

	em := newEmitter()
	em.run(stmts)
	if em.errs.hasErrors() {
		return nil, em.errs.errs
	}

	image, ferrs := fixup(em.entries, em.syms)
	if len(ferrs) > 0 {
		return nil, ferrs
	}

	// Emitted byte count must equal intermediate entry count. This holds
	// by construction (see fixup.go) but is asserted here as a contract.
	if len(image) != len(em.entries) {
		return nil, []*Error{NewError(Position{}, ErrSemantic,
			"internal error: emitted byte count does not match intermediate entry count")}
	}

	return image, nil
}
