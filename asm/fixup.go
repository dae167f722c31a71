package asm

import "strings"

const absPrefix = "abs_"

// fixup runs pass 2: it streams the intermediate entries, passing bytes
// through unchanged and resolving each Ref to its final 4-byte big-endian
// value. The emitted-byte-count-equals-entry-count invariant falls out
// directly from this loop: every entryByte contributes one byte and every
// entryRef+3×entryRefPad group contributes exactly four.
func fixup(entries []entry, syms *symbolTable) ([]byte, []*Error) {
	errs := &errorList{}
	out := make([]byte, 0, len(entries))

	for i := 0; i < len(entries); i++ {
		ent := entries[i]
		switch ent.kind {
		case entryByte:
			out = append(out, ent.b)

		case entryRef:
			val, ok := resolveRef(ent, syms, errs)
			if !ok {
				val = 0
			}
			out = append(out, byte(val>>24), byte(val>>16), byte(val>>8), byte(val))
			// consume the three RefPad entries that must follow
			for j := 0; j < 3; j++ {
				i++
				if i >= len(entries) || entries[i].kind != entryRefPad {
					errs.add(NewError(ent.pos, ErrSemantic, "corrupt intermediate stream: missing RefPad after Ref"))
					break
				}
			}

		case entryRefPad:
			errs.add(NewError(ent.pos, ErrSemantic, "corrupt intermediate stream: unexpected RefPad"))
		}
	}

	if errs.hasErrors() {
		return nil, errs.errs
	}
	return out, nil
}

func resolveRef(ent entry, syms *symbolTable, errs *errorList) (uint32, bool) {
	name := ent.sym
	absolute := false
	if strings.HasPrefix(name, absPrefix) {
		absolute = true
		name = name[len(absPrefix):]
	}

	sym, ok := syms.lookup(name)
	if !ok {
		errs.add(NewError(ent.pos, ErrSemantic, "undefined symbol: "+name))
		return 0, false
	}

	if sym.Kind == symbolDefine {
		return sym.Value, true
	}

	// Label.
	if absolute {
		return sym.Value, true
	}
	return uint32(int32(sym.Value) - int32(ent.anchor)), true
}
