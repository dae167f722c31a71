// Package tools implements a symbol cross-referencer over VC2's flat
// label/%define symbol table: collect definitions, collect references,
// sort by name, and render a text report.
package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vc2lab/vc2/asm"
)

// Symbol is one name in the cross-reference report: where it was
// declared, and every position it was referenced from.
type Symbol struct {
	Name       string
	Kind       asm.SymbolKind
	Value      uint32
	Definition asm.Position
	References []asm.Position
}

// Xref runs asm.Analyze over source and builds a cross-reference
// keyed by symbol name. A symbol referenced but never declared still
// appears, with a zero Definition, so undefined-symbol typos are visible
// in the report even though Assemble would have already rejected them.
func Xref(source string) (map[string]*Symbol, []*asm.Error) {
	symbols, refs, errs := asm.Analyze(source)
	if len(errs) > 0 {
		return nil, errs
	}

	out := make(map[string]*Symbol)
	get := func(name string) *Symbol {
		s, ok := out[name]
		if !ok {
			s = &Symbol{Name: name}
			out[name] = s
		}
		return s
	}

	for _, s := range symbols {
		sym := get(s.Name)
		sym.Kind = s.Kind
		sym.Value = s.Value
		sym.Definition = s.Pos
	}
	for _, r := range refs {
		sym := get(r.Name)
		sym.References = append(sym.References, r.Pos)
	}

	return out, nil
}

// Report renders symbols as a sorted, fixed-width text table.
func Report(symbols map[string]*Symbol) string {
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("=======================\n\n")

	for _, name := range names {
		sym := symbols[name]
		kind := "label"
		if sym.Kind == asm.SymbolDefine {
			kind = "define"
		}
		fmt.Fprintf(&sb, "%-24s %-7s value=0x%08X defined=%s\n", sym.Name, kind, sym.Value, sym.Definition)
		for _, ref := range sym.References {
			fmt.Fprintf(&sb, "    referenced at %s\n", ref)
		}
	}
	return sb.String()
}
