package tools_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vc2lab/vc2/asm"
	"github.com/vc2lab/vc2/tools"
)

func TestXref_LabelAndDefine(t *testing.T) {
	src := "%define K 5\nstart:\nmov r0, K\njmp start\nhlt\n"
	symbols, errs := tools.Xref(src)
	require.Empty(t, errs)

	require.Contains(t, symbols, "start")
	require.Contains(t, symbols, "K")

	start := symbols["start"]
	assert.Equal(t, asm.SymbolLabel, start.Kind)
	assert.Len(t, start.References, 1)

	k := symbols["K"]
	assert.Equal(t, asm.SymbolDefine, k.Kind)
	assert.Equal(t, uint32(5), k.Value)
	assert.Len(t, k.References, 1)
}

func TestXref_ReportIsSortedAndNonEmpty(t *testing.T) {
	symbols, errs := tools.Xref("a: jmp b\nb: hlt\n")
	require.Empty(t, errs)

	report := tools.Report(symbols)
	assert.Contains(t, report, "a")
	assert.Contains(t, report, "b")
	assert.Contains(t, report, "referenced at")
	assert.Less(t, strings.Index(report, "\na "), strings.Index(report, "\nb "), "symbols should be listed in name order")
}

func TestXref_PropagatesParseErrors(t *testing.T) {
	_, errs := tools.Xref("bogus_mnemonic r0, r1\n")
	assert.NotEmpty(t, errs)
}
