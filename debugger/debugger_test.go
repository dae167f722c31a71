package debugger_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vc2lab/vc2/asm"
	"github.com/vc2lab/vc2/debugger"
)

func assembleInline(t *testing.T, dbg *debugger.Debugger, source string) {
	t.Helper()
	img, errs := asm.Assemble(source)
	require.Empty(t, errs)

	var hex []string
	for _, b := range img {
		hex = append(hex, "0x"+strings.ToUpper(itoaHex(b)))
	}
	require.NoError(t, dbg.ExecuteCommand("inline "+strings.Join(hex, " ")))
}

func itoaHex(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0xF]})
}

func TestExecuteCommand_InlineAndEval(t *testing.T) {
	dbg := debugger.NewDebugger()
	assembleInline(t, dbg, "mov r0, 5\nmov r1, 7\nadd r0, r1\nhlt\n")

	require.NoError(t, dbg.ExecuteCommand("eval"))
	require.NoError(t, dbg.ExecuteCommand("registers dec"))
	out := dbg.GetOutput()
	assert.Contains(t, out, "r0  12")
}

func TestExecuteCommand_ChainedWithAnd(t *testing.T) {
	dbg := debugger.NewDebugger()
	assembleInline(t, dbg, "mov r0, 1\nhlt\n")

	err := dbg.ExecuteCommand("step && step && registers hex")
	require.NoError(t, err)
	out := dbg.GetOutput()
	assert.Contains(t, out, "r0  0x00000001")
}

func TestExecuteCommand_RepeatSteps(t *testing.T) {
	dbg := debugger.NewDebugger()
	assembleInline(t, dbg, "add r0, 1\nadd r0, 1\nadd r0, 1\nhlt\n")

	require.NoError(t, dbg.ExecuteCommand("repeat 3 step"))
	require.NoError(t, dbg.ExecuteCommand("registers dec"))
	assert.Contains(t, dbg.GetOutput(), "r0  3")
}

func TestExecuteCommand_EmptyLineRepeatsLast(t *testing.T) {
	dbg := debugger.NewDebugger()
	assembleInline(t, dbg, "add r0, 1\nadd r0, 1\nhlt\n")

	require.NoError(t, dbg.ExecuteCommand("step"))
	require.NoError(t, dbg.ExecuteCommand(""))
	require.NoError(t, dbg.ExecuteCommand("registers dec"))
	assert.Contains(t, dbg.GetOutput(), "r0  2")
}

func TestExecuteCommand_UnknownCommand(t *testing.T) {
	dbg := debugger.NewDebugger()
	assert.Error(t, dbg.ExecuteCommand("bogus"))
}

func TestExecuteCommand_RequiresImageBeforeStepping(t *testing.T) {
	dbg := debugger.NewDebugger()
	assert.Error(t, dbg.ExecuteCommand("step"))
}

func TestExecuteCommand_Exit(t *testing.T) {
	dbg := debugger.NewDebugger()
	err := dbg.ExecuteCommand("exit")
	require.Error(t, err)
	assert.True(t, debugger.IsExit(err))
}

func TestExecuteCommand_MemoryDump(t *testing.T) {
	dbg := debugger.NewDebugger()
	assembleInline(t, dbg, "mov [0x10], 0xAABBCCDD\nhlt\n")
	require.NoError(t, dbg.ExecuteCommand("eval"))

	require.NoError(t, dbg.ExecuteCommand("memory hex 0x10 0x14"))
	out := dbg.GetOutput()
	assert.Contains(t, out, "0x000000AA")
	assert.Contains(t, out, "0x000000DD")
}

func TestExecuteCommand_PopulatesHistory(t *testing.T) {
	dbg := debugger.NewDebugger()
	require.NoError(t, dbg.ExecuteCommand("help"))
	dbg.GetOutput()
	// No image is loaded, so the command fails, but it is still recorded.
	require.Error(t, dbg.ExecuteCommand("registers hex"))
	dbg.GetOutput()

	assert.Equal(t, []string{"help", "registers hex"}, dbg.History.All())
}

func TestCommandHistory_WalksBackAndForward(t *testing.T) {
	h := debugger.NewCommandHistory()
	h.Add("registers hex")
	h.Add("registers dec")

	assert.Equal(t, "registers dec", h.Previous())
	assert.Equal(t, "registers hex", h.Previous())
	assert.Equal(t, "", h.Previous())

	assert.Equal(t, "registers dec", h.Next())
	assert.Equal(t, "", h.Next())
}
