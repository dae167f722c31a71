package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vc2lab/vc2/asm"
	"github.com/vc2lab/vc2/encoding"
	vc2vm "github.com/vc2lab/vc2/vm"
)

func runToHalt(t *testing.T, source string) *vc2vm.VM {
	t.Helper()
	img, errs := asm.Assemble(source)
	require.Empty(t, errs)
	v, err := vc2vm.NewVM(img, vc2vm.DefaultMemorySize)
	require.NoError(t, err)
	for steps := 0; steps < 10000; steps++ {
		if v.State() == vc2vm.Halted {
			break
		}
		require.NoError(t, v.Step())
	}
	require.Equal(t, vc2vm.Halted, v.State())
	return v
}

func TestS1_Arithmetic(t *testing.T) {
	v := runToHalt(t, "mov r0, 5\nmov r1, 7\nadd r0, r1\nhlt\n")
	assert.Equal(t, uint32(12), v.ReadRegister(encoding.GP0))
	assert.Equal(t, uint32(7), v.ReadRegister(encoding.GP1))
	assert.False(t, vc2vm.Carry(v.ReadRegister(encoding.FLAG)))
}

func TestS2_MemoryStore(t *testing.T) {
	v := runToHalt(t, "mov [0x1000], 0xDEADBEEF\nhlt\n")
	word, err := v.ReadWord(0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), word)
}

func TestS3_ForwardLabel(t *testing.T) {
	v := runToHalt(t, "jmp end\nmov r0, 1\nend: mov r0, 2\nhlt\n")
	assert.Equal(t, uint32(2), v.ReadRegister(encoding.GP0))
}

func TestS4_SubLabelLoop(t *testing.T) {
	v := runToHalt(t, "f: mov r0, 0\n.loop: add r0, 1\ncmp r0, 3\njnz .loop, fl\nhlt\n")
	assert.Equal(t, uint32(3), v.ReadRegister(encoding.GP0))
}

func TestS5_IndirectLoad(t *testing.T) {
	// mov (6 bytes) + hlt (1 byte) occupy 0..6; pad to 0x2000 for the word.
	src := "mov r0, [0x2000]\nhlt\n" +
		"%offset 0x1FF9\ndw 0x41424344\n"
	v := runToHalt(t, src)
	assert.Equal(t, uint32(0x41424344), v.ReadRegister(encoding.GP0))
}

func TestS6_Define(t *testing.T) {
	v := runToHalt(t, "%define K 0xAA\nmov r0, K\nhlt\n")
	assert.Equal(t, uint32(0xAA), v.ReadRegister(encoding.GP0))
}

func TestHalt_IsNoOpUntilPCExternallyMoved(t *testing.T) {
	img, errs := asm.Assemble("hlt\n")
	require.Empty(t, errs)
	v, err := vc2vm.NewVM(img, vc2vm.DefaultMemorySize)
	require.NoError(t, err)

	require.NoError(t, v.Step())
	require.Equal(t, vc2vm.Halted, v.State())
	pcAfterHalt := v.ReadRegister(encoding.PC)

	require.NoError(t, v.Step())
	assert.Equal(t, pcAfterHalt, v.ReadRegister(encoding.PC), "halted VM should not advance")

	v.WriteRegister(encoding.PC, 0)
	assert.Equal(t, vc2vm.Running, v.State(), "writing PC away from the halt location should clear the halt")
}

func TestLaw_NotNotRestoresValue(t *testing.T) {
	img, errs := asm.Assemble("mov r0, 0x12345678\nnot r0\nnot r0\nhlt\n")
	require.Empty(t, errs)
	v, err := vc2vm.NewVM(img, vc2vm.DefaultMemorySize)
	require.NoError(t, err)
	for v.State() != vc2vm.Halted {
		require.NoError(t, v.Step())
	}
	assert.Equal(t, uint32(0x12345678), v.ReadRegister(encoding.GP0))
}

func TestLaw_CmpSelfSetsEqualOnly(t *testing.T) {
	v := runToHalt(t, "mov r0, 42\ncmp r0, r0\nhlt\n")
	flag := v.ReadRegister(encoding.FLAG)
	assert.True(t, vc2vm.Equal(flag))
	assert.False(t, vc2vm.Less(flag))
	assert.False(t, vc2vm.Below(flag))
}

func TestLaw_AddZeroPreservesValueAndClearsCarry(t *testing.T) {
	v := runToHalt(t, "mov r0, 99\nadd r0, 0\nhlt\n")
	assert.Equal(t, uint32(99), v.ReadRegister(encoding.GP0))
	assert.False(t, vc2vm.Carry(v.ReadRegister(encoding.FLAG)))
}

func TestOutOfInstructions(t *testing.T) {
	img, errs := asm.Assemble("nop\n")
	require.Empty(t, errs)
	v, err := vc2vm.NewVM(img, len(img))
	require.NoError(t, err)
	require.NoError(t, v.Step())
	assert.Error(t, v.Step())
}

func TestDivisionByZero(t *testing.T) {
	img, errs := asm.Assemble("mov r0, 1\nmov r1, 0\ndiv r0, r1\nhlt\n")
	require.Empty(t, errs)
	v, err := vc2vm.NewVM(img, vc2vm.DefaultMemorySize)
	require.NoError(t, err)
	require.NoError(t, v.Step()) // mov r0
	require.NoError(t, v.Step()) // mov r1
	assert.Error(t, v.Step())    // div by zero
}
