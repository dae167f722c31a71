package asm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vc2lab/vc2/asm"
)

func TestAssemble_ForwardLabel(t *testing.T) {
	src := "jmp end\nmov r0, 1\nend: mov r0, 2\nhlt\n"
	img, errs := asm.Assemble(src)
	require.Empty(t, errs)
	require.NotEmpty(t, img)

	// jmp opcode (0x11), packet, then a 4-byte relative delta. The packet
	// carries an Immediate selector (0b01) in bits [7:6], register bits
	// [3:2] unused (0), and the relative variant in bit 0.
	assert.Equal(t, byte(0x11), img[0])
	assert.Equal(t, byte(0b01000000), img[1])
}

func TestAssemble_NotPacketLayout(t *testing.T) {
	img, errs := asm.Assemble("not r1\nhlt\n")
	require.Empty(t, errs)
	require.Len(t, img, 3) // not(1)+packet(1) + hlt(1)

	// not opcode (0x06), packet with Register selector (0b00) in bits
	// [7:6] and GP1 (0b01) in bits [3:2].
	assert.Equal(t, byte(0x06), img[0])
	assert.Equal(t, byte(0b00000100), img[1])
}

func TestAssemble_SubLabelLoop(t *testing.T) {
	src := "f: mov r0, 0\n.loop: add r0, 1\ncmp r0, 3\njnz .loop, fl\nhlt\n"
	img, errs := asm.Assemble(src)
	require.Empty(t, errs)
	require.NotEmpty(t, img)
}

func TestAssemble_Define(t *testing.T) {
	withDefine := "%define K 0xAA\nmov r0, K\nhlt\n"
	imgA, errs := asm.Assemble(withDefine)
	require.Empty(t, errs)

	literal := "mov r0, 0xAA\nhlt\n"
	imgB, errs := asm.Assemble(literal)
	require.Empty(t, errs)

	assert.Equal(t, imgB, imgA, "a %define reference must emit the same bytes as the literal value")

	// mov r0, K encodes dest=register r0, src=immediate; the 4-byte
	// immediate after the opcode and packet should be 00 00 00 AA.
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0xAA}, imgA[2:6])
}

func TestAssemble_DuplicateLabel(t *testing.T) {
	src := "l:\nl:\n"
	_, errs := asm.Assemble(src)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "l")
	assert.Contains(t, errs[0].Message, "duplicate")
}

func TestAssemble_MemoryStore(t *testing.T) {
	src := "mov [0x1000], 0xDEADBEEF\nhlt\n"
	img, errs := asm.Assemble(src)
	require.Empty(t, errs)
	require.NotEmpty(t, img)
}

func TestAssemble_IndirectLoadWithOffsetWord(t *testing.T) {
	src := "%offset_word 0x800\ndw 0x41424344\n"
	img, errs := asm.Assemble(src)
	require.Empty(t, errs)
	assert.Equal(t, 0x800*4+4, len(img))
	assert.Equal(t, []byte{0x41, 0x42, 0x43, 0x44}, img[0x800*4:])
}

func TestAssemble_UnknownMnemonic(t *testing.T) {
	_, errs := asm.Assemble("frobnicate r0, r1\n")
	require.NotEmpty(t, errs)
}

func TestAssemble_UnresolvedSymbol(t *testing.T) {
	_, errs := asm.Assemble("jmp nowhere\nhlt\n")
	require.NotEmpty(t, errs)
}

func TestAssemble_AbsPrefixResolvesAbsolute(t *testing.T) {
	src := "jmp abs_target\nnop\ntarget: hlt\n"
	img, errs := asm.Assemble(src)
	require.Empty(t, errs)
	require.Len(t, img, 8) // jmp(1)+packet(1)+imm(4) + nop(1) + hlt(1)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x07}, img[2:6], "abs_ reference should resolve to the label's absolute offset")
}

func TestAssemble_DBStringAndBytes(t *testing.T) {
	src := "db \"hi\", 0\n"
	img, errs := asm.Assemble(src)
	require.Empty(t, errs)
	assert.Equal(t, []byte{'h', 'i', 0}, img)
}
