package asm

// entryKind tags one slot in the intermediate output.
type entryKind int

const (
	entryByte entryKind = iota
	entryRef
	entryRefPad
)

// entry is one slot of the intermediate byte stream: a resolved byte, a
// pending symbol reference anchored at a given opcode offset, or padding
// that reserves space for the 3 remaining bytes of that reference's
// eventual 4-byte value. Storing only the references in a side table
// (instead of Ref+3×RefPad inline) would break anchor-offset arithmetic,
// because the anchor captured during pass 1 is a byte offset, and offsets
// after a symbol reference must already account for the 4 bytes that
// reference will expand to.
type entry struct {
	kind   entryKind
	b      byte     // entryByte
	sym    string   // entryRef: symbol name, including any abs_ prefix
	anchor uint32   // entryRef: byte offset of the owning instruction's opcode
	pos    Position // entryRef: source position, for error reporting
}
