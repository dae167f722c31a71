package vm

import (
	"fmt"
	"io"

	"github.com/vc2lab/vc2/encoding"
)

// TraceEntry is a single executed instruction, recorded for the -trace
// flag in cmd/vc2run. VC2's instruction granularity is an opcode byte, not
// a disassembled ARM mnemonic plus register-change set, so this is far
// smaller than a general-purpose CPU trace needs to be.
type TraceEntry struct {
	Sequence uint64
	PC       uint32
	Opcode   encoding.Opcode
}

// ExecutionTrace is a ring-buffered record of recently executed
// instructions, optionally mirrored to a writer as it grows.
type ExecutionTrace struct {
	Enabled    bool
	Writer     io.Writer
	MaxEntries int

	entries  []TraceEntry
	sequence uint64
}

// NewExecutionTrace creates a trace that writes human-readable lines to w
// as instructions execute. Pass a nil writer to keep only the in-memory
// ring buffer.
func NewExecutionTrace(w io.Writer) *ExecutionTrace {
	return &ExecutionTrace{
		Enabled:    true,
		Writer:     w,
		MaxEntries: 10000,
	}
}

// Record appends one instruction to the trace, trimming the oldest entry
// once MaxEntries is exceeded.
func (t *ExecutionTrace) Record(pc uint32, op encoding.Opcode) {
	if !t.Enabled {
		return
	}
	entry := TraceEntry{Sequence: t.sequence, PC: pc, Opcode: op}
	t.sequence++
	t.entries = append(t.entries, entry)
	if len(t.entries) > t.MaxEntries {
		t.entries = t.entries[len(t.entries)-t.MaxEntries:]
	}
	if t.Writer != nil {
		fmt.Fprintf(t.Writer, "%06d  pc=0x%08X  %s\n", entry.Sequence, entry.PC, op)
	}
}

// Entries returns the recorded entries still held in the ring buffer.
func (t *ExecutionTrace) Entries() []TraceEntry {
	return t.entries
}
