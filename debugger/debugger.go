// Package debugger implements a REPL inspector: a small set of commands
// for loading an image, stepping it, and examining registers and memory.
// There is no breakpoint/watchpoint/call-stack machinery here, just the
// command set a flat register/memory machine needs.
package debugger

import (
	"fmt"
	"strings"

	"github.com/vc2lab/vc2/encoding"
	"github.com/vc2lab/vc2/vm"
)

// NumberFormat controls how registers/memory commands render values.
type NumberFormat int

const (
	FormatHex NumberFormat = iota
	FormatBin
	FormatDec
)

// ParseNumberFormat parses hex|bin|dec (case-insensitive); anything else
// is an error.
func ParseNumberFormat(s string) (NumberFormat, error) {
	switch strings.ToLower(s) {
	case "hex":
		return FormatHex, nil
	case "bin":
		return FormatBin, nil
	case "dec":
		return FormatDec, nil
	default:
		return FormatHex, fmt.Errorf("unknown number format %q: want hex, bin, or dec", s)
	}
}

func formatWord(f NumberFormat, v uint32) string {
	switch f {
	case FormatBin:
		return fmt.Sprintf("0b%032b", v)
	case FormatDec:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("0x%08X", v)
	}
}

// Debugger holds REPL state: the VM under inspection, command history,
// a symbol table loaded from a prior assembly (for future xref-aware
// commands), and a buffered output sink built around a strings.Builder.
type Debugger struct {
	VM      *vm.VM
	History *CommandHistory
	Symbols map[string]uint32

	LastCommand string
	Output      strings.Builder
}

// NewDebugger creates a debugger with no VM loaded yet.
func NewDebugger() *Debugger {
	return &Debugger{
		History: NewCommandHistory(),
		Symbols: make(map[string]uint32),
	}
}

// LoadSymbols installs a symbol table, typically produced by tools.Xref
// against the same source that was assembled into the running image.
func (d *Debugger) LoadSymbols(symbols map[string]uint32) {
	d.Symbols = symbols
}

// Printf writes formatted output to the output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

// Println writes a line to the output buffer.
func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}

// GetOutput returns and clears the output buffer.
func (d *Debugger) GetOutput() string {
	s := d.Output.String()
	d.Output.Reset()
	return s
}

// ExecuteCommand runs one or more `&&`-chained commands, stopping at the
// first error. An empty line repeats the last non-empty command.
func (d *Debugger) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.LastCommand
	}
	if line == "" {
		return nil
	}
	d.History.Add(line)
	d.LastCommand = line

	for _, part := range strings.Split(line, "&&") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := d.executeOne(part); err != nil {
			return err
		}
	}
	return nil
}

func (d *Debugger) executeOne(cmdLine string) error {
	fields := strings.Fields(cmdLine)
	if len(fields) == 0 {
		return nil
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "help", "h", "?":
		return d.cmdHelp(args)
	case "file", "load":
		return d.cmdFile(args)
	case "inline":
		return d.cmdInline(args)
	case "step", "s":
		return d.cmdStep(args)
	case "repeat":
		return d.cmdRepeat(args)
	case "eval":
		return d.cmdEval(args)
	case "registers", "reg":
		return d.cmdRegisters(args)
	case "memory", "mem":
		return d.cmdMemory(args)
	case "exit", "quit", "q":
		return errExit
	default:
		return fmt.Errorf("unknown command %q (type 'help' for available commands)", cmd)
	}
}

// errExit signals a graceful REPL exit, not an execution failure.
var errExit = fmt.Errorf("exit")

// IsExit reports whether err is the REPL's exit signal.
func IsExit(err error) bool {
	return err == errExit
}

func (d *Debugger) requireVM() error {
	if d.VM == nil {
		return fmt.Errorf("no image loaded: use 'file <path>' or 'inline <bytes...>' first")
	}
	return nil
}

var registerOrder = []encoding.Reg{encoding.GP0, encoding.GP1, encoding.FLAG, encoding.PC}

var registerNames = map[encoding.Reg]string{
	encoding.GP0:  "r0",
	encoding.GP1:  "r1",
	encoding.FLAG: "fl",
	encoding.PC:   "pc",
}
