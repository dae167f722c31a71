package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vc2lab/vc2/loader"
	"github.com/vc2lab/vc2/vm"
)

const helpText = `commands:
  help                           show this message
  file <path>, load <path>       load an object file and reset the VM
  inline <bytes...>               load a hex byte stream directly, e.g. "inline 00 13 10 FF"
  step [n]                        execute n instructions (default 1)
  repeat <n> <cmd...>              run <cmd> n times
  eval                            run to completion (halt or error)
  registers <hex|bin|dec>          print GP0/GP1/FLAG/PC
  memory <hex|bin|dec> <start> <stop>   dump memory in [start, stop)
  exit                             leave the REPL
commands may be chained with &&
`

func (d *Debugger) cmdHelp(_ []string) error {
	d.Printf("%s", helpText)
	return nil
}

func (d *Debugger) bootVM(image []byte) error {
	v, err := vm.NewVM(image, vm.DefaultMemorySize)
	if err != nil {
		return err
	}
	d.VM = v
	return nil
}

func (d *Debugger) cmdFile(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: file <path>")
	}
	image, err := loader.Load(args[0])
	if err != nil {
		return err
	}
	if err := d.bootVM(image); err != nil {
		return err
	}
	d.Printf("loaded %d bytes from %s\n", len(image), args[0])
	return nil
}

func (d *Debugger) cmdInline(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: inline <byte> [byte...]")
	}
	image := make([]byte, 0, len(args))
	for _, tok := range args {
		tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return fmt.Errorf("invalid byte %q: %w", tok, err)
		}
		image = append(image, byte(v))
	}
	if err := d.bootVM(image); err != nil {
		return err
	}
	d.Printf("loaded %d inline bytes\n", len(image))
	return nil
}

func (d *Debugger) cmdStep(args []string) error {
	if err := d.requireVM(); err != nil {
		return err
	}
	n := 1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		n = v
	} else if len(args) > 1 {
		return fmt.Errorf("usage: step [n]")
	}
	for i := 0; i < n; i++ {
		if d.VM.State() == vm.Halted {
			d.Printf("halted at pc=0x%08X\n", d.VM.ReadRegister(registerOrder[3]))
			return nil
		}
		if err := d.VM.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Debugger) cmdRepeat(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: repeat <n> <cmd...>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return fmt.Errorf("invalid repeat count %q", args[0])
	}
	inner := strings.Join(args[1:], " ")
	for i := 0; i < n; i++ {
		if err := d.executeOne(inner); err != nil {
			return err
		}
	}
	return nil
}

func (d *Debugger) cmdEval(_ []string) error {
	if err := d.requireVM(); err != nil {
		return err
	}
	for d.VM.State() != vm.Halted {
		if err := d.VM.Step(); err != nil {
			return err
		}
	}
	d.Printf("halted at pc=0x%08X\n", d.VM.ReadRegister(registerOrder[3]))
	return nil
}

func (d *Debugger) cmdRegisters(args []string) error {
	if err := d.requireVM(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: registers <hex|bin|dec>")
	}
	format, err := ParseNumberFormat(args[0])
	if err != nil {
		return err
	}
	for _, reg := range registerOrder {
		d.Printf("%-3s %s\n", registerNames[reg], formatWord(format, d.VM.ReadRegister(reg)))
	}
	return nil
}

func (d *Debugger) cmdMemory(args []string) error {
	if err := d.requireVM(); err != nil {
		return err
	}
	if len(args) != 3 {
		return fmt.Errorf("usage: memory <hex|bin|dec> <start> <stop>")
	}
	format, err := ParseNumberFormat(args[0])
	if err != nil {
		return err
	}
	start, err := strconv.ParseUint(strings.TrimPrefix(args[1], "0x"), 16, 32)
	if err != nil {
		return fmt.Errorf("invalid start address %q", args[1])
	}
	stop, err := strconv.ParseUint(strings.TrimPrefix(args[2], "0x"), 16, 32)
	if err != nil {
		return fmt.Errorf("invalid stop address %q", args[2])
	}
	if stop < start {
		return fmt.Errorf("stop address 0x%X precedes start address 0x%X", stop, start)
	}
	for addr := start; addr < stop; addr++ {
		b, err := d.VM.Memory.ReadByte(uint32(addr))
		if err != nil {
			return err
		}
		d.Printf("0x%08X: %s\n", addr, formatWord(format, uint32(b)))
	}
	return nil
}
