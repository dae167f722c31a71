package debugger

import (
	"bufio"
	"fmt"
	"io"
)

// RunCLI runs the line-oriented REPL, reading commands from in and
// writing prompts and output to out.
func RunCLI(dbg *Debugger, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "(vc2) ")
		if !scanner.Scan() {
			break
		}

		err := dbg.ExecuteCommand(scanner.Text())

		if output := dbg.GetOutput(); output != "" {
			fmt.Fprint(out, output)
		}

		if err != nil {
			if IsExit(err) {
				break
			}
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}
	return nil
}
