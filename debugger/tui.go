package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is a live inspector panel scaled down to VC2's four registers and
// flat memory: a tview.NewApplication wired to a Flex layout of
// register, memory, output and command-input views.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	MainLayout   *tview.Flex
	RegisterView *tview.TextView
	MemoryView   *tview.TextView
	OutputView   *tview.TextView
	CommandInput *tview.InputField

	MemoryAddress uint32
}

// NewTUI wires up the panel layout for dbg, leaving dbg.VM possibly nil
// until the user issues a `file`/`inline` command from the input field.
func NewTUI(dbg *Debugger) *TUI {
	t := &TUI{
		Debugger: dbg,
		App:      tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.RegisterView, 0, 1, false).
		AddItem(t.MemoryView, 0, 2, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 0, 3, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		case tcell.KeyUp:
			if cmd := t.Debugger.History.Previous(); cmd != "" {
				t.CommandInput.SetText(cmd)
			}
			return nil
		case tcell.KeyDown:
			t.CommandInput.SetText(t.Debugger.History.Next())
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.CommandInput.SetText("")
	t.executeCommand(cmd)
}

func (t *TUI) executeCommand(cmd string) {
	err := t.Debugger.ExecuteCommand(cmd)
	if output := t.Debugger.GetOutput(); output != "" {
		t.WriteOutput(output)
	}
	if err != nil {
		if IsExit(err) {
			t.App.Stop()
			return
		}
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	t.RefreshAll()
}

// WriteOutput appends text to the output pane and scrolls to the bottom.
func (t *TUI) WriteOutput(text string) {
	fmt.Fprint(t.OutputView, text)
	t.OutputView.ScrollToEnd()
}

// RefreshAll repaints every panel from the debugger's current VM state.
func (t *TUI) RefreshAll() {
	t.updateRegisterView()
	t.updateMemoryView()
	t.App.Draw()
}

func (t *TUI) updateRegisterView() {
	if t.Debugger.VM == nil {
		t.RegisterView.SetText("[yellow]no image loaded[white]")
		return
	}
	var lines []string
	for _, reg := range registerOrder {
		lines = append(lines, fmt.Sprintf("%-3s 0x%08X", registerNames[reg], t.Debugger.VM.ReadRegister(reg)))
	}
	lines = append(lines, "", fmt.Sprintf("state: %s", t.Debugger.VM.State()))
	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateMemoryView() {
	if t.Debugger.VM == nil {
		t.MemoryView.SetText("")
		return
	}
	addr := t.MemoryAddress
	var lines []string
	for row := 0; row < 16; row++ {
		base := addr + uint32(row*16)
		line := fmt.Sprintf("0x%08X: ", base)
		for col := 0; col < 16; col++ {
			b, err := t.Debugger.VM.Memory.ReadByte(base + uint32(col))
			if err != nil {
				line += ".. "
				continue
			}
			line += fmt.Sprintf("%02X ", b)
		}
		lines = append(lines, line)
	}
	t.MemoryView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI event loop, blocking until the user exits.
func (t *TUI) Run() error {
	t.RefreshAll()
	return t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
}

// RunTUI is the entry point cmd/vc2run's `tui` subcommand invokes.
func RunTUI(dbg *Debugger) error {
	return NewTUI(dbg).Run()
}
