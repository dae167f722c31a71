// Command vc2run interprets a VC2 object file, either as an interactive
// REPL inspector or a live TUI panel.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vc2lab/vc2/config"
	"github.com/vc2lab/vc2/debugger"
	"github.com/vc2lab/vc2/internal/logx"
	"github.com/vc2lab/vc2/loader"
	"github.com/vc2lab/vc2/vm"
)

func bootDebugger(file string, trace bool, memSize int) (*debugger.Debugger, error) {
	dbg := debugger.NewDebugger()
	if file == "" {
		return dbg, nil
	}

	image, err := loader.Load(file)
	if err != nil {
		return nil, err
	}
	v, err := vm.NewVM(image, memSize)
	if err != nil {
		return nil, err
	}
	if trace {
		v.Trace = vm.NewExecutionTrace(os.Stderr)
	}
	dbg.VM = v
	return dbg, nil
}

func main() {
	var (
		file       string
		trace      bool
		logLevel   string
		configPath string
	)

	root := &cobra.Command{
		Use:   "vc2run",
		Short: "Run the VC2 REPL inspector over an object file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := resolveConfig(configPath)
			if !cmd.Flags().Changed("log-level") {
				logLevel = cfg.Interpreter.DefaultLogLevel
			}
			log := logx.New(logx.ParseLevel(logLevel))

			dbg, err := bootDebugger(file, trace, cfg.Interpreter.MemorySize)
			if err != nil {
				return err
			}
			log.Infof("starting REPL (memory size 0x%X)", cfg.Interpreter.MemorySize)
			return debugger.RunCLI(dbg, os.Stdin, os.Stdout)
		},
	}
	root.Flags().StringVar(&file, "file", "", "object file to load before starting the REPL")
	root.Flags().BoolVar(&trace, "trace", false, "record an execution trace")
	root.Flags().StringVar(&logLevel, "log-level", "info", "off|error|warn|info|debug")
	root.Flags().StringVar(&configPath, "config", "", "path to a vc2 config.toml overriding built-in defaults")

	tuiCmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "Launch the live register/memory inspector panel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := resolveConfig(configPath)
			path := file
			if len(args) == 1 {
				path = args[0]
			}
			dbg, err := bootDebugger(path, trace, cfg.Interpreter.MemorySize)
			if err != nil {
				return err
			}
			return debugger.RunTUI(dbg)
		},
	}
	root.AddCommand(tuiCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func resolveConfig(path string) *config.Config {
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return config.DefaultConfig()
		}
		return cfg
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}
