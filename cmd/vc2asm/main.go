// Command vc2asm assembles VC2 source into a flat object-file image.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vc2lab/vc2/asm"
	"github.com/vc2lab/vc2/config"
	"github.com/vc2lab/vc2/internal/logx"
	"github.com/vc2lab/vc2/loader"
	"github.com/vc2lab/vc2/tools"
)

func main() {
	var (
		file       string
		out        string
		logLevel   string
		xref       bool
		configPath string
	)

	root := &cobra.Command{
		Use:   "vc2asm",
		Short: "Assemble VC2 source into a flat object-file image",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if configPath != "" {
				loaded, err := config.LoadFrom(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if !cmd.Flags().Changed("out") {
				out = cfg.Assembler.DefaultOut
			}
			if !cmd.Flags().Changed("log-level") {
				logLevel = cfg.Assembler.DefaultLogLevel
			}

			log := logx.New(logx.ParseLevel(logLevel))

			if file == "" {
				return fmt.Errorf("--file is required")
			}

			source, err := os.ReadFile(file) // #nosec G304 -- path is an explicit CLI argument
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}

			log.Infof("assembling %s", file)
			image, errs := asm.Assemble(string(source))
			if len(errs) > 0 {
				for _, e := range errs {
					log.Errorf("%s", e.Error())
				}
				return fmt.Errorf("assembly failed with %d error(s)", len(errs))
			}

			if err := loader.Save(out, image); err != nil {
				return err
			}
			log.Infof("wrote %d bytes to %s", len(image), out)

			if xref {
				symbols, xerrs := tools.Xref(string(source))
				if len(xerrs) > 0 {
					return fmt.Errorf("xref failed: %s", asm.FormatErrors(xerrs))
				}
				fmt.Print(tools.Report(symbols))
			}

			return nil
		},
	}

	root.Flags().StringVar(&file, "file", "", "source file to assemble (required)")
	root.Flags().StringVar(&out, "out", "out.o", "output object-file path")
	root.Flags().StringVar(&logLevel, "log-level", "info", "off|error|warn|info|debug")
	root.Flags().BoolVar(&xref, "xref", false, "print a symbol cross-reference report after assembling")
	root.Flags().StringVar(&configPath, "config", "", "path to a vc2 config.toml overriding built-in defaults")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
