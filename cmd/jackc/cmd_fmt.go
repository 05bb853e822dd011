package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jack/format"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print a .jack file",
		Long: `Pretty-print a .jack file to stdout in canonical layout.

If a file is provided, it must have a .jack extension.
If no file is provided, reads Jack source from stdin.
Comments are not preserved.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && fmtOverwrite {
				return fmt.Errorf("-w requires a file argument")
			}
			source, filename, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			output, err := format.PrettyPrintJackFile(source, filename)
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if fmtOverwrite {
				log.Infof("rewriting %s", filename)
				return os.WriteFile(filename, output, 0644)
			}
			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
