package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jack/format"
	"github.com/dhamidi/jack/jack/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a .jack file and dump its syntax tree",
		Long: `Parse a .jack file and write its syntax tree to stdout.

Reads Jack source from stdin when no file is given. The debug format is
colored when stdout is a terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			proj, err := loadProject()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			encoder, err := format.NewEncoder(outputFormat, out)
			if err != nil {
				return err
			}
			if debug, ok := encoder.(*format.DebugEncoder); ok {
				debug.WithColor(isTerminal(out))
			}

			opts := append(parserOptions(cmd, proj.Config), parser.WithFile(filename))
			class, err := parser.Parse(string(source), opts...)
			if err != nil {
				return err
			}
			log.Debugf("parsed class %s from %s", class.Name.Name, filename)

			if err := encoder.Encode(class); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json",
		"output format ("+strings.Join(format.Names(), ", ")+")")
	addLenientFlag(cmd)

	return cmd
}
