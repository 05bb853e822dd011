package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jack/format"
	"github.com/dhamidi/jack/jack/parser"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a .jack file",
		Long: `Print one line per token: its span, kind and value.

Reads Jack source from stdin when no file is given. The listing ends with
the Eof token. Tokens read before an unrecognized character are printed
before the error is reported.`,
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

			opts := append(parserOptions(cmd, proj.Config), parser.WithFile(filename))
			tokens, lexErr := parser.Tokenize(string(source), opts...)
			if err := format.WriteTokens(cmd.OutOrStdout(), tokens); err != nil {
				return fmt.Errorf("write tokens: %w", err)
			}
			return lexErr
		},
	}
	addLenientFlag(cmd)

	return cmd
}
