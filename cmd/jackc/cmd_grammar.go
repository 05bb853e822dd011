package main

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jack/jack/parser"
)

func newGrammarCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the Jack grammar in EBNF",
		Long: `Print the syntax accepted by the parser in EBNF.

With --check, verify the grammar instead: every production must be
defined and reachable from the Class production.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !check {
				_, err := io.WriteString(out, parser.GrammarSource())
				return err
			}

			grammar, err := parser.Grammar()
			if err != nil {
				printErrors(out, err)
				return err
			}
			names := make([]string, 0, len(grammar))
			for name := range grammar {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintf(out, "%d productions, start %s\n", len(names), parser.StartProduction)
			for _, name := range names {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "verify the grammar and list its productions")

	return cmd
}

// printErrors prints each entry of an error list on its own line.
func printErrors(w io.Writer, err error) {
	if inner := errors.Unwrap(err); inner != nil {
		err = inner
	}
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}
