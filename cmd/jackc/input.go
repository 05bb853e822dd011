package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dhamidi/jack/jack/parser"
	"github.com/dhamidi/jack/project"
)

const stdinName = "<stdin>"

// readInput reads the .jack file named by args, or stdin when args is
// empty. It returns the name to use in messages.
func readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 0 {
		source, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return source, stdinName, nil
	}

	filename := args[0]
	if ext := filepath.Ext(filename); ext != ".jack" {
		return nil, "", fmt.Errorf("expected .jack file, got %s", filename)
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return source, filename, nil
}

// loadProject finds the project enclosing the working directory.
func loadProject() (*project.Project, error) {
	proj, err := project.Find(".")
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return proj, nil
}

// addLenientFlag registers --lenient, which overrides tokenizer.lenient
// from jack.toml when given.
func addLenientFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("lenient", false, "end input silently at an unrecognized character")
}

func parserOptions(cmd *cobra.Command, cfg project.Config) []parser.Option {
	if cmd.Flags().Changed("lenient") {
		lenient, _ := cmd.Flags().GetBool("lenient")
		cfg.Tokenizer.Lenient = lenient
	}
	return cfg.ParserOptions()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
