package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newProjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project",
		Short: "Show project settings, sources and entry points",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(cmd)
		},
	}
}

func runProject(cmd *cobra.Command) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	config := proj.ConfigPath
	if config == "" {
		config = "(defaults)"
	}
	fmt.Fprintf(out, "Root:    %s\n", proj.RootDir)
	fmt.Fprintf(out, "Config:  %s\n", config)
	fmt.Fprintf(out, "Sources: %v\n", proj.Config.Source.Dirs)
	fmt.Fprintf(out, "Exclude: %v\n", proj.Config.Source.Exclude)

	files, err := proj.Files()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Files:   %d jack files\n", len(files))

	entrypoints, err := proj.FindEntrypoints()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nEntry points:\n")
	if len(entrypoints) == 0 {
		fmt.Fprintf(out, "  (none)\n")
	}
	for _, ep := range entrypoints {
		rel, err := filepath.Rel(proj.RootDir, ep.Path)
		if err != nil {
			rel = ep.Path
		}
		fmt.Fprintf(out, "  %s.main  %s\n", ep.ClassName, rel)
	}
	return nil
}
