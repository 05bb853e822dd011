package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jack/jack/codebase"
)

func newLSPCmd() *cobra.Command {
	var poll time.Duration

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			server := codebase.NewLSPServer(version, poll, parserOptions(cmd, proj.Config)...)
			return server.RunStdio()
		},
	}

	cmd.Flags().DurationVar(&poll, "poll", time.Second, "interval between file system scans")
	addLenientFlag(cmd)

	return cmd
}
