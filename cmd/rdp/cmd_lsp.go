package main

import (
	"github.com/dhamidi/rdp/lsp"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

func newLSPCmd() *cobra.Command {
	var verbose int

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(verbose, nil)
			server, err := lsp.NewServer("0.1.0")
			if err != nil {
				return err
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().CountVarP(&verbose, "verbose", "v", "Increase log verbosity")

	return cmd
}
