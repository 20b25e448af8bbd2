package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rdp",
		Short: "A backtracking PEG engine with precedence climbing",
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
