package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/rdp/calc"
	"github.com/dhamidi/rdp/format"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <expression>",
		Short: "Parse an expression and dump the token queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := calc.New()
			if err != nil {
				return err
			}

			p, err := c.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout, c.Set().RuleName)
			case "text":
				encoder = format.NewTextEncoder(os.Stdout, c.Set().RuleName)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(p); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if outputFormat == "json" {
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}
