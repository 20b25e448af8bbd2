package main

import (
	"fmt"
	"strconv"

	"github.com/dhamidi/rdp/calc"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>",
		Short: "Parse and evaluate an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := calc.New()
			if err != nil {
				return err
			}

			value, err := c.Eval(args[0])
			if err != nil {
				return err
			}

			fmt.Println(strconv.FormatFloat(value, 'g', -1, 64))
			return nil
		},
	}
}
