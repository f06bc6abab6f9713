package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/sunnyMiglani/Parsley/parsley"
)

func newRunCmd(log commonlog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "run <grammar> <input>",
		Short: "Compile a built-in grammar and run it against input",
		Long: `Run compiles one of parsley-play's built-in example grammars and runs it
against a single input string, printing the result value or the formatted
parse error.

Available grammars: arith, value, block.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, input := args[0], args[1]
			g, err := lookupGrammar(name)
			if err != nil {
				return err
			}
			log.Infof("compiling grammar %q", name)
			prog := parsley.Compile(g)
			res := prog.Run(input, nil)
			if !res.Success() {
				log.Debugf("parse of %q failed: %v", name, res.Err)
				return fmt.Errorf("grammar %q: %w", name, res.Err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", res.Value)
			return nil
		},
	}
}
