package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/sunnyMiglani/Parsley/parsley"
)

func newDisasmCmd(log commonlog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <grammar>",
		Short: "Print the compiled bytecode for a built-in grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			g, err := lookupGrammar(name)
			if err != nil {
				return err
			}
			log.Infof("compiling grammar %q", name)
			prog := parsley.Compile(g)
			fmt.Fprint(cmd.OutOrStdout(), prog.Disassemble())
			return nil
		},
	}
}
