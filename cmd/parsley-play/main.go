package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	log := newLogger()

	rootCmd := &cobra.Command{
		Use:   "parsley-play",
		Short: "Compile and run parsley's built-in example grammars",
	}

	rootCmd.AddCommand(newRunCmd(log))
	rootCmd.AddCommand(newDisasmCmd(log))
	rootCmd.AddCommand(newReplCmd(log))

	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%s", err)
		os.Exit(1)
	}
}
