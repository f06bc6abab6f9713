package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/sunnyMiglani/Parsley/parsley"
)

const (
	replHistoryFile = ".parsley_history"
	replPrompt      = "parsley> "
)

func newReplCmd(log commonlog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Re-parse the arithmetic grammar against each entered line",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd, log)
		},
	}
}

func runRepl(cmd *cobra.Command, log commonlog.Logger) error {
	prog := parsley.Compile(ArithmeticGrammar())

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, replHistoryFile)
	}
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				log.Debugf("could not read history: %s", err)
			}
			f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		f, err := os.Create(histPath)
		if err != nil {
			return
		}
		defer f.Close()
		if _, err := ln.WriteHistory(f); err != nil {
			log.Debugf("could not write history: %s", err)
		}
	}()

	out := cmd.OutOrStdout()
	for {
		line, err := ln.Prompt(replPrompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		res := prog.Run(line, nil)
		if !res.Success() {
			fmt.Fprintf(out, "%v\n", res.Err)
			continue
		}
		fmt.Fprintf(out, "%v\n", res.Value)
	}
}
