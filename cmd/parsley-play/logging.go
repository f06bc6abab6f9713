package main

import (
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// newLogger returns the single logger parsley-play threads through its
// subcommands. Nothing in this program reaches for a global logger; every
// RunE closure receives this value at command-construction time instead.
func newLogger() commonlog.Logger {
	return commonlog.GetLogger("parsley-play")
}
