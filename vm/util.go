package vm

import (
	"bytes"
	"errors"
	"fmt"
)

// assert panics if cond is false. A failed assertion means a compiler or VM
// bug — never a malformed user grammar, which is reported through ordinary
// parse errors instead.
func assert(cond bool, format string, args ...interface{}) {
	if !cond {
		var buf bytes.Buffer
		buf.WriteString("assertion failed: ")
		fmt.Fprintf(&buf, format, args...)
		panic(errors.New(buf.String()))
	}
}
