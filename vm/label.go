package vm

import (
	"bytes"
	"fmt"
)

func disassemble(p *Program) string {
	var buf bytes.Buffer
	if p.Name != "" {
		fmt.Fprintf(&buf, "; %s\n", p.Name)
	}
	for xp, in := range p.Instrs {
		fmt.Fprintf(&buf, "%4d  %s\n", xp, in.String())
	}
	return buf.String()
}
