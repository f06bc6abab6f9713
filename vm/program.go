package vm

// Program is a parser that has been compiled to VM bytecode. A Program is
// immutable once returned from the compiler and safe to Run concurrently
// from multiple goroutines; Run constructs a fresh Execution per call so
// concurrent runs never share mutable state.
type Program struct {
	// Instrs is the instruction stream. Label fields (an Instruction's and
	// each JumpCase's) are indexes into this slice, already resolved — the
	// compiler's resolve pass turns symbolic labels into these concrete
	// indexes before returning the Program.
	Instrs []Instruction

	// NumCaptures is the number of distinct capture slots CAP/ENDCAP
	// address, used to size an Execution's capture table up front.
	NumCaptures int

	// Name labels the program for diagnostics (disassembly headers,
	// Debug tracer output); it has no effect on execution.
	Name string
}

// Run compiles nothing further; it simply builds a fresh Execution over p
// and drives it to completion. Callers on multiple goroutines each get
// their own Execution, so a single Program is safe to Run concurrently.
func (p *Program) Run(input string, tracer Tracer) Result {
	return NewExecution(p, input, tracer).Run()
}

// Clone returns a Program with its own copy of the instruction slice, so
// that a caller free to mutate instructions in place (for example, a tool
// patching in fresh debug breakpoints) cannot affect any other holder of
// the original Program.
func (p *Program) Clone() *Program {
	instrs := make([]Instruction, len(p.Instrs))
	copy(instrs, p.Instrs)
	return &Program{Instrs: instrs, NumCaptures: p.NumCaptures, Name: p.Name}
}

// Disassemble renders the program's instructions as one line per
// instruction, prefixed with its address, in the style of a debugger
// listing.
func (p *Program) Disassemble() string {
	return disassemble(p)
}
