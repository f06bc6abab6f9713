package vm

import (
	"bytes"
	"fmt"

	"github.com/sunnyMiglani/Parsley/charset"
)

// OpCode names a single VM instruction.
type OpCode uint8

const (
	OpNOP OpCode = iota
	OpHALT
	OpPUSH
	OpPOP
	OpCHAR
	OpSTRING
	OpMATCHSET
	OpEOF
	OpJUMPTABLE
	OpCHOICE
	OpCOMMIT
	OpFAIL
	OpFAILEMPTY
	OpCALL
	OpGOSUB
	OpDYNCALL
	OpRET
	OpGET
	OpPUT
	OpLOCAL
	OpLOCALEND
	OpAPPLY
	OpLINE
	OpCOLUMN
	OpCAP
	OpENDCAP
	OpDEBUG
	OpDUP
	OpJMP
	OpBRANCH
	OpDROPHANDLER
	OpRESETPOS
	OpFAILMSG
	OpFAILDYN
	OpCOMBINE2
	OpCOMBINE3
	OpAPPLY2
	OpSCAN
	OpPERFORM
	OpCHARPERFORM
	OpSTRINGPERFORM
	OpCHAREXCHANGE
	OpSTRINGEXCHANGE
	OpMATCHSETEXCHANGE

	opCodeCount
)

// JumpCase is one entry of a JUMPTABLE instruction: runes accepted by Set
// dispatch to Label.
type JumpCase struct {
	Set   charset.Matcher
	Label int
}

// Instruction is a single decoded VM instruction. Operand fields not used by
// a given OpCode are left at their zero value.
type Instruction struct {
	Code OpCode

	// Arg0 and Arg1 hold small integer operands: register indices,
	// capture slot indices, or debug-site ids, depending on Code.
	Arg0 int
	Arg1 int

	// Label is a code address, used by control-flow instructions.
	Label int

	// Rune is CHAR's literal operand.
	Rune rune

	// Str is STRING's literal operand.
	Str string

	// Expected overrides the label recorded on failure for CHAR, STRING,
	// MATCHSET, and EOF, letting a relabeled leaf (ast.ErrorRelabel,
	// absorbed during preprocess) report its custom label instead of the
	// instruction's default rendering.
	Expected string

	// Matcher is MATCHSET's literal operand.
	Matcher charset.Matcher

	// Cases is JUMPTABLE's dispatch table; Label is its fallthrough/default.
	Cases []JumpCase

	// Fn is an embedded user function: the concrete type depends on the
	// originating ast node (func(interface{}) interface{} for the fused
	// unary PERFORM family, a binary or ternary func for COMBINE2/COMBINE3,
	// the scanner for SCAN, the program builder for DYNCALL). OpAPPLY itself does not use Fn — the function to apply is
	// already a value-stack operand by the time APPLY runs.
	Fn interface{}

	// Value is PUSH's constant-pool operand.
	Value interface{}
}

// String provides a programmer-facing disassembly of a single instruction,
// in the style of a debugger listing rather than a round-trippable encoding.
func (in Instruction) String() string {
	var buf bytes.Buffer
	buf.WriteString(in.Code.String())
	switch in.Code {
	case OpCHAR, OpCHARPERFORM:
		fmt.Fprintf(&buf, " %q", in.Rune)
	case OpSTRING, OpSTRINGPERFORM:
		fmt.Fprintf(&buf, " %q", in.Str)
	case OpMATCHSET:
		fmt.Fprintf(&buf, " %v", in.Matcher)
	case OpCHAREXCHANGE:
		fmt.Fprintf(&buf, " %q -> %#v", in.Rune, in.Value)
	case OpSTRINGEXCHANGE:
		fmt.Fprintf(&buf, " %q -> %#v", in.Str, in.Value)
	case OpMATCHSETEXCHANGE:
		fmt.Fprintf(&buf, " %v -> %#v", in.Matcher, in.Value)
	case OpJUMPTABLE:
		fmt.Fprintf(&buf, " [%d cases] default=L%d", len(in.Cases), in.Label)
	case OpCHOICE, OpCOMMIT, OpCALL, OpGOSUB:
		fmt.Fprintf(&buf, " L%d", in.Label)
	case OpJMP, OpBRANCH, OpFAILMSG:
		if in.Code == OpFAILMSG {
			fmt.Fprintf(&buf, " %q", in.Str)
		} else {
			fmt.Fprintf(&buf, " L%d", in.Label)
		}
	case OpFAILDYN:
		// operand is the popped value stack top at runtime, nothing static to show
	case OpGET, OpPUT, OpLOCAL, OpLOCALEND:
		fmt.Fprintf(&buf, " r%d", in.Arg0)
	case OpCAP, OpENDCAP:
		fmt.Fprintf(&buf, " c%d", in.Arg0)
	case OpPUSH:
		fmt.Fprintf(&buf, " %#v", in.Value)
	case OpDEBUG:
		fmt.Fprintf(&buf, " d%d", in.Arg1)
	}
	return buf.String()
}

// String returns the opcode's mnemonic, as used in disassembly and in
// RuntimeError messages.
func (c OpCode) String() string {
	if int(c) < len(opMeta) {
		return opMeta[c].Name
	}
	return fmt.Sprintf("OpCode(%d)", c)
}
