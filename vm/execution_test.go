package vm

import (
	"testing"

	"github.com/sunnyMiglani/Parsley/charset"
)

func runProgram(t *testing.T, prog *Program, input string) Result {
	t.Helper()
	ex := NewExecution(prog, input, nil)
	return ex.Run()
}

func TestCharTok_Success(t *testing.T) {
	prog := &Program{Instrs: []Instruction{
		{Code: OpCHAR, Rune: 'a'},
		{Code: OpHALT},
	}}
	res := runProgram(t, prog, "a")
	if !res.Success() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if res.Value != 'a' {
		t.Fatalf("expected 'a', got %v", res.Value)
	}
}

func TestCharTok_Failure(t *testing.T) {
	prog := &Program{Instrs: []Instruction{
		{Code: OpCHAR, Rune: 'a'},
		{Code: OpHALT},
	}}
	res := runProgram(t, prog, "b")
	if res.Success() {
		t.Fatalf("expected failure")
	}
	pe, ok := res.Err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", res.Err)
	}
	if len(pe.Expected) != 1 || pe.Expected[0] != "'a'" {
		t.Fatalf("unexpected Expected: %v", pe.Expected)
	}
}

func TestAlt_BacktracksOnFailure(t *testing.T) {
	// Alt(char('a'), char('b')): CHOICE L2; CHAR 'a'; COMMIT L3; L2: CHAR 'b'; L3: HALT
	prog := &Program{Instrs: []Instruction{
		{Code: OpCHOICE, Label: 3},
		{Code: OpCHAR, Rune: 'a'},
		{Code: OpCOMMIT, Label: 4},
		{Code: OpCHAR, Rune: 'b'},
		{Code: OpHALT},
	}}
	res := runProgram(t, prog, "b")
	if !res.Success() || res.Value != 'b' {
		t.Fatalf("expected success with 'b', got %v / %v", res.Value, res.Err)
	}
}

func TestMany_CollectsViaRegister(t *testing.T) {
	// A hand-assembled "many(char('a'))" loop using a register as the
	// accumulator: PUT an empty slice, loop CHOICE/CHAR/APPEND/COMMIT,
	// then GET the accumulated slice.
	appendFn := func(acc interface{}) interface{} {
		return append(acc.([]rune), 'a')
	}
	prog := &Program{Instrs: []Instruction{
		{Code: OpPUSH, Value: []rune(nil)},
		{Code: OpPUT, Arg0: 0},
		// loop:
		{Code: OpCHOICE, Label: 8},
		{Code: OpCHAR, Rune: 'a'},
		{Code: OpPOP},
		{Code: OpGET, Arg0: 0},
		{Code: OpPUSH, Value: appendFn},
		{Code: OpAPPLY},
		{Code: OpPUT, Arg0: 0},
		{Code: OpCOMMIT, Label: 2},
		// exhausted:
		{Code: OpGET, Arg0: 0},
		{Code: OpHALT},
	}}
	// fix labels: index 1 is PUT; loop starts at 2; the CHOICE target on
	// failure should be the exhausted branch at index 10.
	prog.Instrs[2].Label = 10
	prog.Instrs[9].Label = 2

	res := runProgram(t, prog, "aaab")
	if !res.Success() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	got := res.Value.([]rune)
	if string(got) != "aaa" {
		t.Fatalf("expected \"aaa\", got %q", string(got))
	}
}

func TestMatchSet(t *testing.T) {
	digits := charset.Ranges(charset.Range{Lo: '0', Hi: '9'})
	prog := &Program{Instrs: []Instruction{
		{Code: OpMATCHSET, Matcher: digits},
		{Code: OpHALT},
	}}
	res := runProgram(t, prog, "7")
	if !res.Success() || res.Value != '7' {
		t.Fatalf("expected success with '7', got %v / %v", res.Value, res.Err)
	}
}

func TestLocal_RestoresOnFailure(t *testing.T) {
	// PUSH 1; PUT r0; LOCAL r0; PUSH 2; PUT r0; CHOICE; CHAR 'z' (fails, caught);
	// LOCALEND r0; HALT with GET r0
	prog := &Program{Instrs: []Instruction{
		{Code: OpPUSH, Value: 1},
		{Code: OpPUT, Arg0: 0},
		{Code: OpLOCAL, Arg0: 0},
		{Code: OpPUSH, Value: 2},
		{Code: OpPUT, Arg0: 0},
		{Code: OpCHOICE, Label: 8},
		{Code: OpCHAR, Rune: 'z'},
		{Code: OpCOMMIT, Label: 9},
		{Code: OpLOCALEND, Arg0: 0},
		{Code: OpGET, Arg0: 0},
		{Code: OpHALT},
	}}
	res := runProgram(t, prog, "a")
	if !res.Success() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if res.Value != 1 {
		t.Fatalf("expected register restored to 1, got %v", res.Value)
	}
}

func TestAdvance_TabStopsAtNextMultipleOfFour(t *testing.T) {
	prog := &Program{Instrs: []Instruction{
		{Code: OpCHAR, Rune: 'a'},
		{Code: OpCHAR, Rune: '\t'},
		{Code: OpCHAR, Rune: 'b'},
		{Code: OpHALT},
	}}
	res := runProgram(t, prog, "a\tb")
	if !res.Success() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if res.Line != 0 || res.Col != 5 {
		t.Fatalf("expected line 0 col 5 after 'a' (col 0->1), tab (col 1->4), 'b' (col 4->5), got line %d col %d", res.Line, res.Col)
	}
}

func TestAdvance_NewlineResetsColumnAndBumpsLine(t *testing.T) {
	prog := &Program{Instrs: []Instruction{
		{Code: OpCHAR, Rune: 'a'},
		{Code: OpCHAR, Rune: '\n'},
		{Code: OpCHAR, Rune: 'b'},
		{Code: OpHALT},
	}}
	res := runProgram(t, prog, "a\nb")
	if !res.Success() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if res.Line != 1 || res.Col != 1 {
		t.Fatalf("expected line 1 col 1, got line %d col %d", res.Line, res.Col)
	}
}
