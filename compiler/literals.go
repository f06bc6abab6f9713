package compiler

import (
	"unicode"

	"github.com/sunnyMiglani/Parsley/ast"
	"github.com/sunnyMiglani/Parsley/vm"
)

// pureFunc reports whether n is a Pure node wrapping a unary function,
// which is what makes Apply(Pure(f), p) fusable into a single Perform-style
// instruction instead of the generic Push-f-then-Apply shape.
func pureFunc(n ast.Node) (func(interface{}) interface{}, bool) {
	p, ok := n.(*ast.Pure)
	if !ok {
		return nil, false
	}
	fn, ok := p.Value.(func(interface{}) interface{})
	return fn, ok
}

// emitCharTokFastPerform fuses Apply(Pure(f), CharTok(c)) into one
// instruction: match c, then apply f to it directly, with no intermediate
// Push+Apply dance over the value stack.
func (cs *codegenState) emitCharTokFastPerform(v *ast.CharTok, fn func(interface{}) interface{}) {
	cs.a.emit(vm.Instruction{Code: vm.OpCHARPERFORM, Rune: v.Char, Fn: fn, Expected: v.Expected})
}

// emitStringTokFastPerform is emitCharTokFastPerform's StringTok analogue.
func (cs *codegenState) emitStringTokFastPerform(v *ast.StringTok, fn func(interface{}) interface{}) {
	cs.a.emit(vm.Instruction{Code: vm.OpSTRINGPERFORM, Str: v.Text, Fn: fn, Expected: v.Expected})
}

// emitCharTokExchange fuses ThenRight(CharTok(c), Pure(x)) into one
// instruction: match c, discard it, and push the constant x straight away.
func (cs *codegenState) emitCharTokExchange(v *ast.CharTok, value interface{}) {
	cs.a.emit(vm.Instruction{Code: vm.OpCHAREXCHANGE, Rune: v.Char, Value: value, Expected: v.Expected})
}

// emitStringTokExchange is emitCharTokExchange's StringTok analogue.
func (cs *codegenState) emitStringTokExchange(v *ast.StringTok, value interface{}) {
	cs.a.emit(vm.Instruction{Code: vm.OpSTRINGEXCHANGE, Str: v.Text, Value: value, Expected: v.Expected})
}

// emitSatisfyExchange is emitCharTokExchange's Satisfy analogue, available
// only when Satisfy carries a charset.Matcher (so there is something for
// MATCHSETEXCHANGE to dispatch on at runtime).
func (cs *codegenState) emitSatisfyExchange(v *ast.Satisfy, value interface{}) {
	cs.a.emit(vm.Instruction{Code: vm.OpMATCHSETEXCHANGE, Matcher: v.Set, Value: value, Expected: v.Expected})
}

// scanLiteral builds an OpSCAN closure that matches a fixed literal string,
// atomically: on a partial match nothing is consumed. Used for Operator
// (and reused directly by CharTok/StringTok's simple cases would be
// wasteful, which is why those keep their own dedicated CHAR/STRING
// opcodes instead).
func scanLiteral(text string) func(input []rune, pos int) (interface{}, int, bool) {
	runes := []rune(text)
	return func(input []rune, pos int) (interface{}, int, bool) {
		if pos+len(runes) > len(input) {
			return nil, pos, false
		}
		for i, r := range runes {
			if input[pos+i] != r {
				return nil, pos, false
			}
		}
		return text, pos + len(runes), true
	}
}

// isIdentRune decides what counts as "still part of the same word" for
// Keyword's trailing-boundary check, so "ifx" is not mistaken for the
// keyword "if" followed by "x".
func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// emitKeyword matches Text literally, then asserts the next rune (if any)
// is not an identifier rune, so a keyword never matches a prefix of a
// longer identifier.
func (cs *codegenState) emitKeyword(v *ast.Keyword) {
	text := v.Text
	fn := func(input []rune, pos int) (interface{}, int, bool) {
		runes := []rune(text)
		if pos+len(runes) > len(input) {
			return nil, pos, false
		}
		for i, r := range runes {
			if input[pos+i] != r {
				return nil, pos, false
			}
		}
		end := pos + len(runes)
		if end < len(input) && isIdentRune(input[end]) {
			return nil, pos, false
		}
		return text, end, true
	}
	cs.a.emit(vm.Instruction{Code: vm.OpSCAN, Fn: fn, Expected: v.Expected})
}

// scanQuoted matches a quote-delimited string body, honoring escape as the
// escape introducer (any rune immediately following it is taken literally
// into the result, rather than terminating or reprocessing the string). A
// zero escape rune disables escape processing, equivalent to scanRawQuoted.
func scanQuoted(quote, escape rune) func(input []rune, pos int) (interface{}, int, bool) {
	return func(input []rune, pos int) (interface{}, int, bool) {
		if pos >= len(input) || input[pos] != quote {
			return nil, pos, false
		}
		var out []rune
		i := pos + 1
		for i < len(input) {
			r := input[i]
			if r == quote {
				return string(out), i + 1, true
			}
			if escape != 0 && r == escape && i+1 < len(input) {
				out = append(out, input[i+1])
				i += 2
				continue
			}
			out = append(out, r)
			i++
		}
		return nil, pos, false
	}
}

// scanRawQuoted matches a quote-delimited string body with no escape
// processing at all: the closing Quote always ends the literal.
func scanRawQuoted(quote rune) func(input []rune, pos int) (interface{}, int, bool) {
	return func(input []rune, pos int) (interface{}, int, bool) {
		if pos >= len(input) || input[pos] != quote {
			return nil, pos, false
		}
		for i := pos + 1; i < len(input); i++ {
			if input[i] == quote {
				return string(input[pos+1 : i]), i + 1, true
			}
		}
		return nil, pos, false
	}
}
