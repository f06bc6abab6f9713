package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/sunnyMiglani/Parsley/ast"
	"github.com/sunnyMiglani/Parsley/charset"
	"github.com/sunnyMiglani/Parsley/parsley"
)

var digitSet = charset.Ranges(charset.Range{Lo: '0', Hi: '9'})
var letterSet = charset.Or(
	charset.Ranges(charset.Range{Lo: 'a', Hi: 'z'}),
	charset.Ranges(charset.Range{Lo: 'A', Hi: 'Z'}),
)

// grammars is the set of built-in example grammars parsley-play knows how
// to compile and run, keyed by the name a caller passes on the command
// line.
var grammars = map[string]func() parsley.Parser{
	"arith": ArithmeticGrammar,
	"value": ValueGrammar,
	"block": IndentGrammar,
}

func grammarNames() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupGrammar(name string) (parsley.Parser, error) {
	build, ok := grammars[name]
	if !ok {
		return nil, fmt.Errorf("unknown grammar %q (available: %v)", name, grammarNames())
	}
	return build(), nil
}

// oneOrMore collects a Satisfy-backed leaf run into a []interface{} of the
// runes it matched.
func oneOrMore(leaf *ast.Satisfy) ast.Node {
	rest := ast.NewMany(ast.Lazy(leaf))
	return ast.NewLift2(
		func(first, rest interface{}) interface{} {
			return append([]interface{}{first}, rest.([]interface{})...)
		},
		ast.Lazy(leaf),
		ast.Lazy(rest),
	)
}

func runesToString(v interface{}) string {
	items := v.([]interface{})
	buf := make([]rune, len(items))
	for i, r := range items {
		buf[i] = r.(rune)
	}
	return string(buf)
}

// integerLiteral matches one or more decimal digits and yields the parsed
// int.
func integerLiteral() ast.Node {
	digit := ast.NewSatisfySet(digitSet, "digit")
	digits := oneOrMore(digit)
	return ast.NewBind(ast.Lazy(digits), func(v interface{}) ast.Node {
		n, err := strconv.Atoi(runesToString(v))
		if err != nil {
			return ast.NewFail("invalid integer literal")
		}
		return ast.NewPure(n)
	})
}

func binOp(text string, fn func(a, b interface{}) interface{}) ast.Node {
	return ast.NewThenRight(ast.Lazy(ast.NewOperator(text)), ast.Lazy(ast.NewPure(fn)))
}

func altAll(ps ...ast.Node) ast.Node {
	if len(ps) == 1 {
		return ps[0]
	}
	return ast.NewAlt(ast.Lazy(ps[0]), ast.Lazy(altAll(ps[1:]...)))
}

// ArithmeticGrammar builds a left-associative four-operator arithmetic
// expression grammar over parenthesized integer literals: expr chains term
// on + and -, term chains factor on * and /, and factor is either an
// integer literal or a parenthesized expr, closing the recursion through a
// forward reference resolved by the compiler's preprocess pass.
func ArithmeticGrammar() parsley.Parser {
	var expr ast.Node
	exprRef := func() ast.Node { return expr }

	paren := ast.NewThenRight(
		ast.Lazy(ast.NewOperator("(")),
		ast.Lazy(ast.NewThenLeft(exprRef, ast.Lazy(ast.NewOperator(")")))),
	)
	factor := ast.NewAlt(ast.Lazy(integerLiteral()), ast.Lazy(paren))

	mulOp := altAll(
		binOp("*", func(a, b interface{}) interface{} { return a.(int) * b.(int) }),
		binOp("/", func(a, b interface{}) interface{} { return a.(int) / b.(int) }),
	)
	term := ast.NewChainLeft(ast.Lazy(factor), ast.Lazy(mulOp))

	addOp := altAll(
		binOp("+", func(a, b interface{}) interface{} { return a.(int) + b.(int) }),
		binOp("-", func(a, b interface{}) interface{} { return a.(int) - b.(int) }),
	)
	expr = ast.NewChainLeft(ast.Lazy(term), ast.Lazy(addOp))

	return expr
}

// ValueGrammar builds a JSON-like scalar/array grammar: integers, quoted
// strings, the true/false/null keywords, and comma-separated arrays of
// values nested to any depth, again closed through a forward reference.
func ValueGrammar() parsley.Parser {
	var value ast.Node
	valueRef := func() ast.Node { return value }

	str := ast.NewStringLiteral('"', '\\')
	boolTrue := ast.NewThenRight(ast.Lazy(ast.NewKeyword("true")), ast.Lazy(ast.NewPure(true)))
	boolFalse := ast.NewThenRight(ast.Lazy(ast.NewKeyword("false")), ast.Lazy(ast.NewPure(false)))
	null := ast.NewThenRight(ast.Lazy(ast.NewKeyword("null")), ast.Lazy(ast.NewPure(nil)))

	elements := ast.NewSepEndBy1(valueRef, ast.Lazy(ast.NewOperator(",")))
	emptyArray := ast.NewThenRight(
		ast.Lazy(ast.NewOperator("[")),
		ast.Lazy(ast.NewThenRight(ast.Lazy(ast.NewOperator("]")), ast.Lazy(ast.NewPure([]interface{}{})))),
	)
	nonEmptyArray := ast.NewThenRight(
		ast.Lazy(ast.NewOperator("[")),
		ast.Lazy(ast.NewThenLeft(ast.Lazy(elements), ast.Lazy(ast.NewOperator("]")))),
	)
	array := ast.NewAlt(ast.Lazy(ast.NewAttempt(ast.Lazy(emptyArray))), ast.Lazy(nonEmptyArray))

	value = altAll(integerLiteral(), str, boolTrue, boolFalse, null, array)
	return value
}

func exactSpaces(n int) ast.Node {
	if n <= 0 {
		return ast.NewPure(nil)
	}
	var node ast.Node = ast.NewCharTok(' ')
	for i := 1; i < n; i++ {
		node = ast.NewThenRight(ast.Lazy(ast.NewCharTok(' ')), ast.Lazy(node))
	}
	return node
}

// IndentGrammar builds an indentation-sensitive block grammar: each block
// is a label at the current indent level (tracked in register 0) followed
// by zero or more nested blocks indented two spaces further, using
// Get/Put/Local the way a caller tracking scope depth or brace nesting
// would.
func IndentGrammar() parsley.Parser {
	var block ast.Node
	blockRef := func() ast.Node { return block }

	label := oneOrMore(ast.NewSatisfySet(letterSet, "letter"))
	indent := ast.NewBind(ast.Lazy(ast.NewGet(0)), func(v interface{}) ast.Node {
		return exactSpaces(v.(int))
	})
	header := ast.NewThenRight(ast.Lazy(indent), ast.Lazy(label))

	nested := ast.NewMany(ast.Lazy(ast.NewThenRight(ast.Lazy(ast.NewCharTok('\n')), blockRef)))
	deeper := ast.NewBind(ast.Lazy(ast.NewGet(0)), func(v interface{}) ast.Node {
		return ast.NewPure(v.(int) + 2)
	})
	body := ast.NewLocal(0, ast.Lazy(deeper), ast.Lazy(nested))

	block = ast.NewLift2(
		func(h, children interface{}) interface{} {
			return map[string]interface{}{"header": runesToString(h), "children": children}
		},
		ast.Lazy(header),
		ast.Lazy(body),
	)

	return ast.NewThenRight(ast.Lazy(ast.NewPut(0, ast.Lazy(ast.NewPure(0)))), ast.Lazy(block))
}
