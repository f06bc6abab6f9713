package ast

import "github.com/sunnyMiglani/Parsley/charset"

// CharTok matches exactly one specific code point and yields it as its
// value. Expected is the label reported on failure; NewCharTok sets it to
// the quoted rune, and the preprocess pass replaces it when the leaf is the
// direct target of an ErrorRelabel.
type CharTok struct {
	Base
	Char     rune
	Expected string
}

func NewCharTok(c rune) *CharTok {
	return &CharTok{Base: NewBase(), Char: c, Expected: quoteRune(c)}
}

func (n *CharTok) WithExpected(label string) *CharTok {
	return &CharTok{Base: n.Base, Char: n.Char, Expected: label}
}

// StringTok atomically matches a literal string and yields it as its
// value. "Atomically" means that on a partial match, no input is consumed.
type StringTok struct {
	Base
	Text     string
	Expected string
}

func NewStringTok(s string) *StringTok {
	return &StringTok{Base: NewBase(), Text: s, Expected: "\"" + s + "\""}
}

func (n *StringTok) WithExpected(label string) *StringTok {
	return &StringTok{Base: n.Base, Text: n.Text, Expected: label}
}

// Satisfy matches a single code point accepted by Pred. Set, if non-nil, is
// a charset.Matcher equivalent to Pred; when present, the code generator can
// fuse Satisfy into a single MatchSet instruction and the tablifier can
// enumerate Set's members as jump-table leads — something a bare predicate
// function can never offer, since it can't be enumerated.
type Satisfy struct {
	Base
	Pred     func(rune) bool
	Set      charset.Matcher
	Expected string
}

func NewSatisfy(pred func(rune) bool, expected string) *Satisfy {
	return &Satisfy{Base: NewBase(), Pred: pred, Expected: expected}
}

// NewSatisfySet builds a Satisfy node backed by a charset.Matcher, which the
// code generator and tablifier can exploit directly.
func NewSatisfySet(set charset.Matcher, expected string) *Satisfy {
	return &Satisfy{Base: NewBase(), Pred: set.Match, Set: set, Expected: expected}
}

func (n *Satisfy) WithExpected(label string) *Satisfy {
	return &Satisfy{Base: n.Base, Pred: n.Pred, Set: n.Set, Expected: label}
}

// Eof succeeds, consuming nothing, iff the input is exhausted.
type Eof struct {
	Base
	Expected string
}

func NewEof() *Eof {
	return &Eof{Base: NewBase(), Expected: "end of input"}
}

func (n *Eof) WithExpected(label string) *Eof {
	return &Eof{Base: n.Base, Expected: label}
}

// Keyword, Operator, StringLiteral, and RawStringLiteral are the
// token-layer seam: the lexical layer (out of scope for this package)
// builds grammars out of these leaves. The tablifier does not dispatch on
// them (nor on StringTok): only CharTok and Satisfy leaves backed by a
// charset.Matcher become jump-table arms, and an Alt arm that is one of
// these leaves is compiled as an ordinary CHOICE alternative.
type Keyword struct {
	Base
	Text     string
	Expected string
}

func NewKeyword(s string) *Keyword {
	return &Keyword{Base: NewBase(), Text: s, Expected: s}
}

func (n *Keyword) WithExpected(label string) *Keyword {
	return &Keyword{Base: n.Base, Text: n.Text, Expected: label}
}

type Operator struct {
	Base
	Text     string
	Expected string
}

func NewOperator(s string) *Operator {
	return &Operator{Base: NewBase(), Text: s, Expected: s}
}

func (n *Operator) WithExpected(label string) *Operator {
	return &Operator{Base: n.Base, Text: n.Text, Expected: label}
}

// StringLiteral matches a quoted string body starting at the current
// position, delimited by Quote, with Escape as the escape introducer (0 to
// disable escapes). It yields the unescaped body.
type StringLiteral struct {
	Base
	Quote    rune
	Escape   rune
	Expected string
}

func NewStringLiteral(quote, escape rune) *StringLiteral {
	return &StringLiteral{Base: NewBase(), Quote: quote, Escape: escape, Expected: "string"}
}

func (n *StringLiteral) WithExpected(label string) *StringLiteral {
	return &StringLiteral{Base: n.Base, Quote: n.Quote, Escape: n.Escape, Expected: label}
}

// RawStringLiteral matches a string body with no escape processing at all,
// delimited by Quote on both ends.
type RawStringLiteral struct {
	Base
	Quote    rune
	Expected string
}

func NewRawStringLiteral(quote rune) *RawStringLiteral {
	return &RawStringLiteral{Base: NewBase(), Quote: quote, Expected: "string"}
}

func (n *RawStringLiteral) WithExpected(label string) *RawStringLiteral {
	return &RawStringLiteral{Base: n.Base, Quote: n.Quote, Expected: label}
}

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}
