package compiler

import "github.com/sunnyMiglani/Parsley/ast"

// optimise rewrites a preprocessed tree bottom-up: every node's children are
// optimised first, then the node itself is rewritten against a small set of
// applicative/alternative/monad-law rules until no rule fires, then the
// result is cached by physical identity so that a DAG node reachable from
// two call sites is only rewritten once and the sharing survives into
// codegen.
func optimise(root ast.Node) ast.Node {
	o := &optimiser{seen: make(map[ast.ID]ast.Node)}
	return o.visit(root)
}

type optimiser struct {
	seen map[ast.ID]ast.Node
}

func (o *optimiser) visit(n ast.Node) ast.Node {
	if _, ok := n.(*ast.ErrorRelabel); ok {
		panic("compiler: *ast.ErrorRelabel survived preprocess")
	}
	if cached, ok := o.seen[n.Identity()]; ok {
		return cached
	}

	kids := children(n)
	newKids := make([]ast.Node, len(kids))
	changed := false
	for i, c := range kids {
		newKids[i] = o.visit(c.Get())
		if newKids[i].Identity() != c.Get().Identity() {
			changed = true
		}
	}
	result := n
	if changed {
		result = rebuild(n, newKids)
	}

	for {
		next, did := rewriteOnce(result)
		if !did {
			break
		}
		result = next
	}

	o.seen[n.Identity()] = result
	o.seen[result.Identity()] = result
	return result
}

// rebuild reconstructs n with its Child slots replaced by newKids, in the
// same order children(n) reported them, leaving every other field as-is.
func rebuild(n ast.Node, newKids []ast.Node) ast.Node {
	rc := func(i int) ast.Child { return ast.NewResolvedChild(newKids[i]) }
	switch v := n.(type) {
	case *ast.Apply:
		nv := *v
		nv.Base = ast.NewBase()
		nv.Pf, nv.Px = rc(0), rc(1)
		return &nv
	case *ast.ThenRight:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P, nv.Q = rc(0), rc(1)
		return &nv
	case *ast.ThenLeft:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P, nv.Q = rc(0), rc(1)
		return &nv
	case *ast.Bind:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P = rc(0)
		return &nv
	case *ast.Lift2:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P, nv.Q = rc(0), rc(1)
		return &nv
	case *ast.Lift3:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P, nv.Q, nv.R = rc(0), rc(1), rc(2)
		return &nv
	case *ast.Alt:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P, nv.Q = rc(0), rc(1)
		return &nv
	case *ast.Attempt:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P = rc(0)
		return &nv
	case *ast.LookAhead:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P = rc(0)
		return &nv
	case *ast.NotFollowedBy:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P = rc(0)
		return &nv
	case *ast.Ternary:
		nv := *v
		nv.Base = ast.NewBase()
		nv.B, nv.P, nv.Q = rc(0), rc(1), rc(2)
		return &nv
	case *ast.Many:
		nv := *v
		nv.Base = ast.NewBase()
		nv.Body = rc(0)
		return &nv
	case *ast.SkipMany:
		nv := *v
		nv.Base = ast.NewBase()
		nv.Body = rc(0)
		return &nv
	case *ast.ChainPre:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P, nv.Op = rc(0), rc(1)
		return &nv
	case *ast.ChainPost:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P, nv.Op = rc(0), rc(1)
		return &nv
	case *ast.ChainLeft:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P, nv.Op = rc(0), rc(1)
		return &nv
	case *ast.ChainRight:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P, nv.Op = rc(0), rc(1)
		return &nv
	case *ast.SepEndBy1:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P, nv.Sep = rc(0), rc(1)
		return &nv
	case *ast.ManyUntil:
		nv := *v
		nv.Base = ast.NewBase()
		nv.Body = rc(0)
		return &nv
	case *ast.FastFail:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P = rc(0)
		return &nv
	case *ast.FastUnexpected:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P = rc(0)
		return &nv
	case *ast.Ensure:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P = rc(0)
		return &nv
	case *ast.Guard:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P = rc(0)
		return &nv
	case *ast.FastGuard:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P = rc(0)
		return &nv
	case *ast.Put:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P = rc(0)
		return &nv
	case *ast.Local:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P, nv.Q = rc(0), rc(1)
		return &nv
	case *ast.Subroutine:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P = rc(0)
		return &nv
	case *ast.Debug:
		nv := *v
		nv.Base = ast.NewBase()
		nv.P = rc(0)
		return &nv
	default:
		return n
	}
}

// literalValue reports the fixed text a leaf token matches (for
// concatenation) alongside the value it actually pushes at runtime (a rune
// for CharTok, a string for StringTok), so constant-fusion rules can build
// a combined matcher without changing the type a caller observes.
func literalValue(n ast.Node) (text string, value interface{}, ok bool) {
	switch v := n.(type) {
	case *ast.CharTok:
		return string(v.Char), v.Char, true
	case *ast.StringTok:
		return v.Text, v.Text, true
	}
	return "", nil, false
}

// composeUnary returns the pointwise composition f . g for the unary
// func(interface{}) interface{} contract every Pure-wrapped Apply/Bind
// function in this package follows.
func composeUnary(f, g func(interface{}) interface{}) func(interface{}) interface{} {
	return func(x interface{}) interface{} { return f(g(x)) }
}

// rewriteOnce applies the first matching algebraic-law rule to n and
// reports whether one fired. No rule consults a node's IsSafe flag. Most
// rules only drop, fold, or reorder around Pure/MZero nodes; the ones that
// fold Pure values (Apply of a Pure function to a Pure argument, Bind over
// Pure) call the embedded user function once, at compile time, rather than
// at run time.
func rewriteOnce(n ast.Node) (ast.Node, bool) {
	for _, c := range children(n) {
		if !c.Resolved() {
			c.Resolve(c.Thunk()())
		}
	}
	switch v := n.(type) {
	case *ast.ThenRight:
		if _, ok := v.P.Get().(*ast.Pure); ok {
			return v.Q.Get(), true
		}
		if ast.IsMZero(v.P.Get()) {
			return v.P.Get(), true
		}
		if text1, _, ok1 := literalValue(v.P.Get()); ok1 {
			if inner, ok := v.Q.Get().(*ast.ThenRight); ok {
				if text2, _, ok2 := literalValue(inner.P.Get()); ok2 {
					fused := ast.NewStringTok(text1 + text2)
					return ast.NewThenRight(ast.Lazy(fused), ast.Lazy(inner.Q.Get())), true
				}
			} else if text2, val2, ok2 := literalValue(v.Q.Get()); ok2 {
				fused := ast.NewStringTok(text1 + text2)
				return ast.NewThenRight(ast.Lazy(fused), ast.Lazy(ast.NewPure(val2))), true
			}
		}

	case *ast.ThenLeft:
		if _, ok := v.Q.Get().(*ast.Pure); ok {
			return v.P.Get(), true
		}
		if ast.IsMZero(v.P.Get()) {
			return v.P.Get(), true
		}
		if ast.IsMZero(v.Q.Get()) {
			return ast.NewThenRight(ast.Lazy(v.P.Get()), ast.Lazy(v.Q.Get())), true
		}
		if text1, val1, ok1 := literalValue(v.P.Get()); ok1 {
			if text2, _, ok2 := literalValue(v.Q.Get()); ok2 {
				fused := ast.NewStringTok(text1 + text2)
				return ast.NewThenRight(ast.Lazy(fused), ast.Lazy(ast.NewPure(val1))), true
			}
		}

	case *ast.Apply:
		pf, pfPure := v.Pf.Get().(*ast.Pure)
		px, pxPure := v.Px.Get().(*ast.Pure)
		if pfPure && pxPure {
			if fn, ok := pf.Value.(func(interface{}) interface{}); ok {
				return ast.NewPure(fn(px.Value)), true
			}
		}
		if ast.IsMZero(v.Pf.Get()) {
			return v.Pf.Get(), true
		}
		if !pfPure && ast.IsMZero(v.Px.Get()) {
			return ast.NewThenRight(ast.Lazy(v.Pf.Get()), ast.Lazy(v.Px.Get())), true
		}
		// functor composition: fmap f (fmap g p) == fmap (f . g) p
		if f, ok := pureFunc(v.Pf.Get()); ok {
			if inner, ok := v.Px.Get().(*ast.Apply); ok {
				if g, ok := pureFunc(inner.Pf.Get()); ok {
					return ast.NewApply(ast.Lazy(ast.NewPure(composeUnary(f, g))), ast.Lazy(inner.Px.Get())), true
				}
			}
		}
		// applicative chain fusion: (pure f2 <*> a) <*> b == lift2 (f2) a b
		if inner, ok := v.Pf.Get().(*ast.Apply); ok {
			if f2, ok := pureFunc(inner.Pf.Get()); ok {
				b := v.Px.Get()
				fn2 := func(x, y interface{}) interface{} {
					step, _ := f2(x).(func(interface{}) interface{})
					return step(y)
				}
				return ast.NewLift2(fn2, ast.Lazy(inner.Px.Get()), ast.Lazy(b)), true
			}
		}
		// interchange: u <*> pure x == pure ($ x) <*> u
		if pxPure && !pfPure {
			x := px.Value
			u := v.Pf.Get()
			flip := func(f interface{}) interface{} {
				fn, _ := f.(func(interface{}) interface{})
				return fn(x)
			}
			return ast.NewApply(ast.Lazy(ast.NewPure(flip)), ast.Lazy(u)), true
		}

	case *ast.Bind:
		if pure, ok := v.P.Get().(*ast.Pure); ok {
			return preprocess(v.K(pure.Value)), true
		}
		if ast.IsMZero(v.P.Get()) {
			return v.P.Get(), true
		}

	case *ast.Alt:
		if empty, ok := v.P.Get().(*ast.Empty); ok && empty.Expected == "" {
			return v.Q.Get(), true
		}
	case *ast.Attempt:
		if pure, ok := v.P.Get().(*ast.Pure); ok {
			return pure, true
		}
	case *ast.LookAhead:
		if pure, ok := v.P.Get().(*ast.Pure); ok {
			return pure, true
		}

	case *ast.Ternary:
		if pure, ok := v.B.Get().(*ast.Pure); ok {
			if b, ok := pure.Value.(bool); ok {
				if b {
					return v.P.Get(), true
				}
				return v.Q.Get(), true
			}
		}

	case *ast.Guard:
		if pure, ok := v.P.Get().(*ast.Pure); ok {
			if v.Pred(pure.Value) {
				return pure, true
			}
			return ast.NewFail(v.Message), true
		}
	case *ast.Ensure:
		if pure, ok := v.P.Get().(*ast.Pure); ok {
			if v.Pred(pure.Value) {
				return pure, true
			}
			return ast.NewEmpty(), true
		}
	case *ast.FastGuard:
		if pure, ok := v.P.Get().(*ast.Pure); ok {
			if v.Pred(pure.Value) {
				return pure, true
			}
			return ast.NewFail(v.Gen(pure.Value)), true
		}
	case *ast.FastFail:
		if pure, ok := v.P.Get().(*ast.Pure); ok {
			return ast.NewFail(v.Gen(pure.Value)), true
		}
	case *ast.FastUnexpected:
		if pure, ok := v.P.Get().(*ast.Pure); ok {
			return ast.NewUnexpected(v.Gen(pure.Value)), true
		}

	case *ast.StringTok:
		if v.Text == "" {
			return ast.NewPure(""), true
		}

	case *ast.Many:
		if _, ok := v.Body.Get().(*ast.Pure); ok {
			panic("compiler: Many body never consumes input, which would loop forever")
		}
		if ast.IsMZero(v.Body.Get()) {
			return ast.NewPure([]interface{}(nil)), true
		}
	case *ast.SkipMany:
		if _, ok := v.Body.Get().(*ast.Pure); ok {
			panic("compiler: SkipMany body never consumes input, which would loop forever")
		}
		if ast.IsMZero(v.Body.Get()) {
			return ast.NewPure(nil), true
		}
	case *ast.ChainPre:
		if _, ok := v.Op.Get().(*ast.Pure); ok {
			panic("compiler: ChainPre operator never consumes input, which would loop forever")
		}
		if ast.IsMZero(v.Op.Get()) {
			return v.P.Get(), true
		}
	case *ast.ChainPost:
		if _, ok := v.Op.Get().(*ast.Pure); ok {
			panic("compiler: ChainPost operator never consumes input, which would loop forever")
		}
		if ast.IsMZero(v.Op.Get()) {
			return v.P.Get(), true
		}
	}
	return n, false
}
