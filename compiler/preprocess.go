package compiler

import "github.com/sunnyMiglani/Parsley/ast"

// preprocess walks root, forcing every lazy ast.Child thunk exactly once,
// replacing any back-edge (a node reached a second time while it is still
// on the current path) with an ast.Fixpoint, and absorbing each ErrorRelabel
// label into the leaf it directly wraps. It returns the resolved root, which
// may differ physically from root itself (an ErrorRelabel root is replaced
// by its relabeled target).
//
// The walk is driven by an explicit stack of frames rather than Go call
// recursion, so its memory usage tracks the ast's depth as heap-resident
// state instead of native stack frames: run below never calls itself or
// visit/visitChildren-style helpers recursively.
func preprocess(root ast.Node) ast.Node {
	p := &preprocessor{active: make(map[ast.ID]bool), done: make(map[ast.ID]bool)}
	return p.run(root)
}

type preprocessor struct {
	active map[ast.ID]bool
	done   map[ast.ID]bool
}

// frame is one pending visit, waiting on either its ErrorRelabel target or
// its next unresolved child slot.
type frame struct {
	node    ast.Node
	id      ast.ID
	relabel *ast.ErrorRelabel
	slots   []*ast.Child
	idx     int
}

// run walks root with an explicit worklist: enter pushes a frame (or
// resolves a trivial case straight into pending), and the main loop either
// feeds a just-resolved value to the frame beneath it or advances the
// frame on top to its next child.
func (p *preprocessor) run(root ast.Node) ast.Node {
	var stack []*frame
	var pending ast.Node
	havePending := false

	enter := func(n ast.Node) {
		id := n.Identity()
		if p.active[id] {
			pending, havePending = ast.NewFixpoint(n), true
			return
		}
		if p.done[id] {
			pending, havePending = n, true
			return
		}
		p.active[id] = true
		f := &frame{node: n, id: id}
		if er, ok := n.(*ast.ErrorRelabel); ok {
			f.relabel = er
		} else {
			f.slots = children(n)
		}
		stack = append(stack, f)
	}

	finish := func(f *frame, result ast.Node) {
		stack = stack[:len(stack)-1]
		delete(p.active, f.id)
		p.done[result.Identity()] = true
		pending, havePending = result, true
	}

	enter(root)
	for {
		if havePending {
			if len(stack) == 0 {
				return pending
			}
			top := stack[len(stack)-1]
			val := pending
			havePending = false
			if top.relabel != nil {
				result := val
				if relabeled, ok := relabel(val, top.relabel.Message); ok {
					result = relabeled
				}
				finish(top, result)
				continue
			}
			top.slots[top.idx].Resolve(val)
			top.idx++
			continue
		}

		top := stack[len(stack)-1]
		if top.relabel != nil {
			enter(top.relabel.P.Thunk()())
			continue
		}
		for top.idx < len(top.slots) && top.slots[top.idx].Resolved() {
			top.idx++
		}
		if top.idx < len(top.slots) {
			enter(top.slots[top.idx].Thunk()())
			continue
		}
		finish(top, top.node)
	}
}

// relabel returns a clone of n with its Expected field overwritten by msg,
// for every leaf type that carries one. Combinators (anything without an
// Expected field of its own) have no single place to attach the label, so
// relabel reports ok=false and the caller keeps n as-is — the label simply
// has no effect, which only arises from labeling a combinator that isn't
// itself a single failing leaf.
func relabel(n ast.Node, msg string) (ast.Node, bool) {
	switch v := n.(type) {
	case *ast.CharTok:
		return v.WithExpected(msg), true
	case *ast.StringTok:
		return v.WithExpected(msg), true
	case *ast.Satisfy:
		return v.WithExpected(msg), true
	case *ast.Eof:
		return v.WithExpected(msg), true
	case *ast.Keyword:
		return v.WithExpected(msg), true
	case *ast.Operator:
		return v.WithExpected(msg), true
	case *ast.StringLiteral:
		return v.WithExpected(msg), true
	case *ast.RawStringLiteral:
		return v.WithExpected(msg), true
	case *ast.Empty:
		return v.WithExpected(msg), true
	case *ast.NotFollowedBy:
		clone := *v
		clone.Expected = msg
		return &clone, true
	default:
		return n, false
	}
}

// children returns pointers to n's lazy Child slots, in evaluation order,
// for every node kind that has any. Leaves and Fixpoint (whose Target is a
// non-owning reference into an already-visited part of the tree, not a
// fresh subtree to descend into) return nil.
func children(n ast.Node) []*ast.Child {
	switch v := n.(type) {
	case *ast.Apply:
		return []*ast.Child{&v.Pf, &v.Px}
	case *ast.ThenRight:
		return []*ast.Child{&v.P, &v.Q}
	case *ast.ThenLeft:
		return []*ast.Child{&v.P, &v.Q}
	case *ast.Bind:
		return []*ast.Child{&v.P}
	case *ast.Lift2:
		return []*ast.Child{&v.P, &v.Q}
	case *ast.Lift3:
		return []*ast.Child{&v.P, &v.Q, &v.R}
	case *ast.Alt:
		return []*ast.Child{&v.P, &v.Q}
	case *ast.Attempt:
		return []*ast.Child{&v.P}
	case *ast.LookAhead:
		return []*ast.Child{&v.P}
	case *ast.NotFollowedBy:
		return []*ast.Child{&v.P}
	case *ast.Ternary:
		return []*ast.Child{&v.B, &v.P, &v.Q}
	case *ast.Many:
		return []*ast.Child{&v.Body}
	case *ast.SkipMany:
		return []*ast.Child{&v.Body}
	case *ast.ChainPre:
		return []*ast.Child{&v.P, &v.Op}
	case *ast.ChainPost:
		return []*ast.Child{&v.P, &v.Op}
	case *ast.ChainLeft:
		return []*ast.Child{&v.P, &v.Op}
	case *ast.ChainRight:
		return []*ast.Child{&v.P, &v.Op}
	case *ast.SepEndBy1:
		return []*ast.Child{&v.P, &v.Sep}
	case *ast.ManyUntil:
		return []*ast.Child{&v.Body}
	case *ast.FastFail:
		return []*ast.Child{&v.P}
	case *ast.FastUnexpected:
		return []*ast.Child{&v.P}
	case *ast.Ensure:
		return []*ast.Child{&v.P}
	case *ast.Guard:
		return []*ast.Child{&v.P}
	case *ast.FastGuard:
		return []*ast.Child{&v.P}
	case *ast.Put:
		return []*ast.Child{&v.P}
	case *ast.Local:
		return []*ast.Child{&v.P, &v.Q}
	case *ast.Subroutine:
		return []*ast.Child{&v.P}
	case *ast.Debug:
		return []*ast.Child{&v.P}
	default:
		return nil
	}
}
