// Package ast defines the parser combinator tree: a closed family of node
// variants that user code builds up by composition, and that the compiler
// package later rewrites and lowers to a vm.Program.
//
// Every variant embeds Base, which gives it a stable physical identity (for
// the preprocess pass's seen-set and for subroutine/fixpoint keying) and a
// "safe" latch that records whether the node's embedded functions are known
// to be pure. Composite nodes such as Apply, Bind, and Lift2/Lift3 whose
// children reference each other recursively hold their children behind a
// Thunk rather than a direct pointer, so that user code can write
// by-name-recursive grammars; the preprocess pass is what forces each thunk
// exactly once and breaks the resulting cycle with a Fixpoint marker.
package ast

import "sync/atomic"

// ID is the physical identity of a Node, assigned once at construction and
// never reused. Subroutine labels and the preprocess pass's seen-set are
// keyed by ID rather than by structural equality, since two structurally
// identical nodes may be intended as distinct recursion points.
type ID uint64

var idCounter uint64

func newID() ID {
	return ID(atomic.AddUint64(&idCounter, 1))
}

// Node is the marker interface implemented by every combinator variant.
// The compiler dispatches on the concrete type via a type switch; this is
// deliberate; the algebra is closed and new variants are never added by
// third parties, so an open interface hierarchy would only hide the
// exhaustiveness that preprocess/optimise/codegen depend on.
type Node interface {
	// Identity returns the node's physical identity.
	Identity() ID

	// IsSafe reports whether this node's embedded functions (if any) are
	// known to be pure. Optimizations that would change how many times,
	// or in what order, an embedded function is invoked must check this
	// before firing.
	IsSafe() bool

	// node is unexported so that Node cannot be implemented outside this
	// package; it also lets us attach per-variant data below Base.
	node()
}

// Base is embedded by every Node implementation.
type Base struct {
	id   ID
	safe bool
}

// NewBase returns a Base for a new node, marked safe (pure) by default.
func NewBase() Base {
	return Base{id: newID(), safe: true}
}

// NewUnsafeBase returns a Base for a new node whose embedded function(s)
// are not known to be pure.
func NewUnsafeBase() Base {
	return Base{id: newID(), safe: false}
}

func (b *Base) Identity() ID   { return b.id }
func (b *Base) IsSafe() bool   { return b.safe }
func (b *Base) node()          {}

// Thunk is a lazily-forced reference to a child Node, used wherever a
// combinator must be able to refer to a parser that is still being
// constructed — most importantly, to itself. A Thunk must be idempotent:
// calling it more than once must return Nodes with the same Identity, since
// the preprocess pass relies on physical identity to detect recursion.
type Thunk func() Node

// Lazy wraps an already-built Node in a Thunk, for callers that don't need
// actual laziness but want to satisfy a child slot's type.
func Lazy(n Node) Thunk {
	return func() Node { return n }
}

// MZero is implemented by the closed subset of failure-producing leaves:
// Empty, Fail, Unexpected, FastFail, and FastUnexpected. The optimise pass
// tests for this interface wherever the rule set says "MZero" rather than
// naming one specific variant.
type MZero interface {
	Node
	mzero()
}

// IsMZero reports whether n belongs to the MZero subset.
func IsMZero(n Node) bool {
	_, ok := n.(MZero)
	return ok
}

// Child is a lazily-bound child slot. It starts out holding a Thunk; the
// preprocess pass forces the thunk exactly once and leaves the slot holding
// the resolved Node. Invariant (a) from the preprocess contract: every
// composite node's Child slots are Resolved before optimise or codeGen ever
// look at them.
type Child struct {
	thunk    Thunk
	resolved Node
	done     bool
}

// NewChild wraps a Thunk in a fresh, unresolved Child slot.
func NewChild(t Thunk) Child {
	return Child{thunk: t}
}

// NewResolvedChild returns a Child slot already resolved to n, for passes
// that run after preprocess and rebuild nodes from already-resolved parts
// (optimise's rewrites, codegen's fused intermediates) rather than from
// fresh user-supplied thunks.
func NewResolvedChild(n Node) Child {
	return Child{resolved: n, done: true}
}

// Thunk returns the slot's thunk. Only meaningful before Resolve.
func (c *Child) Thunk() Thunk { return c.thunk }

// Resolved reports whether Resolve has already been called.
func (c *Child) Resolved() bool { return c.done }

// Resolve forces the slot, idempotently: a second call is a no-op so that
// repeated visits through shared subtrees don't do redundant work.
func (c *Child) Resolve(n Node) {
	if c.done {
		return
	}
	c.resolved = n
	c.done = true
}

// Get returns the resolved child. Panics if called before preprocess has
// run — that would indicate a compiler bug, not a user error.
func (c *Child) Get() Node {
	if !c.done {
		panic("ast: child slot accessed before preprocess resolved it")
	}
	return c.resolved
}
