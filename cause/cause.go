// Package cause implements the failure tree described in spec.md §3: a Cause
// is either a single failure, an interruption, or a sequential/parallel
// composition of sub-causes. It is grounded on the teacher's ResolveError
// (errors.go), reusing its Unwrap-for-errors.Is shape and debug.Stack()
// capture, and on graph.go's iterative (non-recursive) traversal style for
// the leaf-collecting walk used by Contains and TerminalError.
package cause

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m1gwings/treedrawer/tree"
)

// Interrupted is the sentinel error carried by an Interrupt Cause leaf.
var Interrupted = errors.New("interrupted")

// ErrServiceNotFound is returned by effect.ServiceAccess when the requested
// tag is absent from the active Context.
var ErrServiceNotFound = errors.New("service not found")

// ErrTimeout is returned when a Timeout effect's duration elapses first.
var ErrTimeout = errors.New("timeout")

// Kind identifies which Cause variant a node holds.
type Kind int

const (
	KindFail Kind = iota
	KindInterrupt
	KindSequential
	KindParallel
)

// Cause is an immutable node in the failure tree. The zero value is not a
// valid Cause; construct one with Fail, Interrupt, Seq, or Par.
type Cause struct {
	kind     Kind
	err      error
	children []Cause
	stack    []byte
}

// Fail builds a leaf Cause wrapping a single error.
func Fail(err error) Cause {
	return Cause{kind: KindFail, err: err}
}

// FailWithStack builds a leaf Cause carrying a captured stack trace alongside
// err. The interpreter's Sync handler (effect/handlers.go) does not use it:
// it puts the recovered panic's stack into the error message instead.
func FailWithStack(err error, stack []byte) Cause {
	return Cause{kind: KindFail, err: err, stack: stack}
}

// Interrupt builds the singleton-shaped interruption leaf.
func Interrupt() Cause {
	return Cause{kind: KindInterrupt, err: Interrupted}
}

// Seq composes causes that occurred one after another (e.g. a body failure
// followed by a cleanup failure). Invariant: the terminal error is the last
// leaf failure, per spec.md §3.
func Seq(causes ...Cause) Cause {
	return flatten(KindSequential, causes)
}

// Par composes causes that occurred concurrently (e.g. several Parallel
// children failing together).
func Par(causes ...Cause) Cause {
	return flatten(KindParallel, causes)
}

func flatten(kind Kind, causes []Cause) Cause {
	flat := make([]Cause, 0, len(causes))
	for _, c := range causes {
		if c.kind == kind {
			flat = append(flat, c.children...)
			continue
		}
		flat = append(flat, c)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Cause{kind: kind, children: flat}
}

// Kind reports which variant this node is.
func (c Cause) Kind() Kind { return c.kind }

// IsInterrupt reports whether this exact node is an interruption leaf.
func (c Cause) IsInterrupt() bool { return c.kind == KindInterrupt }

// Leaves returns every Fail/Interrupt leaf in structural (left-to-right)
// order, using an explicit stack instead of recursion so pathologically deep
// Sequential/Parallel compositions can't blow the host stack — the same
// non-recursive-traversal guarantee graph.go's FindDependents documents.
func (c Cause) Leaves() []Cause {
	var out []Cause
	type frame struct {
		c   Cause
		idx int
	}
	stack := []frame{{c, 0}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.c.kind == KindFail || top.c.kind == KindInterrupt {
			out = append(out, top.c)
			stack = stack[:len(stack)-1]
			continue
		}
		if top.idx >= len(top.c.children) {
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.c.children[top.idx]
		top.idx++
		stack = append(stack, frame{child, 0})
	}
	return out
}

// TerminalError collapses the tree to a single error for throwing
// interfaces: the last leaf failure for Sequential compositions (spec.md §3
// invariant), or a joined composite for Parallel/mixed trees.
func (c Cause) TerminalError() error {
	leaves := c.Leaves()
	if len(leaves) == 0 {
		return nil
	}
	if len(leaves) == 1 {
		return leaves[0].err
	}
	if c.kind == KindSequential {
		return leaves[len(leaves)-1].err
	}
	errs := make([]error, len(leaves))
	for i, l := range leaves {
		errs[i] = l.err
	}
	return errors.Join(errs...)
}

// Contains reports whether any leaf's error matches target via errors.Is.
func (c Cause) Contains(target error) bool {
	for _, l := range c.Leaves() {
		if errors.Is(l.err, target) {
			return true
		}
	}
	return false
}

// Unwrap lets errors.Is/errors.As traverse straight through a Cause used as
// an error value, mirroring ResolveError.Unwrap in the teacher's errors.go.
func (c Cause) Unwrap() error { return c.TerminalError() }

// Error implements the error interface so a Cause can be returned/compared
// directly where a plain error is expected.
func (c Cause) Error() string {
	if err := c.TerminalError(); err != nil {
		return err.Error()
	}
	return "<empty cause>"
}

// Map applies f to every Fail leaf's error, returning a new Cause with the
// same shape.
func Map(c Cause, f func(error) error) Cause {
	switch c.kind {
	case KindFail:
		return Cause{kind: KindFail, err: f(c.err), stack: c.stack}
	case KindInterrupt:
		return c
	default:
		children := make([]Cause, len(c.children))
		for i, child := range c.children {
			children[i] = Map(child, f)
		}
		return Cause{kind: c.kind, children: children}
	}
}

// PrettyPrint renders the Cause as a human-readable ASCII tree using
// treedrawer, the one third-party dependency the teacher's go.mod carries
// (see extensions/graph_debug.go for the originating pattern).
func (c Cause) PrettyPrint() string {
	root := buildTree(c)
	if root == nil {
		return "<empty cause>"
	}
	return root.String()
}

func buildTree(c Cause) *tree.Tree {
	switch c.kind {
	case KindFail:
		label := fmt.Sprintf("Fail(%v)", c.err)
		return tree.NewTree(tree.NodeString(label))
	case KindInterrupt:
		return tree.NewTree(tree.NodeString("Interrupt"))
	case KindSequential, KindParallel:
		label := "Sequential"
		if c.kind == KindParallel {
			label = "Parallel"
		}
		root := tree.NewTree(tree.NodeString(label))
		for _, child := range c.children {
			childTree := buildTree(child)
			if childTree == nil {
				continue
			}
			addTreeAsChild(root, childTree)
		}
		return root
	default:
		return nil
	}
}

func addTreeAsChild(parent *tree.Tree, child *tree.Tree) {
	newChild := parent.AddChild(child.Val())
	for _, grandchild := range child.Children() {
		addTreeAsChild(newChild, grandchild)
	}
}

// String implements fmt.Stringer with a compact one-line rendering, distinct
// from the multi-line PrettyPrint tree.
func (c Cause) String() string {
	switch c.kind {
	case KindFail:
		return fmt.Sprintf("Fail(%v)", c.err)
	case KindInterrupt:
		return "Interrupt"
	case KindSequential:
		return joinKind("Sequential", c.children)
	case KindParallel:
		return joinKind("Parallel", c.children)
	default:
		return "<invalid cause>"
	}
}

func joinKind(name string, children []Cause) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = child.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
