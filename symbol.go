package casso

import (
	"fmt"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
)

// Kind distinguishes the five disjoint families of variable the kernel
// allocates. Identity is by allocation (a monotonically increasing counter),
// never by name or kind alone.
type Kind uint8

const (
	// External variables are visible to the client, carry a cached numeric
	// value, and may appear in client-supplied expressions.
	External Kind = iota
	// Slack variables are introduced one per inequality constraint.
	Slack
	// Dummy variables are introduced one per required equality constraint.
	Dummy
	// Error variables (always allocated in +/- pairs for equalities, singly
	// for inequalities) measure deviation from a non-required constraint.
	Error
	// Objective names the objective row's basic slot. The solver keeps its
	// objective row as a plain Expression and allocates no Var of this kind.
	Objective
)

var kindNames = [...]string{
	External:  "external",
	Slack:     "slack",
	Dummy:     "dummy",
	Error:     "error",
	Objective: "objective",
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Restricted reports whether variables of this kind are constrained to be
// non-negative at all times. Slack, dummy, and error variables are
// restricted; external and objective variables are not.
func (k Kind) Restricted() bool { return k == Slack || k == Dummy || k == Error }

// Pivotable reports whether variables of this kind may become basic. Dummy
// variables are restricted but never pivotable: once removed from the basis
// during phase-1 they must never re-enter it (invariant D1).
func (k Kind) Pivotable() bool { return k == Slack || k == Error || k == External }

// Var is the identity of a single variable allocated by a solver's registry.
// The kind is packed into the top bits of the id so that Kind/Restricted/
// Pivotable queries require no map lookup; the low bits are a monotonic
// counter shared by every solver in the process. The zero Var is never allocated and denotes "no
// variable" (the solver-internal sentinel for "not found").
type Var uint64

const (
	varKindShift = 61
	varKindMask  = uint64(0x7) << varKindShift
	varSeqMask   = ^varKindMask
)

var varCounter uint64

func newVar(kind Kind) Var {
	seq := atomic.AddUint64(&varCounter, 1) & varSeqMask
	return Var(seq | (uint64(kind) << varKindShift))
}

// Kind returns the variable's allocation kind.
func (v Var) Kind() Kind { return Kind((uint64(v) & varKindMask) >> varKindShift) }

// Zero reports whether v is the sentinel "no variable" value.
func (v Var) Zero() bool { return v == 0 }

// Restricted reports whether v must remain non-negative.
func (v Var) Restricted() bool { return !v.Zero() && v.Kind().Restricted() }

// Pivotable reports whether v may become basic during a pivot.
func (v Var) Pivotable() bool { return !v.Zero() && v.Kind().Pivotable() }

// External reports whether v is a client-visible variable.
func (v Var) External() bool { return !v.Zero() && v.Kind() == External }

// Dummy reports whether v was introduced for a required equality.
func (v Var) Dummy() bool { return !v.Zero() && v.Kind() == Dummy }

// Slack reports whether v was introduced for an inequality.
func (v Var) Slack() bool { return !v.Zero() && v.Kind() == Slack }

// ErrorVar reports whether v measures deviation from a non-required
// constraint. Named ErrorVar (not Error) to avoid colliding with the error
// interface in call sites that range over both.
func (v Var) ErrorVar() bool { return !v.Zero() && v.Kind() == Error }

// T builds a Term pairing v with the given coefficient, the idiomatic way
// to spell a single addend of an Expression built by hand in tests and in
// the kernel itself.
func (v Var) T(coeff float64) Term { return Term{Coeff: coeff, Var: v} }

func (v Var) String() string {
	if v.Zero() {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", v.Kind(), uint64(v)&varSeqMask)
}

// registry allocates and names the variables belonging to one solver. Naming
// is purely diagnostic: external variables may be given a caller-supplied
// name (for Dump/logging); internal variables are named by kind and
// sequence the first time they're dumped.
type registry struct {
	names map[Var]string
}

func newRegistry() *registry {
	return &registry{names: make(map[Var]string)}
}

func (r *registry) alloc(kind Kind) Var {
	return newVar(kind)
}

func (r *registry) name(v Var, name string) {
	r.names[v] = name
}

func (r *registry) label(v Var) string {
	if name, ok := r.names[v]; ok {
		return name
	}
	return v.String()
}

// Dump renders the registry's known names via go-spew, for debug logging and
// the cassotrace CLI's -debug flag.
func (r *registry) Dump() string {
	return spew.Sdump(r.names)
}
