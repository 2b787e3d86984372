package casso

import (
	"github.com/pkg/errors"
)

// Sentinel errors surfaced at the solver boundary. Callers should compare
// against these with errors.Is (or errors.Cause for the wrapped internal
// ones) rather than inspecting message text.
var (
	// ErrRequiredFailure is returned by AddConstraint when a required
	// constraint is inconsistent with the constraints already installed.
	// The tableau is left exactly as it was before the call.
	ErrRequiredFailure = errors.New("required constraint is inconsistent with existing constraints")

	// ErrConstraintNotFound is returned by RemoveConstraint when the marker
	// does not refer to a constraint currently installed in the solver.
	ErrConstraintNotFound = errors.New("constraint is not installed in the solver")

	// ErrNotEditable is returned by SuggestValue when the variable has no
	// active edit constraint.
	ErrNotEditable = errors.New("variable is not registered as an edit variable")

	// ErrEditRequired is returned by AddEditVar when asked to install an
	// edit constraint at REQUIRED strength.
	ErrEditRequired = errors.New("edit variable strength must not be required")

	// ErrNoEditInProgress is returned by SuggestValue and EndEdit when no
	// BeginEdit context is open. Resolve does not check for one.
	ErrNoEditInProgress = errors.New("suggest called outside of an edit context")

	// ErrBadTerm is returned when a constraint references a variable the
	// solver never allocated.
	ErrBadTerm = errors.New("constraint references a symbol unknown to this solver")

	// ErrZeroDivision is returned by Expression.Divide when dividing by a
	// coefficient that is zero within tolerance.
	ErrZeroDivision = errors.New("division by zero")

	// ErrNonConstantMultiplicand names the error for multiplying an
	// expression by another non-constant expression. No function in this
	// package returns it: Expression.Multiply only accepts a float64 factor.
	ErrNonConstantMultiplicand = errors.New("cannot multiply by a non-constant expression")

	// ErrConstantInequality is returned when constructing a comparison
	// between two constants (no variable on either side).
	ErrConstantInequality = errors.New("cannot form an inequality between two constants")
)

// InternalError reports a violated kernel invariant: an unbounded objective,
// a primal-infeasible tableau after an edit that should have stayed
// feasible, a pivot attempted against a constant expression, or similar.
// It is not meant to be recovered from in general; wrap/unwrap with
// github.com/pkg/errors to retrieve the underlying cause and a stack trace.
type InternalError struct {
	cause error
}

func newInternalError(msg string) error {
	return &InternalError{cause: errors.New(msg)}
}

func wrapInternalError(err error, msg string) error {
	return &InternalError{cause: errors.Wrap(err, msg)}
}

func (e *InternalError) Error() string { return "internal error: " + e.cause.Error() }

func (e *InternalError) Unwrap() error { return e.cause }

func (e *InternalError) Cause() error { return e.cause }
