package casso

// epsilon is the tolerance used to decide whether a computed coefficient is
// effectively zero. It is never used to compare user-supplied values for
// equality — only to keep Expression free of near-zero terms (invariant E1)
// and to decide feasibility of a row's constant.
const epsilon = 1.0e-8

func zero(v float64) bool {
	if v < 0 {
		return -v < epsilon
	}
	return v < epsilon
}

// Term is a single addend of a linear Expression: a coefficient applied to a
// Var.
type Term struct {
	Var   Var
	Coeff float64
}

// Expression is a linear form `constant + sum(coeff_i * var_i)` with no
// zero-coefficient terms (invariant E1). It is the representation used both
// for client-supplied constraints and for tableau row bodies.
type Expression struct {
	Constant float64
	terms    []Term
}

// NewExpression builds an expression from a constant and zero or more terms.
// Terms with an effectively-zero coefficient are dropped immediately.
func NewExpression(constant float64, terms ...Term) Expression {
	e := Expression{Constant: constant}
	for _, t := range terms {
		e.AddVariable(t.Var, t.Coeff)
	}
	return e
}

// constantExpression returns the zero-term expression equal to k.
func constantExpression(k float64) Expression { return Expression{Constant: k} }

// Terms returns the expression's non-zero terms. The returned slice aliases
// the expression's storage and must not be mutated by the caller.
func (e Expression) Terms() []Term { return e.terms }

// IsConstant reports whether the expression has no variable terms.
func (e Expression) IsConstant() bool { return len(e.terms) == 0 }

// Clone returns a deep copy of e: a fresh terms slice and an independent
// Expression value.
func (e Expression) Clone() Expression {
	out := Expression{Constant: e.Constant}
	if len(e.terms) > 0 {
		out.terms = make([]Term, len(e.terms))
		copy(out.terms, e.terms)
	}
	return out
}

func (e *Expression) indexOf(v Var) int {
	for i := range e.terms {
		if e.terms[i].Var == v {
			return i
		}
	}
	return -1
}

func (e *Expression) deleteAt(i int) {
	copy(e.terms[i:], e.terms[i+1:])
	e.terms = e.terms[:len(e.terms)-1]
}

// CoefficientFor returns the stored coefficient of v, or 0 if v does not
// appear in the expression.
func (e Expression) CoefficientFor(v Var) float64 {
	if i := e.indexOf(v); i != -1 {
		return e.terms[i].Coeff
	}
	return 0
}

// observer is notified when a mutator adds or removes a variable from an
// expression that is installed as a tableau row, so the tableau's reverse
// index (columns) can be kept in lock-step (design note: "reverse-index
// consistency under mutation"). A nil observer is a valid no-op default.
type observer interface {
	noteAddedVariable(v Var, subject Var)
	noteRemovedVariable(v Var, subject Var)
}

// AddVariable adds coeff to the stored coefficient of v (inserting v if it
// was absent), dropping the term if the resulting coefficient is
// effectively zero. No observer is notified; the internal
// addVariableObserved variant takes a subject and an observer that is told
// of insertions/removals of variables other than subject, so a tableau's
// column index stays consistent while this expression is installed as the
// body of subject's row.
func (e *Expression) AddVariable(v Var, coeff float64) {
	e.addVariableObserved(v, coeff, zeroVar, nil)
}

func (e *Expression) addVariableObserved(v Var, coeff float64, subject Var, obs observer) {
	i := e.indexOf(v)
	if i == -1 {
		if zero(coeff) {
			return
		}
		e.terms = append(e.terms, Term{Var: v, Coeff: coeff})
		if obs != nil && v != subject {
			obs.noteAddedVariable(v, subject)
		}
		return
	}
	e.terms[i].Coeff += coeff
	if zero(e.terms[i].Coeff) {
		e.deleteAt(i)
		if obs != nil && v != subject {
			obs.noteRemovedVariable(v, subject)
		}
	}
}

// Multiply scales the expression's constant and every coefficient by k,
// dropping any term that becomes effectively zero.
func (e *Expression) Multiply(k float64) {
	e.Constant *= k
	if zero(k) {
		e.terms = e.terms[:0]
		return
	}
	out := e.terms[:0]
	for _, t := range e.terms {
		t.Coeff *= k
		if !zero(t.Coeff) {
			out = append(out, t)
		}
	}
	e.terms = out
}

// Divide scales the expression by 1/k. It returns ErrZeroDivision if k is
// effectively zero, matching the reference implementation's rejection of
// division by (approximately) zero.
func (e *Expression) Divide(k float64) error {
	if zero(k) {
		return ErrZeroDivision
	}
	e.Multiply(1.0 / k)
	return nil
}

// AddExpression folds other, scaled by n, into e: e.Constant += n *
// other.Constant, and each of other's terms is merged in via AddVariable.
func (e *Expression) AddExpression(other Expression, n float64) {
	e.addExpressionObserved(other, n, zeroVar, nil)
}

func (e *Expression) addExpressionObserved(other Expression, n float64, subject Var, obs observer) {
	e.Constant += n * other.Constant
	for _, t := range other.terms {
		e.addVariableObserved(t.Var, n*t.Coeff, subject, obs)
	}
}

// Negate flips the sign of the constant and every coefficient in place.
func (e *Expression) Negate() { e.Multiply(-1) }

// NewSubject removes v from the expression (whose coefficient there was a),
// rewrites the remaining expression as `-1/a` times itself, and returns the
// reciprocal coefficient `1/a` that the former subject of an equation must
// be reinserted at to complete a change of subject. v must appear in e;
// callers that don't already know this should check CoefficientFor first.
func (e *Expression) NewSubject(v Var) float64 {
	i := e.indexOf(v)
	if i == -1 {
		return 0
	}
	coeff := e.terms[i].Coeff
	e.deleteAt(i)

	reciprocal := -1.0 / coeff
	if reciprocal != 1.0 {
		e.Multiply(reciprocal)
	}
	return 1.0 / coeff
}

// ChangeSubject rewrites the implicit equation `oldSubject = e` (where
// oldSubject does not appear in e and newSubject does) into `newSubject =
// e'`. It is a thin wrapper over NewSubject used when the caller wants the
// old subject reinserted into the same expression, e.g. when swapping which
// variable is basic for a row without going through the tableau.
func (e *Expression) ChangeSubject(oldSubject, newSubject Var) {
	coeff := e.NewSubject(newSubject)
	e.AddVariable(oldSubject, coeff)
}

// SubstituteOut replaces every occurrence of v in e with repl (scaled by v's
// former coefficient in e): this is the elementary pivot operation used
// throughout the simplex kernel whenever a variable becomes basic and its
// defining row must be folded into every other expression that mentions it.
// No observer is notified; the tableau uses the internal
// substituteOutObserved variant, whose subject/obs behave as in
// addVariableObserved.
func (e *Expression) SubstituteOut(v Var, repl Expression) {
	e.substituteOutObserved(v, repl, zeroVar, nil)
}

func (e *Expression) substituteOutObserved(v Var, repl Expression, subject Var, obs observer) {
	i := e.indexOf(v)
	if i == -1 {
		return
	}
	coeff := e.terms[i].Coeff
	e.deleteAt(i)
	e.addExpressionObserved(repl, coeff, subject, obs)
}

// AnyPivotableVariable returns the Var of any term whose variable is
// pivotable, and true, or the zero Var and false if the expression is
// constant (has no pivotable term). Used during phase-1 cleanup to find a
// variable to pivot an outgoing artificial variable against.
func (e Expression) AnyPivotableVariable() (Var, bool) {
	for _, t := range e.terms {
		if t.Var.Pivotable() {
			return t.Var, true
		}
	}
	return zeroVar, false
}

var zeroVar Var
