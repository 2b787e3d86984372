package casso

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}

func TestExpressionAddVariableDropsZeroCoefficient(t *testing.T) {
	v := newVar(External)
	e := NewExpression(0, v.T(2))
	e.AddVariable(v, -2)
	require.True(t, e.IsConstant(), "expected term to be dropped once its coefficient is zero, got %+v", e.Terms())
}

func TestExpressionCloneIsIndependent(t *testing.T) {
	v := newVar(External)
	e := NewExpression(1, v.T(2))
	c := e.Clone()
	c.AddVariable(v, 5)
	require.EqualValues(t, 2, e.CoefficientFor(v), "mutating the clone mutated the original")
}

func TestExpressionMultiplyByZeroClearsTerms(t *testing.T) {
	v := newVar(External)
	e := NewExpression(3, v.T(2))
	e.Multiply(0)
	require.True(t, e.IsConstant())
	require.EqualValues(t, 0, e.Constant)
}

func TestExpressionDivideByZero(t *testing.T) {
	v := newVar(External)
	e := NewExpression(1, v.T(1))
	require.Equal(t, ErrZeroDivision, e.Divide(0))
}

func TestExpressionAddThenSubtractIsIdentity(t *testing.T) {
	a := newVar(External)
	b := newVar(External)
	orig := NewExpression(3, a.T(2), b.T(-1))

	sum := orig.Clone()
	sum.AddExpression(NewExpression(5, b.T(4)), 1)
	sum.AddExpression(NewExpression(5, b.T(4)), -1)

	require.InDelta(t, orig.Constant, sum.Constant, 1e-9)
	require.InDelta(t, orig.CoefficientFor(a), sum.CoefficientFor(a), 1e-9)
	require.InDelta(t, orig.CoefficientFor(b), sum.CoefficientFor(b), 1e-9)
}

func TestExpressionSelfSubtractIsZero(t *testing.T) {
	a := newVar(External)
	e := NewExpression(7, a.T(3))
	diff := e.Clone()
	diff.AddExpression(e, -1)
	require.True(t, diff.IsConstant())
	require.EqualValues(t, 0, diff.Constant)
}

func TestExpressionNewSubject(t *testing.T) {
	a := newVar(External)
	b := newVar(External)
	// 2a + 4b + 6 = 0  =>  solve for a: a = -2b - 3
	e := NewExpression(6, a.T(2), b.T(4))
	e.NewSubject(a)

	require.InDelta(t, -3, e.Constant, 1e-9)
	require.InDelta(t, -2, e.CoefficientFor(b), 1e-9)
	require.Zero(t, e.CoefficientFor(a), "a should no longer appear in the solved expression")
}

func TestExpressionSubstituteOut(t *testing.T) {
	a := newVar(External)
	b := newVar(External)
	c := newVar(External)

	// e = 2a + 5, and a = b + c (the row we're folding in)
	e := NewExpression(5, a.T(2))
	repl := NewExpression(0, b.T(1), c.T(1))
	e.SubstituteOut(a, repl)

	require.InDelta(t, 5, e.Constant, 1e-9)
	require.InDelta(t, 2, e.CoefficientFor(b), 1e-9)
	require.InDelta(t, 2, e.CoefficientFor(c), 1e-9)
}

func TestExpressionAnyPivotableVariable(t *testing.T) {
	e := constantExpression(4)
	_, ok := e.AnyPivotableVariable()
	require.False(t, ok, "constant expression should have no pivotable variable")

	slack := newVar(Slack)
	e2 := NewExpression(0, slack.T(1))
	v, ok := e2.AnyPivotableVariable()
	require.True(t, ok)
	require.Equal(t, slack, v)
}
