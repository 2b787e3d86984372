package casso

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConstraintVarGeqConst(t *testing.T) {
	v := newVar(External)
	c, err := NewConstraint(VarOperand(v), GEQ, ConstOperand(5))
	require.NoError(t, err)
	require.Equal(t, GEQ, c.Op)
	require.InDelta(t, -5, c.Expr.Constant, 1e-9, "v>=5 should normalise to v-5")
	require.InDelta(t, 1, c.Expr.CoefficientFor(v), 1e-9, "v>=5 should normalise to v-5")
	require.True(t, c.IsInequality())
}

func TestNewConstraintVarLeqConst(t *testing.T) {
	v := newVar(External)
	c, err := NewConstraint(VarOperand(v), LEQ, ConstOperand(5))
	require.NoError(t, err)
	require.Equal(t, GEQ, c.Op, "LEQ must normalise to GEQ")
	require.InDelta(t, 5, c.Expr.Constant, 1e-9, "v<=5 should normalise to 5-v")
	require.InDelta(t, -1, c.Expr.CoefficientFor(v), 1e-9, "v<=5 should normalise to 5-v")
}

func TestNewConstraintDefaultsRequiredWeightOne(t *testing.T) {
	v := newVar(External)
	c, err := NewConstraint(VarOperand(v), EQ, ConstOperand(1))
	require.NoError(t, err)
	require.Zero(t, c.Strength.Compare(Required), "default strength = %+v, want Required", c.Strength)
	require.EqualValues(t, 1, c.Weight)
}

func TestNewConstraintWithStrengthAndWeight(t *testing.T) {
	v := newVar(External)
	c, err := NewConstraint(VarOperand(v), EQ, ConstOperand(1))
	require.NoError(t, err)
	c = c.WithStrength(Medium).WithWeight(2)
	require.Zero(t, c.Strength.Compare(Medium), "strength not overridden, got %+v", c.Strength)
	require.EqualValues(t, 2, c.Weight)
}

func TestNewConstantConstraintIsNotAnInequality(t *testing.T) {
	c := NewConstantConstraint(10)
	require.False(t, c.IsInequality(), "NewConstantConstraint should always build an equality")
	require.True(t, c.Expr.IsConstant())
	require.EqualValues(t, 10, c.Expr.Constant)
}

func TestNewConstraintConstantVsConstantIsAnError(t *testing.T) {
	_, err := NewConstraint(ConstOperand(1), EQ, ConstOperand(2))
	require.Error(t, err, "comparing two constants should be rejected")
	require.IsType(t, &InternalError{}, err)
	require.ErrorIs(t, err, ErrConstantInequality)
}

func TestNewConstraintExprExprEquality(t *testing.T) {
	a := newVar(External)
	b := newVar(External)
	lhs := NewExpression(1, a.T(1))
	rhs := NewExpression(2, b.T(1))
	c, err := NewConstraint(ExprOperand(lhs), EQ, ExprOperand(rhs))
	require.NoError(t, err)

	// (a+1) = (b+2)  =>  a - b - 1 = 0
	require.InDelta(t, -1, c.Expr.Constant, 1e-9)
	require.InDelta(t, 1, c.Expr.CoefficientFor(a), 1e-9)
	require.InDelta(t, -1, c.Expr.CoefficientFor(b), 1e-9)
}
