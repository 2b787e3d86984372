package casso

// Constraint is an immutable descriptor of an equality or inequality
// between two operands, normalised at construction time to the canonical
// "expression ⋈ 0" form (spec §3, §4.D): Op is always EQ or GEQ after
// normalisation (a caller-supplied LEQ is folded into an equivalent GEQ by
// negating the stored expression), and Expr evaluates to the amount by
// which the original comparison is satisfied.
//
// Constraint values are immutable once built; Solver.AddConstraint only
// reads the stored expression and builds its own working copy, so the same
// Constraint may be passed to multiple solvers or re-added after removal.
type Constraint struct {
	Expr     Expression
	Op       Op
	Strength Strength
	Weight   float64
}

// NewConstraint builds a Constraint from two operands and a relational
// operator, choosing the stored expression's sign per the normalisation
// table of spec §4.D. It returns an *InternalError wrapping
// ErrConstantInequality if both operands are constants, whatever the
// operator — comparing two bare numbers is never useful as a solver
// constraint. Strength
// defaults to Required and Weight to 1; use WithStrength/WithWeight (or set
// the fields directly) to override.
func NewConstraint(lhs operand, op Op, rhs operand) (Constraint, error) {
	expr, normOp, err := normalize(lhs, op, rhs)
	if err != nil {
		return Constraint{}, wrapInternalError(err, "invalid constraint operands")
	}
	return Constraint{Expr: expr, Op: normOp, Strength: Required, Weight: 1}, nil
}

// NewConstantConstraint builds the degenerate constraint `k = 0`: an
// equality constraint whose stored expression is the bare constant k, with
// IsInequality() == false. It exists to mirror the
// reference implementation's single-argument Constraint(value) form, used
// by callers that want to assert a fixed value without naming a variable.
func NewConstantConstraint(k float64) Constraint {
	return Constraint{Expr: constantExpression(k), Op: EQ, Strength: Required, Weight: 1}
}

// WithStrength returns a copy of c with Strength replaced.
func (c Constraint) WithStrength(s Strength) Constraint {
	c.Strength = s
	return c
}

// WithWeight returns a copy of c with Weight replaced.
func (c Constraint) WithWeight(w float64) Constraint {
	c.Weight = w
	return c
}

// IsInequality reports whether the normalised constraint is an inequality
// (Op == GEQ) as opposed to an equality (Op == EQ).
func (c Constraint) IsInequality() bool { return c.Op == GEQ }

// clone returns a Constraint with its own, independently-mutable Expr. The
// solver does not call it: AddConstraint never mutates the caller's
// Constraint value, since it builds a separate working expression.
func (c Constraint) clone() Constraint {
	c.Expr = c.Expr.Clone()
	return c
}

func normalize(lhs operand, op Op, rhs operand) (Expression, Op, error) {
	if lhs.kind == operandConst && rhs.kind == operandConst {
		return Expression{}, 0, ErrConstantInequality
	}

	switch {
	case lhs.kind == operandExpr && rhs.kind == operandExpr:
		return normExprExpr(lhs.expr, op, rhs.expr), normalizedOp(op), nil
	case lhs.kind == operandExpr && rhs.kind == operandVar:
		return normExprVar(lhs.expr, op, rhs.v), normalizedOp(op), nil
	case lhs.kind == operandExpr && rhs.kind == operandConst:
		return normExprConst(lhs.expr, op, rhs.k), normalizedOp(op), nil
	case lhs.kind == operandVar && rhs.kind == operandExpr:
		return normVarExpr(lhs.v, op, rhs.expr), normalizedOp(op), nil
	case lhs.kind == operandVar && rhs.kind == operandVar:
		return normVarVar(lhs.v, op, rhs.v), normalizedOp(op), nil
	case lhs.kind == operandVar && rhs.kind == operandConst:
		return normVarConst(lhs.v, op, rhs.k), normalizedOp(op), nil
	case lhs.kind == operandConst && rhs.kind == operandExpr:
		return normConstExpr(lhs.k, op, rhs.expr), normalizedOp(op), nil
	default: // const, Var
		return normConstVar(lhs.k, op, rhs.v), normalizedOp(op), nil
	}
}

// normalizedOp collapses the caller-facing LEQ into its canonical GEQ form;
// EQ and GEQ pass through unchanged. Every normXxx function below already
// produces the expression appropriate to this collapsed operator.
func normalizedOp(op Op) Op {
	if op == EQ {
		return EQ
	}
	return GEQ
}

func normExprExpr(e1 Expression, op Op, e2 Expression) Expression {
	if op == LEQ {
		out := e2.Clone()
		out.AddExpression(e1, -1)
		return out
	}
	out := e1.Clone()
	out.AddExpression(e2, -1)
	return out
}

func normExprVar(e1 Expression, op Op, v Var) Expression {
	if op == LEQ {
		out := e1.Clone()
		out.Negate()
		out.AddVariable(v, 1)
		return out
	}
	out := e1.Clone()
	out.AddVariable(v, -1)
	return out
}

func normExprConst(e1 Expression, op Op, k float64) Expression {
	if op == LEQ {
		out := e1.Clone()
		out.Negate()
		out.Constant += k
		return out
	}
	out := e1.Clone()
	out.Constant -= k
	return out
}

func normVarExpr(v Var, op Op, e2 Expression) Expression {
	if op == GEQ {
		out := e2.Clone()
		out.Negate()
		out.AddVariable(v, 1)
		return out
	}
	out := e2.Clone()
	out.AddVariable(v, -1)
	return out
}

func normVarVar(v1 Var, op Op, v2 Var) Expression {
	if op == GEQ {
		return NewExpression(0, v1.T(1), v2.T(-1))
	}
	return NewExpression(0, v2.T(1), v1.T(-1))
}

func normVarConst(v Var, op Op, k float64) Expression {
	if op == LEQ {
		return NewExpression(k, v.T(-1))
	}
	return NewExpression(-k, v.T(1))
}

func normConstExpr(k float64, op Op, e2 Expression) Expression {
	if op == GEQ {
		out := e2.Clone()
		out.Negate()
		out.Constant += k
		return out
	}
	out := e2.Clone()
	out.Constant -= k
	return out
}

func normConstVar(k float64, op Op, v Var) Expression {
	if op == GEQ {
		return NewExpression(k, v.T(-1))
	}
	return NewExpression(-k, v.T(1))
}
