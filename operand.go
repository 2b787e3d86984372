package casso

// Op is the relational operator of a constraint, after normalisation always
// read as "stored expression ⋈ 0".
type Op uint8

const (
	EQ Op = iota
	LEQ
	GEQ
)

var opNames = [...]string{EQ: "=", LEQ: "<=", GEQ: ">="}

func (o Op) String() string { return opNames[o] }

// operandKind tags which of the three operand shapes a comparison side is:
// an already-built Expression, a bare Var, or a numeric constant. The
// normalisation table in NewConstraint is keyed on the pair of kinds plus
// the operator, per the design note recommending a tagged operand type over
// runtime type-switching on interface{}.
type operandKind uint8

const (
	operandExpr operandKind = iota
	operandVar
	operandConst
)

// operand is one side of a raw (pre-normalisation) comparison. Exactly one
// of expr/v/k is meaningful, selected by kind. Operand values are produced
// by ExprOperand/VarOperand/ConstOperand; the expression-building DSL that
// would let client code write `x.Leq(y)` is explicitly out of scope (§1) —
// callers construct operands directly or via Var.T-built Expressions.
type operand struct {
	kind operandKind
	expr Expression
	v    Var
	k    float64
}

// ExprOperand wraps an already-built Expression as a comparison operand.
func ExprOperand(e Expression) operand { return operand{kind: operandExpr, expr: e} }

// VarOperand wraps a bare Var as a comparison operand.
func VarOperand(v Var) operand { return operand{kind: operandVar, v: v} }

// ConstOperand wraps a numeric constant as a comparison operand.
func ConstOperand(k float64) operand { return operand{kind: operandConst, k: k} }

func (o operand) asExpression() Expression {
	switch o.kind {
	case operandExpr:
		return o.expr
	case operandVar:
		return NewExpression(0, o.v.T(1))
	default:
		return constantExpression(o.k)
	}
}
