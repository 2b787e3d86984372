package casso

import "github.com/davecgh/go-spew/spew"

// row is the body of one tableau row: the basic variable itself is implicit
// (it's the map key in tableau.rows), so row only carries the expression it
// equals.
type row struct {
	expr Expression
}

// tableau is a sparse bipartite representation of the simplex's working
// set: rows map each basic variable to the expression it currently equals
// in terms of non-basic (parametric) variables, and columns is the reverse
// index used to find, for any non-basic variable, every row that mentions
// it without scanning the whole tableau (spec §4.E). The tableau itself
// carries no notion of optimality or feasibility restoration — that is
// entirely the simplex kernel's job (simplex.go); the tableau is a data
// store with bookkeeping.
type tableau struct {
	rows    map[Var]row
	columns map[Var]map[Var]struct{} // non-basic var -> set of basic vars whose row mentions it

	infeasibleRows []Var // restricted basic vars transiently left with a negative constant

	externalRows            map[Var]struct{} // external vars currently basic
	externalParametricVars  map[Var]struct{} // external vars known to the solver but not currently basic
}

func newTableau() *tableau {
	return &tableau{
		rows:                   make(map[Var]row),
		columns:                make(map[Var]map[Var]struct{}),
		externalRows:           make(map[Var]struct{}),
		externalParametricVars: make(map[Var]struct{}),
	}
}

func (t *tableau) isBasic(v Var) bool {
	_, ok := t.rows[v]
	return ok
}

func (t *tableau) rowFor(v Var) (Expression, bool) {
	r, ok := t.rows[v]
	if !ok {
		return Expression{}, false
	}
	return r.expr, true
}

// addRow installs basic = expr, registering every variable expr mentions in
// the reverse index, and tracking basic in externalRows if it is external.
func (t *tableau) addRow(basic Var, expr Expression) {
	t.rows[basic] = row{expr: expr}
	for _, term := range expr.Terms() {
		t.addColumnEntry(term.Var, basic)
	}
	if basic.External() {
		t.externalRows[basic] = struct{}{}
		delete(t.externalParametricVars, basic)
	}
}

// removeRow drops basic's row, deregistering every variable its expression
// mentioned from the reverse index, and clears any feasibility/external
// bookkeeping that named it. An external basic variable leaving the basis
// becomes parametric again (spec §4.F write-back treats every known
// external variable as either basic or parametric, never neither), so it is
// moved back into externalParametricVars rather than simply dropped from
// externalRows.
func (t *tableau) removeRow(basic Var) (Expression, bool) {
	r, ok := t.rows[basic]
	if !ok {
		return Expression{}, false
	}
	delete(t.rows, basic)
	for _, term := range r.expr.Terms() {
		t.removeColumnEntry(term.Var, basic)
	}
	if basic.External() {
		delete(t.externalRows, basic)
		t.externalParametricVars[basic] = struct{}{}
	}
	t.dropInfeasible(basic)
	return r.expr, true
}

func (t *tableau) addColumnEntry(v Var, basic Var) {
	set, ok := t.columns[v]
	if !ok {
		set = make(map[Var]struct{})
		t.columns[v] = set
	}
	set[basic] = struct{}{}
}

func (t *tableau) removeColumnEntry(v Var, basic Var) {
	set, ok := t.columns[v]
	if !ok {
		return
	}
	delete(set, basic)
	if len(set) == 0 {
		delete(t.columns, v)
	}
}

// noteAddedVariable / noteRemovedVariable implement the observer interface
// so Expression mutators can keep the column index consistent (invariant
// T2) while mutating a row's expression in place via a pointer obtained
// from the tableau itself.
func (t *tableau) noteAddedVariable(v Var, subject Var) {
	t.addColumnEntry(v, subject)
}

func (t *tableau) noteRemovedVariable(v Var, subject Var) {
	t.removeColumnEntry(v, subject)
}

func (t *tableau) markInfeasible(b Var) {
	t.infeasibleRows = append(t.infeasibleRows, b)
}

func (t *tableau) dropInfeasible(b Var) {
	out := t.infeasibleRows[:0]
	for _, v := range t.infeasibleRows {
		if v != b {
			out = append(out, v)
		}
	}
	t.infeasibleRows = out
}

func (t *tableau) popInfeasible() (Var, bool) {
	n := len(t.infeasibleRows)
	if n == 0 {
		return zeroVar, false
	}
	v := t.infeasibleRows[n-1]
	t.infeasibleRows = t.infeasibleRows[:n-1]
	return v, true
}

// substituteOut folds v = repl into every row currently mentioning v,
// exactly as Expression.SubstituteOut does for a single expression, but
// across the whole tableau: it iterates a snapshot of columns[v] (the set
// is mutated mid-loop as rows drop their v term) and applies the
// substitution to each one, re-installing rows whose basic variable is
// restricted and whose constant went negative into infeasibleRows.
func (t *tableau) substituteOut(v Var, repl Expression) {
	basics, ok := t.columns[v]
	if !ok {
		return
	}
	snapshot := make([]Var, 0, len(basics))
	for b := range basics {
		snapshot = append(snapshot, b)
	}
	for _, b := range snapshot {
		r, ok := t.rows[b]
		if !ok {
			continue
		}
		r.expr.substituteOutObserved(v, repl, b, t)
		t.rows[b] = r

		if b.Restricted() && r.expr.Constant < -epsilon {
			t.markInfeasible(b)
		}
	}

	// Every row that mentioned v has just had its v term folded away above,
	// so v no longer appears anywhere in the tableau: drop its (now stale)
	// column entirely rather than leaving it pointing at rows that were
	// substituted out of it (invariants T1/T2).
	delete(t.columns, v)
}

// bumpConstant adds delta to b's row constant in place, marking the row
// infeasible if it is restricted and the result is negative. Reports
// whether b was a row at all, so callers can fall back to a different
// update strategy (e.g. SuggestValue's tableau-wide scan) when it wasn't.
func (t *tableau) bumpConstant(b Var, delta float64) bool {
	r, ok := t.rows[b]
	if !ok {
		return false
	}
	r.expr.Constant += delta
	t.rows[b] = r
	if b.Restricted() && r.expr.Constant < -epsilon {
		t.markInfeasible(b)
	}
	return true
}

// columnRows returns the set of basic variables whose row mentions v, for
// callers (the simplex kernel) that need to scan them directly rather than
// going through substituteOut.
func (t *tableau) columnRows(v Var) map[Var]struct{} { return t.columns[v] }

// Dump renders the tableau's rows via go-spew for debug logging and the
// cassotrace CLI's -debug flag.
func (t *tableau) Dump(reg *registry) string {
	type dumpRow struct {
		Basic string
		Expr  string
	}
	rows := make([]dumpRow, 0, len(t.rows))
	for b, r := range t.rows {
		rows = append(rows, dumpRow{Basic: reg.label(b), Expr: dumpExpr(reg, r.expr)})
	}
	return spew.Sdump(rows)
}

func dumpExpr(reg *registry, e Expression) string {
	s := ""
	for _, t := range e.Terms() {
		s += " + " + reg.label(t.Var)
	}
	return s
}
