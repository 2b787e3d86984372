package casso

import "math"

// mostNegativeEntering returns the pivotable term of obj with the most
// negative coefficient, and true, or the zero Var and false if every
// pivotable term already has a non-negative coefficient (T4 holds and
// primal optimisation is done). Dummy variables are never pivotable and so
// are never returned (invariant D1).
func mostNegativeEntering(obj Expression) (Var, bool) {
	entering := zeroVar
	best := 0.0
	found := false
	for _, t := range obj.Terms() {
		if !t.Var.Pivotable() || t.Coeff >= 0 {
			continue
		}
		if !found || t.Coeff < best {
			best, entering, found = t.Coeff, t.Var, true
		}
	}
	return entering, found
}

// ratioTestLeaving implements the primal ratio test: among basic,
// restricted rows whose coefficient for entering is negative, it returns
// the one minimising -row.Constant/coeff. Rows basic to an External
// variable are never candidates to leave — externals carry no
// non-negativity constraint, so evicting one to satisfy the ratio test
// would serve no feasibility purpose.
func ratioTestLeaving(t *tableau, entering Var) (Var, bool) {
	leaving := zeroVar
	best := math.MaxFloat64
	found := false
	for b, r := range t.rows {
		if !b.Restricted() {
			continue
		}
		c := r.expr.CoefficientFor(entering)
		if c >= 0 {
			continue
		}
		ratio := -r.expr.Constant / c
		if !found || ratio < best {
			best, leaving, found = ratio, b, true
		}
	}
	return leaving, found
}

// pivot exchanges leaving (currently basic) and entering (currently
// non-basic): it is the realisation of Expression.SubstituteOut applied
// everywhere that mentions entering, per the glossary's definition of
// "pivot". leaving must currently be a tableau row and entering must
// appear in that row's body with a non-zero coefficient.
func (s *Solver) pivot(leaving, entering Var) {
	expr, ok := s.tab.removeRow(leaving)
	if !ok {
		return
	}
	coeff := expr.NewSubject(entering)
	expr.AddVariable(leaving, coeff)

	// substituteEverywhere folds entering out of every remaining row (and
	// both objective rows), so its column entry is stale the instant this
	// returns; addRow is about to make entering a row key instead, so the
	// two must never coexist (invariant T1).
	s.substituteEverywhere(entering, expr)
	delete(s.tab.columns, entering)
	s.tab.addRow(entering, expr)
}

// substituteEverywhere folds v = repl into every tableau row that mentions
// v, plus the main objective row and (if phase-1 is in progress) the
// artificial objective row — mirroring the teacher's combined `substitute`
// step, since neither objective row is itself a tableau row.
func (s *Solver) substituteEverywhere(v Var, repl Expression) {
	s.tab.substituteOut(v, repl)
	s.objective.SubstituteOut(v, repl)
	if s.artificialActive {
		s.artificial.SubstituteOut(v, repl)
	}
}

// optimizePrimal repeatedly pivots the most-negative-coefficient pivotable
// entering variable against the tightest-ratio leaving row until every
// pivotable non-basic variable's objective coefficient is non-negative
// (invariant T4), or reports that obj is unbounded below.
func (s *Solver) optimizePrimal(obj *Expression) error {
	for {
		entering, ok := mostNegativeEntering(*obj)
		if !ok {
			return nil
		}
		leaving, ok := ratioTestLeaving(s.tab, entering)
		if !ok {
			return newInternalError("objective is unbounded below")
		}
		if s.log != nil {
			s.log.Debug("primal pivot", zapVar("entering", entering), zapVar("leaving", leaving))
		}
		s.pivot(leaving, entering)
	}
}

// optimizeDual restores feasibility after suggestValue/removeConstraint
// leaves some restricted basic row with a negative constant, while
// preserving the optimality primal optimisation already established.
func (s *Solver) optimizeDual() error {
	for {
		exit, ok := s.tab.popInfeasible()
		if !ok {
			return nil
		}
		r, ok := s.tab.rowFor(exit)
		if !ok || r.Constant >= -epsilon {
			continue
		}

		entering := zeroVar
		bestRatio := math.MaxFloat64
		found := false
		for _, t := range r.Terms() {
			if t.Coeff <= 0 || !t.Var.Pivotable() {
				continue
			}
			ratio := s.objective.CoefficientFor(t.Var) / t.Coeff
			if !found || ratio < bestRatio {
				bestRatio, entering, found = ratio, t.Var, true
			}
		}
		if !found {
			return newInternalError("tableau is primal-infeasible after dual optimisation")
		}

		if s.log != nil {
			s.log.Warn("dual pivot", zapVar("exit", exit), zapVar("entering", entering))
		}
		s.pivot(exit, entering)
	}
}

// phase1 introduces an artificial variable for a row that has no usable
// subject, minimises it via primal optimisation against a dedicated
// artificial objective, and removes it once driven to zero — or reports
// ErrRequiredFailure if it cannot be driven to zero, meaning the
// (necessarily required) constraint that produced workExpr is inconsistent
// with the constraints already installed.
func (s *Solver) phase1(workExpr Expression) error {
	a := s.reg.alloc(Slack)
	s.known[a] = struct{}{}

	s.tab.addRow(a, workExpr.Clone())
	s.artificial = workExpr.Clone()
	s.artificialActive = true
	defer func() { s.artificialActive = false }()

	if err := s.optimizePrimal(&s.artificial); err != nil {
		return err
	}

	success := zero(s.artificial.Constant)
	s.artificial = Expression{}

	if expr, ok := s.tab.removeRow(a); ok {
		if len(expr.Terms()) > 0 {
			entering, ok := expr.AnyPivotableVariable()
			if !ok {
				return newInternalError("unsatisfiable constraint: artificial row has no pivotable variable")
			}
			coeff := expr.NewSubject(entering)
			expr.AddVariable(a, coeff)
			s.substituteEverywhere(entering, expr)
			s.tab.addRow(entering, expr)
		}
	}

	s.purgeVariable(a)

	if !success {
		return ErrRequiredFailure
	}
	return nil
}

// findSubject chooses which variable a freshly-augmented constraint row
// should be solved for, per spec §4.F step 3. It never mutates workExpr.
func findSubject(workExpr Expression, tag tag) (Var, error) {
	for _, t := range workExpr.Terms() {
		if !t.Var.Restricted() {
			return t.Var, nil
		}
	}

	if tag.marker.Pivotable() {
		if c := workExpr.CoefficientFor(tag.marker); c < 0 {
			return tag.marker, nil
		}
	}
	if tag.other.Restricted() {
		if c := workExpr.CoefficientFor(tag.other); c < 0 {
			return tag.other, nil
		}
	}

	for _, t := range workExpr.Terms() {
		if !t.Var.Dummy() {
			return zeroVar, nil
		}
	}
	if !zero(workExpr.Constant) {
		return zeroVar, ErrRequiredFailure
	}
	return tag.marker, nil
}

// purgeVariable removes every trace of v from the tableau (its own row, if
// any, and every other row's term for it), the main objective, and the
// artificial objective. Used to retire an artificial variable once phase-1
// completes and to retire a constraint's error variables on removal.
func (s *Solver) purgeVariable(v Var) {
	if v.Zero() {
		return
	}
	s.tab.removeRow(v)

	if rows := s.tab.columnRows(v); rows != nil {
		snapshot := make([]Var, 0, len(rows))
		for b := range rows {
			snapshot = append(snapshot, b)
		}
		for _, b := range snapshot {
			r := s.tab.rows[b]
			r.expr.dropTerm(v)
			s.tab.rows[b] = r
			s.tab.removeColumnEntry(v, b)
		}
	}

	s.objective.dropTerm(v)
	s.artificial.dropTerm(v)
	delete(s.known, v)
}
