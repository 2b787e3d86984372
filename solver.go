package casso

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConstraintHandle identifies an installed constraint for later removal. It
// is the marker variable introduced when the constraint was added (a slack
// for inequalities, a dummy or error variable for equalities) — an opaque
// token, not meant to be inspected, only round-tripped back into
// RemoveConstraint.
type ConstraintHandle Var

// tag records everything a solver needs to later erase a constraint: the
// strength/weight its error variables were weighted by, its marker (the
// handle returned to the caller), and, for constraints that introduced a
// second variable (the "other" half of an error pair, or an inequality's
// own error variable), that variable too.
type tag struct {
	strength Strength
	weight   float64
	marker   Var
	other    Var
}

// editInfo tracks one external variable's active edit constraint: the tag
// of the `v = v.value` constraint installed by AddEditVar, and the most
// recently suggested value, used to compute SuggestValue's delta.
type editInfo struct {
	tag       tag
	suggested float64
}

// Solver drives the lifecycle described in spec §4.G: it owns the
// registry, tableau, and objective row, and routes add/remove/edit/resolve
// calls through the simplex kernel. A Solver is single-threaded — see
// spec §5 — and must not be shared across goroutines without external
// synchronisation.
type Solver struct {
	id  uuid.UUID
	log *zap.Logger

	reg *registry
	tab *tableau

	known map[Var]struct{}

	objective Expression
	// artificial is the phase-1 objective row. It is only meaningful while
	// artificialActive is true; substituteEverywhere skips it otherwise so
	// pivots outside phase-1 don't pay for tracking a row nobody reads.
	artificial       Expression
	artificialActive bool

	tags  map[Var]tag // marker -> tag, the installed-constraint table
	edits map[Var]editInfo
	depth int // begin/end edit nesting depth

	values map[Var]float64 // external variable -> last written-back value
}

// Option configures a Solver at construction time.
type Option func(*Solver)

// WithLogger attaches a zap logger the solver uses for Debug/Warn
// diagnostics on pivots and dual-repair passes. Logging is purely
// observational; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Solver) { s.log = l }
}

// NewSolver constructs an empty solver: no variables, no constraints.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		id:     uuid.New(),
		log:    zap.NewNop(),
		reg:    newRegistry(),
		tab:    newTableau(),
		known:  make(map[Var]struct{}),
		tags:   make(map[Var]tag),
		edits:  make(map[Var]editInfo),
		values: make(map[Var]float64),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("solver", s.id.String()))
	return s
}

// ID returns the solver's correlation identifier, used to tell apart log
// lines from multiple concurrently-held solvers.
func (s *Solver) ID() uuid.UUID { return s.id }

// NewVar allocates a fresh external variable, initially valued 0 and not
// yet part of any constraint.
func (s *Solver) NewVar(name string) Var {
	v := s.reg.alloc(External)
	s.known[v] = struct{}{}
	s.tab.externalParametricVars[v] = struct{}{}
	if name != "" {
		s.reg.name(v, name)
	}
	return v
}

// Val returns the variable's value as of the most recent Solve/Resolve
// write-back (0 if the solver has never written it back). Matches spec
// §5: external values are read-only to the caller outside SuggestValue and
// the write-back at the end of each Solve/Resolve.
func (s *Solver) Val(v Var) float64 { return s.values[v] }

// Dump renders the solver's registry and tableau via go-spew for debugging.
func (s *Solver) Dump() string {
	return s.reg.Dump() + s.tab.Dump(s.reg)
}

// --- snapshot / restore, for AddConstraint's transactional guarantee ---

type snapshot struct {
	rows    map[Var]row
	columns map[Var]map[Var]struct{}
	infeas  []Var
	extRows map[Var]struct{}
	extPar  map[Var]struct{}

	objective Expression
	known     map[Var]struct{}
	tags      map[Var]tag
}

func (s *Solver) snapshot() snapshot {
	rows := make(map[Var]row, len(s.tab.rows))
	for k, v := range s.tab.rows {
		rows[k] = row{expr: v.expr.Clone()}
	}
	columns := make(map[Var]map[Var]struct{}, len(s.tab.columns))
	for k, set := range s.tab.columns {
		inner := make(map[Var]struct{}, len(set))
		for b := range set {
			inner[b] = struct{}{}
		}
		columns[k] = inner
	}
	infeas := make([]Var, len(s.tab.infeasibleRows))
	copy(infeas, s.tab.infeasibleRows)

	extRows := make(map[Var]struct{}, len(s.tab.externalRows))
	for v := range s.tab.externalRows {
		extRows[v] = struct{}{}
	}
	extPar := make(map[Var]struct{}, len(s.tab.externalParametricVars))
	for v := range s.tab.externalParametricVars {
		extPar[v] = struct{}{}
	}

	known := make(map[Var]struct{}, len(s.known))
	for v := range s.known {
		known[v] = struct{}{}
	}
	tags := make(map[Var]tag, len(s.tags))
	for v, t := range s.tags {
		tags[v] = t
	}

	return snapshot{
		rows:      rows,
		columns:   columns,
		infeas:    infeas,
		extRows:   extRows,
		extPar:    extPar,
		objective: s.objective.Clone(),
		known:     known,
		tags:      tags,
	}
}

func (s *Solver) restore(snap snapshot) {
	s.tab.rows = snap.rows
	s.tab.columns = snap.columns
	s.tab.infeasibleRows = snap.infeas
	s.tab.externalRows = snap.extRows
	s.tab.externalParametricVars = snap.extPar
	s.objective = snap.objective
	s.known = snap.known
	s.tags = snap.tags
}

// --- constraint lifecycle ---

// AddConstraint installs c into the solver and restores optimality. It
// returns ErrRequiredFailure if c is required and inconsistent with the
// constraints already installed, in which case the solver is left exactly
// as it was before the call — the only transactional guarantee the
// external interface makes (spec §7).
func (s *Solver) AddConstraint(c Constraint) (ConstraintHandle, error) {
	snap := s.snapshot()

	handle, err := s.addConstraint(c)
	if err != nil {
		s.restore(snap)
		return ConstraintHandle(zeroVar), err
	}
	return handle, nil
}

func (s *Solver) addConstraint(c Constraint) (ConstraintHandle, error) {
	t := tag{strength: c.Strength, weight: c.Weight, marker: zeroVar, other: zeroVar}

	work := Expression{Constant: c.Expr.Constant}
	for _, term := range c.Expr.Terms() {
		if zero(term.Coeff) {
			continue
		}
		if _, ok := s.known[term.Var]; !ok {
			return ConstraintHandle(zeroVar), ErrBadTerm
		}
		if rowExpr, ok := s.tab.rowFor(term.Var); ok {
			work.AddExpression(rowExpr, term.Coeff)
		} else {
			work.AddVariable(term.Var, term.Coeff)
		}
	}

	switch c.Op {
	case GEQ:
		t.marker = s.reg.alloc(Slack)
		s.known[t.marker] = struct{}{}
		work.AddVariable(t.marker, -1)

		if !c.Strength.IsRequired() {
			t.other = s.reg.alloc(Error)
			s.known[t.other] = struct{}{}
			work.AddVariable(t.other, 1)
			s.objective.AddVariable(t.other, c.Strength.Weighted(c.Weight))
		}
	case EQ:
		if !c.Strength.IsRequired() {
			t.marker = s.reg.alloc(Error)
			t.other = s.reg.alloc(Error)
			s.known[t.marker] = struct{}{}
			s.known[t.other] = struct{}{}

			work.AddVariable(t.marker, -1)
			work.AddVariable(t.other, 1)

			weighted := c.Strength.Weighted(c.Weight)
			s.objective.AddVariable(t.marker, weighted)
			s.objective.AddVariable(t.other, weighted)
		} else {
			t.marker = s.reg.alloc(Dummy)
			s.known[t.marker] = struct{}{}
			work.AddVariable(t.marker, 1)
		}
	}

	if work.Constant < 0 {
		work.Negate()
	}

	subject, err := findSubject(work, t)
	if err != nil {
		return ConstraintHandle(zeroVar), err
	}

	if subject.Zero() {
		if err := s.phase1(work); err != nil {
			return ConstraintHandle(zeroVar), err
		}
	} else {
		work.NewSubject(subject)
		s.substituteEverywhere(subject, work)
		s.tab.addRow(subject, work)
	}

	s.tags[t.marker] = t

	if err := s.optimizePrimal(&s.objective); err != nil {
		return ConstraintHandle(zeroVar), err
	}
	s.writeBack()

	return ConstraintHandle(t.marker), nil
}

// RemoveConstraint uninstalls the constraint identified by handle,
// retiring its marker/error variables and restoring optimality (spec
// §4.F). It returns ErrConstraintNotFound if handle does not refer to a
// constraint currently installed.
func (s *Solver) RemoveConstraint(handle ConstraintHandle) error {
	marker := Var(handle)
	t, ok := s.tags[marker]
	if !ok {
		return ErrConstraintNotFound
	}
	delete(s.tags, marker)

	s.eraseFromObjective(t.marker, t.strength, t.weight)
	s.eraseFromObjective(t.other, t.strength, t.weight)

	if !s.tab.isBasic(marker) {
		exit, ok := s.chooseExitRow(marker)
		if !ok {
			return newInternalError("marker variable does not appear in any row")
		}
		s.pivot(exit, marker)
	}

	s.tab.removeRow(marker)
	s.purgeVariable(t.other)

	if err := s.optimizePrimal(&s.objective); err != nil {
		return err
	}
	if err := s.optimizeDual(); err != nil {
		return err
	}
	s.writeBack()
	return nil
}

// eraseFromObjective removes v's objective contribution at the given
// strength/weight: if v is still non-basic (so it appears as its own
// objective term) the term is simply subtracted; if a pivot has since
// made v basic, its contribution now lives inside v's row, spread across
// whichever variables that row mentions, so the whole weighted row must be
// subtracted instead.
func (s *Solver) eraseFromObjective(v Var, strength Strength, weight float64) {
	if v.Zero() || !v.ErrorVar() {
		return
	}
	weighted := strength.Weighted(weight)
	if expr, ok := s.tab.rowFor(v); ok {
		s.objective.AddExpression(expr, -weighted)
	} else {
		s.objective.AddVariable(v, -weighted)
	}
}

// chooseExitRow picks which basic variable should leave the basis so that
// marker (currently non-basic) can be pivoted in and its row dropped. It
// prefers a restricted row with a negative coefficient on marker,
// minimising the ratio; failing that, a restricted row with a
// non-negative coefficient, minimising the ratio; failing that, any row
// (typically an external one) that mentions marker at all.
func (s *Solver) chooseExitRow(marker Var) (Var, bool) {
	var r1, r2 float64
	var found1, found2 bool
	var negative, nonNegative, any Var

	for b, r := range s.tab.rows {
		c := r.expr.CoefficientFor(marker)
		if zero(c) {
			continue
		}
		if !b.Restricted() {
			any = b
			continue
		}
		ratio := -r.expr.Constant / c
		switch {
		case c < 0 && (!found1 || ratio < r1):
			r1, negative, found1 = ratio, b, true
		case c >= 0 && (!found2 || ratio < r2):
			r2, nonNegative, found2 = ratio, b, true
		}
	}

	switch {
	case found1:
		return negative, true
	case found2:
		return nonNegative, true
	case !any.Zero():
		return any, true
	}
	return zeroVar, false
}

// --- stay / edit ---

// AddStay installs a stay constraint on v: `v = v.Val()` at the given
// strength (callers conventionally pass Weak; there is no default) and weight, biasing the solver to
// leave v at its current value unless a stronger constraint says
// otherwise.
func (s *Solver) AddStay(v Var, strength Strength, weight float64) (ConstraintHandle, error) {
	c := Constraint{
		Expr:     NewExpression(-s.values[v], v.T(1)),
		Op:       EQ,
		Strength: strength,
		Weight:   weight,
	}
	return s.AddConstraint(c)
}

// AddEditVar installs an edit constraint on v (`v = v.Val()` at the given
// strength, conventionally Strong; there is no default) and marks v editable for
// SuggestValue until a matching EndEdit removes it. strength must not be
// Required (ErrEditRequired).
func (s *Solver) AddEditVar(v Var, strength Strength, weight float64) error {
	if strength.IsRequired() {
		return ErrEditRequired
	}
	if _, ok := s.known[v]; !ok || !v.External() {
		return ErrBadTerm
	}
	current := s.values[v]
	c := Constraint{
		Expr:     NewExpression(-current, v.T(1)),
		Op:       EQ,
		Strength: strength,
		Weight:   weight,
	}
	handle, err := s.AddConstraint(c)
	if err != nil {
		return err
	}
	s.edits[v] = editInfo{tag: s.tags[Var(handle)], suggested: current}
	return nil
}

// BeginEdit opens a new edit context. Edit contexts nest: SuggestValue is
// legal whenever at least one is open, and the edit constraints installed
// by AddEditVar are all torn down only once the outermost EndEdit returns.
func (s *Solver) BeginEdit() {
	s.depth++
}

// EndEdit closes the innermost open edit context. Once the last context
// closes, every active edit constraint is removed via RemoveConstraint.
// Returns ErrNoEditInProgress if no context is open.
func (s *Solver) EndEdit() error {
	if s.depth == 0 {
		return ErrNoEditInProgress
	}
	s.depth--
	if s.depth > 0 {
		return nil
	}
	for v, info := range s.edits {
		if err := s.RemoveConstraint(ConstraintHandle(info.tag.marker)); err != nil {
			return err
		}
		delete(s.edits, v)
	}
	return nil
}

// SuggestValue records a new target value for the editable variable v,
// applying the resulting delta directly to the tableau without yet
// restoring feasibility or writing external values back — that's
// Resolve's job, so callers may batch several SuggestValue calls (e.g. an
// (x, y) drag) before paying for one dual-optimisation pass. Returns
// ErrNoEditInProgress if called outside BeginEdit/EndEdit, or
// ErrNotEditable if v has no active edit constraint.
func (s *Solver) SuggestValue(v Var, x float64) error {
	if s.depth == 0 {
		return ErrNoEditInProgress
	}
	info, ok := s.edits[v]
	if !ok {
		return ErrNotEditable
	}
	delta := x - info.suggested
	info.suggested = x
	s.edits[v] = info

	t := info.tag
	switch {
	case s.tab.bumpConstant(t.marker, -delta):
	case s.tab.bumpConstant(t.other, delta):
	default:
		for b, r := range s.tab.rows {
			c := r.expr.CoefficientFor(t.marker)
			if zero(c) {
				continue
			}
			r.expr.Constant += c * delta
			s.tab.rows[b] = r
			if b.Restricted() && r.expr.Constant < -epsilon {
				s.tab.markInfeasible(b)
			}
		}
	}
	return nil
}

// Resolve restores feasibility after one or more SuggestValue calls via
// dual optimisation, then writes the resulting external values back.
func (s *Solver) Resolve() error {
	if err := s.optimizeDual(); err != nil {
		return err
	}
	s.writeBack()
	return nil
}

// Solve runs primal optimisation against the current objective and writes
// external values back. AddConstraint calls this implicitly; exported for
// callers who install a stay/constraint via lower-level means and want to
// force a resolve.
func (s *Solver) Solve() error {
	if err := s.optimizePrimal(&s.objective); err != nil {
		return err
	}
	s.writeBack()
	return nil
}

// writeBack implements spec §4.F's "Writing back values": every external
// basic variable takes its row's constant; every external variable known
// to the solver but currently parametric (non-basic) is reset to 0.
func (s *Solver) writeBack() {
	for v := range s.tab.externalRows {
		if expr, ok := s.tab.rowFor(v); ok {
			s.values[v] = expr.Constant
		}
	}
	for v := range s.tab.externalParametricVars {
		s.values[v] = 0
	}
}
