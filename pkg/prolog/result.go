package prolog

// equation is one unsolved or solved term-term equality constraint.
type equation struct {
	Left, Right Term
}

// Result is an immutable set of equations accumulated along one branch of
// the search, together with a cached variable→term binding map used for
// cheap conflict detection in Or before a full Martelli–Montanari pass is
// needed. This is a set, not a single substitution map: a variable may
// appear on the left of more than one equation until MGU() resolves them
// into bindings.
type Result struct {
	equations []equation
	bindings  map[varKey]Term // fast lookup of "solved" bindings, a cache over equations
	failed    bool
}

// failure is the canonical unsatisfiable Result.
var failure = &Result{failed: true}

// EmptyResult returns the Result with no constraints — the identity
// element for Or and the starting point of every query.
func EmptyResult() *Result {
	return &Result{}
}

// Failed reports whether r represents an unsatisfiable branch.
func (r *Result) Failed() bool {
	return r == nil || r.failed
}

// Lookup returns the term bound to v in r's cached bindings, if any.
func (r *Result) Lookup(v Variable) (Term, bool) {
	if r == nil || r.bindings == nil {
		return nil, false
	}
	t, ok := r.bindings[v.key()]
	return t, ok
}

// Walk follows chained variable bindings until it reaches a non-variable
// term or an unbound variable.
func (r *Result) Walk(t Term) Term {
	for {
		v, ok := t.(Variable)
		if !ok {
			return t
		}
		bound, ok := r.Lookup(v)
		if !ok {
			return v
		}
		t = bound
	}
}

// Resolve fully substitutes every bound variable inside t, recursively,
// using r's cached bindings. Unlike Walk, it descends into compounds.
func (r *Result) Resolve(t Term) Term {
	t = r.Walk(t)
	switch x := t.(type) {
	case Compound:
		return Compound{Name: x.Name, Args: r.resolveAll(x.Args)}
	case EvalCompound:
		return EvalCompound{Compound: Compound{Name: x.Name, Args: r.resolveAll(x.Args)}, Op: x.Op}
	default:
		return t
	}
}

func (r *Result) resolveAll(ts []Term) []Term {
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = r.Resolve(t)
	}
	return out
}

// withEquation returns a copy of r with eq appended to its raw equation
// list. The cached bindings map is not updated here — that happens only
// when MGU() runs the equation through the solver.
func (r *Result) withEquation(eq equation) *Result {
	next := &Result{
		equations: append(append([]equation{}, r.equations...), eq),
		bindings:  r.bindings,
	}
	return next
}

// Or merges r and s: their equation sets are unioned, and the fast-path
// cached-binding maps are cross-checked for a direct conflict (the same
// variable bound to two structurally distinct ground terms) before falling
// through to a full MGU. A conflict makes the merge fail immediately
// without running the fixpoint.
func (r *Result) Or(s *Result) *Result {
	if r.Failed() || s.Failed() {
		return failure
	}
	for k, rv := range r.bindings {
		if sv, ok := s.bindings[k]; ok && Ground(rv) && Ground(sv) && !Equal(rv, sv) {
			return failure
		}
	}
	merged := &Result{
		equations: append(r.pendingEquations(), s.pendingEquations()...),
	}
	return merged
}

// pendingEquations returns every equation a subsequent MGU() pass needs to
// re-derive r's current bindings from scratch: its raw unsolved equations,
// plus one v = term equation per already-solved binding. Or uses this so
// a solved binding from one side of a merge is not silently dropped for
// lacking a corresponding raw equation.
func (r *Result) pendingEquations() []equation {
	if r == nil {
		return nil
	}
	out := append([]equation{}, r.equations...)
	for k, v := range r.bindings {
		out = append(out, equation{Left: Variable{Name: k.Name, Scope: k.Scope, Scoped: k.Scoped}, Right: v})
	}
	return out
}

// Unify returns a new Result with the equation a = b added, then resolved
// to a fixpoint via MGU. It is the entry point used by the Unify goal and
// by clause-head matching.
func (r *Result) Unify(a, b Term) *Result {
	if r.Failed() {
		return failure
	}
	return r.withEquation(equation{Left: a, Right: b}).MGU()
}

// MGU runs the Martelli–Montanari algorithm to a fixpoint over r's pending
// equations, producing a new Result whose cached bindings map reflects
// every solved variable. It implements the five standard rules — delete,
// decompose, swap, eliminate (with occurs-check), and constant clash — as
// a worklist.
func (r *Result) MGU() *Result {
	if r.Failed() {
		return failure
	}
	pending := append([]equation{}, r.equations...)
	bindings := make(map[varKey]Term, len(r.bindings)+len(pending))
	for k, v := range r.bindings {
		bindings[k] = v
	}

	applyBindings := func(t Term) Term {
		for {
			v, ok := t.(Variable)
			if !ok {
				return t
			}
			bound, ok := bindings[v.key()]
			if !ok {
				return v
			}
			t = bound
		}
	}

	for len(pending) > 0 {
		eq := pending[0]
		pending = pending[1:]

		left := applyBindings(eq.Left)
		right := applyBindings(eq.Right)

		switch {
		case Equal(left, right):
			// delete: trivially satisfied, drop it.
			continue

		case isVariable(left):
			v := left.(Variable)
			if occursIn(v, (&Result{bindings: bindings}).Resolve(right)) {
				return failure
			}
			bindings = rebind(bindings, v, right)
			continue

		case isVariable(right):
			v := right.(Variable)
			if occursIn(v, (&Result{bindings: bindings}).Resolve(left)) {
				return failure
			}
			bindings = rebind(bindings, v, left)
			continue

		default:
			lc, lok := asCompound(left)
			rc, rok := asCompound(right)
			if !lok || !rok || lc.Name != rc.Name || len(lc.Args) != len(rc.Args) {
				return failure
			}
			for i := range lc.Args {
				pending = append(pending, equation{Left: lc.Args[i], Right: rc.Args[i]})
			}
		}
	}

	return &Result{bindings: bindings}
}

func isVariable(t Term) bool {
	_, ok := t.(Variable)
	return ok
}

func asCompound(t Term) (Compound, bool) {
	switch x := t.(type) {
	case Compound:
		return x, true
	case EvalCompound:
		return x.Compound, true
	default:
		return Compound{}, false
	}
}

// rebind records v := val and eagerly substitutes v out of every
// previously solved binding, keeping the map fully walked (no binding ever
// needs to chase through another stale binding of v).
func rebind(bindings map[varKey]Term, v Variable, val Term) map[varKey]Term {
	next := make(map[varKey]Term, len(bindings)+1)
	for k, t := range bindings {
		next[k] = substitute(t, v, val)
	}
	next[v.key()] = val
	return next
}

// Project returns the binding of every variable named in vars, fully
// resolved, keyed by variable. The result is a plain Go map, so it carries
// no order; QueryResult.Next builds the ordered, caller-facing Solution.
func (r *Result) Project(vars []Variable) map[Variable]Term {
	out := make(map[Variable]Term, len(vars))
	for _, v := range vars {
		out[v] = r.Resolve(v)
	}
	return out
}
