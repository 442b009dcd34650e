package prolog

import (
	"context"
	"fmt"

	"github.com/cockroachdb/apd"
)

// Env carries the per-invocation state a Goal needs beyond the Result it
// is proving against: the knowledge base it may call into, the cut
// barrier scoping the enclosing clause body or negation, a tracer sink,
// and the current resolution depth for indenting trace output. Cut is a
// typed signal carried in this struct rather than a panic/recover unwind.
type Env struct {
	kb     *KnowledgeBase
	tracer Tracer
	cut    *cutBarrier
	depth  int
}

func (e *Env) childWithFreshCut() *Env {
	return &Env{kb: e.kb, tracer: e.tracer, cut: newCutBarrier(), depth: e.depth + 1}
}

// Goal is the tagged variant of provable constructs: conjunction,
// disjunction, unification, arithmetic evaluation and comparison,
// negation, cut, and predicate calls all implement it behind a single
// Prove dispatcher, rather than dynamic dispatch over goal subclasses.
type Goal interface {
	Prove(ctx context.Context, r *Result, env *Env) *Stream
	String() string
	scopeInto(scope uint64) Goal
}

// True always succeeds exactly once, without adding constraints.
func True() Goal { return trueGoal{} }

type trueGoal struct{}

func (trueGoal) Prove(ctx context.Context, r *Result, env *Env) *Stream { return singleStream(ctx, r) }
func (trueGoal) String() string                                        { return "true" }
func (g trueGoal) scopeInto(uint64) Goal                                { return g }

// Fail always fails, producing no solutions.
func Fail() Goal { return failGoal{} }

type failGoal struct{}

func (failGoal) Prove(ctx context.Context, r *Result, env *Env) *Stream { return emptyStream() }
func (failGoal) String() string                                        { return "fail" }
func (g failGoal) scopeInto(uint64) Goal                                { return g }

// And builds left-associated conjunction out of one or more goals:
// And(a, b, c) proves a, then for each of its solutions proves b, then
// for each of those proves c.
func And(goals ...Goal) Goal {
	switch len(goals) {
	case 0:
		return True()
	case 1:
		return goals[0]
	default:
		g := goals[0]
		for _, next := range goals[1:] {
			g = andGoal{Left: g, Right: next}
		}
		return g
	}
}

type andGoal struct{ Left, Right Goal }

func (g andGoal) String() string { return "(" + g.Left.String() + ", " + g.Right.String() + ")" }

func (g andGoal) scopeInto(scope uint64) Goal {
	return andGoal{Left: g.Left.scopeInto(scope), Right: g.Right.scopeInto(scope)}
}

// Prove implements conjunction: the cut barrier in env is inherited
// unchanged from the caller (a cut inside either conjunct is visible to
// the enclosing clause invocation). After all solutions for
// the current left binding have been drained through Right, the barrier
// is checked once before asking Left for its next alternative — this is
// the point at which "a cut anywhere to the left of it in the same clause
// body" takes effect.
func (g andGoal) Prove(ctx context.Context, r *Result, env *Env) *Stream {
	return newStream(ctx, func(ctx context.Context, emit func(*Result) bool) {
		left := g.Left.Prove(ctx, r, env)
		defer left.Cancel()
		for {
			r1, ok := left.Next(ctx)
			if !ok {
				return
			}
			right := g.Right.Prove(ctx, r1, env)
			for {
				r2, ok := right.Next(ctx)
				if !ok {
					break
				}
				if !emit(r2) {
					right.Cancel()
					return
				}
			}
			right.Cancel()
			if env.cut.isSet() {
				return
			}
		}
	})
}

// Or builds left-associated disjunction: Or(a, b, c) tries every solution
// of a, then of b, then of c. Clause-list predicate dispatch is modeled
// internally the same way (one Or-like concatenation per clause), so
// disjunction and "multiple clauses for the same predicate" share cut
// semantics: a cut in one disjunct/clause suppresses the remaining ones.
func Or(goals ...Goal) Goal {
	switch len(goals) {
	case 0:
		return Fail()
	case 1:
		return goals[0]
	default:
		g := goals[0]
		for _, next := range goals[1:] {
			g = orGoal{Left: g, Right: next}
		}
		return g
	}
}

type orGoal struct{ Left, Right Goal }

func (g orGoal) String() string { return "(" + g.Left.String() + "; " + g.Right.String() + ")" }

func (g orGoal) scopeInto(scope uint64) Goal {
	return orGoal{Left: g.Left.scopeInto(scope), Right: g.Right.scopeInto(scope)}
}

func (g orGoal) Prove(ctx context.Context, r *Result, env *Env) *Stream {
	return concatStreams(ctx, func(yield func(*Stream) bool) {
		if !yield(g.Left.Prove(ctx, r, env)) {
			return
		}
		if env.cut.isSet() {
			return
		}
		yield(g.Right.Prove(ctx, r, env))
	})
}

// Unify succeeds at most once, adding the equation a = b and running it
// to a fixpoint via Result.Unify.
func Unify(a, b Term) Goal { return unifyGoal{A: a, B: b} }

type unifyGoal struct{ A, B Term }

func (g unifyGoal) String() string { return g.A.String() + " = " + g.B.String() }

func (g unifyGoal) scopeInto(scope uint64) Goal {
	return unifyGoal{A: scopeTerm(g.A, scope), B: scopeTerm(g.B, scope)}
}

func (g unifyGoal) Prove(ctx context.Context, r *Result, env *Env) *Stream {
	return singleStream(ctx, r.Unify(g.A, g.B))
}

// Eval succeeds at most once, binding target to the evaluation of expr.
// expr must reduce to a numeric Constant or EvalCompound; an unbound
// variable (ErrUninstantiated), any other term (ErrNotEvaluable) or a
// failing operator (arith.EvalException) makes the goal fail.
func Eval(target, expr Term) Goal { return evalGoal{Target: target, Expr: expr} }

type evalGoal struct{ Target, Expr Term }

func (g evalGoal) String() string { return g.Target.String() + " <- " + g.Expr.String() }

func (g evalGoal) scopeInto(scope uint64) Goal {
	return evalGoal{Target: scopeTerm(g.Target, scope), Expr: scopeTerm(g.Expr, scope)}
}

func (g evalGoal) Prove(ctx context.Context, r *Result, env *Env) *Stream {
	d, err := evaluate(r, g.Expr)
	if err != nil {
		env.tracer.Message(env.depth, "evaluation failed: %v", err)
		return emptyStream()
	}
	return singleStream(ctx, r.Unify(g.Target, NewDecimalConstant(d)))
}

// CmpOp is one of the four numeric comparisons usable in a Cmp goal.
type CmpOp int

const (
	Lt CmpOp = iota
	Le
	Gt
	Ge
)

func (op CmpOp) String() string {
	switch op {
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	default:
		return "?"
	}
}

// Cmp succeeds at most once if the evaluation of left and right satisfy
// op, without binding any variable.
func Cmp(op CmpOp, left, right Term) Goal { return cmpGoal{Op: op, Left: left, Right: right} }

type cmpGoal struct {
	Op          CmpOp
	Left, Right Term
}

func (g cmpGoal) String() string { return g.Left.String() + " " + g.Op.String() + " " + g.Right.String() }

func (g cmpGoal) scopeInto(scope uint64) Goal {
	return cmpGoal{Op: g.Op, Left: scopeTerm(g.Left, scope), Right: scopeTerm(g.Right, scope)}
}

func (g cmpGoal) Prove(ctx context.Context, r *Result, env *Env) *Stream {
	l, err := evaluate(r, g.Left)
	if err != nil {
		env.tracer.Message(env.depth, "comparison evaluation failed: %v", err)
		return emptyStream()
	}
	right, err := evaluate(r, g.Right)
	if err != nil {
		env.tracer.Message(env.depth, "comparison evaluation failed: %v", err)
		return emptyStream()
	}
	cmp := l.Cmp(right)
	satisfied := false
	switch g.Op {
	case Lt:
		satisfied = cmp < 0
	case Le:
		satisfied = cmp <= 0
	case Gt:
		satisfied = cmp > 0
	case Ge:
		satisfied = cmp >= 0
	}
	if !satisfied {
		return emptyStream()
	}
	return singleStream(ctx, r)
}

// Not proves goal as negation-as-failure: it succeeds, without binding
// any variable, exactly when goal has no solution. A cut inside goal is
// confined to goal — it can never reach past the negation, since Not runs
// its subgoal under a fresh cut barrier.
func Not(goal Goal) Goal { return notGoal{Goal: goal} }

type notGoal struct{ Goal Goal }

func (g notGoal) String() string { return "not(" + g.Goal.String() + ")" }

func (g notGoal) scopeInto(scope uint64) Goal { return notGoal{Goal: g.Goal.scopeInto(scope)} }

func (g notGoal) Prove(ctx context.Context, r *Result, env *Env) *Stream {
	return newStream(ctx, func(ctx context.Context, emit func(*Result) bool) {
		sub := g.Goal.Prove(ctx, r, env.childWithFreshCut())
		defer sub.Cancel()
		if _, ok := sub.Next(ctx); ok {
			return
		}
		emit(r)
	})
}

// Cut succeeds exactly once, like True, but first sets the cut barrier of
// the enclosing clause invocation (or negation), committing the resolver
// to every choice made so far within that scope.
func Cut() Goal { return cutGoal{} }

type cutGoal struct{}

func (cutGoal) String() string { return "!" }
func (g cutGoal) scopeInto(uint64) Goal { return g }

func (cutGoal) Prove(ctx context.Context, r *Result, env *Env) *Stream {
	env.cut.set()
	return singleStream(ctx, r)
}

// Call invokes the predicate named name with the given arguments: every
// clause whose head has that name and arity is tried in declaration
// order, each in its own fresh variable scope, until one's body cut
// barrier is set or the clauses are exhausted.
func Call(name string, args ...Term) Goal { return callGoal{Name: name, Args: args} }

type callGoal struct {
	Name string
	Args []Term
}

func (g callGoal) String() string {
	s := g.Name
	if len(g.Args) == 0 {
		return s
	}
	s += "("
	for i, a := range g.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

func (g callGoal) scopeInto(scope uint64) Goal {
	return callGoal{Name: g.Name, Args: scopeTerms(g.Args, scope)}
}

func (g callGoal) Prove(ctx context.Context, r *Result, env *Env) *Stream {
	sig := Signature{Name: g.Name, Arity: len(g.Args)}
	pred := env.kb.Lookup(sig)

	return newStream(ctx, func(ctx context.Context, emit func(*Result) bool) {
		if pred == nil {
			env.tracer.Message(env.depth, "call to undefined predicate %s/%d fails", sig.Name, sig.Arity)
			return
		}
		for _, clause := range pred.Clauses {
			scope := newScope()
			headArgs := scopeTerms(clause.Head.Args, scope)

			r1 := r
			matched := true
			for i := range g.Args {
				r1 = r1.Unify(g.Args[i], headArgs[i])
				if r1.Failed() {
					matched = false
					break
				}
			}
			if !matched {
				continue
			}

			body := clause.Body.scopeInto(scope)
			callEnv := env.childWithFreshCut()

			env.tracer.Enter(callEnv.depth, body, r1)
			stream := body.Prove(ctx, r1, callEnv)
			succeeded := false
			for {
				r2, ok := stream.Next(ctx)
				if !ok {
					break
				}
				succeeded = true
				if !emit(r2) {
					stream.Cancel()
					env.tracer.Exit(callEnv.depth, body, r2, succeeded)
					return
				}
			}
			env.tracer.Exit(callEnv.depth, body, r1, succeeded)

			if callEnv.cut.isSet() {
				return
			}
		}
	})
}

// evaluate reduces t, under r's current bindings, to a single decimal
// value: Constants wrapping a decimal evaluate to themselves, bound
// variables evaluate to the evaluation of their binding, and
// EvalCompounds fold their operator over the evaluation of their
// children. Any other term (an unbound variable, a plain Atom or
// Compound, or a string Constant) cannot be evaluated.
func evaluate(r *Result, t Term) (*apd.Decimal, error) {
	t = r.Walk(t)
	switch x := t.(type) {
	case Constant:
		d, ok := x.Decimal()
		if !ok {
			return nil, fmt.Errorf("%w: constant %s is not numeric", ErrNotEvaluable, x.String())
		}
		return d, nil
	case EvalCompound:
		args := make([]*apd.Decimal, len(x.Args))
		for i, a := range x.Args {
			d, err := evaluate(r, a)
			if err != nil {
				return nil, err
			}
			args[i] = d
		}
		return x.Op.Apply(args)
	case Variable:
		return nil, fmt.Errorf("%w: %s", ErrUninstantiated, x.String())
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotEvaluable, t.String())
	}
}
