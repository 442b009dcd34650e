package prolog

import (
	"context"
	"testing"

	"github.com/cockroachdb/apd"
	"github.com/gitrdm/hornclause/pkg/prolog/arith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) *apd.Decimal {
	t.Helper()
	d, _, err := apd.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newTestEnv(kb *KnowledgeBase) *Env {
	if kb == nil {
		kb = NewKnowledgeBase()
	}
	return &Env{kb: kb, tracer: NoopTracer{}, cut: newCutBarrier(), depth: 0}
}

func solutions(t *testing.T, g Goal, r *Result, env *Env) []*Result {
	t.Helper()
	ctx := context.Background()
	s := g.Prove(ctx, r, env)
	defer s.Cancel()
	var out []*Result
	for {
		res, ok := s.Next(ctx)
		if !ok {
			break
		}
		out = append(out, res)
	}
	return out
}

func TestTrueAndFail(t *testing.T) {
	env := newTestEnv(nil)
	assert.Len(t, solutions(t, True(), EmptyResult(), env), 1)
	assert.Len(t, solutions(t, Fail(), EmptyResult(), env), 0)
}

func TestAndRequiresBothGoals(t *testing.T) {
	env := newTestEnv(nil)
	x := NewVar("X")
	g := And(Unify(x, NewAtom("a")), Cmp(Ge, NewIntConstant(1), NewIntConstant(1)))
	res := solutions(t, g, EmptyResult(), env)
	require.Len(t, res, 1)
	v, _ := res[0].Lookup(x)
	assert.True(t, Equal(v, NewAtom("a")))
}

func TestAndShortCircuitsOnFailure(t *testing.T) {
	env := newTestEnv(nil)
	g := And(Fail(), True())
	assert.Len(t, solutions(t, g, EmptyResult(), env), 0)
}

func TestOrTriesBothBranches(t *testing.T) {
	env := newTestEnv(nil)
	x := NewVar("X")
	g := Or(Unify(x, NewAtom("a")), Unify(x, NewAtom("b")))
	res := solutions(t, g, EmptyResult(), env)
	require.Len(t, res, 2)
	v0, _ := res[0].Lookup(x)
	v1, _ := res[1].Lookup(x)
	assert.True(t, Equal(v0, NewAtom("a")))
	assert.True(t, Equal(v1, NewAtom("b")))
}

func TestCutPrunesRemainingDisjuncts(t *testing.T) {
	env := newTestEnv(nil)
	x := NewVar("X")
	g := Or(And(Unify(x, NewAtom("a")), Cut()), Unify(x, NewAtom("b")))
	res := solutions(t, g, EmptyResult(), env)
	require.Len(t, res, 1, "cut in the first disjunct must suppress the second")
	v, _ := res[0].Lookup(x)
	assert.True(t, Equal(v, NewAtom("a")))
}

func TestNegationAsFailure(t *testing.T) {
	env := newTestEnv(nil)
	assert.Len(t, solutions(t, Not(Fail()), EmptyResult(), env), 1)
	assert.Len(t, solutions(t, Not(True()), EmptyResult(), env), 0)
}

func TestNegationDoesNotExportBindings(t *testing.T) {
	env := newTestEnv(nil)
	x := NewVar("X")
	g := Not(Unify(x, NewAtom("a")))
	res := solutions(t, g, EmptyResult(), env)
	assert.Len(t, res, 0, "unify always succeeds here so its negation must fail")

	res = solutions(t, Not(Not(Unify(x, NewAtom("a")))), EmptyResult(), env)
	require.Len(t, res, 1)
	_, bound := res[0].Lookup(x)
	assert.False(t, bound, "a succeeding double negation must leave X unbound")
}

func TestCutInsideNegationDoesNotEscape(t *testing.T) {
	env := newTestEnv(nil)
	x := NewVar("X")
	// The cut inside the negated goal fires before that goal fails overall;
	// it must be invisible to the sibling disjunction sharing this clause
	// body's cut barrier.
	g := And(Not(And(Cut(), Fail())), Or(Unify(x, NewAtom("a")), Unify(x, NewAtom("b"))))
	res := solutions(t, g, EmptyResult(), env)
	require.Len(t, res, 2, "a cut inside Not must not prune the sibling disjunction")
}

func TestEvalBindsArithmeticResult(t *testing.T) {
	env := newTestEnv(nil)
	x := NewVar("X")
	g := Eval(x, NewEvalCompound(arith.Add, NewIntConstant(2), NewIntConstant(3)))
	res := solutions(t, g, EmptyResult(), env)
	require.Len(t, res, 1)
	v, _ := res[0].Lookup(x)
	d, ok := v.(Constant).Decimal()
	require.True(t, ok)
	assert.Equal(t, 0, d.Cmp(mustDecimal(t, "5")))
}

func TestCmpGoal(t *testing.T) {
	env := newTestEnv(nil)
	assert.Len(t, solutions(t, Cmp(Lt, NewIntConstant(1), NewIntConstant(2)), EmptyResult(), env), 1)
	assert.Len(t, solutions(t, Cmp(Gt, NewIntConstant(1), NewIntConstant(2)), EmptyResult(), env), 0)
}

func TestEvalOfUnboundVariableFails(t *testing.T) {
	env := newTestEnv(nil)
	x, y := NewVar("X"), NewVar("Y")
	g := Eval(y, x)
	assert.Len(t, solutions(t, g, EmptyResult(), env), 0)
}

func TestCallOnUndefinedPredicateFails(t *testing.T) {
	env := newTestEnv(nil)
	g := Call("nope", NewAtom("a"))
	assert.Len(t, solutions(t, g, EmptyResult(), env), 0)
}

func TestCallTriesClausesInOrder(t *testing.T) {
	kb := NewKnowledgeBase()
	x := NewVar("X")
	kb.AddClause(Clause{Head: Compound{Name: "p", Args: []Term{NewAtom("a")}}, Body: True()})
	kb.AddClause(Clause{Head: Compound{Name: "p", Args: []Term{NewAtom("b")}}, Body: True()})
	env := newTestEnv(kb)

	res := solutions(t, Call("p", x), EmptyResult(), env)
	require.Len(t, res, 2)
	v0, _ := res[0].Lookup(x)
	v1, _ := res[1].Lookup(x)
	assert.True(t, Equal(v0, NewAtom("a")))
	assert.True(t, Equal(v1, NewAtom("b")))
}

func TestCutInsideClauseBodyPrunesFurtherClauses(t *testing.T) {
	kb := NewKnowledgeBase()
	x := NewVar("X")
	kb.AddClause(Clause{Head: Compound{Name: "p", Args: []Term{NewAtom("a")}}, Body: Cut()})
	kb.AddClause(Clause{Head: Compound{Name: "p", Args: []Term{NewAtom("b")}}, Body: True()})
	env := newTestEnv(kb)

	res := solutions(t, Call("p", x), EmptyResult(), env)
	require.Len(t, res, 1)
	v, _ := res[0].Lookup(x)
	assert.True(t, Equal(v, NewAtom("a")))
}
