package prolog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFamilyUniverse() *Universe {
	u := NewUniverse()
	parent := func(p, c string) {
		u.AddFact(NewCompound("parent", NewAtom(p), NewAtom(c)))
	}
	parent("tom", "bob")
	parent("tom", "liz")
	parent("bob", "ann")
	parent("bob", "pat")

	x, y, z := NewVar("X"), NewVar("Y"), NewVar("Z")
	u.AddClause(
		NewCompound("sibling", x, y),
		And(Call("parent", z, x), Call("parent", z, y), Not(Unify(x, y))),
	)
	return u
}

func TestQueryProjectsRequestedVariables(t *testing.T) {
	u := buildFamilyUniverse()
	ctx := context.Background()

	a, b := NewVar("A"), NewVar("B")
	qr := u.Query(ctx, Call("sibling", a, b), []Variable{a, b})
	defer qr.Close()

	var pairs [][2]string
	for {
		sol, ok := qr.Next(ctx)
		if !ok {
			break
		}
		av, _ := sol.Get("A")
		bv, _ := sol.Get("B")
		pairs = append(pairs, [2]string{av.String(), bv.String()})
	}

	assert.Len(t, pairs, 4, "bob/liz and liz/bob via tom, plus ann/pat and pat/ann via bob")
}

func TestOkReportsSatisfiability(t *testing.T) {
	u := buildFamilyUniverse()
	ctx := context.Background()

	assert.True(t, u.Ok(ctx, Call("parent", NewAtom("tom"), NewAtom("bob"))))
	assert.False(t, u.Ok(ctx, Call("parent", NewAtom("bob"), NewAtom("tom"))))
}

func TestQueryCancellationStopsDrainingEarly(t *testing.T) {
	u := NewUniverse()
	x := NewVar("X")
	u.AddFact(NewCompound("p", NewAtom("a")))
	u.AddFact(NewCompound("p", NewAtom("b")))

	ctx, cancel := context.WithCancel(context.Background())
	qr := u.Query(ctx, Call("p", x), []Variable{x})
	sol, ok := qr.Next(ctx)
	require.True(t, ok)
	first, _ := sol.Get("X")
	assert.Equal(t, "a", first.String())
	cancel()
	qr.Close()
}

func TestAddClauseAfterSnapshotDoesNotAffectInFlightQuery(t *testing.T) {
	u := NewUniverse()
	x := NewVar("X")
	u.AddFact(NewCompound("p", NewAtom("a")))

	ctx := context.Background()
	qr := u.Query(ctx, Call("p", x), []Variable{x})
	defer qr.Close()

	u.AddFact(NewCompound("p", NewAtom("b")))

	var got []string
	for {
		sol, ok := qr.Next(ctx)
		if !ok {
			break
		}
		v, _ := sol.Get("X")
		got = append(got, v.String())
	}
	assert.Equal(t, []string{"a"}, got, "query took a snapshot before the second fact was added")
}
