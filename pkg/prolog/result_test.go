package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMGUSolvesSimpleEquation(t *testing.T) {
	x := NewVar("X")
	r := EmptyResult().Unify(x, NewAtom("a"))
	require.False(t, r.Failed())
	bound, ok := r.Lookup(x)
	require.True(t, ok)
	assert.True(t, Equal(bound, NewAtom("a")))
}

func TestMGUDecomposesCompounds(t *testing.T) {
	x, y := NewVar("X"), NewVar("Y")
	r := EmptyResult().Unify(
		NewCompound("f", x, NewAtom("b")),
		NewCompound("f", NewAtom("a"), y),
	)
	require.False(t, r.Failed())
	bx, _ := r.Lookup(x)
	by, _ := r.Lookup(y)
	assert.True(t, Equal(bx, NewAtom("a")))
	assert.True(t, Equal(by, NewAtom("b")))
}

func TestMGUFailsOnFunctorClash(t *testing.T) {
	r := EmptyResult().Unify(NewCompound("f", NewAtom("a")), NewCompound("g", NewAtom("a")))
	assert.True(t, r.Failed())
}

func TestMGUFailsOnArityClash(t *testing.T) {
	x := NewVar("X")
	r := EmptyResult().Unify(NewCompound("f", NewAtom("a")), NewCompound("f", NewAtom("a"), x))
	assert.True(t, r.Failed())
}

func TestMGUOccursCheckRejectsInfiniteTerm(t *testing.T) {
	x := NewVar("X")
	r := EmptyResult().Unify(x, NewCompound("f", x))
	assert.True(t, r.Failed())
}

func TestMGUChainsVariableBindings(t *testing.T) {
	x, y := NewVar("X"), NewVar("Y")
	r := EmptyResult().Unify(x, y)
	r = r.Unify(y, NewAtom("a"))
	require.False(t, r.Failed())
	bx, _ := r.Lookup(x)
	assert.True(t, Equal(bx, NewAtom("a")), "binding X=Y then Y=a must resolve X to a")
}

func TestResultOrDetectsGroundConflict(t *testing.T) {
	x := NewVar("X")
	r := EmptyResult().Unify(x, NewAtom("a"))
	s := EmptyResult().Unify(x, NewAtom("b"))
	assert.True(t, r.Or(s).Failed())
}

func TestResultOrAcceptsAgreement(t *testing.T) {
	x, y := NewVar("X"), NewVar("Y")
	r := EmptyResult().Unify(x, NewAtom("a"))
	s := EmptyResult().Unify(y, NewAtom("b"))
	merged := r.Or(s).MGU()
	require.False(t, merged.Failed())
	bx, _ := merged.Lookup(x)
	by, _ := merged.Lookup(y)
	assert.True(t, Equal(bx, NewAtom("a")))
	assert.True(t, Equal(by, NewAtom("b")))
}

func TestResolveDescendsIntoCompounds(t *testing.T) {
	x, y := NewVar("X"), NewVar("Y")
	r := EmptyResult().Unify(x, NewAtom("a"))
	r = r.Unify(y, NewAtom("b"))
	resolved := r.Resolve(NewCompound("pair", x, y))
	assert.True(t, Equal(resolved, NewCompound("pair", NewAtom("a"), NewAtom("b"))))
}

func TestProjectReturnsRequestedBindings(t *testing.T) {
	x := NewVar("X")
	r := EmptyResult().Unify(x, NewAtom("a"))
	proj := r.Project([]Variable{x})
	assert.True(t, Equal(proj[x], NewAtom("a")))
}
