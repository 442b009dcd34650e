package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeBaseAddAndLookup(t *testing.T) {
	kb := NewKnowledgeBase()
	kb.AddClause(Clause{Head: Compound{Name: "p", Args: []Term{NewAtom("a")}}, Body: True()})
	kb.AddClause(Clause{Head: Compound{Name: "p", Args: []Term{NewAtom("b")}}, Body: True()})

	pred := kb.Lookup(Signature{Name: "p", Arity: 1})
	require.NotNil(t, pred)
	assert.Len(t, pred.Clauses, 2)

	assert.Nil(t, kb.Lookup(Signature{Name: "q", Arity: 1}))
}

func TestKnowledgeBaseDistinguishesArity(t *testing.T) {
	kb := NewKnowledgeBase()
	kb.AddClause(Clause{Head: Compound{Name: "p", Args: []Term{NewAtom("a")}}, Body: True()})
	kb.AddClause(Clause{Head: Compound{Name: "p", Args: []Term{NewAtom("a"), NewAtom("b")}}, Body: True()})

	assert.Len(t, kb.Lookup(Signature{Name: "p", Arity: 1}).Clauses, 1)
	assert.Len(t, kb.Lookup(Signature{Name: "p", Arity: 2}).Clauses, 1)
}

func TestKnowledgeBaseSignaturesPreserveDeclarationOrder(t *testing.T) {
	kb := NewKnowledgeBase()
	kb.AddClause(Clause{Head: Compound{Name: "z", Args: []Term{NewAtom("a")}}, Body: True()})
	kb.AddClause(Clause{Head: Compound{Name: "a", Args: []Term{NewAtom("a")}}, Body: True()})
	kb.AddClause(Clause{Head: Compound{Name: "m", Args: []Term{NewAtom("a")}}, Body: True()})

	sigs := kb.Signatures()
	require.Len(t, sigs, 3)
	assert.Equal(t, "z", sigs[0].Name)
	assert.Equal(t, "a", sigs[1].Name)
	assert.Equal(t, "m", sigs[2].Name)
}

func TestKnowledgeBaseSnapshotIsIndependent(t *testing.T) {
	kb := NewKnowledgeBase()
	kb.AddClause(Clause{Head: Compound{Name: "p", Args: []Term{NewAtom("a")}}, Body: True()})

	snap := kb.Snapshot()
	kb.AddClause(Clause{Head: Compound{Name: "p", Args: []Term{NewAtom("b")}}, Body: True()})

	assert.Len(t, snap.Lookup(Signature{Name: "p", Arity: 1}).Clauses, 1, "mutating the live kb must not affect a prior snapshot")
	assert.Len(t, kb.Lookup(Signature{Name: "p", Arity: 1}).Clauses, 2)
}
