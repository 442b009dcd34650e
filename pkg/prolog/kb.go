package prolog

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Signature identifies a predicate by name and arity: family/2 and
// family/3 are distinct predicates.
type Signature struct {
	Name  string
	Arity int
}

// Clause is a single Horn clause: Head :- Body. A fact is a clause whose
// Body is True().
type Clause struct {
	Head Compound
	Body Goal
}

// Predicate is the ordered list of clauses defining one Signature. Clause
// order is significant — it is the order clauses are tried in, and the
// order alternative solutions are produced in.
type Predicate struct {
	Signature Signature
	Clauses   []Clause
}

// KnowledgeBase holds every predicate known to a Universe, keyed by
// Signature, preserving first-declared order across predicates (so a
// REPL's :predicates listing reproduces source order) via an ordered map, grounded
// on axone-protocol-prolog's own use of wk8/go-ordered-map for its VM
// environment.
type KnowledgeBase struct {
	predicates *orderedmap.OrderedMap[Signature, *Predicate]
}

// NewKnowledgeBase returns an empty KnowledgeBase.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{predicates: orderedmap.New[Signature, *Predicate]()}
}

// AddClause appends clause to the predicate named by its head, creating
// the predicate if this is its first clause.
func (kb *KnowledgeBase) AddClause(clause Clause) {
	sig := Signature{Name: clause.Head.Name, Arity: len(clause.Head.Args)}
	pred, ok := kb.predicates.Get(sig)
	if !ok {
		pred = &Predicate{Signature: sig}
		kb.predicates.Set(sig, pred)
	}
	pred.Clauses = append(pred.Clauses, clause)
}

// Lookup returns the Predicate for sig, or nil if no clause defines it —
// a call to an undefined predicate simply fails, it is not an error.
func (kb *KnowledgeBase) Lookup(sig Signature) *Predicate {
	pred, ok := kb.predicates.Get(sig)
	if !ok {
		return nil
	}
	return pred
}

// Signatures returns every predicate signature known to kb, in
// declaration order.
func (kb *KnowledgeBase) Signatures() []Signature {
	out := make([]Signature, 0, kb.predicates.Len())
	for pair := kb.predicates.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Snapshot returns a shallow copy of kb whose predicate map is independent
// of the original (new clauses added to one do not appear in the other),
// while the underlying Clause/Goal values are shared. This gives a running
// query a stable view of the knowledge base even if the host mutates it
// concurrently.
func (kb *KnowledgeBase) Snapshot() *KnowledgeBase {
	cp := NewKnowledgeBase()
	for pair := kb.predicates.Oldest(); pair != nil; pair = pair.Next() {
		clonedClauses := append([]Clause{}, pair.Value.Clauses...)
		cp.predicates.Set(pair.Key, &Predicate{Signature: pair.Key, Clauses: clonedClauses})
	}
	return cp
}
