// Package prolog implements an embeddable Horn-clause resolution engine:
// a first-order term model, Martelli–Montanari unification, and a lazy,
// backtracking SLD-resolution resolver with cut, negation-as-failure, and
// arithmetic evaluation.
//
// A host program builds a knowledge base with Universe.AddClause and
// queries it with Universe.Query, which streams variable bindings one
// solution at a time under explicit demand. The surface syntax by which a
// host turns program text into Term and Goal values is not part of this
// package — callers build terms directly with the constructors below, or
// through a small reader of their own (see cmd/prolog-repl for an example).
package prolog
