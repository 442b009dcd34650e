package prolog

import "errors"

// Sentinel errors a host can distinguish with errors.Is. Unification
// failure itself is not one of these: it is represented structurally by a
// failed *Result rather than a Go error, since backtracking treats it as
// an ordinary branch outcome, not an exceptional one.
var (
	// ErrUninstantiated is returned when arithmetic evaluation reaches an
	// unbound variable where a number is required.
	ErrUninstantiated = errors.New("prolog: unbound variable cannot be evaluated")

	// ErrNotEvaluable is returned when arithmetic evaluation reaches a
	// term — a plain atom, a non-arithmetic compound, or a string
	// constant — that has no numeric interpretation.
	ErrNotEvaluable = errors.New("prolog: term is not evaluable")

	// ErrPredicateNotFound is returned by Universe.Check for a signature
	// no clause defines. A Call goal itself does not return this error —
	// invoking an undefined predicate simply fails — this sentinel exists
	// for hosts that want to validate a program's calls ahead of running
	// it.
	ErrPredicateNotFound = errors.New("prolog: predicate not found")
)

// Check reports ErrPredicateNotFound if no clause defines sig, letting a
// host validate that every predicate a program calls is actually defined
// before running it.
func (u *Universe) Check(sig Signature) error {
	if u.kb.Lookup(sig) == nil {
		return ErrPredicateNotFound
	}
	return nil
}
