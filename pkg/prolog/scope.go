package prolog

import "github.com/google/uuid"

// newScope returns a fresh, nonzero scope tag. Scope 0 is reserved for the
// outermost query scope, so every clause invocation gets a scope drawn
// from the first 8 bytes (the high 64 bits) of a random UUID, re-rolled on the zero-value
// collision that happens with vanishing but nonzero probability.
func newScope() uint64 {
	for {
		id := uuid.New()
		hi := uint64(0)
		for _, b := range id[:8] {
			hi = hi<<8 | uint64(b)
		}
		if hi != 0 {
			return hi
		}
	}
}
