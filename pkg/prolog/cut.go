package prolog

import "sync/atomic"

// cutBarrier is a scoped, atomically-flagged control signal: when a cut
// goal fires it sets the barrier for the clause invocation it belongs to,
// telling the conjunction and clause-selection machinery that own that
// barrier to stop looking for alternatives. This is a typed flag threaded
// through Env and read at well-defined points, rather than an
// exception-style unwind caught by a handler at an arbitrary stack depth.
type cutBarrier struct {
	fired atomic.Bool
}

func newCutBarrier() *cutBarrier {
	return &cutBarrier{}
}

func (b *cutBarrier) set() {
	b.fired.Store(true)
}

func (b *cutBarrier) isSet() bool {
	return b.fired.Load()
}
