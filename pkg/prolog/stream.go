package prolog

import "context"

// Stream is a lazy, demand-driven sequence of Results: nothing past the
// first solution is computed until Next is called again. It is implemented
// as a goroutine feeding an unbuffered channel, grounded on
// pkg/minikanren's ChannelResultStream but made per-call cancellable via
// context rather than a single shared done-channel, so an abandoned query
// always releases its goroutine.
type Stream struct {
	results chan *Result
	cancel  context.CancelFunc
	done    <-chan struct{}
}

// newStream starts produce in its own goroutine, feeding values to emit
// until produce returns or ctx is cancelled. produce must stop promptly
// once ctx is done.
func newStream(ctx context.Context, produce func(ctx context.Context, emit func(*Result) bool)) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan *Result)
	s := &Stream{results: ch, cancel: cancel, done: ctx.Done()}

	go func() {
		defer close(ch)
		emit := func(r *Result) bool {
			select {
			case ch <- r:
				return true
			case <-ctx.Done():
				return false
			}
		}
		produce(ctx, emit)
	}()

	return s
}

// Next blocks until a solution is available, ctx is cancelled, or the
// stream is exhausted. The boolean result reports whether a solution was
// returned.
func (s *Stream) Next(ctx context.Context) (*Result, bool) {
	if s == nil {
		return nil, false
	}
	select {
	case r, ok := <-s.results:
		if !ok {
			return nil, false
		}
		return r, true
	case <-ctx.Done():
		s.Cancel()
		return nil, false
	}
}

// Cancel stops the producing goroutine, if still running, and releases its
// resources. It is idempotent and safe to call after exhaustion.
func (s *Stream) Cancel() {
	if s == nil {
		return
	}
	s.cancel()
}

// emptyStream returns a Stream that yields no solutions.
func emptyStream() *Stream {
	return newStream(context.Background(), func(ctx context.Context, emit func(*Result) bool) {})
}

// singleStream returns a Stream that yields exactly r, unless r represents
// failure, in which case it yields nothing.
func singleStream(ctx context.Context, r *Result) *Stream {
	return newStream(ctx, func(ctx context.Context, emit func(*Result) bool) {
		if !r.Failed() {
			emit(r)
		}
	})
}

// concatStreams drains sources one at a time, in order, lazily starting
// the next only once the previous is exhausted — the mechanism behind
// disjunction and multi-clause predicate calls.
func concatStreams(ctx context.Context, sources func(yield func(*Stream) bool)) *Stream {
	return newStream(ctx, func(ctx context.Context, emit func(*Result) bool) {
		sources(func(src *Stream) bool {
			defer src.Cancel()
			for {
				r, ok := src.Next(ctx)
				if !ok {
					return true
				}
				if !emit(r) {
					return false
				}
			}
		})
	})
}
