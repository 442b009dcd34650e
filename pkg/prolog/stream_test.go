package prolog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyStreamYieldsNothing(t *testing.T) {
	ctx := context.Background()
	_, ok := emptyStream().Next(ctx)
	assert.False(t, ok)
}

func TestSingleStreamYieldsOnce(t *testing.T) {
	ctx := context.Background()
	s := singleStream(ctx, EmptyResult())
	_, ok := s.Next(ctx)
	require.True(t, ok)
	_, ok = s.Next(ctx)
	assert.False(t, ok)
}

func TestSingleStreamOfFailureYieldsNothing(t *testing.T) {
	ctx := context.Background()
	s := singleStream(ctx, failure)
	_, ok := s.Next(ctx)
	assert.False(t, ok)
}

func TestConcatStreamsPreservesOrder(t *testing.T) {
	ctx := context.Background()
	x := NewVar("X")
	r1 := EmptyResult().Unify(x, NewAtom("a"))
	r2 := EmptyResult().Unify(x, NewAtom("b"))

	s := concatStreams(ctx, func(yield func(*Stream) bool) {
		if !yield(singleStream(ctx, r1)) {
			return
		}
		yield(singleStream(ctx, r2))
	})

	got1, ok := s.Next(ctx)
	require.True(t, ok)
	v1, _ := got1.Lookup(x)
	assert.True(t, Equal(v1, NewAtom("a")))

	got2, ok := s.Next(ctx)
	require.True(t, ok)
	v2, _ := got2.Lookup(x)
	assert.True(t, Equal(v2, NewAtom("b")))

	_, ok = s.Next(ctx)
	assert.False(t, ok)
}

func TestStreamCancelStopsProducer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	s := newStream(ctx, func(ctx context.Context, emit func(*Result) bool) {
		close(started)
		for {
			if !emit(EmptyResult()) {
				return
			}
		}
	})
	<-started
	_, ok := s.Next(ctx)
	require.True(t, ok)
	cancel()

	select {
	case _, ok := <-s.results:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("producer goroutine did not stop after cancel")
	}
}
