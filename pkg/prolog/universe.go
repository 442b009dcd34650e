package prolog

import (
	"context"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Universe is the host-facing entry point: a knowledge base plus the
// tracer solutions are reported through. It is safe for concurrent
// queries — each Query takes an immutable snapshot of the knowledge base
// before resolving — but AddClause itself is not safe to call
// concurrently with another AddClause; the host is expected to serialize
// its own writes.
type Universe struct {
	kb     *KnowledgeBase
	tracer Tracer
}

// NewUniverse returns an empty Universe using a NoopTracer until
// WithTracer overrides it for a specific query.
func NewUniverse() *Universe {
	return &Universe{kb: NewKnowledgeBase(), tracer: NoopTracer{}}
}

// AddClause adds a fact or rule to the knowledge base. Pass True() as the
// body to add a fact.
func (u *Universe) AddClause(head Compound, body Goal) {
	u.kb.AddClause(Clause{Head: head, Body: body})
}

// AddFact is shorthand for AddClause(head, True()).
func (u *Universe) AddFact(head Compound) {
	u.AddClause(head, True())
}

// Signatures returns every predicate signature currently defined.
func (u *Universe) Signatures() []Signature {
	return u.kb.Signatures()
}

// String lists every predicate known to u, one per line, in declaration
// order — introspection support for a REPL's :predicates command.
func (u *Universe) String() string {
	var b strings.Builder
	for _, sig := range u.kb.Signatures() {
		pred := u.kb.Lookup(sig)
		fmt.Fprintf(&b, "%s/%d (%d clause(s))\n", sig.Name, sig.Arity, len(pred.Clauses))
	}
	return b.String()
}

// QueryOption configures a single call to Query or Prove.
type QueryOption func(*queryConfig)

type queryConfig struct {
	tracer Tracer
	limit  int // 0 means unbounded
}

// WithTracer overrides the Universe's default tracer for one query.
func WithTracer(t Tracer) QueryOption {
	return func(c *queryConfig) { c.tracer = t }
}

// Debug is shorthand for WithTracer(NewVerboseTracer()), turning on
// logrus-backed Enter/Exit/Message tracing for one query without the
// caller having to construct a VerboseTracer itself.
func Debug() QueryOption {
	return WithTracer(NewVerboseTracer())
}

// Limit caps the number of solutions QueryResult.Next will return before
// reporting exhaustion, cancelling the underlying stream once reached
// rather than letting the resolver keep searching for solutions nobody
// asked for.
func Limit(n int) QueryOption {
	return func(c *queryConfig) { c.limit = n }
}

func (u *Universe) resolveConfig(opts []QueryOption) *queryConfig {
	cfg := &queryConfig{tracer: u.tracer}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Prove streams the raw Results satisfying goal, one per call to
// Stream.Next, against a snapshot of the knowledge base taken when Prove
// is called.
func (u *Universe) Prove(ctx context.Context, goal Goal, opts ...QueryOption) *Stream {
	cfg := u.resolveConfig(opts)
	env := &Env{kb: u.kb.Snapshot(), tracer: cfg.tracer, cut: newCutBarrier(), depth: 0}
	scope := uint64(0) // the outermost query scope
	scoped := goal.scopeInto(scope)
	return scoped.Prove(ctx, EmptyResult(), env)
}

// Solution is an ordered variable-name -> Term mapping, insertion-ordered
// by the Vars slice given to Query, projecting a Result down to the
// bindings a caller asked to see.
type Solution = *orderedmap.OrderedMap[string, Term]

// QueryResult streams Solutions lazily from an underlying Stream of raw
// Results, projecting each one onto the requested variables as it is
// produced.
type QueryResult struct {
	stream  *Stream
	vars    []Variable
	limit   int
	yielded int
}

// Query proves goal and returns a QueryResult that lazily projects each
// solution onto vars (which must be scope-0 variables, i.e. as written by
// the caller — they are scoped into the query scope automatically).
func (u *Universe) Query(ctx context.Context, goal Goal, vars []Variable, opts ...QueryOption) *QueryResult {
	cfg := u.resolveConfig(opts)
	scopedVars := make([]Variable, len(vars))
	for i, v := range vars {
		scopedVars[i] = scopeTerm(v, 0).(Variable)
	}
	return &QueryResult{stream: u.Prove(ctx, goal, opts...), vars: scopedVars, limit: cfg.limit}
}

// Next returns the next Solution, or ok=false once the query is
// exhausted, cancelled, or (with Limit set) its solution cap is reached.
func (qr *QueryResult) Next(ctx context.Context) (Solution, bool) {
	if qr.limit > 0 && qr.yielded >= qr.limit {
		qr.stream.Cancel()
		return nil, false
	}
	r, ok := qr.stream.Next(ctx)
	if !ok {
		return nil, false
	}
	qr.yielded++
	sol := orderedmap.New[string, Term]()
	for _, v := range qr.vars {
		sol.Set(v.Name, r.Resolve(v))
	}
	return sol, true
}

// Close abandons the query, releasing its goroutine even if it has not
// been fully drained.
func (qr *QueryResult) Close() {
	qr.stream.Cancel()
}

// Ok reports whether goal has at least one solution, draining at most one
// result and then releasing the query.
func (u *Universe) Ok(ctx context.Context, goal Goal, opts ...QueryOption) bool {
	s := u.Prove(ctx, goal, opts...)
	defer s.Cancel()
	_, ok := s.Next(ctx)
	return ok
}
