package prolog

import "github.com/sirupsen/logrus"

// Tracer observes resolution as it happens: every goal entered and exited,
// plus free-form diagnostic messages from the resolver, behind an
// interface so a host can plug in its own sink.
type Tracer interface {
	Enter(depth int, goal Goal, r *Result)
	Exit(depth int, goal Goal, r *Result, ok bool)
	Message(depth int, format string, args ...any)
}

// NoopTracer discards every event. It is the default Tracer, making tracing
// a zero-cost no-op when not requested.
type NoopTracer struct{}

func (NoopTracer) Enter(int, Goal, *Result)      {}
func (NoopTracer) Exit(int, Goal, *Result, bool) {}
func (NoopTracer) Message(int, string, ...any)   {}

// VerboseTracer renders each event as a log line through logrus, indented
// by resolution depth, following the pack's convention (amimart-prolog,
// dolthub-go-mysql-server, hashicorp-nomad) of using logrus for structured
// runtime diagnostics rather than bare fmt.Printf.
type VerboseTracer struct {
	Log *logrus.Logger
}

// NewVerboseTracer returns a VerboseTracer logging to a fresh
// logrus.Logger at Debug level.
func NewVerboseTracer() *VerboseTracer {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	return &VerboseTracer{Log: log}
}

func (t *VerboseTracer) indent(depth int) string {
	pad := make([]byte, depth*2)
	for i := range pad {
		pad[i] = ' '
	}
	return string(pad)
}

func (t *VerboseTracer) Enter(depth int, goal Goal, r *Result) {
	t.Log.WithFields(logrus.Fields{"depth": depth, "goal": goal.String()}).
		Debugf("%senter %s", t.indent(depth), goal.String())
}

func (t *VerboseTracer) Exit(depth int, goal Goal, r *Result, ok bool) {
	t.Log.WithFields(logrus.Fields{"depth": depth, "goal": goal.String(), "ok": ok}).
		Debugf("%sexit %s (%v)", t.indent(depth), goal.String(), ok)
}

func (t *VerboseTracer) Message(depth int, format string, args ...any) {
	t.Log.Debugf("%s"+format, append([]any{t.indent(depth)}, args...)...)
}
