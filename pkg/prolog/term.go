package prolog

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd"
	"github.com/gitrdm/hornclause/pkg/prolog/arith"
)

// Term is the tagged variant at the root of the data model: every value the
// resolver manipulates — atoms, compounds, variables, evaluable
// expressions, and foreign constants — implements it. The set of
// implementations is closed (sealedTerm is unexported) so a type switch
// over Term is exhaustive by construction, per the "tagged variant with a
// single dispatcher" guidance for re-architecting dynamic dispatch in Go.
type Term interface {
	String() string
	sealedTerm()
}

// Atom is a nullary symbol.
type Atom struct {
	Name string
}

// NewAtom constructs an Atom.
func NewAtom(name string) Atom { return Atom{Name: name} }

func (a Atom) String() string { return a.Name }
func (Atom) sealedTerm()       {}

// Compound is a functor applied to one or more children. Its arity is
// len(Args).
type Compound struct {
	Name string
	Args []Term
}

// NewCompound constructs a Compound. It panics if called with no
// arguments — a functor with no children is an Atom, not a Compound.
func NewCompound(name string, args ...Term) Compound {
	if len(args) == 0 {
		panic(fmt.Sprintf("prolog: NewCompound(%q) needs at least one argument; use NewAtom", name))
	}
	return Compound{Name: name, Args: args}
}

func (c Compound) Arity() int { return len(c.Args) }

func (c Compound) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (Compound) sealedTerm() {}

// Variable is a named placeholder paired with a scope tag. Two variables
// are equal iff both Name and Scope match; Scope 0 denotes the outermost
// (query) scope. A Variable that has not yet been renamed into a scope
// (Scoped == false) is distinct from every scoped variable, including one
// with Scope == 0 — it is clause-source syntax, not yet a resolvable
// identity.
type Variable struct {
	Name   string
	Scope  uint64
	Scoped bool
}

// NewVar constructs an unscoped variable as it would appear in clause
// source, before the renaming discipline that assigns it an invocation
// scope.
func NewVar(name string) Variable { return Variable{Name: name} }

// Anon constructs a fresh anonymous variable. Each call produces a
// distinct identity (a fresh, already-scoped variable) so that two
// textual occurrences of "_" never unify with one another.
func Anon() Variable { return Variable{Name: "_", Scope: newScope(), Scoped: true} }

func (v Variable) String() string {
	if v.Scoped {
		return fmt.Sprintf("%s:%d", v.Name, v.Scope)
	}
	return v.Name
}

func (Variable) sealedTerm() {}

// key identifies a Variable for use as a map key.
func (v Variable) key() varKey { return varKey{Name: v.Name, Scope: v.Scope, Scoped: v.Scoped} }

type varKey struct {
	Name   string
	Scope  uint64
	Scoped bool
}

// EvalCompound is a Compound bearing a reference to an arithmetic operator
// of matching arity. It unifies structurally like any other compound (it
// embeds Compound) and is recognized only by the evaluator.
type EvalCompound struct {
	Compound
	Op arith.Operator
}

// NewEvalCompound builds an EvalCompound. It panics if the operator's
// arity does not match the number of children, since that mismatch can
// only be a construction bug (the constructors in this package always
// pass matching arities).
func NewEvalCompound(op arith.Operator, args ...Term) EvalCompound {
	if op.Arity != len(args) {
		panic(fmt.Sprintf("prolog: operator %q has arity %d, got %d arguments", op.Name, op.Arity, len(args)))
	}
	return EvalCompound{Compound: Compound{Name: op.Name, Args: args}, Op: op}
}

func (e EvalCompound) String() string {
	if e.Op.Arity == 2 {
		return "(" + e.Args[0].String() + " " + e.Name + " " + e.Args[1].String() + ")"
	}
	return e.Name + e.Args[0].String()
}

func (EvalCompound) sealedTerm() {}

// Constant wraps a foreign (host-language) value: an integer, an
// arbitrary-precision decimal, or a string. Equality is value equality.
type Constant struct {
	value any // *apd.Decimal (integers included) | string
}

// NewIntConstant wraps an integer.
func NewIntConstant(v int64) Constant { return Constant{value: apd.New(v, 0)} }

// NewDecimalConstant wraps an arbitrary-precision decimal directly.
func NewDecimalConstant(v *apd.Decimal) Constant { return Constant{value: v} }

// NewStringConstant wraps a string.
func NewStringConstant(v string) Constant { return Constant{value: v} }

// Decimal returns the wrapped value as a decimal and true, or false if the
// constant does not wrap a number.
func (c Constant) Decimal() (*apd.Decimal, bool) {
	d, ok := c.value.(*apd.Decimal)
	return d, ok
}

// Str returns the wrapped value as a string and true, or false if the
// constant does not wrap a string.
func (c Constant) Str() (string, bool) {
	s, ok := c.value.(string)
	return s, ok
}

func (c Constant) String() string {
	switch v := c.value.(type) {
	case *apd.Decimal:
		return v.String()
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (Constant) sealedTerm() {}

// Ground reports whether t contains no variables.
func Ground(t Term) bool {
	switch v := t.(type) {
	case Variable:
		return false
	case Compound:
		for _, c := range v.Args {
			if !Ground(c) {
				return false
			}
		}
		return true
	case EvalCompound:
		return Ground(v.Compound)
	default: // Atom, Constant
		return true
	}
}

// Equal reports whether a and b are syntactically identical terms
// (including variables with equal name and scope) — this is structural
// equality, not unifiability.
func Equal(a, b Term) bool {
	switch x := a.(type) {
	case Atom:
		y, ok := b.(Atom)
		return ok && x.Name == y.Name
	case Variable:
		y, ok := b.(Variable)
		return ok && x.key() == y.key()
	case Constant:
		y, ok := b.(Constant)
		if !ok {
			return false
		}
		switch xv := x.value.(type) {
		case *apd.Decimal:
			yv, ok := y.value.(*apd.Decimal)
			return ok && xv.Cmp(yv) == 0
		case string:
			yv, ok := y.value.(string)
			return ok && xv == yv
		default:
			return false
		}
	case EvalCompound:
		y, ok := b.(EvalCompound)
		return ok && x.Op.Name == y.Op.Name && equalCompound(x.Compound, y.Compound)
	case Compound:
		y, ok := b.(Compound)
		return ok && equalCompound(x, y)
	default:
		return false
	}
}

func equalCompound(x, y Compound) bool {
	if x.Name != y.Name || len(x.Args) != len(y.Args) {
		return false
	}
	for i := range x.Args {
		if !Equal(x.Args[i], y.Args[i]) {
			return false
		}
	}
	return true
}

// occursIn implements the occurs-check: does v appear anywhere inside t?
func occursIn(v Variable, t Term) bool {
	switch x := t.(type) {
	case Variable:
		return x.key() == v.key()
	case Compound:
		for _, c := range x.Args {
			if occursIn(v, c) {
				return true
			}
		}
		return false
	case EvalCompound:
		return occursIn(v, x.Compound)
	default: // Atom, Constant
		return false
	}
}

// substitute replaces every occurrence of v with repl throughout t. Used by
// the Martelli–Montanari "eliminate" rule.
func substitute(t Term, v Variable, repl Term) Term {
	switch x := t.(type) {
	case Variable:
		if x.key() == v.key() {
			return repl
		}
		return x
	case Compound:
		return Compound{Name: x.Name, Args: substituteChildren(x.Args, v, repl)}
	case EvalCompound:
		return EvalCompound{Compound: Compound{Name: x.Name, Args: substituteChildren(x.Args, v, repl)}, Op: x.Op}
	default: // Atom, Constant
		return t
	}
}

func substituteChildren(args []Term, v Variable, repl Term) []Term {
	out := make([]Term, len(args))
	for i, a := range args {
		out[i] = substitute(a, v, repl)
	}
	return out
}

// scopeTerm renames every unscoped Variable in t into scope, recursively.
// Atoms and Constants are invariant; a Variable that is already scoped is
// left alone, making the operation idempotent per term.
func scopeTerm(t Term, scope uint64) Term {
	switch x := t.(type) {
	case Variable:
		if x.Scoped {
			return x
		}
		return Variable{Name: x.Name, Scope: scope, Scoped: true}
	case Compound:
		return Compound{Name: x.Name, Args: scopeChildren(x.Args, scope)}
	case EvalCompound:
		return EvalCompound{Compound: Compound{Name: x.Name, Args: scopeChildren(x.Args, scope)}, Op: x.Op}
	default: // Atom, Constant
		return t
	}
}

func scopeChildren(args []Term, scope uint64) []Term {
	out := make([]Term, len(args))
	for i, a := range args {
		out[i] = scopeTerm(a, scope)
	}
	return out
}

func scopeTerms(ts []Term, scope uint64) []Term {
	return scopeChildren(ts, scope)
}
