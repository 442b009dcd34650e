// Package arith implements the arithmetic operator table used by the
// evaluation (←) and comparison (< ≤ > ≥) goals: unary + -, and binary
// + - * / // % ** << >>, over arbitrary-precision decimals rather than
// float64 so chained evaluations never lose precision.
//
// The @ operator named in the specification is deliberately left
// unregistered here: it is a user-extensible slot (mirroring the Python
// original's __matmul__ operator hook) that callers may bind to their own
// Operator when constructing an EvalCompound directly.
package arith

import (
	"fmt"

	"github.com/cockroachdb/apd"
)

// EvalException reports a failure to evaluate an arithmetic expression:
// division by zero, a non-numeric or non-integral operand where one is
// required, or an operator applied to the wrong number of operands.
type EvalException struct {
	Op  string
	Err error
}

func (e *EvalException) Error() string {
	return fmt.Sprintf("arithmetic evaluation of %q failed: %v", e.Op, e.Err)
}

func (e *EvalException) Unwrap() error { return e.Err }

// Operator is a reference to an arithmetic function of known arity. It is
// carried verbatim inside an EvalCompound term so the evaluator recognizes
// and folds it without re-dispatching on the operator's name.
type Operator struct {
	Name  string
	Arity int
	Apply func(args []*apd.Decimal) (*apd.Decimal, error)
}

var decCtx = apd.BaseContext.WithPrecision(50)

func binary(name string, f func(d, x, y *apd.Decimal) (apd.Condition, error)) Operator {
	return Operator{Name: name, Arity: 2, Apply: func(args []*apd.Decimal) (*apd.Decimal, error) {
		if len(args) != 2 {
			return nil, &EvalException{Op: name, Err: fmt.Errorf("expected 2 operands, got %d", len(args))}
		}
		d := new(apd.Decimal)
		if _, err := f(d, args[0], args[1]); err != nil {
			return nil, &EvalException{Op: name, Err: err}
		}
		return d, nil
	}}
}

func unary(name string, f func(d, x *apd.Decimal) (apd.Condition, error)) Operator {
	return Operator{Name: name, Arity: 1, Apply: func(args []*apd.Decimal) (*apd.Decimal, error) {
		if len(args) != 1 {
			return nil, &EvalException{Op: name, Err: fmt.Errorf("expected 1 operand, got %d", len(args))}
		}
		d := new(apd.Decimal)
		if _, err := f(d, args[0]); err != nil {
			return nil, &EvalException{Op: name, Err: err}
		}
		return d, nil
	}}
}

var zero = new(apd.Decimal)

// floorDivMod computes quotient and remainder with floor (Python-style)
// semantics: the remainder always carries the sign of the divisor.
func floorDivMod(op string, x, y *apd.Decimal) (quo, rem *apd.Decimal, err error) {
	if y.Cmp(zero) == 0 {
		return nil, nil, &EvalException{Op: op, Err: fmt.Errorf("division by zero")}
	}
	quo, rem = new(apd.Decimal), new(apd.Decimal)
	if _, err := decCtx.QuoInteger(quo, x, y); err != nil {
		return nil, nil, &EvalException{Op: op, Err: err}
	}
	if _, err := decCtx.Rem(rem, x, y); err != nil {
		return nil, nil, &EvalException{Op: op, Err: err}
	}
	if rem.Cmp(zero) != 0 && rem.Negative != y.Negative {
		if _, err := decCtx.Sub(quo, quo, apd.New(1, 0)); err != nil {
			return nil, nil, &EvalException{Op: op, Err: err}
		}
		if _, err := decCtx.Add(rem, rem, y); err != nil {
			return nil, nil, &EvalException{Op: op, Err: err}
		}
	}
	return quo, rem, nil
}

func shift(name string, f func(v, n int64) int64) Operator {
	return Operator{Name: name, Arity: 2, Apply: func(args []*apd.Decimal) (*apd.Decimal, error) {
		if len(args) != 2 {
			return nil, &EvalException{Op: name, Err: fmt.Errorf("expected 2 operands, got %d", len(args))}
		}
		v, err := args[0].Int64()
		if err != nil {
			return nil, &EvalException{Op: name, Err: fmt.Errorf("left operand must be an integer: %w", err)}
		}
		n, err := args[1].Int64()
		if err != nil {
			return nil, &EvalException{Op: name, Err: fmt.Errorf("right operand must be an integer: %w", err)}
		}
		if n < 0 {
			return nil, &EvalException{Op: name, Err: fmt.Errorf("negative shift amount %d", n)}
		}
		return new(apd.Decimal).SetInt64(f(v, n)), nil
	}}
}

// Operators usable directly as EvalCompound.Op values.
var (
	Add = binary("+", decCtx.Add)
	Sub = binary("-", decCtx.Sub)
	Mul = binary("*", decCtx.Mul)
	Div = binary("/", decCtx.Quo)
	Pow = binary("**", decCtx.Pow)

	Pos = unary("+", func(d, x *apd.Decimal) (apd.Condition, error) { d.Set(x); return 0, nil })
	Neg = unary("-", decCtx.Neg)
	Abs = unary("abs", decCtx.Abs)

	FloorDiv = Operator{Name: "//", Arity: 2, Apply: func(args []*apd.Decimal) (*apd.Decimal, error) {
		if len(args) != 2 {
			return nil, &EvalException{Op: "//", Err: fmt.Errorf("expected 2 operands, got %d", len(args))}
		}
		q, _, err := floorDivMod("//", args[0], args[1])
		return q, err
	}}

	Mod = Operator{Name: "%", Arity: 2, Apply: func(args []*apd.Decimal) (*apd.Decimal, error) {
		if len(args) != 2 {
			return nil, &EvalException{Op: "%", Err: fmt.Errorf("expected 2 operands, got %d", len(args))}
		}
		_, r, err := floorDivMod("%", args[0], args[1])
		return r, err
	}}

	Shl = shift("<<", func(v, n int64) int64 { return v << uint(n) })
	Shr = shift(">>", func(v, n int64) int64 { return v >> uint(n) })
)

// Max, Min and Abs are evaluated helper functions: ordinary Go functions
// wrapped as evaluated operators rather than infix syntax.
var (
	Max = binary("max", func(d, x, y *apd.Decimal) (apd.Condition, error) {
		if x.Cmp(y) >= 0 {
			d.Set(x)
		} else {
			d.Set(y)
		}
		return 0, nil
	})
	Min = binary("min", func(d, x, y *apd.Decimal) (apd.Condition, error) {
		if x.Cmp(y) <= 0 {
			d.Set(x)
		} else {
			d.Set(y)
		}
		return 0, nil
	})
)
