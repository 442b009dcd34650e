package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/apd"
	"github.com/gitrdm/hornclause/pkg/prolog"
	"github.com/gitrdm/hornclause/pkg/prolog/arith"
)

// This file is a small, host-side reader turning program text into Term
// and Goal values — deliberately outside pkg/prolog, since tokenizing and
// parsing surface syntax is a REPL concern, not a resolution one.

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokAtom
	tokVar
	tokNumber
	tokString
	tokPunct
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '%':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case unicode.IsDigit(r):
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			toks = append(toks, token{tokNumber, string(runes[start:i])})
		case r == '_' || unicode.IsUpper(r):
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			toks = append(toks, token{tokVar, string(runes[start:i])})
		case unicode.IsLower(r):
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			toks = append(toks, token{tokAtom, string(runes[start:i])})
		case r == '"':
			start := i + 1
			i++
			for i < len(runes) && runes[i] != '"' {
				i++
			}
			if i >= len(runes) {
				return nil, fmt.Errorf("unterminated string literal")
			}
			toks = append(toks, token{tokString, string(runes[start:i])})
			i++
		default:
			two := ""
			if i+1 < len(runes) {
				two = string(runes[i : i+2])
			}
			switch two {
			case "<-", "<=", ">=", "//", "**", ":-":
				toks = append(toks, token{tokPunct, two})
				i += 2
				continue
			}
			toks = append(toks, token{tokPunct, string(r)})
			i++
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

// parser turns a token stream into Term/Goal values, tracking the
// unscoped Variable bound to each distinct name seen within one clause so
// repeated occurrences of the same name refer to the same Variable, per
// the renaming discipline pkg/prolog expects of its callers. varOrder
// records each name's first-seen position so a caller asking for every
// variable in source order (see ParseGoal) doesn't fall back to Go's
// randomized map iteration.
type parser struct {
	toks     []token
	pos      int
	vars     map[string]prolog.Variable
	varOrder []string
}

func newParser(src string) (*parser, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	return &parser{toks: toks, vars: map[string]prolog.Variable{}}, nil
}

func (p *parser) peek() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expectPunct(s string) error {
	t := p.advance()
	if t.kind != tokPunct || t.text != s {
		return fmt.Errorf("expected %q, got %q", s, t.text)
	}
	return nil
}

func (p *parser) variable(name string) prolog.Variable {
	if name == "_" {
		return prolog.Anon()
	}
	if v, ok := p.vars[name]; ok {
		return v
	}
	v := prolog.NewVar(name)
	p.vars[name] = v
	p.varOrder = append(p.varOrder, name)
	return v
}

// ParseClause reads one "head." or "head :- body." clause from src.
func ParseClause(src string) (prolog.Compound, prolog.Goal, error) {
	p, err := newParser(src)
	if err != nil {
		return prolog.Compound{}, nil, err
	}
	headTerm, err := p.parsePrimaryTerm()
	if err != nil {
		return prolog.Compound{}, nil, err
	}
	head, ok := headTerm.(prolog.Compound)
	if !ok {
		if a, ok := headTerm.(prolog.Atom); ok {
			head = prolog.Compound{Name: a.Name}
		} else {
			return prolog.Compound{}, nil, fmt.Errorf("clause head must be an atom or compound")
		}
	}

	if p.peek().kind == tokPunct && p.peek().text == ":-" {
		p.advance()
		body, err := p.parseDisjunction()
		if err != nil {
			return prolog.Compound{}, nil, err
		}
		if err := p.expectEnd(); err != nil {
			return prolog.Compound{}, nil, err
		}
		return head, body, nil
	}
	if err := p.expectEnd(); err != nil {
		return prolog.Compound{}, nil, err
	}
	return head, prolog.True(), nil
}

// ParseGoal reads a standalone query body from src (no head, optional
// trailing '.').
func ParseGoal(src string) (prolog.Goal, []prolog.Variable, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, nil, err
	}
	g, err := p.parseDisjunction()
	if err != nil {
		return nil, nil, err
	}
	vars := make([]prolog.Variable, 0, len(p.varOrder))
	for _, name := range p.varOrder {
		vars = append(vars, p.vars[name])
	}
	return g, vars, nil
}

func (p *parser) expectEnd() error {
	t := p.peek()
	if t.kind == tokPunct && t.text == "." {
		p.advance()
	}
	if p.peek().kind != tokEOF {
		return fmt.Errorf("unexpected trailing input near %q", p.peek().text)
	}
	return nil
}

func (p *parser) parseDisjunction() (prolog.Goal, error) {
	left, err := p.parseConjunction()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokPunct && p.peek().text == ";" {
		p.advance()
		right, err := p.parseConjunction()
		if err != nil {
			return nil, err
		}
		left = prolog.Or(left, right)
	}
	return left, nil
}

func (p *parser) parseConjunction() (prolog.Goal, error) {
	goals := []prolog.Goal{}
	g, err := p.parsePrimaryGoal()
	if err != nil {
		return nil, err
	}
	goals = append(goals, g)
	for p.peek().kind == tokPunct && p.peek().text == "," {
		p.advance()
		g, err := p.parsePrimaryGoal()
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return prolog.And(goals...), nil
}

func (p *parser) parsePrimaryGoal() (prolog.Goal, error) {
	t := p.peek()
	if t.kind == tokPunct && t.text == "!" {
		p.advance()
		return prolog.Cut(), nil
	}
	if t.kind == tokAtom && t.text == "not" {
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		inner, err := p.parseDisjunction()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return prolog.Not(inner), nil
	}
	if t.kind == tokPunct && t.text == "(" {
		p.advance()
		inner, err := p.parseDisjunction()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return inner, nil
	}

	left, err := p.parseArith()
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.kind == tokPunct {
		switch t.text {
		case "=":
			p.advance()
			right, err := p.parseArith()
			if err != nil {
				return nil, err
			}
			return prolog.Unify(left, right), nil
		case "<-":
			p.advance()
			right, err := p.parseArith()
			if err != nil {
				return nil, err
			}
			return prolog.Eval(left, right), nil
		case "<", "<=", ">", ">=":
			op := map[string]prolog.CmpOp{"<": prolog.Lt, "<=": prolog.Le, ">": prolog.Gt, ">=": prolog.Ge}[t.text]
			p.advance()
			right, err := p.parseArith()
			if err != nil {
				return nil, err
			}
			return prolog.Cmp(op, left, right), nil
		}
	}

	// A bare atom or compound used as a goal is a predicate call.
	switch x := left.(type) {
	case prolog.Atom:
		return prolog.Call(x.Name), nil
	case prolog.Compound:
		return prolog.Call(x.Name, x.Args...), nil
	default:
		return nil, fmt.Errorf("%s is not a valid goal", left.String())
	}
}

// parseArith parses +,- (lowest) over terms built from * and / (higher),
// leaving structural (non-evaluable) atoms and compounds untouched when no
// operator is present — a term like foo(X) parses straight through without
// being wrapped in an EvalCompound.
func (p *parser) parseArith() (prolog.Term, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokPunct {
			break
		}
		var op arith.Operator
		switch t.text {
		case "+":
			op = arith.Add
		case "-":
			op = arith.Sub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = prolog.NewEvalCompound(op, left, right)
	}
	return left, nil
}

func (p *parser) parseTerm() (prolog.Term, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokPunct {
			break
		}
		var op arith.Operator
		switch t.text {
		case "*":
			op = arith.Mul
		case "/":
			op = arith.Div
		case "//":
			op = arith.FloorDiv
		case "%":
			op = arith.Mod
		case "**":
			op = arith.Pow
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = prolog.NewEvalCompound(op, left, right)
	}
	return left, nil
}

func (p *parser) parseFactor() (prolog.Term, error) {
	t := p.peek()
	if t.kind == tokPunct && t.text == "-" {
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return prolog.NewEvalCompound(arith.Neg, operand), nil
	}
	return p.parsePrimaryTerm()
}

func (p *parser) parsePrimaryTerm() (prolog.Term, error) {
	t := p.advance()
	switch t.kind {
	case tokNumber:
		d, _, err := apd.NewFromString(t.text)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", t.text, err)
		}
		return prolog.NewDecimalConstant(d), nil
	case tokString:
		return prolog.NewStringConstant(t.text), nil
	case tokVar:
		return p.variable(t.text), nil
	case tokAtom:
		if p.peek().kind == tokPunct && p.peek().text == "(" {
			p.advance()
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return prolog.NewCompound(t.text, args...), nil
		}
		return prolog.NewAtom(t.text), nil
	case tokPunct:
		if t.text == "(" {
			inner, err := p.parseArith()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return inner, nil
		}
	}
	return nil, fmt.Errorf("unexpected token %q", t.text)
}

func (p *parser) parseArgList() ([]prolog.Term, error) {
	var args []prolog.Term
	if p.peek().kind == tokPunct && p.peek().text == ")" {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		t := p.advance()
		if t.kind == tokPunct && t.text == ")" {
			return args, nil
		}
		if t.kind != tokPunct || t.text != "," {
			return nil, fmt.Errorf("expected ',' or ')' in argument list, got %q", t.text)
		}
	}
}

// parseInt is a small helper used by the REPL's :limit directive.
func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
