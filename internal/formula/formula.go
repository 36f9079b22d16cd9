// Package formula implements the boolean tag-formula language: parsing,
// canonical printing, and conjunctive-normal-form conversion used by views
// to filter the task database.
//
// Grammar (SP denotes a literal space):
//
//	formula   := unary ( ('&' formula_c) | ('|' formula_d) )?
//	formula_c forbids '|'; formula_d forbids '&' — mixing the two operators
//	at the same grouping level is a parse error; the user must parenthesize.
//	unary     := SP* ( var | '!' unary | '(' formula ')' ) SP*
//	var       := [A-Za-z][A-Za-z0-9_-]*
//
// Not binds tighter than And/Or.
package formula

import "strings"

// Formula is a boolean expression over named tag variables.
type Formula interface {
	formulaNode()
}

// Var references a tag by name.
type Var string

func (Var) formulaNode() {}

// Not negates a sub-formula.
type Not struct {
	X Formula
}

func (Not) formulaNode() {}

// And is the conjunction of two sub-formulas.
type And struct {
	L, R Formula
}

func (And) formulaNode() {}

// Or is the disjunction of two sub-formulas.
type Or struct {
	L, R Formula
}

func (Or) formulaNode() {}

// Equal reports whether a and b are structurally identical formulas.
func Equal(a, b Formula) bool {
	switch x := a.(type) {
	case Var:
		y, ok := b.(Var)
		return ok && x == y
	case Not:
		y, ok := b.(Not)
		return ok && Equal(x.X, y.X)
	case And:
		y, ok := b.(And)
		return ok && Equal(x.L, y.L) && Equal(x.R, y.R)
	case Or:
		y, ok := b.(Or)
		return ok && Equal(x.L, y.L) && Equal(x.R, y.R)
	default:
		return false
	}
}

// printCtx tells the printer what operator, if any, encloses the formula
// currently being rendered, so it knows whether an And/Or needs its own
// parentheses.
type printCtx int

const (
	ctxTop printCtx = iota
	ctxConj
	ctxDisj
)

// String renders f in canonical form: parenthesizing And under Or and Or
// under And, never parenthesizing Not over a Var or over another Not. The
// result round-trips through Parse.
func String(f Formula) string {
	var b strings.Builder
	render(&b, f, ctxTop)
	return b.String()
}

func render(b *strings.Builder, f Formula, ctx printCtx) {
	switch v := f.(type) {
	case Var:
		b.WriteString(string(v))
	case Not:
		b.WriteByte('!')
		_, isVar := v.X.(Var)
		_, isNot := v.X.(Not)
		group := !isVar && !isNot
		if group {
			b.WriteByte('(')
		}
		render(b, v.X, ctx)
		if group {
			b.WriteByte(')')
		}
	case And:
		group := ctx == ctxDisj
		if group {
			b.WriteByte('(')
		}
		render(b, v.L, ctxConj)
		b.WriteString(" & ")
		render(b, v.R, ctxConj)
		if group {
			b.WriteByte(')')
		}
	case Or:
		group := ctx == ctxConj
		if group {
			b.WriteByte('(')
		}
		render(b, v.L, ctxDisj)
		b.WriteString(" | ")
		render(b, v.R, ctxDisj)
		if group {
			b.WriteByte(')')
		}
	}
}

// ParseError reports the unparsed suffix at which parsing stalled.
type ParseError struct {
	Rest string
}

func (e *ParseError) Error() string {
	return "failed to parse formula starting at `" + e.Rest + "`"
}

// Parse parses s into a Formula. On failure the returned error is a
// *ParseError naming the unparsed remainder.
func Parse(s string) (Formula, error) {
	rest, f, ok := parseFormula(s, ctxTop)
	if !ok {
		return nil, &ParseError{Rest: s}
	}
	if rest != "" {
		return nil, &ParseError{Rest: rest}
	}
	return f, nil
}

func isVarStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isVarCont(c byte) bool {
	return isVarStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func parseVar(input string) (rest string, v Var, ok bool) {
	if len(input) == 0 || !isVarStart(input[0]) {
		return input, "", false
	}
	end := 1
	for end < len(input) && isVarCont(input[end]) {
		end++
	}
	return input[end:], Var(input[:end]), true
}

func skipSpaces(input string) string {
	i := 0
	for i < len(input) && input[i] == ' ' {
		i++
	}
	return input[i:]
}

func parseUnary(input string) (rest string, f Formula, ok bool) {
	input = skipSpaces(input)

	if r, v, vok := parseVar(input); vok {
		return skipSpaces(r), v, true
	}

	if strings.HasPrefix(input, "!") {
		r, inner, iok := parseUnary(input[1:])
		if !iok {
			return input, nil, false
		}
		return skipSpaces(r), Not{X: inner}, true
	}

	if strings.HasPrefix(input, "(") {
		r, inner, iok := parseFormula(input[1:], ctxTop)
		if !iok || !strings.HasPrefix(r, ")") {
			return input, nil, false
		}
		return skipSpaces(r[1:]), inner, true
	}

	return input, nil, false
}

// parseFormula parses input under the given context, which restricts which
// binary operator may follow the leading unary term: ctxConj forbids a
// trailing '|', ctxDisj forbids a trailing '&', ctxTop allows either.
func parseFormula(input string, ctx printCtx) (rest string, f Formula, ok bool) {
	rest1, f1, ok1 := parseUnary(input)
	if !ok1 {
		return input, nil, false
	}

	tryAnd := func() (string, Formula, bool) {
		if !strings.HasPrefix(rest1, "&") {
			return "", nil, false
		}
		r2, f2, ok2 := parseFormula(rest1[1:], ctxConj)
		if !ok2 {
			return "", nil, false
		}
		return r2, And{L: f1, R: f2}, true
	}
	tryOr := func() (string, Formula, bool) {
		if !strings.HasPrefix(rest1, "|") {
			return "", nil, false
		}
		r2, f2, ok2 := parseFormula(rest1[1:], ctxDisj)
		if !ok2 {
			return "", nil, false
		}
		return r2, Or{L: f1, R: f2}, true
	}

	switch ctx {
	case ctxConj:
		if r, f2, ok2 := tryAnd(); ok2 {
			return r, f2, true
		}
	case ctxDisj:
		if r, f2, ok2 := tryOr(); ok2 {
			return r, f2, true
		}
	default:
		if r, f2, ok2 := tryAnd(); ok2 {
			return r, f2, true
		}
		if r, f2, ok2 := tryOr(); ok2 {
			return r, f2, true
		}
	}
	return rest1, f1, true
}
