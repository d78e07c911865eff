package markers

import (
	"fmt"
	"strings"
	"unicode"
)

// Expr is a parsed selection expression. Eval receives a membership
// predicate so evaluation stays decoupled from the Set representation.
type Expr interface {
	Eval(has func(name string) bool) bool
}

type exprAnd struct{ left, right Expr }
type exprOr struct{ left, right Expr }
type exprNot struct{ inner Expr }
type exprIdent struct{ name string }

func (e exprAnd) Eval(has func(string) bool) bool   { return e.left.Eval(has) && e.right.Eval(has) }
func (e exprOr) Eval(has func(string) bool) bool    { return e.left.Eval(has) || e.right.Eval(has) }
func (e exprNot) Eval(has func(string) bool) bool   { return !e.inner.Eval(has) }
func (e exprIdent) Eval(has func(string) bool) bool { return has(e.name) }

type exprTrue struct{}

func (exprTrue) Eval(func(string) bool) bool { return true }

// Parse compiles a selection expression. Grammar, loosest binding first:
//
//	or   := and { ("or" | "||") and }
//	and  := not { ("and" | "&&") not }
//	not  := ("not" | "!") not | "(" or ")" | marker
//
// The empty expression parses to a match-everything expression.
func Parse(input string) (Expr, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return exprTrue{}, nil
	}
	p := &parser{toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("marker expression: unexpected %q after complete expression", p.toks[p.pos])
	}
	return e, nil
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek() == "or" || p.peek() == "||" {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = exprOr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek() == "and" || p.peek() == "&&" {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = exprAnd{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	switch t := p.peek(); t {
	case "not", "!":
		p.next()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil
	case "(":
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.next() != ")" {
			return nil, fmt.Errorf("marker expression: missing closing parenthesis")
		}
		return inner, nil
	case "", ")", "and", "&&", "or", "||":
		return nil, fmt.Errorf("marker expression: expected a marker name, got %q", t)
	default:
		p.next()
		return exprIdent{name: t}, nil
	}
}

func lex(input string) ([]string, error) {
	var toks []string
	runes := []rune(strings.TrimSpace(input))
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(' || r == ')' || r == '!':
			toks = append(toks, string(r))
			i++
		case r == '&' || r == '|':
			if i+1 >= len(runes) || runes[i+1] != r {
				return nil, fmt.Errorf("marker expression: stray %q at position %d", r, i)
			}
			toks = append(toks, string(r)+string(r))
			i += 2
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_' || runes[j] == '-') {
				j++
			}
			word := strings.ToLower(string(runes[i:j]))
			toks = append(toks, word)
			i = j
		default:
			return nil, fmt.Errorf("marker expression: invalid character %q at position %d", r, i)
		}
	}
	return toks, nil
}
