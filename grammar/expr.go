package grammar

import (
	"fmt"

	"github.com/dhamidi/rdp/parse"
)

// Expr describes one grammar expression. Expressions are assembled
// with the constructors below and compiled by Grammar.Compile into
// closures over a parse.Parser.
type Expr interface {
	compile(c *compiler) (matcher, error)
}

type matcher func(p *parse.Parser) bool

// skipPoint runs between sequence elements and before repetition
// iterations; inside atomic rules both calls are no-ops.
func skipPoint(p *parse.Parser) {
	p.SkipWS()
	p.SkipCom()
}

type strExpr struct {
	literal string
}

// Str matches the literal string s.
func Str(s string) Expr {
	return &strExpr{literal: s}
}

func (e *strExpr) compile(c *compiler) (matcher, error) {
	literal := e.literal
	return func(p *parse.Parser) bool {
		return p.MatchString(literal)
	}, nil
}

type rangeExpr struct {
	lo, hi rune
}

// Range matches one character in [lo, hi] inclusive.
func Range(lo, hi rune) Expr {
	return &rangeExpr{lo: lo, hi: hi}
}

func (e *rangeExpr) compile(c *compiler) (matcher, error) {
	if e.lo > e.hi {
		return nil, fmt.Errorf("character range %q..%q is empty", e.lo, e.hi)
	}
	lo, hi := e.lo, e.hi
	return func(p *parse.Parser) bool {
		return p.MatchRange(lo, hi)
	}, nil
}

type seqExpr struct {
	elems []Expr
}

// Seq matches every element in order, with whitespace and comment
// skipping between elements. A partial match is rolled back.
func Seq(elems ...Expr) Expr {
	return &seqExpr{elems: elems}
}

func (e *seqExpr) compile(c *compiler) (matcher, error) {
	if len(e.elems) == 0 {
		return nil, fmt.Errorf("empty sequence")
	}
	matchers, err := compileAll(c, e.elems)
	if err != nil {
		return nil, err
	}
	return func(p *parse.Parser) bool {
		return p.Attempt(false, func() bool {
			for i, m := range matchers {
				if i > 0 {
					skipPoint(p)
				}
				if !m(p) {
					return false
				}
			}
			return true
		})
	}, nil
}

type choiceExpr struct {
	alts []Expr
}

// Choice matches the first alternative that succeeds. Alternatives
// leave no trace when they fail, so later ones start from the same
// position.
func Choice(alts ...Expr) Expr {
	return &choiceExpr{alts: alts}
}

func (e *choiceExpr) compile(c *compiler) (matcher, error) {
	if len(e.alts) == 0 {
		return nil, fmt.Errorf("empty choice")
	}
	matchers, err := compileAll(c, e.alts)
	if err != nil {
		return nil, err
	}
	return func(p *parse.Parser) bool {
		for _, m := range matchers {
			if m(p) {
				return true
			}
		}
		return false
	}, nil
}

type optExpr struct {
	elem Expr
}

// Opt matches elem if possible and succeeds either way.
func Opt(elem Expr) Expr {
	return &optExpr{elem: elem}
}

func (e *optExpr) compile(c *compiler) (matcher, error) {
	m, err := e.elem.compile(c)
	if err != nil {
		return nil, err
	}
	return func(p *parse.Parser) bool {
		m(p)
		return true
	}, nil
}

type repExpr struct {
	elem Expr
	min  int
}

// ZeroOrMore matches elem as often as possible. A trailing attempt
// that fails, including any skipping it did, is rolled back.
func ZeroOrMore(elem Expr) Expr {
	return &repExpr{elem: elem}
}

// OneOrMore is ZeroOrMore with a mandatory first match.
func OneOrMore(elem Expr) Expr {
	return &repExpr{elem: elem, min: 1}
}

func (e *repExpr) compile(c *compiler) (matcher, error) {
	m, err := e.elem.compile(c)
	if err != nil {
		return nil, err
	}
	min := e.min
	return func(p *parse.Parser) bool {
		return p.Attempt(false, func() bool {
			if min > 0 && !m(p) {
				return false
			}
			for {
				if !p.Attempt(false, func() bool {
					skipPoint(p)
					return m(p)
				}) {
					break
				}
			}
			return true
		})
	}, nil
}

type notExpr struct {
	elem Expr
}

// Not is a negative lookahead: it succeeds when elem does not match
// and never consumes input.
func Not(elem Expr) Expr {
	return &notExpr{elem: elem}
}

func (e *notExpr) compile(c *compiler) (matcher, error) {
	m, err := e.elem.compile(c)
	if err != nil {
		return nil, err
	}
	return func(p *parse.Parser) bool {
		return p.Attempt(true, func() bool {
			return !m(p)
		})
	}, nil
}

type refExpr struct {
	name string
}

// Ref invokes the named rule. Rules may reference each other freely;
// names resolve when the grammar is compiled.
func Ref(name string) Expr {
	return &refExpr{name: name}
}

func (e *refExpr) compile(c *compiler) (matcher, error) {
	idx, ok := c.index[e.name]
	if !ok {
		return nil, fmt.Errorf("reference to unknown rule %q", e.name)
	}
	rules := c.set.rules
	return func(p *parse.Parser) bool {
		return rules[idx].match(p)
	}, nil
}

type anyExpr struct{}

// Any matches any single position, failing only at end of input.
func Any() Expr {
	return anyExpr{}
}

func (anyExpr) compile(c *compiler) (matcher, error) {
	return func(p *parse.Parser) bool {
		return p.Any()
	}, nil
}

type eoiExpr struct{}

// EOI matches the end of the input.
func EOI() Expr {
	return eoiExpr{}
}

func (eoiExpr) compile(c *compiler) (matcher, error) {
	return func(p *parse.Parser) bool {
		return p.EOI()
	}, nil
}

func compileAll(c *compiler, elems []Expr) ([]matcher, error) {
	matchers := make([]matcher, len(elems))
	for i, elem := range elems {
		m, err := elem.compile(c)
		if err != nil {
			return nil, err
		}
		matchers[i] = m
	}
	return matchers, nil
}
