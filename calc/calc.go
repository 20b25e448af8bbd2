// Package calc implements a small arithmetic expression language on
// top of the grammar and parse packages. It doubles as the reference
// consumer of a finished token queue: evaluation walks the queue
// through the parser's queue index instead of building a tree first.
package calc

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dhamidi/rdp/grammar"
	"github.com/dhamidi/rdp/parse"
)

// Calculator parses and evaluates arithmetic expressions with the
// usual precedences; exponentiation is right-associative.
type Calculator struct {
	set *grammar.Set
}

func New() (*Calculator, error) {
	g := grammar.New("calc")

	g.Silent("calculation", grammar.Seq(grammar.Ref("expression"), grammar.EOI()))
	g.Silent("expression", grammar.Infix(grammar.Ref("primary"),
		grammar.Operator{Name: "add", Literal: "+", Prec: 1},
		grammar.Operator{Name: "subtract", Literal: "-", Prec: 1},
		grammar.Operator{Name: "multiply", Literal: "*", Prec: 2},
		grammar.Operator{Name: "divide", Literal: "/", Prec: 2},
		grammar.Operator{Name: "power", Literal: "^", Prec: 3, RightAssoc: true},
	))
	g.Silent("primary", grammar.Choice(
		grammar.Ref("number"),
		grammar.Seq(grammar.Str("("), grammar.Ref("expression"), grammar.Str(")")),
	))
	g.Atomic("number", grammar.Seq(
		grammar.Opt(grammar.Str("-")),
		grammar.OneOrMore(grammar.Range('0', '9')),
		grammar.Opt(grammar.Seq(grammar.Str("."), grammar.OneOrMore(grammar.Range('0', '9')))),
	))
	g.Silent("whitespace", grammar.Choice(grammar.Str(" "), grammar.Str("\t"), grammar.Str("\n")))

	set, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile calc grammar: %w", err)
	}
	return &Calculator{set: set}, nil
}

func (c *Calculator) Set() *grammar.Set {
	return c.set
}

// Parse parses text as a complete expression. The returned parser
// holds the token queue; on failure the error is a
// *grammar.ParseError.
func (c *Calculator) Parse(text string) (*parse.Parser, error) {
	return c.set.ParseString("calculation", text)
}

// Eval parses and evaluates text.
func (c *Calculator) Eval(text string) (float64, error) {
	p, err := c.Parse(text)
	if err != nil {
		return 0, err
	}
	p.SetQueueIndex(0)
	value, err := c.eval(p)
	if err != nil {
		return 0, err
	}
	return value, nil
}

// eval consumes one expression from the queue, recursing for the two
// operands of an operator token. The queue is in parent-first order,
// so a single forward pass with the queue index suffices.
func (c *Calculator) eval(p *parse.Parser) (float64, error) {
	tok, ok := p.Queue().At(p.QueueIndex())
	if !ok {
		return 0, fmt.Errorf("expression ends unexpectedly")
	}
	p.IncQueueIndex()

	switch c.set.RuleName(tok.Rule) {
	case "number":
		value, err := strconv.ParseFloat(p.SliceInput(tok.Start, tok.End), 64)
		if err != nil {
			return 0, fmt.Errorf("number %q: %w", p.SliceInput(tok.Start, tok.End), err)
		}
		return value, nil
	case "add":
		return c.evalBinary(p, func(l, r float64) (float64, error) { return l + r, nil })
	case "subtract":
		return c.evalBinary(p, func(l, r float64) (float64, error) { return l - r, nil })
	case "multiply":
		return c.evalBinary(p, func(l, r float64) (float64, error) { return l * r, nil })
	case "divide":
		return c.evalBinary(p, func(l, r float64) (float64, error) {
			if r == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return l / r, nil
		})
	case "power":
		return c.evalBinary(p, func(l, r float64) (float64, error) { return math.Pow(l, r), nil })
	}
	return 0, fmt.Errorf("unexpected %s token in queue", c.set.RuleName(tok.Rule))
}

func (c *Calculator) evalBinary(p *parse.Parser, apply func(l, r float64) (float64, error)) (float64, error) {
	left, err := c.eval(p)
	if err != nil {
		return 0, err
	}
	right, err := c.eval(p)
	if err != nil {
		return 0, err
	}
	return apply(left, right)
}
