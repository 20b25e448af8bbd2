package grammar

import (
	"fmt"

	"github.com/dhamidi/rdp/parse"
)

// Operator declares one infix operator for an Infix expression.
// Name is the rule name for the token synthesized around each use of
// the operator; an empty Name makes the operator silent. Higher Prec
// binds tighter. Operators are tried in declaration order, so a
// literal that prefixes another ("<" and "<=") must come after it.
type Operator struct {
	Name       string
	Literal    string
	Prec       uint8
	RightAssoc bool
}

type infixExpr struct {
	primary Expr
	ops     []Operator
}

// Infix matches primary operands joined by the given operators,
// resolved by precedence climbing. Each non-silent operator inserts a
// token wrapping the tokens of both its operands.
func Infix(primary Expr, ops ...Operator) Expr {
	return &infixExpr{primary: primary, ops: ops}
}

func (e *infixExpr) compile(c *compiler) (matcher, error) {
	if len(e.ops) == 0 {
		return nil, fmt.Errorf("infix expression without operators")
	}
	primary, err := e.primary.compile(c)
	if err != nil {
		return nil, err
	}

	ops := make([]parse.Op, len(e.ops))
	literals := make([]string, len(e.ops))
	for i, decl := range e.ops {
		if decl.Literal == "" {
			return nil, fmt.Errorf("operator %d has no literal", i)
		}
		if decl.Prec == 0 {
			return nil, fmt.Errorf("operator %q has precedence 0", decl.Literal)
		}
		op := parse.Op{Prec: decl.Prec, RightAssoc: decl.RightAssoc}
		if decl.Name != "" {
			op.Rule = c.ruleID(decl.Name)
			op.HasRule = true
		}
		ops[i] = op
		literals[i] = decl.Literal
	}

	return func(p *parse.Parser) bool {
		queuePos := p.Queue().Len()
		left := p.Pos()

		if !primary(p) {
			return false
		}
		if tok, ok := p.Queue().At(queuePos); ok {
			left = tok.Start
		}

		nextOp := func() *parse.Op {
			for i := range ops {
				literal := literals[i]
				matched := p.Attempt(false, func() bool {
					skipPoint(p)
					return p.MatchString(literal)
				})
				if matched {
					return &ops[i]
				}
			}
			return nil
		}

		p.PrecClimb(queuePos, left, 1, nil, func() bool {
			return p.Attempt(false, func() bool {
				skipPoint(p)
				return primary(p)
			})
		}, nextOp)

		return true
	}, nil
}
