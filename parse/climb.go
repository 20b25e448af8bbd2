package parse

// Op describes one recognized infix operator: the rule tag for the
// token it synthesizes (none when the operator is silent), its
// precedence, and its associativity.
type Op struct {
	Rule       RuleID
	HasRule    bool
	Prec       uint8
	RightAssoc bool
}

// PrecClimb resolves a run of infix operations by precedence climbing.
// The caller has already matched the left-most primary; queuePos is
// the queue index its token occupies and left is the position where
// its span starts. lastOp is an operator already consumed by a deeper
// climb but belonging to this level, or nil. primary matches one
// operand, pushing whatever tokens it produces. nextOp recognizes and
// consumes the next infix operator, or returns nil; it must leave the
// position untouched when no operator matches.
//
// While an operator with precedence at least minPrec is available,
// one operand is matched and further operators are inspected: a
// strictly greater precedence, or an equal precedence on a
// right-associative operator, climbs into a recursive call. Equal
// precedence on a left-associative operator stays with this level's
// loop, which is what produces left-leaning grouping. When a level
// finishes an operation it synthesizes the operator's token spanning
// [left, right edge] and inserts it at queuePos, in front of the
// operand tokens pushed after that index. The leftover operator, if
// any, belongs to a shallower level and is returned together with the
// right-most matched position (-1 when no operand was matched).
func (p *Parser) PrecClimb(queuePos, left int, minPrec uint8, lastOp *Op, primary func() bool, nextOp func() *Op) (*Op, int) {
	op := lastOp
	if op == nil {
		op = nextOp()
	}
	lastRight := -1

	for op != nil {
		if op.Prec < minPrec {
			return op, lastRight
		}
		prec := op.Prec
		rule := op.Rule
		hasRule := op.HasRule

		newPos := p.Pos()
		right := p.Pos()
		operandPos := p.queue.Len()

		primary()

		if tok, ok := p.queue.At(operandPos); ok {
			newPos = tok.Start
			right = tok.End
		}

		op = nextOp()

		for op != nil {
			if op.Prec > prec || op.RightAssoc && op.Prec == prec {
				var newRight int
				op, newRight = p.PrecClimb(operandPos, newPos, op.Prec, op, primary, nextOp)
				lastRight = newRight
			} else {
				break
			}
		}

		if lastRight >= 0 {
			if lastRight > right {
				right = lastRight
			}
		} else {
			lastRight = right
		}

		if hasRule {
			p.queue.InsertAt(queuePos, Token{Rule: rule, Start: left, End: right})
		}
	}

	return op, lastRight
}
