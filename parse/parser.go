package parse

import "sort"

// Parser is a backtracking recursive-descent engine over one Input.
// Rule bodies are ordinary functions composed from the primitive
// matchers and Attempt; the parser owns the token queue, the furthest
// failure summary, and the whitespace/comment/atomic flags. One
// instance serves one goroutine and one input; Reset prepares it for
// a fresh attempt over the same input.
type Parser struct {
	input      Input
	queue      Queue
	queueIndex int
	failures   []RuleID
	failPos    int
	atomic     bool
	inComment  bool
	eoiMatched bool
	whitespace func(*Parser) bool
	comment    func(*Parser) bool
}

func New(input Input) *Parser {
	return &Parser{input: input}
}

// SetWhitespaceRule installs the recognizer SkipWS loops over. A nil
// recognizer makes SkipWS a no-op.
func (p *Parser) SetWhitespaceRule(rule func(*Parser) bool) {
	p.whitespace = rule
}

// SetCommentRule installs the recognizer SkipCom loops over. A nil
// recognizer makes SkipCom a no-op.
func (p *Parser) SetCommentRule(rule func(*Parser) bool) {
	p.comment = rule
}

// MatchString matches s at the current position, advancing past it on
// success.
func (p *Parser) MatchString(s string) bool {
	return p.input.MatchString(s)
}

// MatchRange matches one character in [lo, hi], advancing past it on
// success.
func (p *Parser) MatchRange(lo, hi rune) bool {
	return p.input.MatchRange(lo, hi)
}

// Attempt runs rule and rolls back on failure. The two kinds of state
// roll back on different conditions: the queue is truncated only when
// rule fails, while the position is restored when rule fails or when
// revert is true. Every alternative, optional, and repetition
// construct is built from this one primitive.
func (p *Parser) Attempt(revert bool, rule func() bool) bool {
	pos := p.input.Pos()
	n := p.queue.Len()

	ok := rule()

	if revert || !ok {
		p.input.SetPos(pos)
	}
	if !ok {
		p.queue.Truncate(n)
	}
	return ok
}

// Any matches any single position, failing only at end of input.
func (p *Parser) Any() bool {
	if p.End() {
		p.Track(RuleAny, p.Pos())
		return false
	}
	p.SetPos(p.Pos() + 1)
	return true
}

// EOI succeeds only at end of input and records that end of input was
// explicitly matched.
func (p *Parser) EOI() bool {
	if !p.End() {
		p.Track(RuleEOI, p.Pos())
		return false
	}
	p.eoiMatched = true
	return true
}

func (p *Parser) Pos() int {
	return p.input.Pos()
}

func (p *Parser) SetPos(pos int) {
	p.input.SetPos(pos)
}

func (p *Parser) End() bool {
	return p.input.Pos() == p.input.Len()
}

func (p *Parser) EOIMatched() bool {
	return p.eoiMatched
}

// Reset returns the parser to its initial state without discarding
// the input.
func (p *Parser) Reset() {
	p.input.SetPos(0)
	p.queue.Truncate(0)
	p.failures = p.failures[:0]
	p.failPos = 0
}

func (p *Parser) SliceInput(start, end int) string {
	return p.input.Slice(start, end)
}

func (p *Parser) Queue() *Queue {
	return &p.queue
}

// QueueIndex is a cursor for consumers walking the finished queue. It
// is independent of the queue contents so tree walkers can traverse
// the same queue repeatedly.
func (p *Parser) QueueIndex() int {
	return p.queueIndex
}

func (p *Parser) IncQueueIndex() {
	p.queueIndex++
}

func (p *Parser) SetQueueIndex(index int) {
	p.queueIndex = index
}

// SkipWS consumes whitespace by invoking the whitespace recognizer
// until it fails. No-op inside atomic rules.
func (p *Parser) SkipWS() {
	if p.atomic || p.whitespace == nil {
		return
	}
	for p.whitespace(p) {
	}
}

// SkipCom consumes comments by invoking the comment recognizer until
// it fails. No-op inside atomic rules. A comment rule that itself
// reaches a skip point must not trigger nested comment skipping, so
// re-entry is guarded.
func (p *Parser) SkipCom() {
	if p.atomic || p.comment == nil {
		return
	}
	if p.inComment {
		return
	}
	p.inComment = true
	for p.comment(p) {
	}
	p.inComment = false
}

func (p *Parser) IsAtomic() bool {
	return p.atomic
}

// SetAtomic toggles atomic mode, which bars whitespace and comment
// skipping as well as failure tracking.
func (p *Parser) SetAtomic(value bool) {
	p.atomic = value
}

// Track records that rule failed at pos. Only failures at the deepest
// position seen since the last Reset are kept: a deeper failure
// replaces the set, an equally deep one joins it, a shallower one is
// ignored.
func (p *Parser) Track(failed RuleID, pos int) {
	if p.atomic {
		return
	}
	if len(p.failures) == 0 {
		p.failures = append(p.failures, failed)
		p.failPos = pos
		return
	}
	switch {
	case pos == p.failPos:
		p.failures = append(p.failures, failed)
	case pos > p.failPos:
		p.failures = p.failures[:0]
		p.failures = append(p.failures, failed)
		p.failPos = pos
	}
}

func (p *Parser) TrackedLen() int {
	return len(p.failures)
}

// Expected reports the rules that failed at the deepest position
// reached, sorted and deduplicated, along with that position. It is
// idempotent; callers turn the pair into an "expected one of {rules}
// at {pos}" message.
func (p *Parser) Expected() ([]RuleID, int) {
	sort.Slice(p.failures, func(i, j int) bool {
		return p.failures[i] < p.failures[j]
	})
	deduped := p.failures[:0]
	for i, rule := range p.failures {
		if i == 0 || rule != p.failures[i-1] {
			deduped = append(deduped, rule)
		}
	}
	p.failures = deduped

	expected := make([]RuleID, len(p.failures))
	copy(expected, p.failures)
	return expected, p.failPos
}
