package grammar

import (
	"fmt"

	"github.com/dhamidi/rdp/parse"
)

// Mode controls what a rule contributes beyond matching: a normal
// rule records a token for its span, a silent rule records nothing,
// and an atomic rule records a token but disables whitespace and
// comment skipping and failure tracking for its interior.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSilent
	ModeAtomic
)

// WhitespaceRule and CommentRule are recognized by name: rules so
// named are wired into the parser's skip hooks instead of being
// called like ordinary rules, and must be declared silent.
const (
	WhitespaceRule = "whitespace"
	CommentRule    = "comment"
)

type ruleDef struct {
	name string
	mode Mode
	expr Expr
}

// Grammar collects rule definitions before compilation.
type Grammar struct {
	name  string
	rules []ruleDef
}

func New(name string) *Grammar {
	return &Grammar{name: name}
}

// Rule declares a token-producing rule.
func (g *Grammar) Rule(name string, expr Expr) *Grammar {
	g.rules = append(g.rules, ruleDef{name: name, mode: ModeNormal, expr: expr})
	return g
}

// Silent declares a rule that produces no token of its own. Its
// sub-rules still may.
func (g *Grammar) Silent(name string, expr Expr) *Grammar {
	g.rules = append(g.rules, ruleDef{name: name, mode: ModeSilent, expr: expr})
	return g
}

// Atomic declares a token-producing rule whose interior is matched
// without whitespace or comment skipping and without failure
// tracking.
func (g *Grammar) Atomic(name string, expr Expr) *Grammar {
	g.rules = append(g.rules, ruleDef{name: name, mode: ModeAtomic, expr: expr})
	return g
}

type compiledRule struct {
	name  string
	mode  Mode
	id    parse.RuleID
	hasID bool
	match matcher
}

// Set is a compiled grammar: every rule resolved to a closure over a
// parse.Parser, plus the name table for rule identifiers.
type Set struct {
	name    string
	rules   []*compiledRule
	index   map[string]int
	names   []string // indexed by parse.RuleID
	nameIDs map[string]parse.RuleID
}

type compiler struct {
	set   *Set
	index map[string]int
}

// ruleID returns the identifier registered for name, allocating one
// if needed. Identifiers start at parse.FirstUserRule; the built-in
// any and eoi rules own the slots below it.
func (c *compiler) ruleID(name string) parse.RuleID {
	if id, ok := c.set.nameIDs[name]; ok {
		return id
	}
	id := parse.RuleID(len(c.set.names))
	c.set.names = append(c.set.names, name)
	c.set.nameIDs[name] = id
	return id
}

// Compile resolves every rule reference and produces the closures the
// engine runs. Rules named whitespace and comment become the skip
// recognizers and are compiled without skip points of their own.
func (g *Grammar) Compile() (*Set, error) {
	set := &Set{
		name:    g.name,
		index:   make(map[string]int),
		names:   make([]string, parse.FirstUserRule),
		nameIDs: make(map[string]parse.RuleID),
	}
	set.names[parse.RuleAny] = "any"
	set.names[parse.RuleEOI] = "eoi"
	set.nameIDs["any"] = parse.RuleAny
	set.nameIDs["eoi"] = parse.RuleEOI

	c := &compiler{set: set, index: set.index}

	for i, def := range g.rules {
		if def.name == "" {
			return nil, fmt.Errorf("rule %d has no name", i)
		}
		if def.name == "any" || def.name == "eoi" {
			return nil, fmt.Errorf("rule name %q is reserved", def.name)
		}
		if _, ok := set.index[def.name]; ok {
			return nil, fmt.Errorf("rule %q declared twice", def.name)
		}
		if (def.name == WhitespaceRule || def.name == CommentRule) && def.mode != ModeSilent {
			return nil, fmt.Errorf("rule %q must be silent", def.name)
		}
		rule := &compiledRule{name: def.name, mode: def.mode}
		if def.mode != ModeSilent {
			rule.id = c.ruleID(def.name)
			rule.hasID = true
		}
		set.index[def.name] = i
		set.rules = append(set.rules, rule)
	}

	for i, def := range g.rules {
		body, err := def.expr.compile(c)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", def.name, err)
		}
		set.rules[i].match = compileRule(set.rules[i], body)
	}

	return set, nil
}

// compileRule wraps a rule body with the span, token, and failure
// bookkeeping shared by all rules. Skipping runs before the start
// position is recorded, so token spans exclude leading whitespace.
// A rule reports its own failure only when nothing deeper tracked one
// during its body, which keeps diagnostics to the leaf rules that
// actually stopped the parse.
func compileRule(rule *compiledRule, body matcher) matcher {
	if rule.name == WhitespaceRule || rule.name == CommentRule {
		// Skip recognizers run inside SkipWS/SkipCom; a skip point
		// here would recurse.
		return func(p *parse.Parser) bool {
			return p.Attempt(false, func() bool { return body(p) })
		}
	}

	switch rule.mode {
	case ModeSilent:
		return func(p *parse.Parser) bool {
			skipPoint(p)
			return p.Attempt(false, func() bool { return body(p) })
		}
	case ModeAtomic:
		id := rule.id
		return func(p *parse.Parser) bool {
			skipPoint(p)
			pos := p.Pos()
			queuePos := p.Queue().Len()
			tracked := p.TrackedLen()

			wasAtomic := p.IsAtomic()
			p.SetAtomic(true)
			ok := p.Attempt(false, func() bool { return body(p) })
			p.SetAtomic(wasAtomic)

			if ok {
				p.Queue().InsertAt(queuePos, parse.Token{Rule: id, Start: pos, End: p.Pos()})
			} else if p.TrackedLen() == tracked {
				p.Track(id, pos)
			}
			return ok
		}
	default:
		id := rule.id
		return func(p *parse.Parser) bool {
			skipPoint(p)
			pos := p.Pos()
			queuePos := p.Queue().Len()
			tracked := p.TrackedLen()

			ok := p.Attempt(false, func() bool { return body(p) })

			if ok {
				p.Queue().InsertAt(queuePos, parse.Token{Rule: id, Start: pos, End: p.Pos()})
			} else if p.TrackedLen() == tracked {
				p.Track(id, pos)
			}
			return ok
		}
	}
}

func (s *Set) Name() string {
	return s.name
}

// RuleName resolves a rule identifier to its declared name.
func (s *Set) RuleName(id parse.RuleID) string {
	if int(id) < 0 || int(id) >= len(s.names) {
		return fmt.Sprintf("rule(%d)", int(id))
	}
	return s.names[id]
}

// NewParser binds a parser to input with this grammar's whitespace
// and comment recognizers installed.
func (s *Set) NewParser(input parse.Input) *parse.Parser {
	p := parse.New(input)
	if i, ok := s.index[WhitespaceRule]; ok {
		rule := s.rules[i]
		p.SetWhitespaceRule(func(p *parse.Parser) bool { return rule.match(p) })
	}
	if i, ok := s.index[CommentRule]; ok {
		rule := s.rules[i]
		p.SetCommentRule(func(p *parse.Parser) bool { return rule.match(p) })
	}
	return p
}

// Match runs the named rule against the parser's current state.
func (s *Set) Match(p *parse.Parser, rule string) (bool, error) {
	i, ok := s.index[rule]
	if !ok {
		return false, fmt.Errorf("unknown rule %q", rule)
	}
	return s.rules[i].match(p), nil
}

// ParseString parses text with the named rule. On failure the
// returned error is a *ParseError carrying the expected rule names at
// the deepest position reached.
func (s *Set) ParseString(rule, text string) (*parse.Parser, error) {
	p := s.NewParser(parse.NewStringInput(text))
	ok, err := s.Match(p, rule)
	if err != nil {
		return nil, err
	}
	if !ok {
		return p, s.expectedError(p)
	}
	return p, nil
}

func (s *Set) expectedError(p *parse.Parser) *ParseError {
	ids, pos := p.Expected()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = s.RuleName(id)
	}
	return &ParseError{Grammar: s.name, Expected: names, Pos: pos}
}
