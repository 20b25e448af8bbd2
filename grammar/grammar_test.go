package grammar

import (
	"testing"

	"github.com/dhamidi/rdp/parse"
)

// parenGrammar mirrors the classic balanced-paren grammar: expression
// is silent, paren produces tokens, whitespace and comment rules are
// wired into the skip hooks.
func parenGrammar(t *testing.T) *Set {
	t.Helper()

	g := New("paren")
	g.Silent("expression", Seq(Ref("paren"), Opt(Ref("expression"))))
	g.Rule("paren", Seq(Str("("), Opt(Ref("expression")), Str(")")))
	g.Rule("zero", ZeroOrMore(Str("a")))
	g.Rule("one", OneOrMore(Str("a")))
	g.Silent("comment", Seq(Str("//"), ZeroOrMore(Seq(Not(Str("\n")), Any())), Str("\n")))
	g.Silent("whitespace", Str(" "))

	set, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return set
}

func queueOf(t *testing.T, set *Set, p *parse.Parser) []string {
	t.Helper()

	var out []string
	for _, tok := range p.Queue().Tokens() {
		out = append(out, set.RuleName(tok.Rule))
	}
	return out
}

func checkQueue(t *testing.T, set *Set, p *parse.Parser, want []parse.Token) {
	t.Helper()

	got := p.Queue().Tokens()
	if len(got) != len(want) {
		t.Fatalf("queue has %d tokens %v, want %d", len(got), queueOf(t, set, p), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s[%d-%d], want %s[%d-%d]",
				i,
				set.RuleName(got[i].Rule), got[i].Start, got[i].End,
				set.RuleName(want[i].Rule), want[i].Start, want[i].End)
		}
	}
}

func TestBalancedParens(t *testing.T) {
	set := parenGrammar(t)

	p, err := set.ParseString("expression", "(())((())())()")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if !p.End() {
		t.Errorf("End() = false, want true; Pos() = %d", p.Pos())
	}
}

func TestParensWithWhitespace(t *testing.T) {
	set := parenGrammar(t)

	p, err := set.ParseString("expression", "  (  ( ))(( () )() )() ")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if p.End() {
		t.Error("End() = true, want false; trailing space is not consumed")
	}

	paren := set.nameIDs["paren"]
	checkQueue(t, set, p, []parse.Token{
		{Rule: paren, Start: 2, End: 9},
		{Rule: paren, Start: 5, End: 8},
		{Rule: paren, Start: 9, End: 20},
		{Rule: paren, Start: 10, End: 16},
		{Rule: paren, Start: 12, End: 14},
		{Rule: paren, Start: 16, End: 18},
		{Rule: paren, Start: 20, End: 22},
	})
}

func TestRepetitionSkipsWhitespace(t *testing.T) {
	set := parenGrammar(t)

	for _, rule := range []string{"zero", "one"} {
		t.Run(rule, func(t *testing.T) {
			p, err := set.ParseString(rule, "  a a aa aaaa a  ")
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			if p.End() {
				t.Error("End() = true, want false")
			}

			checkQueue(t, set, p, []parse.Token{
				{Rule: set.nameIDs[rule], Start: 2, End: 15},
			})
		})
	}
}

func TestCommentSkipping(t *testing.T) {
	set := parenGrammar(t)

	p, err := set.ParseString("expression", "// hi\n(())")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if !p.End() {
		t.Errorf("End() = false, want true; Pos() = %d", p.Pos())
	}

	paren := set.nameIDs["paren"]
	checkQueue(t, set, p, []parse.Token{
		{Rule: paren, Start: 6, End: 10},
		{Rule: paren, Start: 7, End: 9},
	})
}

func TestCommentAndWhitespaceSkipping(t *testing.T) {
	set := parenGrammar(t)

	p, err := set.ParseString("expression", "   // hi\n  (())")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if !p.End() {
		t.Errorf("End() = false, want true; Pos() = %d", p.Pos())
	}

	paren := set.nameIDs["paren"]
	checkQueue(t, set, p, []parse.Token{
		{Rule: paren, Start: 11, End: 15},
		{Rule: paren, Start: 12, End: 14},
	})
}

func TestUnbalancedParensReportFurthestFailure(t *testing.T) {
	set := parenGrammar(t)

	_, err := set.ParseString("expression", "((")
	if err == nil {
		t.Fatal("ParseString() error = nil, want failure")
	}

	parseErr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error is %T, want *ParseError", err)
	}
	if parseErr.Pos != 2 {
		t.Errorf("Pos = %d, want 2", parseErr.Pos)
	}
	if len(parseErr.Expected) != 1 || parseErr.Expected[0] != "paren" {
		t.Errorf("Expected = %v, want [paren]", parseErr.Expected)
	}
	if got := parseErr.Error(); got != "expected one of {paren} at position 2" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAtomicRuleSpansIncludeNoSkipping(t *testing.T) {
	g := New("atoms")
	g.Atomic("word", OneOrMore(Range('a', 'z')))
	g.Silent("whitespace", Str(" "))

	set, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	p, err := set.ParseString("word", "  ab cd")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	// Leading whitespace is skipped before the atomic rule starts,
	// but none is consumed inside it.
	checkQueue(t, set, p, []parse.Token{
		{Rule: set.nameIDs["word"], Start: 2, End: 4},
	})
	if p.Pos() != 4 {
		t.Errorf("Pos() = %d, want 4", p.Pos())
	}
}

func TestAtomicRuleFailureTracksOnlyItself(t *testing.T) {
	g := New("atoms")
	g.Atomic("number", OneOrMore(Range('0', '9')))
	g.Rule("digit", Range('0', '9'))

	set, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	_, err = set.ParseString("number", "x")
	parseErr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error is %T, want *ParseError", err)
	}
	if len(parseErr.Expected) != 1 || parseErr.Expected[0] != "number" {
		t.Errorf("Expected = %v, want [number]", parseErr.Expected)
	}
	if parseErr.Pos != 0 {
		t.Errorf("Pos = %d, want 0", parseErr.Pos)
	}
}

func TestEOIRule(t *testing.T) {
	g := New("eoi")
	g.Silent("all", Seq(Ref("word"), EOI()))
	g.Rule("word", OneOrMore(Range('a', 'z')))

	set, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	p, err := set.ParseString("all", "abc")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if !p.EOIMatched() {
		t.Error("EOIMatched() = false, want true")
	}

	_, err = set.ParseString("all", "abc!")
	parseErr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error is %T, want *ParseError", err)
	}
	if parseErr.Pos != 3 {
		t.Errorf("Pos = %d, want 3", parseErr.Pos)
	}
	if len(parseErr.Expected) != 1 || parseErr.Expected[0] != "eoi" {
		t.Errorf("Expected = %v, want [eoi]", parseErr.Expected)
	}
}

func TestNotLookaheadConsumesNothing(t *testing.T) {
	g := New("lookahead")
	g.Rule("word", OneOrMore(Seq(Not(Str("!")), Any())))

	set, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	p, err := set.ParseString("word", "ab!cd")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	checkQueue(t, set, p, []parse.Token{
		{Rule: set.nameIDs["word"], Start: 0, End: 2},
	})
	if p.Pos() != 2 {
		t.Errorf("Pos() = %d, want 2", p.Pos())
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Grammar
	}{
		{"unknown reference", func() *Grammar {
			return New("bad").Rule("a", Ref("missing"))
		}},
		{"duplicate rule", func() *Grammar {
			return New("bad").Rule("a", Str("x")).Rule("a", Str("y"))
		}},
		{"reserved name", func() *Grammar {
			return New("bad").Rule("any", Str("x"))
		}},
		{"non-silent whitespace", func() *Grammar {
			return New("bad").Rule("whitespace", Str(" "))
		}},
		{"empty sequence", func() *Grammar {
			return New("bad").Rule("a", Seq())
		}},
		{"empty choice", func() *Grammar {
			return New("bad").Rule("a", Choice())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.build().Compile(); err == nil {
				t.Error("Compile() error = nil, want error")
			}
		})
	}
}

func TestMatchUnknownRule(t *testing.T) {
	set := parenGrammar(t)
	p := set.NewParser(parse.NewStringInput("()"))

	if _, err := set.Match(p, "nope"); err == nil {
		t.Error("Match() error = nil, want error")
	}
}

func TestRuleName(t *testing.T) {
	set := parenGrammar(t)

	if got := set.RuleName(parse.RuleAny); got != "any" {
		t.Errorf("RuleName(RuleAny) = %q, want any", got)
	}
	if got := set.RuleName(parse.RuleEOI); got != "eoi" {
		t.Errorf("RuleName(RuleEOI) = %q, want eoi", got)
	}
	if got := set.RuleName(parse.RuleID(99)); got != "rule(99)" {
		t.Errorf("RuleName(99) = %q, want rule(99)", got)
	}
}
