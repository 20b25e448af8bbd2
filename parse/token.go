package parse

// RuleID identifies a grammar rule. The engine treats it as an opaque
// ordered value; names live in whatever layer defined the grammar.
// RuleAny and RuleEOI are reserved for the two built-in rules, so
// grammar layers must hand out identifiers starting at FirstUserRule.
type RuleID int

const (
	RuleAny RuleID = iota
	RuleEOI

	FirstUserRule
)

// Token records the span of one successfully matched non-silent rule.
// Start and End are input positions with Start <= End.
type Token struct {
	Rule  RuleID
	Start int
	End   int
}
