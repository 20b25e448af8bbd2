// Package format renders finished token queues for human and machine
// consumption.
package format

import (
	"github.com/dhamidi/rdp/parse"
)

// RuleNamer resolves rule identifiers to their declared names;
// grammar.Set's RuleName method satisfies it.
type RuleNamer func(parse.RuleID) string

// Encoder writes one parser's token queue to an output.
type Encoder interface {
	Encode(p *parse.Parser) error
}
