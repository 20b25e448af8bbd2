package grammar

import (
	"fmt"
	"strings"
)

// ParseError reports the furthest failure of a parse attempt: the
// rules that could have continued the parse at the deepest position
// reached.
type ParseError struct {
	Grammar  string
	Expected []string
	Pos      int
}

func (e *ParseError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("parse failed at position %d", e.Pos)
	}
	return fmt.Sprintf("expected one of {%s} at position %d", strings.Join(e.Expected, ", "), e.Pos)
}
