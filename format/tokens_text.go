package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/rdp/parse"
)

// TextEncoder renders the queue as an indented tree. Indentation
// follows span containment: the queue keeps parents at or before
// their children, so a stack of enclosing spans recovers the nesting.
type TextEncoder struct {
	w     io.Writer
	names RuleNamer
}

func NewTextEncoder(w io.Writer, names RuleNamer) *TextEncoder {
	return &TextEncoder{w: w, names: names}
}

func (e *TextEncoder) Encode(p *parse.Parser) error {
	var sb strings.Builder
	var open []parse.Token

	for _, tok := range p.Queue().Tokens() {
		for len(open) > 0 {
			top := open[len(open)-1]
			if tok.Start >= top.Start && tok.End <= top.End {
				break
			}
			open = open[:len(open)-1]
		}

		sb.WriteString(strings.Repeat("  ", len(open)))
		sb.WriteString(e.names(tok.Rule))
		sb.WriteString(" [")
		sb.WriteString(strconv.Itoa(tok.Start))
		sb.WriteString("-")
		sb.WriteString(strconv.Itoa(tok.End))
		sb.WriteString("] ")
		sb.WriteString(strconv.Quote(p.SliceInput(tok.Start, tok.End)))
		sb.WriteString("\n")

		open = append(open, tok)
	}

	_, err := fmt.Fprint(e.w, sb.String())
	return err
}
