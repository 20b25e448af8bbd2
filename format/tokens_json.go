package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/rdp/parse"
)

type JSONEncoder struct {
	w     io.Writer
	names RuleNamer
}

func NewJSONEncoder(w io.Writer, names RuleNamer) *JSONEncoder {
	return &JSONEncoder{w: w, names: names}
}

type jsonToken struct {
	Rule  string `json:"rule"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

func (e *JSONEncoder) Encode(p *parse.Parser) error {
	text, err := e.MarshalText(p)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText(p *parse.Parser) ([]byte, error) {
	tokens := p.Queue().Tokens()
	out := make([]jsonToken, len(tokens))
	for i, tok := range tokens {
		out[i] = jsonToken{
			Rule:  e.names(tok.Rule),
			Start: tok.Start,
			End:   tok.End,
			Text:  p.SliceInput(tok.Start, tok.End),
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
