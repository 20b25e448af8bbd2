package parse

import (
	"strings"
	"unicode/utf8"
)

// Input is the minimal contract the engine needs from source text.
// All matching failure is reported as false with the position left
// unchanged; this layer never returns errors.
type Input interface {
	Len() int
	Pos() int
	SetPos(pos int)
	// MatchString advances past s if the input starts with s at the
	// current position.
	MatchString(s string) bool
	// MatchRange advances past the next character if it lies in
	// [lo, hi] inclusive.
	MatchRange(lo, hi rune) bool
	// Slice returns the text between two positions.
	Slice(start, end int) string
}

// StringInput is an Input over an in-memory string. Positions are byte
// offsets; MatchRange is rune-aware and advances by the full encoding
// of the matched character.
type StringInput struct {
	text string
	pos  int
}

func NewStringInput(text string) *StringInput {
	return &StringInput{text: text}
}

func (in *StringInput) Len() int {
	return len(in.text)
}

func (in *StringInput) Pos() int {
	return in.pos
}

func (in *StringInput) SetPos(pos int) {
	in.pos = pos
}

func (in *StringInput) MatchString(s string) bool {
	if !strings.HasPrefix(in.text[in.pos:], s) {
		return false
	}
	in.pos += len(s)
	return true
}

func (in *StringInput) MatchRange(lo, hi rune) bool {
	if in.pos >= len(in.text) {
		return false
	}
	r, size := utf8.DecodeRuneInString(in.text[in.pos:])
	if r == utf8.RuneError && size == 1 {
		return false
	}
	if r < lo || r > hi {
		return false
	}
	in.pos += size
	return true
}

func (in *StringInput) Slice(start, end int) string {
	return in.text[start:end]
}
