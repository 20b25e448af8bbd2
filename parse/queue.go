package parse

// Queue holds matched tokens in discovery order. Precedence climbing
// may insert a synthesized operator token before tokens its operands
// already produced, so a parent token always ends up at or before the
// index of any token whose span it contains.
type Queue struct {
	tokens []Token
}

func (q *Queue) Len() int {
	return len(q.tokens)
}

func (q *Queue) Push(tok Token) {
	q.tokens = append(q.tokens, tok)
}

// InsertAt places tok at index i, shifting later tokens right.
func (q *Queue) InsertAt(i int, tok Token) {
	q.tokens = append(q.tokens, Token{})
	copy(q.tokens[i+1:], q.tokens[i:])
	q.tokens[i] = tok
}

// Truncate discards every token at index n and beyond. Used when a
// failed attempt rolls back.
func (q *Queue) Truncate(n int) {
	if n < len(q.tokens) {
		q.tokens = q.tokens[:n]
	}
}

// At returns the token at index i, or false if i is out of range.
func (q *Queue) At(i int) (Token, bool) {
	if i < 0 || i >= len(q.tokens) {
		return Token{}, false
	}
	return q.tokens[i], true
}

// Tokens exposes the backing slice. Callers must not grow it directly;
// Push and InsertAt keep the ordering invariant.
func (q *Queue) Tokens() []Token {
	return q.tokens
}
