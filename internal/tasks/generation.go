package tasks

import "sync/atomic"

// Token identifies one request generation.
type Token uint64

// Generation hands out request tokens; only the latest is current.
// The zero value is ready to use.
type Generation struct {
	current atomic.Uint64
}

// Next issues a new token, invalidating all earlier ones.
func (g *Generation) Next() Token {
	return Token(g.current.Add(1))
}

// Current reports whether t is the most recently issued token.
func (g *Generation) Current(t Token) bool {
	return uint64(t) == g.current.Load()
}
