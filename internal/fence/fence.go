// Package fence guards a form against overlapping submissions: each async
// operation takes a monotonically increasing token, and its result is
// applied only if the token is still the newest. A slow earlier response can
// therefore never overwrite a later one's effect.
package fence

import "sync/atomic"

// Token identifies one submission of a guarded form.
type Token int64

// Guard issues and checks tokens for a single form.
type Guard struct {
	counter atomic.Int64
}

// Begin starts a new submission and invalidates all earlier tokens.
func (g *Guard) Begin() Token {
	return Token(g.counter.Add(1))
}

// Current reports whether t is still the newest submission, i.e. whether
// its result should be applied.
func (g *Guard) Current(t Token) bool {
	return int64(t) == g.counter.Load()
}
