package generation

import (
	"errors"
	"sync"
)

// ErrStale is returned when a completing invocation was superseded by a
// newer one and its result has been discarded.
var ErrStale = errors.New("superseded by a newer request")

// Token identifies one load or reconcile invocation and the target it was
// started for.
type Token struct {
	Gen    uint64
	Target string
}

// Guard hands out tokens and decides whether a completing invocation still
// belongs to the current context. Starting a new invocation or invalidating
// the guard supersedes every token issued before.
type Guard struct {
	mu     sync.Mutex
	gen    uint64
	target string
}

// Begin starts a new invocation for target and makes it the current one.
func (g *Guard) Begin(target string) Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	g.target = target
	return Token{Gen: g.gen, Target: target}
}

// Join returns a token for the current target without superseding in-flight
// invocations. Use it for work that shares the current context.
func (g *Guard) Join() Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Token{Gen: g.gen, Target: g.target}
}

// Invalidate supersedes every outstanding token and clears the target.
func (g *Guard) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	g.target = ""
}

// Current reports whether tok still belongs to the current context.
func (g *Guard) Current(tok Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return tok.Gen == g.gen && tok.Target == g.target
}

// Target returns the current target.
func (g *Guard) Target() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.target
}

// Commit runs fn while holding the guard if tok is still current.
// It reports whether fn ran. fn must not call back into the guard.
func (g *Guard) Commit(tok Token, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if tok.Gen != g.gen || tok.Target != g.target {
		return false
	}
	fn()
	return true
}
