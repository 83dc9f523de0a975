package generation_test

import (
	"sync"
	"testing"

	"quiz-manager/core/generation"

	"github.com/stretchr/testify/assert"
)

func TestGuard_BeginSupersedes(t *testing.T) {
	var g generation.Guard

	first := g.Begin("variant-1")
	assert.True(t, g.Current(first))

	second := g.Begin("variant-2")
	assert.False(t, g.Current(first))
	assert.True(t, g.Current(second))
	assert.Equal(t, "variant-2", g.Target())
}

func TestGuard_SameTargetNewGeneration(t *testing.T) {
	var g generation.Guard

	first := g.Begin("variant-1")
	second := g.Begin("variant-1")
	assert.False(t, g.Current(first))
	assert.True(t, g.Current(second))
}

func TestGuard_Invalidate(t *testing.T) {
	var g generation.Guard

	tok := g.Begin("variant-1")
	g.Invalidate()
	assert.False(t, g.Current(tok))
	assert.Equal(t, "", g.Target())
}

func TestGuard_Join(t *testing.T) {
	var g generation.Guard

	tok := g.Begin("variant-1")
	joined := g.Join()
	assert.Equal(t, tok, joined)
	assert.True(t, g.Current(tok))
}

func TestGuard_Commit(t *testing.T) {
	var g generation.Guard

	stale := g.Begin("variant-1")
	fresh := g.Begin("variant-2")

	ran := false
	assert.False(t, g.Commit(stale, func() { ran = true }))
	assert.False(t, ran)

	assert.True(t, g.Commit(fresh, func() { ran = true }))
	assert.True(t, ran)
}

func TestGuard_ConcurrentBegin(t *testing.T) {
	var g generation.Guard
	var wg sync.WaitGroup

	tokens := make([]generation.Token, 50)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i] = g.Begin("v")
		}(i)
	}
	wg.Wait()

	current := 0
	for _, tok := range tokens {
		if g.Current(tok) {
			current++
		}
	}
	assert.Equal(t, 1, current)
}
