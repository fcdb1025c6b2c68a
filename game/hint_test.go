package game

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRevealMask(t *testing.T) {
	t.Parallel()

	mask := newRevealMask("ice cream")
	assert.Len(t, mask, 9)
	// Only the space starts revealed.
	assert.Equal(t, []bool{false, false, false, true, false, false, false, false, false}, mask)

	assert.Equal(t, []bool{false, false, false, false, false}, newRevealMask("robot"))
	assert.Empty(t, newRevealMask(""))
}

func TestRenderHint(t *testing.T) {
	t.Parallel()

	mask := newRevealMask("ice cream")
	assert.Equal(t, "___ _____", renderHint("ice cream", mask))

	mask[0] = true
	mask[4] = true
	assert.Equal(t, "i__ c____", renderHint("ice cream", mask))
}

func TestRevealOne(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	word := "penguin"
	mask := newRevealMask(word)

	for i := 1; i <= len(word); i++ {
		revealOne(mask, rng)
		assert.Equal(t, i, revealedCount(mask), "after %d reveals", i)
	}

	// Everything revealed: further calls are no-ops.
	revealOne(mask, rng)
	assert.Equal(t, len(word), revealedCount(mask))
	assert.Equal(t, word, renderHint(word, mask))
}

func TestRevealOne_MonotonicOverRandomWords(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for _, word := range []string{"a", "sea horse", "l", "jack-o-lantern"} {
		mask := newRevealMask(word)
		prev := revealedCount(mask)
		for i := 0; i < len(word)+3; i++ {
			revealOne(mask, rng)
			curr := revealedCount(mask)
			assert.GreaterOrEqual(t, curr, prev, "word %q", word)
			assert.LessOrEqual(t, curr, len([]rune(word)))
			prev = curr
		}
		assert.NotContains(t, renderHint(word, mask), "_")
	}
}

func TestHintCheckpoint(t *testing.T) {
	t.Parallel()

	duration := 60
	var hits []int
	for remaining := duration; remaining >= 0; remaining-- {
		if hintCheckpoint(remaining, duration) {
			hits = append(hits, remaining)
		}
	}
	assert.Equal(t, []int{30, 15}, hits)

	// Odd durations floor the thresholds.
	assert.True(t, hintCheckpoint(37, 75))
	assert.True(t, hintCheckpoint(18, 75))
	assert.False(t, hintCheckpoint(19, 75))

	assert.False(t, hintCheckpoint(10, 0))
}

func TestRenderHint_LengthMismatch(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", renderHint("robot", []bool{true}))
	assert.Equal(t, strings.Repeat("_", 5), renderHint("robot", make([]bool, 5)))
}
