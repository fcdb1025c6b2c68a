package game

import (
	"math/rand"
	"unicode"
)

// The hint mask is a per-rune reveal flag over the secret word. Non-letter
// runes (spaces, hyphens) are visible from the start and never count as
// hidden positions.

func newRevealMask(word string) []bool {
	runes := []rune(word)
	mask := make([]bool, len(runes))
	for i, r := range runes {
		if !unicode.IsLetter(r) {
			mask[i] = true
		}
	}
	return mask
}

// revealOne flips one uniformly-random hidden position to revealed.
// A no-op when nothing is hidden. Revealing is monotonic: positions are
// never re-hidden within a turn.
func revealOne(mask []bool, rng *rand.Rand) {
	hidden := make([]int, 0, len(mask))
	for i, revealed := range mask {
		if !revealed {
			hidden = append(hidden, i)
		}
	}
	if len(hidden) == 0 {
		return
	}
	mask[hidden[rng.Intn(len(hidden))]] = true
}

// hintCheckpoint reports whether the countdown just hit one of the two
// reveal thresholds: half and a quarter of the round duration.
func hintCheckpoint(remaining, duration int) bool {
	if duration <= 0 {
		return false
	}
	return remaining == duration/2 || remaining == duration/4
}

// renderHint produces the client-facing mask string: revealed runes shown
// in place, hidden ones replaced with '_'.
func renderHint(word string, mask []bool) string {
	runes := []rune(word)
	if len(runes) != len(mask) {
		return ""
	}
	out := make([]rune, len(runes))
	for i, r := range runes {
		if mask[i] {
			out[i] = r
		} else {
			out[i] = '_'
		}
	}
	return string(out)
}

func revealedCount(mask []bool) int {
	n := 0
	for _, revealed := range mask {
		if revealed {
			n++
		}
	}
	return n
}
