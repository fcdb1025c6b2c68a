package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Verdict classifies a chat line against the secret word.
type Verdict int

const (
	GuessMiss Verdict = iota
	GuessClose
	GuessExact
)

// Bonus awarded to the drawer each time somebody guesses their word.
const drawerBonusPoints = 5

// closeGuessMaxDistance caps the edit-distance tolerance for "close"
// guesses regardless of word length.
const closeGuessMaxDistance = 2

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeGuess lowercases, trims surrounding whitespace and removes
// diacritics, so "  Pinguïn " and "pinguin" compare equal.
func NormalizeGuess(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	result, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return result
}

// EvaluateGuess compares a raw chat line against the secret word.
func EvaluateGuess(guess, secret string) Verdict {
	g := NormalizeGuess(guess)
	w := NormalizeGuess(secret)

	if g == w {
		return GuessExact
	}

	if d := levenshtein(g, w); d > 0 && d <= closeGuessMaxDistance {
		return GuessClose
	}

	return GuessMiss
}

// GuessPoints computes the score awarded for a correct guess: faster
// guesses earn more, with a floor of 50 points.
func GuessPoints(timeRemaining, roundDuration int) int {
	if roundDuration <= 0 {
		return 50
	}
	points := (timeRemaining*100 + roundDuration - 1) / roundDuration
	if points < 50 {
		points = 50
	}
	return points
}

// levenshtein is the classic dynamic-programming edit distance. Words are
// short (~15 runes) so no early-exit optimization is needed.
func levenshtein(a, b string) int {
	ar := []rune(a)
	br := []rune(b)

	prev := make([]int, len(ar)+1)
	curr := make([]int, len(ar)+1)

	for j := 0; j <= len(ar); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(br); i++ {
		curr[0] = i
		for j := 1; j <= len(ar); j++ {
			cost := 1
			if br[i-1] == ar[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j-1]+cost, min(curr[j-1]+1, prev[j]+1))
		}
		prev, curr = curr, prev
	}

	return prev[len(ar)]
}
