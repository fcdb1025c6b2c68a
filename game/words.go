package game

import (
	"math/rand"
	"sync"
)

// defaultWords is the built-in word pool, used when the words table has
// nothing to offer.
var defaultWords = []string{
	"apple", "banana", "elephant", "guitar", "jellyfish",
	"lion", "monkey", "octopus", "penguin", "robot",
	"umbrella", "whale", "zebra", "airplane", "beach",
	"cloud", "dragon", "earth", "flower", "backpack",
	"bicycle", "binoculars", "calculator", "camera", "candle",
	"clock", "compass", "crown", "envelope", "flashlight",
	"headphones", "hourglass", "keychain", "ladder", "lock",
	"microphone", "notebook", "paintbrush", "pillow", "scissors",
	"telescope", "toothbrush", "wallet", "watch", "chameleon",
	"dolphin", "eagle", "flamingo", "frog", "kangaroo",
	"koala", "lobster", "parrot", "peacock", "rabbit",
	"seahorse", "snail", "turtle", "wolf", "bridge",
	"campfire", "castle", "classroom", "fountain", "garage",
	"lighthouse", "playground", "stadium", "treehouse", "windmill",
	"ambulance", "bulldozer", "helicopter", "motorcycle", "rocket",
	"school", "submarine", "tractor", "engine", "dancing",
	"fishing", "painting", "reading", "sleepwalking", "skateboarding",
	"snowboarding", "surfing", "thinking", "yawning", "avalanche",
	"camping", "desert", "earthquake", "forest", "hurricane",
	"island", "mountain", "rainbow", "volcano", "waterfall",
}

// StaticWordsGenerator draws distinct words from an in-memory pool. A
// single instance is shared by every room goroutine, so the rand source
// is guarded.
type StaticWordsGenerator struct {
	pool []string

	mu  sync.Mutex
	rng *rand.Rand
}

func NewStaticWordsGenerator(rng *rand.Rand) *StaticWordsGenerator {
	return &StaticWordsGenerator{pool: defaultWords, rng: rng}
}

func (g *StaticWordsGenerator) Generate(count int) []string {
	shuffled := make([]string, len(g.pool))
	copy(shuffled, g.pool)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

// FallbackWordsGenerator tries the primary source first and fills any
// shortfall from the fallback, so an empty words table never stalls a game.
type FallbackWordsGenerator struct {
	primary  RandomWordsGenerator
	fallback RandomWordsGenerator
}

func NewFallbackWordsGenerator(primary, fallback RandomWordsGenerator) *FallbackWordsGenerator {
	return &FallbackWordsGenerator{primary: primary, fallback: fallback}
}

func (g *FallbackWordsGenerator) Generate(count int) []string {
	words := g.primary.Generate(count)
	if len(words) >= count {
		return words
	}
	for _, w := range g.fallback.Generate(count) {
		if len(words) >= count {
			break
		}
		words = append(words, w)
	}
	return words
}
