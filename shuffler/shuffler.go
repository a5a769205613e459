// Package shuffler defines a tool for shuffling names in pseudo-random ways,
// either from fresh entropy or from a fixed seed.
package shuffler

import (
	"math/rand/v2"
	"sync"

	"github.com/Parkreiner/namebingo"
)

// Source is the randomness capability a Shuffler draws from. IntN must return a
// value in [0, n).
type Source interface {
	IntN(n int) int
}

// Shuffler provides methods for shuffling names using an injected source of
// randomness. It is safe for concurrent use as long as its Source is.
type Shuffler struct {
	src Source
}

// New creates a Shuffler around an arbitrary source. Tests use this to plug in
// deterministic sequences.
func New(src Source) *Shuffler {
	return &Shuffler{src: src}
}

// NewRandom creates a Shuffler backed by the math/rand/v2 top-level functions,
// which are seeded from the runtime and safe for concurrent use.
func NewRandom() *Shuffler {
	return New(globalSource{})
}

// NewSeeded creates a Shuffler whose output is fully determined by the seed.
// The underlying generator is guarded by a mutex, so a single seeded Shuffler
// can still be shared across request goroutines.
func NewSeeded(seed uint64) *Shuffler {
	return New(&lockedSource{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	})
}

// Shuffle shuffles a slice of tokens in place. Every ordering is equally likely
// given a uniform source.
func (s *Shuffler) Shuffle(tokens []bingo.Token) {
	for i := len(tokens) - 1; i >= 1; i-- {
		randomIndex := s.src.IntN(i + 1)
		elementToSwap := tokens[i]
		tokens[i] = tokens[randomIndex]
		tokens[randomIndex] = elementToSwap
	}
}

type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

type lockedSource struct {
	mtx sync.Mutex
	rng *rand.Rand
}

func (l *lockedSource) IntN(n int) int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.rng.IntN(n)
}
