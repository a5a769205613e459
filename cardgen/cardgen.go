// Package cardgen lays out a pool of names onto a fixed-size bingo grid.
package cardgen

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Parkreiner/namebingo"
	"github.com/Parkreiner/namebingo/shuffler"
)

// Generator turns name pools into cards. It keeps no state between calls other
// than its shuffler, so a single Generator can serve concurrent requests.
type Generator struct {
	shuffler *shuffler.Shuffler
}

// New creates a Generator. A nil shuffler falls back to fresh, unseeded
// randomness.
func New(s *shuffler.Shuffler) *Generator {
	if s == nil {
		s = shuffler.NewRandom()
	}
	return &Generator{shuffler: s}
}

// LayoutInit is used to describe a single card via Generator.Layout.
type LayoutInit struct {
	Pool bingo.Pool
	Spec bingo.GridSpec
	// Filler pads every cell past the end of the shuffled pool. When nil, the
	// pool must be large enough to fill the grid on its own.
	Filler *bingo.Token
	// Center replaces the content of the center cell when non-nil.
	Center *bingo.Token
}

// CheckCapacity reports an ErrConfiguration when a pool of poolLen names cannot
// fill the grid and no filler is available. Callers can run it once at startup
// to fail before any card is rendered.
func CheckCapacity(poolLen int, spec bingo.GridSpec, filler *bingo.Token) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if filler == nil && poolLen < spec.Cells() {
		return fmt.Errorf("%w: %d names cannot fill %d cells and no filler was given", bingo.ErrConfiguration, poolLen, spec.Cells())
	}
	return nil
}

// Layout shuffles a copy of the pool, pads it with the filler, truncates it to
// the grid size, and applies the center override. The pool passed in is never
// modified.
func (g *Generator) Layout(init LayoutInit) (*bingo.Card, error) {
	if err := CheckCapacity(len(init.Pool), init.Spec, init.Filler); err != nil {
		return nil, err
	}

	total := init.Spec.Cells()
	card := &bingo.Card{
		ID:    uuid.New(),
		Spec:  init.Spec,
		Cells: make([]bingo.Cell, total),
	}
	if total == 0 {
		return card, nil
	}

	// The whole pool is shuffled before truncating, not just the first
	// total names
	shuffled := init.Pool.Clone()
	g.shuffler.Shuffle(shuffled)

	for i := range card.Cells {
		var value bingo.Token
		if i < len(shuffled) {
			value = shuffled[i]
		} else {
			value = *init.Filler
		}
		card.Cells[i] = bingo.Cell{Value: value, Kind: bingo.CellKindNormal}
	}

	if init.Center != nil {
		card.Cells[init.Spec.CenterIndex()] = bingo.Cell{
			Value: *init.Center,
			Kind:  bingo.CellKindCenter,
		}
	}

	return card, nil
}
