// Package bingo contains the main domain types (and associated helper values
// and functions) needed to lay out and render a bingo card of names.
package bingo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// DefaultFiller is the name used to pad a card when the name list runs out and
// the caller did not pick a filler of their own.
const DefaultFiller Token = "Joker"

var (
	// ErrSourceUnavailable indicates that a NameSupplier could not produce any
	// data (missing file, unreachable directory, failing command).
	ErrSourceUnavailable = errors.New("name source unavailable")

	// ErrConfiguration indicates unusable grid dimensions, or a name pool that
	// cannot fill a grid without a filler.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvariantViolation indicates a programming defect, such as a card
	// whose cell count disagrees with its grid dimensions.
	ErrInvariantViolation = errors.New("invariant violation")
)

// Token is the text placed into a single cell, usually a person's name. There
// is no uniqueness constraint; duplicates are kept as-is.
type Token = string

// Pool is an ordered list of tokens produced by a NameSupplier. It should be
// treated as immutable once loaded; anything that needs to reorder it must work
// on a copy.
type Pool []Token

// Clone returns a copy of the pool that can be mutated freely.
func (p Pool) Clone() Pool {
	if p == nil {
		return nil
	}
	cloned := make(Pool, len(p))
	copy(cloned, p)
	return cloned
}

// NameSupplier is anything that can produce a pool of names. Implementations
// should wrap ErrSourceUnavailable when their backend cannot produce data.
type NameSupplier interface {
	Supply(ctx context.Context) (Pool, error)
}

// GridSpec describes the dimensions of a card.
type GridSpec struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate reports an ErrConfiguration for negative dimensions. A zero
// dimension is allowed and produces an empty card.
func (s GridSpec) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w: grid dimensions %dx%d must not be negative", ErrConfiguration, s.Width, s.Height)
	}
	return nil
}

// Cells returns the total number of cells in the grid.
func (s GridSpec) Cells() int {
	return s.Width * s.Height
}

// CenterIndex returns the flattened, row-major index of the center cell. Both
// halves use floor division, so grids with an even width or height get the
// cell just below and to the right of the geometric center.
func (s GridSpec) CenterIndex() int {
	return (s.Height/2)*s.Width + s.Width/2
}

// CellKind only affects how a cell is styled, never the structure of a card.
type CellKind uint8

const (
	// CellKindNormal is any cell holding a name or the filler.
	CellKindNormal CellKind = iota
	// CellKindCenter is the cell whose content was replaced by the center
	// override text.
	CellKindCenter
)

func (k CellKind) String() string {
	switch k {
	case CellKindCenter:
		return "center"
	default:
		return "normal"
	}
}

// Cell represents a single cell on a bingo card.
type Cell struct {
	Value Token    `json:"value"`
	Kind  CellKind `json:"kind"`
}

// Card is a fully laid-out grid. Cells are stored in row-major order, so index
// i corresponds to row i/Width and column i%Width. A card is created once per
// layout pass and never mutated afterwards.
type Card struct {
	// ID only exists to correlate a card across logs and responses. It is not
	// part of the rendered document.
	ID    uuid.UUID `json:"id"`
	Spec  GridSpec  `json:"spec"`
	Cells []Cell    `json:"cells"`
}

// At returns the cell at the given row and column. It panics if the position
// is outside the grid, the same way indexing a slice out of range would.
func (c *Card) At(row int, col int) Cell {
	if row < 0 || row >= c.Spec.Height || col < 0 || col >= c.Spec.Width {
		panic(fmt.Sprintf("cell (%d, %d) is outside a %dx%d card", row, col, c.Spec.Width, c.Spec.Height))
	}
	return c.Cells[row*c.Spec.Width+col]
}

// Rows splits the cells into one slice per row. The returned slices share
// memory with the card and must not be modified.
func (c *Card) Rows() [][]Cell {
	if c.Spec.Width == 0 {
		return nil
	}
	rows := make([][]Cell, 0, c.Spec.Height)
	for start := 0; start+c.Spec.Width <= len(c.Cells); start += c.Spec.Width {
		rows = append(rows, c.Cells[start:start+c.Spec.Width])
	}
	return rows
}

// CheckShape reports an ErrInvariantViolation when the number of cells does
// not match the card's dimensions.
func (c *Card) CheckShape() error {
	if c == nil {
		return fmt.Errorf("%w: card is nil", ErrInvariantViolation)
	}
	if err := c.Spec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	if len(c.Cells) != c.Spec.Cells() {
		return fmt.Errorf("%w: %dx%d card has %d cells", ErrInvariantViolation, c.Spec.Width, c.Spec.Height, len(c.Cells))
	}
	return nil
}
