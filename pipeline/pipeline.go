// Package pipeline connects a name supplier, the layout engine, and the
// renderer. A Pipeline loads its pool once and then produces a fresh card on
// every call, which makes it usable both for one-shot runs and as the backend
// of an HTTP handler.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Parkreiner/namebingo"
	"github.com/Parkreiner/namebingo/cardgen"
	"github.com/Parkreiner/namebingo/render"
	"github.com/Parkreiner/namebingo/shuffler"
)

// ErrNotLoaded is returned when a card is requested before Load succeeded.
var ErrNotLoaded = errors.New("name pool has not been loaded")

// Pipeline is safe for concurrent use. Everything except the pool is fixed at
// construction; the pool is an immutable snapshot that Load replaces as a
// whole, so readers never need a lock.
type Pipeline struct {
	supplier  bingo.NameSupplier
	generator *cardgen.Generator
	spec      bingo.GridSpec
	filler    *bingo.Token
	center    *bingo.Token
	document  render.Options
	logger    *zap.Logger

	pool atomic.Pointer[bingo.Pool]
}

// Init is used to instantiate a Pipeline via New.
type Init struct {
	Supplier bingo.NameSupplier
	Spec     bingo.GridSpec
	// Filler pads the card when the pool runs out. Nil means the pool must be
	// big enough on its own.
	Filler *bingo.Token
	// Center overrides the center cell when non-nil.
	Center   *bingo.Token
	Document render.Options
	// Shuffler defaults to unseeded randomness.
	Shuffler *shuffler.Shuffler
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// New creates a Pipeline. It does not touch the supplier; call Load before
// requesting cards.
func New(init Init) (*Pipeline, error) {
	if init.Supplier == nil {
		return nil, fmt.Errorf("%w: no name supplier", bingo.ErrConfiguration)
	}
	if err := init.Spec.Validate(); err != nil {
		return nil, err
	}

	logger := init.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		supplier:  init.Supplier,
		generator: cardgen.New(init.Shuffler),
		spec:      init.Spec,
		filler:    init.Filler,
		center:    init.Center,
		document:  init.Document,
		logger:    logger,
	}, nil
}

// Load asks the supplier for a pool and makes it the one used by subsequent
// cards. A pool that cannot fill the grid is rejected with ErrConfiguration and
// the previously loaded pool, if any, stays in place.
func (p *Pipeline) Load(ctx context.Context) error {
	pool, err := p.supplier.Supply(ctx)
	if err != nil {
		return err
	}
	if err := cardgen.CheckCapacity(len(pool), p.spec, p.filler); err != nil {
		return err
	}

	p.pool.Store(&pool)
	p.logger.Info("name pool loaded",
		zap.Int("names", len(pool)),
		zap.Int("cells", p.spec.Cells()),
		zap.Bool("padded", len(pool) < p.spec.Cells()),
	)
	return nil
}

// Pool returns the currently loaded pool. The result must not be modified.
func (p *Pipeline) Pool() bingo.Pool {
	if pool := p.pool.Load(); pool != nil {
		return *pool
	}
	return nil
}

// Spec returns the grid dimensions every card is laid out with.
func (p *Pipeline) Spec() bingo.GridSpec {
	return p.spec
}

// Deal lays out a new card from the current pool.
func (p *Pipeline) Deal() (*bingo.Card, error) {
	pool := p.pool.Load()
	if pool == nil {
		return nil, ErrNotLoaded
	}
	return p.generator.Layout(cardgen.LayoutInit{
		Pool:   *pool,
		Spec:   p.spec,
		Filler: p.filler,
		Center: p.center,
	})
}

// Render deals a new card and writes it to w as an HTML document. The document
// is built in memory first, so nothing reaches w if rendering fails.
func (p *Pipeline) Render(w io.Writer) (*bingo.Card, error) {
	card, err := p.Deal()
	if err != nil {
		return nil, err
	}

	doc, err := render.HTML(card, p.document)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(doc); err != nil {
		return nil, fmt.Errorf("writing card %s: %w", card.ID, err)
	}
	return card, nil
}

// Preview deals a new card and renders it for a terminal.
func (p *Pipeline) Preview() (string, *bingo.Card, error) {
	card, err := p.Deal()
	if err != nil {
		return "", nil, err
	}
	text, err := render.Text(card)
	if err != nil {
		return "", nil, err
	}
	return text, card, nil
}
