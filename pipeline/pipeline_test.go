package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Parkreiner/namebingo"
	"github.com/Parkreiner/namebingo/pipeline"
	"github.com/Parkreiner/namebingo/render"
	"github.com/Parkreiner/namebingo/supplier"
)

func ptr(s string) *string { return &s }

type failingSupplier struct{}

func (failingSupplier) Supply(context.Context) (bingo.Pool, error) {
	return nil, bingo.ErrSourceUnavailable
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func newPipeline(t *testing.T, init pipeline.Init) *pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.New(init)
	require.NoError(t, err)
	require.NoError(t, p.Load(context.Background()))
	return p
}

func TestRenderWritesDocument(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, pipeline.Init{
		Supplier: supplier.Static{Names: bingo.Pool{"Alice", "Bob", "Carol"}},
		Spec:     bingo.GridSpec{Width: 2, Height: 2},
		Filler:   ptr("Joker"),
		Center:   ptr("FREE"),
		Document: render.Options{Title: ptr("Office Bingo")},
	})

	var buf bytes.Buffer
	card, err := p.Render(&buf)
	require.NoError(t, err)
	require.Len(t, card.Cells, 4)

	doc := buf.String()
	assert.Contains(t, doc, "<h1>Office Bingo</h1>")
	assert.Equal(t, 4, strings.Count(doc, `<div class="bingo-cell `))
	assert.Contains(t, doc, `<div class="bingo-cell center-cell"><p>FREE</p></div>`)
	assert.Equal(t, bingo.Cell{Value: "FREE", Kind: bingo.CellKindCenter}, card.Cells[3])
}

func TestLoadRejectsSmallPoolWithoutFiller(t *testing.T) {
	t.Parallel()

	p, err := pipeline.New(pipeline.Init{
		Supplier: supplier.Static{Names: bingo.Pool{"Alice"}},
		Spec:     bingo.GridSpec{Width: 2, Height: 2},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, p.Load(context.Background()), bingo.ErrConfiguration)
	_, err = p.Deal()
	assert.ErrorIs(t, err, pipeline.ErrNotLoaded)
}

func TestLoadFailureKeepsPreviousPool(t *testing.T) {
	t.Parallel()

	names := &swappableSupplier{pool: bingo.Pool{"a", "b", "c", "d"}}
	p := newPipeline(t, pipeline.Init{
		Supplier: names,
		Spec:     bingo.GridSpec{Width: 2, Height: 2},
	})

	names.set(bingo.Pool{"a"}, nil)
	assert.ErrorIs(t, p.Load(context.Background()), bingo.ErrConfiguration)
	assert.Equal(t, bingo.Pool{"a", "b", "c", "d"}, p.Pool())

	names.set(nil, bingo.ErrSourceUnavailable)
	assert.ErrorIs(t, p.Load(context.Background()), bingo.ErrSourceUnavailable)
	assert.Equal(t, bingo.Pool{"a", "b", "c", "d"}, p.Pool())

	names.set(bingo.Pool{"w", "x", "y", "z"}, nil)
	require.NoError(t, p.Load(context.Background()))
	card, err := p.Deal()
	require.NoError(t, err)
	for _, cell := range card.Cells {
		assert.Contains(t, []string{"w", "x", "y", "z"}, cell.Value)
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := pipeline.New(pipeline.Init{Spec: bingo.GridSpec{Width: 1, Height: 1}})
	assert.ErrorIs(t, err, bingo.ErrConfiguration)

	_, err = pipeline.New(pipeline.Init{Supplier: supplier.Static{}, Spec: bingo.GridSpec{Width: -2, Height: 1}})
	assert.ErrorIs(t, err, bingo.ErrConfiguration)

	p, err := pipeline.New(pipeline.Init{Supplier: failingSupplier{}, Spec: bingo.GridSpec{Width: 1, Height: 1}})
	require.NoError(t, err)
	assert.ErrorIs(t, p.Load(context.Background()), bingo.ErrSourceUnavailable)
}

func TestRenderWriteError(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, pipeline.Init{
		Supplier: supplier.Static{Names: bingo.Pool{"a"}},
		Spec:     bingo.GridSpec{Width: 1, Height: 1},
	})

	_, err := p.Render(failingWriter{})
	assert.ErrorContains(t, err, "disk full")
}

func TestEmptyGrid(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, pipeline.Init{
		Supplier: supplier.Static{},
		Spec:     bingo.GridSpec{Width: 0, Height: 3},
	})

	var buf bytes.Buffer
	card, err := p.Render(&buf)
	require.NoError(t, err)
	assert.Empty(t, card.Cells)
	assert.Contains(t, buf.String(), `<div class="bingo-grid">`)
	assert.NotContains(t, buf.String(), "bingo-cell")
}

func TestPreview(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, pipeline.Init{
		Supplier: supplier.Static{Names: bingo.Pool{"Alice", "Bob"}},
		Spec:     bingo.GridSpec{Width: 2, Height: 1},
	})

	text, card, err := p.Preview()
	require.NoError(t, err)
	assert.Contains(t, text, "Alice")
	assert.Contains(t, text, "Bob")
	assert.Len(t, card.Cells, 2)
}

func TestConcurrentRenders(t *testing.T) {
	t.Parallel()

	pool := bingo.Pool{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	p := newPipeline(t, pipeline.Init{
		Supplier: supplier.Static{Names: pool},
		Spec:     bingo.GridSpec{Width: 3, Height: 3},
		Center:   ptr("FREE"),
	})

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			card, err := p.Render(&buf)
			assert.NoError(t, err)
			assert.Len(t, card.Cells, 9)
		}()
	}
	wg.Wait()

	assert.Equal(t, pool, p.Pool())
}

func TestLoadLogsPoolSize(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	p, err := pipeline.New(pipeline.Init{
		Supplier: supplier.Static{Names: bingo.Pool{"a", "b"}},
		Spec:     bingo.GridSpec{Width: 2, Height: 2},
		Filler:   ptr("x"),
		Logger:   zap.New(core),
	})
	require.NoError(t, err)
	require.NoError(t, p.Load(context.Background()))

	entries := logs.FilterMessage("name pool loaded").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 2, fields["names"])
	assert.EqualValues(t, 4, fields["cells"])
	assert.Equal(t, true, fields["padded"])
}

type swappableSupplier struct {
	mtx  sync.Mutex
	pool bingo.Pool
	err  error
}

func (s *swappableSupplier) set(pool bingo.Pool, err error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.pool, s.err = pool, err
}

func (s *swappableSupplier) Supply(context.Context) (bingo.Pool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.pool, s.err
}
