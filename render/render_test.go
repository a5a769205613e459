package render_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parkreiner/namebingo"
	"github.com/Parkreiner/namebingo/render"
)

func ptr(s string) *string { return &s }

func sampleCard() *bingo.Card {
	return &bingo.Card{
		Spec: bingo.GridSpec{Width: 3, Height: 3},
		Cells: []bingo.Cell{
			{Value: "Alice"}, {Value: "Bob"}, {Value: "Carol"},
			{Value: "Dave"}, {Value: "FREE", Kind: bingo.CellKindCenter}, {Value: "Eve"},
			{Value: "Joker"}, {Value: "Joker"}, {Value: "Joker"},
		},
	}
}

func TestHTMLStructure(t *testing.T) {
	t.Parallel()

	out, err := render.HTML(sampleCard(), render.Options{
		Title:       ptr("Team Bingo"),
		Description: ptr("Find someone who..."),
	})
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>Team Bingo</title>")
	assert.Contains(t, doc, "<h1>Team Bingo</h1>")
	assert.Contains(t, doc, `<p class="bingo-description">Find someone who...</p>`)
	assert.Contains(t, doc, "grid-template-columns: repeat(3, minmax(100px, 1fr));")
	assert.Contains(t, doc, "grid-template-rows: repeat(3, minmax(100px, 1fr));")
	assert.Equal(t, 9, strings.Count(doc, `<div class="bingo-cell `))
	assert.Equal(t, 1, strings.Count(doc, `<div class="bingo-cell center-cell"><p>FREE</p></div>`))
	assert.Equal(t, 8, strings.Count(doc, `<div class="bingo-cell normal-cell">`))

	// Row-major order is kept.
	assert.Less(t, strings.Index(doc, "<p>Alice</p>"), strings.Index(doc, "<p>Bob</p>"))
	assert.Less(t, strings.Index(doc, "<p>Carol</p>"), strings.Index(doc, "<p>Dave</p>"))
	assert.Less(t, strings.Index(doc, "<p>Eve</p>"), strings.Index(doc, "<p>Joker</p>"))

	// The description trails the grid.
	assert.Less(t, strings.Index(doc, `class="bingo-grid"`), strings.Index(doc, `class="bingo-description"`))
}

func TestHTMLWithoutOptionalText(t *testing.T) {
	t.Parallel()

	out, err := render.HTML(sampleCard(), render.Options{})
	require.NoError(t, err)
	doc := string(out)

	assert.NotContains(t, doc, "<title>")
	assert.NotContains(t, doc, "<h1>")
	assert.NotContains(t, doc, `<p class="bingo-description">`)
}

func TestHTMLEscapesText(t *testing.T) {
	t.Parallel()

	card := &bingo.Card{
		Spec:  bingo.GridSpec{Width: 1, Height: 1},
		Cells: []bingo.Cell{{Value: `<script>alert("x")</script>`}},
	}
	out, err := render.HTML(card, render.Options{Title: ptr("Tom & Jerry")})
	require.NoError(t, err)
	doc := string(out)

	assert.NotContains(t, doc, "<script>")
	assert.Contains(t, doc, "&lt;script&gt;")
	assert.Contains(t, doc, "Tom &amp; Jerry")
}

func TestHTMLCellTextCannotAddMarkup(t *testing.T) {
	t.Parallel()

	card := &bingo.Card{
		Spec: bingo.GridSpec{Width: 2, Height: 1},
		Cells: []bingo.Cell{
			{Value: `</p></div><div class="bingo-cell center-cell"><p>fake`},
			{Value: `O'Brien & "Sons"`},
		},
	}
	out, err := render.HTML(card, render.Options{
		Title:       ptr("</title><style>*{display:none}</style>"),
		Description: ptr("<b>bold</b>"),
	})
	require.NoError(t, err)
	doc := string(out)

	assert.Equal(t, 2, strings.Count(doc, `<div class="bingo-cell `))
	assert.NotContains(t, doc, "center-cell\"><p>")
	assert.Equal(t, 1, strings.Count(doc, "<style>"))
	assert.NotContains(t, doc, "<b>")
	assert.Contains(t, doc, "O&#39;Brien &amp; &#34;Sons&#34;")
}

func TestHTMLIsDeterministic(t *testing.T) {
	t.Parallel()

	opts := render.Options{Title: ptr("t"), Description: ptr("d")}
	first, err := render.HTML(sampleCard(), opts)
	require.NoError(t, err)

	card := sampleCard()
	card.ID[0] = 0xff // the ID is not part of the document
	second, err := render.HTML(card, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDocumentComponentMatchesHTML(t *testing.T) {
	t.Parallel()

	component, err := render.Document(sampleCard(), render.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &buf))

	want, err := render.HTML(sampleCard(), render.Options{})
	require.NoError(t, err)
	assert.Equal(t, want, buf.Bytes())
}

func TestHTMLEmptyGrid(t *testing.T) {
	t.Parallel()

	card := &bingo.Card{Spec: bingo.GridSpec{Width: 0, Height: 4}}
	out, err := render.HTML(card, render.Options{})
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "<div class=\"bingo-grid\">\n</div>")
	assert.NotContains(t, doc, "bingo-cell")
}

func TestRenderRejectsMismatchedCard(t *testing.T) {
	t.Parallel()

	card := sampleCard()
	card.Cells = card.Cells[:8]

	_, err := render.HTML(card, render.Options{})
	assert.ErrorIs(t, err, bingo.ErrInvariantViolation)

	_, err = render.Document(card, render.Options{})
	assert.ErrorIs(t, err, bingo.ErrInvariantViolation)

	_, err = render.Text(card)
	assert.ErrorIs(t, err, bingo.ErrInvariantViolation)
}

func TestText(t *testing.T) {
	t.Parallel()

	out, err := render.Text(sampleCard())
	require.NoError(t, err)

	for _, name := range []string{"Alice", "Bob", "Carol", "Dave", "FREE", "Eve", "Joker"} {
		assert.Contains(t, out, name)
	}
	assert.Less(t, strings.Index(out, "Alice"), strings.Index(out, "Dave"))
}

func TestStylesheetFollowsSpec(t *testing.T) {
	t.Parallel()

	css := render.Stylesheet(bingo.GridSpec{Width: 7, Height: 2})
	assert.Contains(t, css, "repeat(7, minmax(100px, 1fr))")
	assert.Contains(t, css, "repeat(2, minmax(100px, 1fr))")
	assert.Contains(t, css, ".center-cell")
	assert.Contains(t, css, ".normal-cell")
}
