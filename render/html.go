// Package render turns laid-out cards into documents. The HTML renderer is the
// primary output; the text renderer gives a quick terminal preview of the same
// grid.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/Parkreiner/namebingo"
)

// ContentType is the media type of documents produced by HTML and Document.
const ContentType = "text/html; charset=utf-8"

// Options holds the optional text surrounding the grid. A nil field is left
// out of the document entirely.
type Options struct {
	// Title is used both as the document title and as a heading.
	Title *string
	// Description is rendered as a paragraph after the grid.
	Description *string
}

var pageTemplate = template.Must(template.New("card").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
{{if .HasTitle}}<title>{{.Title}}</title>
{{end}}<style>{{.Style}}</style>
</head>
<body>
{{if .HasTitle}}<h1>{{.Title}}</h1>
{{end}}<div class="bingo-grid">
{{range .Cells}}<div class="bingo-cell {{.Kind}}-cell"><p>{{.Value}}</p></div>
{{end}}</div>
{{if .HasDescription}}<p class="bingo-description">{{.Description}}</p>
{{end}}</body>
</html>
`))

type pageData struct {
	HasTitle       bool
	Title          string
	HasDescription bool
	Description    string
	Style          template.CSS
	Cells          []pageCell
}

type pageCell struct {
	Kind  string
	Value string
}

func newPageData(card *bingo.Card, opts Options) pageData {
	data := pageData{
		Style: template.CSS(Stylesheet(card.Spec)),
		Cells: make([]pageCell, len(card.Cells)),
	}
	if opts.Title != nil {
		data.HasTitle, data.Title = true, *opts.Title
	}
	if opts.Description != nil {
		data.HasDescription, data.Description = true, *opts.Description
	}
	for i, cell := range card.Cells {
		data.Cells[i] = pageCell{Kind: cell.Kind.String(), Value: cell.Value}
	}
	return data
}

// Document returns a templ component that writes the full HTML page for card.
// The output depends only on the cells, the grid dimensions, and opts, so two
// renders of the same card are byte-identical.
func Document(card *bingo.Card, opts Options) (templ.Component, error) {
	if err := card.CheckShape(); err != nil {
		return nil, err
	}

	data := newPageData(card, opts)
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pageTemplate.Execute(w, data)
	}), nil
}

// HTML renders card into a standalone HTML document. Nothing is returned
// unless the whole page rendered.
func HTML(card *bingo.Card, opts Options) ([]byte, error) {
	component, err := Document(card, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := component.Render(context.Background(), &buf); err != nil {
		return nil, fmt.Errorf("rendering card %s: %w", card.ID, err)
	}
	return buf.Bytes(), nil
}

// Stylesheet returns the CSS that lays the grid out with spec.Width columns and
// spec.Height rows of square cells.
func Stylesheet(spec bingo.GridSpec) string {
	return fmt.Sprintf(`
* {
    box-sizing: border-box;
    padding: 0;
    margin: 0;
}

h1, .bingo-description {
    margin: 1em;
}

.bingo-grid {
    margin: 1em;
    display: grid;
    grid-template-columns: repeat(%d, minmax(100px, 1fr));
    grid-template-rows: repeat(%d, minmax(100px, 1fr));
    grid-gap: 1em;
}

.bingo-grid div {
    aspect-ratio: 1;

    display: flex;
    align-items: center;
    justify-content: center;
    text-align: center;
}

.center-cell { background-color: red; }
.normal-cell { background-color: lightgrey; }
`, spec.Width, spec.Height)
}
