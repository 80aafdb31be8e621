package templates

import (
	"fmt"
	"html/template"

	"github.com/gsarma/mailrender/internal/email"
)

const (
	defaultDividerColor     = "#e0e0e0"
	defaultDividerThickness = 1
	defaultTextAlign        = "left"
	defaultTextSize         = "medium"
)

// Block layouts chosen by block count.
const (
	layoutSingle  = "single"
	layoutColumns = "columns"
	layoutRows    = "rows"
)

type multiBlockBody struct {
	Layout string
	Blocks []blockView
}

// blockView flattens a block into the fields the markup needs. Only the
// fields relevant to Kind are set.
type blockView struct {
	Kind string
	ID   string

	Title template.HTML
	Text  template.HTML

	ImageURL    string
	ImageAlt    string
	ImageWidth  string
	ImageHeight string
	ButtonText  string
	ButtonURL   string
	Link        string

	Align string
	Size  string
	Style template.CSS
}

type multiBlockRenderer struct {
	opts Options
	tmpl *template.Template
}

func newMultiBlockRenderer(opts Options) (*multiBlockRenderer, error) {
	t, err := parse("multiblock.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse multi-block template: %w", err)
	}
	return &multiBlockRenderer{opts: opts, tmpl: t}, nil
}

func (r *multiBlockRenderer) render(req email.Request) (string, error) {
	mb, ok := req.(*email.MultiBlockRequest)
	if !ok {
		return "", fmt.Errorf("multi-block template cannot render %T", req)
	}

	body := multiBlockBody{
		Layout: layoutFor(len(mb.Blocks)),
		Blocks: make([]blockView, 0, len(mb.Blocks)),
	}
	for i, b := range mb.Blocks {
		body.Blocks = append(body.Blocks, viewOf(b, i))
	}

	return execute(r.tmpl, r.opts.page(mb.Subject(), mb.Preview(), body))
}

func layoutFor(n int) string {
	switch {
	case n == 1:
		return layoutSingle
	case n == 2:
		return layoutColumns
	default:
		return layoutRows
	}
}

func viewOf(b email.Block, index int) blockView {
	id := b.BlockID()
	if id == "" {
		id = fmt.Sprintf("block-%d", index)
	}

	switch b := b.(type) {
	case email.ContentBlock:
		return blockView{
			Kind:        email.BlockContent,
			ID:          id,
			Title:       inlineHTML(b.Title),
			Text:        inlineHTML(b.Text),
			ImageURL:    b.ImageURL,
			ImageAlt:    b.ImageAlt,
			ImageWidth:  formatNumber(b.ImageWidth),
			ImageHeight: formatNumber(b.ImageHeight),
			ButtonText:  b.ButtonText,
			ButtonURL:   b.ButtonURL,
		}
	case email.TextBlock:
		align, size := b.Align, b.Size
		if align == "" {
			align = defaultTextAlign
		}
		if size == "" {
			size = defaultTextSize
		}
		return blockView{Kind: email.BlockText, ID: id, Text: inlineHTML(b.Content), Align: align, Size: size}
	case email.ImageBlock:
		return blockView{
			Kind:        email.BlockImage,
			ID:          id,
			ImageURL:    b.ImageURL,
			ImageAlt:    b.ImageAlt,
			ImageWidth:  formatNumber(b.ImageWidth),
			ImageHeight: formatNumber(b.ImageHeight),
			Link:        b.Link,
		}
	case email.DividerBlock:
		return blockView{Kind: email.BlockDivider, ID: id, Style: dividerStyle(b)}
	default:
		// Renders nothing.
		return blockView{ID: id}
	}
}

// dividerStyle is built from validated values only: a hex color and a
// positive number.
func dividerStyle(b email.DividerBlock) template.CSS {
	color := b.Color
	if color == "" {
		color = defaultDividerColor
	}
	thickness := b.Thickness
	if thickness <= 0 {
		thickness = defaultDividerThickness
	}
	return template.CSS(fmt.Sprintf(
		"border-color: %s; border-width: %spx; border-style: solid; margin: 24px 0",
		color, formatNumber(thickness),
	))
}
