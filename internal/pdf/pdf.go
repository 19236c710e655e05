// Package pdf renders report tables as landscape A4 documents.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// DefaultWidths is the grid span of each report column (12 in total).
var DefaultWidths = []int{1, 2, 1, 1, 1, 1, 1, 1, 1, 2}

const (
	titleHeight  = 12
	headerHeight = 8
	rowHeight    = 6
	fontSize     = 7
)

var headerFill = &props.Color{Red: 220, Green: 220, Blue: 220}

// Renderer draws a title and a striped table.
type Renderer struct {
	widths []int
}

// NewRenderer returns a Renderer using widths, or DefaultWidths when nil.
func NewRenderer(widths []int) *Renderer {
	if widths == nil {
		widths = DefaultWidths
	}
	return &Renderer{widths: widths}
}

// Render lays out the table. headers and every row must have one cell per
// configured column.
func (r *Renderer) Render(title string, headers []string, rows [][]string) ([]byte, error) {
	if len(headers) != len(r.widths) {
		return nil, fmt.Errorf("pdf: %d headers for %d columns", len(headers), len(r.widths))
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).
		WithRightMargin(10).
		WithTopMargin(10).
		Build()
	m := maroto.New(cfg)

	m.AddRow(titleHeight, text.NewCol(12, title, props.Text{
		Size:  14,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))
	// The header repeats on every page.
	if err := m.RegisterHeader(r.line(headers, headerHeight, fontstyle.Bold).WithStyle(&props.Cell{BackgroundColor: headerFill})); err != nil {
		return nil, fmt.Errorf("pdf: header: %w", err)
	}
	for i, cells := range rows {
		if len(cells) != len(r.widths) {
			return nil, fmt.Errorf("pdf: row %d has %d cells, want %d", i, len(cells), len(r.widths))
		}
		m.AddRows(r.line(cells, rowHeight, fontstyle.Normal))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate: %w", err)
	}
	return doc.GetBytes(), nil
}

func (r *Renderer) line(cells []string, height float64, style fontstyle.Type) core.Row {
	cols := make([]core.Col, len(cells))
	for i, c := range cells {
		cols[i] = text.NewCol(r.widths[i], c, props.Text{
			Size:  fontSize,
			Style: style,
			Top:   1.5,
			Left:  1,
		})
	}
	return row.New(height).Add(cols...)
}
