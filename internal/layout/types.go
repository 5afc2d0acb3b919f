// Package layout turns raw positioned text blocks into an ordered structural
// view of a document: lines clustered by vertical proximity and tables, either
// natively detected or reconstructed from column-aligned lines. It is the
// first pipeline stage and never fails; when no structure can be inferred the
// document degrades to a flat-text view.
package layout

import (
	"sort"
	"strings"
)

// TextBlock is a single positioned span of text as reported by the document
// layout collaborator. Coordinates follow reading order: Y0 is the top of the
// block and grows downward.
type TextBlock struct {
	Text     string  `json:"text"`
	Page     int     `json:"page"`
	X0       float64 `json:"x0"`
	Y0       float64 `json:"y0"`
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	FontSize float64 `json:"font_size"`
	Bold     bool    `json:"bold"`
}

// Width returns the horizontal extent of the block.
func (b TextBlock) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent of the block.
func (b TextBlock) Height() float64 { return b.Y1 - b.Y0 }

// CenterX returns the horizontal midpoint.
func (b TextBlock) CenterX() float64 { return (b.X0 + b.X1) / 2 }

// CenterY returns the vertical midpoint.
func (b TextBlock) CenterY() float64 { return (b.Y0 + b.Y1) / 2 }

// Page holds the positioned blocks of one document page.
type Page struct {
	Number int         `json:"number"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Blocks []TextBlock `json:"blocks"`
}

// Line is an ordered group of blocks sharing a y-band on one page. Blocks are
// kept sorted left to right.
type Line struct {
	Blocks  []TextBlock `json:"blocks"`
	Page    int         `json:"page"`
	YCenter float64     `json:"y_center"`
}

// Text joins the line's blocks left to right with single spaces.
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		if s := strings.TrimSpace(b.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// LeftText returns the text of blocks starting left of the line midpoint.
func (l Line) LeftText() string {
	return l.halfText(true)
}

// RightText returns the text of blocks starting at or right of the midpoint.
func (l Line) RightText() string {
	return l.halfText(false)
}

func (l Line) halfText(left bool) string {
	if len(l.Blocks) == 0 {
		return ""
	}
	mid := (l.Blocks[0].X0 + l.Blocks[len(l.Blocks)-1].X1) / 2
	parts := make([]string, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		s := strings.TrimSpace(b.Text)
		if s == "" {
			continue
		}
		if (left && b.X0 < mid) || (!left && b.X0 >= mid) {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// MaxFontSize returns the largest font size on the line.
func (l Line) MaxFontSize() float64 {
	max := 0.0
	for _, b := range l.Blocks {
		if b.FontSize > max {
			max = b.FontSize
		}
	}
	if max == 0 {
		return defaultFontSize
	}
	return max
}

// HasBold reports whether any block on the line is bold.
func (l Line) HasBold() bool {
	for _, b := range l.Blocks {
		if b.Bold {
			return true
		}
	}
	return false
}

// TableOrigin records how a table was obtained.
type TableOrigin string

const (
	// TableOriginDetected marks tables supplied by the layout collaborator's
	// native table detection.
	TableOriginDetected TableOrigin = "detected"
	// TableOriginReconstructed marks tables rebuilt from column-aligned lines.
	TableOriginReconstructed TableOrigin = "reconstructed"
)

// Table is a 2D grid of cell text. Headers, when known, duplicate the first
// row of Rows.
type Table struct {
	Rows    [][]string  `json:"rows"`
	Headers []string    `json:"headers,omitempty"`
	Page    int         `json:"page"`
	Origin  TableOrigin `json:"origin"`
	Y0      float64     `json:"y0"`
	Y1      float64     `json:"y1"`
}

// NumRows returns the number of rows including any header row.
func (t Table) NumRows() int { return len(t.Rows) }

// NumCols returns the widest row's cell count.
func (t Table) NumCols() int {
	max := 0
	for _, row := range t.Rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// HeaderText joins the header cells for keyword matching.
func (t Table) HeaderText() string {
	return strings.ToLower(strings.Join(t.Headers, " "))
}

// Document is the analyzer's output: lines in reading order across all
// pages, tables, and a flat-text degrade flag.
type Document struct {
	Pages  []Page  `json:"pages"`
	Lines  []Line  `json:"lines"`
	Tables []Table `json:"tables"`

	// Flat is set when no coherent structure beyond a single column of text
	// was detected; only the prose extraction path should consume the result.
	Flat bool `json:"flat"`
}

// Text joins every line of the document in reading order.
func (d *Document) Text() string {
	parts := make([]string, 0, len(d.Lines))
	for _, l := range d.Lines {
		parts = append(parts, l.Text())
	}
	return strings.Join(parts, "\n")
}

// AverageFontSize returns the mean font size across all blocks, or a default
// when the document carries no size information.
func (d *Document) AverageFontSize() float64 {
	var total float64
	var count int
	for _, l := range d.Lines {
		for _, b := range l.Blocks {
			if b.FontSize > 0 {
				total += b.FontSize
				count++
			}
		}
	}
	if count == 0 {
		return defaultFontSize
	}
	return total / float64(count)
}

// LineBefore reports whether line index i starts before table t in reading
// order (page, then vertical position).
func (d *Document) LineBefore(i int, t Table) bool {
	l := d.Lines[i]
	if l.Page != t.Page {
		return l.Page < t.Page
	}
	return l.YCenter < t.Y0
}

const defaultFontSize = 12.0

func sortBlocksByX(blocks []TextBlock) {
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].X0 < blocks[j].X0 })
}
