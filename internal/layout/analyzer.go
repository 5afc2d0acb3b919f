package layout

import (
	"regexp"
	"sort"
	"strings"
)

// Config controls line clustering and table reconstruction behavior.
type Config struct {
	// LineTolerance is the maximum vertical distance, in points, between
	// block tops that still belong to the same line.
	LineTolerance float64

	// ColumnAlignTolerance is the maximum horizontal drift, in points,
	// between cell starts that still count as the same column.
	ColumnAlignTolerance float64

	// MinTableRows is the minimum number of aligned rows required before a
	// run of lines is promoted to a reconstructed table.
	MinTableRows int

	// MinTableColumns is the minimum column count for a reconstructed table.
	MinTableColumns int
}

// DefaultConfig returns the analyzer defaults.
func DefaultConfig() Config {
	return Config{
		LineTolerance:        5.0,
		ColumnAlignTolerance: 10.0,
		MinTableRows:         2,
		MinTableColumns:      2,
	}
}

// Analyzer clusters raw positioned blocks into lines and tables.
type Analyzer struct {
	config Config
}

// NewAnalyzer creates an analyzer with default configuration.
func NewAnalyzer() *Analyzer {
	return &Analyzer{config: DefaultConfig()}
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration.
func NewAnalyzerWithConfig(config Config) *Analyzer {
	return &Analyzer{config: config}
}

// Analyze builds the structural view of a document from per-page blocks and
// any tables the layout collaborator detected natively. It never fails: a
// document in which no structure can be found comes back in flat-text mode.
func (a *Analyzer) Analyze(pages []Page, native []Table) *Document {
	doc := &Document{Pages: pages}

	for _, page := range pages {
		doc.Lines = append(doc.Lines, a.clusterLines(page)...)
	}

	doc.Tables = append(doc.Tables, native...)
	doc.Tables = append(doc.Tables, a.reconstructAligned(doc.Lines)...)
	doc.Tables = append(doc.Tables, a.reconstructWeightRows(doc.Lines)...)

	doc.Flat = a.isFlat(doc)
	return doc
}

// clusterLines groups one page's blocks into lines by vertical proximity.
func (a *Analyzer) clusterLines(page Page) []Line {
	if len(page.Blocks) == 0 {
		return nil
	}

	blocks := make([]TextBlock, len(page.Blocks))
	copy(blocks, page.Blocks)
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Y0 < blocks[j].Y0 })

	var lines []Line
	var current []TextBlock
	currentY := blocks[0].Y0

	flush := func() {
		if len(current) == 0 {
			return
		}
		sortBlocksByX(current)
		var sum float64
		for _, b := range current {
			sum += b.CenterY()
		}
		lines = append(lines, Line{
			Blocks:  current,
			Page:    page.Number,
			YCenter: sum / float64(len(current)),
		})
	}

	for _, b := range blocks {
		if len(current) > 0 && b.Y0-currentY > a.config.LineTolerance {
			flush()
			current = nil
		}
		if len(current) == 0 {
			currentY = b.Y0
		}
		current = append(current, b)
	}
	flush()

	return lines
}

// columnRun tracks a run of consecutive lines sharing column boundaries.
type columnRun struct {
	columns []float64
	rows    [][]string
	page    int
	y0, y1  float64
}

// reconstructAligned rebuilds tables from runs of lines whose cell start
// positions align across consecutive rows. A run line that has no cell in the
// first column is treated as wrapped cell content and joined into the
// previous row.
func (a *Analyzer) reconstructAligned(lines []Line) []Table {
	var tables []Table
	var run *columnRun

	flush := func() {
		if run != nil && len(run.rows) >= a.config.MinTableRows {
			tables = append(tables, Table{
				Rows:    run.rows,
				Headers: run.rows[0],
				Page:    run.page,
				Origin:  TableOriginReconstructed,
				Y0:      run.y0,
				Y1:      run.y1,
			})
		}
		run = nil
	}

	for _, line := range lines {
		if len(line.Blocks) < a.config.MinTableColumns {
			// Single-cell lines inside a run may still be wrapped content of
			// a non-first column; anything else ends the run.
			if run == nil || len(line.Blocks) != 1 || !a.joinContinuation(run, line) {
				flush()
			}
			continue
		}

		if run != nil && (line.Page != run.page || !a.columnsMatch(run.columns, line)) {
			flush()
		}

		if run == nil {
			run = &columnRun{
				columns: blockStarts(line.Blocks),
				page:    line.Page,
				y0:      line.YCenter,
			}
		}
		run.rows = append(run.rows, a.cellsForColumns(run.columns, line))
		run.y1 = line.YCenter
	}
	flush()

	return tables
}

// columnsMatch reports whether every block on the line starts near one of the
// run's column boundaries.
func (a *Analyzer) columnsMatch(columns []float64, line Line) bool {
	for _, b := range line.Blocks {
		if columnIndex(columns, b.X0, a.config.ColumnAlignTolerance) < 0 {
			return false
		}
	}
	return true
}

// cellsForColumns distributes the line's blocks into the run's columns,
// joining blocks that land in the same column.
func (a *Analyzer) cellsForColumns(columns []float64, line Line) []string {
	cells := make([]string, len(columns))
	for _, b := range line.Blocks {
		idx := columnIndex(columns, b.X0, a.config.ColumnAlignTolerance)
		if idx < 0 {
			continue
		}
		text := strings.TrimSpace(b.Text)
		if text == "" {
			continue
		}
		if cells[idx] != "" {
			cells[idx] += " "
		}
		cells[idx] += text
	}
	return cells
}

// joinContinuation merges a single-block line into the previous row when the
// block aligns with a non-first column, producing one logical cell for
// wrapped content. Returns false when the line does not belong to the run.
func (a *Analyzer) joinContinuation(run *columnRun, line Line) bool {
	if line.Page != run.page || len(run.rows) == 0 {
		return false
	}
	b := line.Blocks[0]
	idx := columnIndex(run.columns, b.X0, a.config.ColumnAlignTolerance)
	if idx < 0 {
		return false
	}
	last := run.rows[len(run.rows)-1]
	text := strings.TrimSpace(b.Text)
	if text == "" {
		return true
	}
	if last[idx] != "" {
		last[idx] += " "
	}
	last[idx] += text
	run.y1 = line.YCenter
	return true
}

var trailingPercent = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%?$`)

// reconstructWeightRows catches "fake tables": prose pages where item names
// sit on the left and percentage weights sit flush right. Two or more such
// lines on one page become a two-column table.
func (a *Analyzer) reconstructWeightRows(lines []Line) []Table {
	pageRows := make(map[int][][]string)
	pageSpan := make(map[int][2]float64)

	for _, line := range lines {
		if len(line.Blocks) < 2 {
			continue
		}
		left := strings.TrimSpace(line.LeftText())
		right := strings.TrimSpace(line.RightText())
		if len(left) <= 3 || right == "" {
			continue
		}
		if !trailingPercent.MatchString(right) {
			continue
		}
		rows := append(pageRows[line.Page], []string{left, right})
		pageRows[line.Page] = rows
		span, ok := pageSpan[line.Page]
		if !ok {
			span = [2]float64{line.YCenter, line.YCenter}
		}
		if line.YCenter < span[0] {
			span[0] = line.YCenter
		}
		if line.YCenter > span[1] {
			span[1] = line.YCenter
		}
		pageSpan[line.Page] = span
	}

	var tables []Table
	pages := make([]int, 0, len(pageRows))
	for p := range pageRows {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	for _, p := range pages {
		rows := pageRows[p]
		if len(rows) < a.config.MinTableRows {
			continue
		}
		span := pageSpan[p]
		// The synthetic header leads Rows so reconstructed tables honor the
		// same header-duplication contract as detected ones.
		header := []string{"Item", "Weight"}
		tables = append(tables, Table{
			Rows:    append([][]string{header}, rows...),
			Headers: header,
			Page:    p,
			Origin:  TableOriginReconstructed,
			Y0:      span[0],
			Y1:      span[1],
		})
	}
	return tables
}

// isFlat reports whether the document shows no structure beyond a single
// column of prose.
func (a *Analyzer) isFlat(doc *Document) bool {
	if len(doc.Tables) > 0 {
		return false
	}
	for _, l := range doc.Lines {
		if len(l.Blocks) >= 2 {
			return false
		}
	}
	return true
}

func blockStarts(blocks []TextBlock) []float64 {
	starts := make([]float64, len(blocks))
	for i, b := range blocks {
		starts[i] = b.X0
	}
	return starts
}

// columnIndex returns the index of the column whose start is within tol of x,
// or -1 when none is.
func columnIndex(columns []float64, x, tol float64) int {
	for i, c := range columns {
		if x >= c-tol && x <= c+tol {
			return i
		}
	}
	return -1
}
