// Package pdfio reads course outline PDFs from disk and converts them into
// positioned text pages for layout analysis. pdfcpu validates the file
// structure; ledongthuc/pdf supplies the positioned text runs.
package pdfio

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/KalpKan/Plato/internal/layout"
)

const (
	// defaultPageWidth and defaultPageHeight are US Letter in points, used
	// when a page carries no MediaBox.
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0

	// defaultTextHeight approximates glyph height when the font size is
	// missing from a text run.
	defaultTextHeight = 12.0
)

// Config holds loader constraints.
type Config struct {
	MaxFileSize int64
	MaxPages    int
}

// DefaultConfig returns loader constraints suitable for course outlines.
func DefaultConfig() Config {
	return Config{
		MaxFileSize: 50 * 1024 * 1024,
		MaxPages:    20,
	}
}

// Loader validates and reads PDF files into positioned text pages.
type Loader struct {
	config Config
	logger *zap.Logger
}

// NewLoader creates a loader with the given constraints.
func NewLoader(config Config, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		config: config,
		logger: logger,
	}
}

// Validate performs file-level and structural checks without extracting text.
// It returns the page count on success.
func (l *Loader) Validate(path string) (int, error) {
	if err := l.checkFile(path); err != nil {
		return 0, err
	}
	return l.validateStructure(path)
}

// Load validates the file and extracts positioned text from every page up to
// the configured page limit.
func (l *Loader) Load(path string) ([]layout.Page, error) {
	pageCount, err := l.Validate(path)
	if err != nil {
		return nil, err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	if reader.NumPage() < pageCount {
		pageCount = reader.NumPage()
	}
	if pageCount > l.config.MaxPages {
		l.logger.Warn("page count exceeds limit, truncating",
			zap.Int("pages", pageCount),
			zap.Int("limit", l.config.MaxPages))
		pageCount = l.config.MaxPages
	}

	pages := make([]layout.Page, 0, pageCount)
	for n := 1; n <= pageCount; n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}

		width, height := pageSize(page)
		content := page.Content()
		blocks := toBlocks(content.Text, n, height)

		pages = append(pages, layout.Page{
			Number: n,
			Width:  width,
			Height: height,
			Blocks: blocks,
		})
	}

	l.logger.Debug("loaded PDF",
		zap.String("path", path),
		zap.Int("pages", len(pages)))

	return pages, nil
}

// checkFile performs basic validation on the file before opening it.
func (l *Loader) checkFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}

	if fileInfo.Size() > l.config.MaxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), l.config.MaxFileSize)
	}

	return nil
}

// validateStructure opens the file with pdfcpu in relaxed mode and returns
// the page count. Outlines from campus systems are frequently produced by
// sloppy generators, so strict validation would reject usable files.
func (l *Loader) validateStructure(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	conf := pdfcpumodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfcpumodel.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return 0, fmt.Errorf("invalid PDF structure: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("cannot determine page count: %w", err)
	}

	return ctx.PageCount, nil
}

// pageSize reads the page MediaBox, falling back to US Letter.
func pageSize(page pdf.Page) (width, height float64) {
	width, height = defaultPageWidth, defaultPageHeight

	box := page.V.Key("MediaBox")
	if box.IsNull() || box.Len() != 4 {
		return width, height
	}

	x0 := box.Index(0).Float64()
	y0 := box.Index(1).Float64()
	x1 := box.Index(2).Float64()
	y1 := box.Index(3).Float64()
	if x1 > x0 && y1 > y0 {
		width = x1 - x0
		height = y1 - y0
	}
	return width, height
}

// toBlocks converts raw text runs into positioned blocks. PDF coordinates
// grow upward from the page bottom; block coordinates grow downward from the
// top, so the vertical axis is flipped here. Runs that share a baseline and
// nearly touch are merged into single blocks.
func toBlocks(texts []pdf.Text, pageNum int, pageHeight float64) []layout.TextBlock {
	blocks := make([]layout.TextBlock, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}

		height := t.FontSize
		if height == 0 {
			height = defaultTextHeight
		}

		blocks = append(blocks, layout.TextBlock{
			Text:     t.S,
			Page:     pageNum,
			X0:       t.X,
			Y0:       pageHeight - (t.Y + height),
			X1:       t.X + t.W,
			Y1:       pageHeight - t.Y,
			FontSize: t.FontSize,
			Bold:     isBoldFont(t.Font),
		})
	}
	return mergeAdjacent(blocks)
}

// mergeAdjacent joins consecutive blocks on the same baseline separated by
// less than a third of the font size. Many generators emit one run per word
// or per glyph cluster; merging keeps downstream clustering from treating
// fragments of one phrase as separate columns.
func mergeAdjacent(blocks []layout.TextBlock) []layout.TextBlock {
	if len(blocks) < 2 {
		return blocks
	}

	merged := make([]layout.TextBlock, 0, len(blocks))
	current := blocks[0]
	for _, b := range blocks[1:] {
		if sameBaseline(current, b) && joinable(current, b) {
			if b.X0-current.X1 > glyphGap(current)*0.2 {
				current.Text += " "
			}
			current.Text += b.Text
			if b.X1 > current.X1 {
				current.X1 = b.X1
			}
			if b.Y0 < current.Y0 {
				current.Y0 = b.Y0
			}
			if b.Y1 > current.Y1 {
				current.Y1 = b.Y1
			}
			continue
		}
		merged = append(merged, current)
		current = b
	}
	merged = append(merged, current)
	return merged
}

func sameBaseline(a, b layout.TextBlock) bool {
	diff := a.Y1 - b.Y1
	if diff < 0 {
		diff = -diff
	}
	return diff < glyphGap(a)/4
}

// joinable limits merging to runs in reading order with a gap below one
// glyph width. Larger gaps usually mean separate table columns.
func joinable(a, b layout.TextBlock) bool {
	if b.X0 < a.X1-glyphGap(a)/4 {
		return false
	}
	return b.X0-a.X1 < glyphGap(a)
}

func glyphGap(b layout.TextBlock) float64 {
	if b.FontSize > 0 {
		return b.FontSize
	}
	return defaultTextHeight
}

// isBoldFont reports whether a font name indicates a bold face.
func isBoldFont(font string) bool {
	lower := strings.ToLower(font)
	return strings.Contains(lower, "bold") || strings.Contains(lower, "black") ||
		strings.Contains(lower, "heavy")
}
