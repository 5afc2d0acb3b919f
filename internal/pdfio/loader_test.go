package pdfio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()

	goodPath := filepath.Join(dir, "outline.pdf")
	require.NoError(t, os.WriteFile(goodPath, []byte("%PDF-1.4 not a real pdf"), 0o600))

	emptyPath := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0o600))

	textPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("hello"), 0o600))

	bigPath := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(bigPath, make([]byte, 2048), 0o600))

	loader := NewLoader(Config{MaxFileSize: 1024, MaxPages: 20}, nil)

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "valid file passes", path: goodPath},
		{name: "empty path", path: "", wantErr: "path cannot be empty"},
		{name: "missing file", path: filepath.Join(dir, "nope.pdf"), wantErr: "does not exist"},
		{name: "directory", path: dir, wantErr: "directory"},
		{name: "wrong extension", path: textPath, wantErr: "not a PDF"},
		{name: "empty file", path: emptyPath, wantErr: "empty"},
		{name: "over size limit", path: bigPath, wantErr: "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loader.checkFile(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf at all"), 0o600))

	loader := NewLoader(DefaultConfig(), nil)

	_, err := loader.Validate(path)
	assert.Error(t, err)
}

func TestIsBoldFont(t *testing.T) {
	tests := []struct {
		font string
		want bool
	}{
		{"Helvetica-Bold", true},
		{"Arial-BoldMT", true},
		{"ArialBlack", true},
		{"Roboto-Heavy", true},
		{"Helvetica", false},
		{"Times-Italic", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.font, func(t *testing.T) {
			assert.Equal(t, tt.want, isBoldFont(tt.font))
		})
	}
}

func TestToBlocksFlipsVerticalAxis(t *testing.T) {
	// A run near the top of a 792pt page has a large PDF Y.
	texts := []pdf.Text{
		{S: "Course Outline", X: 72, Y: 750, W: 120, Font: "Helvetica-Bold", FontSize: 18},
	}

	blocks := toBlocks(texts, 1, 792)
	require.Len(t, blocks, 1)

	b := blocks[0]
	assert.Equal(t, "Course Outline", b.Text)
	assert.Equal(t, 1, b.Page)
	assert.True(t, b.Bold)
	assert.InDelta(t, 24, b.Y0, 0.01)  // 792 - (750 + 18)
	assert.InDelta(t, 42, b.Y1, 0.01)  // 792 - 750
	assert.InDelta(t, 192, b.X1, 0.01) // 72 + 120
}

func TestToBlocksSkipsWhitespaceRuns(t *testing.T) {
	texts := []pdf.Text{
		{S: "   ", X: 72, Y: 700, W: 10, FontSize: 12},
		{S: "Midterm", X: 90, Y: 700, W: 50, FontSize: 12},
	}

	blocks := toBlocks(texts, 1, 792)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Midterm", blocks[0].Text)
}

func TestMergeAdjacentJoinsWordsOnOneBaseline(t *testing.T) {
	// Three runs of one phrase, emitted word by word with small gaps.
	texts := []pdf.Text{
		{S: "Final", X: 72, Y: 700, W: 30, FontSize: 12},
		{S: "Examination", X: 105, Y: 700, W: 70, FontSize: 12},
		{S: "40%", X: 400, Y: 700, W: 25, FontSize: 12},
	}

	blocks := toBlocks(texts, 1, 792)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Final Examination", blocks[0].Text)
	assert.Equal(t, "40%", blocks[1].Text)
	assert.InDelta(t, 175, blocks[0].X1, 0.01)
}

func TestMergeAdjacentKeepsSeparateBaselines(t *testing.T) {
	texts := []pdf.Text{
		{S: "Quizzes", X: 72, Y: 700, W: 45, FontSize: 12},
		{S: "20%", X: 120, Y: 650, W: 25, FontSize: 12},
	}

	blocks := toBlocks(texts, 1, 792)
	assert.Len(t, blocks, 2)
}
