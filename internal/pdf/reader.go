package pdf

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	// glyphWidthRatio estimates a glyph's advance when the font carries no
	// width table.
	glyphWidthRatio = 0.5
	// wordGapRatio is the horizontal gap, relative to the font size, above
	// which two glyphs on one row are separated by a space.
	wordGapRatio = 0.25
	// rowToleranceRatio is the baseline drift, relative to the font size,
	// still counted as the same row.
	rowToleranceRatio = 0.5
)

// Document is an open PDF whose pages can be read as plain text.
// It owns the underlying file until Close is called.
type Document struct {
	path   string
	closer interface{ Close() error }
	reader *pdf.Reader

	closeOnce sync.Once
	closeErr  error
}

// OpenDocument validates the file and opens it for page text extraction
func OpenDocument(path string, maxFileSize int64) (*Document, error) {
	if err := NewValidator(maxFileSize).CheckFile(path); err != nil {
		return nil, err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	return &Document{path: path, closer: f, reader: reader}, nil
}

// Path returns the file the document was opened from
func (d *Document) Path() string {
	return d.path
}

// NumPages returns the number of physical pages
func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// PageText returns the text of a 1-based physical page, one line per
// text row from top to bottom. Rows are rebuilt from the positioned
// glyphs of the content stream, so words the PDF separates by kerning or
// text moves rather than a space character still come out separated.
func (d *Document) PageText(physicalPage int) (text string, err error) {
	if physicalPage < 1 || physicalPage > d.reader.NumPage() {
		return "", fmt.Errorf("invalid page number %d (document has %d pages)", physicalPage, d.reader.NumPage())
	}

	page := d.reader.Page(physicalPage)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d has no page object", physicalPage)
	}

	defer func() {
		// ledongthuc/pdf panics on some malformed content streams
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to extract text from page %d: %v", physicalPage, r)
		}
	}()

	return glyphsToText(page.Content().Text), nil
}

// Close releases the file. Calling it more than once is safe.
func (d *Document) Close() error {
	d.closeOnce.Do(func() {
		if d.closer != nil {
			d.closeErr = d.closer.Close()
		}
	})
	return d.closeErr
}

// glyphsToText groups glyphs into rows by baseline, top row first, and
// renders each row as one line
func glyphsToText(glyphs []pdf.Text) string {
	sorted := make([]pdf.Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var rows [][]pdf.Text
	var rowY, tolerance float64
	for _, g := range sorted {
		if len(rows) == 0 || rowY-g.Y > tolerance {
			rows = append(rows, nil)
			rowY = g.Y
			tolerance = fontSize(g) * rowToleranceRatio
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], g)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, rowText(row))
	}
	return strings.Join(lines, "\n")
}

func rowText(runs []pdf.Text) string {
	ordered := make([]pdf.Text, len(runs))
	copy(ordered, runs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].X < ordered[j].X
	})

	var b strings.Builder
	for i, run := range ordered {
		if i > 0 && needsSpace(ordered[i-1], run) {
			b.WriteByte(' ')
		}
		b.WriteString(run.S)
	}
	return strings.TrimRight(b.String(), " \t")
}

// needsSpace decides from positions whether two adjacent glyphs or runs
// belong to separate words.
func needsSpace(prev, cur pdf.Text) bool {
	if prev.S == "" || cur.S == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(prev.S)
	first, _ := utf8.DecodeRuneInString(cur.S)
	if unicode.IsSpace(last) || unicode.IsSpace(first) {
		return false
	}

	size := fontSize(prev)
	width := prev.W
	if width <= 0 {
		width = float64(utf8.RuneCountInString(prev.S)) * size * glyphWidthRatio
	}
	return cur.X-(prev.X+width) > size*wordGapRatio
}

func fontSize(t pdf.Text) float64 {
	if t.FontSize <= 0 {
		return 1
	}
	return t.FontSize
}
