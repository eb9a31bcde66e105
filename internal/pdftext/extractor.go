// Package pdftext extracts the text layer of a PDF page by page.
//
// Text is rebuilt row by row from the positioned fragments reported by
// github.com/ledongthuc/pdf, so each printed line of the purchase order comes
// out as one line of text. Scanned (image-only) PDFs have no text layer and
// yield empty pages.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"math"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument is returned when the input holds no bytes.
var ErrEmptyDocument = errors.New("empty PDF document")

const (
	// gapFactor is the horizontal gap, as a fraction of the font size, above
	// which two fragments on the same row are separated by a space.
	gapFactor = 0.15

	// Glyphs whose baselines differ by less than rowToleranceFactor times
	// the font size belong to the same row; rowTolerance (points) applies
	// when the size is unknown.
	rowToleranceFactor = 0.3
	rowTolerance       = 2.0
)

// Document is an opened PDF.
type Document struct {
	file   *os.File
	reader *pdf.Reader
}

// Open opens the PDF at path. The caller must Close the document.
func Open(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &Document{file: f, reader: r}, nil
}

// NewDocument reads a PDF held in memory.
func NewDocument(content []byte) (*Document, error) {
	if len(content) == 0 {
		return nil, ErrEmptyDocument
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &Document{reader: r}, nil
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// Pages yields the text of every page in order. Pages that are missing or
// whose text cannot be decoded yield an empty string. The sequence can be
// ranged over more than once.
func (d *Document) Pages() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 1; i <= d.reader.NumPage(); i++ {
			if !yield(d.PageText(i)) {
				return
			}
		}
	}
}

// PageText returns the text of page n (1-based), or "" when it has none.
func (d *Document) PageText(n int) string {
	page := d.reader.Page(n)
	if page.V.IsNull() {
		return ""
	}
	return joinRows(groupRows(page.Content().Text))
}

// Close releases the underlying file, if any.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

// row is one printed line: the glyphs sharing a baseline.
type row struct {
	y     float64
	texts []pdf.Text
}

// groupRows buckets positioned glyphs into rows by baseline. Glyphs keep
// their content-stream order inside a row.
func groupRows(texts []pdf.Text) []row {
	var rows []row
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		tolerance := rowTolerance
		if t.FontSize > 0 {
			tolerance = t.FontSize * rowToleranceFactor
		}

		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-t.Y) < tolerance {
				rows[i].texts = append(rows[i].texts, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, row{y: t.Y, texts: []pdf.Text{t}})
		}
	}
	return rows
}

// joinRows renders rows top to bottom, one line per row.
func joinRows(rows []row) string {
	sorted := slices.Clone(rows)
	// PDF y coordinates grow upwards.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].y > sorted[j].y
	})

	var b strings.Builder
	for _, r := range sorted {
		line := JoinFragments(r.texts)
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// JoinFragments assembles the fragments of one row into a line, left to
// right, inserting a single space where fragments are visibly apart.
func JoinFragments(texts []pdf.Text) string {
	frags := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			frags = append(frags, t)
		}
	}
	sort.SliceStable(frags, func(i, j int) bool { return frags[i].X < frags[j].X })

	var b strings.Builder
	for i, t := range frags {
		if i > 0 {
			prev := frags[i-1]
			gap := t.X - (prev.X + prev.W)
			threshold := gapFactor * t.FontSize
			if threshold <= 0 {
				threshold = 1
			}
			if gap > threshold && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
