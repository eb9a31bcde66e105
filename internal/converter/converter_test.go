package converter

import (
	"errors"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/edithor/internal/corrections"
)

type fakeDocument struct {
	pages  []string
	closed bool
}

func (d *fakeDocument) Pages() iter.Seq[string] { return slices.Values(d.pages) }
func (d *fakeDocument) Close() error            { d.closed = true; return nil }

func opener(doc *fakeDocument) OpenFunc {
	return func(string) (PageSource, error) { return doc, nil }
}

func newTemplate(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	path := filepath.Join(t.TempDir(), "EDI.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func page(lines ...string) string {
	return strings.Join(lines, "\n")
}

var twoOrders = []string{
	page(
		"Commande n° 4500012",
		"Document : 12/03/2025",
		"Client BAK FRANCE SUPER U BAK 75",
		"111 222 333 Widget A 5 10 12,50",
		"Montant total ht commande : 1 234,50",
		"Récapitulatif",
	),
	page(
		"Commande n° 4500013",
		"Client BAK FRANCE LECLERC",
		"1 2 999 Gadget 1 1 3,00",
		"Montant total ht commande : 10,00",
	),
}

func TestRun_WritesOneFilePerOrder(t *testing.T) {
	out := t.TempDir()
	doc := &fakeDocument{pages: twoOrders}
	table := corrections.NewFromMap(map[string]string{"333": "3760001"})

	c := New(Options{TemplatePath: newTemplate(t), OutputDir: out}, table, nil).WithOpener(opener(doc))
	result := c.Run("orders.pdf")

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.True(t, doc.closed)
	assert.Equal(t, []string{
		filepath.Join(out, "SUPER_U_4500012.xlsx"),
		filepath.Join(out, "LECLERC_4500013.xlsx"),
	}, result.OutputFiles)
	assert.Equal(t, 2, result.Stats.Pages)
	assert.Equal(t, 2, result.Stats.OrdersParsed)
	assert.Equal(t, 2, result.Stats.OrdersWritten)
	assert.Equal(t, 2, result.Stats.LineItems)
	assert.Equal(t, "1244.5", result.TotalAmount.String())

	f, err := excelize.OpenFile(result.OutputFiles[0])
	require.NoError(t, err)
	defer f.Close()
	id, err := f.GetCellValue(f.GetSheetName(0), "C4")
	require.NoError(t, err)
	assert.Equal(t, "3760001", id)
}

func TestRun_SkipsOrdersWithoutItems(t *testing.T) {
	doc := &fakeDocument{pages: []string{page(
		"Commande n° 1",
		"Commande n° 2",
		"5 6 777 Thing 1 2 3,00",
	)}}

	c := New(Options{TemplatePath: newTemplate(t), OutputDir: t.TempDir()}, nil, nil).WithOpener(opener(doc))
	result := c.Run("orders.pdf")

	require.True(t, result.Success)
	assert.Len(t, result.Orders, 2)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.OutputFiles, 1)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	out := t.TempDir()
	doc := &fakeDocument{pages: twoOrders}

	c := New(Options{TemplatePath: "missing.xlsx", OutputDir: out, DryRun: true}, nil, nil).WithOpener(opener(doc))
	result := c.Run("orders.pdf")

	require.True(t, result.Success)
	assert.Empty(t, result.OutputFiles)
	assert.Len(t, result.Orders, 2)

	entries, err := filepath.Glob(filepath.Join(out, "*"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_MissingTemplate(t *testing.T) {
	doc := &fakeDocument{pages: twoOrders}
	c := New(Options{TemplatePath: filepath.Join(t.TempDir(), "absent.xlsx"), OutputDir: t.TempDir()}, nil, nil).
		WithOpener(opener(doc))

	result := c.Run("orders.pdf")
	assert.False(t, result.Success)
	assert.Error(t, result.Error)
	assert.Empty(t, result.OutputFiles)
}

func TestRun_OpenFailure(t *testing.T) {
	boom := errors.New("not a pdf")
	c := New(Options{TemplatePath: newTemplate(t), OutputDir: t.TempDir()}, nil, nil).
		WithOpener(func(string) (PageSource, error) { return nil, boom })

	result := c.Run("broken.pdf")
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, boom)
	assert.Equal(t, "broken.pdf", result.FilePath)
}

func TestRun_EmptyDocument(t *testing.T) {
	doc := &fakeDocument{pages: []string{"", ""}}
	c := New(Options{TemplatePath: newTemplate(t), OutputDir: t.TempDir()}, nil, nil).WithOpener(opener(doc))

	result := c.Run("scan.pdf")
	assert.True(t, result.Success)
	assert.Empty(t, result.Orders)
	assert.Equal(t, 2, result.Stats.Pages)
	assert.True(t, result.TotalAmount.IsZero())
}

func TestRun_KeepsFilesWrittenBeforeFailure(t *testing.T) {
	out := t.TempDir()
	// A directory squatting on the second order's file name makes its save fail.
	require.NoError(t, os.Mkdir(filepath.Join(out, "LECLERC_4500013.xlsx"), 0755))
	doc := &fakeDocument{pages: twoOrders}

	c := New(Options{TemplatePath: newTemplate(t), OutputDir: out}, nil, nil).WithOpener(opener(doc))
	result := c.Run("orders.pdf")

	assert.False(t, result.Success)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "4500013")
	assert.Equal(t, []string{filepath.Join(out, "SUPER_U_4500012.xlsx")}, result.OutputFiles)
	assert.Equal(t, 1, result.Stats.OrdersWritten)
	assert.FileExists(t, result.OutputFiles[0])
}

// writeOrderPDF prints each line of lines as one cell of a single page.
func writeOrderPDF(t *testing.T, path string, lines ...string) {
	t.Helper()
	f := gofpdf.New("P", "mm", "A4", "")
	tr := f.UnicodeTranslatorFromDescriptor("")
	f.SetFont("Helvetica", "", 11)
	f.AddPage()
	for _, line := range lines {
		f.CellFormat(0, 8, tr(line), "", 1, "L", false, 0, "")
	}
	require.NoError(t, f.OutputFileAndClose(path))
}

func TestRun_ReadsPrintedPDF(t *testing.T) {
	out := t.TempDir()
	input := filepath.Join(t.TempDir(), "commande.pdf")
	writeOrderPDF(t, input,
		"Commande n° 4500012",
		"Client BAK FRANCE SUPER U BAK 75",
		"111 222 333 Widget A 5 10 12,50",
		"Montant total ht commande : 62,50",
		"Récapitulatif",
	)

	c := New(Options{TemplatePath: newTemplate(t), OutputDir: out}, nil, nil)
	result := c.Run(input)

	require.NoError(t, result.Error)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Stats.Pages)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "4500012", result.Orders[0].Number)
	assert.Equal(t, []string{filepath.Join(out, "SUPER_U_4500012.xlsx")}, result.OutputFiles)
	assert.Equal(t, "62.5", result.TotalAmount.String())
}
