// =============================================================================
// EDITHOR - XLSX Order Projector
// =============================================================================
//
// This module renders one Order onto the EDI spreadsheet template. The
// template is opened fresh for every order so nothing written for one order
// can leak into the next.
//
// TEMPLATE LAYOUT (active sheet):
//
//   | Cell      | Content                                          |
//   |-----------|--------------------------------------------------|
//   | E2        | order date, first 10 characters                  |
//   | F2        | delivery date, first 10 characters               |
//   | I2, K2    | client name, cut at "BAK"                        |
//   | L2,M2,N2  | cleared                                          |
//   | O2        | output file name (client_order)                  |
//   | C4..      | product identifier                               |
//   | D4..      | unit of measure literal (PCE)                    |
//   | E4..      | description                                      |
//   | F4..      | ordered quantity                                 |
//   | G4..      | packaging unit count                             |
//
// Orders without line items are refused with ErrNoLineItems.
//
// =============================================================================

package xlsxwriter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/edithor/internal/types"
	"github.com/ginjaninja78/edithor/pkg/utils"
)

// ErrNoLineItems is returned for orders that have nothing to write.
var ErrNoLineItems = errors.New("order has no line items")

// =============================================================================
// LAYOUT
// =============================================================================

// Layout names the cells the projector writes.
type Layout struct {
	OrderDateCell    string
	DeliveryDateCell string
	ClientCells      []string
	ClearedCells     []string
	FileNameCell     string

	// FirstItemRow is the 1-based row of the first line item.
	FirstItemRow int

	IdentifierColumn  string
	UnitColumn        string
	DescriptionColumn string
	QuantityColumn    string
	PackagingColumn   string
}

// DefaultLayout returns the layout of the EDI.xlsx template.
func DefaultLayout() Layout {
	return Layout{
		OrderDateCell:     "E2",
		DeliveryDateCell:  "F2",
		ClientCells:       []string{"I2", "K2"},
		ClearedCells:      []string{"L2", "M2", "N2"},
		FileNameCell:      "O2",
		FirstItemRow:      4,
		IdentifierColumn:  "C",
		UnitColumn:        "D",
		DescriptionColumn: "E",
		QuantityColumn:    "F",
		PackagingColumn:   "G",
	}
}

// DefaultUnitOfMeasure is written in the unit column of every item row.
const DefaultUnitOfMeasure = "PCE"

// dateLength is the length of a dd/mm/yyyy date.
const dateLength = 10

// clientSuffixToken marks the start of the supplier suffix in client names.
const clientSuffixToken = "BAK"

// =============================================================================
// PROJECTOR
// =============================================================================

// Projector writes orders onto copies of a template workbook.
type Projector struct {
	templatePath  string
	unitOfMeasure string
	layout        Layout
}

// New returns a projector for the template at templatePath.
// An empty unit falls back to DefaultUnitOfMeasure.
func New(templatePath, unitOfMeasure string) *Projector {
	if unitOfMeasure == "" {
		unitOfMeasure = DefaultUnitOfMeasure
	}
	return &Projector{
		templatePath:  templatePath,
		unitOfMeasure: unitOfMeasure,
		layout:        DefaultLayout(),
	}
}

// WithLayout returns a copy of p using layout.
func (p *Projector) WithLayout(layout Layout) *Projector {
	cp := *p
	cp.layout = layout
	return &cp
}

// CheckTemplate verifies that the template exists and is a regular file.
func (p *Projector) CheckTemplate() error {
	info, err := os.Stat(p.templatePath)
	if err != nil {
		return fmt.Errorf("template %s: %w", p.templatePath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("template %s is a directory", p.templatePath)
	}
	return nil
}

// FileName returns the base name (without extension) used for order.
func FileName(order types.Order) string {
	return utils.OrderFileName(ClientName(order.ClientName), order.Number)
}

// Project renders order and writes the workbook to w.
// It returns the base file name written into the file-name cell.
func (p *Projector) Project(order types.Order, w io.Writer) (string, error) {
	f, name, err := p.render(order)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}
	return name, nil
}

// ProjectToDir renders order into dir as "<file name>.xlsx" and returns the
// path of the written file.
func (p *Projector) ProjectToDir(order types.Order, dir string) (string, error) {
	f, name, err := p.render(order)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(dir, safeFileName(name)+".xlsx")
	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", outputPath, err)
	}
	return outputPath, nil
}

// render opens a fresh copy of the template and writes order into it.
func (p *Projector) render(order types.Order) (*excelize.File, string, error) {
	if !order.HasItems() {
		return nil, "", ErrNoLineItems
	}

	f, err := excelize.OpenFile(p.templatePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open template file: %w", err)
	}

	name, err := p.fill(f, order)
	if err != nil {
		f.Close()
		return nil, "", err
	}
	return f, name, nil
}

// fill writes the header cells and one row per line item.
func (p *Projector) fill(f *excelize.File, order types.Order) (string, error) {
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return "", fmt.Errorf("template file has no sheets")
	}

	l := p.layout
	client := ClientName(order.ClientName)
	name := FileName(order)

	cells := map[string]string{
		l.OrderDateCell:    TruncateDate(order.OrderDate),
		l.DeliveryDateCell: TruncateDate(order.DeliveryDate),
		l.FileNameCell:     name,
	}
	for _, c := range l.ClientCells {
		cells[c] = client
	}
	for _, c := range l.ClearedCells {
		cells[c] = ""
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return "", fmt.Errorf("failed to set %s: %w", cell, err)
		}
	}

	for i, item := range order.Items {
		row := l.FirstItemRow + i
		values := []struct {
			column string
			value  string
		}{
			{l.IdentifierColumn, item.Identifier},
			{l.UnitColumn, p.unitOfMeasure},
			{l.DescriptionColumn, item.Description},
			{l.QuantityColumn, item.Quantity},
			{l.PackagingColumn, item.PackagingUnits},
		}
		for _, v := range values {
			cell := fmt.Sprintf("%s%d", v.column, row)
			if err := f.SetCellValue(sheet, cell, v.value); err != nil {
				return "", fmt.Errorf("failed to set %s: %w", cell, err)
			}
		}
	}

	return name, nil
}

// =============================================================================
// FIELD FORMATTING
// =============================================================================

// ClientName cuts a raw client name at the first "BAK" token and trims it.
func ClientName(raw string) string {
	before, _, _ := strings.Cut(raw, clientSuffixToken)
	return strings.TrimSpace(before)
}

// TruncateDate keeps the first ten characters of a printed date, dropping any
// trailing time or text.
func TruncateDate(s string) string {
	r := []rune(s)
	if len(r) <= dateLength {
		return s
	}
	return string(r[:dateLength])
}

// safeFileName replaces path separators so an order number cannot escape the
// output directory.
func safeFileName(name string) string {
	return strings.NewReplacer("/", "-", `\`, "-").Replace(name)
}
