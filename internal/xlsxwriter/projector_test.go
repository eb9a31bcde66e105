package xlsxwriter

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/edithor/internal/types"
)

// newTemplate writes a one-sheet template with stale values in the cells the
// projector is expected to overwrite or clear.
func newTemplate(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for cell, value := range map[string]string{
		"A1": "EDI",
		"L2": "stale",
		"M2": "stale",
		"N2": "stale",
	} {
		require.NoError(t, f.SetCellValue(sheet, cell, value))
	}

	path := filepath.Join(t.TempDir(), "EDI.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func cell(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(f.GetSheetName(0), ref)
	require.NoError(t, err)
	return v
}

func sampleOrder() types.Order {
	return types.Order{
		Number:       "4500012",
		OrderDate:    "12/03/2025 08:15",
		DeliveryDate: "19/03/2025",
		ClientName:   "SUPER U BAK FRANCE",
		Items: []types.LineItem{
			{Identifier: "3760001", Description: "Widget A", Quantity: "5", PackagingUnits: "10"},
			{Identifier: "3760002", Description: "Widget B", Quantity: "2", PackagingUnits: "6"},
		},
	}
}

func TestProjectToDir(t *testing.T) {
	p := New(newTemplate(t), "")
	out := t.TempDir()

	path, err := p.ProjectToDir(sampleOrder(), out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "SUPER_U_4500012.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "EDI", cell(t, f, "A1"))
	assert.Equal(t, "12/03/2025", cell(t, f, "E2"))
	assert.Equal(t, "19/03/2025", cell(t, f, "F2"))
	assert.Equal(t, "SUPER U", cell(t, f, "I2"))
	assert.Equal(t, "SUPER U", cell(t, f, "K2"))
	assert.Equal(t, "", cell(t, f, "L2"))
	assert.Equal(t, "", cell(t, f, "M2"))
	assert.Equal(t, "", cell(t, f, "N2"))
	assert.Equal(t, "SUPER_U_4500012", cell(t, f, "O2"))

	assert.Equal(t, "3760001", cell(t, f, "C4"))
	assert.Equal(t, "PCE", cell(t, f, "D4"))
	assert.Equal(t, "Widget A", cell(t, f, "E4"))
	assert.Equal(t, "5", cell(t, f, "F4"))
	assert.Equal(t, "10", cell(t, f, "G4"))
	assert.Equal(t, "3760002", cell(t, f, "C5"))
	assert.Equal(t, "6", cell(t, f, "G5"))
	assert.Equal(t, "", cell(t, f, "C6"))
}

func TestProjectToDir_NoLeakBetweenOrders(t *testing.T) {
	p := New(newTemplate(t), "")
	out := t.TempDir()

	_, err := p.ProjectToDir(sampleOrder(), out)
	require.NoError(t, err)

	second := types.Order{
		Number:     "4500013",
		ClientName: "LECLERC",
		Items:      []types.LineItem{{Identifier: "111", Description: "Gadget", Quantity: "1", PackagingUnits: "1"}},
	}
	path, err := p.ProjectToDir(second, out)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "111", cell(t, f, "C4"))
	assert.Equal(t, "", cell(t, f, "C5"))
	assert.Equal(t, "", cell(t, f, "E2"))
	assert.Equal(t, "LECLERC", cell(t, f, "I2"))
}

func TestProject_NoLineItems(t *testing.T) {
	p := New(newTemplate(t), "")
	out := t.TempDir()

	order := sampleOrder()
	order.Items = nil

	_, err := p.ProjectToDir(order, out)
	assert.ErrorIs(t, err, ErrNoLineItems)

	var buf bytes.Buffer
	_, err = p.Project(order, &buf)
	assert.ErrorIs(t, err, ErrNoLineItems)
	assert.Zero(t, buf.Len())
}

func TestProject_ToWriter(t *testing.T) {
	p := New(newTemplate(t), "UVC")

	var buf bytes.Buffer
	name, err := p.Project(sampleOrder(), &buf)
	require.NoError(t, err)
	assert.Equal(t, "SUPER_U_4500012", name)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "UVC", cell(t, f, "D4"))
}

func TestProject_MissingTemplate(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "absent.xlsx"), "")
	assert.Error(t, p.CheckTemplate())

	_, err := p.ProjectToDir(sampleOrder(), t.TempDir())
	assert.Error(t, err)
}

func TestProjectToDir_SeparatorInNumber(t *testing.T) {
	p := New(newTemplate(t), "")
	out := t.TempDir()

	order := sampleOrder()
	order.Number = "45/12"
	path, err := p.ProjectToDir(order, out)
	require.NoError(t, err)
	assert.Equal(t, out, filepath.Dir(path))
	assert.Equal(t, "SUPER_U_45-12.xlsx", filepath.Base(path))
}

func TestProjectToDir_FallbackName(t *testing.T) {
	p := New(newTemplate(t), "")
	order := sampleOrder()
	order.Number = ""
	order.ClientName = ""

	path, err := p.ProjectToDir(order, t.TempDir())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "commande_"))
}

func TestClientName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"SUPER U BAK FRANCE", "SUPER U"},
		{"  CARREFOUR  ", "CARREFOUR"},
		{"BAKERY", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClientName(tt.raw), tt.raw)
	}
}

func TestTruncateDate(t *testing.T) {
	assert.Equal(t, "12/03/2025", TruncateDate("12/03/2025 08:15"))
	assert.Equal(t, "12/03/25", TruncateDate("12/03/25"))
	assert.Equal(t, "éééééééééé", TruncateDate("ééééééééééé"))
	assert.Equal(t, "", TruncateDate(""))
}
