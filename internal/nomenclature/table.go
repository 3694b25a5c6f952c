// Package nomenclature loads the product reference table and resolves
// operator-entered product attributes to a product code.
package nomenclature

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"markorder/internal/logging"

	"github.com/xuri/excelize/v2"
)

// Columns maps the logical reference-table columns to spreadsheet headers.
type Columns struct {
	Code         string `yaml:"code"`
	Name         string `yaml:"name"`
	Simplified   string `yaml:"simplified"`
	Size         string `yaml:"size"`
	UnitsPerPack string `yaml:"units_per_pack"`
	Color        string `yaml:"color"`
	Collar       string `yaml:"collar"`
}

// DefaultColumns returns the headers used by the nomenclature workbook.
func DefaultColumns() Columns {
	return Columns{
		Code:         "GTIN",
		Name:         "Наименование",
		Simplified:   "Упрощенно",
		Size:         "Размер",
		UnitsPerPack: "Количество единиц употребления в потребительской упаковке",
		Color:        "Цвет",
		Collar:       "венчик",
	}
}

// withDefaults fills unset headers from DefaultColumns.
func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	pick := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}
	return Columns{
		Code:         pick(c.Code, d.Code),
		Name:         pick(c.Name, d.Name),
		Simplified:   pick(c.Simplified, d.Simplified),
		Size:         pick(c.Size, d.Size),
		UnitsPerPack: pick(c.UnitsPerPack, d.UnitsPerPack),
		Color:        pick(c.Color, d.Color),
		Collar:       pick(c.Collar, d.Collar),
	}
}

// Row is one known product. Columns missing from the source are empty.
type Row struct {
	Code         string
	Name         string
	Simplified   string
	Size         string
	UnitsPerPack string
	Color        string
	Collar       string
}

// Table is the read-only reference table, loaded once per session.
type Table struct {
	rows    []Row
	missing []string
}

// NewTable builds a table from rows already in memory.
func NewTable(rows []Row) *Table {
	return &Table{rows: append([]Row(nil), rows...)}
}

// Len returns the number of product rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// MissingColumns lists headers that were absent from the source sheet.
func (t *Table) MissingColumns() []string {
	return append([]string(nil), t.missing...)
}

// Load reads the reference table from an xlsx workbook. An empty sheet name
// selects the first sheet.
func Load(path string, cols Columns, sheet string) (*Table, error) {
	timer := logging.StartTimer(logging.CategoryBoot, "load nomenclature")
	defer timer.Stop()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open nomenclature %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("nomenclature %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	t := FromRecords(records, cols)
	logging.Boot("nomenclature loaded: %s sheet=%q rows=%d", path, sheet, t.Len())
	if len(t.missing) > 0 {
		logging.BootWarn("nomenclature is missing columns %v; treating them as empty", t.missing)
	}
	return t, nil
}

// FromRecords builds a table from raw records whose first record is the
// header. Header names are trimmed and matched case-insensitively.
func FromRecords(records [][]string, cols Columns) *Table {
	cols = cols.withDefaults()
	t := &Table{}
	if len(records) == 0 {
		t.missing = []string{cols.Code, cols.Name, cols.Simplified, cols.Size, cols.UnitsPerPack, cols.Color, cols.Collar}
		return t
	}

	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	lookup := func(header string) int {
		i, ok := index[strings.ToLower(strings.TrimSpace(header))]
		if !ok {
			t.missing = append(t.missing, header)
			return -1
		}
		return i
	}

	code := lookup(cols.Code)
	name := lookup(cols.Name)
	simplified := lookup(cols.Simplified)
	size := lookup(cols.Size)
	units := lookup(cols.UnitsPerPack)
	color := lookup(cols.Color)
	collar := lookup(cols.Collar)

	for _, rec := range records[1:] {
		cell := func(i int) string {
			if i < 0 || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		row := Row{
			Code:         normalizeCode(cell(code)),
			Name:         cell(name),
			Simplified:   cell(simplified),
			Size:         cell(size),
			UnitsPerPack: normalizeNumber(cell(units)),
			Color:        cell(color),
			Collar:       cell(collar),
		}
		if row == (Row{}) {
			continue
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// normalizeCode turns numeric codes stored as floats ("4.607E+12") back into
// plain digits. Anything else is returned unchanged.
func normalizeCode(s string) string {
	if s == "" || !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1e18 {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}

// normalizeNumber drops a trailing ".0" on integral numeric cells so units
// stored as 100.0 compare equal to "100".
func normalizeNumber(s string) string {
	if strings.HasSuffix(s, ".0") {
		if _, err := strconv.Atoi(strings.TrimSuffix(s, ".0")); err == nil {
			return strings.TrimSuffix(s, ".0")
		}
	}
	return s
}
