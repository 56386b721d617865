package classify

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Column headers the operator workbook must carry, in any order.
var requiredColumns = []string{"min_value", "max_value", "class_name", "color_hex"}

// ImportXLSX reads an operator-supplied classification workbook. The first
// sheet's header row names the columns; colors are normalized to uppercase
// #-prefixed hex and the classes sorted ascending by min.
func ImportXLSX(path string) ([]Class, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "classify: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("classify: workbook has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("classify: workbook sheet is empty")
	}

	cols := make(map[string]int)
	for i, cell := range sheet.Rows[0].Cells {
		cols[strings.ToLower(strings.TrimSpace(cell.String()))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("classify: workbook missing required columns %v", missing)
	}

	var classes []Class
	for rowIdx, row := range sheet.Rows[1:] {
		cells := row.Cells
		if rowEmpty(cells) {
			continue
		}

		min, err := cellFloat(cells, cols["min_value"])
		if err != nil {
			return nil, eris.Wrapf(err, "classify: row %d min_value", rowIdx+2)
		}
		max, err := cellFloat(cells, cols["max_value"])
		if err != nil {
			return nil, eris.Wrapf(err, "classify: row %d max_value", rowIdx+2)
		}

		classes = append(classes, Class{
			Min:   min,
			Max:   max,
			Label: cellString(cells, cols["class_name"]),
			Color: normalizeColor(cellString(cells, cols["color_hex"])),
		})
	}

	if len(classes) == 0 {
		return nil, eris.New("classify: workbook has no class rows")
	}

	sort.Slice(classes, func(i, j int) bool { return classes[i].Min < classes[j].Min })
	return classes, nil
}

func rowEmpty(cells []*xlsx.Cell) bool {
	for _, c := range cells {
		if strings.TrimSpace(c.String()) != "" {
			return false
		}
	}
	return true
}

func cellString(cells []*xlsx.Cell, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx].String())
}

func cellFloat(cells []*xlsx.Cell, idx int) (float64, error) {
	text := cellString(cells, idx)
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse %q", text)
	}
	return v, nil
}

func normalizeColor(hex string) string {
	hex = strings.ToUpper(hex)
	if hex != "" && !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	return hex
}
