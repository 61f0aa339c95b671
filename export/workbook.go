// Package export writes timesheet workbooks. It consumes ordered sheets of
// typed rows plus formatting hints and knows nothing about periods or
// sessions.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet worth of export data: a name, a header row, the
// data rows, and a trailing total row separated by one blank line.
type Sheet struct {
	Name     string
	Header   []string
	Widths   []float64
	Rows     [][]interface{}
	TotalRow []interface{}
}

// invalid in xlsx sheet names, and excelize caps names at 31 chars
var sheetNameSanitizer = strings.NewReplacer(
	"/", "-", "\\", "-", "?", "-", "*", "-", "[", "-", "]", "-", ":", "-",
)

func sanitizeSheetName(name string) string {
	name = sheetNameSanitizer.Replace(name)
	if len(name) > 30 {
		name = name[:30]
	}
	return name
}

// WriteWorkbook builds a workbook with one worksheet per sheet, bold header
// and total rows, and the requested column widths. The caller streams or
// saves the returned file.
func WriteWorkbook(sheets []Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(sheets))
	for i, sheet := range sheets {
		name := sanitizeSheetName(sheet.Name)
		// excelize's NewSheet returns the existing sheet for a known name,
		// which would overwrite its rows. Fail loudly instead.
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate sheet name %q", name)
		}
		seen[name] = struct{}{}
		if i == 0 {
			// reuse the default sheet rather than leaving an empty Sheet1
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}

		header := make([]interface{}, len(sheet.Header))
		for c, h := range sheet.Header {
			header[c] = h
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return nil, err
		}
		if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
			return nil, err
		}

		for c, width := range sheet.Widths {
			col, err := excelize.ColumnNumberToName(c + 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetColWidth(name, col, col, width); err != nil {
				return nil, err
			}
		}

		row := 2
		for _, cells := range sheet.Rows {
			if err := f.SetSheetRow(name, fmt.Sprintf("A%d", row), &cells); err != nil {
				return nil, err
			}
			row++
		}

		if len(sheet.TotalRow) > 0 {
			row++ // blank separator line
			if err := f.SetSheetRow(name, fmt.Sprintf("A%d", row), &sheet.TotalRow); err != nil {
				return nil, err
			}
			if err := f.SetRowStyle(name, row, row, bold); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
