package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"github.com/xuri/excelize/v2"
)

// extractXLSXColumns is the preferred tabular backend. It walks every sheet
// and serializes each column as a "header: [v1, v2, …]" line, headers taken
// from the sheet's first row.
func extractXLSXColumns(_ context.Context, content []byte) (string, error) {
	f, err := xlsx.OpenBinary(content)
	if err != nil {
		return "", eris.Wrap(err, "xlsx: open workbook")
	}

	var parts []string
	for _, sheet := range f.Sheets {
		if len(sheet.Rows) == 0 {
			continue
		}

		header := sheet.Rows[0]
		for col, headCell := range header.Cells {
			name := strings.TrimSpace(headCell.String())
			if name == "" {
				name = fmt.Sprintf("col_%d", col)
			}

			var values []string
			for _, row := range sheet.Rows[1:] {
				if col >= len(row.Cells) {
					continue
				}
				if v := strings.TrimSpace(row.Cells[col].String()); v != "" {
					values = append(values, v)
				}
			}
			parts = append(parts, fmt.Sprintf("%s: [%s]", name, strings.Join(values, ", ")))
		}
	}

	return strings.Join(parts, "\n"), nil
}

// extractXLSXCells is the fallback tabular backend: a raw cell walk emitting
// " | "-joined non-empty cell values per row.
func extractXLSXCells(_ context.Context, content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", eris.Wrap(err, "xlsx: open reader")
	}
	defer f.Close() //nolint:errcheck

	var parts []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", eris.Wrapf(err, "xlsx: read sheet %q", sheet)
		}
		for _, row := range rows {
			var cells []string
			for _, cell := range row {
				if v := strings.TrimSpace(cell); v != "" {
					cells = append(cells, v)
				}
			}
			if len(cells) > 0 {
				parts = append(parts, strings.Join(cells, " | "))
			}
		}
	}

	return strings.Join(parts, "\n"), nil
}
