package refdata

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WorkbookSource reads reference tables from a local XLSX workbook with
// the same worksheet layout as the Google Sheets source. It is the
// offline fallback when no sheet URL is configured.
type WorkbookSource struct {
	path string
}

func NewWorkbookSource(path string) *WorkbookSource {
	return &WorkbookSource{path: path}
}

// Table reads a worksheet and returns its rows, skipping the header.
func (w *WorkbookSource) Table(_ context.Context, name string) ([]Row, error) {
	const op = "WorkbookSource.Table"

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open workbook: %w", op, err)
	}
	defer f.Close()

	cells, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %s: %w", op, name, err)
	}

	rows := make([]Row, 0, len(cells))
	for i, cols := range cells {
		if i == 0 {
			continue // header
		}
		row := Row{Value: colString(cols, 0), Label: colString(cols, 1)}
		for col := 2; col < len(cols) && col < 5; col++ {
			row.Extra = append(row.Extra, cols[col])
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func colString(cols []string, i int) string {
	if i >= len(cols) {
		return ""
	}
	return cols[i]
}
