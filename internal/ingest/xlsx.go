package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/windwardhq/windward/internal/models"
)

// parseXLSX reads the first sheet of an Excel export: header row followed
// by one row per task, same column aliases as CSV.
func parseXLSX(path string) ([]*models.Project, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q in %s: %w", sheets[0], path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: sheet %q is empty", path, sheets[0])
	}

	headers := records[0]
	colMap := buildColumnMap(headers)
	if missing := missingRequired(colMap); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing required columns: %s (found: %s)",
			path, strings.Join(missing, ", "), strings.Join(headers, ", "))
	}

	rows := make([]row, 0, len(records)-1)
	for _, record := range records[1:] {
		r := row{}
		for field, idx := range colMap {
			if idx < len(record) {
				r[field] = record[idx]
			}
		}
		rows = append(rows, r)
	}

	return rowsToProjects(rows)
}
