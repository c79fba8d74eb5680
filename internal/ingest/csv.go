package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/windwardhq/windward/internal/models"
)

// parseCSV reads a one-row-per-task export. Project-level columns are
// repeated on every row; metadata is taken from each project's first row.
func parseCSV(path string) ([]*models.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file, no header row", path)
	}

	headers := records[0]
	// Excel exports often lead with a UTF-8 BOM.
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

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
