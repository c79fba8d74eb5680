package benefits

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Column aliases for the benefits register, one set per logical field.
// Exact normalised match first, then substring in either direction.
var (
	projectAliases    = []string{"project", "project name", "programme"}
	nameAliases       = []string{"benefit", "benefit name", "benefit description"}
	expectedAliases   = []string{"expected", "expected value", "expected benefit", "planned benefit", "target value", "forecast"}
	realisedAliases   = []string{"realised", "realised value", "realised benefit", "actual benefit", "actual value", "actual"}
	statusAliasNames  = []string{"status", "benefit status", "realisation status"}
	categoryAliases   = []string{"category", "benefit category", "benefit type", "type"}
	targetDateAliases = []string{"target date", "target realisation date", "realisation date", "due date", "benefit due"}
	ownerAliases      = []string{"owner", "benefit owner", "responsible", "accountable"}
	confidenceAliases = []string{"confidence", "confidence level", "certainty", "likelihood"}
	notesAliases      = []string{"notes", "comments", "remarks", "detail"}
)

// LoadRegister parses a benefits register file (CSV or JSON array of row
// objects) into Benefit records. Rows without a project are skipped;
// benefit IDs are assigned in row order.
func LoadRegister(path string) ([]Benefit, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSVRegister(path)
	case ".json":
		return loadJSONRegister(path)
	default:
		return nil, fmt.Errorf("unsupported benefits register format: %q", filepath.Ext(path))
	}
}

func loadCSVRegister(path string) ([]Benefit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("%s: empty benefits register", path)
	}

	headers := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[normalise(h)] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rowsToBenefits(rows), nil
}

func loadJSONRegister(path string) ([]Benefit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var rawRows []map[string]any
	if err := json.Unmarshal(data, &rawRows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	rows := make([]map[string]string, 0, len(rawRows))
	for _, raw := range rawRows {
		row := make(map[string]string, len(raw))
		for k, v := range raw {
			row[normalise(k)] = fmt.Sprintf("%v", orEmpty(v))
		}
		rows = append(rows, row)
	}

	return rowsToBenefits(rows), nil
}

func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}

func rowsToBenefits(rows []map[string]string) []Benefit {
	var benefits []Benefit
	for i, row := range rows {
		project := strings.TrimSpace(lookup(row, projectAliases))
		if project == "" {
			continue
		}

		name := strings.TrimSpace(lookup(row, nameAliases))
		if name == "" {
			name = fmt.Sprintf("Benefit %d", i+1)
		}
		owner := strings.TrimSpace(lookup(row, ownerAliases))
		if owner == "" {
			owner = "Unassigned"
		}

		expected := parseValue(lookup(row, expectedAliases))
		realised := parseValue(lookup(row, realisedAliases))
		status := ParseStatus(lookup(row, statusAliasNames))
		confidence := ParseConfidence(lookup(row, confidenceAliases))

		// When the register leaves confidence at the default, derive it
		// from the status instead.
		if lookup(row, confidenceAliases) == "" || confidence == ConfidenceMedium {
			switch {
			case status == StatusRealised:
				confidence = ConfidenceHigh
			case status == StatusAtRisk || status == StatusDelayed:
				confidence = ConfidenceLow
			case expected == 0 && realised == 0:
				confidence = ConfidenceLow
			}
		}

		benefits = append(benefits, Benefit{
			ID:            fmt.Sprintf("BEN-%03d", i+1),
			Name:          name,
			ProjectName:   project,
			Category:      ParseCategory(lookup(row, categoryAliases)),
			ExpectedValue: expected,
			RealisedValue: realised,
			TargetDate:    parseTargetDate(lookup(row, targetDateAliases)),
			Status:        status,
			Confidence:    confidence,
			Owner:         owner,
			Notes:         strings.TrimSpace(lookup(row, notesAliases)),
		})
	}
	return benefits
}

// lookup finds a field in a normalised row: exact alias match first, then
// substring match in either direction.
func lookup(row map[string]string, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			return v
		}
	}
	for key, v := range row {
		for _, alias := range aliases {
			if strings.Contains(key, alias) || strings.Contains(alias, key) {
				if strings.TrimSpace(key) != "" {
					return v
				}
			}
		}
	}
	return ""
}

func normalise(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(h, "_", " ")))
}

func parseValue(v string) float64 {
	cleaned := strings.TrimSpace(v)
	for _, sym := range []string{"£", "$", "€", ",", " "} {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseTargetDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	// Registers sometimes carry timestamps; the date part is enough.
	if i := strings.IndexAny(v, " T"); i != -1 {
		v = v[:i]
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}
