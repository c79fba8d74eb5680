package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/windwardhq/windward/internal/models"
)

// jsonPortfolio is the nested export shape: {"projects": [...]}.
type jsonPortfolio struct {
	Projects []jsonProject `json:"projects"`
}

type jsonProject struct {
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	Budget      float64    `json:"budget"`
	ActualSpend float64    `json:"actual_spend"`
	Tasks       []jsonTask `json:"tasks"`
}

type jsonTask struct {
	Name            string   `json:"name"`
	Status          string   `json:"status"`
	Priority        string   `json:"priority"`
	Assignee        string   `json:"assignee"`
	Sprint          string   `json:"sprint"`
	PreviousSprints []string `json:"previous_sprints"`
	Comments        string   `json:"comments"`
}

// parseJSON accepts either a nested portfolio object with a "projects"
// array or a bare array of task rows keyed like CSV headers.
func parseJSON(path string) ([]*models.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	trimmed := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(trimmed, "{"):
		return parseNestedJSON(path, data)
	case strings.HasPrefix(trimmed, "["):
		return parseFlatJSON(path, data)
	default:
		return nil, fmt.Errorf("%s: unrecognised JSON structure, expected object or array", path)
	}
}

func parseNestedJSON(path string, data []byte) ([]*models.Project, error) {
	var portfolio jsonPortfolio
	if err := json.Unmarshal(data, &portfolio); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if portfolio.Projects == nil {
		return nil, fmt.Errorf("%s: unrecognised JSON structure, expected a \"projects\" key", path)
	}

	var projects []*models.Project
	for _, jp := range portfolio.Projects {
		if strings.TrimSpace(jp.Name) == "" {
			continue
		}
		if jp.Budget < 0 || jp.ActualSpend < 0 {
			return nil, fmt.Errorf("project %q: %w", jp.Name, ErrNegativeAmount)
		}

		status := jp.Status
		if strings.TrimSpace(status) == "" {
			status = "Unknown"
		}
		p := &models.Project{
			Name:        jp.Name,
			Status:      status,
			StartDate:   parseDate(jp.StartDate),
			EndDate:     parseDate(jp.EndDate),
			Budget:      jp.Budget,
			ActualSpend: jp.ActualSpend,
		}
		for _, jt := range jp.Tasks {
			if strings.TrimSpace(jt.Name) == "" {
				continue
			}
			priority := jt.Priority
			if strings.TrimSpace(priority) == "" {
				priority = "Medium"
			}
			p.Tasks = append(p.Tasks, models.Task{
				Name:            jt.Name,
				Status:          jt.Status,
				Priority:        priority,
				Assignee:        jt.Assignee,
				Sprint:          jt.Sprint,
				PreviousSprints: jt.PreviousSprints,
				Comments:        jt.Comments,
			})
		}
		projects = append(projects, p)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// parseFlatJSON handles a bare array of row objects by stringifying the
// values and reusing the CSV row pipeline.
func parseFlatJSON(path string, data []byte) ([]*models.Project, error) {
	var rawRows []map[string]any
	if err := json.Unmarshal(data, &rawRows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(rawRows) == 0 {
		return nil, nil
	}

	headers := make([]string, 0, len(rawRows[0]))
	for k := range rawRows[0] {
		headers = append(headers, k)
	}
	colMap := buildColumnMap(headers)
	if missing := missingRequired(colMap); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing required columns: %s", path, strings.Join(missing, ", "))
	}

	// Map header index back to the header string once.
	fieldToHeader := make(map[string]string, len(colMap))
	for field, idx := range colMap {
		fieldToHeader[field] = headers[idx]
	}

	rows := make([]row, 0, len(rawRows))
	for _, raw := range rawRows {
		r := row{}
		for field, header := range fieldToHeader {
			r[field] = stringifyJSONValue(raw[header])
		}
		rows = append(rows, r)
	}

	return rowsToProjects(rows)
}

func stringifyJSONValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, stringifyJSONValue(item))
		}
		return strings.Join(parts, ";")
	default:
		return fmt.Sprintf("%v", val)
	}
}
