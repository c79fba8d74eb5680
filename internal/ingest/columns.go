package ingest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/windwardhq/windward/internal/models"
)

// Internal field names rows are mapped onto.
const (
	fieldProject         = "project"
	fieldProjectStatus   = "project_status"
	fieldStartDate       = "start_date"
	fieldEndDate         = "end_date"
	fieldBudget          = "budget"
	fieldActualSpend     = "actual_spend"
	fieldTaskName        = "task_name"
	fieldTaskStatus      = "task_status"
	fieldPriority        = "priority"
	fieldAssignee        = "assignee"
	fieldSprint          = "sprint"
	fieldPreviousSprints = "previous_sprints"
	fieldComments        = "comments"
)

// columnAliases maps normalised header names (lowercase, underscores
// folded to spaces) to internal fields. Covers Jira, Azure DevOps,
// Smartsheet and generic export headers. Bare "status"/"state" belong to
// the task: in one-row-per-task exports that is what the column carries.
var columnAliases = map[string]string{
	"project":        fieldProject,
	"project name":   fieldProject,
	"name":           fieldProject,
	"project status": fieldProjectStatus,
	"project state":  fieldProjectStatus,
	"rag":            fieldProjectStatus,
	"start date":     fieldStartDate,
	"start":          fieldStartDate,
	"kickoff":        fieldStartDate,
	"end date":       fieldEndDate,
	"end":            fieldEndDate,
	"finish":         fieldEndDate,
	"deadline":       fieldEndDate,
	"budget":         fieldBudget,
	"total budget":   fieldBudget,
	"actual spend":   fieldActualSpend,
	"spend":          fieldActualSpend,
	"spent":          fieldActualSpend,
	"actuals":        fieldActualSpend,
	"task":           fieldTaskName,
	"task name":      fieldTaskName,
	"title":          fieldTaskName,
	"summary":        fieldTaskName,
	"task status":    fieldTaskStatus,
	"status":         fieldTaskStatus,
	"state":          fieldTaskStatus,
	"priority":       fieldPriority,
	"severity":       fieldPriority,
	"importance":     fieldPriority,
	"assignee":       fieldAssignee,
	"owner":          fieldAssignee,
	"assigned to":    fieldAssignee,
	"sprint":         fieldSprint,
	"current sprint": fieldSprint,
	"iteration":      fieldSprint,
	"previous sprints": fieldPreviousSprints,
	"sprint history":   fieldPreviousSprints,
	"carried from":     fieldPreviousSprints,
	"comments":         fieldComments,
	"notes":            fieldComments,
	"description":      fieldComments,
}

// requiredFields must all map from the headers for a file to be usable.
var requiredFields = []string{fieldProject, fieldTaskName, fieldTaskStatus}

// normaliseHeader folds a raw header for alias lookup.
func normaliseHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(h, "_", " ")))
}

// buildColumnMap maps internal field names to the header index carrying
// them. First alias match wins; unknown columns are ignored.
func buildColumnMap(headers []string) map[string]int {
	m := make(map[string]int)
	for i, h := range headers {
		field, ok := columnAliases[normaliseHeader(h)]
		if !ok {
			continue
		}
		if _, taken := m[field]; !taken {
			m[field] = i
		}
	}
	return m
}

func missingRequired(colMap map[string]int) []string {
	var missing []string
	for _, f := range requiredFields {
		if _, ok := colMap[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// row is one task row keyed by internal field name.
type row map[string]string

func (r row) get(field, fallback string) string {
	v := strings.TrimSpace(r[field])
	if v == "" {
		return fallback
	}
	return v
}

// rowsToProjects groups task rows by project name. Project-level metadata
// comes from the first row of each group; rows without a project or task
// name are skipped. Projects come back sorted by name.
func rowsToProjects(rows []row) ([]*models.Project, error) {
	order := []string{}
	grouped := map[string][]row{}
	for _, r := range rows {
		name := r.get(fieldProject, "")
		if name == "" {
			continue
		}
		if _, seen := grouped[name]; !seen {
			order = append(order, name)
		}
		grouped[name] = append(grouped[name], r)
	}

	var projects []*models.Project
	for _, name := range order {
		group := grouped[name]
		first := group[0]

		budget, err := parseAmount(first.get(fieldBudget, "0"))
		if err != nil {
			return nil, fmt.Errorf("project %q: budget: %w", name, err)
		}
		spend, err := parseAmount(first.get(fieldActualSpend, "0"))
		if err != nil {
			return nil, fmt.Errorf("project %q: actual spend: %w", name, err)
		}

		p := &models.Project{
			Name:        name,
			Status:      first.get(fieldProjectStatus, "Unknown"),
			StartDate:   parseDate(first.get(fieldStartDate, "")),
			EndDate:     parseDate(first.get(fieldEndDate, "")),
			Budget:      budget,
			ActualSpend: spend,
		}

		for _, r := range group {
			taskName := r.get(fieldTaskName, "")
			if taskName == "" {
				continue
			}
			p.Tasks = append(p.Tasks, models.Task{
				Name:            taskName,
				Status:          r.get(fieldTaskStatus, ""),
				Priority:        r.get(fieldPriority, "Medium"),
				Assignee:        r.get(fieldAssignee, ""),
				Sprint:          r.get(fieldSprint, ""),
				PreviousSprints: parseSprintHistory(r.get(fieldPreviousSprints, "")),
				Comments:        r.get(fieldComments, ""),
			})
		}

		projects = append(projects, p)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// parseDate accepts ISO dates with a UK-style fallback. Anything else is
// treated as unknown.
func parseDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

// parseAmount reads a currency amount, tolerating symbols and grouping
// commas. Unparseable values read as zero; negative values are rejected.
func parseAmount(v string) (float64, error) {
	cleaned := strings.TrimSpace(v)
	for _, sym := range []string{"£", "$", "€", ",", " "} {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	if cleaned == "" {
		return 0, nil
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, nil
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: %s", ErrNegativeAmount, v)
	}
	return f, nil
}

// parseSprintHistory splits a semicolon- or comma-separated sprint list.
func parseSprintHistory(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	sep := ";"
	if !strings.Contains(v, ";") {
		sep = ","
	}
	var sprints []string
	for _, s := range strings.Split(v, sep) {
		if s = strings.TrimSpace(s); s != "" {
			sprints = append(sprints, s)
		}
	}
	return sprints
}
