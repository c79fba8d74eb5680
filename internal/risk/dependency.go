package risk

import (
	"fmt"
	"strings"

	"github.com/windwardhq/windward/internal/models"
)

// Statuses in which a task's dependencies still matter.
var activeStatuses = map[string]struct{}{
	"to do":       {},
	"todo":        {},
	"in progress": {},
	"in-progress": {},
	"open":        {},
	"new":         {},
	"blocked":     {},
	"waiting":     {},
	"on hold":     {},
	"on_hold":     {},
	"on-hold":     {},
}

// Keywords that indicate an unresolved dependency in task comments.
// Ordered; every non-overlapping occurrence is collected. This list is
// wider than the graph builder's cross-project list ("cannot proceed
// until" and "needs" trade precision for recall here, where no project
// name confirms the match).
var dependencyKeywords = []string{
	"depends on",
	"dependent on",
	"blocked by",
	"waiting for",
	"waiting on",
	"prerequisite",
	"requires",
	"contingent on",
	"cannot proceed until",
	"needs",
}

const dependencyContextLen = 80

// dependencyMatch is one keyword occurrence with its extracted context.
type dependencyMatch struct {
	keyword string
	context string
}

// DependencyDetector flags active tasks whose comments mention unresolved
// dependencies. More distinct dependencies on one task elevate severity:
// two raise it one step, three or more raise it to at least High.
type DependencyDetector struct{}

// NewDependencyDetector creates a dependency-keyword detector.
func NewDependencyDetector() *DependencyDetector {
	return &DependencyDetector{}
}

// Name returns the detector identifier.
func (d *DependencyDetector) Name() string { return "dependency" }

// Detect scans active tasks for dependency keywords and returns one
// finding per task with matches, sorted worst-first.
func (d *DependencyDetector) Detect(p *models.Project) []models.Risk {
	var risks []models.Risk

	for _, task := range p.Tasks {
		if !isActive(task) {
			continue
		}

		matches := findDependencyMatches(task)
		if len(matches) == 0 {
			continue
		}

		severity := dependencySeverity(models.SeverityFromPriority(task.Priority), len(matches))

		risks = append(risks, models.Risk{
			ProjectName:         p.Name,
			Category:            models.CategoryDependency,
			Severity:            severity,
			Title:               dependencyTitle(task, len(matches)),
			Explanation:         dependencyExplanation(p, task, matches),
			SuggestedMitigation: dependencyMitigation(task, len(matches)),
		})
	}

	sortWorstFirst(risks)
	return risks
}

func isActive(task models.Task) bool {
	_, ok := activeStatuses[strings.ToLower(strings.TrimSpace(task.Status))]
	return ok
}

// findDependencyMatches collects all non-overlapping keyword occurrences
// in the task's comments, with context sliced from the original text.
func findDependencyMatches(task models.Task) []dependencyMatch {
	if task.Comments == "" {
		return nil
	}

	lower := strings.ToLower(task.Comments)
	var matches []dependencyMatch
	claimed := make([]bool, len(lower))

	for _, keyword := range dependencyKeywords {
		pos := 0
		for {
			idx := strings.Index(lower[pos:], keyword)
			if idx == -1 {
				break
			}
			idx += pos
			pos = idx + len(keyword)

			if overlaps(claimed, idx, len(keyword)) {
				continue
			}
			markClaimed(claimed, idx, len(keyword))

			matches = append(matches, dependencyMatch{
				keyword: keyword,
				context: extractContext(task.Comments, idx, keyword, dependencyContextLen),
			})
		}
	}
	return matches
}

func overlaps(claimed []bool, start, length int) bool {
	for i := start; i < start+length && i < len(claimed); i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

func markClaimed(claimed []bool, start, length int) {
	for i := start; i < start+length && i < len(claimed); i++ {
		claimed[i] = true
	}
}

// dependencySeverity elevates the base severity by dependency count:
// one dependency keeps the base, two raise it one step, three or more
// raise it to at least High (Critical when the base was already High
// or Critical).
func dependencySeverity(base models.Severity, count int) models.Severity {
	switch {
	case count >= 3:
		if base == models.SeverityHigh || base == models.SeverityCritical {
			return models.SeverityCritical
		}
		return models.SeverityHigh
	case count == 2:
		return base.Elevate()
	default:
		return base
	}
}

func dependencyTitle(task models.Task, count int) string {
	noun := "dependency"
	if count > 1 {
		noun = "dependencies"
	}
	return fmt.Sprintf("'%s' has %d unresolved %s", task.Name, count, noun)
}

func dependencyExplanation(p *models.Project, task models.Task, matches []dependencyMatch) string {
	assignee := task.Assignee
	if assignee == "" {
		assignee = "unassigned"
	}

	shown := matches
	if len(shown) > 3 {
		shown = shown[:3]
	}
	contexts := make([]string, 0, len(shown))
	for _, m := range shown {
		contexts = append(contexts, fmt.Sprintf("\"%s %s\"", m.keyword, m.context))
	}

	text := fmt.Sprintf(
		"'%s' in %s (%s, assigned to %s) carries %d dependency mention%s: %s.",
		task.Name, p.Name, task.Status, assignee, len(matches),
		plural(len(matches)), strings.Join(contexts, "; "),
	)
	if len(matches) > 1 {
		text += " Multiple dependencies on one task compound risk — each one can independently stall delivery."
	}
	return text
}

func dependencyMitigation(task models.Task, count int) string {
	parts := []string{fmt.Sprintf(
		"Confirm each dependency for '%s' has a named owner and a committed date, "+
			"and track them on the dependency register.", task.Name,
	)}
	if count >= 3 {
		parts = append(parts,
			"With this many dependencies, consider re-sequencing the task or splitting "+
				"it so independent parts can proceed.")
	}
	return strings.Join(parts, " ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
