package risk

import (
	"fmt"
	"strings"

	"github.com/windwardhq/windward/internal/models"
)

// DefaultCarryoverThreshold is the number of previous sprints at which a
// task counts as chronically carried over.
const DefaultCarryoverThreshold = 3

// excessiveCarryover is the sprint count at which severity is elevated
// one step.
const excessiveCarryover = 5

// Statuses that mark a task as finished; carry-over only matters for
// active or pending work.
var completedStatuses = map[string]struct{}{
	"done":      {},
	"complete":  {},
	"completed": {},
	"closed":    {},
	"resolved":  {},
}

// CarryoverDetector flags tasks that have been moved across threshold or
// more sprints without completing, a repeated delivery failure signal.
type CarryoverDetector struct {
	threshold int
}

// NewCarryoverDetector creates a carry-over detector. A threshold of zero
// or less falls back to the default of 3; different callers need
// different thresholds so this stays pluggable.
func NewCarryoverDetector(threshold int) *CarryoverDetector {
	if threshold <= 0 {
		threshold = DefaultCarryoverThreshold
	}
	return &CarryoverDetector{threshold: threshold}
}

// Name returns the detector identifier.
func (d *CarryoverDetector) Name() string { return "chronic_carryover" }

// Detect flags incomplete tasks carried over across d.threshold or more
// sprints, sorted worst-first.
func (d *CarryoverDetector) Detect(p *models.Project) []models.Risk {
	var risks []models.Risk

	for _, task := range p.Tasks {
		if isComplete(task) {
			continue
		}

		sprintCount := len(task.PreviousSprints)
		if sprintCount < d.threshold {
			continue
		}

		severity := models.SeverityFromPriority(task.Priority)
		if sprintCount >= excessiveCarryover {
			severity = severity.Elevate()
		}

		risks = append(risks, models.Risk{
			ProjectName: p.Name,
			Category:    models.CategoryChronicCarryover,
			Severity:    severity,
			Title:       fmt.Sprintf("'%s' stuck — carried over %d sprints", task.Name, sprintCount),
			Explanation: carryoverExplanation(task, sprintCount),
			SuggestedMitigation: carryoverMitigation(task, sprintCount),
		})
	}

	sortWorstFirst(risks)
	return risks
}

func isComplete(task models.Task) bool {
	_, ok := completedStatuses[strings.ToLower(strings.TrimSpace(task.Status))]
	return ok
}

func carryoverExplanation(task models.Task, sprintCount int) string {
	chain := make([]string, 0, sprintCount+1)
	chain = append(chain, task.PreviousSprints...)
	if task.Sprint != "" {
		chain = append(chain, task.Sprint)
	}

	assignee := task.Assignee
	if assignee == "" {
		assignee = "nobody"
	}

	return fmt.Sprintf(
		"'%s' has bounced across %d sprints (%s) without getting done. "+
			"Assigned to %s at %s priority. This is a delivery smell — either the "+
			"task is too large, blocked on something unstated, or consistently deprioritised.",
		task.Name, sprintCount, strings.Join(chain, " → "), assignee,
		strings.ToLower(orDefault(task.Priority, "medium")),
	)
}

func carryoverMitigation(task models.Task, sprintCount int) string {
	parts := []string{fmt.Sprintf(
		"Review why '%s' has not been completed after %d sprints. Consider whether "+
			"it needs to be re-scoped, broken into smaller tasks, or escalated.",
		task.Name, sprintCount,
	)}

	if sprintCount >= excessiveCarryover {
		parts = append(parts,
			"This task has been carried over excessively — consider a dedicated "+
				"spike or assigning additional resource to unblock it.")
	}

	priority := strings.ToLower(strings.TrimSpace(task.Priority))
	if priority == "critical" || priority == "high" {
		parts = append(parts, fmt.Sprintf(
			"As a %s-priority item, continued delay may impact project milestones.", priority))
	}

	return strings.Join(parts, " ")
}
