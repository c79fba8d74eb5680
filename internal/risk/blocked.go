package risk

import (
	"fmt"
	"strings"

	"github.com/windwardhq/windward/internal/models"
)

// Statuses that mark a task as blocked outright.
var blockedStatuses = map[string]struct{}{
	"blocked":   {},
	"waiting":   {},
	"on hold":   {},
	"on_hold":   {},
	"on-hold":   {},
	"suspended": {},
}

// Phrases in task comments that indicate a blocker. Ordered: the first
// match wins for context extraction.
var blockerPhrases = []string{
	"blocked by",
	"waiting for",
	"waiting on",
	"on hold pending",
	"on hold until",
	"held up by",
	"stalled",
}

const blockerContextLen = 80

// BlockedWorkDetector flags tasks whose status is in the blocked
// vocabulary or whose comments contain a blocker phrase. When both
// signals fire on the same task the severity is elevated one step.
type BlockedWorkDetector struct{}

// NewBlockedWorkDetector creates a blocked-work detector.
func NewBlockedWorkDetector() *BlockedWorkDetector {
	return &BlockedWorkDetector{}
}

// Name returns the detector identifier.
func (d *BlockedWorkDetector) Name() string { return "blocked_work" }

// Detect scans the project's tasks for blocked statuses and blocker
// phrases and returns findings sorted worst-first.
func (d *BlockedWorkDetector) Detect(p *models.Project) []models.Risk {
	var risks []models.Risk

	for _, task := range p.Tasks {
		statusBlocked := isStatusBlocked(task)
		keywordFound, context := findBlockerPhrase(task)

		if !statusBlocked && !keywordFound {
			continue
		}

		severity := models.SeverityFromPriority(task.Priority)
		if statusBlocked && keywordFound {
			severity = severity.Elevate()
		}

		risks = append(risks, models.Risk{
			ProjectName:         p.Name,
			Category:            models.CategoryBlockedWork,
			Severity:            severity,
			Title:               blockedTitle(task, statusBlocked),
			Explanation:         blockedExplanation(p, task, statusBlocked, context),
			SuggestedMitigation: blockedMitigation(task, keywordFound, context),
		})
	}

	sortWorstFirst(risks)
	return risks
}

// isStatusBlocked reports whether the task status is in the blocked
// vocabulary, case-insensitive and trimmed.
func isStatusBlocked(task models.Task) bool {
	_, ok := blockedStatuses[strings.ToLower(strings.TrimSpace(task.Status))]
	return ok
}

// findBlockerPhrase scans comments for the first blocker phrase and
// returns the extracted context following it.
func findBlockerPhrase(task models.Task) (bool, string) {
	if task.Comments == "" {
		return false, ""
	}
	lower := strings.ToLower(task.Comments)
	for _, phrase := range blockerPhrases {
		if pos := strings.Index(lower, phrase); pos != -1 {
			// Slice the context from the original text so case survives.
			return true, task.Comments[pos:pos+len(phrase)] + " " + extractContext(task.Comments, pos, phrase, blockerContextLen)
		}
	}
	return false, ""
}

func blockedTitle(task models.Task, statusBlocked bool) string {
	if statusBlocked {
		return fmt.Sprintf("'%s' is blocked", task.Name)
	}
	return fmt.Sprintf("'%s' has a blocker in comments", task.Name)
}

func blockedExplanation(p *models.Project, task models.Task, statusBlocked bool, context string) string {
	assignee := task.Assignee
	if assignee == "" {
		assignee = "unassigned"
	}

	var signal string
	switch {
	case statusBlocked && context != "":
		signal = fmt.Sprintf("Its status is '%s' and the comments say: \"%s\".", task.Status, context)
	case statusBlocked:
		signal = fmt.Sprintf("Its status is '%s'.", task.Status)
	default:
		signal = fmt.Sprintf("The comments say: \"%s\".", context)
	}

	return fmt.Sprintf(
		"'%s' in %s is not moving. %s The task is %s-priority and assigned to %s. "+
			"Work sitting in a blocked state consumes sprint capacity without delivering.",
		task.Name, p.Name, signal, strings.ToLower(strings.TrimSpace(orDefault(task.Priority, "medium"))), assignee,
	)
}

func blockedMitigation(task models.Task, keywordFound bool, context string) string {
	parts := []string{
		fmt.Sprintf("Escalate '%s' to the delivery lead and agree an unblock date.", task.Name),
	}
	if keywordFound {
		parts = append(parts,
			fmt.Sprintf("The blocker appears to be external (\"%s\") — chase the owning party directly rather than waiting for the next standup.", context))
	}
	if task.Assignee == "" {
		parts = append(parts, "Assign an owner; unowned blocked work rarely unblocks itself.")
	}
	return strings.Join(parts, " ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
