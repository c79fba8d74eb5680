// Package risk implements Windward's risk detection engine: four
// independent heuristic detectors (blocked work, chronic carry-over, burn
// rate, dependency keywords) and the aggregation engine that runs them per
// project, ranks the findings and derives RAG statuses.
//
// Every detector is a pure function over a single project: no I/O, no
// clocks, no shared state. Anything time-dependent takes an explicit
// reference date.
package risk

import (
	"sort"
	"strings"

	"github.com/windwardhq/windward/internal/models"
)

// Detector analyzes one project and emits zero or more risk findings.
// Implementations must be side-effect free; the engine may run them in
// any order or concurrently across projects.
type Detector interface {
	// Name returns the detector's identifier for logging.
	Name() string

	// Detect scans a single project and returns its findings, sorted
	// worst-first. Missing data (no budget, no dates) degrades to fewer
	// or no findings, never an error.
	Detect(p *models.Project) []models.Risk
}

// sortWorstFirst orders risks by severity, Critical first. The sort is
// stable so ties keep task order.
func sortWorstFirst(risks []models.Risk) {
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].Severity.Rank() < risks[j].Severity.Rank()
	})
}

// extractContext returns the text following a matched keyword, trimmed of
// leading separators, cut at the first sentence-boundary punctuation and
// capped at maxLen characters.
func extractContext(text string, keywordPos int, keyword string, maxLen int) string {
	after := text[keywordPos+len(keyword):]
	after = strings.TrimLeft(after, ":- \t")

	if i := strings.IndexAny(after, ".;!?\n"); i != -1 {
		after = after[:i]
	}
	if len(after) > maxLen {
		after = after[:maxLen]
	}
	return strings.TrimSpace(after)
}
