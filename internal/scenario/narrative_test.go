package scenario

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windwardhq/windward/internal/models"
)

func runScenario(t *testing.T, input string) *models.ScenarioResult {
	t.Helper()
	action, err := Parse(input)
	require.NoError(t, err)
	return Simulate(*action, fixturePortfolio(), fixtureGraph(), *date("2026-02-19"))
}

func TestNarrativeBudgetIncrease(t *testing.T) {
	result := runScenario(t, "increase Alpha budget by 20%")
	n := BuildNarrative(result)

	assert.Equal(t, "Budget Increase: Alpha", n.Title)
	assert.Equal(t, "increase Alpha budget by 20%", n.ScenarioDescription)
	assert.Contains(t, n.BeforeSummary, "Alpha is currently In Progress.")
	assert.Contains(t, n.BeforeSummary, "Budget: 100,000 (40% consumed, 40,000 spent).")
	assert.Contains(t, n.BeforeSummary, "Timeline: 2026-01-01 to 2026-06-30.")
	assert.Contains(t, n.AfterSummary, "Budget: 100,000 → 120,000.")
	assert.Contains(t, n.ImpactAnalysis, "extends the financial runway")
	assert.Empty(t, n.CascadeAnalysis)
	require.Len(t, n.Recommendations, 2)
	assert.Contains(t, n.Recommendations[0], "Approve the budget increase for Alpha")
}

func TestNarrativeDelayWithCascade(t *testing.T) {
	result := runScenario(t, "delay Gamma by 1 quarter")
	n := BuildNarrative(result)

	assert.Equal(t, "Schedule Delay: Gamma", n.Title)
	assert.Contains(t, n.ImpactAnalysis, "Delaying Gamma by 13 weeks")
	require.NotEmpty(t, n.CascadeAnalysis)
	assert.Contains(t, n.CascadeAnalysis, "1 downstream project affected:")
	assert.Contains(t, n.CascadeAnalysis, "**Delta**: Delayed by 13 weeks. New end date: 2026-12-30.")
	assert.Contains(t, strings.Join(n.Recommendations, " "), "cascade impact on 1 dependent project")
	assert.NotEmpty(t, n.Warnings)
}

func TestNarrativeRemove(t *testing.T) {
	result := runScenario(t, "remove Project Gamma")
	n := BuildNarrative(result)

	assert.Equal(t, "Project Removal: Gamma", n.Title)
	assert.Contains(t, n.AfterSummary, "Status: At Risk → Removed.")
	assert.Contains(t, n.ImpactAnalysis, "frees up budget and resources")
	assert.Contains(t, strings.Join(n.Recommendations, " "), "Urgently re-plan the 1 project that depend on Gamma")
}

func TestNarrativeScopeCut(t *testing.T) {
	result := runScenario(t, "cut Gamma scope by 30%")
	n := BuildNarrative(result)

	assert.Equal(t, "Scope Reduction: Gamma", n.Title)
	assert.Contains(t, n.ImpactAnalysis, "save 72 days on the delivery timeline")
	assert.Contains(t, n.CascadeAnalysis, "Dependency on Gamma delivers 72 days earlier.")
}

func TestNarrativeOverBudgetDecreaseFlagsUrgent(t *testing.T) {
	result := runScenario(t, "decrease Gamma budget by 50%")
	n := BuildNarrative(result)

	assert.Contains(t, strings.Join(n.Recommendations, " "), "URGENT: Gamma is already over budget")
}

func TestNarrativeUnknownProjectStillRenders(t *testing.T) {
	result := runScenario(t, "delay Unknown Project by 2 weeks")
	n := BuildNarrative(result)

	assert.Contains(t, n.BeforeSummary, "No data available")
	assert.Equal(t, "No direct impact identified.", n.AfterSummary)
	assert.Equal(t, "No measurable impact.", n.ImpactAnalysis)
	assert.NotEmpty(t, n.Warnings)
}

func TestNarrativeFullTextSections(t *testing.T) {
	result := runScenario(t, "delay Gamma by 2 weeks")
	text := BuildNarrative(result).FullText()

	for _, heading := range []string{
		"# Scenario Impact Summary",
		"## Scenario",
		"## Before",
		"## After",
		"## Impact Analysis",
		"## Cascade Effects",
		"## Recommended Actions",
		"## Warnings",
	} {
		assert.Contains(t, text, heading)
	}
}
