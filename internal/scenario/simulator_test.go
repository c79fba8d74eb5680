package scenario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windwardhq/windward/internal/graph"
	"github.com/windwardhq/windward/internal/models"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func fixturePortfolio() []*models.Project {
	return []*models.Project{
		{
			Name:        "Alpha",
			Status:      "In Progress",
			Budget:      100000,
			ActualSpend: 40000,
			StartDate:   date("2026-01-01"),
			EndDate:     date("2026-06-30"),
			Tasks:       []models.Task{{Name: "A1", Status: "In Progress"}},
		},
		{
			Name:        "Gamma",
			Status:      "At Risk",
			Budget:      200000,
			ActualSpend: 185000,
			StartDate:   date("2025-09-01"),
			EndDate:     date("2026-04-30"),
			Tasks:       []models.Task{{Name: "G1", Status: "Blocked"}, {Name: "G2", Status: "To Do"}},
		},
		{
			Name:        "Delta",
			Status:      "On Track",
			Budget:      50000,
			ActualSpend: 10000,
			StartDate:   date("2026-02-01"),
			EndDate:     date("2026-09-30"),
		},
	}
}

// fixtureGraph wires Delta → Gamma (Delta depends on Gamma).
func fixtureGraph() *graph.DependencyGraph {
	g := graph.New("Alpha", "Gamma", "Delta")
	g.AddDependency("Delta", "Gamma")
	return g
}

func TestSimulateUnknownProject(t *testing.T) {
	action := models.ScenarioAction{Type: models.ActionDelay, Project: "Nonexistent", DurationWeeks: 2}
	result := Simulate(action, fixturePortfolio(), fixtureGraph(), *date("2026-02-19"))

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Project 'Nonexistent' not found in portfolio")
	assert.Contains(t, result.Warnings[0], "Alpha, Delta, Gamma")
	assert.Empty(t, result.Impacts)
	assert.Empty(t, result.AfterState)
}

func TestSimulateResolvesCaseInsensitive(t *testing.T) {
	action := models.ScenarioAction{Type: models.ActionRemove, Project: "gamma"}
	result := Simulate(action, fixturePortfolio(), fixtureGraph(), *date("2026-02-19"))

	require.NotEmpty(t, result.Impacts)
	assert.Equal(t, "Gamma", result.Impacts[0].ProjectName)
}

func TestSimulateBudgetIncreasePercent(t *testing.T) {
	action := models.ScenarioAction{
		Type: models.ActionBudgetIncrease, Project: "Alpha", Amount: 0.20,
	}
	result := Simulate(action, fixturePortfolio(), fixtureGraph(), *date("2026-02-19"))

	direct := result.DirectImpacts()
	require.Len(t, direct, 1)
	assert.Equal(t, "100,000 → 120,000", direct[0].Changes["budget"])
	assert.InDelta(t, 120000, result.AfterState["Alpha"].Budget, 1e-9)
	assert.InDelta(t, 100000, result.BeforeState["Alpha"].Budget, 1e-9)
	assert.Empty(t, result.Warnings)
}

func TestSimulateBudgetDecreaseAbsolute(t *testing.T) {
	action := models.ScenarioAction{
		Type: models.ActionBudgetDecrease, Project: "Alpha", AmountAbsolute: 30000,
	}
	result := Simulate(action, fixturePortfolio(), fixtureGraph(), *date("2026-02-19"))

	direct := result.DirectImpacts()
	require.Len(t, direct, 1)
	assert.Equal(t, "100,000 → 70,000", direct[0].Changes["budget"])

	// 40,000 spent over 49 days is ~816/day; 30,000 remaining lasts fewer
	// weeks than 60,000 did.
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Budget decrease reduces runway")
}

func TestSimulateBudgetDecreaseBelowSpendWarns(t *testing.T) {
	action := models.ScenarioAction{
		Type: models.ActionBudgetDecrease, Project: "Gamma", Amount: 0.50,
	}
	result := Simulate(action, fixturePortfolio(), fixtureGraph(), *date("2026-02-19"))

	assert.Contains(t, result.Warnings,
		"New budget (100,000) is below actual spend (185,000) — project is already over budget.")
}

func TestSimulateBudgetNeverGoesNegative(t *testing.T) {
	action := models.ScenarioAction{
		Type: models.ActionBudgetDecrease, Project: "Alpha", AmountAbsolute: 999999,
	}
	result := Simulate(action, fixturePortfolio(), fixtureGraph(), *date("2026-02-19"))
	assert.Zero(t, result.AfterState["Alpha"].Budget)
}

func TestSimulateScopeCut(t *testing.T) {
	action := models.ScenarioAction{Type: models.ActionScopeCut, Project: "Gamma", Amount: 0.30}
	result := Simulate(action, fixturePortfolio(), fixtureGraph(), *date("2026-02-19"))

	direct := result.DirectImpacts()
	require.Len(t, direct, 1)
	assert.Equal(t, "100% → 70%", direct[0].Changes["scope"])
	// 241 days total, 30% cut saves 72 days: 2026-04-30 − 72d = 2026-02-17.
	assert.Equal(t, "72", direct[0].Changes["days_saved"])
	assert.Equal(t, "2026-04-30 → 2026-02-17", direct[0].Changes["end_date"])

	assert.InDelta(t, 70.0, result.AfterState["Gamma"].ScopePct, 1e-9)
	assert.Equal(t, "2026-02-17", result.AfterState["Gamma"].EndDate)

	// Delta depends on Gamma, so it benefits.
	cascades := result.CascadeImpacts()
	require.Len(t, cascades, 1)
	assert.Equal(t, "Delta", cascades[0].ProjectName)
	assert.Contains(t, cascades[0].Changes["note"], "delivers 72 days earlier")
}

func TestSimulateDelayShiftsDatesAndCascades(t *testing.T) {
	action := models.ScenarioAction{Type: models.ActionDelay, Project: "Gamma", DurationWeeks: 13}
	result := Simulate(action, fixturePortfolio(), fixtureGraph(), *date("2026-02-19"))

	direct := result.DirectImpacts()
	require.Len(t, direct, 1)
	assert.Equal(t, "2026-04-30 → 2026-07-30", direct[0].Changes["end_date"])
	assert.Equal(t, "2025-09-01 → 2025-12-01", direct[0].Changes["start_date"])
	assert.Equal(t, "13", direct[0].Changes["delay_weeks"])

	assert.Equal(t, "2026-07-30", result.AfterState["Gamma"].EndDate)

	cascades := result.CascadeImpacts()
	require.Len(t, cascades, 1)
	assert.Equal(t, "Delta", cascades[0].ProjectName)
	assert.Equal(t, "2026-09-30 → 2026-12-30", cascades[0].Changes["end_date"])
	assert.Equal(t, "Cascade delay from Gamma", cascades[0].Changes["reason"])
	assert.Equal(t, "2026-12-30", result.AfterState["Delta"].EndDate)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Delay on Gamma cascades to 1 dependent project: Delta.")
}

func TestSimulateRemove(t *testing.T) {
	action := models.ScenarioAction{Type: models.ActionRemove, Project: "Gamma"}
	result := Simulate(action, fixturePortfolio(), fixtureGraph(), *date("2026-02-19"))

	direct := result.DirectImpacts()
	require.Len(t, direct, 1)
	assert.Equal(t, "At Risk → Removed", direct[0].Changes["status"])
	assert.Equal(t, "200,000", direct[0].Changes["budget_freed"])
	assert.Equal(t, "15,000", direct[0].Changes["remaining_budget"])
	assert.Equal(t, "Removed", result.AfterState["Gamma"].Status)

	cascades := result.CascadeImpacts()
	require.Len(t, cascades, 1)
	assert.Equal(t, "Delta", cascades[0].ProjectName)
	assert.Contains(t, cascades[0].Changes["note"], "Dependency on Gamma is broken")

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Removing Gamma breaks dependencies for: Delta.")
}

func TestSimulateNeverMutatesInputs(t *testing.T) {
	projects := fixturePortfolio()
	originals := fixturePortfolio()

	for _, action := range []models.ScenarioAction{
		{Type: models.ActionBudgetIncrease, Project: "Alpha", Amount: 0.5},
		{Type: models.ActionScopeCut, Project: "Gamma", Amount: 0.3},
		{Type: models.ActionDelay, Project: "Gamma", DurationWeeks: 4},
		{Type: models.ActionRemove, Project: "Gamma"},
	} {
		Simulate(action, projects, fixtureGraph(), *date("2026-02-19"))
	}

	require.Equal(t, len(originals), len(projects))
	for i := range projects {
		assert.Equal(t, originals[i], projects[i])
	}
}

func TestSimulateMissingDatesDegrade(t *testing.T) {
	projects := []*models.Project{{Name: "Bare", Status: "New", Budget: 10000}}
	g := graph.New("Bare")

	action := models.ScenarioAction{Type: models.ActionDelay, Project: "Bare", DurationWeeks: 2}
	result := Simulate(action, projects, g, *date("2026-02-19"))

	direct := result.DirectImpacts()
	require.Len(t, direct, 1)
	assert.Equal(t, "N/A → N/A", direct[0].Changes["end_date"])
	assert.Empty(t, result.AfterState["Bare"].EndDate)
}
