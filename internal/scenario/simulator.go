package scenario

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/windwardhq/windward/internal/graph"
	"github.com/windwardhq/windward/internal/models"
)

var moneyPrinter = message.NewPrinter(language.English)

// runwayUnknown marks a runway that cannot be computed (no spend yet, no
// start date, or no budget).
const runwayUnknown = -1

// Simulate applies a parsed action to the portfolio and returns the
// projected impact: before/after snapshots, a direct impact on the target,
// cascade impacts on dependents and any warnings. Inputs are never
// mutated; an unknown target yields a warning-only result.
func Simulate(
	action models.ScenarioAction,
	projects []*models.Project,
	g *graph.DependencyGraph,
	referenceDate time.Time,
) *models.ScenarioResult {
	if referenceDate.IsZero() {
		referenceDate = time.Now()
	}

	projectMap := make(map[string]*models.Project, len(projects))
	for _, p := range projects {
		projectMap[p.Name] = p
	}

	targetName, ok := resolveProjectName(action.Project, projectMap)
	if !ok {
		return &models.ScenarioResult{
			Action: action,
			Warnings: []string{fmt.Sprintf(
				"Project '%s' not found in portfolio. Available projects: %s",
				action.Project, strings.Join(sortedNames(projectMap), ", "),
			)},
		}
	}

	before := make(map[string]models.ProjectSnapshot, len(projects))
	for _, p := range projects {
		before[p.Name] = snapshot(p)
	}

	switch action.Type {
	case models.ActionRemove:
		return simulateRemove(action, targetName, projectMap, g, before)
	case models.ActionBudgetIncrease, models.ActionBudgetDecrease:
		return simulateBudget(action, targetName, projectMap, before, referenceDate)
	case models.ActionScopeCut:
		return simulateScopeCut(action, targetName, projectMap, g, before)
	case models.ActionDelay:
		return simulateDelay(action, targetName, projectMap, g, before)
	default:
		return &models.ScenarioResult{
			Action:      action,
			BeforeState: before,
			Warnings:    []string{fmt.Sprintf("Unsupported action type: %s", action.Type)},
		}
	}
}

func simulateBudget(
	action models.ScenarioAction,
	targetName string,
	projectMap map[string]*models.Project,
	before map[string]models.ProjectSnapshot,
	referenceDate time.Time,
) *models.ScenarioResult {
	project := projectMap[targetName]
	oldBudget := project.Budget

	changeAmount := action.AmountAbsolute
	if changeAmount <= 0 {
		changeAmount = oldBudget * action.Amount
	}

	var newBudget float64
	if action.Type == models.ActionBudgetIncrease {
		newBudget = oldBudget + changeAmount
	} else {
		newBudget = oldBudget - changeAmount
		if newBudget < 0 {
			newBudget = 0
		}
	}

	oldRunway := runwayWeeks(project, project.Budget, referenceDate)
	newRunway := runwayWeeks(project, newBudget, referenceDate)

	after := copySnapshots(before)
	target := after[targetName]
	target.Budget = newBudget
	after[targetName] = target

	result := &models.ScenarioResult{
		Action:      action,
		BeforeState: before,
		AfterState:  after,
		Impacts: []models.ProjectImpact{{
			ProjectName: targetName,
			ImpactType:  models.ImpactDirect,
			Changes: map[string]string{
				"budget":       fmt.Sprintf("%s → %s", fmtMoney(oldBudget), fmtMoney(newBudget)),
				"runway_weeks": fmt.Sprintf("%s → %s", fmtRunway(oldRunway), fmtRunway(newRunway)),
			},
		}},
	}

	if newBudget < project.ActualSpend {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"New budget (%s) is below actual spend (%s) — project is already over budget.",
			fmtMoney(newBudget), fmtMoney(project.ActualSpend),
		))
	}
	if action.Type == models.ActionBudgetDecrease &&
		oldRunway != runwayUnknown && newRunway != runwayUnknown && newRunway < oldRunway {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Budget decrease reduces runway from %d to %d weeks.", oldRunway, newRunway,
		))
	}

	return result
}

func simulateScopeCut(
	action models.ScenarioAction,
	targetName string,
	projectMap map[string]*models.Project,
	g *graph.DependencyGraph,
	before map[string]models.ProjectSnapshot,
) *models.ScenarioResult {
	project := projectMap[targetName]
	cutPct := action.Amount

	// Linear model: cutting N% of scope pulls the end date in by N% of
	// the project duration.
	var newEnd *time.Time
	daysSaved := 0
	if project.StartDate != nil && project.EndDate != nil {
		totalDays := int(project.EndDate.Sub(*project.StartDate).Hours() / 24)
		daysSaved = int(float64(totalDays) * cutPct)
		e := project.EndDate.AddDate(0, 0, -daysSaved)
		newEnd = &e
	}

	impacts := []models.ProjectImpact{{
		ProjectName: targetName,
		ImpactType:  models.ImpactDirect,
		Changes: map[string]string{
			"scope":      fmt.Sprintf("100%% → %.0f%%", (1-cutPct)*100),
			"end_date":   fmt.Sprintf("%s → %s", fmtDate(project.EndDate), fmtDate(newEnd)),
			"days_saved": fmt.Sprintf("%d", daysSaved),
		},
	}}

	for _, depName := range g.AllDependents(targetName) {
		impacts = append(impacts, models.ProjectImpact{
			ProjectName: depName,
			ImpactType:  models.ImpactCascade,
			Changes: map[string]string{
				"note": fmt.Sprintf("Dependency on %s delivers %d days earlier.", targetName, daysSaved),
			},
		})
	}

	after := copySnapshots(before)
	target := after[targetName]
	target.ScopePct = (1 - cutPct) * 100
	if newEnd != nil {
		target.EndDate = newEnd.Format("2006-01-02")
	}
	after[targetName] = target

	return &models.ScenarioResult{
		Action:      action,
		BeforeState: before,
		AfterState:  after,
		Impacts:     impacts,
	}
}

func simulateDelay(
	action models.ScenarioAction,
	targetName string,
	projectMap map[string]*models.Project,
	g *graph.DependencyGraph,
	before map[string]models.ProjectSnapshot,
) *models.ScenarioResult {
	project := projectMap[targetName]
	delayDays := action.DurationWeeks * 7

	newStart := shiftDate(project.StartDate, delayDays)
	newEnd := shiftDate(project.EndDate, delayDays)

	impacts := []models.ProjectImpact{{
		ProjectName: targetName,
		ImpactType:  models.ImpactDirect,
		Changes: map[string]string{
			"start_date":  fmt.Sprintf("%s → %s", fmtDate(project.StartDate), fmtDate(newStart)),
			"end_date":    fmt.Sprintf("%s → %s", fmtDate(project.EndDate), fmtDate(newEnd)),
			"delay_weeks": fmt.Sprintf("%d", action.DurationWeeks),
		},
	}}

	// The delay ripples through every transitive dependent.
	dependents := g.AllDependents(targetName)
	for _, depName := range dependents {
		dep, ok := projectMap[depName]
		if !ok {
			continue
		}
		depNewEnd := shiftDate(dep.EndDate, delayDays)
		impacts = append(impacts, models.ProjectImpact{
			ProjectName: depName,
			ImpactType:  models.ImpactCascade,
			Changes: map[string]string{
				"end_date":    fmt.Sprintf("%s → %s", fmtDate(dep.EndDate), fmtDate(depNewEnd)),
				"delay_weeks": fmt.Sprintf("%d", action.DurationWeeks),
				"reason":      fmt.Sprintf("Cascade delay from %s", targetName),
			},
		})
	}

	after := copySnapshots(before)
	target := after[targetName]
	if newStart != nil {
		target.StartDate = newStart.Format("2006-01-02")
	}
	if newEnd != nil {
		target.EndDate = newEnd.Format("2006-01-02")
	}
	after[targetName] = target
	for _, depName := range dependents {
		dep, ok := projectMap[depName]
		if !ok || dep.EndDate == nil {
			continue
		}
		s := after[depName]
		s.EndDate = dep.EndDate.AddDate(0, 0, delayDays).Format("2006-01-02")
		after[depName] = s
	}

	result := &models.ScenarioResult{
		Action:      action,
		BeforeState: before,
		AfterState:  after,
		Impacts:     impacts,
	}

	if len(dependents) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Delay on %s cascades to %d dependent project%s: %s.",
			targetName, len(dependents), pluralSuffix(len(dependents)),
			strings.Join(dependents, ", "),
		))
	}

	return result
}

func simulateRemove(
	action models.ScenarioAction,
	targetName string,
	projectMap map[string]*models.Project,
	g *graph.DependencyGraph,
	before map[string]models.ProjectSnapshot,
) *models.ScenarioResult {
	project := projectMap[targetName]

	remaining := project.Budget - project.ActualSpend
	if remaining < 0 {
		remaining = 0
	}

	impacts := []models.ProjectImpact{{
		ProjectName: targetName,
		ImpactType:  models.ImpactDirect,
		Changes: map[string]string{
			"status":           fmt.Sprintf("%s → Removed", project.Status),
			"budget_freed":     fmtMoney(project.Budget),
			"remaining_budget": fmtMoney(remaining),
		},
	}}

	// Direct dependents only: transitive projects keep their immediate
	// dependency and are re-planned from there.
	dependents := g.Dependents(targetName)
	for _, depName := range dependents {
		impacts = append(impacts, models.ProjectImpact{
			ProjectName: depName,
			ImpactType:  models.ImpactCascade,
			Changes: map[string]string{
				"note": fmt.Sprintf(
					"Dependency on %s is broken — project may need re-planning.", targetName),
			},
		})
	}

	after := copySnapshots(before)
	target := after[targetName]
	target.Status = "Removed"
	after[targetName] = target

	result := &models.ScenarioResult{
		Action:      action,
		BeforeState: before,
		AfterState:  after,
		Impacts:     impacts,
	}

	if len(dependents) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Removing %s breaks dependencies for: %s. "+
				"These projects may need re-scoping or alternative delivery paths.",
			targetName, strings.Join(dependents, ", "),
		))
	}

	return result
}

func snapshot(p *models.Project) models.ProjectSnapshot {
	s := models.ProjectSnapshot{
		Name:        p.Name,
		Status:      p.Status,
		Budget:      p.Budget,
		ActualSpend: p.ActualSpend,
		ScopePct:    100.0,
		TaskCount:   p.TaskCount(),
	}
	if p.StartDate != nil {
		s.StartDate = p.StartDate.Format("2006-01-02")
	}
	if p.EndDate != nil {
		s.EndDate = p.EndDate.Format("2006-01-02")
	}
	return s
}

func copySnapshots(in map[string]models.ProjectSnapshot) map[string]models.ProjectSnapshot {
	out := make(map[string]models.ProjectSnapshot, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// runwayWeeks projects how many weeks the remaining budget lasts at the
// burn rate observed so far. Returns runwayUnknown when there is no
// budget, no spend yet or no start date to measure burn against.
func runwayWeeks(p *models.Project, budget float64, referenceDate time.Time) int {
	if budget <= 0 || p.ActualSpend <= 0 || p.StartDate == nil {
		return runwayUnknown
	}

	elapsedDays := referenceDate.Sub(*p.StartDate).Hours() / 24
	if elapsedDays < 1 {
		elapsedDays = 1
	}
	dailyBurn := p.ActualSpend / elapsedDays
	remaining := budget - p.ActualSpend
	if dailyBurn <= 0 || remaining <= 0 {
		return 0
	}
	return int(remaining / dailyBurn / 7)
}

func resolveProjectName(name string, projectMap map[string]*models.Project) (string, bool) {
	if _, ok := projectMap[name]; ok {
		return name, true
	}
	lower := strings.ToLower(name)
	for pname := range projectMap {
		if strings.ToLower(pname) == lower {
			return pname, true
		}
	}
	return "", false
}

func sortedNames(projectMap map[string]*models.Project) []string {
	names := make([]string, 0, len(projectMap))
	for name := range projectMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func shiftDate(d *time.Time, days int) *time.Time {
	if d == nil {
		return nil
	}
	shifted := d.AddDate(0, 0, days)
	return &shifted
}

func fmtDate(d *time.Time) string {
	if d == nil {
		return "N/A"
	}
	return d.Format("2006-01-02")
}

func fmtRunway(weeks int) string {
	if weeks == runwayUnknown {
		return "N/A"
	}
	return fmt.Sprintf("%d", weeks)
}

func fmtMoney(v float64) string {
	return moneyPrinter.Sprintf("%.0f", v)
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
