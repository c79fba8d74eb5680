package scenario

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/windwardhq/windward/internal/models"
)

var titleCaser = cases.Title(language.English)

// BuildNarrative turns a simulation result into a plain-English impact
// briefing: what the scenario is, the state before and after, what the
// change means, cascade effects and recommended next steps.
func BuildNarrative(result *models.ScenarioResult) *models.ScenarioNarrative {
	action := result.Action

	n := &models.ScenarioNarrative{
		Title:               narrativeTitle(action),
		ScenarioDescription: narrativeDescription(action),
		Warnings:            result.Warnings,
	}

	direct := result.DirectImpacts()
	cascades := result.CascadeImpacts()

	n.BeforeSummary = beforeSummary(action, result.BeforeState)
	n.AfterSummary = afterSummary(direct)
	n.ImpactAnalysis = impactAnalysis(action, direct)
	if len(cascades) > 0 {
		n.CascadeAnalysis = cascadeAnalysis(cascades)
	}
	n.Recommendations = recommendations(action, result)

	return n
}

func narrativeTitle(action models.ScenarioAction) string {
	switch action.Type {
	case models.ActionBudgetIncrease:
		return "Budget Increase: " + action.Project
	case models.ActionBudgetDecrease:
		return "Budget Decrease: " + action.Project
	case models.ActionScopeCut:
		return "Scope Reduction: " + action.Project
	case models.ActionDelay:
		return "Schedule Delay: " + action.Project
	case models.ActionRemove:
		return "Project Removal: " + action.Project
	default:
		return "Scenario: " + action.Project
	}
}

func narrativeDescription(action models.ScenarioAction) string {
	if action.Description != "" {
		return action.Description
	}

	switch action.Type {
	case models.ActionBudgetIncrease:
		return fmt.Sprintf("Increase %s budget by %s", action.Project, fmtAmount(action))
	case models.ActionBudgetDecrease:
		return fmt.Sprintf("Decrease %s budget by %s", action.Project, fmtAmount(action))
	case models.ActionScopeCut:
		return fmt.Sprintf("Cut %s scope by %.0f%%", action.Project, action.Amount*100)
	case models.ActionDelay:
		return fmt.Sprintf("Delay %s by %d weeks", action.Project, action.DurationWeeks)
	case models.ActionRemove:
		return fmt.Sprintf("Remove %s from portfolio", action.Project)
	default:
		return fmt.Sprintf("Scenario on %s", action.Project)
	}
}

func fmtAmount(action models.ScenarioAction) string {
	if action.Amount > 0 {
		return fmt.Sprintf("%.0f%%", action.Amount*100)
	}
	return fmtMoney(action.AmountAbsolute)
}

func beforeSummary(action models.ScenarioAction, before map[string]models.ProjectSnapshot) string {
	state, ok := before[action.Project]
	if !ok {
		// The parser may have captured a different casing than the
		// portfolio uses.
		for name, s := range before {
			if strings.EqualFold(name, action.Project) {
				state, ok = s, true
				break
			}
		}
	}
	if !ok {
		return fmt.Sprintf("%s: No data available.", action.Project)
	}

	parts := []string{fmt.Sprintf("%s is currently %s.", state.Name, orUnknown(state.Status))}

	if state.Budget > 0 {
		pct := state.ActualSpend / state.Budget * 100
		parts = append(parts, fmt.Sprintf(
			"Budget: %s (%.0f%% consumed, %s spent).",
			fmtMoney(state.Budget), pct, fmtMoney(state.ActualSpend),
		))
	}
	if state.StartDate != "" && state.EndDate != "" {
		parts = append(parts, fmt.Sprintf("Timeline: %s to %s.", state.StartDate, state.EndDate))
	}
	if state.TaskCount > 0 {
		parts = append(parts, fmt.Sprintf("%d tasks in progress.", state.TaskCount))
	}

	return strings.Join(parts, " ")
}

func afterSummary(direct []models.ProjectImpact) string {
	if len(direct) == 0 {
		return "No direct impact identified."
	}

	changes := direct[0].Changes
	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	// Map order is random; a stable briefing needs a stable order.
	sortChangeKeys(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		label := titleCaser.String(strings.ReplaceAll(k, "_", " "))
		parts = append(parts, fmt.Sprintf("%s: %s.", label, changes[k]))
	}
	return strings.Join(parts, " ")
}

// changeKeyOrder fixes the presentation order of known change fields;
// anything unknown sorts after them alphabetically.
var changeKeyOrder = map[string]int{
	"status":           0,
	"budget":           1,
	"budget_freed":     2,
	"remaining_budget": 3,
	"runway_weeks":     4,
	"scope":            5,
	"start_date":       6,
	"end_date":         7,
	"days_saved":       8,
	"delay_weeks":      9,
}

func sortChangeKeys(keys []string) {
	rank := func(k string) int {
		if r, ok := changeKeyOrder[k]; ok {
			return r
		}
		return len(changeKeyOrder)
	}
	sort.Slice(keys, func(i, j int) bool {
		if rank(keys[i]) != rank(keys[j]) {
			return rank(keys[i]) < rank(keys[j])
		}
		return keys[i] < keys[j]
	})
}

func impactAnalysis(action models.ScenarioAction, direct []models.ProjectImpact) string {
	if len(direct) == 0 {
		return "No measurable impact."
	}

	project := direct[0].ProjectName

	switch action.Type {
	case models.ActionBudgetIncrease:
		return fmt.Sprintf(
			"Increasing the budget for %s extends the financial runway, reducing the "+
				"risk of budget exhaustion before delivery. This may allow the team to "+
				"address scope or resource constraints that are currently limiting progress.",
			project)
	case models.ActionBudgetDecrease:
		return fmt.Sprintf(
			"Decreasing the budget for %s shortens the financial runway. The team may "+
				"need to reduce scope or find efficiencies to deliver within the revised "+
				"budget. Review whether current commitments are achievable with reduced funding.",
			project)
	case models.ActionScopeCut:
		days := direct[0].Changes["days_saved"]
		if days == "" {
			days = "0"
		}
		return fmt.Sprintf(
			"Reducing scope on %s by %.0f%% is estimated to save %s days on the "+
				"delivery timeline. This trades feature completeness for earlier delivery. "+
				"Review which deliverables are deferred and whether benefits targets are "+
				"still achievable with reduced scope.",
			project, action.Amount*100, days)
	case models.ActionDelay:
		return fmt.Sprintf(
			"Delaying %s by %d week%s shifts the delivery window forward. This may "+
				"impact dependent projects and downstream milestones. Benefits realisation "+
				"will be correspondingly delayed.",
			project, action.DurationWeeks, pluralSuffix(action.DurationWeeks))
	case models.ActionRemove:
		return fmt.Sprintf(
			"Removing %s from the portfolio frees up budget and resources. However, any "+
				"projects dependent on %s will need re-planning or alternative delivery "+
				"paths. Expected benefits from %s will not be realised.",
			project, project, project)
	default:
		return "Impact analysis not available for this scenario type."
	}
}

func cascadeAnalysis(cascades []models.ProjectImpact) string {
	parts := []string{fmt.Sprintf(
		"%d downstream project%s affected:", len(cascades), pluralSuffix(len(cascades)))}

	for _, impact := range cascades {
		var b strings.Builder
		fmt.Fprintf(&b, "**%s**: ", impact.ProjectName)

		if delay := impact.Changes["delay_weeks"]; delay != "" {
			fmt.Fprintf(&b, "Delayed by %s weeks. ", delay)
		}
		if end := impact.Changes["end_date"]; end != "" {
			newEnd := end
			if i := strings.LastIndex(end, " → "); i != -1 {
				newEnd = end[i+len(" → "):]
			}
			fmt.Fprintf(&b, "New end date: %s. ", newEnd)
		}
		if reason := impact.Changes["reason"]; reason != "" {
			b.WriteString(reason + ". ")
		}
		if note := impact.Changes["note"]; note != "" {
			b.WriteString(note)
		}
		parts = append(parts, strings.TrimSpace(b.String()))
	}

	return strings.Join(parts, "\n")
}

func recommendations(action models.ScenarioAction, result *models.ScenarioResult) []string {
	var recs []string
	project := action.Project
	cascadeCount := len(result.CascadeImpacts())

	switch action.Type {
	case models.ActionBudgetIncrease:
		recs = append(recs,
			fmt.Sprintf("Approve the budget increase for %s and communicate the revised allocation to the delivery team.", project),
			"Set a checkpoint in 4 weeks to verify the additional funding is translating into accelerated delivery.")

	case models.ActionBudgetDecrease:
		recs = append(recs,
			fmt.Sprintf("Confirm the revised budget with the %s delivery team and agree scope trade-offs.", project),
			"Identify which deliverables can be deferred to Phase 2 to fit within the reduced budget.")
		for _, w := range result.Warnings {
			if strings.Contains(strings.ToLower(w), "over budget") {
				recs = append(recs, fmt.Sprintf("URGENT: %s is already over budget — immediate intervention required.", project))
				break
			}
		}

	case models.ActionScopeCut:
		recs = append(recs,
			fmt.Sprintf("Agree the deferred scope items with the %s sponsor and update the benefits register.", project),
			"Communicate the revised delivery date to stakeholders.")
		if cascadeCount > 0 {
			recs = append(recs, fmt.Sprintf(
				"Notify the %d dependent project%s of the earlier delivery window.",
				cascadeCount, pluralSuffix(cascadeCount)))
		}

	case models.ActionDelay:
		recs = append(recs, fmt.Sprintf("Communicate the revised timeline for %s to all stakeholders.", project))
		if cascadeCount > 0 {
			recs = append(recs, fmt.Sprintf(
				"Assess the cascade impact on %d dependent project%s and update their timelines.",
				cascadeCount, pluralSuffix(cascadeCount)))
		}
		recs = append(recs, "Review whether the delay changes the cost profile (extended team costs, contract implications).")

	case models.ActionRemove:
		recs = append(recs,
			fmt.Sprintf("Formally close %s and release resources back to the portfolio.", project),
			fmt.Sprintf("Update the benefits register to remove %s's expected benefits.", project))
		if cascadeCount > 0 {
			recs = append(recs, fmt.Sprintf(
				"Urgently re-plan the %d project%s that depend on %s.",
				cascadeCount, pluralSuffix(cascadeCount), project))
		}
	}

	return recs
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown status"
	}
	return s
}
