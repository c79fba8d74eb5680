package models

import "strings"

// ActionType is the closed set of scenario action types.
type ActionType string

// Scenario action types.
const (
	ActionBudgetIncrease ActionType = "budget_increase"
	ActionBudgetDecrease ActionType = "budget_decrease"
	ActionScopeCut       ActionType = "scope_cut"
	ActionDelay          ActionType = "delay"
	ActionRemove         ActionType = "remove"
)

// ScenarioAction is a structured what-if command, parsed once from free
// text and never mutated. Amount carries a percentage (0.0-1.0) and
// AmountAbsolute a currency amount; the two are mutually exclusive.
type ScenarioAction struct {
	Type           ActionType `json:"type"`
	Project        string     `json:"project"`
	Amount         float64    `json:"amount,omitempty"`
	AmountAbsolute float64    `json:"amount_absolute,omitempty"`
	DurationWeeks  int        `json:"duration_weeks,omitempty"`
	Description    string     `json:"description,omitempty"`
}

// ProjectSnapshot captures the externally visible state of one project at
// a point in time. Dates are ISO strings; empty means unknown.
type ProjectSnapshot struct {
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	StartDate   string  `json:"start_date,omitempty"`
	EndDate     string  `json:"end_date,omitempty"`
	Budget      float64 `json:"budget"`
	ActualSpend float64 `json:"actual_spend"`
	ScopePct    float64 `json:"scope_pct"`
	TaskCount   int     `json:"task_count"`
}

// Impact types on a ProjectImpact record.
const (
	ImpactDirect  = "direct"
	ImpactCascade = "cascade"
)

// ProjectImpact describes the effect of a scenario on one project.
// Changes maps a field name to a "before → after" description.
type ProjectImpact struct {
	ProjectName string            `json:"project_name"`
	ImpactType  string            `json:"impact_type"`
	Changes     map[string]string `json:"changes"`
}

// ScenarioResult is the full output of one simulation: before/after
// snapshots of every project, ordered impacts (direct target first, then
// cascades), and additive warnings. The input portfolio is never mutated;
// all state changes exist only inside the result.
type ScenarioResult struct {
	Action      ScenarioAction             `json:"action"`
	BeforeState map[string]ProjectSnapshot `json:"before_state"`
	AfterState  map[string]ProjectSnapshot `json:"after_state"`
	Impacts     []ProjectImpact            `json:"impacts"`
	Warnings    []string                   `json:"warnings"`
}

// DirectImpacts returns the impacts tagged "direct".
func (r *ScenarioResult) DirectImpacts() []ProjectImpact {
	return r.impactsOfType(ImpactDirect)
}

// CascadeImpacts returns the impacts tagged "cascade".
func (r *ScenarioResult) CascadeImpacts() []ProjectImpact {
	return r.impactsOfType(ImpactCascade)
}

func (r *ScenarioResult) impactsOfType(t string) []ProjectImpact {
	var out []ProjectImpact
	for _, i := range r.Impacts {
		if i.ImpactType == t {
			out = append(out, i)
		}
	}
	return out
}

// ScenarioNarrative is a plain-English, board-level summary of a scenario
// simulation, structured as a one-page impact briefing.
type ScenarioNarrative struct {
	Title               string   `json:"title"`
	ScenarioDescription string   `json:"scenario_description"`
	BeforeSummary       string   `json:"before_summary"`
	AfterSummary        string   `json:"after_summary"`
	ImpactAnalysis      string   `json:"impact_analysis"`
	CascadeAnalysis     string   `json:"cascade_analysis,omitempty"`
	Recommendations     []string `json:"recommendations"`
	Warnings            []string `json:"warnings"`
}

// FullText renders the narrative as a Markdown document.
func (n *ScenarioNarrative) FullText() string {
	var b strings.Builder
	b.WriteString("# Scenario Impact Summary\n\n")
	b.WriteString("## Scenario\n" + n.ScenarioDescription + "\n\n")
	b.WriteString("## Before\n" + n.BeforeSummary + "\n\n")
	b.WriteString("## After\n" + n.AfterSummary + "\n\n")
	b.WriteString("## Impact Analysis\n" + n.ImpactAnalysis + "\n")
	if n.CascadeAnalysis != "" {
		b.WriteString("\n## Cascade Effects\n" + n.CascadeAnalysis + "\n")
	}
	if len(n.Recommendations) > 0 {
		b.WriteString("\n## Recommended Actions\n")
		for _, r := range n.Recommendations {
			b.WriteString("- " + r + "\n")
		}
	}
	if len(n.Warnings) > 0 {
		b.WriteString("\n## Warnings\n")
		for _, w := range n.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}
