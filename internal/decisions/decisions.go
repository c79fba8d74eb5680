// Package decisions builds a structured audit trail of portfolio
// decisions, generated from scenario simulations, risk findings and
// investment recommendations.
package decisions

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/windwardhq/windward/internal/investment"
	"github.com/windwardhq/windward/internal/models"
	"github.com/windwardhq/windward/internal/scenario"
)

var moneyPrinter = message.NewPrinter(language.English)

// Status is the review state of a decision.
type Status string

// Decision statuses. New decisions start Pending.
const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusDeferred Status = "Deferred"
)

// Decision sources.
const (
	SourceScenario         = "scenario"
	SourceRiskAnalysis     = "risk_analysis"
	SourceInvestmentReview = "investment_review"
)

// Option is a single course of action considered for a decision.
type Option struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// Decision is a single decision record.
type Decision struct {
	ID               string   `json:"decision_id"`
	Date             string   `json:"date"`
	Title            string   `json:"title"`
	Context          string   `json:"context"`
	ProjectsAffected []string `json:"projects_affected"`
	Options          []Option `json:"options"`
	Recommendation   string   `json:"recommendation"`
	Rationale        string   `json:"recommendation_rationale"`
	Status           Status   `json:"status"`
	Source           string   `json:"source"`
}

// Log is the decision log for one portfolio review cycle. IDs are
// assigned sequentially per log.
type Log struct {
	decisions []Decision
	counter   int
}

// NewLog returns an empty decision log.
func NewLog() *Log {
	return &Log{}
}

// Add appends a decision to the log.
func (l *Log) Add(d Decision) {
	l.decisions = append(l.decisions, d)
}

// Decisions returns the recorded decisions in insertion order.
func (l *Log) Decisions() []Decision {
	return l.decisions
}

// NextID returns the next sequential decision ID.
func (l *Log) NextID() string {
	l.counter++
	return fmt.Sprintf("DEC-%03d", l.counter)
}

// MarshalJSON serializes the log as a count plus the decision records.
func (l *Log) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		DecisionCount int        `json:"decision_count"`
		Decisions     []Decision `json:"decisions"`
	}{len(l.decisions), l.decisions})
}

// FromScenario records a decision from a scenario simulation: apply the
// modelled change, or do nothing. Warnings in the result soften the
// recommendation.
func FromScenario(result *models.ScenarioResult, log *Log, refDate time.Time) Decision {
	if refDate.IsZero() {
		refDate = time.Now()
	}
	narrative := scenario.BuildNarrative(result)

	actionDesc := result.Action.Description
	if actionDesc == "" {
		actionDesc = fmt.Sprintf("%s on %s", result.Action.Type, result.Action.Project)
	}

	seen := map[string]bool{}
	var projects []string
	for _, impact := range result.Impacts {
		if !seen[impact.ProjectName] {
			seen[impact.ProjectName] = true
			projects = append(projects, impact.ProjectName)
		}
	}
	sort.Strings(projects)
	if len(projects) == 0 {
		projects = []string{result.Action.Project}
	}

	applyDesc := narrative.ImpactAnalysis
	if applyDesc == "" {
		applyDesc = narrative.AfterSummary
	}
	doNothingImpact := narrative.BeforeSummary
	if doNothingImpact == "" {
		doNothingImpact = "No change to delivery dates, budget, or dependencies."
	}
	options := []Option{
		{
			Label:       "Apply: " + actionDesc,
			Description: applyDesc,
			Impact:      narrative.AfterSummary,
		},
		{
			Label:       "Do nothing — maintain current plan",
			Description: "Continue on current trajectory without change.",
			Impact:      doNothingImpact,
		},
	}

	var rec, rationale string
	if len(result.Warnings) > 0 {
		rec = "Proceed with caution — " + actionDesc
		shown := result.Warnings
		if len(shown) > 2 {
			shown = shown[:2]
		}
		rationale = fmt.Sprintf("Scenario modelled successfully but %d warning(s) flagged: %s.",
			len(result.Warnings), strings.Join(shown, "; "))
	} else {
		rec = "Recommend: " + actionDesc
		rationale = strings.Join(narrative.Recommendations, "; ")
		if rationale == "" {
			rationale = "Scenario impact is manageable."
		}
	}

	d := Decision{
		ID:               log.NextID(),
		Date:             refDate.Format("2006-01-02"),
		Title:            "Scenario: " + actionDesc,
		Context:          fmt.Sprintf("Scenario simulation for %s.", result.Action.Project),
		ProjectsAffected: projects,
		Options:          options,
		Recommendation:   rec,
		Rationale:        rationale,
		Status:           StatusPending,
		Source:           SourceScenario,
	}
	log.Add(d)
	return d
}

// FromRiskReport records an escalation decision when the portfolio has
// Red projects. A portfolio without Red projects yields no decisions.
func FromRiskReport(report *models.PortfolioRiskReport, log *Log, refDate time.Time) []Decision {
	if refDate.IsZero() {
		refDate = time.Now()
	}

	var red []models.ProjectRiskSummary
	for _, s := range report.ProjectSummaries {
		if s.RAGStatus == models.RAGRed {
			red = append(red, s)
		}
	}
	if len(red) == 0 {
		return nil
	}

	totalRisks := 0
	names := make([]string, 0, len(red))
	for _, s := range red {
		totalRisks += s.RiskCount
		names = append(names, s.ProjectName)
	}
	if len(names) > 5 {
		names = names[:5]
	}

	d := Decision{
		ID:   log.NextID(),
		Date: refDate.Format("2006-01-02"),
		Title: fmt.Sprintf("Escalate %d Red project%s to executive review",
			len(red), pluralSuffix(len(red))),
		Context: fmt.Sprintf("%d projects at Red status with combined %d risks.",
			len(red), totalRisks),
		ProjectsAffected: names,
		Options: []Option{
			{"Escalate to executive review", "Schedule emergency review within 5 days.",
				"Leadership intervention, possible resource reallocation."},
			{"Enhanced monitoring", "Increase reporting frequency to weekly.",
				"Earlier detection but no direct intervention."},
			{"Accept risk", "Continue with current oversight level.",
				"No additional overhead but risk of further deterioration."},
		},
		Recommendation: "Escalate to executive review",
		Rationale: fmt.Sprintf(
			"%d projects at Red status requires leadership attention — monitoring alone is insufficient.",
			len(red)),
		Status: StatusPending,
		Source: SourceRiskAnalysis,
	}
	log.Add(d)
	return []Decision{d}
}

// FromInvestment records a divestment decision when the investment report
// recommends Divest anywhere, citing the cost-to-complete it would free.
func FromInvestment(report *investment.PortfolioInvestmentReport, log *Log, refDate time.Time) []Decision {
	if refDate.IsZero() {
		refDate = time.Now()
	}

	var divests, invests []investment.ProjectInvestment
	for _, pi := range report.ProjectInvestments {
		switch pi.Action {
		case investment.ActionDivest:
			divests = append(divests, pi)
		case investment.ActionInvest:
			invests = append(invests, pi)
		}
	}
	if len(divests) == 0 {
		return nil
	}

	freed := 0.0
	names := make([]string, 0, len(divests))
	for _, pi := range divests {
		freed += pi.CostToComplete
		names = append(names, pi.ProjectName)
	}
	headline := names
	if len(headline) > 2 {
		headline = headline[:2]
	}

	investNames := "higher-value initiatives"
	if len(invests) > 0 {
		shown := invests
		if len(shown) > 3 {
			shown = shown[:3]
		}
		parts := make([]string, len(shown))
		for i, pi := range shown {
			parts[i] = pi.ProjectName
		}
		investNames = strings.Join(parts, ", ")
	}

	freedText := moneyPrinter.Sprintf("£%.0f", freed)
	d := Decision{
		ID:   log.NextID(),
		Date: refDate.Format("2006-01-02"),
		Title: fmt.Sprintf("Divest from %s — reallocate %s",
			strings.Join(headline, ", "), freedText),
		Context: fmt.Sprintf("%d project%s showing negative ROI with Red delivery status.",
			len(divests), pluralSuffix(len(divests))),
		ProjectsAffected: names,
		Options: []Option{
			{"Full divestment",
				fmt.Sprintf("Stop discretionary spend on %s.", strings.Join(headline, ", ")),
				fmt.Sprintf("Frees %s for reallocation to %s.", freedText, investNames)},
			{"Reduced scope", "Cut scope to minimum viable and reduce budget.",
				"Partial savings, some benefit preserved."},
			{"Continue as-is", "Maintain current investment level.",
				"No freed budget. Risk of further value erosion."},
		},
		Recommendation: "Full divestment — redirect budget to higher-ROI projects",
		Rationale: fmt.Sprintf(
			"Continuing to invest in negative-ROI, Red-status projects erodes portfolio value. "+
				"%s better deployed on %s.", freedText, investNames),
		Status: StatusPending,
		Source: SourceInvestmentReview,
	}
	log.Add(d)
	return []Decision{d}
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
