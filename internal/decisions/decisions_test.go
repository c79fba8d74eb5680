package decisions

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windwardhq/windward/internal/investment"
	"github.com/windwardhq/windward/internal/models"
)

func decisionsRef() time.Time {
	return time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)
}

func scenarioResultFixture(warnings ...string) *models.ScenarioResult {
	return &models.ScenarioResult{
		Action: models.ScenarioAction{
			Type:          models.ActionDelay,
			Project:       "Gamma",
			DurationWeeks: 4,
			Description:   "delay Gamma by 4 weeks",
		},
		BeforeState: map[string]models.ProjectSnapshot{
			"Gamma": {Name: "Gamma", Status: "At Risk", Budget: 200000, ActualSpend: 185000},
		},
		AfterState: map[string]models.ProjectSnapshot{
			"Gamma": {Name: "Gamma", Status: "At Risk", Budget: 200000, ActualSpend: 185000},
		},
		Impacts: []models.ProjectImpact{
			{ProjectName: "Gamma", ImpactType: models.ImpactDirect,
				Changes: map[string]string{"delay_weeks": "0 → 4"}},
			{ProjectName: "Delta", ImpactType: models.ImpactCascade,
				Changes: map[string]string{"end_date": "2026-09-30 → 2026-10-28"}},
		},
		Warnings: warnings,
	}
}

func TestFromScenario(t *testing.T) {
	log := NewLog()
	d := FromScenario(scenarioResultFixture(), log, decisionsRef())

	assert.Equal(t, "DEC-001", d.ID)
	assert.Equal(t, "2026-02-19", d.Date)
	assert.Equal(t, "Scenario: delay Gamma by 4 weeks", d.Title)
	assert.Equal(t, "Scenario simulation for Gamma.", d.Context)
	assert.Equal(t, []string{"Delta", "Gamma"}, d.ProjectsAffected)
	assert.Equal(t, StatusPending, d.Status)
	assert.Equal(t, SourceScenario, d.Source)

	require.Len(t, d.Options, 2)
	assert.Equal(t, "Apply: delay Gamma by 4 weeks", d.Options[0].Label)
	assert.Equal(t, "Do nothing — maintain current plan", d.Options[1].Label)
	assert.Contains(t, d.Recommendation, "Recommend: delay Gamma by 4 weeks")
	assert.NotEmpty(t, d.Rationale)

	require.Len(t, log.Decisions(), 1)
}

func TestFromScenarioWithWarnings(t *testing.T) {
	log := NewLog()
	d := FromScenario(scenarioResultFixture("first warning", "second warning", "third warning"),
		log, decisionsRef())

	assert.Equal(t, "Proceed with caution — delay Gamma by 4 weeks", d.Recommendation)
	assert.Contains(t, d.Rationale, "3 warning(s) flagged")
	assert.Contains(t, d.Rationale, "first warning; second warning")
	assert.NotContains(t, d.Rationale, "third warning")
}

func TestFromRiskReport(t *testing.T) {
	report := &models.PortfolioRiskReport{
		ProjectSummaries: []models.ProjectRiskSummary{
			{ProjectName: "Gamma", RAGStatus: models.RAGRed, RiskCount: 4},
			{ProjectName: "Beta", RAGStatus: models.RAGRed, RiskCount: 2},
			{ProjectName: "Alpha", RAGStatus: models.RAGGreen},
		},
	}

	log := NewLog()
	ds := FromRiskReport(report, log, decisionsRef())
	require.Len(t, ds, 1)

	d := ds[0]
	assert.Equal(t, "Escalate 2 Red projects to executive review", d.Title)
	assert.Equal(t, "2 projects at Red status with combined 6 risks.", d.Context)
	assert.Equal(t, []string{"Gamma", "Beta"}, d.ProjectsAffected)
	require.Len(t, d.Options, 3)
	assert.Equal(t, "Escalate to executive review", d.Recommendation)
	assert.Equal(t, SourceRiskAnalysis, d.Source)
}

func TestFromRiskReportNoRedProjects(t *testing.T) {
	report := &models.PortfolioRiskReport{
		ProjectSummaries: []models.ProjectRiskSummary{
			{ProjectName: "Alpha", RAGStatus: models.RAGAmber, RiskCount: 1},
		},
	}

	log := NewLog()
	assert.Empty(t, FromRiskReport(report, log, decisionsRef()))
	assert.Empty(t, log.Decisions())
}

func TestFromInvestment(t *testing.T) {
	report := &investment.PortfolioInvestmentReport{
		ProjectInvestments: []investment.ProjectInvestment{
			{ProjectName: "Alpha", Action: investment.ActionInvest},
			{ProjectName: "Gamma", Action: investment.ActionDivest, CostToComplete: 15000},
			{ProjectName: "Omega", Action: investment.ActionDivest, CostToComplete: 40000},
		},
	}

	log := NewLog()
	ds := FromInvestment(report, log, decisionsRef())
	require.Len(t, ds, 1)

	d := ds[0]
	assert.Equal(t, "Divest from Gamma, Omega — reallocate £55,000", d.Title)
	assert.Equal(t, "2 projects showing negative ROI with Red delivery status.", d.Context)
	assert.Equal(t, []string{"Gamma", "Omega"}, d.ProjectsAffected)
	require.Len(t, d.Options, 3)
	assert.Contains(t, d.Options[0].Impact, "Frees £55,000 for reallocation to Alpha")
	assert.Contains(t, d.Rationale, "£55,000 better deployed on Alpha")
	assert.Equal(t, SourceInvestmentReview, d.Source)
}

func TestFromInvestmentNoDivests(t *testing.T) {
	report := &investment.PortfolioInvestmentReport{
		ProjectInvestments: []investment.ProjectInvestment{
			{ProjectName: "Alpha", Action: investment.ActionHold},
		},
	}

	log := NewLog()
	assert.Empty(t, FromInvestment(report, log, decisionsRef()))
}

func TestLogSequentialIDsAndJSON(t *testing.T) {
	log := NewLog()

	riskReport := &models.PortfolioRiskReport{
		ProjectSummaries: []models.ProjectRiskSummary{
			{ProjectName: "Gamma", RAGStatus: models.RAGRed, RiskCount: 4},
		},
	}
	investReport := &investment.PortfolioInvestmentReport{
		ProjectInvestments: []investment.ProjectInvestment{
			{ProjectName: "Gamma", Action: investment.ActionDivest, CostToComplete: 15000},
		},
	}

	FromScenario(scenarioResultFixture(), log, decisionsRef())
	FromRiskReport(riskReport, log, decisionsRef())
	FromInvestment(investReport, log, decisionsRef())

	ds := log.Decisions()
	require.Len(t, ds, 3)
	assert.Equal(t, "DEC-001", ds[0].ID)
	assert.Equal(t, "DEC-002", ds[1].ID)
	assert.Equal(t, "DEC-003", ds[2].ID)

	data, err := json.Marshal(log)
	require.NoError(t, err)

	var decoded struct {
		DecisionCount int        `json:"decision_count"`
		Decisions     []Decision `json:"decisions"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 3, decoded.DecisionCount)
	assert.Len(t, decoded.Decisions, 3)
}
