package benefits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windwardhq/windward/internal/models"
)

func benefitsRef() time.Time {
	return time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)
}

func riskFixture() *models.PortfolioRiskReport {
	return &models.PortfolioRiskReport{
		ProjectSummaries: []models.ProjectRiskSummary{
			{
				ProjectName: "Gamma",
				RAGStatus:   models.RAGRed,
				RiskCount:   2,
				Risks: []models.Risk{
					{Severity: models.SeverityCritical},
					{Severity: models.SeverityHigh},
				},
			},
			{
				ProjectName: "Alpha",
				RAGStatus:   models.RAGGreen,
				RiskCount:   0,
			},
		},
	}
}

func TestConfidenceFactor(t *testing.T) {
	tests := []struct {
		name    string
		project string
		report  *models.PortfolioRiskReport
		want    float64
	}{
		{"nil report", "Alpha", nil, 0.8},
		{"unknown project", "Nowhere", riskFixture(), 0.8},
		{"green no risks", "Alpha", riskFixture(), 0.9},
		{"red with critical", "Gamma", riskFixture(), 0.5 - 0.06 - 0.05},
		{
			"risk penalty capped", "Busy",
			&models.PortfolioRiskReport{ProjectSummaries: []models.ProjectRiskSummary{
				{ProjectName: "Busy", RAGStatus: models.RAGAmber, RiskCount: 10},
			}},
			0.7 - 0.2,
		},
		{
			"floored at 0.2", "Doomed",
			&models.PortfolioRiskReport{ProjectSummaries: []models.ProjectRiskSummary{
				{
					ProjectName: "Doomed", RAGStatus: models.RAGRed, RiskCount: 10,
					Risks: []models.Risk{
						{Severity: models.SeverityCritical},
						{Severity: models.SeverityCritical},
						{Severity: models.SeverityCritical},
						{Severity: models.SeverityCritical},
						{Severity: models.SeverityCritical},
					},
				},
			}},
			0.2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConfidenceFactor(tt.project, tt.report), 1e-9)
		})
	}
}

func TestConfidenceFactorCaseInsensitive(t *testing.T) {
	assert.InDelta(t, 0.9, ConfidenceFactor("alpha", riskFixture()), 1e-9)
}

func TestBenefitMultiplier(t *testing.T) {
	ref := benefitsRef()
	overdue36 := ref.AddDate(0, 0, -36)
	overdue400 := ref.AddDate(0, 0, -400)

	tests := []struct {
		name       string
		benefit    Benefit
		confidence float64
		want       float64
	}{
		{
			"on track high confidence",
			Benefit{Status: StatusOnTrack, Confidence: ConfidenceHigh},
			0.9, 0.9,
		},
		{
			"partial medium confidence",
			Benefit{Status: StatusPartial, Confidence: ConfidenceMedium},
			0.9, 0.9 * 0.85 * 0.85,
		},
		{
			"delayed low confidence with overdue penalty",
			Benefit{Status: StatusDelayed, Confidence: ConfidenceLow, TargetDate: &overdue36},
			0.9, 0.9*0.4*0.6 - 0.2,
		},
		{
			"overdue penalty capped and floored at zero",
			Benefit{Status: StatusAtRisk, Confidence: ConfidenceLow, TargetDate: &overdue400},
			0.2, 0,
		},
		{
			"realised ignores target date",
			Benefit{Status: StatusRealised, Confidence: ConfidenceHigh, TargetDate: &overdue400},
			0.9, 0.9,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, benefitMultiplier(tt.benefit, tt.confidence, ref), 1e-9)
		})
	}
}

func TestDriftRAGThresholds(t *testing.T) {
	assert.Equal(t, models.RAGGreen, driftRAG(0.0))
	assert.Equal(t, models.RAGGreen, driftRAG(0.15))
	assert.Equal(t, models.RAGAmber, driftRAG(0.16))
	assert.Equal(t, models.RAGAmber, driftRAG(0.30))
	assert.Equal(t, models.RAGRed, driftRAG(0.31))
}

func TestAnalyzePortfolio(t *testing.T) {
	ref := benefitsRef()
	future := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	overdue := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	input := []Benefit{
		{ID: "BEN-001", Name: "Onboarding time", ProjectName: "Alpha",
			ExpectedValue: 100000, RealisedValue: 100000,
			Status: StatusRealised, Confidence: ConfidenceHigh},
		{ID: "BEN-002", Name: "License savings", ProjectName: "Alpha",
			ExpectedValue: 50000, TargetDate: &future,
			Status: StatusOnTrack, Confidence: ConfidenceHigh},
		{ID: "BEN-003", Name: "New subscriptions", ProjectName: "Gamma",
			ExpectedValue: 200000,
			Status: StatusCancelled, Confidence: ConfidenceMedium},
		{ID: "BEN-004", Name: "Churn reduction", ProjectName: "Gamma",
			ExpectedValue: 100000, TargetDate: &overdue,
			Status: StatusDelayed, Confidence: ConfidenceLow},
	}

	report := Analyze(input, riskFixture(), ref)
	require.Len(t, report.ProjectSummaries, 2)
	assert.Equal(t, "Alpha", report.ProjectSummaries[0].ProjectName, "summaries sorted by name")

	alpha := report.Summary("Alpha")
	require.NotNil(t, alpha)
	assert.InDelta(t, 150000, alpha.TotalExpected, 1e-9)
	assert.InDelta(t, 100000, alpha.TotalRealised, 1e-9)
	// Realised benefit contributes in full; the on-track one is discounted
	// by the green-project confidence factor of 0.9.
	assert.InDelta(t, 145000, alpha.AdjustedExpected, 1e-9)
	assert.Equal(t, models.RAGGreen, alpha.DriftRAG)
	assert.Empty(t, alpha.BenefitsAtRisk)
	assert.Contains(t, alpha.DriftExplanation, "on track")
	assert.Contains(t, alpha.DriftExplanation, "£145,000 of £150,000")

	gamma := report.Summary("Gamma")
	require.NotNil(t, gamma)
	assert.InDelta(t, 300000, gamma.TotalExpected, 1e-9)
	// Cancelled writes off 200k; the delayed benefit's multiplier bottoms
	// out at zero once the overdue penalty is applied.
	assert.InDelta(t, 0, gamma.AdjustedExpected, 1e-9)
	assert.InDelta(t, 1.0, gamma.DriftPct, 1e-9)
	assert.Equal(t, models.RAGRed, gamma.DriftRAG)
	require.Len(t, gamma.BenefitsAtRisk, 2)
	assert.InDelta(t, 300000, gamma.AtRiskValue, 1e-9)
	assert.Contains(t, gamma.DriftExplanation, "was forecast to deliver £300,000")
	assert.Contains(t, gamma.DriftExplanation, "£200,000 written off (cancelled)")
	assert.Contains(t, gamma.DriftExplanation, "1 benefit overdue")

	assert.InDelta(t, 450000, report.TotalExpected, 1e-9)
	assert.InDelta(t, 100000, report.TotalRealised, 1e-9)
	assert.InDelta(t, 145000, report.TotalAdjusted, 1e-9)
	assert.Equal(t, models.RAGRed, report.PortfolioDriftRAG)
	assert.InDelta(t, 300000, report.TotalAtRiskValue, 1e-9)

	require.Len(t, report.TopBenefitsAtRisk, 2)
	assert.Equal(t, "BEN-003", report.TopBenefitsAtRisk[0].ID, "largest unrealised value first")

	require.NotEmpty(t, report.Recommendations)
	joined := ""
	for _, r := range report.Recommendations {
		joined += r + "\n"
	}
	assert.Contains(t, joined, "Escalate benefits review for Gamma")
	assert.Contains(t, joined, "benefits protection review")
	assert.Contains(t, joined, "No benefits have been realised yet for Gamma")
}

func TestAnalyzeTopBenefitsAtRiskCapped(t *testing.T) {
	var input []Benefit
	for i := 0; i < 8; i++ {
		input = append(input, Benefit{
			ID:            string(rune('A' + i)),
			ProjectName:   "Alpha",
			ExpectedValue: float64(1000 * (i + 1)),
			Status:        StatusDelayed,
			Confidence:    ConfidenceLow,
		})
	}

	report := Analyze(input, nil, benefitsRef())
	require.Len(t, report.TopBenefitsAtRisk, 5)
	assert.Equal(t, "H", report.TopBenefitsAtRisk[0].ID)
}

func TestAnalyzeHealthyPortfolio(t *testing.T) {
	input := []Benefit{
		{ID: "BEN-001", ProjectName: "Zen", ExpectedValue: 100000, RealisedValue: 100000,
			Status: StatusRealised, Confidence: ConfidenceHigh},
	}

	report := Analyze(input, nil, benefitsRef())
	assert.Equal(t, models.RAGGreen, report.PortfolioDriftRAG)
	require.Len(t, report.Recommendations, 1)
	assert.Contains(t, report.Recommendations[0], "broadly on track")
}

func TestAnalyzeNoQuantifiedBenefits(t *testing.T) {
	input := []Benefit{
		{ID: "BEN-001", ProjectName: "Alpha", Status: StatusNotStarted, Confidence: ConfidenceLow},
	}

	report := Analyze(input, nil, benefitsRef())
	alpha := report.Summary("Alpha")
	require.NotNil(t, alpha)
	assert.Equal(t, "Alpha has no quantified financial benefits.", alpha.DriftExplanation)
	assert.Equal(t, models.RAGGreen, alpha.DriftRAG)
}
