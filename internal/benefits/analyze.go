package benefits

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/windwardhq/windward/internal/models"
)

var valuePrinter = message.NewPrinter(language.English)

// Drift thresholds: forecast shortfall as a fraction of expected value.
const (
	driftRedThreshold   = 0.30
	driftAmberThreshold = 0.15
)

// ProjectBenefitSummary is the benefits rollup for one project.
type ProjectBenefitSummary struct {
	ProjectName      string    `json:"project_name"`
	Benefits         []Benefit `json:"benefits"`
	TotalExpected    float64   `json:"total_expected"`
	TotalRealised    float64   `json:"total_realised"`
	RealisationPct   float64   `json:"realisation_pct"`
	AdjustedExpected float64   `json:"adjusted_expected"`
	DriftPct         float64   `json:"drift_pct"`
	DriftRAG         models.RAGStatus `json:"drift_rag"`
	AtRiskValue      float64   `json:"benefits_at_risk_value"`
	BenefitsAtRisk   []Benefit `json:"benefits_at_risk"`
	DriftExplanation string    `json:"drift_explanation"`
}

// PortfolioBenefitReport is the portfolio-level benefits analysis.
type PortfolioBenefitReport struct {
	TotalExpected     float64                 `json:"total_expected"`
	TotalRealised     float64                 `json:"total_realised"`
	TotalAdjusted     float64                 `json:"total_adjusted"`
	RealisationPct    float64                 `json:"realisation_pct"`
	PortfolioDriftPct float64                 `json:"portfolio_drift_pct"`
	PortfolioDriftRAG models.RAGStatus        `json:"portfolio_drift_rag"`
	TotalAtRiskValue  float64                 `json:"total_at_risk_value"`
	ProjectSummaries  []ProjectBenefitSummary `json:"project_summaries"`
	TopBenefitsAtRisk []Benefit               `json:"top_benefits_at_risk"`
	Recommendations   []string                `json:"recommendations"`
}

// Summary returns the summary for a named project, or nil.
func (r *PortfolioBenefitReport) Summary(projectName string) *ProjectBenefitSummary {
	for i := range r.ProjectSummaries {
		if r.ProjectSummaries[i].ProjectName == projectName {
			return &r.ProjectSummaries[i]
		}
	}
	return nil
}

// Analyze runs the full benefits analysis: per-project realisation and
// drift (expected value discounted by delivery confidence from the risk
// report), plus portfolio totals and recommendations. A nil risk report
// falls back to a conservative default confidence.
func Analyze(benefits []Benefit, riskReport *models.PortfolioRiskReport, referenceDate time.Time) *PortfolioBenefitReport {
	if referenceDate.IsZero() {
		referenceDate = time.Now()
	}

	byProject := map[string][]Benefit{}
	for _, b := range benefits {
		byProject[b.ProjectName] = append(byProject[b.ProjectName], b)
	}
	names := make([]string, 0, len(byProject))
	for name := range byProject {
		names = append(names, name)
	}
	sort.Strings(names)

	report := &PortfolioBenefitReport{}
	for _, name := range names {
		summary := analyzeProject(name, byProject[name], riskReport, referenceDate)
		report.ProjectSummaries = append(report.ProjectSummaries, summary)

		report.TotalExpected += summary.TotalExpected
		report.TotalRealised += summary.TotalRealised
		report.TotalAdjusted += summary.AdjustedExpected
		report.TotalAtRiskValue += summary.AtRiskValue
		report.TopBenefitsAtRisk = append(report.TopBenefitsAtRisk, summary.BenefitsAtRisk...)
	}

	if report.TotalExpected > 0 {
		report.RealisationPct = report.TotalRealised / report.TotalExpected
		report.PortfolioDriftPct = (report.TotalExpected - report.TotalAdjusted) / report.TotalExpected
	}
	report.PortfolioDriftRAG = driftRAG(report.PortfolioDriftPct)

	sort.SliceStable(report.TopBenefitsAtRisk, func(i, j int) bool {
		return report.TopBenefitsAtRisk[i].UnrealisedValue() > report.TopBenefitsAtRisk[j].UnrealisedValue()
	})
	if len(report.TopBenefitsAtRisk) > 5 {
		report.TopBenefitsAtRisk = report.TopBenefitsAtRisk[:5]
	}

	report.Recommendations = buildRecommendations(report)
	return report
}

func analyzeProject(name string, benefits []Benefit, riskReport *models.PortfolioRiskReport, ref time.Time) ProjectBenefitSummary {
	summary := ProjectBenefitSummary{ProjectName: name, Benefits: benefits}

	for _, b := range benefits {
		summary.TotalExpected += b.ExpectedValue
		summary.TotalRealised += b.RealisedValue
	}
	if summary.TotalExpected > 0 {
		summary.RealisationPct = summary.TotalRealised / summary.TotalExpected
	}

	confidence := ConfidenceFactor(name, riskReport)
	for _, b := range benefits {
		switch b.Status {
		case StatusRealised:
			summary.AdjustedExpected += b.ExpectedValue
		case StatusCancelled:
			// Written off.
		default:
			summary.AdjustedExpected += b.ExpectedValue * benefitMultiplier(b, confidence, ref)
		}
	}

	if summary.TotalExpected > 0 {
		summary.DriftPct = (summary.TotalExpected - summary.AdjustedExpected) / summary.TotalExpected
	}
	summary.DriftRAG = driftRAG(summary.DriftPct)

	seen := map[string]bool{}
	for _, b := range benefits {
		atRisk := b.IsAtRisk() ||
			b.Confidence == ConfidenceLow ||
			(summary.DriftPct > driftRedThreshold && b.Status != StatusRealised && b.UnrealisedValue() > 0)
		if !atRisk || seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		summary.BenefitsAtRisk = append(summary.BenefitsAtRisk, b)
		summary.AtRiskValue += b.UnrealisedValue()
	}

	summary.DriftExplanation = driftExplanation(&summary, ref)
	return summary
}

// ConfidenceFactor derives delivery confidence for a project from the
// risk report: a RAG-based base, discounted by risk volume and critical
// findings, floored at 0.2. Unknown projects and a nil report read as a
// conservative 0.8.
func ConfidenceFactor(projectName string, riskReport *models.PortfolioRiskReport) float64 {
	if riskReport == nil {
		return 0.8
	}

	for _, s := range riskReport.ProjectSummaries {
		if !strings.EqualFold(s.ProjectName, projectName) {
			continue
		}

		base := 0.8
		switch s.RAGStatus {
		case models.RAGRed:
			base = 0.5
		case models.RAGAmber:
			base = 0.7
		case models.RAGGreen:
			base = 0.9
		}

		riskPenalty := float64(s.RiskCount) * 0.03
		if riskPenalty > 0.2 {
			riskPenalty = 0.2
		}

		criticals := 0
		for _, r := range s.Risks {
			if r.Severity == models.SeverityCritical {
				criticals++
			}
		}

		factor := base - riskPenalty - float64(criticals)*0.05
		if factor < 0.2 {
			factor = 0.2
		}
		return factor
	}

	return 0.8
}

// benefitMultiplier discounts one benefit's expected value by project
// confidence, its own status and stated confidence, and how overdue it is.
func benefitMultiplier(b Benefit, projectConfidence float64, ref time.Time) float64 {
	statusMult := 0.7
	switch b.Status {
	case StatusOnTrack, StatusRealised:
		statusMult = 1.0
	case StatusPartial:
		statusMult = 0.85
	case StatusNotStarted:
		statusMult = 0.7
	case StatusAtRisk:
		statusMult = 0.5
	case StatusDelayed:
		statusMult = 0.4
	case StatusCancelled:
		statusMult = 0.0
	}

	confMult := 0.85
	switch b.Confidence {
	case ConfidenceHigh:
		confMult = 1.0
	case ConfidenceLow:
		confMult = 0.6
	}

	overduePenalty := 0.0
	if b.TargetDate != nil && b.TargetDate.Before(ref) && b.Status != StatusRealised {
		daysOverdue := ref.Sub(*b.TargetDate).Hours() / 24
		overduePenalty = daysOverdue / 180
		if overduePenalty > 0.3 {
			overduePenalty = 0.3
		}
	}

	m := projectConfidence*statusMult*confMult - overduePenalty
	if m < 0 {
		return 0
	}
	return m
}

func driftRAG(driftPct float64) models.RAGStatus {
	switch {
	case driftPct > driftRedThreshold:
		return models.RAGRed
	case driftPct > driftAmberThreshold:
		return models.RAGAmber
	default:
		return models.RAGGreen
	}
}

func driftExplanation(s *ProjectBenefitSummary, ref time.Time) string {
	if s.TotalExpected == 0 {
		return fmt.Sprintf("%s has no quantified financial benefits.", s.ProjectName)
	}
	if s.DriftPct <= 0.05 {
		return fmt.Sprintf("%s benefits are on track — £%s of £%s expected to realise.",
			s.ProjectName, fmtValue(s.AdjustedExpected), fmtValue(s.TotalExpected))
	}

	var causes []string
	var cancelledValue, atRiskValue float64
	overdue := 0
	for _, b := range s.Benefits {
		if b.Status == StatusCancelled {
			cancelledValue += b.ExpectedValue
		}
		if b.IsAtRisk() {
			atRiskValue += b.UnrealisedValue()
		}
		if b.TargetDate != nil && b.TargetDate.Before(ref) && b.Status != StatusRealised {
			overdue++
		}
	}
	if cancelledValue > 0 {
		causes = append(causes, fmt.Sprintf("£%s written off (cancelled)", fmtValue(cancelledValue)))
	}
	if atRiskValue > 0 {
		causes = append(causes, fmt.Sprintf("£%s at risk due to delivery issues", fmtValue(atRiskValue)))
	}
	if overdue > 0 {
		suffix := ""
		if overdue > 1 {
			suffix = "s"
		}
		causes = append(causes, fmt.Sprintf("%d benefit%s overdue", overdue, suffix))
	}

	causesText := "reduced delivery confidence"
	if len(causes) > 0 {
		causesText = strings.Join(causes, "; ")
	}

	return fmt.Sprintf(
		"%s was forecast to deliver £%s. Adjusted estimate is £%s — a %.0f%% drift. Drivers: %s.",
		s.ProjectName, fmtValue(s.TotalExpected), fmtValue(s.AdjustedExpected),
		s.DriftPct*100, causesText,
	)
}

func buildRecommendations(report *PortfolioBenefitReport) []string {
	var recs []string

	var redDrift []string
	for _, s := range report.ProjectSummaries {
		if s.DriftRAG == models.RAGRed {
			redDrift = append(redDrift, s.ProjectName)
		}
	}
	if len(redDrift) > 0 {
		if len(redDrift) > 3 {
			redDrift = redDrift[:3]
		}
		recs = append(recs, fmt.Sprintf(
			"Escalate benefits review for %s — drift exceeds 30%%. Decide whether to protect "+
				"the benefit case (inject resource/budget) or formally write down expected value.",
			strings.Join(redDrift, ", ")))
	}

	if report.TotalAtRiskValue > 0 && report.TotalExpected > 0 {
		pct := report.TotalAtRiskValue / report.TotalExpected
		if pct > 0.2 {
			recs = append(recs, fmt.Sprintf(
				"£%s of portfolio benefits are at risk (%.0f%% of total expected value). "+
					"Conduct a benefits protection review — identify which benefits can be "+
					"recovered and which should be written down.",
				fmtValue(report.TotalAtRiskValue), pct*100))
		}
	}

	var zeroRealisation []string
	for _, s := range report.ProjectSummaries {
		if s.TotalRealised == 0 && s.TotalExpected > 0 {
			zeroRealisation = append(zeroRealisation, s.ProjectName)
		}
	}
	if len(zeroRealisation) > 0 {
		if len(zeroRealisation) > 3 {
			zeroRealisation = zeroRealisation[:3]
		}
		recs = append(recs, fmt.Sprintf(
			"No benefits have been realised yet for %s. Confirm benefit tracking is in place "+
				"and validate that delivery milestones still support the benefit case.",
			strings.Join(zeroRealisation, ", ")))
	}

	if len(recs) == 0 {
		recs = append(recs,
			"Benefits realisation is broadly on track. Continue regular tracking and flag "+
				"any emerging drift early.")
	}
	return recs
}

func fmtValue(v float64) string {
	return valuePrinter.Sprintf("%.0f", v)
}
