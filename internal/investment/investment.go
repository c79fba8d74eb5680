// Package investment ranks the portfolio by return on investment and
// recommends an Invest/Hold/Divest/Review action per project, combining
// delivery risk with the benefits forecast.
package investment

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/windwardhq/windward/internal/benefits"
	"github.com/windwardhq/windward/internal/models"
)

var moneyPrinter = message.NewPrinter(language.English)

// Action is the investment recommendation for a project.
type Action string

// Investment actions.
const (
	ActionInvest Action = "Invest"
	ActionHold   Action = "Hold"
	ActionDivest Action = "Divest"
	ActionReview Action = "Review"
)

// ProjectInvestment is the investment analysis for a single project.
type ProjectInvestment struct {
	ProjectName       string           `json:"project_name"`
	Budget            float64          `json:"budget"`
	ActualSpend       float64          `json:"actual_spend"`
	CostToComplete    float64          `json:"cost_to_complete"`
	PctBudgetConsumed float64          `json:"pct_budget_consumed"`
	ExpectedBenefit   float64          `json:"expected_benefit"`
	AdjustedBenefit   float64          `json:"adjusted_benefit"`
	ROI               float64          `json:"roi"`
	ROIRank           int              `json:"roi_rank"`
	RAGStatus         models.RAGStatus `json:"rag_status"`
	RiskCount         int              `json:"risk_count"`
	DriftPct          float64          `json:"drift_pct"`
	Action            Action           `json:"action"`
	ActionRationale   string           `json:"action_rationale"`
}

// PortfolioInvestmentReport is the portfolio-level investment analysis,
// projects ranked best ROI first.
type PortfolioInvestmentReport struct {
	TotalBudget          float64             `json:"total_budget"`
	TotalSpent           float64             `json:"total_spent"`
	TotalCostToComplete  float64             `json:"total_cost_to_complete"`
	PctBudgetConsumed    float64             `json:"pct_budget_consumed"`
	TotalExpectedBenefit float64             `json:"total_expected_benefit"`
	TotalAdjustedBenefit float64             `json:"total_adjusted_benefit"`
	PortfolioROI         float64             `json:"portfolio_roi"`
	ProjectInvestments   []ProjectInvestment `json:"project_investments"`
	TopValueAtRisk       []ProjectInvestment `json:"top_value_at_risk"`
	Recommendations      []string            `json:"recommendations"`
}

// Analyze runs the full portfolio investment analysis. The benefit report
// may be nil, in which case each project's budget acts as a conservative
// benefit proxy discounted by its RAG status.
func Analyze(projects []*models.Project, riskReport *models.PortfolioRiskReport, benefitReport *benefits.PortfolioBenefitReport) *PortfolioInvestmentReport {
	investments := make([]ProjectInvestment, 0, len(projects))
	for _, p := range projects {
		investments = append(investments, analyzeProject(p, riskReport, benefitReport))
	}

	sort.SliceStable(investments, func(i, j int) bool {
		return investments[i].ROI > investments[j].ROI
	})
	for i := range investments {
		investments[i].ROIRank = i + 1
	}

	report := &PortfolioInvestmentReport{ProjectInvestments: investments}
	for _, pi := range investments {
		report.TotalBudget += pi.Budget
		report.TotalSpent += pi.ActualSpend
		report.TotalCostToComplete += pi.CostToComplete
		report.TotalExpectedBenefit += pi.ExpectedBenefit
		report.TotalAdjustedBenefit += pi.AdjustedBenefit
	}
	if report.TotalBudget > 0 {
		report.PctBudgetConsumed = report.TotalSpent / report.TotalBudget
		report.PortfolioROI = (report.TotalAdjustedBenefit - report.TotalBudget) / report.TotalBudget
	}

	// Projects where spend continues while the benefit case erodes.
	var atRisk []ProjectInvestment
	for _, pi := range investments {
		if (pi.Action == ActionDivest || pi.Action == ActionReview) && pi.Budget > 0 {
			atRisk = append(atRisk, pi)
		}
	}
	sort.SliceStable(atRisk, func(i, j int) bool { return atRisk[i].Budget > atRisk[j].Budget })
	if len(atRisk) > 3 {
		atRisk = atRisk[:3]
	}
	report.TopValueAtRisk = atRisk

	report.Recommendations = buildRecommendations(report)
	return report
}

func analyzeProject(p *models.Project, riskReport *models.PortfolioRiskReport, benefitReport *benefits.PortfolioBenefitReport) ProjectInvestment {
	pi := ProjectInvestment{
		ProjectName:    p.Name,
		Budget:         p.Budget,
		ActualSpend:    p.ActualSpend,
		CostToComplete: p.Budget - p.ActualSpend,
		RAGStatus:      models.RAGGreen,
	}
	if pi.CostToComplete < 0 {
		pi.CostToComplete = 0
	}
	if p.Budget > 0 {
		pi.PctBudgetConsumed = p.ActualSpend / p.Budget
	}

	if riskReport != nil {
		for _, s := range riskReport.ProjectSummaries {
			if strings.EqualFold(s.ProjectName, p.Name) {
				pi.RAGStatus = s.RAGStatus
				pi.RiskCount = s.RiskCount
				break
			}
		}
	}

	if benefitReport != nil {
		for _, bs := range benefitReport.ProjectSummaries {
			if strings.EqualFold(bs.ProjectName, p.Name) {
				pi.ExpectedBenefit = bs.TotalExpected
				pi.AdjustedBenefit = bs.AdjustedExpected
				pi.DriftPct = bs.DriftPct
				break
			}
		}
	} else {
		pi.ExpectedBenefit = p.Budget
		pi.AdjustedBenefit = p.Budget * ragBenefitFactor(pi.RAGStatus)
	}

	if p.Budget > 0 {
		pi.ROI = (pi.AdjustedBenefit - p.Budget) / p.Budget
	}

	pi.Action, pi.ActionRationale = determineAction(pi.RAGStatus, pi.ROI, pi.DriftPct, pi.PctBudgetConsumed)
	return pi
}

func ragBenefitFactor(rag models.RAGStatus) float64 {
	switch rag {
	case models.RAGRed:
		return 0.5
	case models.RAGGreen:
		return 0.9
	default:
		return 0.7
	}
}

// determineAction walks the decision ladder top to bottom, first match wins.
func determineAction(rag models.RAGStatus, roi, driftPct, pctConsumed float64) (Action, string) {
	switch {
	case roi > 0.5 && (rag == models.RAGGreen || rag == models.RAGAmber) && driftPct < 0.3:
		return ActionInvest, fmt.Sprintf(
			"Strong ROI (%s) with manageable risk. "+
				"Consider accelerating delivery to realise benefits sooner.", pct(roi))

	case roi > 0 && (rag == models.RAGRed || driftPct > 0.3):
		return ActionReview, fmt.Sprintf(
			"Positive ROI (%s) but delivery at risk (RAG: %s, drift: %s). "+
				"Protect the benefit case — resolve blockers or adjust scope to lock in remaining value.",
			pct(roi), rag, pct(driftPct))

	case roi < 0 && rag == models.RAGRed:
		return ActionDivest, fmt.Sprintf(
			"Negative ROI (%s) and Red delivery status. "+
				"Recommend stopping discretionary spend and redirecting budget to higher-value projects.",
			pct(roi))

	case roi < 0 && rag == models.RAGGreen:
		return ActionReview, fmt.Sprintf(
			"ROI currently negative (%s) but delivery is on track. "+
				"May be early-stage investment — confirm benefit timeline and reassess at next cycle.",
			pct(roi))

	case pctConsumed > 0.8 && roi < 0.1:
		return ActionDivest, fmt.Sprintf(
			"Budget %s consumed with minimal return (%s ROI). "+
				"Consider controlled wind-down or scope reduction.", pct(pctConsumed), pct(roi))

	default:
		return ActionHold, fmt.Sprintf(
			"Moderate position (ROI: %s, RAG: %s). "+
				"Continue current trajectory with standard risk monitoring.", pct(roi), rag)
	}
}

func buildRecommendations(report *PortfolioInvestmentReport) []string {
	var divests, invests, reviews []ProjectInvestment
	for _, pi := range report.ProjectInvestments {
		switch pi.Action {
		case ActionDivest:
			divests = append(divests, pi)
		case ActionInvest:
			invests = append(invests, pi)
		case ActionReview:
			reviews = append(reviews, pi)
		}
	}

	var recs []string
	if len(divests) > 0 {
		freed := 0.0
		for _, pi := range divests {
			freed += pi.CostToComplete
		}
		recs = append(recs, fmt.Sprintf(
			"Divest: %s — stop or reduce discretionary spend. "+
				"Potential £%s reallocation to higher-value projects.",
			names(divests), moneyPrinter.Sprintf("%.0f", freed)))
	}
	if len(invests) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Accelerate: %s — strong ROI and manageable risk. "+
				"Consider additional resource to pull delivery forward.", names(invests)))
	}
	if len(reviews) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Review: %s — positive potential but delivery risk is eroding the benefit case. "+
				"Schedule deep-dive review within 2 weeks.", names(reviews)))
	}
	if report.PortfolioROI < 0 {
		recs = append(recs, fmt.Sprintf(
			"Portfolio ROI is negative (%s). "+
				"The current investment mix is not generating adequate return. "+
				"Recommend portfolio rebalancing — shift budget from low-ROI to high-ROI projects.",
			pct(report.PortfolioROI)))
	}
	if len(recs) == 0 {
		recs = append(recs,
			"Portfolio investment is broadly healthy. Continue standard monitoring "+
				"and reassess allocation at next quarterly review.")
	}
	return recs
}

func names(investments []ProjectInvestment) string {
	if len(investments) > 3 {
		investments = investments[:3]
	}
	parts := make([]string, len(investments))
	for i, pi := range investments {
		parts[i] = pi.ProjectName
	}
	return strings.Join(parts, ", ")
}

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
