package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/windwardhq/windward/internal/benefits"
	"github.com/windwardhq/windward/internal/insights"
	"github.com/windwardhq/windward/internal/investment"
	"github.com/windwardhq/windward/internal/models"
)

// BriefingData bundles everything a briefing can draw on. Only RiskReport
// is required; the rest enrich the output when present.
type BriefingData struct {
	RiskReport       *models.PortfolioRiskReport
	BenefitReport    *benefits.PortfolioBenefitReport
	InvestmentReport *investment.PortfolioInvestmentReport
	Scenario         *models.ScenarioNarrative
	GeneratedAt      time.Time
}

func (d *BriefingData) generatedAt() time.Time {
	if d.GeneratedAt.IsZero() {
		return time.Now()
	}
	return d.GeneratedAt
}

// BoardBriefing renders the one-page board briefing as Markdown: the
// executive action paragraph, portfolio dashboard, project overview and
// the top three risks and decisions.
func BoardBriefing(data *BriefingData) string {
	var b strings.Builder

	b.WriteString("# Portfolio Health — Board Briefing\n\n")
	fmt.Fprintf(&b, "_Generated %s_\n\n", data.generatedAt().Format("2006-01-02"))

	writeExecActionBox(&b, data)
	writeDashboard(&b, data.RiskReport)
	writeProjectTable(&b, data.RiskReport, false)

	b.WriteString("## Top Risks\n\n")
	for i, r := range topRisks(data.RiskReport, 3) {
		fmt.Fprintf(&b, "%d. **[%s] %s** (%s)\n   %s\n", i+1, r.Severity, r.Title, r.ProjectName, r.Explanation)
	}
	b.WriteString("\n## Recommended Decisions\n\n")
	for i, d := range briefingDecisions(data.RiskReport, 3) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d)
	}

	writeScenarioAppendix(&b, data.Scenario)
	return b.String()
}

// SteeringBriefing renders the fuller steering-committee pack: everything
// in the board briefing plus the executive summary, detailed project
// table, five risks with mitigations, benefits and investment positions,
// talking points and the risk distribution.
func SteeringBriefing(data *BriefingData) string {
	f := NewFormatter()
	report := data.RiskReport
	var b strings.Builder

	b.WriteString("# Portfolio Risk & Value Briefing — Steering Committee\n\n")
	fmt.Fprintf(&b, "_Generated %s_\n\n", data.generatedAt().Format("2006-01-02"))

	writeExecActionBox(&b, data)

	b.WriteString("## Executive Summary\n\n")
	reds, ambers, greens := ragCounts(report)
	fmt.Fprintf(&b,
		"The portfolio comprises %d active projects. %d rated Red (immediate attention), "+
			"%d Amber (emerging risks), and %d Green (on track). %d risks identified.\n\n",
		len(report.ProjectSummaries), reds, ambers, greens, report.TotalRisks)
	if reds > 0 {
		var names []string
		for _, s := range report.ProjectSummaries {
			if s.RAGStatus == models.RAGRed {
				names = append(names, s.ProjectName)
			}
		}
		fmt.Fprintf(&b, "**Immediate attention:** %s\n\n", strings.Join(names, ", "))
	}

	writeDashboard(&b, report)
	writeProjectTable(&b, report, true)

	b.WriteString("## Top Portfolio Risks\n\n")
	for i, r := range topRisks(report, 5) {
		fmt.Fprintf(&b, "%d. **[%s] %s** (%s)\n   %s\n   _Mitigation:_ %s\n",
			i+1, r.Severity, r.Title, r.ProjectName, r.Explanation, r.SuggestedMitigation)
	}

	b.WriteString("\n## Recommended Decisions\n\n")
	for i, d := range briefingDecisions(report, 3) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d)
	}

	writeBenefitsSection(&b, f, data.BenefitReport)
	writeInvestmentSection(&b, f, data.InvestmentReport)

	b.WriteString("\n## Talking Points for Discussion\n\n")
	for _, pt := range talkingPoints(report) {
		b.WriteString("- " + pt + "\n")
	}

	writeRiskDistribution(&b, report)
	writeScenarioAppendix(&b, data.Scenario)
	return b.String()
}

// ProjectBriefing renders a per-project status pack: one section per
// project with its risks, mitigations and immediate actions.
func ProjectBriefing(data *BriefingData) string {
	var b strings.Builder

	b.WriteString("# Project Status Pack\n\n")
	fmt.Fprintf(&b, "_Generated %s_\n\n", data.generatedAt().Format("2006-01-02"))

	for _, s := range data.RiskReport.ProjectSummaries {
		fmt.Fprintf(&b, "## %s — %s (%s)\n\n", s.ProjectName, s.RAGStatus, s.ProjectStatus)

		if len(s.Risks) > 0 {
			b.WriteString("### Risks\n\n")
			for _, r := range s.Risks {
				fmt.Fprintf(&b, "- **[%s] %s** — %s\n  _Mitigation:_ %s\n",
					r.Severity, r.Title, r.Explanation, r.SuggestedMitigation)
			}
		} else {
			b.WriteString("No significant risks identified.\n")
		}

		b.WriteString("\n### Immediate Actions\n\n")
		actions := projectActions(s)
		if len(actions) == 0 {
			b.WriteString("Continue on current trajectory. No escalation needed.\n\n")
			continue
		}
		for i, a := range actions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, a)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeExecActionBox(b *strings.Builder, data *BriefingData) {
	summary := insights.ExecutiveSummary(data.RiskReport, data.BenefitReport, data.InvestmentReport)
	if strings.Contains(strings.ToLower(summary), "urgent") {
		b.WriteString("> **ACTION REQUIRED**\n")
	} else {
		b.WriteString("> **PORTFOLIO SUMMARY**\n")
	}
	b.WriteString("> " + summary + "\n\n")
}

func writeDashboard(b *strings.Builder, report *models.PortfolioRiskReport) {
	reds, ambers, _ := ragCounts(report)
	b.WriteString("| Portfolio Status | Red Projects | Amber Projects | Total Risks |\n")
	b.WriteString("|---|---|---|---|\n")
	fmt.Fprintf(b, "| %s | %d | %d | %d |\n\n", report.PortfolioRAG, reds, ambers, report.TotalRisks)
}

func writeProjectTable(b *strings.Builder, report *models.PortfolioRiskReport, detailed bool) {
	b.WriteString("## Project Overview\n\n")
	if detailed {
		b.WriteString("| Project | Status | RAG | Risks | Top Risk |\n|---|---|---|---|---|\n")
	} else {
		b.WriteString("| Project | Status | RAG | Risks |\n|---|---|---|---|\n")
	}
	for _, s := range report.ProjectSummaries {
		if detailed {
			top := ""
			if len(s.Risks) > 0 {
				top = s.Risks[0].Title
			}
			fmt.Fprintf(b, "| %s | %s | %s | %d | %s |\n", s.ProjectName, s.ProjectStatus, s.RAGStatus, s.RiskCount, top)
		} else {
			fmt.Fprintf(b, "| %s | %s | %s | %d |\n", s.ProjectName, s.ProjectStatus, s.RAGStatus, s.RiskCount)
		}
	}
	b.WriteString("\n")
}

func writeBenefitsSection(b *strings.Builder, f *Formatter, report *benefits.PortfolioBenefitReport) {
	if report == nil {
		return
	}
	b.WriteString("\n## Benefits Realisation\n\n")
	fmt.Fprintf(b,
		"Expected %s, realised %s (%s), risk-adjusted forecast %s. Portfolio drift %s (%s).\n\n",
		f.Pounds(report.TotalExpected), f.Pounds(report.TotalRealised), f.Pct(report.RealisationPct),
		f.Pounds(report.TotalAdjusted), f.Pct(report.PortfolioDriftPct), report.PortfolioDriftRAG)

	if len(report.TopBenefitsAtRisk) > 0 {
		b.WriteString("Benefits at risk:\n\n")
		for _, benefit := range report.TopBenefitsAtRisk {
			fmt.Fprintf(b, "- **%s** (%s): %s unrealised, status %s\n",
				benefit.Name, benefit.ProjectName, f.Pounds(benefit.UnrealisedValue()), benefit.Status)
		}
		b.WriteString("\n")
	}
	for _, rec := range report.Recommendations {
		b.WriteString("- " + rec + "\n")
	}
}

func writeInvestmentSection(b *strings.Builder, f *Formatter, report *investment.PortfolioInvestmentReport) {
	if report == nil {
		return
	}
	b.WriteString("\n## Investment Position\n\n")
	fmt.Fprintf(b, "Portfolio ROI %s on %s committed (%s spent, %s to complete).\n\n",
		f.Pct(report.PortfolioROI), f.Pounds(report.TotalBudget),
		f.Pounds(report.TotalSpent), f.Pounds(report.TotalCostToComplete))

	b.WriteString("| Rank | Project | ROI | RAG | Action |\n|---|---|---|---|---|\n")
	for _, pi := range report.ProjectInvestments {
		fmt.Fprintf(b, "| %d | %s | %s | %s | %s |\n",
			pi.ROIRank, pi.ProjectName, f.Pct(pi.ROI), pi.RAGStatus, pi.Action)
	}
	b.WriteString("\n")
	for _, rec := range report.Recommendations {
		b.WriteString("- " + rec + "\n")
	}
}

func writeRiskDistribution(b *strings.Builder, report *models.PortfolioRiskReport) {
	type row struct {
		category models.RiskCategory
		counts   map[models.Severity]int
		total    int
	}
	byCategory := map[models.RiskCategory]*row{}
	for _, s := range report.ProjectSummaries {
		for _, r := range s.Risks {
			entry, ok := byCategory[r.Category]
			if !ok {
				entry = &row{category: r.Category, counts: map[models.Severity]int{}}
				byCategory[r.Category] = entry
			}
			entry.counts[r.Severity]++
			entry.total++
		}
	}
	if len(byCategory) == 0 {
		return
	}

	rows := make([]*row, 0, len(byCategory))
	for _, entry := range byCategory {
		rows = append(rows, entry)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].total != rows[j].total {
			return rows[i].total > rows[j].total
		}
		return rows[i].category < rows[j].category
	})

	b.WriteString("\n## Risk Distribution by Category\n\n")
	b.WriteString("| Category | Critical | High | Medium | Low | Total |\n|---|---|---|---|---|---|\n")
	for _, entry := range rows {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %d |\n",
			entry.category,
			countCell(entry.counts[models.SeverityCritical]),
			countCell(entry.counts[models.SeverityHigh]),
			countCell(entry.counts[models.SeverityMedium]),
			countCell(entry.counts[models.SeverityLow]),
			entry.total)
	}
}

func writeScenarioAppendix(b *strings.Builder, narrative *models.ScenarioNarrative) {
	if narrative == nil {
		return
	}
	b.WriteString("\n---\n\n# Appendix: " + narrative.Title + "\n\n")
	b.WriteString(narrative.FullText())
}

func countCell(n int) string {
	if n == 0 {
		return "—"
	}
	return fmt.Sprintf("%d", n)
}

func ragCounts(report *models.PortfolioRiskReport) (reds, ambers, greens int) {
	for _, s := range report.ProjectSummaries {
		switch s.RAGStatus {
		case models.RAGRed:
			reds++
		case models.RAGAmber:
			ambers++
		case models.RAGGreen:
			greens++
		}
	}
	return reds, ambers, greens
}

// topRisks flattens the report and returns the n worst risks, severity
// then project order.
func topRisks(report *models.PortfolioRiskReport, n int) []models.Risk {
	var all []models.Risk
	for _, s := range report.ProjectSummaries {
		all = append(all, s.Risks...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Severity.Rank() < all[j].Severity.Rank()
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// briefingDecisions derives n recommended decisions from the risk
// posture, most urgent first, padded with a review catch-all.
func briefingDecisions(report *models.PortfolioRiskReport, n int) []string {
	var decisions []string

	for _, s := range report.ProjectSummaries {
		if len(decisions) >= n {
			break
		}
		for _, r := range s.Risks {
			if r.Category == models.CategoryBurnRate && r.Severity == models.SeverityCritical {
				decisions = append(decisions, fmt.Sprintf(
					"URGENT: %s budget is critical — approve a budget top-up or cut scope "+
						"before the next review cycle. Without action, delivery cannot be "+
						"completed within allocation.", s.ProjectName))
				break
			}
		}
	}

	var blocked []string
	for _, s := range report.ProjectSummaries {
		for _, r := range s.Risks {
			if r.Category == models.CategoryBlockedWork &&
				(r.Severity == models.SeverityCritical || r.Severity == models.SeverityHigh) {
				blocked = append(blocked, s.ProjectName)
				break
			}
		}
	}
	if len(blocked) > 0 && len(decisions) < n {
		if len(blocked) > 3 {
			blocked = blocked[:3]
		}
		decisions = append(decisions, fmt.Sprintf(
			"Assign resolution owners to unblock %s — set 5-day resolution deadlines and "+
				"escalate if not cleared. Blocked tasks are the #1 source of delivery delay "+
				"this cycle.", strings.Join(blocked, ", ")))
	}

	var reds []models.ProjectRiskSummary
	var ambers []string
	for _, s := range report.ProjectSummaries {
		switch s.RAGStatus {
		case models.RAGRed:
			reds = append(reds, s)
		case models.RAGAmber:
			ambers = append(ambers, s.ProjectName)
		}
	}
	if len(reds) > 0 && len(decisions) < n {
		total := 0
		names := make([]string, 0, len(reds))
		for _, s := range reds {
			total += s.RiskCount
			names = append(names, s.ProjectName)
		}
		if len(names) > 3 {
			names = names[:3]
		}
		suffix := ""
		if len(reds) > 1 {
			suffix = "s"
		}
		decisions = append(decisions, fmt.Sprintf(
			"Escalate %s to executive review — %d project%s at Red status with combined "+
				"%d risks. Leadership intervention required this cycle.",
			strings.Join(names, ", "), len(reds), suffix, total))
	}
	if len(ambers) > 0 && len(decisions) < n {
		if len(ambers) > 2 {
			ambers = ambers[:2]
		}
		decisions = append(decisions, fmt.Sprintf(
			"Monitor %s — emerging risks could escalate to Red without proactive mitigation. "+
				"Schedule mid-cycle check-in.", strings.Join(ambers, ", ")))
	}

	for len(decisions) < n {
		decisions = append(decisions,
			"Schedule portfolio risk review in 2 weeks to track resolution progress and "+
				"reassess the risk posture.")
	}
	return decisions[:n]
}

func talkingPoints(report *models.PortfolioRiskReport) []string {
	reds, _, _ := ragCounts(report)
	points := []string{fmt.Sprintf(
		"Portfolio health: %d of %d projects are Red — this requires leadership attention, "+
			"not just monitoring.", reds, len(report.ProjectSummaries))}

	counts := map[models.RiskCategory]int{}
	for _, s := range report.ProjectSummaries {
		for _, r := range s.Risks {
			counts[r.Category]++
		}
	}
	if len(counts) > 0 {
		top := models.RiskCategory("")
		for cat, count := range counts {
			if top == "" || count > counts[top] || (count == counts[top] && cat < top) {
				top = cat
			}
		}
		points = append(points, fmt.Sprintf(
			"Most frequent risk type: '%s' (%d instances). This is a systemic pattern, "+
				"not a one-off — consider a targeted intervention.", top, counts[top]))
	}

	points = append(points,
		"Key question: Are we comfortable with the current risk exposure, or do we need "+
			"to reallocate resources across the portfolio?")
	return points
}

// projectActions pulls the lead sentence of each suggested mitigation for
// the project's top risks.
func projectActions(s models.ProjectRiskSummary) []string {
	var actions []string
	risks := s.Risks
	if len(risks) > 3 {
		risks = risks[:3]
	}
	for _, r := range risks {
		if r.SuggestedMitigation == "" {
			continue
		}
		first, _, _ := strings.Cut(r.SuggestedMitigation, ". ")
		actions = append(actions, strings.TrimSuffix(first, ".")+".")
	}
	return actions
}
