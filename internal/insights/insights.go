// Package insights distills the analysis outputs into a single executive
// paragraph: the two or three most urgent items leadership needs to act
// on this cycle.
package insights

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/windwardhq/windward/internal/benefits"
	"github.com/windwardhq/windward/internal/investment"
	"github.com/windwardhq/windward/internal/models"
)

var moneyPrinter = message.NewPrinter(language.English)

// regulatoryKeywords flag projects whose name implies an external deadline.
var regulatoryKeywords = []string{"compliance", "regulatory", "audit", "cyber", "security"}

type urgentItem struct {
	priority int
	text     string
}

// ExecutiveSummary builds one punchy paragraph for the top of any
// briefing. The benefit and investment reports are optional.
func ExecutiveSummary(riskReport *models.PortfolioRiskReport, benefitReport *benefits.PortfolioBenefitReport, investmentReport *investment.PortfolioInvestmentReport) string {
	var items []urgentItem

	total := len(riskReport.ProjectSummaries)
	reds, ambers := 0, 0
	for _, s := range riskReport.ProjectSummaries {
		switch s.RAGStatus {
		case models.RAGRed:
			reds++
		case models.RAGAmber:
			ambers++
		}
	}

	items = append(items, budgetCriticalItems(riskReport)...)
	items = append(items, regulatoryItems(riskReport)...)
	items = append(items, blockedCascadeItems(riskReport)...)

	if benefitReport != nil && benefitReport.PortfolioDriftPct > 0.20 {
		items = append(items, urgentItem{4, fmt.Sprintf(
			"benefits are drifting %.0f%% from plan — £%s of portfolio value at risk",
			benefitReport.PortfolioDriftPct*100,
			moneyPrinter.Sprintf("%.0f", benefitReport.TotalAtRiskValue))})
	}

	if investmentReport != nil {
		if item, ok := divestmentItem(investmentReport); ok {
			items = append(items, item)
		}
	}

	var onHold []string
	for _, s := range riskReport.ProjectSummaries {
		if strings.Contains(strings.ToLower(s.ProjectStatus), "hold") {
			onHold = append(onHold, s.ProjectName)
		}
	}
	if len(onHold) > 0 {
		if len(onHold) > 2 {
			onHold = onHold[:2]
		}
		items = append(items, urgentItem{6, fmt.Sprintf(
			"%s stalled — confirm go/no-go to release committed resources",
			strings.Join(onHold, ", "))})
	}

	top := dedupeTop(items, 3)
	if len(top) == 0 {
		return fmt.Sprintf(
			"The portfolio is tracking %d active projects with %d at Red status and %d at Amber. "+
				"No critical escalation needed this cycle — continue standard monitoring.",
			total, reds, ambers)
	}

	numbered := make([]string, len(top))
	best := top[0].priority
	for i, item := range top {
		numbered[i] = fmt.Sprintf("(%d) %s", i+1, item.text)
		if item.priority < best {
			best = item.priority
		}
	}

	urgency := "Recommended: review at next scheduled steering committee."
	switch {
	case best <= 2:
		urgency = "Recommended: schedule emergency portfolio review within 5 working days."
	case best <= 4:
		urgency = "Recommended: address these items before the next steering cycle."
	}

	suffix := ""
	if len(top) > 1 {
		suffix = "s"
	}
	return fmt.Sprintf("Your portfolio has %d urgent issue%s this cycle: %s. %s",
		len(top), suffix, strings.Join(numbered, "; "), urgency)
}

func budgetCriticalItems(report *models.PortfolioRiskReport) []urgentItem {
	var items []urgentItem
	for _, s := range report.ProjectSummaries {
		for _, r := range s.Risks {
			if r.Category == models.CategoryBurnRate && r.Severity == models.SeverityCritical {
				items = append(items, urgentItem{1, fmt.Sprintf(
					"%s will exhaust its budget before delivery completes — approve a top-up or cut scope",
					s.ProjectName)})
				break
			}
		}
	}
	return items
}

func regulatoryItems(report *models.PortfolioRiskReport) []urgentItem {
	var items []urgentItem
	for _, s := range report.ProjectSummaries {
		nameLower := strings.ToLower(s.ProjectName)
		matched := false
		for _, kw := range regulatoryKeywords {
			if strings.Contains(nameLower, kw) {
				matched = true
				break
			}
		}
		if !matched || (s.RAGStatus != models.RAGRed && s.RAGStatus != models.RAGAmber) {
			continue
		}

		criticals := 0
		for _, r := range s.Risks {
			if r.Severity == models.SeverityCritical {
				criticals++
			}
		}
		if criticals > 0 {
			items = append(items, urgentItem{2, fmt.Sprintf(
				"%s has %d critical issues and may miss its regulatory deadline",
				s.ProjectName, criticals)})
		}
	}
	return items
}

// blockedCascadeItems flags projects whose blockers show up in other
// projects' dependency findings.
func blockedCascadeItems(report *models.PortfolioRiskReport) []urgentItem {
	blocked := map[string]bool{}
	for _, s := range report.ProjectSummaries {
		for _, r := range s.Risks {
			if r.Category == models.CategoryBlockedWork &&
				(r.Severity == models.SeverityCritical || r.Severity == models.SeverityHigh) {
				blocked[s.ProjectName] = true
			}
		}
	}
	if len(blocked) == 0 {
		return nil
	}

	blockedNames := make([]string, 0, len(blocked))
	for name := range blocked {
		blockedNames = append(blockedNames, name)
	}
	sort.Strings(blockedNames)

	var items []urgentItem
	for _, s := range report.ProjectSummaries {
		for _, r := range s.Risks {
			if r.Category != models.CategoryDependency {
				continue
			}
			explanation := strings.ToLower(r.Explanation)
			for _, bp := range blockedNames {
				key, _, _ := strings.Cut(strings.ToLower(bp), " - ")
				if strings.Contains(explanation, key) {
					items = append(items, urgentItem{3, fmt.Sprintf(
						"blockers in %s are cascading into dependent projects", bp)})
					break
				}
			}
		}
	}
	return items
}

func divestmentItem(report *investment.PortfolioInvestmentReport) (urgentItem, bool) {
	var names []string
	freed := 0.0
	for _, pi := range report.ProjectInvestments {
		if pi.Action == investment.ActionDivest {
			names = append(names, pi.ProjectName)
			freed += pi.CostToComplete
		}
	}
	if len(names) == 0 {
		return urgentItem{}, false
	}
	shown := names
	if len(shown) > 2 {
		shown = shown[:2]
	}
	return urgentItem{5, fmt.Sprintf(
		"%s showing negative ROI — recommend stopping discretionary spend, freeing £%s for reallocation",
		strings.Join(shown, ", "), moneyPrinter.Sprintf("%.0f", freed))}, true
}

// dedupeTop sorts by priority and keeps the best n items, dropping
// repeats that lead with the same project name once n are collected.
func dedupeTop(items []urgentItem, n int) []urgentItem {
	sort.SliceStable(items, func(i, j int) bool { return items[i].priority < items[j].priority })

	seen := map[string]bool{}
	var out []urgentItem
	for _, item := range items {
		key, _, _ := strings.Cut(item.text, " ")
		if !seen[key] || len(out) < n {
			out = append(out, item)
			seen[key] = true
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}
