package risk

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/windwardhq/windward/internal/models"
)

// Burn-rate thresholds.
const (
	spendThreshold         = 0.90 // flag if ≥90% of budget spent...
	timeRemainingThreshold = 0.10 // ...with >10% of the timeline remaining
	criticalSpendPct       = 0.95
	criticalRemainingPct   = 0.20
)

var currencyPrinter = message.NewPrinter(language.English)

// BurnRateDetector flags projects whose spend is outpacing their
// timeline. It operates on project-level budget, spend and dates, not
// tasks, and all date math is relative to an injected reference date so
// results stay deterministic.
type BurnRateDetector struct {
	referenceDate time.Time
}

// NewBurnRateDetector creates a burn-rate detector pinned to the given
// reference date. Callers that want "today" pass it explicitly at the
// boundary; the detector itself never reads a clock.
func NewBurnRateDetector(referenceDate time.Time) *BurnRateDetector {
	return &BurnRateDetector{referenceDate: referenceDate}
}

// Name returns the detector identifier.
func (d *BurnRateDetector) Name() string { return "burn_rate" }

// Detect emits at most one risk per project: a Critical overspend when
// spend exceeds budget, a dated burn-rate alert when both dates are
// present, or a High "no timeline data" alert when dates are missing but
// spend is ≥90%. Projects without a budget are skipped entirely.
func (d *BurnRateDetector) Detect(p *models.Project) []models.Risk {
	if p.Budget <= 0 {
		return nil
	}

	spendPct := p.ActualSpend / p.Budget

	// Overspend trumps everything and needs no dates.
	if spendPct > 1.0 {
		return []models.Risk{d.overspendRisk(p, spendPct)}
	}

	if p.StartDate == nil || p.EndDate == nil {
		if spendPct >= spendThreshold {
			return []models.Risk{d.noTimelineRisk(p, spendPct)}
		}
		return nil
	}

	totalDays := p.EndDate.Sub(*p.StartDate).Hours() / 24
	if totalDays <= 0 {
		// Zero-duration range: insufficient data, same as missing dates
		// but without the spend alert (avoids dividing by zero).
		return nil
	}

	elapsedDays := d.referenceDate.Sub(*p.StartDate).Hours() / 24
	elapsedPct := clamp(elapsedDays/totalDays, 0, 1)
	remainingPct := 1 - elapsedPct

	if spendPct >= spendThreshold && remainingPct > timeRemainingThreshold {
		severity := burnRateSeverity(spendPct, remainingPct)
		return []models.Risk{{
			ProjectName: p.Name,
			Category:    models.CategoryBurnRate,
			Severity:    severity,
			Title:       fmt.Sprintf("%s is burning budget faster than time", p.Name),
			Explanation: fmt.Sprintf(
				"%s has spent %s of its %s budget (%s) with %s of the timeline still to run. "+
					"At the current burn rate the budget will be exhausted before the end date of %s.",
				p.Name, fmtCurrency(p.ActualSpend), fmtCurrency(p.Budget), fmtPct(spendPct),
				fmtPct(remainingPct), p.EndDate.Format("2006-01-02"),
			),
			SuggestedMitigation: fmt.Sprintf(
				"Take %s to the steering committee: either approve a budget top-up, cut scope "+
					"to fit the remaining %s, or re-baseline the plan before the funds run out.",
				p.Name, fmtCurrency(p.Budget-p.ActualSpend),
			),
		}}
	}

	return nil
}

// burnRateSeverity applies the designed threshold ladder. The Medium
// fallthrough is unreachable with the current 0.90/0.95/0.20 thresholds
// (anything qualifying but missing both critical branches lands High);
// it is kept as the documented tie-break rather than removed.
func burnRateSeverity(spendPct, remainingPct float64) models.Severity {
	switch {
	case spendPct >= criticalSpendPct:
		return models.SeverityCritical
	case spendPct >= spendThreshold && remainingPct >= criticalRemainingPct:
		return models.SeverityCritical
	case spendPct >= spendThreshold:
		return models.SeverityHigh
	default:
		return models.SeverityMedium
	}
}

func (d *BurnRateDetector) overspendRisk(p *models.Project, spendPct float64) models.Risk {
	return models.Risk{
		ProjectName: p.Name,
		Category:    models.CategoryBurnRate,
		Severity:    models.SeverityCritical,
		Title:       fmt.Sprintf("%s has exceeded budget", p.Name),
		Explanation: fmt.Sprintf(
			"%s has spent %s against a budget of %s — %s of the allocation. "+
				"The project is already over budget regardless of timeline.",
			p.Name, fmtCurrency(p.ActualSpend), fmtCurrency(p.Budget), fmtPct(spendPct),
		),
		SuggestedMitigation: fmt.Sprintf(
			"Escalate %s to the steering committee for an immediate funding decision: "+
				"stop work, approve an overrun, or descope to close out within a revised envelope.",
			p.Name,
		),
	}
}

func (d *BurnRateDetector) noTimelineRisk(p *models.Project, spendPct float64) models.Risk {
	return models.Risk{
		ProjectName: p.Name,
		Category:    models.CategoryBurnRate,
		Severity:    models.SeverityHigh,
		Title:       fmt.Sprintf("%s has consumed %s of budget with no timeline data", p.Name, fmtPct(spendPct)),
		Explanation: fmt.Sprintf(
			"%s has spent %s of its %s budget (%s), but no start/end dates are available "+
				"so burn rate against schedule cannot be assessed. High spend without timeline "+
				"visibility is itself a governance risk.",
			p.Name, fmtCurrency(p.ActualSpend), fmtCurrency(p.Budget), fmtPct(spendPct),
		),
		SuggestedMitigation: fmt.Sprintf(
			"Obtain baseline dates for %s and re-run the assessment; in the meantime treat "+
				"further spend approvals with caution at the steering committee.", p.Name,
		),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// fmtPct renders a ratio as a whole-number percentage, e.g. 0.925 → "92%".
func fmtPct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// fmtCurrency renders an amount with thousands grouping, e.g. 185000 →
// "185,000".
func fmtCurrency(v float64) string {
	return currencyPrinter.Sprintf("%.0f", v)
}
