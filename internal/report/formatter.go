// Package report renders analysis results for people: terminal tables,
// Markdown briefings, an HTML briefing from an embedded template, and
// JSON artifacts for downstream tooling.
package report

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders numbers and dates the way briefings expect them:
// grouped thousands, whole percentages, ISO dates.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a Formatter for English number grouping.
func NewFormatter() *Formatter {
	return &Formatter{printer: message.NewPrinter(language.English)}
}

// Currency renders a monetary amount with thousands separators and no
// decimals: 185000 → "185,000".
func (f *Formatter) Currency(v float64) string {
	return f.printer.Sprintf("%.0f", v)
}

// Pounds renders a monetary amount with a leading £.
func (f *Formatter) Pounds(v float64) string {
	return "£" + f.Currency(v)
}

// Pct renders a fraction as a whole percentage: 0.925 → "92%".
func (f *Formatter) Pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// Date renders a time as an ISO date, or "N/A" when nil.
func (f *Formatter) Date(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("2006-01-02")
}
