// Package benefits models the portfolio benefits register: expected vs
// realised value per project, drift against the original forecast and a
// risk-adjusted view of what will actually land.
package benefits

import (
	"strings"
	"time"
)

// Category classifies what kind of value a benefit delivers.
type Category string

// Benefit categories.
const (
	CategoryRevenue        Category = "Revenue"
	CategoryCostSaving     Category = "Cost Saving"
	CategoryCostAvoidance  Category = "Cost Avoidance"
	CategoryEfficiency     Category = "Efficiency"
	CategoryStrategic      Category = "Strategic"
	CategoryRiskMitigation Category = "Risk Mitigation"
	CategoryOther          Category = "Other"
)

// Status is the realisation state of a benefit.
type Status string

// Benefit statuses.
const (
	StatusOnTrack    Status = "On Track"
	StatusAtRisk     Status = "At Risk"
	StatusDelayed    Status = "Delayed"
	StatusCancelled  Status = "Cancelled"
	StatusRealised   Status = "Realised"
	StatusPartial    Status = "Partial"
	StatusNotStarted Status = "Not Started"
)

// Confidence is the register owner's stated confidence in a benefit.
type Confidence string

// Confidence levels.
const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Benefit is a single register entry linked to a project.
type Benefit struct {
	ID            string     `json:"benefit_id"`
	Name          string     `json:"name"`
	ProjectName   string     `json:"project_name"`
	Category      Category   `json:"category"`
	ExpectedValue float64    `json:"expected_value"`
	RealisedValue float64    `json:"realised_value"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	Status        Status     `json:"status"`
	Confidence    Confidence `json:"confidence"`
	Owner         string     `json:"owner"`
	Notes         string     `json:"notes,omitempty"`
}

// RealisationPct is the realised fraction of the expected value.
func (b *Benefit) RealisationPct() float64 {
	if b.ExpectedValue <= 0 {
		return 0
	}
	return b.RealisedValue / b.ExpectedValue
}

// UnrealisedValue is the expected value not yet realised, floored at zero.
func (b *Benefit) UnrealisedValue() float64 {
	if v := b.ExpectedValue - b.RealisedValue; v > 0 {
		return v
	}
	return 0
}

// IsAtRisk reports whether the benefit's own status puts it at risk.
func (b *Benefit) IsAtRisk() bool {
	return b.Status == StatusAtRisk || b.Status == StatusDelayed || b.Status == StatusCancelled
}

// statusAliases maps register vocabulary (including RAG colors) onto
// statuses. Matched exactly first, then by substring.
var statusAliases = map[string]Status{
	"on track":           StatusOnTrack,
	"on-track":           StatusOnTrack,
	"green":              StatusOnTrack,
	"at risk":            StatusAtRisk,
	"at-risk":            StatusAtRisk,
	"amber":              StatusAtRisk,
	"delayed":            StatusDelayed,
	"red":                StatusDelayed,
	"cancelled":          StatusCancelled,
	"canceled":           StatusCancelled,
	"closed":             StatusCancelled,
	"realised":           StatusRealised,
	"realized":           StatusRealised,
	"complete":           StatusRealised,
	"achieved":           StatusRealised,
	"partial":            StatusPartial,
	"partially realised": StatusPartial,
	"in progress":        StatusPartial,
	"not started":        StatusNotStarted,
	"not yet started":    StatusNotStarted,
	"pending":            StatusNotStarted,
	"planned":            StatusNotStarted,
}

// ParseStatus maps free-text register status onto the closed set. Unknown
// or empty text reads as Not Started.
func ParseStatus(v string) Status {
	key := strings.ToLower(strings.TrimSpace(v))
	if key == "" {
		return StatusNotStarted
	}
	if s, ok := statusAliases[key]; ok {
		return s
	}
	for alias, s := range statusAliases {
		if strings.Contains(key, alias) {
			return s
		}
	}
	return StatusNotStarted
}

// categoryKeywords maps category vocabulary by substring.
var categoryKeywords = []struct {
	keyword  string
	category Category
}{
	{"risk mitigation", CategoryRiskMitigation},
	{"cost saving", CategoryCostSaving},
	{"cost reduction", CategoryCostSaving},
	{"cost avoidance", CategoryCostAvoidance},
	{"avoidance", CategoryCostAvoidance},
	{"savings", CategoryCostSaving},
	{"revenue", CategoryRevenue},
	{"income", CategoryRevenue},
	{"sales", CategoryRevenue},
	{"new product", CategoryRevenue},
	{"new market", CategoryRevenue},
	{"efficiency", CategoryEfficiency},
	{"productivity", CategoryEfficiency},
	{"process", CategoryEfficiency},
	{"automation", CategoryEfficiency},
	{"strategic", CategoryStrategic},
	{"capability", CategoryStrategic},
	{"compliance", CategoryRiskMitigation},
	{"regulatory", CategoryRiskMitigation},
	{"risk", CategoryRiskMitigation},
}

// ParseCategory maps free-text register category onto the closed set.
func ParseCategory(v string) Category {
	key := strings.ToLower(strings.TrimSpace(v))
	if key == "" {
		return CategoryOther
	}
	for _, ck := range categoryKeywords {
		if strings.Contains(key, ck.keyword) {
			return ck.category
		}
	}
	return CategoryOther
}

// ParseConfidence maps free text onto a confidence level, defaulting to
// Medium.
func ParseConfidence(v string) Confidence {
	key := strings.ToLower(strings.TrimSpace(v))
	switch {
	case strings.Contains(key, "high"):
		return ConfidenceHigh
	case strings.Contains(key, "low"):
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}
