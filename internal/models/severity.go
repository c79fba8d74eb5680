package models

import "strings"

// Severity is the closed set of risk severity levels, ordered
// Critical > High > Medium > Low.
type Severity string

// Severity levels as constants for type safety and consistency.
const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// ValidSeverities returns all valid severity levels for validation.
func ValidSeverities() []Severity {
	return []Severity{
		SeverityCritical,
		SeverityHigh,
		SeverityMedium,
		SeverityLow,
	}
}

// IsValidSeverity checks if a severity level is valid.
func IsValidSeverity(s Severity) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Rank returns the sort position of a severity, worst first.
// Critical ranks 0 so ascending sorts place the worst risks at the top.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 99
	}
}

// Elevate raises a severity exactly one step, capped at Critical.
func (s Severity) Elevate() Severity {
	switch s {
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	case SeverityHigh, SeverityCritical:
		return SeverityCritical
	default:
		return s
	}
}

// SeverityFromPriority maps a task priority onto a base severity.
// Unknown priorities default to Medium.
func SeverityFromPriority(priority string) Severity {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return SeverityMedium
	}
}
