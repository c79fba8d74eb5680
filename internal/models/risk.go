package models

import "time"

// RiskCategory is the closed set of risk finding categories.
type RiskCategory string

// Risk categories, one per detector.
const (
	CategoryBlockedWork      RiskCategory = "Blocked Work"
	CategoryChronicCarryover RiskCategory = "Chronic Carry-Over"
	CategoryBurnRate         RiskCategory = "Burn Rate"
	CategoryDependency       RiskCategory = "Dependency"
)

// RAGStatus is a Red/Amber/Green traffic-light status summarizing risk.
type RAGStatus string

// RAG statuses.
const (
	RAGRed   RAGStatus = "Red"
	RAGAmber RAGStatus = "Amber"
	RAGGreen RAGStatus = "Green"
)

// Rank returns the sort position of a RAG status, worst first.
func (r RAGStatus) Rank() int {
	switch r {
	case RAGRed:
		return 0
	case RAGAmber:
		return 1
	case RAGGreen:
		return 2
	default:
		return 99
	}
}

// Risk is a single immutable finding produced by exactly one detector call.
// Explanation references concrete facts (task names, numbers, dates) and
// SuggestedMitigation is non-empty for every produced risk; the reporting
// layer does no enrichment of its own.
type Risk struct {
	ProjectName         string       `json:"project_name"`
	Category            RiskCategory `json:"category"`
	Severity            Severity     `json:"severity"`
	Title               string       `json:"title"`
	Explanation         string       `json:"explanation"`
	SuggestedMitigation string       `json:"suggested_mitigation"`
}

// ProjectRiskSummary is the per-project rollup from one aggregation run:
// the top-N risks sorted worst-first plus a derived RAG status.
type ProjectRiskSummary struct {
	ProjectName   string    `json:"project_name"`
	ProjectStatus string    `json:"project_status"`
	Risks         []Risk    `json:"risks"`
	RiskCount     int       `json:"risk_count"`
	WorstSeverity Severity  `json:"worst_severity,omitempty"`
	RAGStatus     RAGStatus `json:"rag_status"`
}

// DeriveRAG maps a project's retained risks onto a RAG status: Red when
// any Critical or High risk is present, Amber when the worst is Medium,
// Green when the worst is Low or there are no risks at all.
func DeriveRAG(worst Severity, riskCount int) RAGStatus {
	if riskCount == 0 {
		return RAGGreen
	}
	switch worst {
	case SeverityCritical, SeverityHigh:
		return RAGRed
	case SeverityMedium:
		return RAGAmber
	default:
		return RAGGreen
	}
}

// PortfolioRiskReport is the output of one aggregation run over the whole
// portfolio, with project summaries sorted worst-project-first.
type PortfolioRiskReport struct {
	GeneratedAt      time.Time            `json:"generated_at"`
	ProjectSummaries []ProjectRiskSummary `json:"project_summaries"`
	TotalRisks       int                  `json:"total_risks"`
	ProjectsAtRisk   int                  `json:"projects_at_risk"`
	PortfolioRAG     RAGStatus            `json:"portfolio_rag"`
}

// Summary returns the summary for a named project, matched
// case-sensitively, or nil when the project is not in the report.
func (r *PortfolioRiskReport) Summary(projectName string) *ProjectRiskSummary {
	for i := range r.ProjectSummaries {
		if r.ProjectSummaries[i].ProjectName == projectName {
			return &r.ProjectSummaries[i]
		}
	}
	return nil
}
