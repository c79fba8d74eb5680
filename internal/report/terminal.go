package report

import (
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/windwardhq/windward/internal/models"
)

// RAG cell styles for terminal output.
var (
	ragRedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	ragAmberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	ragGreenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

func ragCell(rag models.RAGStatus) string {
	switch rag {
	case models.RAGRed:
		return ragRedStyle.Render(string(rag))
	case models.RAGAmber:
		return ragAmberStyle.Render(string(rag))
	case models.RAGGreen:
		return ragGreenStyle.Render(string(rag))
	default:
		return string(rag)
	}
}

// RenderRisksTable writes every retained risk as one table row, projects
// in report order (worst first).
func RenderRisksTable(w io.Writer, report *models.PortfolioRiskReport) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Project", "RAG", "Severity", "Category", "Title"})
	for _, s := range report.ProjectSummaries {
		for _, r := range s.Risks {
			tw.AppendRow(table.Row{s.ProjectName, ragCell(s.RAGStatus), r.Severity, r.Category, r.Title})
		}
	}
	tw.Render()
}

// RenderPortfolioSummary writes the per-project rollup plus a portfolio
// footer line.
func RenderPortfolioSummary(w io.Writer, report *models.PortfolioRiskReport) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Project", "Status", "RAG", "Risks", "Worst Severity"})
	for _, s := range report.ProjectSummaries {
		worst := ""
		if s.RiskCount > 0 {
			worst = string(s.WorstSeverity)
		}
		tw.AppendRow(table.Row{s.ProjectName, s.ProjectStatus, ragCell(s.RAGStatus), s.RiskCount, worst})
	}
	tw.AppendFooter(table.Row{"Portfolio", "", ragCell(report.PortfolioRAG), report.TotalRisks, ""})
	tw.Render()
}

func sortedChangeFields(changes map[string]string) []string {
	fields := make([]string, 0, len(changes))
	for f := range changes {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// RenderScenarioImpacts writes one row per changed field, direct impacts
// before cascades.
func RenderScenarioImpacts(w io.Writer, result *models.ScenarioResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Project", "Impact", "Field", "Change"})
	for _, impact := range result.Impacts {
		for _, field := range sortedChangeFields(impact.Changes) {
			tw.AppendRow(table.Row{impact.ProjectName, impact.ImpactType, field, impact.Changes[field]})
		}
	}
	tw.Render()
}
