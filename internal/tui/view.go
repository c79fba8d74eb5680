package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/windwardhq/windward/internal/models"
)

// promptChrome is the horizontal space the prompt box spends on its
// border, padding and the "> " cursor prefix.
const promptChrome = 8

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("237"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle   = lipgloss.NewStyle().Bold(true)

	badgeRed   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	badgeAmber = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	badgeGreen = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

func ragBadge(rag models.RAGStatus) string {
	switch rag {
	case models.RAGRed:
		return badgeRed.Render("●")
	case models.RAGAmber:
		return badgeAmber.Render("●")
	default:
		return badgeGreen.Render("●")
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading portfolio..."
	}

	leftWidth, rightWidth := splitPaneWidths(m.windowWidth)
	height := m.paneHeight()

	left := renderPane(m.projectList(height), leftWidth, height,
		m.paneTitle(PaneProjects, "Projects"), m.activePane == PaneProjects)
	right := renderPane(m.detail.View(), rightWidth, height,
		m.paneTitle(PaneDetail, m.detailTitle()), m.activePane == PaneDetail)
	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	prompt := renderPane(m.prompt.View(), m.windowWidth-4, 1,
		"Scenario", m.activePane == PanePrompt)

	var bottom string
	if m.scenarioErr != "" {
		bottom = errorStyle.Render("✗ " + m.scenarioErr)
	} else {
		bottom = mutedStyle.Render("tab: switch pane · /: scenario prompt · enter: run · esc: back · q: quit")
	}

	return panes + "\n" + prompt + "\n" + bottom
}

func (m Model) paneTitle(pane ActivePane, base string) string {
	if m.activePane == pane {
		return base + " *"
	}
	return base
}

func (m Model) detailTitle() string {
	if m.narrative != nil {
		return "Scenario"
	}
	return "Risks"
}

// projectList renders one line per project: RAG badge, name and worst
// severity. The selected row is highlighted.
func (m Model) projectList(height int) string {
	if len(m.report.ProjectSummaries) == 0 {
		return mutedStyle.Render("No projects loaded.")
	}

	var b strings.Builder
	for i, summary := range m.report.ProjectSummaries {
		line := fmt.Sprintf("%s %s", ragBadge(summary.RAGStatus), summary.ProjectName)
		if summary.RiskCount > 0 {
			line += mutedStyle.Render(fmt.Sprintf("  %s ×%d", summary.WorstSeverity, summary.RiskCount))
		}
		if i == m.selected {
			line = selectedStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Portfolio: %s · %d risks · %d at risk",
		m.report.PortfolioRAG, m.report.TotalRisks, m.report.ProjectsAtRisk)))
	return b.String()
}

// detailContent is what the right pane shows: the last scenario narrative
// when one has been run, otherwise the selected project's risks.
func (m Model) detailContent() string {
	if m.narrative != nil {
		return m.narrative.FullText()
	}
	if len(m.report.ProjectSummaries) == 0 {
		return mutedStyle.Render("Nothing to show.")
	}

	summary := m.report.ProjectSummaries[m.selected]
	var b strings.Builder
	b.WriteString(titleStyle.Render(summary.ProjectName))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Status: %s · RAG: %s\n\n", summary.ProjectStatus, summary.RAGStatus))

	if len(summary.Risks) == 0 {
		b.WriteString(mutedStyle.Render("No risks detected."))
		return b.String()
	}

	for _, risk := range summary.Risks {
		b.WriteString(headerStyle.Render(fmt.Sprintf("[%s] %s", risk.Severity, risk.Title)))
		b.WriteString("\n")
		b.WriteString(risk.Explanation)
		b.WriteString("\n")
		if risk.SuggestedMitigation != "" {
			b.WriteString(mutedStyle.Render("Mitigation: " + risk.SuggestedMitigation))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func splitPaneWidths(total int) (int, int) {
	// Each pane spends 4 columns on borders and padding.
	available := total - 8
	if available < 0 {
		available = 0
	}
	left := available / 3
	if left < 24 {
		left = 24
	}
	right := available - left
	if right < 0 {
		right = 0
	}
	return left, right
}

func renderPane(content string, width, height int, title string, active bool) string {
	borderColor := lipgloss.Color("240")
	if active {
		borderColor = lipgloss.Color("69")
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width).
		Height(height).
		Padding(0, 1)
	rendered := style.Render(content)
	if title == "" {
		return rendered
	}

	// Splice the title into the top border line.
	lines := strings.Split(rendered, "\n")
	if len(lines) < 2 {
		return rendered
	}
	targetWidth := lipgloss.Width(lines[1])
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyled := lipgloss.NewStyle().Bold(true).Foreground(borderColor).Render(" " + title + " ")
	middle := targetWidth - 3 - lipgloss.Width(titleStyled)
	if middle < 0 {
		middle = 0
	}
	lines[0] = borderStyle.Render("╭─") + titleStyled + borderStyle.Render(strings.Repeat("─", middle)+"╮")
	return strings.Join(lines, "\n")
}
