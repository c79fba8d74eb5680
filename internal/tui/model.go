// Package tui implements the interactive portfolio dashboard: a project
// list with RAG badges, a risk detail pane and a prompt for running
// what-if scenarios against the loaded portfolio.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/windwardhq/windward/internal/graph"
	"github.com/windwardhq/windward/internal/models"
	"github.com/windwardhq/windward/internal/scenario"
)

// ActivePane identifies which pane receives navigation keys.
type ActivePane int

const (
	PaneProjects ActivePane = iota
	PaneDetail
	PanePrompt
)

// Model is the dashboard state. Everything it shows is computed up front
// or synchronously on Enter; there is no background I/O.
type Model struct {
	report        *models.PortfolioRiskReport
	projects      []*models.Project
	graph         *graph.DependencyGraph
	referenceDate time.Time

	selected    int
	activePane  ActivePane
	detail      viewport.Model
	prompt      textinput.Model
	scenarioErr string
	// narrative holds the last simulated scenario, shown in the detail
	// pane until the selection changes or esc is pressed.
	narrative *models.ScenarioNarrative

	windowWidth  int
	windowHeight int
	ready        bool
}

// New builds a dashboard over an already-computed risk report. The
// projects and graph are kept so scenario prompts can simulate live.
func New(
	report *models.PortfolioRiskReport,
	projects []*models.Project,
	g *graph.DependencyGraph,
	referenceDate time.Time,
) Model {
	prompt := textinput.New()
	prompt.Placeholder = `Try: "delay Phoenix by 2 months"`
	prompt.CharLimit = 200

	return Model{
		report:        report,
		projects:      projects,
		graph:         g,
		referenceDate: referenceDate,
		activePane:    PaneProjects,
		prompt:        prompt,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = typed.Width
		m.windowHeight = typed.Height
		m.resizePanes()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.activePane = nextPane(m.activePane)
		if m.activePane == PanePrompt {
			m.prompt.Focus()
		} else {
			m.prompt.Blur()
		}
		return m, nil
	case "esc":
		if m.narrative != nil || m.scenarioErr != "" {
			m.narrative = nil
			m.scenarioErr = ""
			m.detail.SetContent(m.detailContent())
			m.detail.GotoTop()
			return m, nil
		}
		if m.activePane == PanePrompt {
			m.prompt.Blur()
			m.activePane = PaneProjects
		}
		return m, nil
	}

	if m.activePane == PanePrompt {
		switch key.String() {
		case "enter":
			return m.runScenario()
		default:
			var cmd tea.Cmd
			m.prompt, cmd = m.prompt.Update(key)
			return m, cmd
		}
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.activePane == PaneDetail {
			m.detail.LineUp(1)
			return m, nil
		}
		m.moveSelection(-1)
		return m, nil
	case "down", "j":
		if m.activePane == PaneDetail {
			m.detail.LineDown(1)
			return m, nil
		}
		m.moveSelection(1)
		return m, nil
	case "pgup":
		m.detail.HalfViewUp()
		return m, nil
	case "pgdown":
		m.detail.HalfViewDown()
		return m, nil
	case "/":
		m.activePane = PanePrompt
		m.prompt.Focus()
		return m, nil
	}
	return m, nil
}

// runScenario parses and simulates the prompt text synchronously and
// shows the narrative (or the parse error) in the detail pane.
func (m Model) runScenario() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.prompt.Value())
	if text == "" {
		return m, nil
	}

	action, err := scenario.Parse(text)
	if err != nil {
		m.scenarioErr = err.Error()
		m.narrative = nil
		return m, nil
	}

	result := scenario.Simulate(*action, m.projects, m.graph, m.referenceDate)
	m.narrative = scenario.BuildNarrative(result)
	m.scenarioErr = ""
	m.prompt.SetValue("")
	m.detail.SetContent(m.detailContent())
	m.detail.GotoTop()
	return m, nil
}

func (m *Model) moveSelection(delta int) {
	if len(m.report.ProjectSummaries) == 0 {
		return
	}
	next := m.selected + delta
	if next < 0 || next >= len(m.report.ProjectSummaries) {
		return
	}
	m.selected = next
	m.narrative = nil
	m.detail.SetContent(m.detailContent())
	m.detail.GotoTop()
}

func (m *Model) resizePanes() {
	_, rightWidth := splitPaneWidths(m.windowWidth)
	m.detail = viewport.New(rightWidth, m.paneHeight())
	m.detail.SetContent(m.detailContent())
	m.prompt.Width = m.windowWidth - promptChrome
}

// paneHeight leaves room for the prompt box and the help bar.
func (m Model) paneHeight() int {
	h := m.windowHeight - 7
	if h < 0 {
		h = 0
	}
	return h
}

func nextPane(p ActivePane) ActivePane {
	switch p {
	case PaneProjects:
		return PaneDetail
	case PaneDetail:
		return PanePrompt
	default:
		return PaneProjects
	}
}
