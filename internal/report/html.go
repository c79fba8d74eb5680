package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/windwardhq/windward/internal/insights"
	"github.com/windwardhq/windward/internal/models"
	"github.com/windwardhq/windward/pkg/logger"
	"github.com/windwardhq/windward/pkg/pathutil"
)

//go:embed templates/*
var templateFS embed.FS

// HTMLGenerator renders the portfolio briefing as a standalone HTML page.
type HTMLGenerator struct {
	logger logger.Logger
	data   *BriefingData
}

// NewHTMLGenerator creates an HTML briefing generator over the given data.
func NewHTMLGenerator(data *BriefingData) *HTMLGenerator {
	return NewHTMLGeneratorWithLogger(data, logger.GetGlobalLogger())
}

// NewHTMLGeneratorWithLogger creates an HTML briefing generator with a
// custom logger.
func NewHTMLGeneratorWithLogger(data *BriefingData, log logger.Logger) *HTMLGenerator {
	return &HTMLGenerator{data: data, logger: log}
}

// Generate writes the briefing to outputPath.
func (g *HTMLGenerator) Generate(outputPath string) error {
	validOutputPath, err := pathutil.ValidateOutputPath(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	tmpl, err := template.New("briefing").Funcs(g.templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(validOutputPath), 0750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(validOutputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	if err := tmpl.ExecuteTemplate(file, "briefing.html", g.prepareTemplateData()); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}

	g.logger.Info("Generated HTML briefing", "path", outputPath)
	return nil
}

// templateFuncs returns custom template functions.
func (g *HTMLGenerator) templateFuncs() template.FuncMap {
	f := NewFormatter()
	return template.FuncMap{
		"title":    cases.Title(language.English).String,
		"currency": f.Currency,
		"pct":      f.Pct,
		"ragClass": func(rag models.RAGStatus) string {
			switch rag {
			case models.RAGRed:
				return "rag-red"
			case models.RAGAmber:
				return "rag-amber"
			default:
				return "rag-green"
			}
		},
		"severityClass": func(s models.Severity) string {
			return "severity-" + string(s)
		},
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
		"add": func(a, b int) int {
			return a + b
		},
	}
}

// HTMLTemplateData holds everything the briefing template renders.
type HTMLTemplateData struct {
	GeneratedAt      time.Time
	ExecutiveSummary string
	Report           *models.PortfolioRiskReport
	TopRisks         []models.Risk
	Decisions        []string
	RedCount         int
	AmberCount       int
	GreenCount       int
	Scenario         *models.ScenarioNarrative
}

func (g *HTMLGenerator) prepareTemplateData() *HTMLTemplateData {
	data := &HTMLTemplateData{
		GeneratedAt: g.data.generatedAt(),
		ExecutiveSummary: insights.ExecutiveSummary(
			g.data.RiskReport, g.data.BenefitReport, g.data.InvestmentReport),
		Report:    g.data.RiskReport,
		TopRisks:  topRisks(g.data.RiskReport, 5),
		Decisions: briefingDecisions(g.data.RiskReport, 3),
		Scenario:  g.data.Scenario,
	}
	data.RedCount, data.AmberCount, data.GreenCount = ragCounts(g.data.RiskReport)
	return data
}
