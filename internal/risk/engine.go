package risk

import (
	"sort"
	"sync"
	"time"

	"github.com/windwardhq/windward/internal/models"
	"github.com/windwardhq/windward/pkg/logger"
)

// DefaultTopN is the number of risks retained per project after ranking.
const DefaultTopN = 5

// Options configures an aggregation run.
type Options struct {
	// TopN caps the risks retained per project after worst-first ranking.
	// Zero or negative falls back to DefaultTopN.
	TopN int

	// CarryoverThreshold is forwarded to the carry-over detector. Zero or
	// negative falls back to its default.
	CarryoverThreshold int

	// ReferenceDate anchors all date math. The zero value means "now",
	// resolved once at the start of the run.
	ReferenceDate time.Time

	// Workers bounds concurrent per-project analysis. Values below 2 run
	// sequentially. Output is identical either way: detectors are pure and
	// results are assembled in input order before ranking.
	Workers int
}

// Engine runs every registered detector over each project and rolls the
// findings up into a portfolio report.
type Engine struct {
	detectors []Detector
	topN      int
	workers   int
	log       logger.Logger
}

// NewEngine builds an engine with the standard four detectors configured
// from opts.
func NewEngine(opts Options) *Engine {
	refDate := opts.ReferenceDate
	if refDate.IsZero() {
		refDate = time.Now()
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	return &Engine{
		detectors: []Detector{
			NewBlockedWorkDetector(),
			NewCarryoverDetector(opts.CarryoverThreshold),
			NewBurnRateDetector(refDate),
			NewDependencyDetector(),
		},
		topN:    topN,
		workers: workers,
		log:     logger.GetGlobalLogger().With("component", "risk_engine"),
	}
}

// AnalyzePortfolio runs all detectors over every project and returns the
// aggregated report: per-project summaries with the top-N risks sorted
// worst-first, derived RAG statuses and portfolio-level counts. Summaries
// are ordered worst project first, ties broken by name.
func (e *Engine) AnalyzePortfolio(projects []*models.Project) *models.PortfolioRiskReport {
	e.log.Info("starting portfolio analysis",
		"projects", len(projects),
		"detectors", len(e.detectors),
		"workers", e.workers,
	)

	summaries := make([]models.ProjectRiskSummary, len(projects))
	if e.workers > 1 && len(projects) > 1 {
		e.analyzeConcurrent(projects, summaries)
	} else {
		for i, p := range projects {
			summaries[i] = e.analyzeProject(p)
		}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.RAGStatus.Rank() != b.RAGStatus.Rank() {
			return a.RAGStatus.Rank() < b.RAGStatus.Rank()
		}
		if ra, rb := worstRank(a), worstRank(b); ra != rb {
			return ra < rb
		}
		return a.ProjectName < b.ProjectName
	})

	report := &models.PortfolioRiskReport{
		GeneratedAt:      time.Now(),
		ProjectSummaries: summaries,
	}
	for _, s := range summaries {
		report.TotalRisks += s.RiskCount
		if s.RAGStatus != models.RAGGreen {
			report.ProjectsAtRisk++
		}
		if report.PortfolioRAG == "" || s.RAGStatus.Rank() < report.PortfolioRAG.Rank() {
			report.PortfolioRAG = s.RAGStatus
		}
	}
	if report.PortfolioRAG == "" {
		report.PortfolioRAG = models.RAGGreen
	}

	e.log.Info("portfolio analysis complete",
		"total_risks", report.TotalRisks,
		"projects_at_risk", report.ProjectsAtRisk,
		"portfolio_rag", string(report.PortfolioRAG),
	)
	return report
}

// analyzeConcurrent fans projects out over a bounded worker pool. Each
// result lands at its input index, so ordering before the final sort is
// the same as the sequential path.
func (e *Engine) analyzeConcurrent(projects []*models.Project, summaries []models.ProjectRiskSummary) {
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup

	for i, p := range projects {
		wg.Add(1)
		go func(i int, p *models.Project) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			summaries[i] = e.analyzeProject(p)
		}(i, p)
	}
	wg.Wait()
}

// analyzeProject runs every detector over one project, ranks the combined
// findings worst-first and truncates to top-N.
func (e *Engine) analyzeProject(p *models.Project) models.ProjectRiskSummary {
	var risks []models.Risk
	for _, det := range e.detectors {
		found := det.Detect(p)
		if len(found) > 0 {
			e.log.Debug("detector produced findings",
				"detector", det.Name(),
				"project", p.Name,
				"count", len(found),
			)
		}
		risks = append(risks, found...)
	}

	sortWorstFirst(risks)
	if len(risks) > e.topN {
		risks = risks[:e.topN]
	}

	summary := models.ProjectRiskSummary{
		ProjectName:   p.Name,
		ProjectStatus: p.Status,
		Risks:         risks,
		RiskCount:     len(risks),
	}
	if len(risks) > 0 {
		summary.WorstSeverity = risks[0].Severity
	}
	summary.RAGStatus = models.DeriveRAG(summary.WorstSeverity, len(risks))
	return summary
}

func worstRank(s models.ProjectRiskSummary) int {
	if s.RiskCount == 0 {
		return 99
	}
	return s.WorstSeverity.Rank()
}
