// Package risks implements the risks command: run the detectors over a
// portfolio and print or export the ranked findings.
package risks

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/windwardhq/windward/internal/config"
	"github.com/windwardhq/windward/internal/ingest"
	"github.com/windwardhq/windward/internal/report"
	"github.com/windwardhq/windward/internal/risk"
	"github.com/windwardhq/windward/pkg/logger"
)

// NewCommand builds the "windward risks" command.
func NewCommand() *cobra.Command {
	var (
		inputDir     string
		topN         int
		refDate      string
		jsonPath     string
		markdownPath string
	)

	cmd := &cobra.Command{
		Use:   "risks",
		Short: "Detect and rank delivery risks across the portfolio",
		Example: `  windward risks --input ./exports
  windward risks --input ./exports --top 3 --ref 2026-02-19
  windward risks --input ./exports --json risks.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.GetGlobalLogger().With("component", "risks-cmd")

			cfg, err := LoadAnalysisConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("top") {
				cfg.Analysis.TopN = topN
			}
			if cmd.Flags().Changed("ref") {
				cfg.Analysis.ReferenceDate = refDate
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			result, err := ingest.LoadPortfolio(inputDir)
			if err != nil {
				return fmt.Errorf("loading portfolio: %w", err)
			}
			for _, w := range result.Warnings {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}

			engine := risk.NewEngine(risk.Options{
				TopN:               cfg.Analysis.TopN,
				CarryoverThreshold: cfg.Analysis.CarryoverThreshold,
				ReferenceDate:      cfg.ReferenceTime(),
				Workers:            cfg.Analysis.Workers,
			})
			riskReport := engine.AnalyzePortfolio(result.Projects)
			log.Info("Risk analysis complete",
				"projects", len(riskReport.ProjectSummaries),
				"risks", riskReport.TotalRisks,
				"portfolio_rag", riskReport.PortfolioRAG)

			report.RenderPortfolioSummary(os.Stdout, riskReport)
			fmt.Println()
			report.RenderRisksTable(os.Stdout, riskReport)

			if jsonPath != "" {
				if err := report.WriteRiskReportJSON(riskReport, jsonPath); err != nil {
					return fmt.Errorf("writing risk report JSON: %w", err)
				}
				log.Info("Wrote risk report JSON", "path", jsonPath)
			}
			if markdownPath != "" {
				briefing := report.SteeringBriefing(&report.BriefingData{RiskReport: riskReport})
				if err := report.WriteMarkdown(briefing, markdownPath); err != nil {
					return fmt.Errorf("writing risk report Markdown: %w", err)
				}
				log.Info("Wrote risk report Markdown", "path", markdownPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "", "directory of export files")
	cmd.Flags().IntVar(&topN, "top", risk.DefaultTopN, "risks retained per project")
	cmd.Flags().StringVar(&refDate, "ref", "", "reference date (YYYY-MM-DD), default today")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write the risk report to this path as JSON")
	cmd.Flags().StringVar(&markdownPath, "markdown", "", "write a Markdown briefing to this path")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// LoadAnalysisConfig resolves the analysis config: the file named by the
// --config flag (or WINDWARD_CONFIG) when set, defaults otherwise. Shared
// by the other analysis commands.
func LoadAnalysisConfig() (*config.Config, error) {
	path := viper.GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}

// ParseRefDate parses a --ref flag value, falling back to now when empty.
func ParseRefDate(v string) (time.Time, error) {
	if v == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --ref date %q: expected YYYY-MM-DD", v)
	}
	return t, nil
}
