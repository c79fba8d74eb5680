// Package dashboard implements the dashboard command: the interactive
// portfolio TUI.
package dashboard

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/windwardhq/windward/cmd/risks"
	"github.com/windwardhq/windward/internal/graph"
	"github.com/windwardhq/windward/internal/ingest"
	"github.com/windwardhq/windward/internal/risk"
	"github.com/windwardhq/windward/internal/tui"
	"github.com/windwardhq/windward/pkg/logger"
)

// NewCommand builds the "windward dashboard" command.
func NewCommand() *cobra.Command {
	var inputDir string

	cmd := &cobra.Command{
		Use:     "dashboard",
		Short:   "Interactive portfolio dashboard",
		Example: `  windward dashboard --input ./exports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.GetGlobalLogger().With("component", "dashboard-cmd")

			cfg, err := risks.LoadAnalysisConfig()
			if err != nil {
				return err
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
			g := graph.BuildWithExtraKeywords(result.Projects, cfg.Graph.ExtraKeywords)

			log.Info("Starting dashboard",
				"projects", len(riskReport.ProjectSummaries), "risks", riskReport.TotalRisks)

			model := tui.New(riskReport, result.Projects, g, cfg.ReferenceTime())
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "", "directory of export files")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
