// Package brief implements the brief command: run the full analysis
// pipeline and write audience-specific briefings.
package brief

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/windwardhq/windward/cmd/risks"
	"github.com/windwardhq/windward/internal/benefits"
	"github.com/windwardhq/windward/internal/decisions"
	"github.com/windwardhq/windward/internal/ingest"
	"github.com/windwardhq/windward/internal/investment"
	"github.com/windwardhq/windward/internal/report"
	"github.com/windwardhq/windward/internal/risk"
	"github.com/windwardhq/windward/pkg/logger"
	"github.com/windwardhq/windward/pkg/pathutil"
)

var audiences = map[string]bool{
	"board":    true,
	"steering": true,
	"project":  true,
	"all":      true,
}

// NewCommand builds the "windward brief" command.
func NewCommand() *cobra.Command {
	var (
		inputDir     string
		audience     string
		outputDir    string
		benefitsFile string
		writeHTML    bool
	)

	cmd := &cobra.Command{
		Use:   "brief",
		Short: "Generate board, steering and project briefings",
		Example: `  windward brief --input ./exports --audience board
  windward brief --input ./exports --audience all --benefits benefits.csv --html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !audiences[audience] {
				return fmt.Errorf("unknown audience %q (valid: board, steering, project, all)", audience)
			}
			log := logger.GetGlobalLogger().With("component", "brief-cmd")

			cfg, err := risks.LoadAnalysisConfig()
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = cfg.Output.Dir
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

			data := &report.BriefingData{RiskReport: riskReport}

			if benefitsFile != "" {
				register, err := benefits.LoadRegister(benefitsFile)
				if err != nil {
					return fmt.Errorf("loading benefits register: %w", err)
				}
				data.BenefitReport = benefits.Analyze(register, riskReport, cfg.ReferenceTime())
				log.Info("Benefits analysed",
					"benefits", len(register),
					"drift_rag", data.BenefitReport.PortfolioDriftRAG)
			}

			data.InvestmentReport = investment.Analyze(result.Projects, riskReport, data.BenefitReport)

			decisionLog := decisions.NewLog()
			decisions.FromRiskReport(riskReport, decisionLog, cfg.ReferenceTime())
			decisions.FromInvestment(data.InvestmentReport, decisionLog, cfg.ReferenceTime())

			if err := os.MkdirAll(outputDir, 0750); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			if err := writeBriefings(data, audience, outputDir, writeHTML); err != nil {
				return err
			}
			decisionsPath := filepath.Join(outputDir, "decisions.json")
			if err := report.WriteDecisionLogJSON(decisionLog, decisionsPath); err != nil {
				return fmt.Errorf("writing decision log: %w", err)
			}

			log.Info("Briefings written",
				"audience", audience, "output_dir", outputDir,
				"decisions", len(decisionLog.Decisions()))
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "", "directory of export files")
	cmd.Flags().StringVar(&audience, "audience", "board", "briefing audience: board, steering, project or all")
	cmd.Flags().StringVar(&outputDir, "output", "", "output directory (default from config, else ./output)")
	cmd.Flags().StringVar(&benefitsFile, "benefits", "", "benefits register (CSV or JSON) to fold in")
	cmd.Flags().BoolVar(&writeHTML, "html", false, "also write an HTML briefing")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func writeBriefings(data *report.BriefingData, audience, outputDir string, writeHTML bool) error {
	renderers := map[string]func(*report.BriefingData) string{
		"board":    report.BoardBriefing,
		"steering": report.SteeringBriefing,
		"project":  report.ProjectBriefing,
	}

	for name, render := range renderers {
		if audience != "all" && audience != name {
			continue
		}
		path, err := pathutil.JoinAndValidate(outputDir, name+"_briefing.md")
		if err != nil {
			return err
		}
		if err := report.WriteMarkdown(render(data), path); err != nil {
			return fmt.Errorf("writing %s briefing: %w", name, err)
		}
	}

	if writeHTML {
		path, err := pathutil.JoinAndValidate(outputDir, "briefing.html")
		if err != nil {
			return err
		}
		gen := report.NewHTMLGenerator(data)
		if err := gen.Generate(path); err != nil {
			return fmt.Errorf("writing HTML briefing: %w", err)
		}
	}
	return nil
}
