// Package scenario implements the scenario command: parse a free-text
// what-if question, simulate it and print the impact.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/windwardhq/windward/cmd/risks"
	"github.com/windwardhq/windward/internal/graph"
	"github.com/windwardhq/windward/internal/ingest"
	"github.com/windwardhq/windward/internal/report"
	"github.com/windwardhq/windward/internal/scenario"
	"github.com/windwardhq/windward/pkg/logger"
)

// NewCommand builds the "windward scenario" command.
func NewCommand() *cobra.Command {
	var (
		inputDir string
		refDate  string
		jsonPath string
	)

	cmd := &cobra.Command{
		Use:   `scenario --input DIR "delay Project X by 2 months"`,
		Short: "Simulate a what-if scenario against the portfolio",
		Args:  cobra.MinimumNArgs(1),
		Example: `  windward scenario --input ./exports "delay Phoenix by 2 months"
  windward scenario --input ./exports "cut Atlas scope by 30%" --json scenario.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.GetGlobalLogger().With("component", "scenario-cmd")

			ref, err := risks.ParseRefDate(refDate)
			if err != nil {
				return err
			}

			action, err := scenario.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}

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

			g := graph.BuildWithExtraKeywords(result.Projects, cfg.Graph.ExtraKeywords)
			simResult := scenario.Simulate(*action, result.Projects, g, ref)
			narrative := scenario.BuildNarrative(simResult)
			log.Info("Scenario simulated",
				"action", action.Type, "project", action.Project,
				"impacts", len(simResult.Impacts), "warnings", len(simResult.Warnings))

			fmt.Println(narrative.FullText())
			if len(simResult.Impacts) > 0 {
				report.RenderScenarioImpacts(os.Stdout, simResult)
			}

			if jsonPath != "" {
				if err := report.WriteScenarioJSON(simResult, jsonPath); err != nil {
					return fmt.Errorf("writing scenario JSON: %w", err)
				}
				log.Info("Wrote scenario JSON", "path", jsonPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "", "directory of export files")
	cmd.Flags().StringVar(&refDate, "ref", "", "reference date (YYYY-MM-DD), default today")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write the scenario result to this path")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
