// Package ingest implements the ingest command for loading and inspecting
// portfolio exports.
package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/windwardhq/windward/internal/graph"
	"github.com/windwardhq/windward/internal/ingest"
	"github.com/windwardhq/windward/internal/report"
	"github.com/windwardhq/windward/pkg/logger"
)

// NewCommand builds the "windward ingest" command.
func NewCommand() *cobra.Command {
	var (
		inputDir string
		jsonPath string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load portfolio exports and show what was parsed",
		Example: `  windward ingest --input ./exports
  windward ingest --input ./exports --json portfolio.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.GetGlobalLogger().With("component", "ingest-cmd")

			result, err := ingest.LoadPortfolio(inputDir)
			if err != nil {
				return fmt.Errorf("loading portfolio: %w", err)
			}
			log.Info("Portfolio loaded",
				"projects", len(result.Projects), "warnings", len(result.Warnings))

			for _, w := range result.Warnings {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}

			printPortfolio(result)

			g := graph.Build(result.Projects)
			fmt.Printf("\nDependency graph: %d projects, %d edges\n",
				len(g.Projects()), g.EdgeCount())
			if cycle := g.DetectCycle(); cycle != nil {
				fmt.Fprintf(os.Stderr, "warning: circular dependency: %s\n",
					strings.Join(cycle, " -> "))
			}

			if jsonPath != "" {
				if err := report.WritePortfolioJSON(result.Projects, jsonPath); err != nil {
					return fmt.Errorf("writing portfolio JSON: %w", err)
				}
				log.Info("Wrote portfolio JSON", "path", jsonPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "", "directory of export files (CSV, JSON, XLSX)")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write the normalised portfolio to this path")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func printPortfolio(result *ingest.Result) {
	f := report.NewFormatter()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Project", "Status", "Budget", "Spend", "Tasks", "Start", "End"})

	var totalBudget, totalSpend float64
	totalTasks := 0
	for _, p := range result.Projects {
		t.AppendRow(table.Row{
			p.Name, p.Status,
			f.Pounds(p.Budget), f.Pounds(p.ActualSpend),
			p.TaskCount(), f.Date(p.StartDate), f.Date(p.EndDate),
		})
		totalBudget += p.Budget
		totalSpend += p.ActualSpend
		totalTasks += p.TaskCount()
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d projects", len(result.Projects)), "",
		f.Pounds(totalBudget), f.Pounds(totalSpend), totalTasks, "", "",
	})
	t.Render()
}
