package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/windwardhq/windward/internal/decisions"
	"github.com/windwardhq/windward/internal/graph"
	"github.com/windwardhq/windward/internal/models"
	"github.com/windwardhq/windward/pkg/pathutil"
)

// WriteRiskReportJSON writes the risk report as a JSON artifact.
func WriteRiskReportJSON(report *models.PortfolioRiskReport, outputPath string) error {
	return writeJSON(report, outputPath)
}

// WriteGraphJSON writes the dependency graph's adjacency map as JSON.
func WriteGraphJSON(g *graph.DependencyGraph, outputPath string) error {
	return writeJSON(g.ToMap(), outputPath)
}

// WritePortfolioJSON writes the normalised portfolio as JSON.
func WritePortfolioJSON(projects []*models.Project, outputPath string) error {
	return writeJSON(map[string]any{"projects": projects}, outputPath)
}

// WriteScenarioJSON writes a scenario result as a JSON artifact.
func WriteScenarioJSON(result *models.ScenarioResult, outputPath string) error {
	return writeJSON(result, outputPath)
}

// WriteDecisionLogJSON writes a decision log as a JSON artifact.
func WriteDecisionLogJSON(log *decisions.Log, outputPath string) error {
	return writeJSON(log, outputPath)
}

// WriteMarkdown writes a rendered briefing to disk.
func WriteMarkdown(content, outputPath string) error {
	validOutputPath, err := pathutil.ValidateOutputPath(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(validOutputPath), 0750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(validOutputPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing briefing: %w", err)
	}
	return nil
}

func writeJSON(v any, outputPath string) error {
	validOutputPath, err := pathutil.ValidateOutputPath(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling artifact: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(validOutputPath), 0750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(validOutputPath, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}
