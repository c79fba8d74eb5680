package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windwardhq/windward/internal/graph"
	"github.com/windwardhq/windward/internal/models"
)

func TestWriteRiskReportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risks.json")
	require.NoError(t, WriteRiskReportJSON(reportFixture(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded models.PortfolioRiskReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, models.RAGRed, decoded.PortfolioRAG)
	assert.Len(t, decoded.ProjectSummaries, 3)
}

func TestWriteGraphJSON(t *testing.T) {
	g := graph.New("Alpha", "Beta")
	g.AddDependency("Beta", "Alpha")

	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, WriteGraphJSON(g, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		Projects []string            `json:"projects"`
		Edges    map[string][]string `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded.Projects, "Beta")
	assert.Equal(t, []string{"Alpha"}, decoded.Edges["Beta"])
}

func TestWriteScenarioJSON(t *testing.T) {
	result := &models.ScenarioResult{
		Action: models.ScenarioAction{Type: models.ActionRemove, Project: "Gamma"},
	}

	path := filepath.Join(t.TempDir(), "scenario.json")
	require.NoError(t, WriteScenarioJSON(result, path))

	var decoded models.ScenarioResult
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, models.ActionRemove, decoded.Action.Type)
}

func TestWriteJSONRejectsTraversal(t *testing.T) {
	err := WriteRiskReportJSON(reportFixture(), "../risks.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output path")
}
