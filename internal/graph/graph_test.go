package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windwardhq/windward/internal/models"
)

func TestAddAndGetDependency(t *testing.T) {
	g := New("Alpha", "Beta")
	g.AddDependency("Beta", "Alpha")
	assert.Equal(t, []string{"Alpha"}, g.Dependencies("Beta"))
}

func TestDependents(t *testing.T) {
	g := New("Alpha", "Beta", "Gamma")
	g.AddDependency("Beta", "Alpha")
	g.AddDependency("Gamma", "Alpha")
	assert.Equal(t, []string{"Beta", "Gamma"}, g.Dependents("Alpha"))
}

func TestNoDependencies(t *testing.T) {
	g := New("Alpha")
	assert.Empty(t, g.Dependencies("Alpha"))
	assert.Empty(t, g.Dependents("Alpha"))
}

func TestTransitiveDependents(t *testing.T) {
	// A → B → C: if A slips, both B and C are affected.
	g := New("A", "B", "C")
	g.AddDependency("B", "A")
	g.AddDependency("C", "B")
	assert.Equal(t, []string{"B", "C"}, g.AllDependents("A"))
}

func TestTransitiveDependencies(t *testing.T) {
	g := New("A", "B", "C")
	g.AddDependency("B", "A")
	g.AddDependency("C", "B")
	assert.Equal(t, []string{"A", "B"}, g.AllDependencies("C"))
}

func TestDiamondDependency(t *testing.T) {
	g := New("A", "B", "C", "D")
	g.AddDependency("B", "A")
	g.AddDependency("C", "A")
	g.AddDependency("D", "B")
	g.AddDependency("D", "C")
	assert.Equal(t, []string{"A", "B", "C"}, g.AllDependencies("D"))
	assert.Equal(t, []string{"B", "C", "D"}, g.AllDependents("A"))
}

func TestDetectCycle(t *testing.T) {
	g := New("A", "B", "C")
	g.AddDependency("A", "B")
	g.AddDependency("B", "C")
	g.AddDependency("C", "A")

	cycle := g.DetectCycle()
	require.NotNil(t, cycle)
	// Closing node is repeated at the end.
	assert.Equal(t, cycle[0], cycle[len(cycle)-1])
	assert.GreaterOrEqual(t, len(cycle), 4)
	for _, name := range []string{"A", "B", "C"} {
		assert.Contains(t, cycle, name)
	}
}

func TestDetectCycleOnDAG(t *testing.T) {
	g := New("A", "B", "C")
	g.AddDependency("B", "A")
	g.AddDependency("C", "B")
	assert.Nil(t, g.DetectCycle())
}

func TestDetectCycleDeterministic(t *testing.T) {
	build := func() *DependencyGraph {
		g := New("A", "B", "C", "D", "E")
		g.AddDependency("D", "E")
		g.AddDependency("A", "B")
		g.AddDependency("B", "C")
		g.AddDependency("C", "A")
		return g
	}

	first := build().DetectCycle()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, build().DetectCycle())
	}
}

func TestToMap(t *testing.T) {
	g := New("Alpha", "Beta")
	g.AddDependency("Beta", "Alpha")

	m := g.ToMap()
	assert.Equal(t, []string{"Alpha", "Beta"}, m["projects"])
	edges := m["edges"].(map[string][]string)
	assert.Equal(t, []string{"Alpha"}, edges["Beta"])

	_, err := json.Marshal(m)
	require.NoError(t, err)
}

func TestSelfHasNoDependents(t *testing.T) {
	g := New("A")
	assert.Empty(t, g.AllDependents("A"))
}

func makeProject(name string, tasks ...models.Task) *models.Project {
	return &models.Project{Name: name, Status: "Active", Tasks: tasks}
}

func TestBuildSimpleDependency(t *testing.T) {
	projects := []*models.Project{
		makeProject("Alpha", models.Task{Name: "T1", Status: "Done"}),
		makeProject("Beta", models.Task{
			Name: "T2", Status: "To Do",
			Comments: "Depends on Alpha API completion",
		}),
	}
	g := Build(projects)
	assert.Equal(t, []string{"Alpha"}, g.Dependencies("Beta"))
}

func TestBuildBlockedByKeyword(t *testing.T) {
	projects := []*models.Project{
		makeProject("Alpha", models.Task{Name: "T1", Status: "Done"}),
		makeProject("Beta", models.Task{
			Name: "T2", Status: "Blocked",
			Comments: "Blocked by Alpha delivery",
		}),
	}
	g := Build(projects)
	assert.Equal(t, []string{"Alpha"}, g.Dependencies("Beta"))
}

func TestBuildSelfReferenceExcluded(t *testing.T) {
	projects := []*models.Project{
		makeProject("Alpha", models.Task{
			Name: "T1", Status: "To Do",
			Comments: "Depends on Alpha phase one sign-off",
		}),
	}
	g := Build(projects)
	assert.Empty(t, g.Dependencies("Alpha"))
}

func TestBuildCaseInsensitiveNameMatch(t *testing.T) {
	projects := []*models.Project{
		makeProject("Alpha", models.Task{Name: "T1", Status: "Done"}),
		makeProject("Beta", models.Task{
			Name: "T2", Status: "To Do",
			Comments: "waiting for ALPHA sign-off",
		}),
	}
	g := Build(projects)
	assert.Equal(t, []string{"Alpha"}, g.Dependencies("Beta"))
}

func TestBuildMentionBeyondWindowIgnored(t *testing.T) {
	padding := make([]byte, 120)
	for i := range padding {
		padding[i] = 'x'
	}
	projects := []*models.Project{
		makeProject("Alpha", models.Task{Name: "T1", Status: "Done"}),
		makeProject("Beta", models.Task{
			Name: "T2", Status: "To Do",
			Comments: "Depends on " + string(padding) + " Alpha",
		}),
	}
	g := Build(projects)
	assert.Empty(t, g.Dependencies("Beta"))
}

func TestBuildDeduplicatesEdges(t *testing.T) {
	projects := []*models.Project{
		makeProject("Alpha", models.Task{Name: "T1", Status: "Done"}),
		makeProject("Beta",
			models.Task{Name: "T2", Status: "To Do", Comments: "Depends on Alpha API"},
			models.Task{Name: "T3", Status: "To Do", Comments: "Blocked by Alpha infra"},
		),
	}
	g := Build(projects)
	assert.Equal(t, []string{"Alpha"}, g.Dependencies("Beta"))
	assert.Equal(t, 1, g.EdgeCount())
}

func TestBuildEmptyCommentsSkipped(t *testing.T) {
	projects := []*models.Project{
		makeProject("Alpha", models.Task{Name: "T1", Status: "Done"}),
		makeProject("Beta", models.Task{Name: "T2", Status: "To Do"}),
	}
	g := Build(projects)
	assert.Equal(t, 0, g.EdgeCount())
	assert.Equal(t, []string{"Alpha", "Beta"}, g.Projects())
}

func TestBuildWithExtraKeywords(t *testing.T) {
	projects := []*models.Project{
		makeProject("Alpha", models.Task{Name: "T1", Status: "Done"}),
		makeProject("Beta", models.Task{
			Name: "T2", Status: "To Do",
			Comments: "Handover from Alpha team still pending",
		}),
	}

	assert.Empty(t, Build(projects).Dependencies("Beta"))

	g := BuildWithExtraKeywords(projects, []string{"Handover From"})
	assert.Equal(t, []string{"Alpha"}, g.Dependencies("Beta"))
}
