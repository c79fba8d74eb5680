package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windwardhq/windward/internal/models"
)

func TestCarryoverAtThreshold(t *testing.T) {
	p := projectWithTasks("Beta", models.Task{
		Name:            "Refactor auth",
		Status:          "In Progress",
		Priority:        "Medium",
		Assignee:        "Sam",
		Sprint:          "Sprint 12",
		PreviousSprints: []string{"Sprint 9", "Sprint 10", "Sprint 11"},
	})

	risks := NewCarryoverDetector(0).Detect(p)
	require.Len(t, risks, 1)

	r := risks[0]
	assert.Equal(t, models.CategoryChronicCarryover, r.Category)
	assert.Equal(t, models.SeverityMedium, r.Severity)
	assert.Equal(t, "'Refactor auth' stuck — carried over 3 sprints", r.Title)
	assert.Contains(t, r.Explanation, "Sprint 9 → Sprint 10 → Sprint 11 → Sprint 12")
	assert.Contains(t, r.Explanation, "Sam")
}

func TestCarryoverBelowThresholdIgnored(t *testing.T) {
	p := projectWithTasks("Beta", models.Task{
		Name:            "Small fix",
		Status:          "To Do",
		Priority:        "High",
		PreviousSprints: []string{"Sprint 10", "Sprint 11"},
	})
	assert.Empty(t, NewCarryoverDetector(0).Detect(p))
}

func TestCarryoverExcessiveElevates(t *testing.T) {
	p := projectWithTasks("Beta", models.Task{
		Name:            "Zombie task",
		Status:          "To Do",
		Priority:        "Medium",
		PreviousSprints: []string{"S1", "S2", "S3", "S4", "S5"},
	})

	risks := NewCarryoverDetector(0).Detect(p)
	require.Len(t, risks, 1)
	assert.Equal(t, models.SeverityHigh, risks[0].Severity)
	assert.Contains(t, risks[0].SuggestedMitigation, "carried over excessively")
}

func TestCarryoverCompletedTasksSkipped(t *testing.T) {
	for _, status := range []string{"Done", "complete", "COMPLETED", "Closed", "resolved"} {
		p := projectWithTasks("Beta", models.Task{
			Name:            "Finally done",
			Status:          status,
			Priority:        "Critical",
			PreviousSprints: []string{"S1", "S2", "S3", "S4"},
		})
		assert.Empty(t, NewCarryoverDetector(0).Detect(p), "status %q", status)
	}
}

func TestCarryoverCustomThreshold(t *testing.T) {
	task := models.Task{
		Name:            "Sticky",
		Status:          "To Do",
		Priority:        "Low",
		PreviousSprints: []string{"S1", "S2"},
	}

	assert.Empty(t, NewCarryoverDetector(3).Detect(projectWithTasks("Beta", task)))
	assert.Len(t, NewCarryoverDetector(2).Detect(projectWithTasks("Beta", task)), 1)
}

func TestCarryoverHighPriorityMitigationMentionsMilestones(t *testing.T) {
	p := projectWithTasks("Beta", models.Task{
		Name:            "Key deliverable",
		Status:          "In Progress",
		Priority:        "High",
		PreviousSprints: []string{"S1", "S2", "S3"},
	})

	risks := NewCarryoverDetector(0).Detect(p)
	require.Len(t, risks, 1)
	assert.Contains(t, risks[0].SuggestedMitigation, "may impact project milestones")
}

func TestCarryoverUnassignedSaysNobody(t *testing.T) {
	p := projectWithTasks("Beta", models.Task{
		Name:            "Ownerless",
		Status:          "To Do",
		Priority:        "Medium",
		PreviousSprints: []string{"S1", "S2", "S3"},
	})

	risks := NewCarryoverDetector(0).Detect(p)
	require.Len(t, risks, 1)
	assert.Contains(t, risks[0].Explanation, "Assigned to nobody")
}
