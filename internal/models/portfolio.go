// Package models contains the in-memory data model for Windward portfolio
// analysis: projects and tasks as parsed from tracker exports, risk findings
// produced by the detectors, and scenario actions/results produced by the
// simulator. Every result type serializes to plain nested JSON so it can
// cross a process or format boundary unchanged.
package models

import "time"

// Task is one unit of work inside a project. Tasks are immutable once
// parsed; the simulator works on derived snapshots, never the originals.
type Task struct {
	Name            string   `json:"name"`
	Status          string   `json:"status"`
	Priority        string   `json:"priority"`
	Assignee        string   `json:"assignee,omitempty"`
	Sprint          string   `json:"sprint,omitempty"`
	PreviousSprints []string `json:"previous_sprints,omitempty"`
	Comments        string   `json:"comments,omitempty"`
}

// Project is a single project with its metadata and owned tasks. Name is
// the unique key within a portfolio and is used for all cross-references.
// A project with no dates or zero budget is valid; detectors degrade
// gracefully instead of failing.
type Project struct {
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Budget      float64    `json:"budget"`
	ActualSpend float64    `json:"actual_spend"`
	Tasks       []Task     `json:"tasks"`
}

// TaskCount returns the number of tasks owned by the project.
func (p *Project) TaskCount() int {
	return len(p.Tasks)
}
