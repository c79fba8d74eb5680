// Package ingest loads PMO project exports (CSV, JSON, XLSX) into the
// portfolio model. Column names are matched against a table of known
// aliases so Jira, Azure DevOps, Smartsheet and generic exports all load
// without preprocessing.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/windwardhq/windward/internal/models"
	"github.com/windwardhq/windward/pkg/logger"
	"github.com/windwardhq/windward/pkg/pathutil"
)

// Sentinel errors for callers to branch on with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoProjects        = errors.New("no projects found")
	ErrNegativeAmount    = errors.New("negative budget or spend")
)

// Result is the output of loading one or more export files: the parsed
// portfolio plus non-fatal warnings (skipped files, dropped duplicates).
type Result struct {
	Projects []*models.Project
	Warnings []string
}

// ParseFile parses a single export file, dispatching on its extension.
// Projects come back sorted by name.
func ParseFile(path string) ([]*models.Project, error) {
	validPath, err := pathutil.ValidateDataPath(path, "")
	if err != nil {
		return nil, fmt.Errorf("invalid export path: %w", err)
	}
	path = validPath

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSV(path)
	case ".json":
		return parseJSON(path)
	case ".xlsx":
		return parseXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %q (supported: .csv, .json, .xlsx)",
			ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadPortfolio scans a directory for export files, parses each and merges
// the results. Duplicate project names keep the instance with more tasks.
// Files that fail to parse are skipped with a warning; an empty final
// portfolio returns ErrNoProjects.
func LoadPortfolio(dir string) (*Result, error) {
	log := logger.GetGlobalLogger().With("component", "ingest")

	validDir, err := pathutil.ValidatePath(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid portfolio directory: %w", err)
	}
	dir = validDir

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading portfolio directory: %w", err)
	}

	result := &Result{}
	byName := make(map[string]*models.Project)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".csv" && ext != ".json" && ext != ".xlsx" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		projects, err := ParseFile(path)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped %s: %v", entry.Name(), err))
			log.Warn("skipping unparseable export", "file", entry.Name(), "error", err)
			continue
		}
		log.Debug("parsed export file", "file", entry.Name(), "projects", len(projects))

		for _, p := range projects {
			existing, ok := byName[p.Name]
			if !ok {
				byName[p.Name] = p
				continue
			}
			// Keep whichever copy knows more.
			if p.TaskCount() > existing.TaskCount() {
				byName[p.Name] = p
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"Duplicate project %q: kept the copy from %s with %d tasks (dropped one with %d).",
					p.Name, entry.Name(), p.TaskCount(), existing.TaskCount()))
			} else {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"Duplicate project %q in %s dropped: existing copy has %d tasks (duplicate had %d).",
					p.Name, entry.Name(), existing.TaskCount(), p.TaskCount()))
			}
		}
	}

	if len(byName) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoProjects, dir)
	}

	for _, p := range byName {
		result.Projects = append(result.Projects, p)
	}
	sort.Slice(result.Projects, func(i, j int) bool {
		return result.Projects[i].Name < result.Projects[j].Name
	})

	log.Info("portfolio loaded",
		"projects", len(result.Projects), "warnings", len(result.Warnings))
	return result, nil
}
