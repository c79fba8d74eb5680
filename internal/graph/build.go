package graph

import (
	"strings"

	"github.com/windwardhq/windward/internal/models"
)

// Keywords that indicate a cross-project dependency in task comments.
// Deliberately narrower than the per-task dependency detector's list:
// this pass matches against known project names, so it trades recall
// for precision.
var crossProjectKeywords = []string{
	"depends on",
	"dependent on",
	"blocked by",
	"waiting for",
	"waiting on",
	"requires",
	"contingent on",
	"prerequisite",
}

// mentionWindow is how far past a keyword a project name may appear and
// still count as a dependency mention.
const mentionWindow = 80

// Build scans every task's comments for cross-project dependency keywords
// and constructs the directed graph between projects. A keyword followed
// (within ~80 characters) by another known project's name adds an edge
// from the owning project to the mentioned one. Self-references are
// excluded and edges are deduplicated per source project.
func Build(projects []*models.Project) *DependencyGraph {
	return BuildWithExtraKeywords(projects, nil)
}

// BuildWithExtraKeywords is Build with additional dependency keywords,
// typically supplied from configuration. Extras are matched lowercased
// alongside the built-in set.
func BuildWithExtraKeywords(projects []*models.Project, extraKeywords []string) *DependencyGraph {
	keywords := make([]string, 0, len(crossProjectKeywords)+len(extraKeywords))
	keywords = append(keywords, crossProjectKeywords...)
	for _, kw := range extraKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}

	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	g := New(names...)

	// Lowercase lookup for case-insensitive name matching.
	lookup := make(map[string]string, len(names))
	for _, name := range names {
		lookup[strings.ToLower(name)] = name
	}

	for _, project := range projects {
		for _, task := range project.Tasks {
			if task.Comments == "" {
				continue
			}
			for _, dep := range findProjectMentions(task.Comments, lookup, project.Name, keywords) {
				g.AddDependency(project.Name, dep)
			}
		}
	}
	return g
}

// findProjectMentions returns the other project names mentioned after
// dependency keywords in the comment text, sorted and deduplicated.
func findProjectMentions(comments string, lookup map[string]string, currentProject string, keywords []string) []string {
	mentioned := make(map[string]struct{})
	lower := strings.ToLower(comments)

	for _, keyword := range keywords {
		pos := 0
		for {
			idx := strings.Index(lower[pos:], keyword)
			if idx == -1 {
				break
			}
			idx += pos

			after := lower[idx+len(keyword):]
			after = strings.TrimLeft(after, ":- \t")

			for nameLower, nameOriginal := range lookup {
				if nameOriginal == currentProject {
					continue
				}
				namePos := strings.Index(after, nameLower)
				if namePos != -1 && namePos < mentionWindow {
					mentioned[nameOriginal] = struct{}{}
				}
			}

			pos = idx + len(keyword)
		}
	}
	return sortedKeys(mentioned)
}
