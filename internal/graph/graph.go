// Package graph builds and queries the directed dependency graph between
// projects. Edges are adjacency sets keyed by project name rather than
// object references, so the graph stays serializable and free of reference
// cycles even when the projects themselves are circularly dependent.
package graph

import "sort"

// DependencyGraph is a directed graph over project names. An edge A→B
// means "A depends on B". Built once per portfolio snapshot and read-only
// thereafter.
type DependencyGraph struct {
	edges    map[string]map[string]struct{}
	projects map[string]struct{}
}

// New creates an empty graph over the given set of known project names.
func New(projectNames ...string) *DependencyGraph {
	g := &DependencyGraph{
		edges:    make(map[string]map[string]struct{}),
		projects: make(map[string]struct{}, len(projectNames)),
	}
	for _, name := range projectNames {
		g.projects[name] = struct{}{}
	}
	return g
}

// AddDependency records that project depends on dependsOn. Duplicate edges
// collapse into one.
func (g *DependencyGraph) AddDependency(project, dependsOn string) {
	if g.edges[project] == nil {
		g.edges[project] = make(map[string]struct{})
	}
	g.edges[project][dependsOn] = struct{}{}
	g.projects[project] = struct{}{}
	g.projects[dependsOn] = struct{}{}
}

// Projects returns all known project names, sorted.
func (g *DependencyGraph) Projects() []string {
	return sortedKeys(g.projects)
}

// Dependencies returns the direct (one hop) dependencies of a project,
// sorted.
func (g *DependencyGraph) Dependencies(project string) []string {
	return sortedKeys(g.edges[project])
}

// Dependents returns the projects that directly depend on the given
// project (reverse edges, one hop), sorted.
func (g *DependencyGraph) Dependents(project string) []string {
	deps := make(map[string]struct{})
	for proj, targets := range g.edges {
		if _, ok := targets[project]; ok {
			deps[proj] = struct{}{}
		}
	}
	return sortedKeys(deps)
}

// AllDependents returns every project that transitively depends on the
// given project, meaning everything that breaks if it slips. BFS over
// reverse edges; result is sorted.
func (g *DependencyGraph) AllDependents(project string) []string {
	visited := make(map[string]struct{})
	queue := []string{project}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, proj := range g.Dependents(current) {
			if _, seen := visited[proj]; !seen {
				visited[proj] = struct{}{}
				queue = append(queue, proj)
			}
		}
	}
	return sortedKeys(visited)
}

// AllDependencies returns every project the given project transitively
// depends on. BFS over forward edges; result is sorted.
func (g *DependencyGraph) AllDependencies(project string) []string {
	visited := make(map[string]struct{})
	queue := g.Dependencies(project)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}
		for _, dep := range g.Dependencies(current) {
			if _, seen := visited[dep]; !seen {
				queue = append(queue, dep)
			}
		}
	}
	return sortedKeys(visited)
}

// Color states for cycle detection.
type color int

const (
	white color = iota // unvisited
	gray               // on the current DFS stack
	black              // fully explored
)

// DetectCycle runs a three-color DFS over all known projects and returns
// one dependency cycle as an ordered list of project names, with the
// starting node repeated at the end to show closure, or nil when the
// graph is acyclic. Iteration order is sorted so the reported cycle is
// deterministic.
func (g *DependencyGraph) DetectCycle() []string {
	colors := make(map[string]color, len(g.projects))
	onStack := make(map[string]int)
	var stack []string
	var cycle []string

	var dfs func(node string)
	dfs = func(node string) {
		if cycle != nil {
			return
		}
		colors[node] = gray
		onStack[node] = len(stack)
		stack = append(stack, node)

		for _, dep := range g.Dependencies(node) {
			if cycle != nil {
				return
			}
			if _, known := g.projects[dep]; !known {
				continue
			}
			switch colors[dep] {
			case white:
				dfs(dep)
			case gray:
				idx := onStack[dep]
				cycle = append([]string{}, stack[idx:]...)
				cycle = append(cycle, dep)
				return
			case black:
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, node)
		colors[node] = black
	}

	for _, project := range g.Projects() {
		if colors[project] == white {
			dfs(project)
			if cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// ToMap serializes the graph to a plain nested structure for JSON output.
func (g *DependencyGraph) ToMap() map[string]any {
	edges := make(map[string][]string, len(g.edges))
	for project, targets := range g.edges {
		edges[project] = sortedKeys(targets)
	}
	return map[string]any{
		"projects": g.Projects(),
		"edges":    edges,
	}
}

// EdgeCount returns the total number of dependency edges.
func (g *DependencyGraph) EdgeCount() int {
	n := 0
	for _, targets := range g.edges {
		n += len(targets)
	}
	return n
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
