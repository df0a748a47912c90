package analysis

import (
	"log/slog"
	"slices"
)

type (
	// ImportGraph maps every discovered file to the set of files it imports or includes as a part.
	// Targets may point outside of discovered files, such edges are ignored during traversal.
	ImportGraph map[string]map[string]struct{}

	// Reachability is a partition of discovered files into visited and unused ones.
	Reachability struct {
		Entries []string // entry points found among discovered files
		Missing []string // configured entry points which were not discovered
		Visited []string
		Unused  []string
	}
)

// BuildGraph resolves every file and returns the graph together with files which failed to resolve.
// Failed files are still part of the graph, just without any outgoing edges.
func BuildGraph(files []string, resolver *Resolver, logger *slog.Logger) (ImportGraph, []FileImports) {
	if logger == nil {
		logger = slog.Default()
	}
	graph := make(ImportGraph, len(files))
	failures := make([]FileImports, 0)
	for _, f := range files {
		fi := resolver.ResolveFile(f)
		if fi.Err != nil {
			logger.Warn("Error reading file", "file", fi.Path, "error", fi.Err)
			failures = append(failures, fi)
		}
		graph[fi.Path] = fi.Imports
		logger.Debug("Resolved file", "file", fi.Path, "imports", len(fi.Imports))
	}
	return graph, failures
}

// Traverse runs breadth-first search from entryPoints over graph, restricted to files within universe.
func Traverse(universe []string, graph ImportGraph, entryPoints []string) Reachability {
	known := make(map[string]struct{}, len(universe))
	for _, f := range universe {
		known[f] = struct{}{}
	}

	res := Reachability{
		Entries: make([]string, 0, len(entryPoints)),
		Missing: make([]string, 0),
	}
	visited := make(map[string]struct{}, len(universe))
	queue := make([]string, 0, len(universe))

	for _, ep := range entryPoints {
		if _, ok := known[ep]; !ok {
			if !slices.Contains(res.Missing, ep) {
				res.Missing = append(res.Missing, ep)
			}
			continue
		}
		if _, seen := visited[ep]; seen {
			continue
		}
		// Mark on enqueue, so nothing gets queued twice.
		visited[ep] = struct{}{}
		queue = append(queue, ep)
		res.Entries = append(res.Entries, ep)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for target := range graph[current] {
			if _, ok := known[target]; !ok {
				continue
			}
			if _, seen := visited[target]; seen {
				continue
			}
			visited[target] = struct{}{}
			queue = append(queue, target)
		}
	}

	res.Visited = sortedKeys(visited)
	res.Unused = make([]string, 0, len(universe)-len(visited))
	for f := range known {
		if _, ok := visited[f]; !ok {
			res.Unused = append(res.Unused, f)
		}
	}
	slices.Sort(res.Unused)
	return res
}

// NoEntryPoints reports whether traversal had no root to start from, so every file is unused.
func (r Reachability) NoEntryPoints() bool {
	return len(r.Entries) == 0
}
