// Package cascade rebases a branch and all its transitive descendants in a
// single safe pass: a breadth-first target set, a topological execution
// order, and a per-branch rebase against every declared parent.
package cascade

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eddieland/twig/internal/depgraph"
	"github.com/eddieland/twig/internal/rebase"
)

// StepOutcome is the rebase result for one branch against one parent.
type StepOutcome struct {
	Branch string
	Parent string
	Result rebase.Result
}

// Report summarizes a cascade run.
type Report struct {
	Order    []string
	Steps    []StepOutcome
	Skipped  []string // branches named in the BFS but missing from the graph
	Conflict bool
}

// Plan computes the BFS target set starting at branch (inclusive), in BFS
// order, honoring an optional maxDepth (0 = no limit). It does not
// topologically sort the targets; TopoSort does that.
func Plan(g *depgraph.Graph, branch string, maxDepth int) (targets []string, skipped []string) {
	type queued struct {
		name  string
		depth int
	}

	visited := map[string]bool{branch: true}
	queue := []queued{{branch, 0}}
	var order []string

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		node, ok := g.Nodes[cur.name]
		if !ok {
			skipped = append(skipped, cur.name)
			continue
		}
		order = append(order, cur.name)

		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}
		for _, child := range node.Children {
			if visited[child] {
				continue
			}
			visited[child] = true
			queue = append(queue, queued{child, cur.depth + 1})
		}
	}

	return order, skipped
}

// TopoSort orders targets so that a branch is visited only after every one
// of its parents within the target set has been visited. Ties are broken
// by the order targets were supplied in (insertion order). Cycles are
// tolerated defensively: once a node enters the "visiting" set, a
// recursive re-entry returns without pushing it again.
func TopoSort(g *depgraph.Graph, targets []string) []string {
	inSet := map[string]bool{}
	for _, t := range targets {
		inSet[t] = true
	}

	visited := map[string]bool{}
	visiting := map[string]bool{}
	var order []string

	var visit func(name string)
	visit = func(name string) {
		if visited[name] || visiting[name] {
			return
		}
		visiting[name] = true

		if node, ok := g.Nodes[name]; ok {
			for _, parent := range node.Parents {
				if inSet[parent] {
					visit(parent)
				}
			}
		}

		visiting[name] = false
		visited[name] = true
		order = append(order, name)
	}

	for _, t := range targets {
		visit(t)
	}
	return order
}

// Run executes the cascade: checkout each target branch in topological
// order and rebase it against every one of its declared parents. Execution
// stops at the first conflict, leaving the repository in the conflict
// state for the operator to resolve.
func Run(ctx context.Context, g *depgraph.Graph, checkout func(branch string) error, branch string, maxDepth int, engine *rebase.Engine, forcePush func(branch string) error) (*Report, error) {
	targets, skipped := Plan(g, branch, maxDepth)
	order := TopoSort(g, targets)

	report := &Report{Order: order, Skipped: skipped}

	for _, name := range order {
		node, ok := g.Nodes[name]
		if !ok {
			continue
		}
		if err := checkout(name); err != nil {
			return report, fmt.Errorf("failed to checkout %s: %w", name, err)
		}
		slog.Debug("cascade: visiting branch", "branch", name, "parents", node.Parents)

		for _, parent := range node.Parents {
			result, err := engine.RebaseOnto(ctx, parent)
			if err != nil {
				return report, fmt.Errorf("rebase of %s onto %s failed: %w", name, parent, err)
			}
			report.Steps = append(report.Steps, StepOutcome{Branch: name, Parent: parent, Result: result})
			if result.Outcome == rebase.Conflict {
				report.Conflict = true
				return report, nil
			}
		}

		if forcePush != nil {
			if err := forcePush(name); err != nil {
				return report, fmt.Errorf("force-push of %s failed: %w", name, err)
			}
		}
	}

	return report, nil
}
