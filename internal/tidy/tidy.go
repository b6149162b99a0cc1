// Package tidy retires branches that no longer add value and reconciles
// the dependency state with what Git actually has on disk.
package tidy

import (
	"context"
	"log/slog"
	"sort"

	"github.com/eddieland/twig/internal/depgraph"
	"github.com/eddieland/twig/internal/state"
)

// FallbackParents is the hard-coded set of branch names clean may treat as
// an implicit parent when a branch has no declared dependency edge and
// aggressive mode is on.
var FallbackParents = []string{"main", "master", "develop"}

// UniqueCommitsChecker reports whether branch has commits not reachable
// from parent (the boolean `rev-walk(branch ^parent)` is non-empty).
type UniqueCommitsChecker func(ctx context.Context, branch, parent string) (bool, error)

// ReparentOp rewrites the edge (Child, OldParent) to (Child, NewParent)
// and deletes OldParent, an intermediate branch with exactly one child
// and no commits of its own beyond its parent.
type ReparentOp struct {
	Child     string
	OldParent string
	NewParent string
}

// Plan is the full set of operations a clean run would perform.
type Plan struct {
	Reparenting []ReparentOp
	Chains      [][]string // each chain is an ordered list of branches queued for deletion as a unit
}

// Engine computes and executes clean/prune plans.
type Engine struct {
	Graph         *depgraph.Graph
	State         *state.RepoState
	CurrentBranch string
	Aggressive    bool
	HasUnique     UniqueCommitsChecker
}

// New constructs an Engine.
func New(g *depgraph.Graph, s *state.RepoState, currentBranch string, aggressive bool, hasUnique UniqueCommitsChecker) *Engine {
	return &Engine{Graph: g, State: s, CurrentBranch: currentBranch, Aggressive: aggressive, HasUnique: hasUnique}
}

// ComputePlan runs both phases of clean and returns the resulting plan.
func (e *Engine) ComputePlan(ctx context.Context) (*Plan, error) {
	plan := &Plan{}

	if e.Aggressive {
		ops, err := e.computeReparenting(ctx)
		if err != nil {
			return nil, err
		}
		plan.Reparenting = ops
	}

	chains, err := e.computeCleanableChains(ctx)
	if err != nil {
		return nil, err
	}
	plan.Chains = chains

	return plan, nil
}

// computeReparenting finds every intermediate branch I with exactly one
// child C and no unique commits relative to its own parent G, and plans
// to rewrite (C, I) to (C, G) and delete I.
func (e *Engine) computeReparenting(ctx context.Context) ([]ReparentOp, error) {
	var ops []ReparentOp

	names := sortedNodeNames(e.Graph)
	for _, name := range names {
		node := e.Graph.Nodes[name]
		if name == e.CurrentBranch {
			continue
		}
		if len(node.Children) != 1 {
			continue
		}
		if len(node.Parents) == 0 {
			continue
		}

		grandparent := node.Parents[0]
		unique, err := e.HasUnique(ctx, name, grandparent)
		if err != nil {
			return nil, err
		}
		if unique {
			continue
		}

		slog.Debug("tidy: reparenting candidate", "intermediate", name, "new_parent", grandparent, "child", node.Children[0])
		ops = append(ops, ReparentOp{
			Child:     node.Children[0],
			OldParent: name,
			NewParent: grandparent,
		})
	}

	return ops, nil
}

// computeCleanableChains computes every directly cleanable branch, then
// collapses runs of single-child cleanable descendants into chains queued
// for deletion as a unit.
func (e *Engine) computeCleanableChains(ctx context.Context) ([][]string, error) {
	memo := map[string]bool{}
	var computeErr error

	var isCleanable func(name string, visiting map[string]bool) bool
	isCleanable = func(name string, visiting map[string]bool) bool {
		if v, ok := memo[name]; ok {
			return v
		}
		if visiting[name] {
			return false
		}
		visiting[name] = true
		defer delete(visiting, name)

		node, ok := e.Graph.Nodes[name]
		if !ok {
			memo[name] = false
			return false
		}
		if name == e.CurrentBranch {
			memo[name] = false
			return false
		}

		for _, child := range node.Children {
			if e.isNonCleanableChild(child, visiting, isCleanable) {
				memo[name] = false
				return false
			}
		}

		parent, ok := e.resolveParent(node)
		if !ok {
			memo[name] = false
			return false
		}

		unique, err := e.HasUnique(ctx, name, parent)
		if err != nil {
			computeErr = err
			memo[name] = false
			return false
		}
		result := !unique
		memo[name] = result
		return result
	}

	names := sortedNodeNames(e.Graph)
	cleanable := map[string]bool{}
	for _, name := range names {
		cleanable[name] = isCleanable(name, map[string]bool{})
	}
	if computeErr != nil {
		return nil, computeErr
	}

	var chains [][]string
	started := map[string]bool{}
	for _, name := range names {
		if !cleanable[name] || started[name] {
			continue
		}
		if isChainedFromCleanableParent(e.Graph, cleanable, name) {
			continue
		}

		chain := []string{name}
		started[name] = true
		cur := name
		for {
			node := e.Graph.Nodes[cur]
			if len(node.Children) != 1 {
				break
			}
			next := node.Children[0]
			if !cleanable[next] || started[next] {
				break
			}
			chain = append(chain, next)
			started[next] = true
			cur = next
		}
		slog.Debug("tidy: cleanable chain", "chain", chain)
		chains = append(chains, chain)
	}

	return chains, nil
}

// isNonCleanableChild reports whether child disqualifies its parent from
// cleanability: it is the current branch, has unique commits versus its
// parent (recomputed through the same memoized check), or recursively has
// a non-cleanable child of its own.
func (e *Engine) isNonCleanableChild(child string, visiting map[string]bool, isCleanable func(string, map[string]bool) bool) bool {
	if child == e.CurrentBranch {
		return true
	}
	return !isCleanable(child, visiting)
}

// resolveParent returns node's graph parent, or the first matching
// fallback parent when aggressive mode is on and none is declared.
func (e *Engine) resolveParent(node *depgraph.Node) (string, bool) {
	if len(node.Parents) > 0 {
		return node.Parents[0], true
	}
	if !e.Aggressive {
		return "", false
	}
	for _, fallback := range FallbackParents {
		if fallback == node.Name {
			continue
		}
		if _, ok := e.Graph.Nodes[fallback]; ok {
			return fallback, true
		}
	}
	return "", false
}

func isChainedFromCleanableParent(g *depgraph.Graph, cleanable map[string]bool, name string) bool {
	node := g.Nodes[name]
	for _, parent := range node.Parents {
		parentNode, ok := g.Nodes[parent]
		if !ok || !cleanable[parent] {
			continue
		}
		if len(parentNode.Children) == 1 && parentNode.Children[0] == name {
			return true
		}
	}
	return false
}

func sortedNodeNames(g *depgraph.Graph) []string {
	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply executes the plan: reparenting operations first (updating the
// dependency edges), then deleting every branch named in a chain,
// purging it from the dependency list, root list, and metadata map.
// deleteBranch performs the actual Git branch deletion.
func (e *Engine) Apply(plan *Plan, deleteBranch func(name string) error) error {
	for _, op := range plan.Reparenting {
		e.State.RemoveDependency(op.Child, op.OldParent)
		if op.NewParent != "" {
			_ = e.State.AddDependency(op.Child, op.NewParent)
		}
		purgeBranch(e.State, op.OldParent)
		if err := deleteBranch(op.OldParent); err != nil {
			return err
		}
	}

	for _, chain := range plan.Chains {
		for _, name := range chain {
			purgeBranch(e.State, name)
			if err := deleteBranch(name); err != nil {
				return err
			}
		}
	}

	return nil
}

func purgeBranch(s *state.RepoState, name string) {
	s.RemoveAllDependenciesForBranch(name)
	s.RemoveRoot(name)
	s.RemoveBranchMetadata(name)
}
