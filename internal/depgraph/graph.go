// Package depgraph builds the in-memory branch dependency graph consumed
// by the tree renderer and the rebase/cascade/tidy engines, combining
// user-declared edges, configured roots, and orphan-attachment rules.
package depgraph

import (
	"sort"

	"github.com/eddieland/twig/internal/state"
)

// Node is one branch's position in the dependency graph.
type Node struct {
	Name      string
	IsCurrent bool
	Metadata  state.BranchMetadata
	Parents   []string
	Children  []string
}

// Graph is the full set of nodes for the local repository.
type Graph struct {
	Nodes map[string]*Node
}

// Build constructs the graph: one node per local branch, edges from
// declared dependencies between branches both present locally, and
// orphan attachment to the default root.
func Build(localBranches []string, currentBranch string, s *state.RepoState) *Graph {
	g := &Graph{Nodes: make(map[string]*Node, len(localBranches))}

	for _, name := range localBranches {
		meta, _ := s.GetBranchMetadata(name)
		g.Nodes[name] = &Node{
			Name:      name,
			IsCurrent: name == currentBranch,
			Metadata:  meta,
		}
	}

	for _, dep := range s.Dependencies {
		childNode, childOK := g.Nodes[dep.Child]
		parentNode, parentOK := g.Nodes[dep.Parent]
		if !childOK || !parentOK {
			continue
		}
		childNode.Parents = appendUnique(childNode.Parents, dep.Parent)
		parentNode.Children = appendUnique(parentNode.Children, dep.Child)
	}

	roots := map[string]bool{}
	for _, r := range s.RootBranches {
		roots[r.Branch] = true
	}

	defaultRoot, hasDefault := s.GetDefaultRoot()
	if hasDefault {
		if rootNode, ok := g.Nodes[defaultRoot]; ok {
			for name, node := range g.Nodes {
				if roots[name] || name == defaultRoot {
					continue
				}
				if len(node.Parents) == 0 {
					node.Parents = appendUnique(node.Parents, defaultRoot)
					rootNode.Children = appendUnique(rootNode.Children, name)
				}
			}
		}
	}

	return g
}

// AddEdge links child to parent when both nodes exist, deduplicating.
// Display code uses it to overlay inferred edges when the user has
// declared none.
func (g *Graph) AddEdge(child, parent string) {
	childNode, childOK := g.Nodes[child]
	parentNode, parentOK := g.Nodes[parent]
	if !childOK || !parentOK {
		return
	}
	childNode.Parents = appendUnique(childNode.Parents, parent)
	parentNode.Children = appendUnique(parentNode.Children, child)
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// ExtractTree splits the graph's nodes into (roots, orphans) combining the
// declared root list with the graph's parentless nodes. If any declared
// roots exist as nodes, they are the roots and orphans are the remaining
// parentless nodes; otherwise every parentless node is a root and there
// are no orphans. Both lists are sorted for determinism.
func ExtractTree(g *Graph, declaredRoots []string) (roots []string, orphans []string) {
	declared := map[string]bool{}
	var declaredPresent []string
	for _, r := range declaredRoots {
		if _, ok := g.Nodes[r]; ok {
			declared[r] = true
			declaredPresent = append(declaredPresent, r)
		}
	}

	var parentless []string
	for name, node := range g.Nodes {
		if len(node.Parents) == 0 {
			parentless = append(parentless, name)
		}
	}

	if len(declaredPresent) > 0 {
		roots = declaredPresent
		for _, name := range parentless {
			if !declared[name] {
				orphans = append(orphans, name)
			}
		}
	} else {
		roots = parentless
	}

	sort.Strings(roots)
	sort.Strings(orphans)
	return roots, orphans
}
