package tidy

import (
	"sort"

	"github.com/eddieland/twig/internal/state"
)

// PrunePlan is the deduplicated set of branch names referenced by state
// but no longer present as a local Git branch.
type PrunePlan struct {
	Branches []string
}

// ComputePrunePlan collects every branch name referenced by the
// dependency list (both endpoints), the root list, and the metadata map
// that is absent from localBranches, deduplicated and sorted.
func ComputePrunePlan(s *state.RepoState, localBranches map[string]bool) PrunePlan {
	seen := map[string]bool{}
	add := func(name string) {
		if !localBranches[name] {
			seen[name] = true
		}
	}

	for _, dep := range s.Dependencies {
		add(dep.Child)
		add(dep.Parent)
	}
	for _, r := range s.ListRoots() {
		add(r.Branch)
	}
	for _, m := range s.ListBranchIssues() {
		add(m.Branch)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return PrunePlan{Branches: names}
}

// ApplyPrune removes every dangling reference named in plan from the
// dependency list, root list, and metadata map.
func ApplyPrune(s *state.RepoState, plan PrunePlan) {
	for _, name := range plan.Branches {
		s.RemoveAllDependenciesForBranch(name)
		s.RemoveRoot(name)
		s.RemoveBranchMetadata(name)
	}
}
