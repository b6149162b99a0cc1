package state

// EvictStaleBranches removes BranchMetadata entries and dependency edges
// whose child is neither present in localBranches nor a declared root.
// Root entries are never removed by this operation, regardless of
// whether the root name still exists as a local Git branch.
func (s *RepoState) EvictStaleBranches(localBranches map[string]bool) EvictionStats {
	roots := map[string]bool{}
	for _, r := range s.RootBranches {
		roots[r.Branch] = true
	}

	stats := EvictionStats{}

	for branch := range s.Branches {
		if localBranches[branch] || roots[branch] {
			continue
		}
		delete(s.Branches, branch)
		stats.BranchesRemoved++
	}

	kept := s.Dependencies[:0:0]
	for _, dep := range s.Dependencies {
		if !localBranches[dep.Child] && !roots[dep.Child] {
			stats.DependenciesRemoved++
			continue
		}
		kept = append(kept, dep)
	}
	s.Dependencies = kept

	if stats.BranchesRemoved > 0 || stats.DependenciesRemoved > 0 {
		s.rebuildIndices()
	}
	return stats
}
