package state

// rebuildIndices clears and recomputes all five secondary indices in
// linear time over the persisted collections. Called on load and after
// any operation that mutates Worktrees, Branches, Dependencies, or
// RootBranches.
func (s *RepoState) rebuildIndices() {
	s.branchToJira = make(map[string]string)
	s.jiraToBranch = make(map[string]string)
	s.prToBranch = make(map[int]string)
	s.dependencyChildren = make(map[string][]string)
	s.dependencyParents = make(map[string][]string)

	for branch, meta := range s.Branches {
		if meta.JiraIssue != nil {
			s.branchToJira[branch] = *meta.JiraIssue
			s.jiraToBranch[*meta.JiraIssue] = branch
		}
		if meta.GithubPR != nil {
			s.prToBranch[*meta.GithubPR] = branch
		}
	}

	for _, dep := range s.Dependencies {
		s.dependencyChildren[dep.Parent] = appendUnique(s.dependencyChildren[dep.Parent], dep.Child)
		s.dependencyParents[dep.Child] = appendUnique(s.dependencyParents[dep.Child], dep.Parent)
	}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
