package state

import "time"

// AddBranchIssue records a Jira key and/or GitHub PR number against a
// branch, upserting its BranchMetadata entry. Because Jira keys and PR
// numbers are each unique across the map, setting either value clears it
// from whatever branch previously held it.
func (s *RepoState) AddBranchIssue(branch string, jiraIssue *string, githubPR *int) {
	if jiraIssue != nil {
		for b, meta := range s.Branches {
			if b != branch && meta.JiraIssue != nil && *meta.JiraIssue == *jiraIssue {
				meta.JiraIssue = nil
				s.Branches[b] = meta
			}
		}
	}
	if githubPR != nil {
		for b, meta := range s.Branches {
			if b != branch && meta.GithubPR != nil && *meta.GithubPR == *githubPR {
				meta.GithubPR = nil
				s.Branches[b] = meta
			}
		}
	}

	existing, ok := s.Branches[branch]
	if !ok {
		existing = BranchMetadata{Branch: branch, CreatedAt: time.Now().UTC()}
	}
	if jiraIssue != nil {
		existing.JiraIssue = jiraIssue
	}
	if githubPR != nil {
		existing.GithubPR = githubPR
	}
	s.Branches[branch] = existing
	s.rebuildIndices()
}

// GetBranchMetadata returns the metadata recorded for branch, if any.
func (s *RepoState) GetBranchMetadata(branch string) (BranchMetadata, bool) {
	m, ok := s.Branches[branch]
	return m, ok
}

// GetBranchIssueByJira resolves a branch name from a canonical Jira key.
func (s *RepoState) GetBranchIssueByJira(jiraKey string) (string, bool) {
	branch, ok := s.jiraToBranch[jiraKey]
	return branch, ok
}

// GetBranchIssueByPR resolves a branch name from a GitHub PR number.
func (s *RepoState) GetBranchIssueByPR(pr int) (string, bool) {
	branch, ok := s.prToBranch[pr]
	return branch, ok
}

// RemoveBranchMetadata deletes branch's metadata entry, if any.
func (s *RepoState) RemoveBranchMetadata(branch string) bool {
	if _, ok := s.Branches[branch]; !ok {
		return false
	}
	delete(s.Branches, branch)
	s.rebuildIndices()
	return true
}

// ListBranchIssues returns every recorded BranchMetadata entry.
func (s *RepoState) ListBranchIssues() []BranchMetadata {
	out := make([]BranchMetadata, 0, len(s.Branches))
	for _, m := range s.Branches {
		out = append(out, m)
	}
	return out
}
