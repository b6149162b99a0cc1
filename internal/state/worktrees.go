package state

import "time"

// AddWorktree upserts a worktree entry by name.
func (s *RepoState) AddWorktree(name, path, branch string) {
	for i, w := range s.Worktrees {
		if w.Name == name {
			s.Worktrees[i].Path = path
			s.Worktrees[i].Branch = branch
			return
		}
	}
	s.Worktrees = append(s.Worktrees, Worktree{
		Name:      name,
		Path:      path,
		Branch:    branch,
		CreatedAt: time.Now().UTC(),
	})
}

// GetWorktree returns the worktree registered under name, if any.
func (s *RepoState) GetWorktree(name string) (Worktree, bool) {
	for _, w := range s.Worktrees {
		if w.Name == name {
			return w, true
		}
	}
	return Worktree{}, false
}

// RemoveWorktree removes the named worktree, returning whether one was removed.
func (s *RepoState) RemoveWorktree(name string) bool {
	for i, w := range s.Worktrees {
		if w.Name == name {
			s.Worktrees = append(s.Worktrees[:i], s.Worktrees[i+1:]...)
			return true
		}
	}
	return false
}

// ListWorktrees returns all recorded worktrees.
func (s *RepoState) ListWorktrees() []Worktree {
	return append([]Worktree(nil), s.Worktrees...)
}
