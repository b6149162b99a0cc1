package state

import (
	"time"

	"github.com/google/uuid"

	twigerrors "github.com/eddieland/twig/internal/errors"
)

// AddRoot upserts a root branch by name. If default is true, clears the
// default flag on every other root first, so at most one root ever has
// IsDefault set.
func (s *RepoState) AddRoot(branch string, isDefault bool) {
	if isDefault {
		for i := range s.RootBranches {
			s.RootBranches[i].IsDefault = false
		}
	}

	for i, r := range s.RootBranches {
		if r.Branch == branch {
			s.RootBranches[i].IsDefault = s.RootBranches[i].IsDefault || isDefault
			if isDefault {
				s.RootBranches[i].IsDefault = true
			}
			s.rebuildIndices()
			return
		}
	}

	s.RootBranches = append(s.RootBranches, RootBranch{
		ID:        uuid.New(),
		Branch:    branch,
		IsDefault: isDefault,
		CreatedAt: time.Now().UTC(),
	})
	s.rebuildIndices()
}

// RemoveRoot removes the named root, returning whether one was removed.
func (s *RepoState) RemoveRoot(branch string) bool {
	for i, r := range s.RootBranches {
		if r.Branch == branch {
			s.RootBranches = append(s.RootBranches[:i], s.RootBranches[i+1:]...)
			s.rebuildIndices()
			return true
		}
	}
	return false
}

// SetDefaultRoot marks branch as the sole default root. Errors if branch
// is not already a declared root.
func (s *RepoState) SetDefaultRoot(branch string) error {
	found := false
	for _, r := range s.RootBranches {
		if r.Branch == branch {
			found = true
			break
		}
	}
	if !found {
		return twigerrors.Wrap(twigerrors.KindBranchOperation, twigerrors.ErrMissingDefaultRoot)
	}

	for i := range s.RootBranches {
		s.RootBranches[i].IsDefault = s.RootBranches[i].Branch == branch
	}
	return nil
}

// GetDefaultRoot returns the branch name of the current default root, if any.
func (s *RepoState) GetDefaultRoot() (string, bool) {
	for _, r := range s.RootBranches {
		if r.IsDefault {
			return r.Branch, true
		}
	}
	return "", false
}

// ListRoots returns the declared root branches.
func (s *RepoState) ListRoots() []RootBranch {
	return append([]RootBranch(nil), s.RootBranches...)
}

// IsRoot reports whether branch is a declared root.
func (s *RepoState) IsRoot(branch string) bool {
	for _, r := range s.RootBranches {
		if r.Branch == branch {
			return true
		}
	}
	return false
}

// GetRootBranches returns just the branch names of every declared root.
func (s *RepoState) GetRootBranches() []string {
	names := make([]string, 0, len(s.RootBranches))
	for _, r := range s.RootBranches {
		names = append(names, r.Branch)
	}
	return names
}
