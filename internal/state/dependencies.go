package state

import (
	"time"

	"github.com/google/uuid"

	twigerrors "github.com/eddieland/twig/internal/errors"
)

// AddDependency appends a child->parent edge. Rejects an exact duplicate
// and rejects any edge that would create a cycle.
func (s *RepoState) AddDependency(child, parent string) error {
	for _, dep := range s.Dependencies {
		if dep.Child == child && dep.Parent == parent {
			return twigerrors.Wrap(twigerrors.KindBranchOperation, twigerrors.ErrDuplicateEdge)
		}
	}

	if s.hasDependencyPath(parent, child) {
		return twigerrors.Wrap(twigerrors.KindBranchOperation, twigerrors.ErrCycleWouldForm)
	}

	s.Dependencies = append(s.Dependencies, BranchDependency{
		ID:        uuid.New(),
		Child:     child,
		Parent:    parent,
		CreatedAt: time.Now().UTC(),
	})
	s.rebuildIndices()
	return nil
}

// hasDependencyPath reports whether there is already a dependency path
// from start up through existing parents that reaches target — i.e.
// whether target is already a (possibly transitive) parent of start.
// Adding the edge (target, start) would then close a cycle.
func (s *RepoState) hasDependencyPath(start, target string) bool {
	if start == target {
		return true
	}

	visited := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for _, p := range s.dependencyParents[node] {
			if p == target {
				return true
			}
			if !visited[p] {
				visited[p] = true
				queue = append(queue, p)
			}
		}
	}
	return false
}

// RemoveDependency removes the given edge, returning whether one was
// removed.
func (s *RepoState) RemoveDependency(child, parent string) bool {
	for i, dep := range s.Dependencies {
		if dep.Child == child && dep.Parent == parent {
			s.Dependencies = append(s.Dependencies[:i], s.Dependencies[i+1:]...)
			s.rebuildIndices()
			return true
		}
	}
	return false
}

// RemoveChildDependencies removes all edges whose child equals the given
// name, returning the removed parents.
func (s *RepoState) RemoveChildDependencies(child string) []string {
	var removedParents []string
	kept := s.Dependencies[:0:0]
	for _, dep := range s.Dependencies {
		if dep.Child == child {
			removedParents = append(removedParents, dep.Parent)
			continue
		}
		kept = append(kept, dep)
	}
	s.Dependencies = kept
	s.rebuildIndices()
	return removedParents
}

// RemoveAllDependenciesForBranch removes edges where branch is either
// endpoint, returning the count removed.
func (s *RepoState) RemoveAllDependenciesForBranch(branch string) int {
	count := 0
	kept := s.Dependencies[:0:0]
	for _, dep := range s.Dependencies {
		if dep.Child == branch || dep.Parent == branch {
			count++
			continue
		}
		kept = append(kept, dep)
	}
	s.Dependencies = kept
	if count > 0 {
		s.rebuildIndices()
	}
	return count
}

// GetDependencyChildren returns the declared children of parent.
func (s *RepoState) GetDependencyChildren(parent string) []string {
	return append([]string(nil), s.dependencyChildren[parent]...)
}

// GetDependencyParents returns the declared parents of child.
func (s *RepoState) GetDependencyParents(child string) []string {
	return append([]string(nil), s.dependencyParents[child]...)
}

// HasUserDefinedDependencies reports whether any edges have been declared.
func (s *RepoState) HasUserDefinedDependencies() bool {
	return len(s.Dependencies) > 0
}

// FindDependencyTreeRoot walks up via the child->parents index, taking
// the first parent whenever a branch has multiple. Stops on the first
// branch with no parents, or on revisiting a branch already seen — this
// terminates even over a corrupted, cyclic on-disk state.
func (s *RepoState) FindDependencyTreeRoot(branch string) string {
	visited := map[string]bool{}
	current := branch

	for {
		if visited[current] {
			return current
		}
		visited[current] = true

		parents := s.dependencyParents[current]
		if len(parents) == 0 {
			return current
		}
		current = parents[0]
	}
}
