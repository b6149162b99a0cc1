package state

import (
	"time"

	"github.com/google/uuid"
)

// BranchDependency is a directed child->parent edge declaring that child
// is based on parent.
type BranchDependency struct {
	ID        uuid.UUID `json:"id"`
	Child     string    `json:"child"`
	Parent    string    `json:"parent"`
	CreatedAt time.Time `json:"created_at"`
}

// RootBranch is a branch explicitly designated as a tree root.
type RootBranch struct {
	ID        uuid.UUID `json:"id"`
	Branch    string    `json:"branch"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// BranchMetadata records external-system associations for a branch.
type BranchMetadata struct {
	Branch    string    `json:"branch"`
	JiraIssue *string   `json:"jira_issue,omitempty"`
	GithubPR  *int      `json:"github_pr,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Worktree records an auxiliary working copy.
type Worktree struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Branch    string    `json:"branch"`
	CreatedAt time.Time `json:"created_at"`
}

// EvictionStats summarizes what evict_stale_branches removed.
type EvictionStats struct {
	BranchesRemoved     int
	DependenciesRemoved int
}

// RepoState is the persisted root aggregate for a single repository, plus
// non-persisted secondary indices rebuilt on load and after every mutation.
type RepoState struct {
	Version      int                       `json:"version"`
	UpdatedAt    time.Time                 `json:"updated_at"`
	Worktrees    []Worktree                `json:"worktrees"`
	Branches     map[string]BranchMetadata `json:"branches"`
	Dependencies []BranchDependency        `json:"dependencies"`
	RootBranches []RootBranch              `json:"root_branches"`

	branchToJira       map[string]string
	jiraToBranch       map[string]string
	prToBranch         map[int]string
	dependencyChildren map[string][]string // parent -> children
	dependencyParents  map[string][]string // child -> parents
}

// repoStateForSave is the borrow-only view serialized to disk; it excludes
// the unexported indices by construction (they're never exported fields).
type repoStateForSave struct {
	Version      int                       `json:"version"`
	UpdatedAt    time.Time                 `json:"updated_at"`
	Worktrees    []Worktree                `json:"worktrees"`
	Branches     map[string]BranchMetadata `json:"branches"`
	Dependencies []BranchDependency        `json:"dependencies"`
	RootBranches []RootBranch              `json:"root_branches"`
}

func newDefaultState() *RepoState {
	s := &RepoState{
		Version:      1,
		UpdatedAt:    time.Now().UTC(),
		Worktrees:    []Worktree{},
		Branches:     map[string]BranchMetadata{},
		Dependencies: []BranchDependency{},
		RootBranches: []RootBranch{},
	}
	s.rebuildIndices()
	return s
}
