package git

import (
	"fmt"
	"sync"
)

var (
	defaultRepo   *Repository
	defaultRepoMu sync.RWMutex
)

// InitDefaultRepo opens the repository containing the current directory
// and installs it as the package's default repository. Safe to call more
// than once; subsequent calls are no-ops until ResetDefaultRepo.
func InitDefaultRepo() error {
	root, err := GetRepoRoot()
	if err != nil {
		return err
	}
	return InitDefaultRepoInDir(root)
}

// InitDefaultRepoInDir opens the repository at dir and installs it as the
// default, also pointing the default command runner at dir. Tests that
// build throwaway repositories in temp directories use this instead of
// changing the process working directory.
func InitDefaultRepoInDir(dir string) error {
	defaultRepoMu.Lock()
	defer defaultRepoMu.Unlock()

	if defaultRepo != nil {
		return nil
	}

	repo, err := OpenRepository(dir)
	if err != nil {
		return err
	}

	defaultRepo = repo
	SetWorkingDir(repo.GetRepoRoot())
	return nil
}

// ResetDefaultRepo clears the default repository so the next Init picks
// up a fresh one. Tests call this between scenes.
func ResetDefaultRepo() {
	defaultRepoMu.Lock()
	defer defaultRepoMu.Unlock()
	defaultRepo = nil
	SetWorkingDir("")
}

// GetDefaultRepo returns the default repository installed by one of the
// Init functions.
func GetDefaultRepo() (*Repository, error) {
	defaultRepoMu.RLock()
	defer defaultRepoMu.RUnlock()
	if defaultRepo == nil {
		return nil, fmt.Errorf("repository not initialized, call InitDefaultRepo first")
	}
	return defaultRepo, nil
}

// GetAllBranchNames returns every local branch name in the repository.
func GetAllBranchNames() ([]string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return nil, err
	}
	return repo.GetBranchNames()
}

// GetCurrentBranch returns the branch HEAD points at, or an error when
// HEAD is detached.
func GetCurrentBranch() (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}
	return repo.GetCurrentBranch()
}
