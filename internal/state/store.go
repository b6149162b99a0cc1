package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	twigerrors "github.com/eddieland/twig/internal/errors"
)

const (
	stateDirName  = ".twig"
	stateFileName = "state.json"
	gitignoreBody = "*\n"
)

func stateDir(repoPath string) string {
	return filepath.Join(repoPath, stateDirName)
}

func statePath(repoPath string) string {
	return filepath.Join(stateDir(repoPath), stateFileName)
}

// Load reads <repo>/.twig/state.json. A missing file yields a fresh
// default RepoState at version 1 with empty collections; a present but
// unparseable file fails with a StateCorrupt error.
func Load(repoPath string) (*RepoState, error) {
	path := statePath(repoPath)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return newDefaultState(), nil
	}
	if err != nil {
		return nil, twigerrors.Wrap(twigerrors.KindFileSystem, err)
	}

	var saved repoStateForSave
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, twigerrors.Wrap(twigerrors.KindStateCorrupt, err,
			fmt.Sprintf("delete or repair %s manually", path))
	}

	s := &RepoState{
		Version:      saved.Version,
		UpdatedAt:    saved.UpdatedAt,
		Worktrees:    saved.Worktrees,
		Branches:     saved.Branches,
		Dependencies: saved.Dependencies,
		RootBranches: saved.RootBranches,
	}
	if s.Branches == nil {
		s.Branches = map[string]BranchMetadata{}
	}
	s.rebuildIndices()
	slog.Debug("state: loaded", "path", path, "branches", len(s.Branches), "dependencies", len(s.Dependencies))
	return s, nil
}

// Save ensures .twig/ exists, writes the self-referential .gitignore if
// absent, then serializes state (with UpdatedAt refreshed to now)
// pretty-printed as JSON.
//
// This is a plain create+write, not a write-temp-rename. A power loss
// mid-save can leave a truncated file, which the next Load reports as
// corrupt rather than silently repairing.
func Save(repoPath string, s *RepoState) error {
	dir := stateDir(repoPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return twigerrors.Wrap(twigerrors.KindFileSystem, err)
	}

	gitignorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitignorePath); os.IsNotExist(err) {
		if err := os.WriteFile(gitignorePath, []byte(gitignoreBody), 0644); err != nil {
			return twigerrors.Wrap(twigerrors.KindFileSystem, err)
		}
	}

	s.UpdatedAt = time.Now().UTC()

	toSave := repoStateForSave{
		Version:      s.Version,
		UpdatedAt:    s.UpdatedAt,
		Worktrees:    s.Worktrees,
		Branches:     s.Branches,
		Dependencies: s.Dependencies,
		RootBranches: s.RootBranches,
	}

	data, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return twigerrors.Wrap(twigerrors.KindStateCorrupt, err)
	}

	if err := os.WriteFile(statePath(repoPath), data, 0644); err != nil {
		return twigerrors.Wrap(twigerrors.KindFileSystem, err)
	}
	slog.Debug("state: saved", "path", statePath(repoPath), "branches", len(s.Branches))
	return nil
}
