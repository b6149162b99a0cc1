// Package registry tracks known working copies across the whole machine,
// stored at <config>/twig/registry.json, independent of any single
// repository's own state.json.
package registry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	twigerrors "github.com/eddieland/twig/internal/errors"
	twiggit "github.com/eddieland/twig/internal/git"
)

// Repository is one known working copy.
type Repository struct {
	Path      string     `json:"path"`
	Name      string     `json:"name"`
	LastFetch *time.Time `json:"last_fetch,omitempty"`
}

// Registry is the in-memory, then persisted, set of known repositories.
// On disk it is a bare JSON array of Repository entries.
type Registry struct {
	Repositories []Repository
}

// Path returns <config>/twig/registry.json.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", twigerrors.Wrap(twigerrors.KindFileSystem, err)
	}
	return filepath.Join(configDir, "twig", "registry.json"), nil
}

// Load reads the registry file, returning an empty Registry if absent.
func Load() (*Registry, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Registry{}, nil
	}
	if err != nil {
		return nil, twigerrors.Wrap(twigerrors.KindFileSystem, err)
	}

	// The file is a bare top-level array of repositories.
	var r Registry
	if err := json.Unmarshal(data, &r.Repositories); err != nil {
		return nil, twigerrors.Wrap(twigerrors.KindStateCorrupt, err)
	}
	return &r, nil
}

// Save persists the registry as a top-level JSON array.
func (r *Registry) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return twigerrors.Wrap(twigerrors.KindFileSystem, err)
	}

	data, err := json.MarshalIndent(r.Repositories, "", "  ")
	if err != nil {
		return twigerrors.Wrap(twigerrors.KindStateCorrupt, err)
	}
	return os.WriteFile(path, data, 0644)
}

// canonicalize resolves path to its absolute, worktree-aware main
// repository path, so lookups from inside a linked worktree hit the same
// registry entry as the main checkout.
func canonicalize(ctx context.Context, path string) (string, error) {
	return twiggit.ResolveMainRepoPath(ctx, path)
}

// Add idempotently registers path by its canonical main-repo path.
func (r *Registry) Add(ctx context.Context, path, name string) error {
	canon, err := canonicalize(ctx, path)
	if err != nil {
		return err
	}

	for _, repo := range r.Repositories {
		if repo.Path == canon {
			return nil
		}
	}

	r.Repositories = append(r.Repositories, Repository{Path: canon, Name: name})
	return nil
}

// Remove unregisters the repository addressed by path (worktree-resolved),
// returning whether an entry was removed.
func (r *Registry) Remove(ctx context.Context, path string) (bool, error) {
	canon, err := canonicalize(ctx, path)
	if err != nil {
		return false, err
	}

	for i, repo := range r.Repositories {
		if repo.Path == canon {
			r.Repositories = append(r.Repositories[:i], r.Repositories[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// List returns all registered repositories.
func (r *Registry) List() []Repository {
	return append([]Repository(nil), r.Repositories...)
}

// UpdateFetchTime stamps the repository addressed by path with the
// current time as its last fetch.
func (r *Registry) UpdateFetchTime(ctx context.Context, path string) error {
	canon, err := canonicalize(ctx, path)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i, repo := range r.Repositories {
		if repo.Path == canon {
			r.Repositories[i].LastFetch = &now
			return nil
		}
	}
	return twigerrors.Wrap(twigerrors.KindBranchOperation, twigerrors.ErrBranchNotFound)
}
