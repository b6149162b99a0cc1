package testhelpers

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/eddieland/twig/internal/git"
)

var (
	minimalTemplateDir  string
	minimalTemplateErr  error
	minimalTemplateOnce sync.Once

	basicTemplateDir  string
	basicTemplateErr  error
	basicTemplateOnce sync.Once
)

// getMinimalTemplate lazily initializes a bare-bones repository once per
// test binary; scenes copy it instead of paying git init per test.
func getMinimalTemplate(t *testing.T) string {
	minimalTemplateOnce.Do(func() {
		dir, err := os.MkdirTemp("", "twig-test-minimal-template-*")
		if err != nil {
			minimalTemplateErr = fmt.Errorf("failed to create minimal template dir: %w", err)
			return
		}
		minimalTemplateDir = dir

		if _, err = NewGitRepo(minimalTemplateDir); err != nil {
			minimalTemplateErr = fmt.Errorf("failed to init minimal template repo: %w", err)
		}
	})

	if minimalTemplateErr != nil {
		t.Fatalf("Minimal template initialization failed: %v", minimalTemplateErr)
	}

	return minimalTemplateDir
}

func getBasicTemplate(t *testing.T) string {
	basicTemplateOnce.Do(func() {
		minimalDir := getMinimalTemplate(t)

		dir, err := os.MkdirTemp("", "twig-test-basic-template-*")
		if err != nil {
			basicTemplateErr = fmt.Errorf("failed to create basic template dir: %w", err)
			return
		}
		basicTemplateDir = dir

		repo, err := NewGitRepoFromTemplate(basicTemplateDir, minimalDir)
		if err != nil {
			basicTemplateErr = fmt.Errorf("failed to init basic template repo: %w", err)
			return
		}

		if err := BasicSceneSetup(&Scene{Repo: repo, Dir: basicTemplateDir}); err != nil {
			basicTemplateErr = fmt.Errorf("failed to run basic setup on template: %w", err)
		}
	})

	if basicTemplateErr != nil {
		t.Fatalf("Basic template initialization failed: %v", basicTemplateErr)
	}

	return basicTemplateDir
}

// Scene is one test's throwaway repository plus its location on disk.
type Scene struct {
	Dir    string
	Repo   *GitRepo
	oldDir string
}

// SceneSetup seeds a freshly-created scene (commits, branches) before the
// test body runs.
type SceneSetup func(*Scene) error

// NewScene creates a temporary repository, changes the process working
// directory into it, and registers cleanup. Because it uses os.Chdir and
// the git package's default-repo state, it is NOT safe for parallel
// tests; use NewSceneParallel for tests that only drive the built binary.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	// Each scene gets a fresh default repository.
	git.ResetDefaultRepo()

	tmpDir, err := os.MkdirTemp("", "twig-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	scene, err := buildScene(t, tmpDir, setup)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("%v", err)
	}
	scene.oldDir = oldDir

	if err := os.Chdir(tmpDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("Failed to change directory: %v", err)
	}

	t.Cleanup(func() {
		_ = os.Chdir(oldDir)
		git.ResetDefaultRepo()
		if os.Getenv("DEBUG") == "" {
			_ = os.RemoveAll(tmpDir)
		}
	})

	return scene
}

// NewSceneParallel creates a scene without touching the process working
// directory or the git package's default repo, so tests that only run
// the twig binary (with cmd.Dir = scene.Dir) can run in parallel.
func NewSceneParallel(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "twig-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	scene, err := buildScene(t, tmpDir, setup)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("%v", err)
	}

	t.Cleanup(func() {
		if os.Getenv("DEBUG") == "" {
			_ = os.RemoveAll(tmpDir)
		}
	})

	return scene
}

func buildScene(t *testing.T, tmpDir string, setup SceneSetup) (*Scene, error) {
	var repo *GitRepo
	var err error
	isBasicSetup := false

	if setup != nil && fmt.Sprintf("%p", setup) == fmt.Sprintf("%p", BasicSceneSetup) {
		repo, err = NewGitRepoFromTemplate(tmpDir, getBasicTemplate(t))
		isBasicSetup = true
	} else {
		repo, err = NewGitRepoFromTemplate(tmpDir, getMinimalTemplate(t))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Git repo: %w", err)
	}

	scene := &Scene{Dir: tmpDir, Repo: repo}

	if setup != nil && !isBasicSetup {
		if err := setup(scene); err != nil {
			return nil, fmt.Errorf("setup failed: %w", err)
		}
	}

	return scene, nil
}

// BasicSceneSetup seeds a scene with a single commit on main.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}
