package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const textFileName = "test.txt"

// GitRepo drives a real Git repository on disk for tests.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a fresh repository at dir with main as the
// initial branch and a test committer identity configured.
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	cmd := exec.Command("git", "init", dir, "-b", "main")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	if err := repo.runGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.runGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}

	return repo, nil
}

// NewGitRepoFromTemplate copies an already-initialized template
// repository into dir. Much faster than git init + config when many
// tests need the same starting point.
func NewGitRepoFromTemplate(dir, templateDir string) (*GitRepo, error) {
	if err := copyTree(templateDir, dir); err != nil {
		return nil, fmt.Errorf("failed to copy template repo: %w", err)
	}
	return &GitRepo{Dir: dir}, nil
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode())
	})
}

func (r *GitRepo) runGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	if os.Getenv("DEBUG") != "" {
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

// RunGitCommand executes a git command in the repository.
func (r *GitRepo) RunGitCommand(args ...string) error {
	return r.runGitCommand(args...)
}

// RunGitCommandAndGetOutput executes a git command and returns its
// trimmed stdout.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git command failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// CreateChange writes a file named <prefix>_test.txt with textValue,
// staging it unless unstaged is set.
func (r *GitRepo) CreateChange(textValue string, prefix string, unstaged bool) error {
	fileName := textFileName
	if prefix != "" {
		fileName = prefix + "_" + fileName
	}
	filePath := filepath.Join(r.Dir, fileName)

	if err := os.WriteFile(filePath, []byte(textValue), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if !unstaged {
		return r.runGitCommand("add", filePath)
	}

	return nil
}

// CreateChangeAndCommit writes a file change and commits everything with
// textValue as the message.
func (r *GitRepo) CreateChangeAndCommit(textValue string, prefix string) error {
	if err := r.CreateChange(textValue, prefix, false); err != nil {
		return err
	}
	if err := r.runGitCommand("add", "."); err != nil {
		return err
	}
	return r.runGitCommand("commit", "-m", textValue)
}

// CreateBranch creates a branch at HEAD without checking it out.
func (r *GitRepo) CreateBranch(name string) error {
	return r.runGitCommand("branch", name)
}

// CreateBareRemote initializes a bare repository in a temp directory and
// registers it as a remote, returning its path.
func (r *GitRepo) CreateBareRemote(name string) (string, error) {
	dir, err := os.MkdirTemp("", "twig-test-remote-*")
	if err != nil {
		return "", fmt.Errorf("failed to create remote dir: %w", err)
	}
	cmd := exec.Command("git", "init", "--bare", dir)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to init bare remote: %w", err)
	}
	if err := r.runGitCommand("remote", "add", name, dir); err != nil {
		return "", err
	}
	return dir, nil
}

// PushBranch pushes branch to remote, setting upstream.
func (r *GitRepo) PushBranch(remote, branch string) error {
	return r.runGitCommand("push", "-u", remote, branch)
}

// CreateAndCheckoutBranch creates and checks out a new branch.
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.runGitCommand("checkout", "-b", name)
}

// CheckoutBranch checks out an existing branch.
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.runGitCommand("checkout", name)
}

// DeleteBranch force-deletes a branch.
func (r *GitRepo) DeleteBranch(name string) error {
	return r.runGitCommand("branch", "-D", name)
}

// MergeBranch checks out branch and merges mergeIn into it.
func (r *GitRepo) MergeBranch(branch, mergeIn string) error {
	if err := r.CheckoutBranch(branch); err != nil {
		return err
	}
	return r.runGitCommand("merge", mergeIn)
}

// CurrentBranchName returns the checked-out branch name.
func (r *GitRepo) CurrentBranchName() (string, error) {
	return r.RunGitCommandAndGetOutput("branch", "--show-current")
}

// GetRef returns the SHA of a ref.
func (r *GitRepo) GetRef(refName string) (string, error) {
	return r.RunGitCommandAndGetOutput("show-ref", "-s", refName)
}

// ListCurrentBranchCommitMessages returns every commit message on the
// current branch, newest first.
func (r *GitRepo) ListCurrentBranchCommitMessages() ([]string, error) {
	output, err := r.RunGitCommandAndGetOutput("log", "--oneline", "--format=%B")
	if err != nil {
		return nil, err
	}

	lines := []string{}
	for _, line := range strings.Split(output, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines, nil
}

// ResolveMergeConflicts resolves every conflicted file by taking the
// incoming side.
func (r *GitRepo) ResolveMergeConflicts() error {
	return r.runGitCommand("checkout", "--theirs", ".")
}

// MarkMergeConflictsAsResolved stages everything so a rebase/merge can
// continue.
func (r *GitRepo) MarkMergeConflictsAsResolved() error {
	return r.runGitCommand("add", ".")
}
