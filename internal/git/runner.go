package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	twigerrors "github.com/eddieland/twig/internal/errors"
)

// DefaultCommandTimeout bounds every child git process started without an
// explicit deadline on its context.
const DefaultCommandTimeout = 5 * time.Minute

// CommandRunner executes git child processes rooted at a working directory.
type CommandRunner struct {
	workingDir string
}

// defaultRunner backs the package-level Run* functions. Commands run in
// the process's own working directory until SetWorkingDir points them
// somewhere else.
var defaultRunner = &CommandRunner{}

// SetWorkingDir sets the working directory for the default runner.
func SetWorkingDir(dir string) {
	defaultRunner.workingDir = dir
}

// GetWorkingDir returns the default runner's working directory setting.
func GetWorkingDir() string {
	return defaultRunner.workingDir
}

// RunGitCommand executes a git command using the default runner and
// returns its trimmed stdout.
func RunGitCommand(args ...string) (string, error) {
	return defaultRunner.Run(context.Background(), args...)
}

// RunGitCommandWithContext executes a git command with the given context
// using the default runner.
func RunGitCommandWithContext(ctx context.Context, args ...string) (string, error) {
	return defaultRunner.Run(ctx, args...)
}

// RunGitCommandLinesWithContext executes a git command and splits its
// output into lines; an empty output yields an empty slice.
func RunGitCommandLinesWithContext(ctx context.Context, args ...string) ([]string, error) {
	output, err := RunGitCommandWithContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// RunGitCommandWithEnv executes a git command with extra environment
// variables appended to the inherited environment.
func RunGitCommandWithEnv(ctx context.Context, env []string, args ...string) (string, error) {
	return defaultRunner.run(ctx, env, args...)
}

// Run executes a git command and returns its trimmed stdout. A non-zero
// exit becomes a *twigerrors.GitCommandError carrying both streams.
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.run(ctx, nil, args...)
}

func (r *CommandRunner) run(ctx context.Context, env []string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", twigerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", twigerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
