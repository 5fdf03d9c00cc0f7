// Package git provides Git and GitHub CLI operations for prflow.
// This file provides shared subprocess execution utilities.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	prferrors "github.com/mrz1836/prflow/internal/errors"
)

// RunCommand executes a git command in the specified directory and returns its output.
// All errors are wrapped with ErrGitOperation and include stderr for debugging.
// The underlying exec error stays in the chain so callers can inspect the
// exit code; git uses exit 1 as a negative answer for query commands like
// merge-base --is-ancestor, often with no stderr at all.
func RunCommand(ctx context.Context, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //#nosec G204 -- args are constructed internally, not user input
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check for context cancellation
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// Include stderr in error for debugging, wrap with ErrGitOperation
		if stderr.Len() > 0 {
			return "", fmt.Errorf("git %s failed: %s: %w: %w", args[0], strings.TrimSpace(stderr.String()), err, prferrors.ErrGitOperation)
		}
		return "", fmt.Errorf("git %s failed: %w: %w", args[0], err, prferrors.ErrGitOperation)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// ExitCode returns the subprocess exit code carried by err, or -1 when err
// does not wrap an exec exit error (command never started, context canceled).
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// CommandExecutor abstracts subprocess execution for testability.
// The GitHub runner uses it so tests can script gh responses without
// spawning processes.
type CommandExecutor interface {
	// Execute runs a command in dir and returns trimmed stdout.
	Execute(ctx context.Context, dir, name string, args ...string) (string, error)
}

// CLICommandExecutor executes commands using os/exec.
type CLICommandExecutor struct{}

// NewCLICommandExecutor creates a new CLI command executor.
func NewCLICommandExecutor() *CLICommandExecutor {
	return &CLICommandExecutor{}
}

// Execute runs a command and returns its trimmed stdout.
// Stderr is folded into the returned error.
func (e *CLICommandExecutor) Execute(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- args are constructed internally, not user input
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%s %s failed: %s: %w: %w", name, args[0], strings.TrimSpace(stderr.String()), err, prferrors.ErrCommandFailed)
		}
		return "", fmt.Errorf("%s %s failed: %w: %w", name, args[0], err, prferrors.ErrCommandFailed)
	}

	return strings.TrimSpace(stdout.String()), nil
}
