// Package git provides Git and GitHub CLI operations for prflow.
// This file implements worktree operations on the CLIRunner.
package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mrz1836/prflow/internal/ctxutil"
	prferrors "github.com/mrz1836/prflow/internal/errors"
)

// Worktrees lists all worktrees of the repository.
// Git guarantees the main worktree is the first entry.
func (r *CLIRunner) Worktrees(ctx context.Context) ([]*WorktreeEntry, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	output, err := r.runGitCommand(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %w", err)
	}

	return parseWorktreeList(output), nil
}

// LinkedWorktreeName returns the administrative name of the current worktree,
// or "" when running in the main worktree.
//
// For a linked worktree, `git rev-parse --git-dir` resolves to
// <main>/.git/worktrees/<name>; <name> is fixed at creation time, so it still
// identifies a prflow-created worktree after the checkout directory has been
// moved or renamed.
func (r *CLIRunner) LinkedWorktreeName(ctx context.Context) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	gitDir, err := r.runGitCommand(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", fmt.Errorf("failed to locate git dir: %w", err)
	}

	return linkedWorktreeName(gitDir), nil
}

// AddWorktree creates a worktree at path checked out to branch.
func (r *CLIRunner) AddWorktree(ctx context.Context, path, branch string, opts WorktreeAddOptions) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if path == "" {
		return fmt.Errorf("worktree path cannot be empty: %w", prferrors.ErrEmptyValue)
	}
	if branch == "" {
		return fmt.Errorf("worktree branch cannot be empty: %w", prferrors.ErrEmptyValue)
	}

	args := []string{"worktree", "add", path}
	if opts.CreateBranch {
		args = append(args, "-b", branch)
		if opts.StartPoint != "" {
			args = append(args, opts.StartPoint)
		}
	} else {
		args = append(args, branch)
	}

	_, err := r.runGitCommand(ctx, args...)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("worktree at %s: %w", path, prferrors.ErrWorktreeExists)
		}
		return fmt.Errorf("failed to add worktree at %s: %w", path, err)
	}

	return nil
}

// linkedWorktreeName extracts the admin name from an absolute git dir path.
func linkedWorktreeName(gitDir string) string {
	gitDir = filepath.ToSlash(gitDir)
	idx := strings.LastIndex(gitDir, "/.git/worktrees/")
	if idx == -1 {
		return ""
	}
	name := gitDir[idx+len("/.git/worktrees/"):]
	// Guard against trailing separators from odd rev-parse output
	return strings.Trim(name, "/")
}

// parseWorktreeList parses `git worktree list --porcelain` output.
// Entries are separated by blank lines:
//
//	worktree /path/to/checkout
//	HEAD abcdef...
//	branch refs/heads/main      (or the line "detached")
func parseWorktreeList(output string) []*WorktreeEntry {
	entries := []*WorktreeEntry{}

	var current *WorktreeEntry
	flush := func() {
		if current != nil && current.Path != "" {
			entries = append(entries, current)
		}
		current = nil
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}

		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &WorktreeEntry{Path: strings.TrimPrefix(line, "worktree ")}
		case current == nil:
			// Attribute lines before any worktree line are malformed; skip.
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "detached":
			current.Detached = true
		}
	}
	flush()

	return entries
}
