// Package git provides Git and GitHub CLI operations for prflow.
// This file implements the CLIRunner which wraps git CLI commands.
package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mrz1836/prflow/internal/constants"
	"github.com/mrz1836/prflow/internal/ctxutil"
	prferrors "github.com/mrz1836/prflow/internal/errors"
)

// CLIRunner implements Runner using the git CLI.
type CLIRunner struct {
	workDir string        // Working directory for git commands
	timeout time.Duration // Per-command deadline, 0 disables
}

// NewRunner creates a new CLIRunner for the given working directory with the
// default command timeout. Returns an error if the directory is not a git
// repository.
func NewRunner(ctx context.Context, workDir string) (*CLIRunner, error) {
	return NewRunnerWithTimeout(ctx, workDir, constants.DefaultGitTimeout)
}

// NewRunnerWithTimeout creates a CLIRunner whose git invocations each run
// under the given deadline, typically the configured git timeout.
func NewRunnerWithTimeout(ctx context.Context, workDir string, timeout time.Duration) (*CLIRunner, error) {
	if workDir == "" {
		return nil, fmt.Errorf("work directory cannot be empty: %w", prferrors.ErrEmptyValue)
	}

	r := &CLIRunner{workDir: workDir, timeout: timeout}

	// Verify this is a git repository
	_, err := r.runGitCommand(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", prferrors.ErrNotGitRepo, err)
	}

	return r, nil
}

// WorkDir returns the directory the runner is bound to.
func (r *CLIRunner) WorkDir() string {
	return r.workDir
}

// RepoRoot returns the absolute path of the working tree's top level.
func (r *CLIRunner) RepoRoot(ctx context.Context) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	output, err := r.runGitCommand(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("failed to resolve repository root: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// Status returns the current working tree status.
func (r *CLIRunner) Status(ctx context.Context) (*Status, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	output, err := r.runGitCommand(ctx, "status", "--porcelain", "-uall", "--branch")
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return parseGitStatus(output), nil
}

// Add stages files for commit.
func (r *CLIRunner) Add(ctx context.Context, paths []string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	args := []string{"add"}
	if len(paths) == 0 {
		// Stage all changes
		args = append(args, "-A")
	} else {
		args = append(args, "--")
		args = append(args, paths...)
	}

	_, err := r.runGitCommand(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to add files: %w", err)
	}

	return nil
}

// Stash shelves working tree changes and returns a locatable stash reference.
// The reference is resolved by stash message rather than assumed to be
// stash@{0}, so pre-existing user stashes never get mixed up with ours.
func (r *CLIRunner) Stash(ctx context.Context, opts StashOptions) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	if opts.Message == "" {
		return "", fmt.Errorf("stash message cannot be empty: %w", prferrors.ErrEmptyValue)
	}

	args := []string{"stash", "push"}
	if opts.KeepIndex {
		args = append(args, "--keep-index")
	}
	if opts.IncludeUntracked {
		args = append(args, "--include-untracked")
	}
	args = append(args, "-m", opts.Message)

	output, err := r.runGitCommand(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("failed to stash: %w", err)
	}
	if strings.Contains(output, "No local changes to save") {
		return "", nil
	}

	return r.findStashByMessage(ctx, opts.Message)
}

// StashPop applies the referenced stash and drops it.
func (r *CLIRunner) StashPop(ctx context.Context, ref string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if ref == "" {
		return fmt.Errorf("stash ref cannot be empty: %w", prferrors.ErrEmptyValue)
	}

	_, err := r.runGitCommand(ctx, "stash", "pop", ref)
	if err != nil {
		return fmt.Errorf("failed to pop stash %s: %w", ref, err)
	}

	return nil
}

// StashApply applies the referenced stash into workDir without dropping it.
// The stash object is shared across worktrees, so applying in a different
// worktree directory relocates the changes there.
func (r *CLIRunner) StashApply(ctx context.Context, ref, workDir string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if ref == "" {
		return fmt.Errorf("stash ref cannot be empty: %w", prferrors.ErrEmptyValue)
	}
	if workDir == "" {
		workDir = r.workDir
	}

	_, err := r.runGitCommandIn(ctx, workDir, "stash", "apply", ref)
	if err != nil {
		return fmt.Errorf("failed to apply stash %s: %w", ref, err)
	}

	return nil
}

// StashDrop removes the referenced stash.
func (r *CLIRunner) StashDrop(ctx context.Context, ref string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if ref == "" {
		return fmt.Errorf("stash ref cannot be empty: %w", prferrors.ErrEmptyValue)
	}

	_, err := r.runGitCommand(ctx, "stash", "drop", ref)
	if err != nil {
		return fmt.Errorf("failed to drop stash %s: %w", ref, err)
	}

	return nil
}

// Commit creates a commit and returns its SHA.
func (r *CLIRunner) Commit(ctx context.Context, opts CommitOptions) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	if opts.Message == "" {
		return "", fmt.Errorf("commit message cannot be empty: %w", prferrors.ErrEmptyValue)
	}

	// Use --cleanup=strip to handle formatting (removes trailing whitespace, leading/trailing blank lines)
	args := []string{"commit", "-m", opts.Message, "--cleanup=strip"}
	if opts.AllowEmpty {
		args = append(args, "--allow-empty")
	}

	_, err := r.runGitCommand(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	return r.HeadSHA(ctx)
}

// Push pushes a branch to the remote repository.
func (r *CLIRunner) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	args := []string{"push"}
	if setUpstream {
		args = append(args, "--set-upstream")
	}
	args = append(args, remote, branch)

	_, err := r.runGitCommand(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}

	return nil
}

// Checkout switches the working tree to the given branch or ref.
func (r *CLIRunner) Checkout(ctx context.Context, ref string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if ref == "" {
		return fmt.Errorf("checkout ref cannot be empty: %w", prferrors.ErrEmptyValue)
	}

	_, err := r.runGitCommand(ctx, "checkout", ref)
	if err != nil {
		return fmt.Errorf("failed to checkout %s: %w", ref, err)
	}

	return nil
}

// CreateBranch creates a new branch at startPoint and checks it out.
func (r *CLIRunner) CreateBranch(ctx context.Context, name, startPoint string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if name == "" {
		return fmt.Errorf("branch name cannot be empty: %w", prferrors.ErrEmptyValue)
	}

	exists, err := r.BranchExists(ctx, name)
	if err != nil {
		return fmt.Errorf("checking branch existence: %w", err)
	}
	if exists {
		return fmt.Errorf("branch '%s' already exists: %w", name, prferrors.ErrBranchExists)
	}

	args := []string{"checkout", "-b", name}
	if startPoint != "" {
		args = append(args, startPoint)
	}

	_, err = r.runGitCommand(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to create branch '%s': %w", name, err)
	}

	return nil
}

// BranchExists checks if a local branch exists in the repository.
func (r *CLIRunner) BranchExists(ctx context.Context, name string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	_, err := r.runGitCommand(ctx, "show-ref", "--verify", "refs/heads/"+name)
	if err != nil {
		// show-ref exits 1 when the ref does not exist, which is expected
		if ExitCode(err) == 1 {
			return false, nil
		}
		return false, fmt.Errorf("failed to check branch existence: %w", err)
	}
	return true, nil
}

// CurrentBranch returns the checked-out branch name, or "" in detached HEAD.
func (r *CLIRunner) CurrentBranch(ctx context.Context) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	output, err := r.runGitCommand(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}

	// rev-parse prints the literal "HEAD" in detached HEAD state
	if output == "HEAD" {
		return "", nil
	}

	return output, nil
}

// HeadSHA returns the full SHA of HEAD.
func (r *CLIRunner) HeadSHA(ctx context.Context) (string, error) {
	return r.RevParse(ctx, "HEAD")
}

// RevParse resolves a ref to a SHA.
func (r *CLIRunner) RevParse(ctx context.Context, ref string) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	if ref == "" {
		return "", fmt.Errorf("ref cannot be empty: %w", prferrors.ErrEmptyValue)
	}

	output, err := r.runGitCommand(ctx, "rev-parse", "--verify", ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", ref, err)
	}

	return output, nil
}

// AheadBehind counts commits HEAD is ahead of and behind the given ref.
func (r *CLIRunner) AheadBehind(ctx context.Context, ref string) (int, int, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return 0, 0, err
	}

	output, err := r.runGitCommand(ctx, "rev-list", "--left-right", "--count", "HEAD..."+ref)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count ahead/behind vs %s: %w", ref, err)
	}

	fields := strings.Fields(output)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q: %w", output, prferrors.ErrGitOperation)
	}

	ahead, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parsing ahead count %q: %w", fields[0], prferrors.ErrGitOperation)
	}
	behind, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parsing behind count %q: %w", fields[1], prferrors.ErrGitOperation)
	}

	return ahead, behind, nil
}

// IsAncestor reports whether ancestor is reachable from descendant.
func (r *CLIRunner) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	// merge-base --is-ancestor answers through its exit code: 0 yes, 1 no,
	// anything else is a real failure. The "no" case writes nothing to
	// stderr, so the exit code is the only signal.
	_, err := r.runGitCommand(ctx, "merge-base", "--is-ancestor", ancestor, descendant)
	if err != nil {
		if ExitCode(err) == 1 {
			return false, nil
		}
		return false, fmt.Errorf("failed to check ancestry of %s: %w", ancestor, err)
	}
	return true, nil
}

// LocalCommits lists commits on HEAD that are not on the given ref, newest first.
func (r *CLIRunner) LocalCommits(ctx context.Context, ref string) ([]CommitSummary, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	output, err := r.runGitCommand(ctx, "log", "--format=%h%x00%s", ref+"..HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to list local commits: %w", err)
	}

	commits := []CommitSummary{}
	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		sha, subject, _ := strings.Cut(line, "\x00")
		commits = append(commits, CommitSummary{SHA: sha, Subject: subject})
	}

	return commits, nil
}

// HasUpstream reports whether the branch has an upstream tracking ref.
func (r *CLIRunner) HasUpstream(ctx context.Context, branch string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	if branch == "" {
		return false, fmt.Errorf("branch cannot be empty: %w", prferrors.ErrEmptyValue)
	}

	_, err := r.runGitCommand(ctx, "rev-parse", "--abbrev-ref", branch+"@{upstream}")
	if err != nil {
		// "no upstream configured" and "no such branch" both mean no upstream;
		// rev-parse reports them as fatal (exit 128)
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "no upstream") || strings.Contains(errStr, "no such branch") || ExitCode(err) == 128 {
			return false, nil
		}
		return false, fmt.Errorf("failed to check upstream for %s: %w", branch, err)
	}
	return true, nil
}

// Fetch downloads objects and refs from a remote repository.
func (r *CLIRunner) Fetch(ctx context.Context, remote string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if remote == "" {
		remote = "origin"
	}

	_, err := r.runGitCommand(ctx, "fetch", remote)
	if err != nil {
		return fmt.Errorf("failed to fetch from %s: %w", remote, err)
	}

	return nil
}

// findStashByMessage locates our stash in the stash list by subject match.
func (r *CLIRunner) findStashByMessage(ctx context.Context, message string) (string, error) {
	output, err := r.runGitCommand(ctx, "stash", "list", "--format=%gd%x00%gs")
	if err != nil {
		return "", fmt.Errorf("failed to list stashes: %w", err)
	}

	for _, line := range strings.Split(output, "\n") {
		ref, subject, ok := strings.Cut(line, "\x00")
		if !ok {
			continue
		}
		// Subject is "On <branch>: <message>" or "WIP on <branch>: ..."
		if strings.HasSuffix(subject, ": "+message) || strings.Contains(subject, message) {
			return ref, nil
		}
	}

	return "", fmt.Errorf("stash with message %q: %w", message, prferrors.ErrStashNotFound)
}

// runGitCommand executes a git command and returns its output.
// This is a convenience wrapper around RunCommand that uses the runner's workDir.
func (r *CLIRunner) runGitCommand(ctx context.Context, args ...string) (string, error) {
	return r.runGitCommandIn(ctx, r.workDir, args...)
}

// runGitCommandIn executes a git command in dir under the runner's timeout.
func (r *CLIRunner) runGitCommandIn(ctx context.Context, dir string, args ...string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return RunCommand(ctx, dir, args...)
}

// parseGitStatus parses git status --porcelain --branch output.
func parseGitStatus(output string) *Status {
	status := &Status{
		Staged:    []FileChange{},
		Unstaged:  []FileChange{},
		Untracked: []string{},
	}

	lines := strings.Split(output, "\n")
	for _, line := range lines {
		if len(line) < 2 {
			continue
		}

		// Parse branch line: ## branch...origin/branch [ahead N, behind M]
		if strings.HasPrefix(line, "## ") {
			parseBranchLine(line, status)
			continue
		}

		// Parse file status lines
		// XY PATH or XY ORIG -> PATH (for renames)
		indexStatus := line[0]
		workTreeStatus := line[1]
		path := strings.TrimSpace(line[3:])

		// Handle renames: XY ORIG -> DEST
		var oldPath string
		if strings.Contains(path, " -> ") {
			parts := strings.SplitN(path, " -> ", 2)
			oldPath = parts[0]
			path = parts[1]
		}

		// Untracked files
		if indexStatus == '?' && workTreeStatus == '?' {
			status.Untracked = append(status.Untracked, path)
			continue
		}

		// Staged changes (index status)
		if indexStatus != ' ' && indexStatus != '?' {
			status.Staged = append(status.Staged, FileChange{
				Path:    path,
				Status:  ChangeType(string(indexStatus)),
				OldPath: oldPath,
			})
		}

		// Unstaged changes (work tree status)
		if workTreeStatus != ' ' && workTreeStatus != '?' {
			status.Unstaged = append(status.Unstaged, FileChange{
				Path:    path,
				Status:  ChangeType(string(workTreeStatus)),
				OldPath: oldPath,
			})
		}
	}

	return status
}

// parseBranchLine parses the branch line from git status --porcelain --branch.
// Format: ## branch...origin/branch [ahead N, behind M]
func parseBranchLine(line string, status *Status) {
	line = strings.TrimPrefix(line, "## ")

	// Detached HEAD renders as "## HEAD (no branch)"
	if strings.HasPrefix(line, "HEAD (no branch)") {
		return
	}

	parts := strings.SplitN(line, "...", 2)
	status.Branch = parts[0]

	if len(parts) < 2 {
		return
	}

	remotePart := parts[1]

	// Look for [ahead N, behind M] or [ahead N] or [behind M]
	bracketStart := strings.Index(remotePart, " [")
	if bracketStart == -1 {
		return
	}

	// Verify string ends with "]" and has enough length for slice
	if len(remotePart) < bracketStart+4 || remotePart[len(remotePart)-1] != ']' {
		return
	}

	info := remotePart[bracketStart+2 : len(remotePart)-1] // Remove " [" and "]"
	status.Ahead = parseAheadBehind(info, "ahead ")
	status.Behind = parseAheadBehind(info, "behind ")
}

// parseAheadBehind extracts the count from "ahead N" or "behind N" in the info string.
func parseAheadBehind(info, prefix string) int {
	idx := strings.Index(info, prefix)
	if idx == -1 {
		return 0
	}

	numStr := info[idx+len(prefix):]
	if commaIdx := strings.Index(numStr, ","); commaIdx != -1 {
		numStr = numStr[:commaIdx]
	}

	n, err := strconv.Atoi(strings.TrimSpace(numStr))
	if err != nil {
		return 0
	}
	return n
}
