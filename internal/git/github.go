// Package git provides Git and GitHub CLI operations for prflow.
// This file implements the HubRunner for GitHub operations via the gh CLI.
package git

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/prflow/internal/constants"
	"github.com/mrz1836/prflow/internal/ctxutil"
	prferrors "github.com/mrz1836/prflow/internal/errors"
)

// PRErrorType classifies GitHub PR operation failures for appropriate handling.
type PRErrorType int

const (
	// PRErrorNone indicates no error occurred.
	PRErrorNone PRErrorType = iota
	// PRErrorAuth indicates authentication failed - don't retry.
	PRErrorAuth
	// PRErrorNotFound indicates resource not found - don't retry.
	PRErrorNotFound
	// PRErrorNetwork indicates a network issue - may be transient.
	PRErrorNetwork
	// PRErrorOther indicates an unknown error - don't retry.
	PRErrorOther
)

// String returns a string representation of the error type.
func (t PRErrorType) String() string {
	switch t {
	case PRErrorNone:
		return "none"
	case PRErrorAuth:
		return "auth"
	case PRErrorNotFound:
		return "not_found"
	case PRErrorNetwork:
		return "network"
	case PRErrorOther:
		return "other"
	}
	return "other"
}

// PRCreateOptions configures the PR creation operation.
type PRCreateOptions struct {
	// Title is the PR title (required).
	Title string
	// Body is the PR description/body.
	Body string
	// BaseBranch is the target branch (default: "main").
	BaseBranch string
	// HeadBranch is the source branch with changes (required).
	HeadBranch string
	// Draft creates the PR as a draft if true.
	Draft bool
}

// PR describes a pull request as reported by the gh CLI.
type PR struct {
	// Number is the PR number.
	Number int `json:"number"`
	// URL is the full URL to the PR.
	URL string `json:"url"`
	// State is the PR state (OPEN, CLOSED, MERGED).
	State string `json:"state"`
	// HeadBranch is the source branch of the PR.
	HeadBranch string `json:"headRefName"`
	// Title is the PR title.
	Title string `json:"title"`
	// IsDraft reports whether the PR is a draft.
	IsDraft bool `json:"isDraft"`
}

// IsOpen reports whether the PR is open.
func (p *PR) IsOpen() bool {
	return strings.EqualFold(p.State, "open")
}

// HubRunner defines GitHub operations used by the workflow orchestrator.
// Implementations wrap the gh CLI; prflow never talks to the GitHub API
// directly.
type HubRunner interface {
	// CreatePR creates a pull request and returns its number and URL.
	CreatePR(ctx context.Context, opts PRCreateOptions) (*PR, error)

	// GetPR fetches a pull request by number.
	GetPR(ctx context.Context, number int) (*PR, error)

	// GetPRByBranch returns the open PR whose head is the given branch,
	// or nil when no open PR exists for it.
	GetPRByBranch(ctx context.Context, branch string) (*PR, error)

	// RemoteBranchExists checks whether the branch exists on the remote.
	RemoteBranchExists(ctx context.Context, branch string) (bool, error)
}

// CLIHubRunner implements HubRunner using the gh CLI.
type CLIHubRunner struct {
	workDir string
	remote  string
	timeout time.Duration // Per-command deadline, 0 disables
	exec    CommandExecutor
	logger  zerolog.Logger
}

// NewHubRunner creates a CLIHubRunner bound to the given working directory
// with the default network timeout.
func NewHubRunner(workDir, remote string, logger zerolog.Logger) *CLIHubRunner {
	return NewHubRunnerWithTimeout(workDir, remote, constants.DefaultGitHubTimeout, logger)
}

// NewHubRunnerWithTimeout creates a CLIHubRunner whose gh invocations each
// run under the given deadline, typically the configured PR timeout.
func NewHubRunnerWithTimeout(workDir, remote string, timeout time.Duration, logger zerolog.Logger) *CLIHubRunner {
	if remote == "" {
		remote = "origin"
	}
	return &CLIHubRunner{
		workDir: workDir,
		remote:  remote,
		timeout: timeout,
		exec:    NewCLICommandExecutor(),
		logger:  logger.With().Str("component", "github").Logger(),
	}
}

// NewHubRunnerWithExecutor creates a CLIHubRunner with a custom executor.
// This is primarily useful for testing.
func NewHubRunnerWithExecutor(workDir, remote string, executor CommandExecutor, logger zerolog.Logger) *CLIHubRunner {
	r := NewHubRunner(workDir, remote, logger)
	r.exec = executor
	return r
}

// prURLRegex extracts the PR number from a GitHub PR URL.
var prURLRegex = regexp.MustCompile(`/pull/(\d+)`)

// run executes a command in the runner's working directory under its timeout.
func (r *CLIHubRunner) run(ctx context.Context, name string, args ...string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.exec.Execute(ctx, r.workDir, name, args...)
}

// CreatePR creates a pull request via gh CLI.
func (r *CLIHubRunner) CreatePR(ctx context.Context, opts PRCreateOptions) (*PR, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if opts.Title == "" {
		return nil, fmt.Errorf("PR title cannot be empty: %w", prferrors.ErrEmptyValue)
	}
	if opts.HeadBranch == "" {
		return nil, fmt.Errorf("head branch cannot be empty: %w", prferrors.ErrEmptyValue)
	}
	if opts.BaseBranch == "" {
		opts.BaseBranch = "main"
		r.logger.Debug().Msg("using default base branch 'main'")
	}

	args := []string{
		"pr", "create",
		"--title", opts.Title,
		"--body", opts.Body,
		"--base", opts.BaseBranch,
		"--head", opts.HeadBranch,
	}
	if opts.Draft {
		args = append(args, "--draft")
	}

	output, err := r.run(ctx, "gh", args...)
	if err != nil {
		errType := classifyGHError(err)
		r.logger.Error().Err(err).Str("error_type", errType.String()).
			Str("head", opts.HeadBranch).Msg("pr create failed")
		return nil, fmt.Errorf("failed to create PR for %s: %w: %w", opts.HeadBranch, err, prferrors.ErrGitHubOperation)
	}

	// gh prints the PR URL on the last line of stdout.
	url := lastLine(output)
	number := 0
	if m := prURLRegex.FindStringSubmatch(url); len(m) == 2 {
		number, _ = strconv.Atoi(m[1])
	}

	r.logger.Info().Int("pr_number", number).Str("url", url).Msg("pull request created")

	state := "OPEN"
	return &PR{
		Number:     number,
		URL:        url,
		State:      state,
		HeadBranch: opts.HeadBranch,
		Title:      opts.Title,
		IsDraft:    opts.Draft,
	}, nil
}

// prJSONFields are the fields requested from gh pr view/list.
const prJSONFields = "number,url,state,headRefName,title,isDraft"

// GetPR fetches a pull request by number.
func (r *CLIHubRunner) GetPR(ctx context.Context, number int) (*PR, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if number <= 0 {
		return nil, fmt.Errorf("invalid PR number %d: %w", number, prferrors.ErrEmptyValue)
	}

	output, err := r.run(ctx, "gh", "pr", "view", strconv.Itoa(number), "--json", prJSONFields)
	if err != nil {
		if classifyGHError(err) == PRErrorNotFound {
			return nil, fmt.Errorf("PR #%d: %w", number, prferrors.ErrPRNotFound)
		}
		return nil, fmt.Errorf("failed to view PR #%d: %w: %w", number, err, prferrors.ErrGitHubOperation)
	}

	var pr PR
	if err := json.Unmarshal([]byte(output), &pr); err != nil {
		return nil, fmt.Errorf("failed to parse PR #%d: %w: %w", number, err, prferrors.ErrGitHubOperation)
	}
	return &pr, nil
}

// GetPRByBranch returns the open PR for the given head branch, or nil.
func (r *CLIHubRunner) GetPRByBranch(ctx context.Context, branch string) (*PR, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if branch == "" {
		return nil, fmt.Errorf("branch cannot be empty: %w", prferrors.ErrEmptyValue)
	}

	output, err := r.run(ctx, "gh",
		"pr", "list", "--head", branch, "--state", "open", "--limit", "1", "--json", prJSONFields)
	if err != nil {
		return nil, fmt.Errorf("failed to list PRs for %s: %w: %w", branch, err, prferrors.ErrGitHubOperation)
	}

	var prs []PR
	if err := json.Unmarshal([]byte(output), &prs); err != nil {
		return nil, fmt.Errorf("failed to parse PR list for %s: %w: %w", branch, err, prferrors.ErrGitHubOperation)
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return &prs[0], nil
}

// RemoteBranchExists checks whether the branch exists on the remote.
func (r *CLIHubRunner) RemoteBranchExists(ctx context.Context, branch string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	if branch == "" {
		return false, fmt.Errorf("branch cannot be empty: %w", prferrors.ErrEmptyValue)
	}

	// ls-remote avoids depending on a prior fetch having run.
	output, err := r.run(ctx, "git", "ls-remote", "--heads", r.remote, branch)
	if err != nil {
		return false, fmt.Errorf("failed to check remote branch %s: %w: %w", branch, err, prferrors.ErrGitHubOperation)
	}

	return strings.TrimSpace(output) != "", nil
}

// classifyGHError maps a gh CLI failure to a PRErrorType.
func classifyGHError(err error) PRErrorType {
	if err == nil {
		return PRErrorNone
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not logged in"),
		strings.Contains(msg, "authentication"),
		strings.Contains(msg, "401"),
		strings.Contains(msg, "gh auth login"):
		return PRErrorAuth
	case strings.Contains(msg, "no pull requests found"),
		strings.Contains(msg, "could not find"),
		strings.Contains(msg, "not found"),
		strings.Contains(msg, "404"):
		return PRErrorNotFound
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection"),
		strings.Contains(msg, "network"),
		strings.Contains(msg, "503"):
		return PRErrorNetwork
	}
	return PRErrorOther
}

// lastLine returns the final non-empty line of output.
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
