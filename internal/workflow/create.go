// Package workflow orchestrates the create-PR sequence: analyze the tree,
// resolve and execute an action, create the branch, commit, push, open the
// PR and set up its worktree.
//
// Git offers no multi-step transactions, so the orchestrator relies on
// compensating actions: the action's stash reference is carried forward as a
// checkpoint token until it is either applied into the new worktree and
// dropped (success) or popped back (rollback). A second, independent stash
// token relocates unstaged edits into the new worktree; the two are never
// conflated.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/prflow/internal/constants"
	"github.com/mrz1836/prflow/internal/ctxutil"
	prferrors "github.com/mrz1836/prflow/internal/errors"
	"github.com/mrz1836/prflow/internal/git"
	"github.com/mrz1836/prflow/internal/state"
)

// Options configures a create-PR run.
type Options struct {
	// Description is the user's description of the work; it becomes the
	// commit message and PR title.
	Description string
	// Body is the PR body. Empty is allowed.
	Body string
	// BranchName overrides the generated target branch name.
	BranchName string
	// BaseBranch is the branch the PR targets (default "main").
	BaseBranch string
	// Remote is the push remote (default "origin").
	Remote string
	// BranchPrefix prefixes generated branch names (default "feat").
	BranchPrefix string
	// Draft opens the PR as a draft.
	Draft bool
	// ActionKey selects an explicit action. Empty means take the
	// scenario's recommended choice.
	ActionKey state.ActionKey
	// WorktreeParent is the directory PR worktrees are created under.
	// Empty means siblings of the repository root.
	WorktreeParent string
}

// Result reports what a create-PR run did.
type Result struct {
	// Scenario is the classified situation the run started from.
	Scenario state.Scenario
	// Action is the action that was executed.
	Action state.ActionKey
	// Branch is the branch the PR is for.
	Branch string
	// PRNumber and PRURL identify the pull request.
	PRNumber int
	PRURL    string
	// WorktreePath is the dedicated worktree, empty when none was created.
	WorktreePath string
	// Warnings lists non-fatal problems, e.g. a stash that could not be
	// reapplied automatically.
	Warnings []string
	// Message is a one-line summary for display.
	Message string
}

// Workflow runs the create-PR sequence against injected git and GitHub
// operations. Exactly one run may mutate a repository at a time; Run takes a
// per-repository file lock before its first git operation.
type Workflow struct {
	ops      git.Runner
	hub      git.HubRunner
	repoRoot string
	logger   zerolog.Logger
}

// New creates a Workflow for the repository rooted at repoRoot.
func New(ops git.Runner, hub git.HubRunner, repoRoot string, logger zerolog.Logger) *Workflow {
	return &Workflow{
		ops:      ops,
		hub:      hub,
		repoRoot: repoRoot,
		logger:   logger.With().Str("component", "workflow").Logger(),
	}
}

// Run executes the create-PR workflow. Steps run strictly one after another;
// each step's precondition is the previous step's postcondition, so nothing
// here is safe to parallelize.
func (w *Workflow) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if opts.Description == "" {
		return nil, fmt.Errorf("description: %w", prferrors.ErrEmptyValue)
	}
	applyDefaults(&opts)

	runID := uuid.NewString()
	logger := w.logger.With().Str("run_id", runID).Logger()

	lock, err := acquireRunLock(w.repoRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	st, err := state.NewAnalyzer(w.ops, opts.Remote, logger).Analyze(ctx, opts.BaseBranch)
	if err != nil {
		return nil, prferrors.Wrap(err, "analyzing repository state")
	}
	scenario := state.Classify(st)
	logger.Info().Str("scenario", string(scenario)).Msg("classified working tree")

	sctx := state.ResolveContext(scenario, st, opts.BaseBranch)
	action, err := chooseAction(sctx, opts.ActionKey)
	if err != nil {
		return nil, err
	}

	if action.Key.OperatesOnCurrentBranch() {
		return w.runOnCurrentBranch(ctx, logger, st, scenario, *action, opts)
	}
	return w.runOnNewBranch(ctx, logger, st, scenario, *action, opts)
}

// chooseAction picks the explicit action when given, validating it against
// the scenario's available choices, or falls back to the recommendation.
func chooseAction(sctx *state.ScenarioContext, key state.ActionKey) (*state.StateAction, error) {
	if key != "" {
		return state.SelectAction(sctx, key)
	}
	if sctx == nil {
		return nil, prferrors.ErrNoActionsAvailable
	}
	action := sctx.Recommended()
	if action == nil {
		return nil, prferrors.ErrNoActionsAvailable
	}
	return action, nil
}

// runOnNewBranch handles actions that create a fresh branch for the PR.
func (w *Workflow) runOnNewBranch(ctx context.Context, logger zerolog.Logger, st *state.GitState, scenario state.Scenario, action state.StateAction, opts Options) (*Result, error) {
	branch := opts.BranchName
	if branch == "" {
		branch = git.GenerateBranchName(opts.BranchPrefix, opts.Description)
	}

	result := &Result{Scenario: scenario, Action: action.Key, Branch: branch}

	// Before any mutation: an existing remote branch with an open PR means
	// the work already exists; just set up its worktree.
	if done, err := w.adoptExistingPR(ctx, logger, branch, result, opts); err != nil {
		return nil, err
	} else if done {
		return result, nil
	}

	execResult, err := state.NewExecutor(w.ops, opts.Remote, logger).
		Execute(ctx, action, opts.Description, branch)
	if err != nil {
		return nil, prferrors.Wrap(err, "executing pre-branch action")
	}
	actionStash := execResult.StashRef

	// Relocation stash: moves unstaged edits into the new worktree later.
	// Independent of the action's own stash; --keep-index leaves any
	// staged changes in place for the commit.
	var relocStash string
	if action.StashUnstaged && st.HasUnstagedChanges() {
		relocStash, err = w.ops.Stash(ctx, git.StashOptions{
			Message:          fmt.Sprintf("%s: unstaged changes for %s", constants.StashMessagePrefix, branch),
			KeepIndex:        true,
			IncludeUntracked: true,
		})
		if err != nil {
			return nil, w.rollback(ctx, logger, actionStash, "", prferrors.Wrap(err, "stashing unstaged changes"))
		}
	}

	originalRef := st.CurrentBranch
	if st.Detached() {
		originalRef, err = w.ops.HeadSHA(ctx)
		if err != nil {
			return nil, w.rollback(ctx, logger, actionStash, relocStash, prferrors.Wrap(err, "resolving detached HEAD"))
		}
	}

	if err := w.ops.CreateBranch(ctx, branch, state.BranchPoint(action, opts.BaseBranch)); err != nil {
		return nil, w.rollback(ctx, logger, actionStash, relocStash, prferrors.Wrapf(err, "creating branch %s", branch))
	}

	if err := w.commitOnNewBranch(ctx, action, opts.Description); err != nil {
		return nil, w.rollback(ctx, logger, actionStash, relocStash, err)
	}

	if err := w.ops.Push(ctx, opts.Remote, branch, true); err != nil {
		return nil, w.rollback(ctx, logger, actionStash, relocStash, prferrors.Wrapf(err, "pushing %s", branch))
	}

	// Leave the user where they started before the PR and worktree steps.
	if err := w.ops.Checkout(ctx, originalRef); err != nil {
		return nil, w.rollback(ctx, logger, actionStash, relocStash, prferrors.Wrapf(err, "returning to %s", originalRef))
	}

	pr, err := w.hub.CreatePR(ctx, git.PRCreateOptions{
		Title:      titleOf(opts.Description),
		Body:       opts.Body,
		BaseBranch: opts.BaseBranch,
		HeadBranch: branch,
		Draft:      opts.Draft,
	})
	if err != nil {
		return nil, w.rollback(ctx, logger, actionStash, relocStash, prferrors.Wrap(err, "creating pull request"))
	}
	result.PRNumber = pr.Number
	result.PRURL = pr.URL

	wtPath := worktreePath(w.repoRoot, branch, opts.WorktreeParent)
	if err := w.ops.AddWorktree(ctx, wtPath, branch, git.WorktreeAddOptions{}); err != nil {
		return nil, w.rollback(ctx, logger, actionStash, relocStash, prferrors.Wrapf(err, "creating worktree at %s", wtPath))
	}
	result.WorktreePath = wtPath

	// The PR and worktree exist now; stash problems past this point are
	// warnings, not rollbacks, because retrying blindly risks applying a
	// stash twice.
	w.applyStashInto(ctx, logger, result, relocStash, wtPath)
	w.applyStashInto(ctx, logger, result, actionStash, wtPath)

	result.Message = fmt.Sprintf("created PR #%d for %s", pr.Number, branch)
	logger.Info().Int("pr_number", pr.Number).Str("branch", branch).Str("worktree", wtPath).Msg("create-pr workflow finished")
	return result, nil
}

// runOnCurrentBranch handles actions that reuse the branch the user is on:
// no branch creation, just push (tracking it if needed) and a reused or
// fresh PR.
func (w *Workflow) runOnCurrentBranch(ctx context.Context, logger zerolog.Logger, st *state.GitState, scenario state.Scenario, action state.StateAction, opts Options) (*Result, error) {
	if st.Detached() {
		return nil, fmt.Errorf("action %q needs a checked-out branch: %w", action.Key, prferrors.ErrDetachedHead)
	}
	branch := st.CurrentBranch
	result := &Result{Scenario: scenario, Action: action.Key, Branch: branch}

	execResult, err := state.NewExecutor(w.ops, opts.Remote, logger).
		Execute(ctx, action, opts.Description, branch)
	if err != nil {
		return nil, prferrors.Wrap(err, "executing pre-branch action")
	}
	actionStash := execResult.StashRef

	hasUpstream, err := w.ops.HasUpstream(ctx, branch)
	if err != nil {
		return nil, w.rollback(ctx, logger, actionStash, "", prferrors.Wrap(err, "checking upstream"))
	}
	if err := w.ops.Push(ctx, opts.Remote, branch, !hasUpstream); err != nil {
		return nil, w.rollback(ctx, logger, actionStash, "", prferrors.Wrapf(err, "pushing %s", branch))
	}

	pr, err := w.hub.GetPRByBranch(ctx, branch)
	if err != nil {
		return nil, w.rollback(ctx, logger, actionStash, "", prferrors.Wrap(err, "looking up existing PR"))
	}
	if pr == nil {
		pr, err = w.hub.CreatePR(ctx, git.PRCreateOptions{
			Title:      titleOf(opts.Description),
			Body:       opts.Body,
			BaseBranch: opts.BaseBranch,
			HeadBranch: branch,
			Draft:      opts.Draft,
		})
		if err != nil {
			return nil, w.rollback(ctx, logger, actionStash, "", prferrors.Wrap(err, "creating pull request"))
		}
		result.Message = fmt.Sprintf("created PR #%d for %s", pr.Number, branch)
	} else {
		result.Message = fmt.Sprintf("reusing PR #%d for %s", pr.Number, branch)
	}
	result.PRNumber = pr.Number
	result.PRURL = pr.URL

	// Restore any stash the action took: the user stays on this branch, so
	// the shelved edits go straight back.
	if actionStash != "" {
		if err := w.ops.StashPop(ctx, actionStash); err != nil {
			warning := fmt.Sprintf("stashed changes were not restored automatically; run 'git stash pop' (stash %s)", actionStash)
			logger.Warn().Err(err).Str("stash_ref", actionStash).Msg("stash pop failed after PR creation")
			result.Warnings = append(result.Warnings, warning)
		}
	}

	logger.Info().Int("pr_number", pr.Number).Str("branch", branch).Msg("current-branch workflow finished")
	return result, nil
}

// adoptExistingPR short-circuits into worktree-only setup when the target
// branch already exists remotely with an open PR. Runs before any mutation.
func (w *Workflow) adoptExistingPR(ctx context.Context, logger zerolog.Logger, branch string, result *Result, opts Options) (bool, error) {
	exists, err := w.hub.RemoteBranchExists(ctx, branch)
	if err != nil {
		return false, prferrors.Wrap(err, "checking remote branch")
	}
	if !exists {
		return false, nil
	}

	pr, err := w.hub.GetPRByBranch(ctx, branch)
	if err != nil {
		return false, prferrors.Wrap(err, "looking up existing PR")
	}
	if pr == nil || !pr.IsOpen() {
		return false, nil
	}

	logger.Info().Int("pr_number", pr.Number).Str("branch", branch).Msg("branch already has an open PR, setting up its worktree")

	wtPath, err := w.setupWorktreeForBranch(ctx, branch, opts)
	if err != nil {
		return false, err
	}

	result.PRNumber = pr.Number
	result.PRURL = pr.URL
	result.WorktreePath = wtPath
	result.Message = fmt.Sprintf("PR #%d already exists for %s; worktree ready", pr.Number, branch)
	return true, nil
}

// commitOnNewBranch commits staged work with the user's description, or
// creates the allowed-empty initializing commit for branches started at the
// origin base.
func (w *Workflow) commitOnNewBranch(ctx context.Context, action state.StateAction, description string) error {
	status, err := w.ops.Status(ctx)
	if err != nil {
		return prferrors.Wrap(err, "checking staged files")
	}

	if status.HasStagedChanges() {
		if _, err := w.ops.Commit(ctx, git.CommitOptions{Message: description}); err != nil {
			return prferrors.Wrap(err, "committing changes")
		}
		return nil
	}

	if action.BranchFrom == state.BranchFromOriginBase {
		if _, err := w.ops.Commit(ctx, git.CommitOptions{Message: description, AllowEmpty: true}); err != nil {
			return prferrors.Wrap(err, "creating initial commit")
		}
	}

	return nil
}

// applyStashInto applies a stash token into the new worktree and drops it.
// Failures downgrade to warnings: the stash stays recoverable by hand.
func (w *Workflow) applyStashInto(ctx context.Context, logger zerolog.Logger, result *Result, ref, wtPath string) {
	if ref == "" {
		return
	}
	if err := w.ops.StashApply(ctx, ref, wtPath); err != nil {
		logger.Warn().Err(err).Str("stash_ref", ref).Str("worktree", wtPath).Msg("could not apply stash into worktree")
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("changes remain stashed; run 'git stash pop' in %s (stash %s)", wtPath, ref))
		return
	}
	if err := w.ops.StashDrop(ctx, ref); err != nil {
		logger.Warn().Err(err).Str("stash_ref", ref).Msg("could not drop applied stash")
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("stash %s was applied but not dropped; run 'git stash drop %s'", ref, ref))
	}
}

// rollback is the compensating action for a failed run: pop the action's own
// stash (exactly once), surface the relocation stash as a warning, and
// propagate the original error. Pop failures are swallowed so the user sees
// the actual cause, and the stash stays recoverable.
func (w *Workflow) rollback(ctx context.Context, logger zerolog.Logger, actionStash, relocStash string, cause error) error {
	// The run may be failing because ctx was canceled; recovery still runs.
	ctx = context.WithoutCancel(ctx)

	if actionStash != "" {
		if err := w.ops.StashPop(ctx, actionStash); err != nil {
			logger.Warn().Err(err).Str("stash_ref", actionStash).
				Msg("rollback stash pop failed; stash preserved for manual recovery")
		} else {
			logger.Info().Str("stash_ref", actionStash).Msg("restored stashed changes after failure")
		}
	}
	if relocStash != "" {
		logger.Warn().Str("stash_ref", relocStash).
			Msg("unstaged changes remain stashed; run 'git stash pop' to restore them")
	}
	return cause
}

// titleOf reduces a multi-line description to a PR title.
func titleOf(description string) string {
	title, _, _ := strings.Cut(strings.TrimSpace(description), "\n")
	return strings.TrimSpace(title)
}

func applyDefaults(opts *Options) {
	if opts.BaseBranch == "" {
		opts.BaseBranch = constants.DefaultBaseBranch
	}
	if opts.Remote == "" {
		opts.Remote = constants.DefaultRemote
	}
	if opts.BranchPrefix == "" {
		opts.BranchPrefix = constants.DefaultBranchPrefix
	}
}
