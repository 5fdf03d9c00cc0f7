// Package state implements repository situation analysis for prflow.
// This file executes a chosen action's pre-branch side effects.
package state

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/prflow/internal/constants"
	"github.com/mrz1836/prflow/internal/ctxutil"
	prferrors "github.com/mrz1836/prflow/internal/errors"
	"github.com/mrz1836/prflow/internal/git"
)

// Executor runs the pre-branch-creation side effects of a StateAction.
// Branch creation, committing to the new branch, pushing, PR creation and
// worktree setup are the orchestrator's job, not the Executor's.
type Executor struct {
	ops    git.Runner
	remote string
	logger zerolog.Logger
}

// NewExecutor creates an Executor. remote defaults to "origin" when empty.
func NewExecutor(ops git.Runner, remote string, logger zerolog.Logger) *Executor {
	if remote == "" {
		remote = constants.DefaultRemote
	}
	return &Executor{
		ops:    ops,
		remote: remote,
		logger: logger.With().Str("component", "executor").Logger(),
	}
}

// Execute performs the action's declared pre-branch side effects and returns
// the result. StashRef is non-empty exactly when the action's contract takes
// a stash; the stash call is the step that produces the recovery handle, so
// a failed execution can never have created a stash it does not report.
//
// On a dependency error the result carries success=false and a
// "<context>: <error>" message; the same error is also returned.
func (e *Executor) Execute(ctx context.Context, action StateAction, description, targetBranch string) (ActionResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return failure("canceled", err)
	}

	e.logger.Debug().
		Str("action", string(action.Key)).
		Str("target_branch", targetBranch).
		Msg("executing pre-branch action")

	switch action.Key {
	case ActionEmptyCommit, ActionCommitStaged, ActionUseCommits,
		ActionBranchFromDetached, ActionCreatePRForBranch:
		// No pre-branch side effects.
		return ActionResult{Success: true, Message: "ready"}, nil

	case ActionCommitAll, ActionUseCommitsAndCommitAll:
		if err := e.ops.Add(ctx, nil); err != nil {
			return failure("staging all changes", err)
		}
		return ActionResult{Success: true, Message: "staged all changes"}, nil

	case ActionStashAndEmpty:
		return e.stashAll(ctx, fmt.Sprintf("%s: moving changes to %s", constants.StashMessagePrefix, targetBranch))

	case ActionUseCommitsAndStash, ActionPRForBranchStash:
		return e.stashAll(ctx, fmt.Sprintf("%s: shelved changes", constants.StashMessagePrefix))

	case ActionPushThenBranch:
		branch, err := e.ops.CurrentBranch(ctx)
		if err != nil {
			return failure("reading current branch", err)
		}
		if err := e.ops.Push(ctx, e.remote, branch, false); err != nil {
			return failure(fmt.Sprintf("pushing %s", branch), err)
		}
		return ActionResult{Success: true, Message: fmt.Sprintf("pushed %s to %s", branch, e.remote)}, nil

	case ActionPRForBranchCommitAll:
		if err := e.ops.Add(ctx, nil); err != nil {
			return failure("staging all changes", err)
		}
		if _, err := e.ops.Commit(ctx, git.CommitOptions{Message: constants.WIPCommitMessage}); err != nil {
			return failure("committing work in progress", err)
		}
		return ActionResult{Success: true, Message: "committed work in progress"}, nil
	}

	err := fmt.Errorf("action %q: %w", action.Key, prferrors.ErrUnknownAction)
	return ActionResult{Success: false, Message: err.Error()}, err
}

// stashAll stashes the full tree, untracked files included.
func (e *Executor) stashAll(ctx context.Context, message string) (ActionResult, error) {
	ref, err := e.ops.Stash(ctx, git.StashOptions{
		Message:          message,
		IncludeUntracked: true,
	})
	if err != nil {
		return failure("stashing changes", err)
	}
	if ref == "" {
		return ActionResult{Success: true, Message: "nothing to stash"}, nil
	}
	e.logger.Debug().Str("stash_ref", ref).Msg("created stash")
	return ActionResult{Success: true, Message: "stashed changes", StashRef: ref}, nil
}

func failure(context string, err error) (ActionResult, error) {
	wrapped := fmt.Errorf("%s: %w", context, err)
	return ActionResult{Success: false, Message: wrapped.Error()}, wrapped
}
