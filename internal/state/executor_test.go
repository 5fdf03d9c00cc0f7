package state_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/prflow/internal/git"
	"github.com/mrz1836/prflow/internal/state"
)

func newExecutor(ops git.Runner) *state.Executor {
	return state.NewExecutor(ops, "origin", zerolog.Nop())
}

// TestExecuteSideEffectContracts pins the per-action side-effect table:
// which git operations run before branch creation, and whether a stash
// reference is produced.
func TestExecuteSideEffectContracts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		key        state.ActionKey
		wantCalls  []string
		wantStash  bool
	}{
		{
			name:      "empty_commit has no side effects",
			key:       state.ActionEmptyCommit,
			wantCalls: nil,
		},
		{
			name:      "commit_staged has no side effects",
			key:       state.ActionCommitStaged,
			wantCalls: nil,
		},
		{
			name:      "use_commits has no side effects",
			key:       state.ActionUseCommits,
			wantCalls: nil,
		},
		{
			name:      "branch_from_detached has no side effects",
			key:       state.ActionBranchFromDetached,
			wantCalls: nil,
		},
		{
			name:      "create_pr_for_branch has no side effects",
			key:       state.ActionCreatePRForBranch,
			wantCalls: nil,
		},
		{
			name:      "commit_all stages everything",
			key:       state.ActionCommitAll,
			wantCalls: []string{"Add ."},
		},
		{
			name:      "use_commits_and_commit_all stages everything",
			key:       state.ActionUseCommitsAndCommitAll,
			wantCalls: []string{"Add ."},
		},
		{
			name:      "stash_and_empty stashes",
			key:       state.ActionStashAndEmpty,
			wantStash: true,
		},
		{
			name:      "use_commits_and_stash stashes",
			key:       state.ActionUseCommitsAndStash,
			wantStash: true,
		},
		{
			name:      "pr_for_branch_stash stashes",
			key:       state.ActionPRForBranchStash,
			wantStash: true,
		},
		{
			name:      "push_then_branch pushes the current branch",
			key:       state.ActionPushThenBranch,
			wantCalls: []string{"CurrentBranch", "Push origin main setUpstream=false"},
		},
		{
			name:      "pr_for_branch_commit_all stages and commits WIP",
			key:       state.ActionPRForBranchCommitAll,
			wantCalls: []string{"Add .", "Commit work in progress allowEmpty=false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ops := git.NewMockRunner()
			exec := newExecutor(ops)

			result, err := exec.Execute(context.Background(), state.StateAction{Key: tt.key},
				"Add login flow", "feat/add-login-flow")
			require.NoError(t, err)
			assert.True(t, result.Success)

			if tt.wantStash {
				assert.NotEmpty(t, result.StashRef, "contract says this action stashes")
				require.Len(t, ops.CallsFor("Stash"), 1)
			} else {
				assert.Empty(t, result.StashRef, "contract says this action takes no stash")
				assert.Empty(t, ops.CallsFor("Stash"))
			}

			if tt.wantCalls != nil {
				assert.Equal(t, tt.wantCalls, ops.Calls())
			}
		})
	}
}

func TestExecuteStashMessages(t *testing.T) {
	t.Parallel()

	t.Run("stash_and_empty message names the target branch", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		exec := newExecutor(ops)

		_, err := exec.Execute(context.Background(),
			state.StateAction{Key: state.ActionStashAndEmpty, BranchFrom: state.BranchFromOriginBase},
			"desc", "feat/target")
		require.NoError(t, err)

		calls := ops.CallsFor("Stash")
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0], "feat/target")
	})

	t.Run("nothing to stash yields empty ref and success", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		ops.NothingToStash = true
		exec := newExecutor(ops)

		result, err := exec.Execute(context.Background(),
			state.StateAction{Key: state.ActionUseCommitsAndStash}, "desc", "feat/x")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Empty(t, result.StashRef)
	})
}

func TestExecuteFailures(t *testing.T) {
	t.Parallel()

	t.Run("dependency error surfaces with context", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		ops.Fail["Add"] = errors.New("index locked")
		exec := newExecutor(ops)

		result, err := exec.Execute(context.Background(),
			state.StateAction{Key: state.ActionCommitAll}, "desc", "feat/x")
		require.Error(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "staging all changes")
		assert.Contains(t, result.Message, "index locked")
	})

	t.Run("stash failure reports no ref", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		ops.Fail["Stash"] = errors.New("disk full")
		exec := newExecutor(ops)

		result, err := exec.Execute(context.Background(),
			state.StateAction{Key: state.ActionStashAndEmpty}, "desc", "feat/x")
		require.Error(t, err)
		assert.False(t, result.Success)
		assert.Empty(t, result.StashRef)
	})

	t.Run("push failure names the branch", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		ops.Fail["Push"] = errors.New("remote rejected")
		exec := newExecutor(ops)

		result, err := exec.Execute(context.Background(),
			state.StateAction{Key: state.ActionPushThenBranch}, "desc", "feat/x")
		require.Error(t, err)
		assert.Contains(t, result.Message, "pushing main")
	})

	t.Run("canceled context short-circuits", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ops := git.NewMockRunner()
		exec := newExecutor(ops)

		result, err := exec.Execute(ctx, state.StateAction{Key: state.ActionEmptyCommit}, "d", "b")
		require.Error(t, err)
		assert.False(t, result.Success)
		assert.Empty(t, ops.Calls())
	})
}
