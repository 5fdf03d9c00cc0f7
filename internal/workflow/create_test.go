package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prferrors "github.com/mrz1836/prflow/internal/errors"
	"github.com/mrz1836/prflow/internal/git"
	"github.com/mrz1836/prflow/internal/state"
)

// newTestWorkflow builds a workflow rooted in a per-test directory so
// parallel tests never share a run lock.
func newTestWorkflow(t *testing.T, ops git.Runner, hub git.HubRunner) (*Workflow, string) {
	t.Helper()
	repoRoot := filepath.Join(t.TempDir(), "widgets")
	return New(ops, hub, repoRoot, zerolog.Nop()), repoRoot
}

// expectedWorktree is where the workflow should place the worktree for a
// branch: a sibling of the repository root.
func expectedWorktree(repoRoot, branch string) string {
	return filepath.Join(filepath.Dir(repoRoot), "pr-"+strings.ReplaceAll(branch, "/", "-"))
}

// divergentBranchMock scripts a feature branch that is ahead of origin/main.
func divergentBranchMock() *git.MockRunner {
	ops := git.NewMockRunner()
	ops.CurrentBranchValue = "feat/login"
	ops.HeadSHAValue = "headsha"
	ops.RevParseValues = map[string]string{"origin/main": "basesha"}
	ops.AheadValue = 2
	ops.LocalCommitsValue = []git.CommitSummary{{SHA: "c1", Subject: "wip"}}
	return ops
}

func TestRunCleanMain(t *testing.T) {
	t.Parallel()

	ops := git.NewMockRunner()
	hub := git.NewMockHubRunner()
	wf, repoRoot := newTestWorkflow(t, ops, hub)

	result, err := wf.Run(context.Background(), Options{
		Description: "Add login flow",
	})
	require.NoError(t, err)

	wantWorktree := expectedWorktree(repoRoot, "feat/add-login-flow")

	assert.Equal(t, state.ScenarioMainCleanSame, result.Scenario)
	assert.Equal(t, state.ActionEmptyCommit, result.Action)
	assert.Equal(t, "feat/add-login-flow", result.Branch)
	assert.Equal(t, 42, result.PRNumber)
	assert.Equal(t, wantWorktree, result.WorktreePath)
	assert.Empty(t, result.Warnings)

	// Branch starts at the remote base and gets the initializing commit.
	assert.Equal(t, []string{"CreateBranch feat/add-login-flow origin/main"}, ops.CallsFor("CreateBranch"))
	assert.Equal(t, []string{"Commit Add login flow allowEmpty=true"}, ops.CallsFor("Commit"))
	assert.Equal(t, []string{"Push origin feat/add-login-flow setUpstream=true"}, ops.CallsFor("Push"))
	assert.Equal(t, []string{"Checkout main"}, ops.CallsFor("Checkout"))
	assert.Equal(t,
		[]string{"AddWorktree " + wantWorktree + " feat/add-login-flow create=false"},
		ops.CallsFor("AddWorktree"))
	assert.Contains(t, hub.Calls(), "CreatePR feat/add-login-flow main draft=false")
}

func TestRunStagedMain(t *testing.T) {
	t.Parallel()

	ops := git.NewMockRunner()
	ops.StatusValue = &git.Status{
		Staged:    []git.FileChange{{Path: "a.go", Status: git.ChangeModified}},
		Unstaged:  []git.FileChange{},
		Untracked: []string{},
	}
	hub := git.NewMockHubRunner()
	wf, _ := newTestWorkflow(t, ops, hub)

	result, err := wf.Run(context.Background(), Options{
		Description: "Fix parser",
	})
	require.NoError(t, err)

	assert.Equal(t, state.ActionCommitStaged, result.Action)
	// Staged work branches from HEAD and is committed with the description.
	assert.Equal(t, []string{"CreateBranch feat/fix-parser HEAD"}, ops.CallsFor("CreateBranch"))
	assert.Equal(t, []string{"Commit Fix parser allowEmpty=false"}, ops.CallsFor("Commit"))
	assert.Empty(t, ops.CallsFor("Stash"))
}

func TestRunMixedMainRelocatesUnstaged(t *testing.T) {
	t.Parallel()

	ops := git.NewMockRunner()
	ops.StatusValue = &git.Status{
		Staged:    []git.FileChange{{Path: "a.go", Status: git.ChangeModified}},
		Unstaged:  []git.FileChange{{Path: "b.go", Status: git.ChangeModified}},
		Untracked: []string{},
	}
	hub := git.NewMockHubRunner()
	wf, repoRoot := newTestWorkflow(t, ops, hub)

	result, err := wf.Run(context.Background(), Options{
		Description: "Fix parser",
	})
	require.NoError(t, err)
	assert.Equal(t, state.ScenarioMainBothSame, result.Scenario)

	wantWorktree := expectedWorktree(repoRoot, "feat/fix-parser")

	// The relocation stash keeps the index, then lands in the worktree.
	stashes := ops.CallsFor("Stash")
	require.Len(t, stashes, 1)
	assert.Contains(t, stashes[0], "keepIndex=true")
	assert.Equal(t, []string{"StashApply stash@{0} " + wantWorktree}, ops.CallsFor("StashApply"))
	assert.Equal(t, []string{"StashDrop stash@{0}"}, ops.CallsFor("StashDrop"))
	assert.Empty(t, ops.CallsFor("StashPop"))
}

func TestRunRollbackPopsActionStashOnce(t *testing.T) {
	t.Parallel()

	ops := git.NewMockRunner()
	ops.StatusValue = &git.Status{
		Staged:    []git.FileChange{},
		Unstaged:  []git.FileChange{{Path: "b.go", Status: git.ChangeModified}},
		Untracked: []string{},
	}
	ops.RevParseValues = map[string]string{"origin/main": "basesha"}
	ops.HeadSHAValue = "headsha"
	ops.AheadValue = 1
	ops.LocalCommitsValue = []git.CommitSummary{{SHA: "c1", Subject: "wip"}}
	hub := git.NewMockHubRunner()
	hub.Fail["CreatePR"] = errors.New("api down")
	wf, _ := newTestWorkflow(t, ops, hub)

	_, err := wf.Run(context.Background(), Options{
		Description: "Fix parser",
		ActionKey:   state.ActionUseCommitsAndStash,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating pull request")
	assert.Contains(t, err.Error(), "api down")

	assert.Equal(t, []string{"StashPop stash@{0}"}, ops.CallsFor("StashPop"))
	assert.Empty(t, ops.CallsFor("AddWorktree"))
	assert.Empty(t, ops.CallsFor("StashApply"))
}

func TestRunRollbackSwallowsPopFailure(t *testing.T) {
	t.Parallel()

	ops := git.NewMockRunner()
	ops.StatusValue = &git.Status{
		Staged:    []git.FileChange{},
		Unstaged:  []git.FileChange{{Path: "b.go", Status: git.ChangeModified}},
		Untracked: []string{},
	}
	ops.Fail["Push"] = errors.New("remote rejected")
	ops.Fail["StashPop"] = errors.New("conflict")
	hub := git.NewMockHubRunner()
	wf, _ := newTestWorkflow(t, ops, hub)

	_, err := wf.Run(context.Background(), Options{
		Description: "Fix parser",
		ActionKey:   state.ActionStashAndEmpty,
	})
	require.Error(t, err)
	// The push failure, not the pop failure, is what the caller sees.
	assert.Contains(t, err.Error(), "remote rejected")
	assert.Equal(t, []string{"StashPop stash@{0}"}, ops.CallsFor("StashPop"))
}

func TestRunBranchFailureHasNothingToRollBack(t *testing.T) {
	t.Parallel()

	ops := git.NewMockRunner()
	ops.Fail["CreateBranch"] = errors.New("branch exists")
	hub := git.NewMockHubRunner()
	wf, _ := newTestWorkflow(t, ops, hub)

	_, err := wf.Run(context.Background(), Options{
		Description: "Add login flow",
	})
	require.Error(t, err)
	assert.Empty(t, ops.CallsFor("StashPop"))
	assert.Empty(t, ops.CallsFor("Push"))
}

func TestRunAdoptsExistingPR(t *testing.T) {
	t.Parallel()

	ops := git.NewMockRunner()
	hub := git.NewMockHubRunner()
	hub.RemoteBranch = true
	hub.ExistingPR = &git.PR{Number: 7, URL: "https://github.com/acme/widgets/pull/7", State: "OPEN"}
	wf, repoRoot := newTestWorkflow(t, ops, hub)

	result, err := wf.Run(context.Background(), Options{
		Description: "Add login flow",
	})
	require.NoError(t, err)

	assert.Equal(t, 7, result.PRNumber)
	assert.Equal(t, expectedWorktree(repoRoot, "feat/add-login-flow"), result.WorktreePath)
	assert.Contains(t, result.Message, "already exists")

	// Worktree setup only: nothing was committed, pushed or stashed.
	assert.Equal(t, []string{"Fetch origin"}, ops.CallsFor("Fetch"))
	require.Len(t, ops.CallsFor("AddWorktree"), 1)
	assert.Empty(t, ops.CallsFor("Commit"))
	assert.Empty(t, ops.CallsFor("Push"))
	assert.Empty(t, ops.CallsFor("CreateBranch"))
	assert.Empty(t, ops.CallsFor("Stash"))
}

func TestRunAdoptCreatesLocalBranchWhenMissing(t *testing.T) {
	t.Parallel()

	ops := git.NewMockRunner()
	ops.BranchExistsValue = false
	hub := git.NewMockHubRunner()
	hub.RemoteBranch = true
	hub.ExistingPR = &git.PR{Number: 7, URL: "https://github.com/acme/widgets/pull/7", State: "OPEN"}
	wf, repoRoot := newTestWorkflow(t, ops, hub)

	_, err := wf.Run(context.Background(), Options{
		Description: "Add login flow",
	})
	require.NoError(t, err)

	wantWorktree := expectedWorktree(repoRoot, "feat/add-login-flow")
	assert.Equal(t,
		[]string{"AddWorktree " + wantWorktree + " feat/add-login-flow create=true"},
		ops.CallsFor("AddWorktree"))
}

func TestRunClosedPRIsNotAdopted(t *testing.T) {
	t.Parallel()

	ops := git.NewMockRunner()
	hub := git.NewMockHubRunner()
	hub.RemoteBranch = true
	hub.ExistingPR = &git.PR{Number: 7, State: "CLOSED"}
	wf, _ := newTestWorkflow(t, ops, hub)

	result, err := wf.Run(context.Background(), Options{
		Description: "Add login flow",
	})
	require.NoError(t, err)

	// Closed PR means the normal flow runs and a new PR is created.
	assert.Equal(t, 42, result.PRNumber)
	require.Len(t, ops.CallsFor("CreateBranch"), 1)
}

func TestRunCurrentBranchFlow(t *testing.T) {
	t.Parallel()

	t.Run("divergent branch gets a PR without a new branch", func(t *testing.T) {
		t.Parallel()
		ops := divergentBranchMock()
		hub := git.NewMockHubRunner()
		hub.ExistingPR = nil
		wf, _ := newTestWorkflow(t, ops, hub)

		result, err := wf.Run(context.Background(), Options{
			Description: "Add login flow",
		})
		require.NoError(t, err)

		assert.Equal(t, state.ScenarioBranchDivergent, result.Scenario)
		assert.Equal(t, state.ActionCreatePRForBranch, result.Action)
		assert.Equal(t, "feat/login", result.Branch)
		assert.Empty(t, result.WorktreePath)

		assert.Empty(t, ops.CallsFor("CreateBranch"))
		assert.Equal(t, []string{"Push origin feat/login setUpstream=true"}, ops.CallsFor("Push"))
	})

	t.Run("tracked branch pushes without -u", func(t *testing.T) {
		t.Parallel()
		ops := divergentBranchMock()
		ops.HasUpstreamValue = true
		hub := git.NewMockHubRunner()
		hub.ExistingPR = nil
		wf, _ := newTestWorkflow(t, ops, hub)

		_, err := wf.Run(context.Background(), Options{
			Description: "Add login flow",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Push origin feat/login setUpstream=false"}, ops.CallsFor("Push"))
	})

	t.Run("existing open PR is reused", func(t *testing.T) {
		t.Parallel()
		ops := divergentBranchMock()
		hub := git.NewMockHubRunner()
		hub.ExistingPR = &git.PR{Number: 9, URL: "https://github.com/acme/widgets/pull/9", State: "OPEN"}
		wf, _ := newTestWorkflow(t, ops, hub)

		result, err := wf.Run(context.Background(), Options{
			Description: "Add login flow",
		})
		require.NoError(t, err)

		assert.Equal(t, 9, result.PRNumber)
		assert.Contains(t, result.Message, "reusing")
		for _, call := range hub.Calls() {
			assert.NotContains(t, call, "CreatePR")
		}
	})

	t.Run("dirty branch stash is restored after the PR", func(t *testing.T) {
		t.Parallel()
		ops := divergentBranchMock()
		ops.StatusValue = &git.Status{
			Staged:    []git.FileChange{},
			Unstaged:  []git.FileChange{{Path: "b.go", Status: git.ChangeModified}},
			Untracked: []string{},
		}
		hub := git.NewMockHubRunner()
		hub.ExistingPR = nil
		wf, _ := newTestWorkflow(t, ops, hub)

		result, err := wf.Run(context.Background(), Options{
			Description: "Add login flow",
			ActionKey:   state.ActionPRForBranchStash,
		})
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)
		assert.Equal(t, []string{"StashPop stash@{0}"}, ops.CallsFor("StashPop"))
	})

	t.Run("failed restore becomes a warning", func(t *testing.T) {
		t.Parallel()
		ops := divergentBranchMock()
		ops.StatusValue = &git.Status{
			Staged:    []git.FileChange{},
			Unstaged:  []git.FileChange{{Path: "b.go", Status: git.ChangeModified}},
			Untracked: []string{},
		}
		ops.Fail["StashPop"] = errors.New("conflict")
		hub := git.NewMockHubRunner()
		hub.ExistingPR = nil
		wf, _ := newTestWorkflow(t, ops, hub)

		result, err := wf.Run(context.Background(), Options{
			Description: "Add login flow",
			ActionKey:   state.ActionPRForBranchStash,
		})
		require.NoError(t, err, "a stuck stash must not fail the run")
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "git stash pop")
	})
}

func TestRunValidation(t *testing.T) {
	t.Parallel()

	t.Run("empty description", func(t *testing.T) {
		t.Parallel()
		wf, _ := newTestWorkflow(t, git.NewMockRunner(), git.NewMockHubRunner())
		_, err := wf.Run(context.Background(), Options{})
		assert.ErrorIs(t, err, prferrors.ErrEmptyValue)
	})

	t.Run("action not offered for the scenario", func(t *testing.T) {
		t.Parallel()
		wf, _ := newTestWorkflow(t, git.NewMockRunner(), git.NewMockHubRunner())
		_, err := wf.Run(context.Background(), Options{
			Description: "Add login flow",
			ActionKey:   state.ActionCreatePRForBranch,
		})
		assert.ErrorIs(t, err, prferrors.ErrActionNotAvailable)
	})

	t.Run("pr worktree has no actions", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		ops.LinkedNameValue = "pr-feat-login"
		wf, _ := newTestWorkflow(t, ops, git.NewMockHubRunner())
		_, err := wf.Run(context.Background(), Options{Description: "Add login flow"})
		assert.ErrorIs(t, err, prferrors.ErrNoActionsAvailable)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ops := git.NewMockRunner()
		wf, _ := newTestWorkflow(t, ops, git.NewMockHubRunner())
		_, err := wf.Run(ctx, Options{Description: "x"})
		require.Error(t, err)
		assert.Empty(t, ops.Calls())
	})
}

func TestWorktreePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/work/pr-feat-login", worktreePath("/work/widgets", "feat/login", ""))
	assert.Equal(t, "/tmp/trees/pr-feat-login", worktreePath("/work/widgets", "feat/login", "/tmp/trees"))
}

func TestTitleOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Fix parser", titleOf("Fix parser"))
	assert.Equal(t, "Fix parser", titleOf("Fix parser\n\nLong body here."))
	assert.Equal(t, "Fix parser", titleOf("  Fix parser \n"))
}
