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

func newAnalyzer(ops git.Runner) *state.Analyzer {
	return state.NewAnalyzer(ops, "origin", zerolog.Nop())
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	t.Run("clean main at base commit", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		st, err := newAnalyzer(ops).Analyze(context.Background(), "main")
		require.NoError(t, err)

		assert.Equal(t, "main", st.CurrentBranch)
		assert.True(t, st.OnBase())
		assert.True(t, st.SameAsBase)
		assert.False(t, st.Detached())
		assert.Equal(t, state.WorktreeMain, st.WorktreeKind)
		assert.Empty(t, st.Staged)
		assert.Empty(t, st.Unstaged)
		assert.Empty(t, st.LocalCommits)
	})

	t.Run("staged, unstaged and untracked files collected", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		ops.StatusValue = &git.Status{
			Staged:    []git.FileChange{{Path: "a.go", Status: git.ChangeModified}},
			Unstaged:  []git.FileChange{{Path: "b.go", Status: git.ChangeModified}},
			Untracked: []string{"c.txt"},
		}
		st, err := newAnalyzer(ops).Analyze(context.Background(), "main")
		require.NoError(t, err)

		assert.Equal(t, []string{"a.go"}, st.Staged)
		// Untracked files fold into the unstaged set.
		assert.Equal(t, []string{"b.go", "c.txt"}, st.Unstaged)
	})

	t.Run("branch ahead of base", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		ops.CurrentBranchValue = "feat/x"
		ops.HeadSHAValue = "headsha"
		ops.RevParseValues = map[string]string{"origin/main": "basesha"}
		ops.AheadValue = 2
		ops.LocalCommitsValue = []git.CommitSummary{
			{SHA: "c2", Subject: "second"},
			{SHA: "c1", Subject: "first"},
		}

		st, err := newAnalyzer(ops).Analyze(context.Background(), "main")
		require.NoError(t, err)

		assert.False(t, st.SameAsBase)
		assert.Equal(t, 2, st.Ahead)
		require.Len(t, st.LocalCommits, 2)
		assert.Equal(t, "c2", st.LocalCommits[0].SHA, "local commits are newest first")
	})

	t.Run("detached HEAD", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		ops.CurrentBranchValue = ""
		st, err := newAnalyzer(ops).Analyze(context.Background(), "main")
		require.NoError(t, err)
		assert.True(t, st.Detached())
	})

	t.Run("PR worktree detected from admin name", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		ops.LinkedNameValue = "pr-feat-login"
		st, err := newAnalyzer(ops).Analyze(context.Background(), "main")
		require.NoError(t, err)
		assert.Equal(t, state.WorktreePR, st.WorktreeKind)
	})

	t.Run("other linked worktree", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		ops.LinkedNameValue = "scratch"
		st, err := newAnalyzer(ops).Analyze(context.Background(), "main")
		require.NoError(t, err)
		assert.Equal(t, state.WorktreeOther, st.WorktreeKind)
	})

	t.Run("missing remote base treated as same commit", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		ops.Fail["RevParse"] = errors.New("unknown revision")
		st, err := newAnalyzer(ops).Analyze(context.Background(), "main")
		require.NoError(t, err)
		assert.True(t, st.SameAsBase)
		assert.Empty(t, st.LocalCommits)
	})

	t.Run("status failure propagates", func(t *testing.T) {
		t.Parallel()
		ops := git.NewMockRunner()
		ops.Fail["Status"] = errors.New("broken repo")
		_, err := newAnalyzer(ops).Analyze(context.Background(), "main")
		assert.Error(t, err)
	})
}

// TestAnalyzeIdempotence verifies two analyses of an unchanged repository
// produce equal snapshots.
func TestAnalyzeIdempotence(t *testing.T) {
	t.Parallel()

	ops := git.NewMockRunner()
	ops.CurrentBranchValue = "feat/x"
	ops.HeadSHAValue = "headsha"
	ops.RevParseValues = map[string]string{"origin/main": "basesha"}
	ops.AheadValue = 1
	ops.LocalCommitsValue = []git.CommitSummary{{SHA: "c1", Subject: "first"}}
	ops.StatusValue = &git.Status{
		Staged:    []git.FileChange{{Path: "a.go", Status: git.ChangeModified}},
		Unstaged:  []git.FileChange{},
		Untracked: []string{},
	}

	analyzer := newAnalyzer(ops)
	first, err := analyzer.Analyze(context.Background(), "main")
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), "main")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestAnalyzeReadOnly verifies the analyzer never calls a mutating operation.
func TestAnalyzeReadOnly(t *testing.T) {
	t.Parallel()

	ops := git.NewMockRunner()
	_, err := newAnalyzer(ops).Analyze(context.Background(), "main")
	require.NoError(t, err)

	mutating := []string{"Add", "Stash", "StashPop", "StashApply", "StashDrop",
		"Commit", "Push", "Checkout", "CreateBranch", "AddWorktree", "Fetch"}
	for _, method := range mutating {
		assert.Empty(t, ops.CallsFor(method), "analyzer must not call %s", method)
	}
}
