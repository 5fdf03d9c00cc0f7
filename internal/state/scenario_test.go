package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/prflow/internal/git"
	"github.com/mrz1836/prflow/internal/state"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	commits := []git.CommitSummary{{SHA: "c1", Subject: "first"}}

	tests := []struct {
		name     string
		st       *state.GitState
		expected state.Scenario
	}{
		{
			name: "main clean at base commit",
			st: &state.GitState{
				CurrentBranch: "main", BaseBranch: "main",
				WorktreeKind: state.WorktreeMain, SameAsBase: true,
			},
			expected: state.ScenarioMainCleanSame,
		},
		{
			name: "main staged only",
			st: &state.GitState{
				CurrentBranch: "main", BaseBranch: "main",
				WorktreeKind: state.WorktreeMain, SameAsBase: true,
				Staged: []string{"a.go"},
			},
			expected: state.ScenarioMainStagedSame,
		},
		{
			name: "main unstaged only",
			st: &state.GitState{
				CurrentBranch: "main", BaseBranch: "main",
				WorktreeKind: state.WorktreeMain, SameAsBase: true,
				Unstaged: []string{"b.go"},
			},
			expected: state.ScenarioMainUnstagedSame,
		},
		{
			name: "main staged and unstaged",
			st: &state.GitState{
				CurrentBranch: "main", BaseBranch: "main",
				WorktreeKind: state.WorktreeMain, SameAsBase: true,
				Staged: []string{"a.go"}, Unstaged: []string{"b.go"},
			},
			expected: state.ScenarioMainBothSame,
		},
		{
			name: "main clean with local commits",
			st: &state.GitState{
				CurrentBranch: "main", BaseBranch: "main",
				WorktreeKind: state.WorktreeMain, Ahead: 1,
				LocalCommits: commits,
			},
			expected: state.ScenarioMainCleanAhead,
		},
		{
			name: "main dirty with local commits collapses staged and unstaged",
			st: &state.GitState{
				CurrentBranch: "main", BaseBranch: "main",
				WorktreeKind: state.WorktreeMain, Ahead: 1,
				LocalCommits: commits, Staged: []string{"a.go"},
			},
			expected: state.ScenarioMainChangesAhead,
		},
		{
			name: "main unstaged with local commits also changes_ahead",
			st: &state.GitState{
				CurrentBranch: "main", BaseBranch: "main",
				WorktreeKind: state.WorktreeMain, Ahead: 2,
				LocalCommits: commits, Unstaged: []string{"b.go"},
			},
			expected: state.ScenarioMainChangesAhead,
		},
		{
			name: "feature branch at base commit",
			st: &state.GitState{
				CurrentBranch: "feat/x", BaseBranch: "main",
				WorktreeKind: state.WorktreeMain, SameAsBase: true,
			},
			expected: state.ScenarioBranchSameAsMain,
		},
		{
			name: "feature branch already merged",
			st: &state.GitState{
				CurrentBranch: "feat/x", BaseBranch: "main",
				WorktreeKind: state.WorktreeMain, AncestorOfBase: true, Behind: 2,
			},
			expected: state.ScenarioBranchAncestor,
		},
		{
			name: "feature branch with unique commits",
			st: &state.GitState{
				CurrentBranch: "feat/x", BaseBranch: "main",
				WorktreeKind: state.WorktreeMain, Ahead: 1, LocalCommits: commits,
			},
			expected: state.ScenarioBranchDivergent,
		},
		{
			name: "divergent and dirty classifies as branch_with_changes",
			st: &state.GitState{
				CurrentBranch: "feat/x", BaseBranch: "main",
				WorktreeKind: state.WorktreeMain, Ahead: 1, LocalCommits: commits,
				Unstaged: []string{"d.go"},
			},
			expected: state.ScenarioBranchWithChanges,
		},
		{
			name: "merged but dirty also branch_with_changes",
			st: &state.GitState{
				CurrentBranch: "feat/x", BaseBranch: "main",
				WorktreeKind: state.WorktreeMain, AncestorOfBase: true,
				Staged: []string{"a.go"},
			},
			expected: state.ScenarioBranchWithChanges,
		},
		{
			name: "detached HEAD",
			st: &state.GitState{
				BaseBranch:   "main",
				WorktreeKind: state.WorktreeMain,
			},
			expected: state.ScenarioDetachedHead,
		},
		{
			name: "PR worktree overrides everything",
			st: &state.GitState{
				CurrentBranch: "main", BaseBranch: "main",
				WorktreeKind: state.WorktreePR, SameAsBase: true,
			},
			expected: state.ScenarioPRWorktree,
		},
		{
			name: "PR worktree wins even when detached",
			st: &state.GitState{
				BaseBranch:   "main",
				WorktreeKind: state.WorktreePR,
			},
			expected: state.ScenarioPRWorktree,
		},
		{
			name: "other linked worktree classifies normally",
			st: &state.GitState{
				CurrentBranch: "feat/x", BaseBranch: "main",
				WorktreeKind: state.WorktreeOther, SameAsBase: true,
			},
			expected: state.ScenarioBranchSameAsMain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, state.Classify(tt.st))
		})
	}
}

// TestClassifyTotality sweeps a grid of states and verifies every one maps
// to a member of the closed scenario set without panicking.
func TestClassifyTotality(t *testing.T) {
	t.Parallel()

	known := map[state.Scenario]bool{}
	for _, s := range state.Scenarios() {
		known[s] = true
	}

	branches := []string{"", "main", "feat/x"}
	kinds := []state.WorktreeKind{state.WorktreeMain, state.WorktreePR, state.WorktreeOther}
	bools := []bool{false, true}

	for _, branch := range branches {
		for _, kind := range kinds {
			for _, same := range bools {
				for _, ancestor := range bools {
					for _, staged := range bools {
						for _, unstaged := range bools {
							for _, local := range bools {
								st := &state.GitState{
									CurrentBranch: branch,
									BaseBranch:    "main",
									WorktreeKind:  kind,
									SameAsBase:    same,
									AncestorOfBase: ancestor,
								}
								if staged {
									st.Staged = []string{"a.go"}
								}
								if unstaged {
									st.Unstaged = []string{"b.go"}
								}
								if local {
									st.LocalCommits = []git.CommitSummary{{SHA: "c1"}}
									st.Ahead = 1
								}
								got := state.Classify(st)
								assert.True(t, known[got], "state %+v produced unknown scenario %q", st, got)
							}
						}
					}
				}
			}
		}
	}
}
