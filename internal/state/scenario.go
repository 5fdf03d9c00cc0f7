// Package state implements repository situation analysis for prflow.
// This file defines the closed Scenario enumeration and the classifier.
package state

// Scenario is the classified kind of situation the working tree is in.
// The set is closed: Classify maps every reachable GitState to exactly one
// of these values, and switch sites over Scenario must stay exhaustive.
type Scenario string

// The twelve scenarios.
const (
	// ScenarioMainCleanSame: on base, at the remote base commit, clean tree.
	ScenarioMainCleanSame Scenario = "main_clean_same"
	// ScenarioMainStagedSame: on base at the base commit with only staged changes.
	ScenarioMainStagedSame Scenario = "main_staged_same"
	// ScenarioMainUnstagedSame: on base at the base commit with only unstaged changes.
	ScenarioMainUnstagedSame Scenario = "main_unstaged_same"
	// ScenarioMainBothSame: on base at the base commit with staged and unstaged changes.
	ScenarioMainBothSame Scenario = "main_both_same"
	// ScenarioMainCleanAhead: on base with local commits and a clean tree.
	ScenarioMainCleanAhead Scenario = "main_clean_ahead"
	// ScenarioMainChangesAhead: on base with local commits and any uncommitted changes.
	ScenarioMainChangesAhead Scenario = "main_changes_ahead"
	// ScenarioBranchSameAsMain: on a feature branch pointing at the base commit.
	ScenarioBranchSameAsMain Scenario = "branch_same_as_main"
	// ScenarioBranchAncestor: on a feature branch already merged into base.
	ScenarioBranchAncestor Scenario = "branch_ancestor"
	// ScenarioBranchDivergent: on a feature branch with its own commits, clean tree.
	ScenarioBranchDivergent Scenario = "branch_divergent"
	// ScenarioBranchWithChanges: on a feature branch with uncommitted changes.
	ScenarioBranchWithChanges Scenario = "branch_with_changes"
	// ScenarioDetachedHead: no branch checked out.
	ScenarioDetachedHead Scenario = "detached_head"
	// ScenarioPRWorktree: running inside a prflow-created PR worktree.
	ScenarioPRWorktree Scenario = "pr_worktree"
)

// Scenarios lists every scenario value, in classification-table order.
func Scenarios() []Scenario {
	return []Scenario{
		ScenarioMainCleanSame,
		ScenarioMainStagedSame,
		ScenarioMainUnstagedSame,
		ScenarioMainBothSame,
		ScenarioMainCleanAhead,
		ScenarioMainChangesAhead,
		ScenarioBranchSameAsMain,
		ScenarioBranchAncestor,
		ScenarioBranchDivergent,
		ScenarioBranchWithChanges,
		ScenarioDetachedHead,
		ScenarioPRWorktree,
	}
}

// Classify maps a GitState to its Scenario. Pure, total and deterministic:
// it never errors and never returns a value outside the closed set.
//
// Precedence, first match wins:
//  1. A PR worktree is always pr_worktree, even when it happens to sit at
//     the base commit.
//  2. Detached HEAD.
//  3. On the base branch: sub-classified by (same commit vs local commits)
//     x (clean / staged only / unstaged only / both). Once local commits
//     exist, staged vs unstaged no longer matters: the next step is
//     "deal with the existing commits" either way.
//  4. On a feature branch: uncommitted changes dominate commit divergence;
//     a clean branch is same-as-base, already merged, or divergent.
func Classify(st *GitState) Scenario {
	if st.WorktreeKind == WorktreePR {
		return ScenarioPRWorktree
	}

	if st.Detached() {
		return ScenarioDetachedHead
	}

	if st.OnBase() {
		return classifyOnBase(st)
	}

	return classifyOnBranch(st)
}

// classifyOnBase handles the base-branch sub-grid.
func classifyOnBase(st *GitState) Scenario {
	if st.HasLocalCommits() {
		if st.HasUncommittedChanges() {
			return ScenarioMainChangesAhead
		}
		return ScenarioMainCleanAhead
	}

	switch {
	case st.HasStagedChanges() && st.HasUnstagedChanges():
		return ScenarioMainBothSame
	case st.HasStagedChanges():
		return ScenarioMainStagedSame
	case st.HasUnstagedChanges():
		return ScenarioMainUnstagedSame
	default:
		return ScenarioMainCleanSame
	}
}

// classifyOnBranch handles non-base branches.
func classifyOnBranch(st *GitState) Scenario {
	// Dirty feature branches always classify as branch_with_changes: the
	// action set for that scenario still covers any existing commits.
	if st.HasUncommittedChanges() {
		return ScenarioBranchWithChanges
	}

	switch {
	case st.SameAsBase:
		return ScenarioBranchSameAsMain
	case st.AncestorOfBase:
		return ScenarioBranchAncestor
	default:
		return ScenarioBranchDivergent
	}
}
