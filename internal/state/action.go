// Package state implements repository situation analysis for prflow.
// This file defines the closed action set and its types.
package state

// ActionKey names a strategy for turning the current scenario into a pushed
// branch plus PR. The set is closed; each key has one fixed side-effect
// contract executed by the Executor, and must not be extended ad hoc.
type ActionKey string

// The twelve action keys.
const (
	// ActionEmptyCommit branches from the base with an allowed-empty
	// initializing commit; nothing in the tree needs preserving.
	ActionEmptyCommit ActionKey = "empty_commit"
	// ActionCommitStaged commits only the staged changes onto the new branch.
	ActionCommitStaged ActionKey = "commit_staged"
	// ActionCommitAll stages everything, then commits onto the new branch.
	ActionCommitAll ActionKey = "commit_all"
	// ActionStashAndEmpty stashes the whole tree, then branches from the
	// base with an empty commit. The stash follows the new worktree.
	ActionStashAndEmpty ActionKey = "stash_and_empty"
	// ActionUseCommits reuses the local commits already sitting on base.
	ActionUseCommits ActionKey = "use_commits"
	// ActionPushThenBranch pushes the base branch first, then branches.
	ActionPushThenBranch ActionKey = "push_then_branch"
	// ActionUseCommitsAndCommitAll reuses local commits and folds all
	// uncommitted changes into a commit.
	ActionUseCommitsAndCommitAll ActionKey = "use_commits_and_commit_all"
	// ActionUseCommitsAndStash reuses local commits and stashes the
	// uncommitted changes.
	ActionUseCommitsAndStash ActionKey = "use_commits_and_stash"
	// ActionCreatePRForBranch creates a PR for the current branch as-is.
	ActionCreatePRForBranch ActionKey = "create_pr_for_branch"
	// ActionPRForBranchCommitAll commits everything onto the current branch
	// with a fixed work-in-progress message, then creates its PR.
	ActionPRForBranchCommitAll ActionKey = "pr_for_branch_commit_all"
	// ActionPRForBranchStash stashes the uncommitted changes, then creates
	// a PR for the current branch's committed state.
	ActionPRForBranchStash ActionKey = "pr_for_branch_stash"
	// ActionBranchFromDetached branches out from the current detached HEAD.
	ActionBranchFromDetached ActionKey = "branch_from_detached"
)

// ActionKeys lists every action key value.
func ActionKeys() []ActionKey {
	return []ActionKey{
		ActionEmptyCommit,
		ActionCommitStaged,
		ActionCommitAll,
		ActionStashAndEmpty,
		ActionUseCommits,
		ActionPushThenBranch,
		ActionUseCommitsAndCommitAll,
		ActionUseCommitsAndStash,
		ActionCreatePRForBranch,
		ActionPRForBranchCommitAll,
		ActionPRForBranchStash,
		ActionBranchFromDetached,
	}
}

// IsValid reports whether k is one of the closed action keys.
func (k ActionKey) IsValid() bool {
	for _, known := range ActionKeys() {
		if k == known {
			return true
		}
	}
	return false
}

// OperatesOnCurrentBranch reports whether the action works on the branch the
// user is already on instead of creating a new one. The orchestrator skips
// branch creation entirely for these.
func (k ActionKey) OperatesOnCurrentBranch() bool {
	switch k {
	case ActionCreatePRForBranch, ActionPRForBranchCommitAll, ActionPRForBranchStash:
		return true
	case ActionEmptyCommit, ActionCommitStaged, ActionCommitAll, ActionStashAndEmpty,
		ActionUseCommits, ActionPushThenBranch, ActionUseCommitsAndCommitAll,
		ActionUseCommitsAndStash, ActionBranchFromDetached:
		return false
	}
	return false
}

// BranchSource says where the new branch starts.
type BranchSource string

// Branch sources.
const (
	// BranchFromHead starts the new branch at the current HEAD.
	BranchFromHead BranchSource = "head"
	// BranchFromOriginBase starts the new branch at origin/<base>.
	BranchFromOriginBase BranchSource = "origin_main"
)

// StateAction is a chosen strategy plus the parameters the executor and
// orchestrator need to realize it.
type StateAction struct {
	// Key identifies the strategy.
	Key ActionKey
	// BranchFrom says where the new branch starts.
	BranchFrom BranchSource
	// StashUnstaged asks the orchestrator to relocate unstaged edits into
	// the new worktree via a separate stash, independent of any stash the
	// action itself takes.
	StashUnstaged bool
}

// BranchPoint resolves the ref the new branch starts at. Pure.
func BranchPoint(action StateAction, baseBranch string) string {
	if action.BranchFrom == BranchFromHead {
		return "HEAD"
	}
	return "origin/" + baseBranch
}

// Choice pairs a human-readable label with an optional action. A nil Action
// is an informational/no-op entry such as "cancel".
type Choice struct {
	// Label is the text shown to the user.
	Label string
	// Action is the strategy this choice selects, nil for no-op entries.
	Action *StateAction
}

// ScenarioContext is the resolved set of choices for a scenario, in
// recommendation order: index 0 is the default a non-interactive caller
// should take.
type ScenarioContext struct {
	// Scenario is the classified situation the choices apply to.
	Scenario Scenario
	// Choices is the ranked choice list.
	Choices []Choice
}

// Recommended returns the default choice's action, or nil when the context
// has no actionable default.
func (c *ScenarioContext) Recommended() *StateAction {
	if c == nil || len(c.Choices) == 0 {
		return nil
	}
	return c.Choices[0].Action
}

// ActionResult reports the outcome of executing an action's pre-branch side
// effects.
type ActionResult struct {
	// Success is false when a side effect failed.
	Success bool
	// Message describes what happened, including the failure context.
	Message string
	// StashRef is the recovery handle for the stash this execution created,
	// empty when the action's contract takes no stash. While non-empty it
	// must be either popped back on rollback or applied into the new
	// worktree and dropped; it is never silently discarded.
	StashRef string
}
