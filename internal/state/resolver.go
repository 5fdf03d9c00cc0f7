// Package state implements repository situation analysis for prflow.
// This file resolves the ranked choices available in each scenario.
package state

import (
	"fmt"

	prferrors "github.com/mrz1836/prflow/internal/errors"
)

// ResolveContext returns the ordered choices for a scenario. Index 0 is the
// recommended default. Returns nil for scenarios with no well-defined
// automatic handling (pr_worktree): callers must treat nil as "no actions
// available, require explicit instruction".
//
// The ordering is stable: for a fixed (scenario, state, baseBranch) the same
// list comes back every call.
func ResolveContext(scenario Scenario, _ *GitState, baseBranch string) *ScenarioContext {
	var choices []Choice

	switch scenario {
	case ScenarioMainCleanSame:
		choices = []Choice{
			action(ActionEmptyCommit, BranchFromOriginBase, false,
				"Create a new branch with an empty starting commit"),
			cancel(),
		}

	case ScenarioMainStagedSame:
		choices = []Choice{
			action(ActionCommitStaged, BranchFromHead, false,
				"Commit the staged changes to a new branch"),
			action(ActionStashAndEmpty, BranchFromOriginBase, false,
				"Stash everything and start the branch empty"),
			cancel(),
		}

	case ScenarioMainUnstagedSame:
		choices = []Choice{
			action(ActionCommitAll, BranchFromHead, false,
				"Stage and commit all changes to a new branch"),
			action(ActionStashAndEmpty, BranchFromOriginBase, false,
				"Stash everything and start the branch empty"),
			cancel(),
		}

	case ScenarioMainBothSame:
		choices = []Choice{
			// Unstaged edits follow the new worktree via a relocation stash.
			action(ActionCommitStaged, BranchFromHead, true,
				"Commit staged changes; unstaged changes follow the new worktree"),
			action(ActionCommitAll, BranchFromHead, false,
				"Stage and commit everything to a new branch"),
			action(ActionStashAndEmpty, BranchFromOriginBase, false,
				"Stash everything and start the branch empty"),
			cancel(),
		}

	case ScenarioMainCleanAhead:
		choices = []Choice{
			action(ActionUseCommits, BranchFromHead, false,
				fmt.Sprintf("Move the local commits to a new branch off %s", baseBranch)),
			action(ActionPushThenBranch, BranchFromHead, false,
				fmt.Sprintf("Push %s first, then branch from it", baseBranch)),
			cancel(),
		}

	case ScenarioMainChangesAhead:
		choices = []Choice{
			action(ActionUseCommitsAndCommitAll, BranchFromHead, false,
				"Use the local commits and commit all current changes"),
			action(ActionUseCommitsAndStash, BranchFromHead, false,
				"Use the local commits and stash the current changes"),
			cancel(),
		}

	case ScenarioBranchSameAsMain:
		choices = []Choice{
			action(ActionEmptyCommit, BranchFromOriginBase, false,
				fmt.Sprintf("This branch matches %s; start fresh with an empty commit", baseBranch)),
			cancel(),
		}

	case ScenarioBranchAncestor:
		choices = []Choice{
			action(ActionEmptyCommit, BranchFromOriginBase, false,
				fmt.Sprintf("This branch is already merged into %s; start fresh with an empty commit", baseBranch)),
			cancel(),
		}

	case ScenarioBranchDivergent:
		choices = []Choice{
			action(ActionCreatePRForBranch, BranchFromHead, false,
				"Create a PR for this branch as it is"),
			cancel(),
		}

	case ScenarioBranchWithChanges:
		choices = []Choice{
			action(ActionPRForBranchCommitAll, BranchFromHead, false,
				"Commit everything onto this branch and create its PR"),
			action(ActionPRForBranchStash, BranchFromHead, false,
				"Stash the changes and create a PR for the committed state"),
			cancel(),
		}

	case ScenarioDetachedHead:
		choices = []Choice{
			action(ActionBranchFromDetached, BranchFromHead, false,
				"Create a branch from the current detached HEAD"),
			cancel(),
		}

	case ScenarioPRWorktree:
		return nil
	}

	return &ScenarioContext{Scenario: scenario, Choices: choices}
}

// SelectAction validates a caller-supplied action key against the currently
// available choices. Keys outside the closed set yield ErrUnknownAction;
// valid keys not offered in this scenario yield ErrActionNotAvailable rather
// than a silent substitution.
func SelectAction(c *ScenarioContext, key ActionKey) (*StateAction, error) {
	if !key.IsValid() {
		return nil, fmt.Errorf("action %q: %w", key, prferrors.ErrUnknownAction)
	}
	if c == nil {
		return nil, fmt.Errorf("action %q: %w", key, prferrors.ErrNoActionsAvailable)
	}
	for _, choice := range c.Choices {
		if choice.Action != nil && choice.Action.Key == key {
			return choice.Action, nil
		}
	}
	return nil, fmt.Errorf("action %q in scenario %q: %w", key, c.Scenario, prferrors.ErrActionNotAvailable)
}

func action(key ActionKey, from BranchSource, stashUnstaged bool, label string) Choice {
	return Choice{
		Label: label,
		Action: &StateAction{
			Key:           key,
			BranchFrom:    from,
			StashUnstaged: stashUnstaged,
		},
	}
}

func cancel() Choice {
	return Choice{Label: "Cancel"}
}
