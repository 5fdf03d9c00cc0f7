package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/prflow/internal/config"
	prferrors "github.com/mrz1836/prflow/internal/errors"
	"github.com/mrz1836/prflow/internal/git"
	"github.com/mrz1836/prflow/internal/state"
	"github.com/mrz1836/prflow/internal/tui"
	"github.com/mrz1836/prflow/internal/workflow"
)

// createFlags holds the flags of the create command.
type createFlags struct {
	branch    string
	base      string
	body      string
	draft     bool
	actionKey string
	yes       bool
}

// AddCreateCommand registers the create command on the root.
func AddCreateCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create <description>",
		Short: "Turn the current working tree into a branch, PR, and worktree",
		Long: `Create classifies the state of the repository, picks (or asks for) the way
to fold your current work into a new branch, then pushes the branch, opens
a pull request, and sets up a dedicated worktree for it.

Without --yes or --action, an interactive menu shows the available choices
for the detected situation, recommended choice first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), cmd.OutOrStdout(), global, flags, args[0],
				cmd.Flags().Changed("draft"))
		},
	}

	cmd.Flags().StringVarP(&flags.branch, "branch", "b", "", "branch name (default: generated from the description)")
	cmd.Flags().StringVar(&flags.base, "base", "", "base branch the PR targets (default: from config)")
	cmd.Flags().StringVar(&flags.body, "body", "", "PR body text")
	cmd.Flags().BoolVar(&flags.draft, "draft", false, "open the PR as a draft")
	cmd.Flags().StringVarP(&flags.actionKey, "action", "a", "", "run this action instead of showing the menu")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "take the recommended action without asking")

	root.AddCommand(cmd)
}

// runCreate loads config, builds the real git and GitHub runners, resolves
// the action (interactively unless --yes or --action), and runs the
// workflow.
func runCreate(ctx context.Context, out io.Writer, global *GlobalFlags, flags *createFlags, description string, draftSet bool) error {
	logger := GetLogger()

	cfg, err := config.LoadWithOverrides(&config.Config{
		Git: config.GitConfig{BaseBranch: flags.base},
	})
	if err != nil {
		return err
	}
	if draftSet {
		cfg.PR.Draft = flags.draft
	}

	cwd, err := os.Getwd()
	if err != nil {
		return prferrors.Wrap(err, "resolving working directory")
	}
	ops, err := git.NewRunnerWithTimeout(ctx, cwd, cfg.Git.Timeout)
	if err != nil {
		return err
	}
	repoRoot, err := ops.RepoRoot(ctx)
	if err != nil {
		return err
	}
	hub := git.NewHubRunnerWithTimeout(repoRoot, cfg.Git.Remote, cfg.PR.Timeout, logger)

	actionKey := state.ActionKey(flags.actionKey)
	if actionKey == "" && !flags.yes {
		actionKey, err = promptForAction(ctx, ops, cfg, logger)
		if err != nil {
			return err
		}
	}

	result, err := workflow.New(ops, hub, repoRoot, logger).Run(ctx, workflow.Options{
		Description:    description,
		Body:           flags.body,
		BranchName:     flags.branch,
		BaseBranch:     cfg.Git.BaseBranch,
		Remote:         cfg.Git.Remote,
		BranchPrefix:   cfg.Git.BranchPrefix,
		Draft:          cfg.PR.Draft,
		ActionKey:      actionKey,
		WorktreeParent: cfg.Worktree.Dir,
	})
	if err != nil {
		return err
	}

	return renderCreateResult(out, global.Output, result)
}

// promptForAction analyzes the repository and shows the scenario's choices
// in an interactive menu. Picking the cancel entry (or aborting the menu)
// returns ErrMenuCanceled, which exits zero without mutating anything.
func promptForAction(ctx context.Context, ops git.Runner, cfg *config.Config, logger zerolog.Logger) (state.ActionKey, error) {
	st, err := state.NewAnalyzer(ops, cfg.Git.Remote, logger).Analyze(ctx, cfg.Git.BaseBranch)
	if err != nil {
		return "", prferrors.Wrap(err, "analyzing repository state")
	}
	scenario := state.Classify(st)

	sctx := state.ResolveContext(scenario, st, cfg.Git.BaseBranch)
	if sctx == nil {
		return "", fmt.Errorf("scenario %q: %w", scenario, prferrors.ErrNoActionsAvailable)
	}

	options := make([]tui.Option, 0, len(sctx.Choices))
	for _, choice := range sctx.Choices {
		value := "" // empty value marks the cancel entry
		if choice.Action != nil {
			value = string(choice.Action.Key)
		}
		options = append(options, tui.Option{Label: choice.Label, Value: value})
	}

	selected, err := tui.Select(scenarioTitle(scenario), options)
	if err != nil {
		return "", err
	}
	if selected == "" {
		return "", prferrors.ErrMenuCanceled
	}
	return state.ActionKey(selected), nil
}

// scenarioTitle renders the menu title for a scenario.
func scenarioTitle(scenario state.Scenario) string {
	return fmt.Sprintf("Repository state: %s. How should this become a PR?", scenario)
}

// renderCreateResult writes the outcome in the requested output format.
func renderCreateResult(out io.Writer, format string, result *workflow.Result) error {
	if format == OutputJSON {
		return writeJSON(out, createResultPayload(result))
	}

	tui.CheckNoColor()
	fmt.Fprintln(out, tui.StyleSuccess.Render("✓ "+result.Message))
	fmt.Fprintf(out, "  %s %s\n", tui.StyleMuted.Render("branch:"), result.Branch)
	if result.PRURL != "" {
		fmt.Fprintf(out, "  %s %s\n", tui.StyleMuted.Render("pr:"), tui.StyleLink.Render(result.PRURL))
	}
	if result.WorktreePath != "" {
		fmt.Fprintf(out, "  %s %s\n", tui.StyleMuted.Render("worktree:"), result.WorktreePath)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(out, tui.StyleWarning.Render("! "+warning))
	}
	return nil
}

// createResultPayload shapes a workflow result for JSON output.
func createResultPayload(result *workflow.Result) map[string]any {
	payload := map[string]any{
		"scenario":  string(result.Scenario),
		"action":    string(result.Action),
		"branch":    result.Branch,
		"pr_number": result.PRNumber,
		"pr_url":    result.PRURL,
		"message":   result.Message,
	}
	if result.WorktreePath != "" {
		payload["worktree_path"] = result.WorktreePath
	}
	if len(result.Warnings) > 0 {
		payload["warnings"] = result.Warnings
	}
	return payload
}

// writeJSON writes v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
