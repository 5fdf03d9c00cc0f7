package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/prflow/internal/config"
	prferrors "github.com/mrz1836/prflow/internal/errors"
	"github.com/mrz1836/prflow/internal/git"
	"github.com/mrz1836/prflow/internal/state"
	"github.com/mrz1836/prflow/internal/tui"
)

// AddStateCommand registers the state command on the root.
func AddStateCommand(root *cobra.Command, global *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the classified repository state and available actions",
		Long: `State analyzes the repository without changing anything and reports the
detected scenario, the working tree contents, and the actions prflow would
offer for it. Use --output json for scripting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return prferrors.Wrap(err, "resolving working directory")
			}
			ops, err := git.NewRunnerWithTimeout(cmd.Context(), cwd, cfg.Git.Timeout)
			if err != nil {
				return err
			}
			return runState(cmd.Context(), cmd.OutOrStdout(), global.Output, ops, cfg)
		},
	}

	root.AddCommand(cmd)
}

// runState performs the read-only analysis and renders it.
func runState(ctx context.Context, out io.Writer, format string, ops git.Runner, cfg *config.Config) error {
	logger := GetLogger()

	st, err := state.NewAnalyzer(ops, cfg.Git.Remote, logger).Analyze(ctx, cfg.Git.BaseBranch)
	if err != nil {
		return prferrors.Wrap(err, "analyzing repository state")
	}
	scenario := state.Classify(st)
	sctx := state.ResolveContext(scenario, st, cfg.Git.BaseBranch)

	if format == OutputJSON {
		return writeJSON(out, statePayload(st, scenario, sctx))
	}
	renderStateText(out, st, scenario, sctx)
	return nil
}

// statePayload shapes the analysis for JSON output.
func statePayload(st *state.GitState, scenario state.Scenario, sctx *state.ScenarioContext) map[string]any {
	payload := map[string]any{
		"scenario":       string(scenario),
		"current_branch": st.CurrentBranch,
		"base_branch":    st.BaseBranch,
		"detached":       st.Detached(),
		"same_as_base":   st.SameAsBase,
		"ahead":          st.Ahead,
		"behind":         st.Behind,
		"staged":         st.Staged,
		"unstaged":       st.Unstaged,
		"worktree_kind":  string(st.WorktreeKind),
	}

	commits := make([]map[string]string, 0, len(st.LocalCommits))
	for _, c := range st.LocalCommits {
		commits = append(commits, map[string]string{"sha": c.SHA, "subject": c.Subject})
	}
	payload["local_commits"] = commits

	actions := []map[string]any{}
	if sctx != nil {
		for _, choice := range sctx.Choices {
			if choice.Action == nil {
				continue
			}
			actions = append(actions, map[string]any{
				"key":         string(choice.Action.Key),
				"label":       choice.Label,
				"recommended": len(actions) == 0,
			})
		}
	}
	payload["actions"] = actions

	return payload
}

// renderStateText renders the analysis for humans.
func renderStateText(out io.Writer, st *state.GitState, scenario state.Scenario, sctx *state.ScenarioContext) {
	tui.CheckNoColor()

	fmt.Fprintln(out, tui.StyleHeading.Render("Repository state"))
	fmt.Fprintf(out, "  scenario: %s\n", scenario)
	if st.Detached() {
		fmt.Fprintf(out, "  branch:   %s\n", tui.StyleWarning.Render("(detached HEAD)"))
	} else {
		fmt.Fprintf(out, "  branch:   %s\n", st.CurrentBranch)
	}
	fmt.Fprintf(out, "  base:     %s (ahead %d, behind %d)\n", st.BaseBranch, st.Ahead, st.Behind)

	if len(st.Staged) > 0 {
		fmt.Fprintf(out, "  staged:   %d file(s)\n", len(st.Staged))
	}
	if len(st.Unstaged) > 0 {
		fmt.Fprintf(out, "  unstaged: %d file(s)\n", len(st.Unstaged))
	}
	if len(st.LocalCommits) > 0 {
		fmt.Fprintln(out, tui.StyleHeading.Render("Local commits"))
		for _, c := range st.LocalCommits {
			fmt.Fprintf(out, "  %s %s\n", tui.StyleMuted.Render(c.SHA), c.Subject)
		}
	}

	fmt.Fprintln(out, tui.StyleHeading.Render("Available actions"))
	if sctx == nil {
		fmt.Fprintln(out, tui.StyleWarning.Render("  none: this is a PR worktree; switch to the main checkout"))
		return
	}
	first := true
	for _, choice := range sctx.Choices {
		if choice.Action == nil {
			continue
		}
		marker := " "
		if first {
			marker = tui.StyleSuccess.Render("*")
			first = false
		}
		fmt.Fprintf(out, "  %s %s  %s\n", marker, choice.Action.Key, tui.StyleMuted.Render(choice.Label))
	}
}
