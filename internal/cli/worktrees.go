package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/prflow/internal/config"
	"github.com/mrz1836/prflow/internal/constants"
	prferrors "github.com/mrz1836/prflow/internal/errors"
	"github.com/mrz1836/prflow/internal/git"
	"github.com/mrz1836/prflow/internal/tui"
)

// AddWorktreesCommand registers the worktrees command on the root.
func AddWorktreesCommand(root *cobra.Command, global *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "worktrees",
		Short: "List the PR worktrees of this repository",
		Args:  cobra.NoArgs,
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
			return runWorktrees(cmd.Context(), cmd.OutOrStdout(), global.Output, ops)
		},
	}

	root.AddCommand(cmd)
}

// runWorktrees lists linked worktrees, marking the ones prflow created.
// The listing goes by directory name prefix; this is display only, the
// safety checks elsewhere use the worktree's admin area name instead.
func runWorktrees(ctx context.Context, out io.Writer, format string, ops git.Runner) error {
	entries, err := ops.Worktrees(ctx)
	if err != nil {
		return prferrors.Wrap(err, "listing worktrees")
	}

	type worktreeRow struct {
		Path   string `json:"path"`
		Branch string `json:"branch"`
		Head   string `json:"head"`
		IsPR   bool   `json:"is_pr"`
	}

	rows := make([]worktreeRow, 0, len(entries))
	for i, entry := range entries {
		if i == 0 {
			// First entry is the main checkout.
			continue
		}
		branch := entry.Branch
		if entry.Detached {
			branch = "(detached)"
		}
		rows = append(rows, worktreeRow{
			Path:   entry.Path,
			Branch: branch,
			Head:   entry.Head,
			IsPR:   strings.HasPrefix(filepath.Base(entry.Path), constants.WorktreeNamePrefix),
		})
	}

	if format == OutputJSON {
		return writeJSON(out, map[string]any{"worktrees": rows})
	}

	tui.CheckNoColor()
	if len(rows) == 0 {
		fmt.Fprintln(out, tui.StyleMuted.Render("no linked worktrees"))
		return nil
	}
	fmt.Fprintln(out, tui.StyleHeading.Render("Worktrees"))
	for _, row := range rows {
		marker := " "
		if row.IsPR {
			marker = tui.StyleSuccess.Render("*")
		}
		fmt.Fprintf(out, "  %s %s  %s\n", marker, row.Branch, tui.StyleMuted.Render(row.Path))
	}
	return nil
}
