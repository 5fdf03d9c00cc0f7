// Package state implements repository situation analysis for prflow.
// This file implements the read-only state analyzer.
package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/prflow/internal/constants"
	"github.com/mrz1836/prflow/internal/ctxutil"
	"github.com/mrz1836/prflow/internal/git"
)

// Analyzer produces GitState snapshots from an injected git.Runner.
// Analysis is strictly read-only: no analyzer call mutates the tree.
type Analyzer struct {
	ops    git.Runner
	remote string
	logger zerolog.Logger
}

// NewAnalyzer creates an Analyzer. remote defaults to "origin" when empty.
func NewAnalyzer(ops git.Runner, remote string, logger zerolog.Logger) *Analyzer {
	if remote == "" {
		remote = constants.DefaultRemote
	}
	return &Analyzer{
		ops:    ops,
		remote: remote,
		logger: logger.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze inspects the repository and returns a fresh GitState relative to
// baseBranch. Independent reads run concurrently; none of them mutates the
// repository, so this is safe per the single-writer model.
//
// A missing remote base ref (no origin/<baseBranch>) is treated as
// "same commit, no local-only history" rather than an error, so a healthy
// but not-yet-pushed repository still analyzes cleanly.
func (a *Analyzer) Analyze(ctx context.Context, baseBranch string) (*GitState, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if baseBranch == "" {
		baseBranch = constants.DefaultBaseBranch
	}

	st := &GitState{
		BaseBranch:   baseBranch,
		Staged:       []string{},
		Unstaged:     []string{},
		LocalCommits: []git.CommitSummary{},
	}
	baseRef := a.remote + "/" + baseBranch

	g, gctx := errgroup.WithContext(ctx)

	// Each goroutine writes to its own subset of fields.
	g.Go(func() error {
		branch, err := a.ops.CurrentBranch(gctx)
		if err != nil {
			return fmt.Errorf("reading current branch: %w", err)
		}
		st.CurrentBranch = branch
		return nil
	})

	g.Go(func() error {
		status, err := a.ops.Status(gctx)
		if err != nil {
			return fmt.Errorf("reading status: %w", err)
		}
		for _, fc := range status.Staged {
			st.Staged = append(st.Staged, fc.Path)
		}
		for _, fc := range status.Unstaged {
			st.Unstaged = append(st.Unstaged, fc.Path)
		}
		// Untracked files classify as unstaged work: they follow the
		// worktree and are equally at risk of being left behind.
		st.Unstaged = append(st.Unstaged, status.Untracked...)
		return nil
	})

	g.Go(func() error {
		kind, err := a.worktreeKind(gctx)
		if err != nil {
			return err
		}
		st.WorktreeKind = kind
		return nil
	})

	g.Go(func() error {
		return a.analyzeBaseRelationship(gctx, st, baseRef)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Debug().
		Str("branch", st.CurrentBranch).
		Str("worktree", string(st.WorktreeKind)).
		Bool("same_as_base", st.SameAsBase).
		Int("ahead", st.Ahead).
		Int("behind", st.Behind).
		Int("staged", len(st.Staged)).
		Int("unstaged", len(st.Unstaged)).
		Int("local_commits", len(st.LocalCommits)).
		Msg("repository state analyzed")

	return st, nil
}

// analyzeBaseRelationship fills the HEAD-vs-origin/<base> fields.
func (a *Analyzer) analyzeBaseRelationship(ctx context.Context, st *GitState, baseRef string) error {
	baseSHA, err := a.ops.RevParse(ctx, baseRef)
	if err != nil {
		// No remote base: nothing to compare against.
		a.logger.Debug().Str("ref", baseRef).Msg("remote base ref not found, treating HEAD as same commit")
		st.SameAsBase = true
		return nil
	}

	headSHA, err := a.ops.HeadSHA(ctx)
	if err != nil {
		return fmt.Errorf("resolving HEAD: %w", err)
	}

	if headSHA == baseSHA {
		st.SameAsBase = true
		return nil
	}

	ahead, behind, err := a.ops.AheadBehind(ctx, baseRef)
	if err != nil {
		return fmt.Errorf("counting ahead/behind: %w", err)
	}
	st.Ahead = ahead
	st.Behind = behind

	ancestor, err := a.ops.IsAncestor(ctx, "HEAD", baseRef)
	if err != nil {
		return fmt.Errorf("checking ancestry: %w", err)
	}
	st.AncestorOfBase = ancestor

	commits, err := a.ops.LocalCommits(ctx, baseRef)
	if err != nil {
		return fmt.Errorf("listing local commits: %w", err)
	}
	st.LocalCommits = commits

	return nil
}

// worktreeKind classifies the current checkout from worktree metadata.
// Linked worktrees whose administrative name carries the prflow prefix are
// PR worktrees; path names are deliberately not consulted.
func (a *Analyzer) worktreeKind(ctx context.Context) (WorktreeKind, error) {
	name, err := a.ops.LinkedWorktreeName(ctx)
	if err != nil {
		return "", fmt.Errorf("inspecting worktree metadata: %w", err)
	}
	switch {
	case name == "":
		return WorktreeMain, nil
	case strings.HasPrefix(name, constants.WorktreeNamePrefix):
		return WorktreePR, nil
	default:
		return WorktreeOther, nil
	}
}
