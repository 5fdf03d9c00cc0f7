// Package git provides Git and GitHub CLI operations for prflow.
// This file provides mock implementations of Runner and HubRunner for tests.
// They live outside _test.go files so the state and workflow packages can
// share them.
package git

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockRunner is a scriptable in-memory Runner. Every invocation is recorded
// in Calls as "Method arg1 arg2 ..." so tests can assert exact operation
// sequences. Errors are injected per method name via Fail.
type MockRunner struct {
	mu    sync.Mutex
	calls []string

	// Fail maps a method name ("CreateBranch", "Push", ...) to the error
	// that method should return.
	Fail map[string]error

	// StatusValue is returned by Status.
	StatusValue *Status
	// CurrentBranchValue is returned by CurrentBranch ("" = detached).
	CurrentBranchValue string
	// HeadSHAValue is returned by HeadSHA and Commit.
	HeadSHAValue string
	// AheadValue and BehindValue are returned by AheadBehind.
	AheadValue, BehindValue int
	// AncestorValue is returned by IsAncestor.
	AncestorValue bool
	// LocalCommitsValue is returned by LocalCommits.
	LocalCommitsValue []CommitSummary
	// StashRefValue is returned by Stash when there is something to stash.
	StashRefValue string
	// NothingToStash makes Stash return an empty ref.
	NothingToStash bool
	// BranchExistsValue is returned by BranchExists.
	BranchExistsValue bool
	// HasUpstreamValue is returned by HasUpstream.
	HasUpstreamValue bool
	// RevParseValues maps refs to SHAs for RevParse; unmapped refs
	// resolve to HeadSHAValue.
	RevParseValues map[string]string
	// WorktreesValue is returned by Worktrees.
	WorktreesValue []*WorktreeEntry
	// LinkedNameValue is returned by LinkedWorktreeName.
	LinkedNameValue string
}

// NewMockRunner returns a MockRunner with a clean-tree default state.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Fail:               map[string]error{},
		StatusValue:        &Status{Staged: []FileChange{}, Unstaged: []FileChange{}, Untracked: []string{}},
		CurrentBranchValue: "main",
		HeadSHAValue:       "abc1234",
		StashRefValue:      "stash@{0}",
	}
}

// Calls returns a copy of the recorded call log.
func (m *MockRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsFor returns the recorded calls for a single method.
func (m *MockRunner) CallsFor(method string) []string {
	var out []string
	for _, c := range m.Calls() {
		if c == method || strings.HasPrefix(c, method+" ") {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockRunner) record(method string, args ...string) error {
	m.mu.Lock()
	entry := method
	if len(args) > 0 {
		entry = method + " " + strings.Join(args, " ")
	}
	m.calls = append(m.calls, entry)
	err := m.Fail[method]
	m.mu.Unlock()
	return err
}

// Status implements Runner.
func (m *MockRunner) Status(_ context.Context) (*Status, error) {
	if err := m.record("Status"); err != nil {
		return nil, err
	}
	return m.StatusValue, nil
}

// Add implements Runner.
func (m *MockRunner) Add(_ context.Context, paths []string) error {
	spec := "."
	if len(paths) > 0 {
		spec = strings.Join(paths, " ")
	}
	return m.record("Add", spec)
}

// Stash implements Runner.
func (m *MockRunner) Stash(_ context.Context, opts StashOptions) (string, error) {
	if err := m.record("Stash", opts.Message, fmt.Sprintf("keepIndex=%t", opts.KeepIndex)); err != nil {
		return "", err
	}
	if m.NothingToStash {
		return "", nil
	}
	return m.StashRefValue, nil
}

// StashPop implements Runner.
func (m *MockRunner) StashPop(_ context.Context, ref string) error {
	return m.record("StashPop", ref)
}

// StashApply implements Runner.
func (m *MockRunner) StashApply(_ context.Context, ref, workDir string) error {
	return m.record("StashApply", ref, workDir)
}

// StashDrop implements Runner.
func (m *MockRunner) StashDrop(_ context.Context, ref string) error {
	return m.record("StashDrop", ref)
}

// Commit implements Runner.
func (m *MockRunner) Commit(_ context.Context, opts CommitOptions) (string, error) {
	if err := m.record("Commit", opts.Message, fmt.Sprintf("allowEmpty=%t", opts.AllowEmpty)); err != nil {
		return "", err
	}
	return m.HeadSHAValue, nil
}

// Push implements Runner.
func (m *MockRunner) Push(_ context.Context, remote, branch string, setUpstream bool) error {
	return m.record("Push", remote, branch, fmt.Sprintf("setUpstream=%t", setUpstream))
}

// Checkout implements Runner.
func (m *MockRunner) Checkout(_ context.Context, ref string) error {
	return m.record("Checkout", ref)
}

// CreateBranch implements Runner.
func (m *MockRunner) CreateBranch(_ context.Context, name, startPoint string) error {
	return m.record("CreateBranch", name, startPoint)
}

// BranchExists implements Runner.
func (m *MockRunner) BranchExists(_ context.Context, name string) (bool, error) {
	if err := m.record("BranchExists", name); err != nil {
		return false, err
	}
	return m.BranchExistsValue, nil
}

// CurrentBranch implements Runner.
func (m *MockRunner) CurrentBranch(_ context.Context) (string, error) {
	if err := m.record("CurrentBranch"); err != nil {
		return "", err
	}
	return m.CurrentBranchValue, nil
}

// HeadSHA implements Runner.
func (m *MockRunner) HeadSHA(_ context.Context) (string, error) {
	if err := m.record("HeadSHA"); err != nil {
		return "", err
	}
	return m.HeadSHAValue, nil
}

// RevParse implements Runner.
func (m *MockRunner) RevParse(_ context.Context, ref string) (string, error) {
	if err := m.record("RevParse", ref); err != nil {
		return "", err
	}
	if sha, ok := m.RevParseValues[ref]; ok {
		return sha, nil
	}
	return m.HeadSHAValue, nil
}

// AheadBehind implements Runner.
func (m *MockRunner) AheadBehind(_ context.Context, ref string) (int, int, error) {
	if err := m.record("AheadBehind", ref); err != nil {
		return 0, 0, err
	}
	return m.AheadValue, m.BehindValue, nil
}

// IsAncestor implements Runner.
func (m *MockRunner) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	if err := m.record("IsAncestor", ancestor, descendant); err != nil {
		return false, err
	}
	return m.AncestorValue, nil
}

// LocalCommits implements Runner.
func (m *MockRunner) LocalCommits(_ context.Context, ref string) ([]CommitSummary, error) {
	if err := m.record("LocalCommits", ref); err != nil {
		return nil, err
	}
	return m.LocalCommitsValue, nil
}

// HasUpstream implements Runner.
func (m *MockRunner) HasUpstream(_ context.Context, branch string) (bool, error) {
	if err := m.record("HasUpstream", branch); err != nil {
		return false, err
	}
	return m.HasUpstreamValue, nil
}

// Fetch implements Runner.
func (m *MockRunner) Fetch(_ context.Context, remote string) error {
	return m.record("Fetch", remote)
}

// Worktrees implements Runner.
func (m *MockRunner) Worktrees(_ context.Context) ([]*WorktreeEntry, error) {
	if err := m.record("Worktrees"); err != nil {
		return nil, err
	}
	return m.WorktreesValue, nil
}

// LinkedWorktreeName implements Runner.
func (m *MockRunner) LinkedWorktreeName(_ context.Context) (string, error) {
	if err := m.record("LinkedWorktreeName"); err != nil {
		return "", err
	}
	return m.LinkedNameValue, nil
}

// AddWorktree implements Runner.
func (m *MockRunner) AddWorktree(_ context.Context, path, branch string, opts WorktreeAddOptions) error {
	return m.record("AddWorktree", path, branch, fmt.Sprintf("create=%t", opts.CreateBranch))
}

// MockHubRunner is a scriptable in-memory HubRunner.
type MockHubRunner struct {
	mu    sync.Mutex
	calls []string

	// Fail maps a method name to the error that method should return.
	Fail map[string]error

	// CreatedPR is returned by CreatePR.
	CreatedPR *PR
	// ExistingPR is returned by GetPR and GetPRByBranch (nil = no PR).
	ExistingPR *PR
	// RemoteBranch is returned by RemoteBranchExists.
	RemoteBranch bool
}

// NewMockHubRunner returns a MockHubRunner with a created-PR default.
func NewMockHubRunner() *MockHubRunner {
	return &MockHubRunner{
		Fail:      map[string]error{},
		CreatedPR: &PR{Number: 42, URL: "https://github.com/acme/widgets/pull/42", State: "OPEN"},
	}
}

// Calls returns a copy of the recorded call log.
func (m *MockHubRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockHubRunner) record(method string, args ...string) error {
	m.mu.Lock()
	entry := method
	if len(args) > 0 {
		entry = method + " " + strings.Join(args, " ")
	}
	m.calls = append(m.calls, entry)
	err := m.Fail[method]
	m.mu.Unlock()
	return err
}

// CreatePR implements HubRunner.
func (m *MockHubRunner) CreatePR(_ context.Context, opts PRCreateOptions) (*PR, error) {
	if err := m.record("CreatePR", opts.HeadBranch, opts.BaseBranch, fmt.Sprintf("draft=%t", opts.Draft)); err != nil {
		return nil, err
	}
	pr := *m.CreatedPR
	pr.HeadBranch = opts.HeadBranch
	pr.Title = opts.Title
	pr.IsDraft = opts.Draft
	return &pr, nil
}

// GetPR implements HubRunner.
func (m *MockHubRunner) GetPR(_ context.Context, number int) (*PR, error) {
	if err := m.record("GetPR", fmt.Sprintf("%d", number)); err != nil {
		return nil, err
	}
	return m.ExistingPR, nil
}

// GetPRByBranch implements HubRunner.
func (m *MockHubRunner) GetPRByBranch(_ context.Context, branch string) (*PR, error) {
	if err := m.record("GetPRByBranch", branch); err != nil {
		return nil, err
	}
	return m.ExistingPR, nil
}

// RemoteBranchExists implements HubRunner.
func (m *MockHubRunner) RemoteBranchExists(_ context.Context, branch string) (bool, error) {
	if err := m.record("RemoteBranchExists", branch); err != nil {
		return false, err
	}
	return m.RemoteBranch, nil
}
