package constants

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectoryConstants(t *testing.T) {
	t.Run("AppHome is hidden", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(AppHome, "."))
	})

	t.Run("log file lives under the logs dir", func(t *testing.T) {
		assert.NotEmpty(t, LogsDir)
		assert.True(t, strings.HasSuffix(LogFileName, ".log"))
	})
}

func TestGitDefaults(t *testing.T) {
	t.Run("worktree prefix marks PR worktrees", func(t *testing.T) {
		// The prefix doubles as the admin-area marker, so it must never
		// be empty and must not contain path separators.
		assert.NotEmpty(t, WorktreeNamePrefix)
		assert.NotContains(t, WorktreeNamePrefix, "/")
	})

	t.Run("branch prefix is a single path segment", func(t *testing.T) {
		assert.NotContains(t, DefaultBranchPrefix, "/")
	})

	t.Run("stash prefix identifies our stashes", func(t *testing.T) {
		assert.NotEmpty(t, StashMessagePrefix)
	})
}

func TestTimeouts(t *testing.T) {
	assert.Positive(t, DefaultGitTimeout)
	assert.Positive(t, DefaultGitHubTimeout)
	assert.GreaterOrEqual(t, DefaultGitHubTimeout, DefaultGitTimeout,
		"network calls get at least as long as local git")
}
