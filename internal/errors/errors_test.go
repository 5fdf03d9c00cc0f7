package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/prflow/internal/errors"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, errors.Wrap(nil, "context"))
	})

	t.Run("preserves sentinel in chain", func(t *testing.T) {
		t.Parallel()
		err := errors.Wrap(errors.ErrGitOperation, "failed to stash")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrGitOperation)
		assert.Equal(t, "failed to stash: git operation failed", err.Error())
	})
}

func TestWrapf(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, errors.Wrapf(nil, "context %s", "x"))
	})

	t.Run("formats message and preserves chain", func(t *testing.T) {
		t.Parallel()
		err := errors.Wrapf(errors.ErrActionNotAvailable, "action %q rejected", "empty_commit")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrActionNotAvailable)
		assert.Contains(t, err.Error(), `action "empty_commit" rejected`)
	})
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "mapped sentinel",
			err:      errors.ErrNotGitRepo,
			contains: "git repository",
		},
		{
			name:     "wrapped sentinel still maps",
			err:      fmt.Errorf("analyze: %w", errors.ErrDetachedHead),
			contains: "HEAD is detached",
		},
		{
			name:     "unmapped error falls back to Error()",
			err:      stderrors.New("something odd"),
			contains: "something odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, errors.UserMessage(tt.err), tt.contains)
		})
	}

	t.Run("nil error returns empty", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, errors.UserMessage(nil))
	})
}

func TestActionable(t *testing.T) {
	t.Parallel()

	t.Run("mapped sentinel has suggestion", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, errors.Actionable(errors.ErrActionNotAvailable), "prflow state")
	})

	t.Run("unmapped error has no suggestion", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, errors.Actionable(stderrors.New("plain")))
	})
}
