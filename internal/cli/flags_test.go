package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	prferrors "github.com/mrz1836/prflow/internal/errors"
)

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: ExitSuccess},
		{name: "canceled menu is success", err: prferrors.ErrMenuCanceled, want: ExitSuccess},
		{name: "wrapped canceled menu", err: fmt.Errorf("menu: %w", prferrors.ErrMenuCanceled), want: ExitSuccess},
		{name: "invalid output format", err: prferrors.ErrInvalidOutputFormat, want: ExitInvalidInput},
		{name: "unknown action", err: prferrors.ErrUnknownAction, want: ExitInvalidInput},
		{name: "action not available", err: prferrors.ErrActionNotAvailable, want: ExitInvalidInput},
		{name: "cobra unknown flag", err: errors.New("unknown flag: --frobnicate"), want: ExitInvalidInput},
		{name: "git failure", err: prferrors.ErrGitOperation, want: ExitError},
		{name: "arbitrary error", err: errors.New("boom"), want: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}
