// This file provides the interactive prompts used at user decision points,
// built on Charm Huh. Menus support arrow-key navigation, Enter to select,
// and Esc to cancel; cancellation surfaces as ErrMenuCanceled rather than a
// hard error so callers can exit cleanly.
package tui

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	prferrors "github.com/mrz1836/prflow/internal/errors"
)

// MinMenuWidth is the minimum usable width for menu content.
const MinMenuWidth = 40

// DefaultMenuWidth is the menu width used when the terminal size is unknown.
const DefaultMenuWidth = 80

// TerminalEdgeMargin is left between menu content and the terminal edge.
const TerminalEdgeMargin = 4

// Option represents a selectable menu option.
type Option struct {
	// Label is the display text shown to the user.
	Label string
	// Description is optional help text appended to the label.
	Description string
	// Value is returned when this option is selected.
	Value string
}

// Select presents a single-selection menu and returns the selected value.
// Returns ErrMenuCanceled if the user aborts, and also when no terminal is
// attached, so non-interactive runs fail closed instead of hanging.
func Select(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", prferrors.ErrMenuCanceled
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		label := opt.Label
		if opt.Description != "" {
			label = opt.Label + " - " + opt.Description
		}
		huhOptions[i] = huh.NewOption(label, opt.Value)
	}

	var selected string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected)

	if err := runForm(field); err != nil {
		return "", err
	}
	return selected, nil
}

// Confirm presents a yes/no prompt and returns the user's choice.
func Confirm(message string, defaultYes bool) (bool, error) {
	confirmed := defaultYes
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := runForm(field); err != nil {
		return false, err
	}
	return confirmed, nil
}

// runForm runs a single-field form with the prflow theme and adapted width.
func runForm(field huh.Field) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return prferrors.ErrMenuCanceled
	}

	CheckNoColor()

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(menuTheme()).
		WithWidth(adaptWidth(DefaultMenuWidth)).
		WithShowHelp(true)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return prferrors.ErrMenuCanceled
		}
		return prferrors.Wrap(err, "running prompt")
	}
	return nil
}

// adaptWidth returns a menu width that fits the terminal, capped at maxWidth.
func adaptWidth(maxWidth int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return maxWidth
	}

	available := width - TerminalEdgeMargin
	if maxWidth > 0 && maxWidth < available {
		return maxWidth
	}
	if available < MinMenuWidth {
		return MinMenuWidth
	}
	return available
}

// menuTheme maps the semantic colors onto Huh form states.
func menuTheme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(ColorSuccess)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	t.Help.Ellipsis = t.Help.Ellipsis.Foreground(ColorMuted)

	return t
}
