package ui

import (
	"context"

	"github.com/charmbracelet/huh/spinner"
)

// WithSpinner runs fn behind a spinner titled title.
// In CI mode, or when output is not a terminal, fn runs without one.
func WithSpinner(ctx context.Context, title string, fn func() error) error {
	if IsCI() || !IsInteractive() {
		return fn()
	}
	var actionErr error
	err := spinner.New().
		Context(ctx).
		Title(title).
		Action(func() {
			actionErr = fn()
		}).
		Run()
	if err != nil {
		return err
	}
	return actionErr
}
