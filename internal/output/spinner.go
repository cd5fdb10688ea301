package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// RunWithSpinner executes action while showing a spinner titled title.
// The spinner stays up until action returns, so action must honour ctx.
// On a non-interactive terminal the action runs directly.
func RunWithSpinner(ctx context.Context, title string, action func(context.Context) error) error {
	if !IsTTY() {
		return action(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- action(ctx)
	}()

	var result error
	spinnerErr := spinner.New().
		Title(title).
		Action(func() {
			result = <-errCh
		}).
		Run()
	if spinnerErr != nil {
		return fmt.Errorf("spinner error: %w", spinnerErr)
	}
	return result
}
