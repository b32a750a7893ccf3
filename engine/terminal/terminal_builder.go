package terminal

import "github.com/gdamore/tcell/v2"

// TerminalBuilderOption is a functional option for configuring a Terminal.
// Use the With* functions to create options.
type TerminalBuilderOption func(t *terminal)

// WithScreen draws into an existing, uninitialized screen instead of the controlling terminal.
//
// Parameters:
//   - screen: the screen; NewTerminal calls Init on it
//
// Returns:
//   - TerminalBuilderOption: option function to apply
func WithScreen(screen tcell.Screen) TerminalBuilderOption {
	return func(t *terminal) {
		t.screen = screen
	}
}
