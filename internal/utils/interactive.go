// Package utils holds small helpers shared across commands.
package utils

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsInteractive reports whether stdin and stdout are attached to a
// terminal and interactive prompts are allowed
func IsInteractive() bool {
	if os.Getenv("SHUNT_TEST_NO_INTERACTIVE") != "" {
		return false
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
