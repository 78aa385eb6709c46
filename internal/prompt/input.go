package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
)

// ErrCancelled is returned when the user aborts a prompt with Ctrl+C or EOF.
var ErrCancelled = errors.New("cancelled by user")

// Prompter interface wraps basic prompting functionality for testability
type Prompter interface {
	Prompt(string) (string, error)
	Close() error
}

// LinerPrompter wraps liner.State to implement Prompter interface
type LinerPrompter struct {
	*liner.State
}

// NewLinerPrompter creates a new liner-based prompter
func NewLinerPrompter() Prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &LinerPrompter{State: line}
}

// Confirmer asks yes/no questions before a rename is applied.
type Confirmer struct {
	prompter Prompter
}

// NewConfirmer creates a Confirmer reading answers from prompter.
func NewConfirmer(prompter Prompter) *Confirmer {
	return &Confirmer{prompter: prompter}
}

// Confirm asks question and reports whether the answer was yes.
// An empty answer means no.
func (c *Confirmer) Confirm(question string) (bool, error) {
	answer, err := c.prompter.Prompt(color.CyanString(question + " [y/N] "))
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, ErrCancelled
		}
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Close releases the terminal.
func (c *Confirmer) Close() error {
	return c.prompter.Close() //nolint:wrapcheck // direct passthrough
}
