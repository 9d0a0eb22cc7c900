// Package prompt provides interactive terminal confirmation.
package prompt

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/huh"
)

// ConfirmFunc asks a yes/no question.
type ConfirmFunc func(title, description string) (bool, error)

// TerminalPrompter asks before replacing existing outputs. Prompts are
// serialized so concurrent dispatches never interleave on the terminal.
type TerminalPrompter struct {
	confirm     ConfirmFunc
	interactive func() bool
	mu          sync.Mutex
}

// NewTerminalPrompter creates a prompter backed by huh.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		confirm:     huhConfirm,
		interactive: stdinIsTerminal,
	}
}

// IsInteractive checks if we're running in an interactive terminal.
func (p *TerminalPrompter) IsInteractive() bool {
	return p.interactive()
}

// ConfirmOverwrite implements ports.OverwriteConfirmer. Without a
// terminal it declines.
func (p *TerminalPrompter) ConfirmOverwrite(path string) (bool, error) {
	if !p.IsInteractive() {
		return false, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ok, err := p.confirm(
		"Replace existing output?",
		fmt.Sprintf("%s already exists.", path),
	)
	if err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return ok, nil
}

func huhConfirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Replace").
		Negative("Keep").
		Value(&ok).
		Run()
	return ok, err
}

func stdinIsTerminal() bool {
	// Check if stdin is a terminal (that's what we're reading from)
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	// Check if it's a character device (terminal) and not a pipe/file
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
