// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation for destructive commands.
//
// One pattern for every command:
//  1. --confirm proceeds without prompting
//  2. --json requires --confirm (no prompts in JSON mode)
//  3. without a terminal --confirm is required
//  4. otherwise the user is asked
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// ErrCancelled is returned when the user declines a confirmation prompt.
var ErrCancelled = errors.New("cancelled by user")

// Prompter reads one answer from the user.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// linePrompter prompts with line editing on the controlling terminal.
type linePrompter struct{}

func (linePrompter) Prompt(prompt string) (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	answer, err := line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return "", ErrCancelled
	}
	return answer, err
}

// ConfirmationOptions describes how a confirmation may be satisfied.
type ConfirmationOptions struct {
	// ConfirmFlag indicates --confirm was passed
	ConfirmFlag bool
	// JSONMode indicates --json was passed
	JSONMode bool
	// Interactive indicates a prompt can be shown
	Interactive bool
}

// RequireConfirmation returns nil once the action is confirmed and
// ErrCancelled when the user declines. details are shown above the prompt.
//
// Example:
//
//	err := RequireConfirmation(w, p, "kill 12 sessions", nil, ConfirmationOptions{
//	    ConfirmFlag: parser.BoolFlag("confirm"),
//	    JSONMode:    args.JSON,
//	    Interactive: CanPrompt(),
//	})
func RequireConfirmation(w io.Writer, p Prompter, action string, details []string, opts ConfirmationOptions) error {
	if opts.ConfirmFlag {
		return nil
	}
	if opts.JSONMode {
		return &ValidationError{
			Field:   "confirm",
			Reason:  "destructive commands in JSON mode require --confirm",
			Example: "icewarden --json sessions kill --suspicious --confirm",
		}
	}
	if !opts.Interactive {
		return &TTYRequiredError{Operation: action}
	}
	if p == nil {
		p = linePrompter{}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, WarningStyle.Render("WARNING: Destructive Action"))
	for _, d := range details {
		fmt.Fprintf(w, "  %s\n", d)
	}
	fmt.Fprintln(w)

	answer, err := p.Prompt(fmt.Sprintf("Are you sure you want to %s? [y/N]: ", action))
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return ErrCancelled
		}
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return ErrCancelled
	}
}
