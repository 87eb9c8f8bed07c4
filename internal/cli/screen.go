// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Screen draws frames of the watch loop and remediation batches. On a
// terminal each frame replaces the previous one; otherwise frames are
// appended, separated by a blank line.
type Screen struct {
	out   *termenv.Output
	clear bool
}

// NewScreen creates a Screen on w. clear selects replace-in-place drawing.
func NewScreen(w io.Writer, clear bool) *Screen {
	return &Screen{
		out:   termenv.NewOutput(w, termenv.WithProfile(GetColorProfile())),
		clear: clear,
	}
}

// Draw replaces the previous frame.
func (s *Screen) Draw(frame string) error {
	if s.clear {
		s.out.ClearScreen()
		s.out.MoveCursor(1, 1)
	}
	if _, err := fmt.Fprintln(s.out, frame); err != nil {
		return err
	}
	if !s.clear {
		_, err := fmt.Fprintln(s.out)
		return err
	}
	return nil
}
