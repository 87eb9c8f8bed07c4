// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the renderer and the CLI.
//
// # Key Functions
//
// Display text:
//   - Truncate: cut a string to a terminal display width, ending in "…"
//   - Width: terminal display width of a string (CJK and emoji count as 2)
//   - PadRight: pad a string to a display width
//
// Files:
//   - WriteFileAtomic: crash-safe replacement of a file, streamed through a writer
//
// # Usage
//
//	cell := util.Truncate(env.Application(), 24)
//
//	err := util.WriteFileAtomic("sessions.csv", 0600, func(w io.Writer) error {
//		return view.CSV(w)
//	})
package util
