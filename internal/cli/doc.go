// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses icewarden's command line and runs its commands.
//
// # Commands
//
//	sessions list|watch|kill   Active sessions
//	users list|disable|reset   Accounts
//	intel                      Loaded threat intelligence
//	config init|show           Configuration file
//	version, help
//
// # Output
//
// Listings render as bounded tables sized to the terminal. With --json every
// command writes one envelope:
//
//	{"success": true, "data": ..., "error": null, "timestamp": "...", "command": "sessions list"}
//
// Remediation commands draw a live table while they run and exit with
// ExitRemediationFailed when any item failed.
package cli
