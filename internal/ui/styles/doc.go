// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the colour palette and text styles for icewarden.
//
// # Colour Palette
//
// Colours are lipgloss.AdaptiveColor values so output reads on both light and
// dark terminals:
//   - Cyan: headers and brand
//   - Emerald: killed and disabled items
//   - Purple: reset items
//   - Rose: failures and threat-intelligence matches
//   - Amber: items not yet processed
//
// # Styles
//
// Cells that begin with Marker are drawn with Flagged. Remediation status
// labels are drawn with Status. CellStyle combines both rules and is what the
// table renderer applies to every cell.
//
// # Usage
//
//	fmt.Println(styles.Header.Render("Active sessions"))
//	fmt.Println(styles.Status("Failed").Render("Failed"))
package styles
