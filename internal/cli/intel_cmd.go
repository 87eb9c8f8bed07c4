// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jeranaias/icewarden/internal/intel"
)

// HandleIntel handles "icewarden intel [addresses|rules]". It never connects.
func (a *App) HandleIntel(args Args) error {
	p := NewArgParser(args.Raw)
	if unknown := p.Unknown(); len(unknown) > 0 {
		return ErrUnknownFlags("intel", unknown)
	}

	switch p.Subcommand() {
	case "", "show", "summary":
		return a.intelSummary(args)
	case "addresses":
		addrs := a.Intel.Addresses()
		return a.respond(args, CmdIntel, addrs, func(w io.Writer) error {
			for _, addr := range addrs {
				fmt.Fprintln(w, addr)
			}
			return nil
		})
	case "rules":
		rules := a.Intel.Rules()
		return a.respond(args, CmdIntel, rules, func(w io.Writer) error {
			for _, r := range rules {
				fmt.Fprintln(w, formatRule(r))
			}
			return nil
		})
	default:
		return ErrUnknownSubcommand("intel", p.Subcommand(), []string{"show", "addresses", "rules"})
	}
}

func (a *App) intelSummary(args Args) error {
	addresses, rules := a.Intel.Len()
	data := IntelData{
		Source:    a.intelSource(),
		Addresses: addresses,
		Rules:     rules,
	}
	return a.respond(args, CmdIntel, data, func(w io.Writer) error {
		fmt.Fprintln(w, TitleStyle.Render("Threat intelligence"))
		fmt.Fprintln(w)
		fmt.Fprintln(w, RenderField("Source", data.Source))
		fmt.Fprintln(w, RenderField("Flagged addresses", data.Addresses))
		fmt.Fprintln(w, RenderField("Environment rules", data.Rules))
		return nil
	})
}

func (a *App) intelSource() string {
	if a.Config.Intel.File == "" {
		return "built-in"
	}
	return "built-in + " + a.Config.Intel.File
}

// formatRule renders a rule as sorted KEY=value pairs.
func formatRule(r intel.Rule) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, r[k])
	}
	return strings.Join(parts, " ")
}
