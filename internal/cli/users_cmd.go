// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// users_cmd.go - Account listing, disabling and credential resets.

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/icewarden/internal/admin"
	"github.com/jeranaias/icewarden/internal/model"
	"github.com/jeranaias/icewarden/internal/remediate"
	"github.com/jeranaias/icewarden/internal/render"
)

// HandleUsers handles "icewarden users [list|disable|reset]".
func (a *App) HandleUsers(ctx context.Context, args Args) error {
	p := NewArgParser(args.Raw)

	switch p.Subcommand() {
	case "", "list", "ls":
		return a.usersList(ctx, args, p)
	case "disable":
		return a.usersRemediate(ctx, args, p, "disable", (*admin.Service).Disable)
	case "reset":
		return a.usersRemediate(ctx, args, p, "reset", (*admin.Service).ResetCredentials)
	default:
		return ErrUnknownSubcommand("users", p.Subcommand(), []string{"list", "disable", "reset"})
	}
}

func (a *App) usersList(ctx context.Context, args Args, p *ArgParser) error {
	if unknown := p.Unknown("suspicious", "inactive", "days", "limit"); len(unknown) > 0 {
		return ErrUnknownFlags("users list", unknown)
	}
	limit, err := a.limit(p)
	if err != nil {
		return err
	}
	days, err := a.days(p)
	if err != nil {
		return err
	}

	filter := admin.UserFilter{SuspiciousOnly: p.BoolFlag("suspicious"), InactiveOnly: p.BoolFlag("inactive")}
	users, err := a.service(days, nil).ListUsers(ctx, filter)
	if err != nil {
		return err
	}

	if args.JSON {
		if users == nil {
			users = []model.User{}
		}
		return a.respond(args, CmdUsers, users, nil)
	}

	v := render.Render(users, render.UserColumns, render.UserTransforms(a.Now), limit)
	v.Title = usersTitle(filter, len(users))
	fmt.Fprintln(a.Stdout, v.String())
	return nil
}

func usersTitle(f admin.UserFilter, n int) string {
	switch {
	case f.SuspiciousOnly && f.InactiveOnly:
		return fmt.Sprintf("Suspicious inactive users: %d", n)
	case f.SuspiciousOnly:
		return fmt.Sprintf("Suspicious users: %d", n)
	case f.InactiveOnly:
		return fmt.Sprintf("Inactive users: %d", n)
	}
	return fmt.Sprintf("Users: %d", n)
}

type userRemediation func(*admin.Service, context.Context, admin.Target) ([]remediate.Outcome, error)

func (a *App) usersRemediate(ctx context.Context, args Args, p *ArgParser, action string, run userRemediation) error {
	if unknown := p.Unknown("user", "suspicious", "inactive", "days", "confirm"); len(unknown) > 0 {
		return ErrUnknownFlags("users "+action, unknown)
	}
	days, err := a.days(p)
	if err != nil {
		return err
	}

	target := admin.Target{
		User:       p.Flag("user"),
		Suspicious: p.BoolFlag("suspicious"),
		Inactive:   p.BoolFlag("inactive"),
	}
	if p.HasFlag("user") && target.User == "" {
		return ErrMissingArgument("user", "icewarden users "+action+" --user ALICE")
	}
	if err := target.Validate(); err != nil {
		return &ValidationError{
			Field:   "selector",
			Reason:  "exactly one of --user, --suspicious or --inactive is required",
			Example: "icewarden users " + action + " --inactive --days 120",
		}
	}
	if days > 0 && !target.Inactive {
		return &ValidationError{Field: "days", Value: p.Flag("days"), Reason: "only applies with --inactive"}
	}

	if err := a.confirm(args, p, fmt.Sprintf("%s %s", action, target)); err != nil {
		return err
	}
	svc := a.service(days, a.batchScreen(args))
	outcomes, err := a.audited(action, func() ([]remediate.Outcome, error) { return run(svc, ctx, target) })
	return a.finishBatch(args, CmdUsers, action, outcomes, err)
}
