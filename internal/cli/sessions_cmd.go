// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions_cmd.go - Session listing, live watch and bulk kill.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/icewarden/internal/admin"
	"github.com/jeranaias/icewarden/internal/audit"
	"github.com/jeranaias/icewarden/internal/model"
	"github.com/jeranaias/icewarden/internal/remediate"
	"github.com/jeranaias/icewarden/internal/render"
	"github.com/jeranaias/icewarden/internal/secret"
	"github.com/jeranaias/icewarden/internal/util"
	"github.com/jeranaias/icewarden/internal/watch"
)

// HandleSessions handles "icewarden sessions [list|watch|kill]".
func (a *App) HandleSessions(ctx context.Context, args Args) error {
	p := NewArgParser(args.Raw)

	switch p.Subcommand() {
	case "", "list", "ls":
		return a.sessionsList(ctx, args, p)
	case "watch", "top":
		return a.sessionsWatch(ctx, args, p)
	case "kill":
		return a.sessionsKill(ctx, args, p)
	default:
		return ErrUnknownSubcommand("sessions", p.Subcommand(), []string{"list", "watch", "kill"})
	}
}

func (a *App) sessionsList(ctx context.Context, args Args, p *ArgParser) error {
	if unknown := p.Unknown("format", "output", "limit", "user", "suspicious"); len(unknown) > 0 {
		return ErrUnknownFlags("sessions list", unknown)
	}

	format := strings.ToLower(p.FlagOrDefault("format", "table"))
	if format != "table" && format != "csv" {
		return ErrUnsupportedFormat(format, []string{"table", "csv"})
	}
	output := p.Flag("output")
	if output != "" && format != "csv" {
		return &ValidationError{Field: "output", Value: output, Reason: "only supported with --format csv"}
	}
	limit, err := a.limit(p)
	if err != nil {
		return err
	}

	filter := admin.SessionFilter{User: p.Flag("user"), SuspiciousOnly: p.BoolFlag("suspicious")}
	sessions, err := a.service(0, nil).ListSessions(ctx, filter)
	if err != nil {
		return err
	}

	if args.JSON {
		return a.respond(args, CmdSessions, sessionsOrEmpty(sessions), nil)
	}
	if format == "csv" {
		return a.writeSessionsCSV(sessions, output)
	}

	v := render.Render(sessions, render.SessionColumns, render.SessionTransforms(a.Intel, a.Now), limit)
	v.Title = sessionsTitle(filter, len(sessions))
	fmt.Fprintln(a.Stdout, v.String())
	return nil
}

func sessionsTitle(f admin.SessionFilter, n int) string {
	kind := "Active sessions"
	if f.SuspiciousOnly {
		kind = "Suspicious sessions"
	}
	if f.User != "" {
		return fmt.Sprintf("%s of %s: %d", kind, f.User, n)
	}
	return fmt.Sprintf("%s: %d", kind, n)
}

func sessionsOrEmpty(s []model.Session) []model.Session {
	if s == nil {
		return []model.Session{}
	}
	return s
}

// writeSessionsCSV dumps every session field, unbounded.
func (a *App) writeSessionsCSV(sessions []model.Session, path string) error {
	if len(sessions) == 0 {
		fmt.Fprintln(a.Stderr, "No data to print.")
		return nil
	}
	v := render.Render(sessions, render.SessionFieldColumns(), nil, 0)
	if path == "" {
		return v.CSV(a.Stdout)
	}
	if err := util.WriteFileAtomic(path, 0600, v.CSV); err != nil {
		return NewCommandError("sessions", "list", "could not write "+path, err)
	}
	fmt.Fprintf(a.Stderr, "Wrote %d sessions to %s\n", len(sessions), path)
	return nil
}

func (a *App) sessionsWatch(ctx context.Context, args Args, p *ArgParser) error {
	if unknown := p.Unknown("user", "interval"); len(unknown) > 0 {
		return ErrUnknownFlags("sessions watch", unknown)
	}
	if args.JSON {
		return &ValidationError{Field: "json", Reason: "sessions watch is interactive; use sessions list --json"}
	}
	interval, err := p.FlagDurationOrDefault("interval", a.Config.Watch.Interval)
	if err != nil {
		return err
	}

	svc := a.service(0, nil, admin.WithWatchOptions(watch.WithInterval(interval)))
	return svc.Watch(ctx, p.Flag("user"), func(ctx context.Context, w *watch.Watcher) error {
		if a.Interactive {
			return watch.RunTUI(ctx, w)
		}
		return w.Run(ctx, NewScreen(a.Stdout, false))
	})
}

func (a *App) sessionsKill(ctx context.Context, args Args, p *ArgParser) error {
	if unknown := p.Unknown("all", "id", "user", "suspicious", "confirm"); len(unknown) > 0 {
		return ErrUnknownFlags("sessions kill", unknown)
	}

	selectors := 0
	for _, f := range []string{"all", "id", "user", "suspicious"} {
		if p.HasFlag(f) {
			selectors++
		}
	}
	if selectors != 1 {
		return &ValidationError{
			Field:   "selector",
			Reason:  "exactly one of --all, --id, --user or --suspicious is required",
			Example: "icewarden sessions kill --suspicious",
		}
	}

	var (
		action string
		run    func(*admin.Service) ([]remediate.Outcome, error)
	)
	switch {
	case p.BoolFlag("all"):
		action = "kill every active session"
		run = func(s *admin.Service) ([]remediate.Outcome, error) { return s.KillAll(ctx) }
	case p.HasFlag("id"):
		id, err := p.FlagInt64("id")
		if err != nil {
			return err
		}
		action = fmt.Sprintf("kill session %d", id)
		run = func(s *admin.Service) ([]remediate.Outcome, error) { return s.KillByID(ctx, id) }
	case p.HasFlag("user"):
		user := p.Flag("user")
		if user == "" {
			return ErrMissingArgument("user", "icewarden sessions kill --user ALICE")
		}
		action = "kill every session of " + user
		run = func(s *admin.Service) ([]remediate.Outcome, error) { return s.KillByUser(ctx, user) }
	default:
		action = "kill every suspicious session"
		run = func(s *admin.Service) ([]remediate.Outcome, error) { return s.KillSuspicious(ctx) }
	}

	if err := a.confirm(args, p, action); err != nil {
		return err
	}
	svc := a.service(0, a.batchScreen(args))
	outcomes, err := a.audited("kill", func() ([]remediate.Outcome, error) { return run(svc) })
	return a.finishBatch(args, CmdSessions, "kill", outcomes, err)
}

// =============================================================================
// BATCH HELPERS (shared with users_cmd.go)
// =============================================================================

func (a *App) confirm(args Args, p *ArgParser, action string) error {
	return RequireConfirmation(a.Stdout, a.Prompter, action, nil, ConfirmationOptions{
		ConfirmFlag: p.BoolFlag("confirm"),
		JSONMode:    args.JSON,
		Interactive: a.Interactive,
	})
}

// audited runs a batch and records its outcomes in the audit trail. The
// batch does not start when the trail cannot be opened.
func (a *App) audited(action string, run func() ([]remediate.Outcome, error)) ([]remediate.Outcome, error) {
	path, err := a.Config.Audit.Path()
	if err != nil {
		return nil, NewCommandError(action, "audit", "could not locate the audit log", err)
	}

	var trail *audit.Logger
	if path != "" {
		trail, err = audit.Open(path,
			audit.WithIdentity(a.Config.Snowflake.User, a.Config.Snowflake.Account),
			audit.WithClock(a.Now),
		)
		if err != nil {
			return nil, NewCommandError(action, "audit", "could not open "+path, err)
		}
		defer trail.Close()
	}

	outcomes, runErr := run()
	if err := trail.Record(action, outcomes, runErr); err != nil {
		a.Log.Error("audit record failed", zap.String("path", path), zap.Error(err))
		fmt.Fprintf(a.Stderr, "%s %v\n", WarningStyle.Render("[WARN]"), err)
	}
	return outcomes, runErr
}

// batchScreen returns where batch frames go; JSON mode draws none.
func (a *App) batchScreen(args Args) remediate.Screen {
	if args.JSON {
		return nil
	}
	return NewScreen(a.Stdout, a.Interactive)
}

// finishBatch reports a finished or interrupted batch. The outcome list is
// shown even when the batch stopped early.
func (a *App) finishBatch(args Args, cmd Command, action string, outcomes []remediate.Outcome, batchErr error) error {
	summary := remediate.Summarize(outcomes)

	if args.JSON {
		data := RemediationData{Action: action, Outcomes: outcomes, Summary: summary}
		if data.Outcomes == nil {
			data.Outcomes = []remediate.Outcome{}
		}
		if batchErr != nil {
			resp := NewJSONErrorResponse(args.Name(cmd), batchErr)
			data.Interrupted = secret.Redact(batchErr.Error())
			resp.Data = data
			if err := resp.Write(a.Stdout, a.Interactive && ColorsEnabled()); err != nil {
				return err
			}
			return &reportedError{err: batchErr}
		}
		if err := a.respond(args, cmd, data, nil); err != nil {
			return err
		}
	} else {
		writeOutcomeText(a.Stdout, summary, outcomes)
	}

	if batchErr != nil {
		return batchErr
	}
	if summary.Failed() > 0 {
		err := &RemediationFailedError{Action: action, Summary: summary}
		if args.JSON {
			return &reportedError{err: err}
		}
		return err
	}
	return nil
}

func writeOutcomeText(w io.Writer, summary remediate.Summary, outcomes []remediate.Outcome) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderSummary(summary))
	for _, o := range outcomes {
		if o.Status == remediate.Failed && o.Err != nil {
			fmt.Fprintf(w, "  %s %s\n", ErrorStyle.Render(o.Target), DimStyle.Render(secret.Redact(o.Err.Error())))
		}
	}
}
